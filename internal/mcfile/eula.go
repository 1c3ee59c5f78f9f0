package mcfile

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// WriteEULA accepts the Minecraft EULA for the server directory.
func WriteEULA(serverDir string) error {
	content := fmt.Sprintf(
		"#By changing the setting below to TRUE you are indicating your agreement to our EULA (https://aka.ms/MinecraftEULA).\n#%s\neula=true\n",
		time.Now().Format("Mon Jan 02 15:04:05 MST 2006"))

	path := filepath.Join(serverDir, "eula.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
