package mcfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoadInfo(t *testing.T) {
	dir := t.TempDir()
	info := &ServerInfo{
		Version: "1.21.1",
		Dist:    "paper",
		JarFile: "paper-1.21.1-40.jar",
		JavaBin: "/usr/bin/java",
		Port:    25565,
		MinRAM:  "512M",
		MaxRAM:  "4G",
	}
	require.NoError(t, SaveInfo(dir, info))
	assert.False(t, info.CreatedAt.IsZero())

	loaded, err := LoadInfo(dir)
	require.NoError(t, err)
	assert.Equal(t, "1.21.1", loaded.Version)
	assert.Equal(t, "paper", loaded.Dist)
	assert.Equal(t, "paper-1.21.1-40.jar", loaded.JarFile)
}

func TestLoadInfoDetectsUnmanagedJar(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "custom-server.jar"), []byte("jar"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "server.jar"), []byte("jar"), 0644))

	info, err := LoadInfo(dir)
	require.NoError(t, err)
	// the conventional name wins over other jars
	assert.Equal(t, "server.jar", info.JarFile)
	assert.Equal(t, "java", info.JavaBin)
	assert.Equal(t, 25565, info.Port)
}

func TestLoadInfoFailsOnEmptyDir(t *testing.T) {
	_, err := LoadInfo(t.TempDir())
	assert.Error(t, err)
}
