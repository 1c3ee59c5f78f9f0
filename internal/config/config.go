package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

/**
 * Server configuration parameters
 * @property {string} address - Daemon listening address (e.g. ":7650")
 * @property {string} mode - Application mode (debug/release/test)
 */
type ServerConfig struct {
	Address string `mapstructure:"address"`
	Mode    string `mapstructure:"mode"`
}

/**
 * Logging configuration
 * @property {string} level - Log level (debug/info/warn/error)
 * @property {string} path - Log file path, or "console" for stdout
 */
type LogConfig struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"`
}

/**
 * Minecraft server configuration
 * @property {string} dir - Directory holding the server installation
 * @property {string} version - Minecraft version (e.g. "1.21.1")
 * @property {string} dist - Distribution name (vanilla/paper/forge/fabric/quilt/neoforge/mohist/spigot)
 * @property {int} port - Server listening port
 * @property {string} min_ram - Initial JVM heap (e.g. "512M")
 * @property {string} max_ram - Maximum JVM heap (e.g. "4G")
 * @property {int} start_timeout - Seconds to wait for the ready marker
 * @property {int} stop_timeout - Seconds to wait for graceful shutdown
 */
type MinecraftConfig struct {
	Dir          string `mapstructure:"dir"`
	Version      string `mapstructure:"version"`
	Dist         string `mapstructure:"dist"`
	Port         int    `mapstructure:"port"`
	MinRAM       string `mapstructure:"min_ram"`
	MaxRAM       string `mapstructure:"max_ram"`
	StartTimeout int    `mapstructure:"start_timeout"`
	StopTimeout  int    `mapstructure:"stop_timeout"`
}

/**
 * Tunnel agent configuration
 * @property {string} service - Preferred tunnel service (ngrok/playit/zrok)
 * @property {string} command - Command template used to launch the agent
 * @property {string} authtoken - Optional agent auth token
 */
type TunnelConfig struct {
	Service   string `mapstructure:"service"`
	Command   string `mapstructure:"command"`
	Authtoken string `mapstructure:"authtoken"`
}

/**
 * JDK management configuration
 * @property {string} dir - Directory for managed JDK installs
 * @property {string} java_home - Explicit java home overriding discovery
 */
type JdkConfig struct {
	Dir      string `mapstructure:"dir"`
	JavaHome string `mapstructure:"java_home"`
}

var (
	ErrDistNotFound    = errors.New("distribution not found")
	ErrVersionNotFound = errors.New("version not found")
)

type AppConfig struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Minecraft MinecraftConfig `mapstructure:"minecraft"`
	Tunnel    TunnelConfig    `mapstructure:"tunnel"`
	Jdk       JdkConfig       `mapstructure:"jdk"`
}

/**
 * Load application configuration from YAML file
 */
func LoadConfig() (*AppConfig, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath(DataDir())

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg AppConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

var Config AppConfig

// DataDir returns the per-user data directory for caches, logs and
// managed JDK installs.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".mckeeper"
	}
	return filepath.Join(home, ".mckeeper")
}

func collectConfig(cfg *AppConfig) *AppConfig {
	if cfg.Server.Address == "" {
		cfg.Server.Address = ":7650"
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = "release"
	}
	if cfg.Minecraft.Dir == "" {
		cfg.Minecraft.Dir = "minecraft_server"
	}
	if cfg.Minecraft.Dist == "" {
		cfg.Minecraft.Dist = "vanilla"
	}
	if cfg.Minecraft.Port == 0 {
		cfg.Minecraft.Port = 25565
	}
	if cfg.Minecraft.MinRAM == "" {
		cfg.Minecraft.MinRAM = "512M"
	}
	if cfg.Minecraft.MaxRAM == "" {
		cfg.Minecraft.MaxRAM = "4G"
	}
	if cfg.Minecraft.StartTimeout == 0 {
		cfg.Minecraft.StartTimeout = 60
	}
	if cfg.Minecraft.StopTimeout == 0 {
		cfg.Minecraft.StopTimeout = 30
	}
	if cfg.Jdk.Dir == "" {
		cfg.Jdk.Dir = filepath.Join(DataDir(), "jdk")
	}
	return cfg
}

func init() {
	cfg, err := LoadConfig()
	if err == nil {
		Config = *cfg
	}
	collectConfig(&Config)
}

// ReloadConfig re-reads the configuration file and replaces the
// package-level Config in place.
func ReloadConfig() error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	Config = *cfg
	collectConfig(&Config)
	return nil
}
