package config

import (
	"strings"
)

// Config holds all application configuration in a structured way.
type Config struct {
	App     AppConfig
	Paths   PathsConfig
	Pending PendingConfig
	Valkey  ValkeyConfig
	Chat    ChatConfig
}

type AppConfig struct {
	Version  string
	Port     string
	Debug    bool
	LogLevel string
	BasePath string
}

type PathsConfig struct {
	// ConfigFile is the main YAML document holding the allow-lists.
	ConfigFile string
	LockFile   string
}

const (
	PendingBackendFile   = "file"
	PendingBackendValkey = "valkey"
)

type PendingConfig struct {
	Backend string
}

type ValkeyConfig struct {
	Address   string
	Password  string
	DB        int
	KeyPrefix string
}

type ChatConfig struct {
	CommandPrefix string
}

// Global provides access to the loaded configuration globally
var Global *Config

// LoadConfig loads configuration from Environment Variables or defaults.
func LoadConfig() (*Config, error) {
	configFile := getEnv("APP_CONFIG_FILE", "config.yaml")

	cfg := &Config{
		App: AppConfig{
			Version:  "v1.0.0",
			Port:     getEnv("APP_PORT", "3000"),
			Debug:    getEnvBool("APP_DEBUG", false),
			LogLevel: strings.ToLower(getEnv("APP_LOG_LEVEL", "info")),
			BasePath: strings.TrimRight(getEnv("APP_BASE_PATH", ""), "/"),
		},
		Paths: PathsConfig{
			ConfigFile: configFile,
			LockFile:   getEnv("APP_LOCK_FILE", configFile+".lock"),
		},
		Pending: PendingConfig{
			Backend: strings.ToLower(getEnv("PENDING_BACKEND", PendingBackendFile)),
		},
		Valkey: ValkeyConfig{
			Address:   getEnv("VALKEY_ADDRESS", "localhost:6379"),
			Password:  getEnv("VALKEY_PASSWORD", ""),
			DB:        getEnvInt("VALKEY_DB", 0),
			KeyPrefix: getEnv("VALKEY_KEY_PREFIX", "gatekeeper:"),
		},
		Chat: ChatConfig{
			CommandPrefix: getEnv("COMMAND_PREFIX", "!"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	Global = cfg
	return cfg, nil
}
