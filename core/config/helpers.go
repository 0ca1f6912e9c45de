package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/sirupsen/logrus"
)

// Validate rejects settings the process cannot start with.
func (c *Config) Validate() error {
	err := validation.Errors{
		"config_file":     validation.Validate(c.Paths.ConfigFile, validation.Required),
		"pending_backend": validation.Validate(c.Pending.Backend, validation.In(PendingBackendFile, PendingBackendValkey)),
		"log_level": validation.Validate(c.App.LogLevel, validation.By(func(v any) error {
			_, err := logrus.ParseLevel(v.(string))
			return err
		})),
	}.Filter()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Settings returns a flat view of the loaded process settings.
func Settings() map[string]any {
	if Global == nil {
		return map[string]any{}
	}
	return map[string]any{
		"app_port":        Global.App.Port,
		"app_debug":       Global.App.Debug,
		"app_log_level":   Global.App.LogLevel,
		"app_version":     Global.App.Version,
		"app_config_file": Global.Paths.ConfigFile,
		"pending_backend": Global.Pending.Backend,
		"command_prefix":  Global.Chat.CommandPrefix,
	}
}

// Helpers
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		vLower := strings.ToLower(v)
		return vLower == "1" || vLower == "true" || vLower == "yes" || vLower == "on"
	}
	return fallback
}
