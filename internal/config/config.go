// Package config reads runtime settings from the environment. A .env file
// at the project root is loaded first when present.
package config

import (
	"os"
	"strings"

	"gptlink/internal/database"
	"gptlink/internal/utils"
)

const (
	EnvDBPath         = "GPTLINK_DB_PATH"
	EnvAPIBase        = "GPTLINK_API_BASE"
	EnvLogLevel       = "GPTLINK_LOG_LEVEL"
	EnvKeyringBackend = "GPTLINK_KEYRING_BACKEND"

	DefaultAPIBase        = "http://127.0.0.1:8080"
	DefaultRepositoryLink = "https://github.com/gptlink/gptlink-web"
)

type Config struct {
	DBPath         string
	APIBase        string
	LogLevel       string
	KeyringBackend string
	RepositoryLink string
}

// Load returns the configuration. A missing .env file is not an error.
func Load() Config {
	_ = utils.LoadEnv()
	return FromEnv()
}

func FromEnv() Config {
	cfg := Config{
		DBPath:         env(EnvDBPath, database.GetDefaultDBPath()),
		APIBase:        strings.TrimRight(env(EnvAPIBase, DefaultAPIBase), "/"),
		LogLevel:       env(EnvLogLevel, "info"),
		KeyringBackend: env(EnvKeyringBackend, ""),
		RepositoryLink: DefaultRepositoryLink,
	}
	if database.IsDevelopment() && os.Getenv(EnvLogLevel) == "" {
		cfg.LogLevel = "debug"
	}
	return cfg
}

func env(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
