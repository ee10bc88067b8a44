// Package config provides configuration utilities for the application.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// ExpandPath expands ~ and environment variables in a file path.
// It handles both ~ for home directory and $VAR style environment variables.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	// First expand tilde if present
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	// Then expand environment variables
	return os.ExpandEnv(path)
}

// DefaultDatabasePath is where the unit directory lives when nothing else is
// configured.
const DefaultDatabasePath = "~/.local/share/rentflow/rentflow.db"

// DatabasePath resolves the SQLite database location.
// It follows this precedence:
// 1. Viper configuration (database.path, from config file or RENTFLOW_ env vars)
// 2. Direct environment variable (DATABASE_PATH)
// 3. Default value
func DatabasePath() string {
	if v := viper.GetString("database.path"); v != "" {
		return ExpandPath(v)
	}
	if v := os.Getenv("DATABASE_PATH"); v != "" {
		return ExpandPath(v)
	}
	return ExpandPath(DefaultDatabasePath)
}
