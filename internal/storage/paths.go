// Package storage persists engine options in a BadgerDB database.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const appName = "rayfish"

// DataDirEnv overrides the platform data directory when set.
const DataDirEnv = "RAYFISH_DATA"

// GetDataDir returns the directory rayfish keeps its files in, creating it if
// needed. It is $RAYFISH_DATA when set, otherwise the platform's per-user data
// directory joined with "rayfish".
func GetDataDir() (string, error) {
	dir := os.Getenv(DataDirEnv)
	if dir == "" {
		base, err := platformDataDir()
		if err != nil {
			return "", fmt.Errorf("locating data directory: %w", err)
		}
		dir = filepath.Join(base, appName)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating data directory: %w", err)
	}
	return dir, nil
}

// platformDataDir is ~/Library/Application Support on macOS, %APPDATA% on
// Windows and $XDG_DATA_HOME or ~/.local/share elsewhere.
func platformDataDir() (string, error) {
	var env string
	var fallback []string
	switch runtime.GOOS {
	case "darwin":
		fallback = []string{"Library", "Application Support"}
	case "windows":
		env, fallback = "APPDATA", []string{"AppData", "Roaming"}
	default:
		env, fallback = "XDG_DATA_HOME", []string{".local", "share"}
	}

	if env != "" {
		if dir := os.Getenv(env); dir != "" {
			return dir, nil
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{home}, fallback...)...), nil
}

// GetDatabaseDir returns the badger directory inside the data directory.
func GetDatabaseDir() (string, error) {
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}

	dbDir := filepath.Join(dataDir, "db")
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return "", fmt.Errorf("creating database directory: %w", err)
	}
	return dbDir, nil
}
