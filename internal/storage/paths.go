// Package storage persists game records and aggregate results in BadgerDB.
package storage

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const appName = "chesscore"

// userDataHome is the per-user base directory for application data:
// ~/Library/Application Support on macOS, %APPDATA% on Windows and
// $XDG_DATA_HOME (or ~/.local/share) elsewhere.
func userDataHome() (string, error) {
	switch runtime.GOOS {
	case "darwin":
		return fromHome("Library", "Application Support")
	case "windows":
		if dir := os.Getenv("APPDATA"); dir != "" {
			return dir, nil
		}
		return fromHome("AppData", "Roaming")
	}
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return dir, nil
	}
	return fromHome(".local", "share")
}

func fromHome(elem ...string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(append([]string{home}, elem...)...), nil
}

// expandHome resolves a leading ~ so config files can name paths like
// "~/chess/db".
func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	return fromHome(strings.TrimPrefix(strings.TrimPrefix(path, "~"), "/"))
}

// GetDataDir returns the chesscore data directory under the user data home,
// creating it if needed.
func GetDataDir() (string, error) {
	base, err := userDataHome()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(base, appName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// GetDatabaseDir returns the BadgerDB directory. A non-empty override (the
// storage.dir setting) is used as is after ~ expansion; otherwise the database
// lives in the "db" folder of the data directory.
func GetDatabaseDir(override string) (string, error) {
	var dir string
	if override != "" {
		expanded, err := expandHome(override)
		if err != nil {
			return "", err
		}
		dir = filepath.Clean(expanded)
	} else {
		dataDir, err := GetDataDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(dataDir, "db")
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create database directory: %w", err)
	}
	log.Printf("[STORAGE] Database directory: %s", dir)
	return dir, nil
}
