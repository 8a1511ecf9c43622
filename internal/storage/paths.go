// Package storage keeps a persistent journal of finished analyses.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const appName = "chesscore"

// DataDir returns the per-user directory holding chesscore state, creating
// it if needed. XDG_DATA_HOME and APPDATA are honoured where they apply.
func DataDir() (string, error) {
	base, err := dataHome()
	if err != nil {
		return "", fmt.Errorf("storage: locate data directory: %w", err)
	}
	return ensureDir(base, appName)
}

// JournalDir returns the badger directory used by the analysis journal.
func JournalDir() (string, error) {
	data, err := DataDir()
	if err != nil {
		return "", err
	}
	return ensureDir(data, "journal")
}

func dataHome() (string, error) {
	env, fallback := "XDG_DATA_HOME", []string{".local", "share"}
	switch runtime.GOOS {
	case "darwin":
		env, fallback = "", []string{"Library", "Application Support"}
	case "windows":
		env, fallback = "APPDATA", []string{"AppData", "Roaming"}
	}
	if dir := os.Getenv(env); env != "" && dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{home}, fallback...)...), nil
}

func ensureDir(elem ...string) (string, error) {
	dir := filepath.Join(elem...)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("storage: %w", err)
	}
	return dir, nil
}
