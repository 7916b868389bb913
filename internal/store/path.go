package store

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	appDir    = "englishbuddy"
	dbFile    = "englishbuddy.db"
	dbPathEnv = "ENGLISHBUDDY_DB"
)

// DefaultDBPath picks the database file and makes sure its directory
// exists. ENGLISHBUDDY_DB wins; otherwise the file lives under
// $XDG_DATA_HOME, falling back to ~/.local/share.
func DefaultDBPath() (string, error) {
	p := os.Getenv(dbPathEnv)
	if p == "" {
		base, err := dataHome()
		if err != nil {
			return "", err
		}
		p = filepath.Join(base, appDir, dbFile)
	}
	return p, EnsureDir(p)
}

func dataHome() (string, error) {
	if d := os.Getenv("XDG_DATA_HOME"); d != "" {
		return d, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".local", "share"), nil
}

// EnsureDir creates the directory that will hold path.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
