// Package paths resolves the standard on-disk locations bkmr uses for its
// config file, database, and debug log.
package paths

import (
	"os"
	"path/filepath"
)

// GetConfigDir returns the user's config directory for bkmr
// (normally ~/.config/bkmr).
//
// If the home directory cannot be determined, it falls back to a directory
// under the system temporary directory. This is a best-effort fallback and
// not intended to be a security boundary.
func GetConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Clean(filepath.Join(os.TempDir(), ".bkmr-config"))
	}
	return filepath.Clean(filepath.Join(homeDir, ".config", "bkmr"))
}

// GetDataDir returns the user's data directory for bkmr (database, logs):
// ~/.bkmr.
func GetDataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Clean(filepath.Join(os.TempDir(), ".bkmr"))
	}
	return filepath.Clean(filepath.Join(homeDir, ".bkmr"))
}

// DefaultConfigPath returns the default location of config.toml.
func DefaultConfigPath() string {
	return filepath.Join(GetConfigDir(), "config.toml")
}

// DefaultDBPath returns the default location of the SQLite catalog file,
// used when BKMR_DB_URL is unset and no config file supplies db_url.
func DefaultDBPath() string {
	return filepath.Join(GetDataDir(), "bkmr.db")
}
