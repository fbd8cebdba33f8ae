package internal

import (
	"os"
	"path/filepath"
)

// DefaultDBPath returns the SQLite database location under the user's
// home directory.
func DefaultDBPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".travelpal", "data", "travelpal.db"), nil
}

// DefaultTextIndexDir returns the bleve keyword index location.
func DefaultTextIndexDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".travelpal", "data", "textindex"), nil
}
