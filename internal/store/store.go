package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const (
	dbFileName = "storage.sqlite"

	// DefaultQuotaBytes mirrors the per-origin budget browsers give local storage.
	DefaultQuotaBytes = 5 << 20
)

var ErrQuotaExceeded = errors.New("storage quota exceeded")

// Store is the local key-value storage. Values are opaque strings keyed by name,
// kept in a SQLite database inside Dir.
type Store struct {
	Dir string

	// QuotaBytes caps the size of a single value. Zero means DefaultQuotaBytes;
	// negative disables the check.
	QuotaBytes int
}

// ConfigDir is the per-user state directory. TASKLIST_CONFIG_DIR overrides it.
func ConfigDir() (string, error) {
	if v := strings.TrimSpace(os.Getenv("TASKLIST_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".tasklist"), nil
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

// Path is the SQLite database file.
func (s Store) Path() string {
	return filepath.Join(s.Dir, dbFileName)
}

// FileName is the base name of the database file. Watchers use it to match
// the database and its -wal/-shm siblings.
func FileName() string {
	return dbFileName
}

func (s Store) quota() int {
	if s.QuotaBytes == 0 {
		return DefaultQuotaBytes
	}
	return s.QuotaBytes
}
