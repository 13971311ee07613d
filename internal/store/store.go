package store

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	dirName        = ".gtd"
	sqliteFileName = "gtd.sqlite"
)

// Store is a workspace directory holding the SQLite index and attachment files.
// It is a value type; every operation opens the database for its own duration.
type Store struct {
	Dir string
}

// DiscoverDir walks up from start looking for a .gtd directory.
func DiscoverDir(start string) (string, bool) {
	dir := start
	for {
		candidate := filepath.Join(dir, dirName)
		if st, err := os.Stat(candidate); err == nil && st.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// DefaultDir resolves the workspace dir: GTD_DIR, then a .gtd directory found
// from the working directory upwards, then ~/.gtd.
func DefaultDir() (string, error) {
	if v := strings.TrimSpace(os.Getenv("GTD_DIR")); v != "" {
		return v, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if found, ok := DiscoverDir(cwd); ok {
		return found, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, dirName), nil
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) sqlitePath() string {
	return filepath.Join(filepath.Clean(s.Dir), sqliteFileName)
}

// LogPath is where the workspace log file lives.
func (s Store) LogPath() string {
	return filepath.Join(filepath.Clean(s.Dir), "gtd.log")
}
