package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// BaseDir returns ~/.textkeep.
func BaseDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".textkeep")
}

// ConfigPath returns the global config file path.
func ConfigPath() string {
	return filepath.Join(BaseDir(), "config.toml")
}

// LogDir returns the log directory.
func LogDir() string {
	return filepath.Join(BaseDir(), "logs")
}

// LogPath returns the log file path.
func LogPath() string {
	return filepath.Join(LogDir(), "textkeep.log")
}

// DefaultStorePath returns the default location of the Messages database.
func DefaultStorePath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, "Library", "Messages", "chat.db")
}

// AddressBookPath returns the default address book file path.
func AddressBookPath() string {
	return filepath.Join(BaseDir(), "contacts.toml")
}

// ExpandHome expands a leading ~ or ~/ to the current user's home directory.
// Paths without the shorthand are returned unchanged.
func ExpandHome(path string) string {
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// EnsureDirs creates the base directory tree with proper permissions.
func EnsureDirs() error {
	dirs := []string{
		BaseDir(),
		LogDir(),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0700); err != nil {
			return err
		}
	}
	return nil
}
