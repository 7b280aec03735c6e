package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the global ~/.textkeep/config.toml.
type Config struct {
	// StorePath is the Messages database to read. Empty means the
	// platform default (~/Library/Messages/chat.db).
	StorePath string `toml:"store_path"`
	// AddressBookPath is the TOML address book feeding the directory index.
	AddressBookPath string `toml:"address_book_path"`
	// PreviewLimit caps how many recent messages a preview load returns.
	PreviewLimit int `toml:"preview_limit"`
	// ScanBudgetBytes caps the blob size eligible for the exhaustive
	// decode fallback. Larger blobs still get the cheaper decode tiers.
	ScanBudgetBytes int `toml:"scan_budget_bytes"`
}

// Default returns the config used when no file exists.
func Default() *Config {
	return &Config{
		PreviewLimit:    5,
		ScanBudgetBytes: 256 * 1024,
	}
}

// Load reads config from the given path. Returns zero config and error if file missing.
func Load(path string) (*Config, error) {
	cfg := Default()
	_, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.PreviewLimit <= 0 {
		cfg.PreviewLimit = Default().PreviewLimit
	}
	if cfg.ScanBudgetBytes <= 0 {
		cfg.ScanBudgetBytes = Default().ScanBudgetBytes
	}
	return cfg, nil
}

// Save writes config to the given path, creating parent dirs as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}
