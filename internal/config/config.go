// Package config handles per-library and global configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents per-library configuration stored in .refdesk/config.json.
type Config struct {
	PDFReader string `json:"pdf_reader,omitempty"` // Reader preference: system, skim, zathura, etc.
}

const (
	// RefdeskDir marks the root of a library.
	RefdeskDir = ".refdesk"
	// ConfigFile is the per-library config file name.
	ConfigFile = "config.json"
	// RootEnv overrides library discovery when set.
	RootEnv = "REFDESK_ROOT"
)

// ValidReaders lists the supported PDF reader values.
var ValidReaders = []string{"system", "skim", "zathura", "evince", "okular"}

// RefdeskPath returns the path to the .refdesk directory from a root path.
func RefdeskPath(root string) string {
	return filepath.Join(root, RefdeskDir)
}

// ConfigPath returns the path to config.json from a root path.
func ConfigPath(root string) string {
	return filepath.Join(root, RefdeskDir, ConfigFile)
}

// IsLibrary checks if the given path contains a refdesk library.
func IsLibrary(root string) bool {
	info, err := os.Stat(RefdeskPath(root))
	return err == nil && info.IsDir()
}

// FindLibrary locates the library root. The REFDESK_ROOT environment
// variable wins when set; otherwise the search walks up from start, then
// falls back to the global config's default library.
func FindLibrary(start string) (string, error) {
	if root := os.Getenv(RootEnv); root != "" {
		root = ExpandPath(root)
		if !IsLibrary(root) {
			return "", fmt.Errorf("%s is not a refdesk library (no %s directory)", root, RefdeskDir)
		}
		return root, nil
	}

	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}
	for {
		if IsLibrary(abs) {
			return abs, nil
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			break
		}
		abs = parent
	}

	if root := GetDefaultLibrary(); root != "" && IsLibrary(root) {
		return root, nil
	}
	return "", fmt.Errorf("not in a refdesk library (no %s directory found)", RefdeskDir)
}

// Load reads per-library configuration. A missing file yields the zero
// config, not an error.
func Load(root string) (*Config, error) {
	data, err := os.ReadFile(ConfigPath(root))
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes per-library configuration.
func (c *Config) Save(root string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(ConfigPath(root), data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// ValidatePDFReader checks that the reader value is valid.
func ValidatePDFReader(reader string) error {
	if reader == "" {
		return nil // Empty defaults to "system"
	}
	for _, valid := range ValidReaders {
		if reader == valid {
			return nil
		}
	}
	return fmt.Errorf("invalid pdf_reader: %s (valid: %v)", reader, ValidReaders)
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
