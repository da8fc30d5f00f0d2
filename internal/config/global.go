package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// GlobalConfig represents configuration stored in ~/.config/refdesk/config.yml.
type GlobalConfig struct {
	GeminiAPIKey   string `yaml:"gemini_api_key,omitempty"`
	CrossrefMailto string `yaml:"crossref_mailto,omitempty"`
	DefaultLibrary string `yaml:"default_library,omitempty"`
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "refdesk"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"
	// GeminiKeyEnv overrides the configured API key when set.
	GeminiKeyEnv = "GEMINI_API_KEY"
)

// globalConfigCache caches the loaded global config.
var globalConfigCache *GlobalConfig

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/refdesk/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// LoadGlobalConfig loads the global configuration file.
// Returns an empty config (not an error) if the file doesn't exist.
func LoadGlobalConfig() (*GlobalConfig, error) {
	if globalConfigCache != nil {
		return globalConfigCache, nil
	}

	path := GlobalConfigPath()
	if path == "" {
		return &GlobalConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &GlobalConfig{}, nil
		}
		return nil, fmt.Errorf("reading global config: %w", err)
	}

	var cfg GlobalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing global config: %w", err)
	}

	if cfg.DefaultLibrary != "" {
		cfg.DefaultLibrary = ExpandPath(cfg.DefaultLibrary)
	}

	globalConfigCache = &cfg
	return &cfg, nil
}

// SaveGlobalConfig writes the global configuration file, creating its
// directory if needed, and refreshes the cache.
func SaveGlobalConfig(cfg *GlobalConfig) error {
	path := GlobalConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine global config path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding global config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing global config: %w", err)
	}

	globalConfigCache = cfg
	return nil
}

// ResetGlobalConfigCache clears the cached global config.
// Useful for testing.
func ResetGlobalConfigCache() {
	globalConfigCache = nil
}

// GetGeminiAPIKey returns the Gemini API key. The GEMINI_API_KEY
// environment variable takes precedence over the global config.
func GetGeminiAPIKey() string {
	if key := os.Getenv(GeminiKeyEnv); key != "" {
		return key
	}
	cfg, _ := LoadGlobalConfig()
	return cfg.GeminiAPIKey
}

// GetCrossrefMailto returns the contact address sent with registry
// lookups, if configured.
func GetCrossrefMailto() string {
	cfg, _ := LoadGlobalConfig()
	return cfg.CrossrefMailto
}

// GetDefaultLibrary returns the configured fallback library path.
func GetDefaultLibrary() string {
	cfg, _ := LoadGlobalConfig()
	return cfg.DefaultLibrary
}
