package userconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	configDirName  = "briefhub"
	configFileName = "config.json"

	// DefaultAPIBaseURL is used when no config file exists yet.
	DefaultAPIBaseURL = "http://localhost:8080"
)

// CachedIdentity is the last known identity for the user session, kept so
// `whoami` and prompts can label output without a round trip. It is a cache,
// not a credential: the token in the keyring is the source of truth.
type CachedIdentity struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	IsAdmin     bool   `json:"is_admin"`
}

// UserConfig is the local CLI configuration stored in
// ~/.config/briefhub/config.json.
type UserConfig struct {
	APIBaseURL string          `json:"api_base_url"`
	Identity   *CachedIdentity `json:"identity,omitempty"`
}

// GetConfigPath returns the path to the user config file
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".config", configDirName)
	return filepath.Join(configDir, configFileName), nil
}

// Load reads the user configuration file. A missing file yields the default
// configuration rather than an error.
func Load() (*UserConfig, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return &UserConfig{APIBaseURL: DefaultAPIBaseURL}, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read user config file: %w", err)
	}

	var cfg UserConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse user config file: %w", err)
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = DefaultAPIBaseURL
	}

	return &cfg, nil
}

// Save writes the user configuration to a file
func Save(cfg *UserConfig) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal user config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write user config file: %w", err)
	}

	return nil
}

// SetAPIBaseURL updates the API base URL and saves the config.
func SetAPIBaseURL(baseURL string) error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	cfg.APIBaseURL = baseURL
	return Save(cfg)
}

// SetIdentity caches the given identity; nil clears the cache.
func SetIdentity(identity *CachedIdentity) error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	cfg.Identity = identity
	return Save(cfg)
}
