package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// AppConfig holds all user-defined persistent settings
type AppConfig struct {
	BaseURL      string `json:"base_url,omitempty"`
	Session      string `json:"session,omitempty"`
	DownloadRoot string `json:"download_root,omitempty"`
	OutputFile   string `json:"output_file,omitempty"`
	AccentColor  string `json:"accent_color,omitempty"`
}

// getConfigPath returns the absolute path to ~/.moodle-parser.json
func getConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not find user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".moodle-parser.json"), nil
}

// Load reads the application configuration from disk and applies environment
// overrides (MOODLE_BASE_URL, MOODLE_SESSION, MOODLE_DOWNLOAD_ROOT), loading a
// local .env file first when one exists. Missing file yields defaults.
func Load() (*AppConfig, error) {
	path, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	cfg := &AppConfig{}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	// .env is optional; a missing file is not an error
	_ = godotenv.Load()

	if v := os.Getenv("MOODLE_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("MOODLE_SESSION"); v != "" {
		cfg.Session = v
	}
	if v := os.Getenv("MOODLE_DOWNLOAD_ROOT"); v != "" {
		cfg.DownloadRoot = v
	}

	if cfg.DownloadRoot == "" {
		cfg.DownloadRoot = "moodle_downloads"
	}
	if cfg.OutputFile == "" {
		cfg.OutputFile = "moodle_dump.json"
	}

	return cfg, nil
}

// Save writes the application configuration back to disk.
func Save(cfg *AppConfig) error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
