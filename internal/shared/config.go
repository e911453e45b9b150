package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	YouTube  YouTubeConfig  `toml:"youtube"`
	Fetch    FetchConfig    `toml:"fetch"`
	Classify ClassifyConfig `toml:"classify"`
	Sheet    SheetConfig    `toml:"sheet"`
}

// YouTubeConfig contains YouTube Data API settings.
type YouTubeConfig struct {
	APIKey     string `toml:"api_key"`
	PlaylistID string `toml:"playlist_id"`
	BaseURL    string `toml:"base_url"`
}

// FetchConfig bounds and filters the pagination loop.
type FetchConfig struct {
	MaxPages       int    `toml:"max_pages"`
	PublishedAfter string `toml:"published_after"` // YYYY-MM-DD, empty disables date filtering
}

// ClassifyConfig controls title classification.
type ClassifyConfig struct {
	Mode       string              `toml:"mode"` // "exact" or "fuzzy"
	Threshold  int                 `toml:"threshold"`
	Categories map[string][]string `toml:"categories"`
}

// SheetConfig selects and locates the persisted video sheet.
type SheetConfig struct {
	Backend      string `toml:"backend"` // "csv" or "sqlite"
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrMissingConfig, path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	// Write the embedded example config to the file
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
