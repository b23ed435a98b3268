package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Database    DatabaseConfig    `toml:"database"`
	Server      ServerConfig      `toml:"server"`
	Limits      LimitsConfig      `toml:"limits"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	MusicBrainz MusicBrainzConfig `toml:"musicbrainz"`
	AudioDB     AudioDBConfig     `toml:"audiodb"`
	YouTube     YouTubeConfig     `toml:"youtube"`
}

// MusicBrainzConfig contains the MusicBrainz client identification.
//
// MusicBrainz requires a meaningful User-Agent with contact information.
type MusicBrainzConfig struct {
	AppName string `toml:"app_name"`
	Contact string `toml:"contact"`
}

// AudioDBConfig contains the TheAudioDB API key. The free tier key is "2".
type AudioDBConfig struct {
	APIKey string `toml:"api_key"`
}

// YouTubeConfig contains YouTube Data API credentials.
//
// Either an API key (read-only public data) or an OAuth client pair.
type YouTubeConfig struct {
	APIKey       string `toml:"api_key"`
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
	TokenPath    string `toml:"token_path"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains settings for the local OAuth callback server.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// LimitsConfig contains per-service rate limiter windows.
type LimitsConfig struct {
	MusicBrainz LimitConfig `toml:"musicbrainz"`
	AudioDB     LimitConfig `toml:"audiodb"`
	YouTube     LimitConfig `toml:"youtube"`
}

// LimitConfig is a sliding-window rate limit: at most MaxCalls admissions in any trailing WindowMS interval.
type LimitConfig struct {
	MaxCalls int `toml:"max_calls"`
	WindowMS int `toml:"window_ms"`
}

// Window returns the configured window as a [time.Duration].
func (l LimitConfig) Window() time.Duration {
	return time.Duration(l.WindowMS) * time.Millisecond
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
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
		return fmt.Errorf("config file already exists at %s: %w", path, err)
	}

	// Write the embedded example config to the file
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
