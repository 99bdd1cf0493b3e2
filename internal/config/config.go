// Package config manages application configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const envPrefix = "YTPLAYLISTS_"

// Config holds all application configuration.
type Config struct {
	YTDLP  YTDLPConfig  `yaml:"ytdlp"`
	Output OutputConfig `yaml:"output"`
	Log    LogConfig    `yaml:"log"`
}

// YTDLPConfig controls how yt-dlp is invoked.
type YTDLPConfig struct {
	BinaryPath       string   `yaml:"binary_path"`
	CookiesFile      string   `yaml:"cookies_file"`
	DiscoveryTimeout int      `yaml:"discovery_timeout"` // seconds
	FallbackTimeout  int      `yaml:"fallback_timeout"`  // seconds
	MetadataTimeout  int      `yaml:"metadata_timeout"`  // seconds
	VersionTimeout   int      `yaml:"version_timeout"`   // seconds
	ExtraArgs        []string `yaml:"extra_args"`
}

// OutputConfig controls the report.
type OutputConfig struct {
	Path         string `yaml:"path"`
	Format       string `yaml:"format"`
	SummaryLimit int    `yaml:"summary_limit"`
}

// LogConfig controls diagnostics on stderr.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns configuration with the built-in defaults.
func Default() *Config {
	return &Config{
		YTDLP: YTDLPConfig{
			BinaryPath:       "yt-dlp",
			DiscoveryTimeout: 60,
			FallbackTimeout:  90,
			MetadataTimeout:  30,
			VersionTimeout:   15,
		},
		Output: OutputConfig{
			Path:         "channel_playlists.txt",
			Format:       "text",
			SummaryLimit: 5,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load builds the configuration.
// Priority: environment (including envFile) > config file > defaults.
// Both paths are optional; a missing envFile is ignored, a missing
// configPath is an error when it was given explicitly.
func Load(configPath, envFile string) (*Config, error) {
	cfg := Default()

	if configPath != "" {
		if err := cfg.loadFromFile(configPath); err != nil {
			return nil, err
		}
	}

	if envFile != "" {
		// Existing environment variables win over the file.
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	if err := cfg.loadFromEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// loadFromEnv overrides config with YTPLAYLISTS_* environment variables.
func (c *Config) loadFromEnv() error {
	strs := map[string]*string{
		"YTDLP_PATH": &c.YTDLP.BinaryPath,
		"COOKIES":    &c.YTDLP.CookiesFile,
		"OUTPUT":     &c.Output.Path,
		"FORMAT":     &c.Output.Format,
		"LOG_LEVEL":  &c.Log.Level,
	}
	for key, dst := range strs {
		if v := os.Getenv(envPrefix + key); v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"DISCOVERY_TIMEOUT": &c.YTDLP.DiscoveryTimeout,
		"FALLBACK_TIMEOUT":  &c.YTDLP.FallbackTimeout,
		"METADATA_TIMEOUT":  &c.YTDLP.MetadataTimeout,
		"SUMMARY_LIMIT":     &c.Output.SummaryLimit,
	}
	for key, dst := range ints {
		v := os.Getenv(envPrefix + key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s%s=%q: %w", envPrefix, key, v, err)
		}
		*dst = n
	}
	return nil
}

// Validate checks configuration validity.
func (c *Config) Validate() error {
	if c.YTDLP.BinaryPath == "" {
		return fmt.Errorf("ytdlp.binary_path must not be empty")
	}
	if c.YTDLP.DiscoveryTimeout <= 0 || c.YTDLP.FallbackTimeout <= 0 ||
		c.YTDLP.MetadataTimeout <= 0 || c.YTDLP.VersionTimeout <= 0 {
		return fmt.Errorf("ytdlp timeouts must be positive")
	}
	if c.Output.Path == "" {
		return fmt.Errorf("output.path must not be empty")
	}
	switch strings.ToLower(c.Output.Format) {
	case "text", "html":
	default:
		return fmt.Errorf("output.format must be 'text' or 'html', got %q", c.Output.Format)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}
	return nil
}

// GetDiscoveryTimeout returns the per-call timeout of the print strategies.
func (c *YTDLPConfig) GetDiscoveryTimeout() time.Duration {
	return time.Duration(c.DiscoveryTimeout) * time.Second
}

// GetFallbackTimeout returns the timeout of the structured listing.
func (c *YTDLPConfig) GetFallbackTimeout() time.Duration {
	return time.Duration(c.FallbackTimeout) * time.Second
}

// GetMetadataTimeout returns the timeout of one metadata query.
func (c *YTDLPConfig) GetMetadataTimeout() time.Duration {
	return time.Duration(c.MetadataTimeout) * time.Second
}

// GetVersionTimeout returns the timeout of the --version probe.
func (c *YTDLPConfig) GetVersionTimeout() time.Duration {
	return time.Duration(c.VersionTimeout) * time.Second
}
