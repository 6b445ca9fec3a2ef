package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"discmeta/internal/freedb"
	"discmeta/internal/transport"
)

// Config contains the program configuration
type Config struct {
	ServerURL      string `yaml:"server_url"`
	CGIPath        string `yaml:"cgi_path"`
	Hostname       string `yaml:"hostname"`
	Username       string `yaml:"username"`
	FirstHit       bool   `yaml:"first_hit"`
	Debug          bool   `yaml:"debug"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	OutputDir      string `yaml:"output_dir"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		ServerURL:      transport.DefaultServerURL,
		CGIPath:        transport.DefaultCGIPath,
		Hostname:       hostname(),
		Username:       username(),
		TimeoutSeconds: 10,
		OutputDir:      filepath.Join(homeDir(), "Music"),
	}
}

// Get implements freedb.Preferences.
func (c Config) Get(key string) string {
	switch key {
	case freedb.PrefHostname:
		return c.Hostname
	case freedb.PrefUsername:
		return c.Username
	case freedb.PrefFirstHit:
		return strconv.FormatBool(c.FirstHit)
	case freedb.PrefDebug:
		return strconv.FormatBool(c.Debug)
	}
	return ""
}

// Timeout returns the HTTP timeout as a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// LoadConfigFile loads configuration from a YAML file.
// If path is empty, searches standard locations. Returns defaults if no file found.
func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = FindConfigFile()
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.OutputDir = ExpandHome(cfg.OutputDir)

	return cfg, nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir(), path[2:])
	}
	return path
}

// FindConfigFile searches for a config file in standard locations
func FindConfigFile() string {
	home := homeDir()
	locations := []string{
		"./discmeta.yaml",
		"./discmeta.yml",
		filepath.Join(home, ".config", "discmeta", "config.yaml"),
		filepath.Join(home, ".config", "discmeta", "config.yml"),
		filepath.Join(home, ".discmeta.yaml"),
	}

	for _, path := range locations {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// SaveConfigFile saves the current configuration to a YAML file
func SaveConfigFile(cfg Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetDefaultConfigPath returns the default config file path
func GetDefaultConfigPath() string {
	return filepath.Join(homeDir(), ".config", "discmeta", "config.yaml")
}

// GetDefaultLogPath returns the default log directory path
func GetDefaultLogPath() string {
	return filepath.Join(homeDir(), ".local", "share", "discmeta", "logs")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return os.Getenv("HOME")
	}
	return home
}

func hostname() string {
	h, err := os.Hostname()
	if err != nil {
		return "localhost"
	}
	return h
}

func username() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "anonymous"
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.ServerURL, "http://") && !strings.HasPrefix(c.ServerURL, "https://") {
		return fmt.Errorf("server_url must start with http:// or https://, got %q", c.ServerURL)
	}
	if !strings.HasPrefix(c.CGIPath, "/") {
		return fmt.Errorf("cgi_path must start with /, got %q", c.CGIPath)
	}
	if strings.TrimSpace(c.Hostname) == "" {
		return fmt.Errorf("hostname cannot be empty")
	}
	if strings.TrimSpace(c.Username) == "" {
		return fmt.Errorf("username cannot be empty")
	}
	if c.TimeoutSeconds < 1 {
		return fmt.Errorf("timeout_seconds must be at least 1, got %d", c.TimeoutSeconds)
	}
	if c.TimeoutSeconds > 120 {
		return fmt.Errorf("timeout_seconds cannot exceed 120, got %d", c.TimeoutSeconds)
	}
	return nil
}
