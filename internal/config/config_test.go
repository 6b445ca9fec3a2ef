package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"discmeta/internal/freedb"
)

var _ freedb.Preferences = Config{}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			ServerURL:      "http://gnudb.gnudb.org",
			CGIPath:        "/~cddb/cddb.cgi",
			Hostname:       "fakestation",
			Username:       "Joe",
			TimeoutSeconds: 10,
		}
	}

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:   "valid config",
			modify: func(c *Config) {},
		},
		{
			name:   "https server",
			modify: func(c *Config) { c.ServerURL = "https://freedb.example.org" },
		},
		{
			name:    "server without scheme",
			modify:  func(c *Config) { c.ServerURL = "gnudb.gnudb.org" },
			wantErr: true,
		},
		{
			name:    "relative cgi path",
			modify:  func(c *Config) { c.CGIPath = "cddb.cgi" },
			wantErr: true,
		},
		{
			name:    "empty hostname",
			modify:  func(c *Config) { c.Hostname = " " },
			wantErr: true,
		},
		{
			name:    "empty username",
			modify:  func(c *Config) { c.Username = "" },
			wantErr: true,
		},
		{
			name:    "timeout 0",
			modify:  func(c *Config) { c.TimeoutSeconds = 0 },
			wantErr: true,
		},
		{
			name:   "timeout 120",
			modify: func(c *Config) { c.TimeoutSeconds = 120 },
		},
		{
			name:    "timeout 121",
			modify:  func(c *Config) { c.TimeoutSeconds = 121 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.modify(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}
}

func TestGet(t *testing.T) {
	cfg := Config{Hostname: "fakestation", Username: "Joe", FirstHit: true}

	tests := map[string]string{
		freedb.PrefHostname: "fakestation",
		freedb.PrefUsername: "Joe",
		freedb.PrefFirstHit: "true",
		freedb.PrefDebug:    "false",
		"unknown":           "",
	}
	for key, want := range tests {
		if got := cfg.Get(key); got != want {
			t.Errorf("Get(%q) = %q, want %q", key, got, want)
		}
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `server_url: https://freedb.example.org
username: Joe
hostname: fakestation
first_hit: true
timeout_seconds: 30
output_dir: /tmp/test-music
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile() error: %v", err)
	}

	if cfg.ServerURL != "https://freedb.example.org" {
		t.Errorf("ServerURL = %q", cfg.ServerURL)
	}
	if cfg.CGIPath != "/~cddb/cddb.cgi" {
		t.Errorf("CGIPath = %q, want default", cfg.CGIPath)
	}
	if cfg.Username != "Joe" || cfg.Hostname != "fakestation" {
		t.Errorf("Username, Hostname = %q, %q", cfg.Username, cfg.Hostname)
	}
	if !cfg.FirstHit {
		t.Error("FirstHit = false, want true")
	}
	if cfg.Timeout() != 30*time.Second {
		t.Errorf("Timeout() = %v, want 30s", cfg.Timeout())
	}
	if cfg.OutputDir != "/tmp/test-music" {
		t.Errorf("OutputDir = %q, want %q", cfg.OutputDir, "/tmp/test-music")
	}
}

func TestLoadConfigFileInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("first_hit: [oops"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfigFile(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadConfigFileNotFound(t *testing.T) {
	cfg, err := LoadConfigFile("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("LoadConfigFile() should return defaults for missing file, got error: %v", err)
	}
	if cfg.TimeoutSeconds != 10 {
		t.Errorf("expected default TimeoutSeconds=10, got %d", cfg.TimeoutSeconds)
	}
}

func TestSaveConfigFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Username = "Joe"
	cfg.FirstHit = true

	if err := SaveConfigFile(cfg, path); err != nil {
		t.Fatalf("SaveConfigFile() error: %v", err)
	}
	loaded, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile() error: %v", err)
	}
	if loaded != cfg {
		t.Errorf("loaded config = %+v, want %+v", loaded, cfg)
	}
}

func TestExpandHome(t *testing.T) {
	home := homeDir()
	tests := []struct {
		input string
		want  string
	}{
		{"~/Music", filepath.Join(home, "Music")},
		{"/absolute/path", "/absolute/path"},
		{"relative/path", "relative/path"},
		{"~notslash", "~notslash"},
	}

	for _, tt := range tests {
		got := ExpandHome(tt.input)
		if got != tt.want {
			t.Errorf("ExpandHome(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
