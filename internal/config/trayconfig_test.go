package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"NIGHTSCOUT_URL",
		"NIGHTSCOUT_POLL_INTERVAL_SECONDS",
		"NIGHTSCOUT_TIMEOUT_SECONDS",
		"NIGHTSCOUT_RETRY_MAX",
		"NIGHTSCOUT_PROXY_MODE",
		"NIGHTSCOUT_PROXY_HOST",
		"NIGHTSCOUT_PROXY_PORT",
		"NIGHTSCOUT_PROXY_USER",
		"NIGHTSCOUT_PROXY_PASSWORD",
		"NIGHTSCOUT_NO_PROXY",
		"NIGHTSCOUT_ALERTS_ENABLED",
		"NIGHTSCOUT_DEBUG",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig()

	if cfg.PollInterval != 60*time.Second {
		t.Errorf("Expected PollInterval=60s, got %v", cfg.PollInterval)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Expected Timeout=30s, got %v", cfg.Timeout)
	}
	if cfg.RetryMax != 0 {
		t.Errorf("Expected RetryMax=0, got %d", cfg.RetryMax)
	}
	if cfg.Proxy.Mode != ProxyModeSystem {
		t.Errorf("Expected Proxy.Mode=system, got %s", cfg.Proxy.Mode)
	}
	if cfg.Alerts.Enabled {
		t.Errorf("Expected Alerts.Enabled=false")
	}
	if cfg.URL != "" {
		t.Errorf("Expected empty URL, got %q", cfg.URL)
	}
}

func TestLoad_MissingFileMissingURL(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.conf"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if err := cfg.Validate(); !errors.Is(err, ErrMissingURL) {
		t.Fatalf("Validate = %v, want ErrMissingURL", err)
	}
}

func TestLoad_ParsesFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "tray.conf")
	content := `[nightscout]
url = https://cgm.example.com/
poll_interval_seconds = 120
timeout_seconds = 15
retry_max = 2

[proxy]
mode = NTLM
host = proxy.corp
port = 3128
user = alice
password = secret
no_proxy = localhost,10.0.0.0/8

[alerts]
enabled = true
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}

	if cfg.URL != "https://cgm.example.com/" {
		t.Errorf("URL = %q", cfg.URL)
	}
	if cfg.BaseURL() != "https://cgm.example.com" {
		t.Errorf("BaseURL = %q", cfg.BaseURL())
	}
	if cfg.PollInterval != 2*time.Minute {
		t.Errorf("PollInterval = %v, want 2m", cfg.PollInterval)
	}
	if cfg.Timeout != 15*time.Second {
		t.Errorf("Timeout = %v, want 15s", cfg.Timeout)
	}
	if cfg.RetryMax != 2 {
		t.Errorf("RetryMax = %d, want 2", cfg.RetryMax)
	}
	if cfg.Proxy.Mode != ProxyModeNTLM {
		t.Errorf("Proxy.Mode = %q, want ntlm", cfg.Proxy.Mode)
	}
	if cfg.Proxy.Host != "proxy.corp" || cfg.Proxy.Port != 3128 {
		t.Errorf("Proxy = %s:%d", cfg.Proxy.Host, cfg.Proxy.Port)
	}
	if cfg.Proxy.User != "alice" || cfg.Proxy.Password != "secret" {
		t.Errorf("Proxy credentials not loaded: %+v", cfg.Proxy)
	}
	if cfg.Proxy.NoProxy != "localhost,10.0.0.0/8" {
		t.Errorf("NoProxy = %q", cfg.Proxy.NoProxy)
	}
	if !cfg.Alerts.Enabled {
		t.Errorf("Alerts.Enabled = false, want true")
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "tray.conf")
	if err := os.WriteFile(path, []byte("[nightscout]\nurl = https://file.example.com\npoll_interval_seconds = 90\n"), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	t.Setenv("NIGHTSCOUT_URL", "https://env.example.com")
	t.Setenv("NIGHTSCOUT_ALERTS_ENABLED", "true")
	t.Setenv("NIGHTSCOUT_DEBUG", "1")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.URL != "https://env.example.com" {
		t.Errorf("URL = %q, want env value", cfg.URL)
	}
	if cfg.PollInterval != 90*time.Second {
		t.Errorf("PollInterval = %v, want file value 90s", cfg.PollInterval)
	}
	if !cfg.Alerts.Enabled {
		t.Errorf("Alerts.Enabled not taken from env")
	}
	if !cfg.Debug {
		t.Errorf("Debug not taken from env")
	}
}

func TestLoad_InvalidINIFails(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "tray.conf")
	if err := os.WriteFile(path, []byte("[nightscout\nurl = x\n"), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("Load returned nil error for malformed INI")
	}
}

func TestSaveAndLoad(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "sub", "tray.conf")

	cfg := NewConfig()
	cfg.URL = "https://cgm.example.com"
	cfg.PollInterval = 5 * time.Minute
	cfg.RetryMax = 3
	cfg.Proxy.Mode = ProxyModeBasic
	cfg.Proxy.Host = "proxy"
	cfg.Alerts.Enabled = true

	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.URL != cfg.URL {
		t.Errorf("URL = %q, want %q", loaded.URL, cfg.URL)
	}
	if loaded.PollInterval != cfg.PollInterval {
		t.Errorf("PollInterval = %v, want %v", loaded.PollInterval, cfg.PollInterval)
	}
	if loaded.RetryMax != 3 {
		t.Errorf("RetryMax = %d, want 3", loaded.RetryMax)
	}
	if loaded.Proxy.Mode != ProxyModeBasic || loaded.Proxy.Host != "proxy" {
		t.Errorf("Proxy = %+v", loaded.Proxy)
	}
	if !loaded.Alerts.Enabled {
		t.Errorf("Alerts.Enabled = false")
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temporary file left behind")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := NewConfig()
		cfg.URL = "https://cgm.example.com"
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"valid", func(*Config) {}, nil},
		{"blank url", func(c *Config) { c.URL = "   " }, ErrMissingURL},
		{"relative url", func(c *Config) { c.URL = "cgm.example.com" }, ErrInvalidURL},
		{"ftp url", func(c *Config) { c.URL = "ftp://cgm.example.com" }, ErrInvalidURL},
		{"poll too fast", func(c *Config) { c.PollInterval = time.Second }, ErrInvalidPollInterval},
		{"poll too slow", func(c *Config) { c.PollInterval = 2 * time.Hour }, ErrInvalidPollInterval},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, ErrInvalidTimeout},
		{"negative retries", func(c *Config) { c.RetryMax = -1 }, ErrInvalidRetryMax},
		{"too many retries", func(c *Config) { c.RetryMax = 11 }, ErrInvalidRetryMax},
		{"unknown proxy mode", func(c *Config) { c.Proxy.Mode = "socks" }, ErrInvalidProxyMode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRedacted(t *testing.T) {
	cfg := NewConfig()
	cfg.Proxy.Password = "secret"

	red := cfg.Redacted()
	if red.Proxy.Password == "secret" {
		t.Error("password not masked")
	}
	if cfg.Proxy.Password != "secret" {
		t.Error("Redacted modified the original")
	}
}
