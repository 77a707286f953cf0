// Package config provides configuration management for Nightscout Tray.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/ini.v1"

	"github.com/glucotray/nightscout-tray/internal/constants"
)

// EnvPrefix is the prefix for environment overrides (NIGHTSCOUT_URL, ...).
const EnvPrefix = "NIGHTSCOUT"

// Config represents the tray configuration.
//
// Config file location:
//   - Windows: %APPDATA%\Nightscout\Tray\tray.conf
//   - Unix: ~/.config/nightscout-tray/tray.conf
//
// INI format:
//
//	[nightscout]
//	url = https://my-site.example.com
//	poll_interval_seconds = 60
//	timeout_seconds = 30
//	retry_max = 0
//
//	[proxy]
//	mode = system
//	host =
//	port = 8080
//	user =
//	password =
//	no_proxy =
//
//	[alerts]
//	enabled = false
type Config struct {
	// URL is the Nightscout site base URL. Required.
	URL string

	// PollInterval is the time between fetches.
	// Minimum: 10s, Maximum: 1h, Default: 60s
	PollInterval time.Duration

	// Timeout bounds a single request.
	// Minimum: 1s, Maximum: 300s, Default: 30s
	Timeout time.Duration

	// RetryMax is the number of in-poll retries. Zero leaves retrying to the next tick.
	// Minimum: 0, Maximum: 10, Default: 0
	RetryMax int

	Proxy ProxyConfig

	Alerts AlertConfig

	// Debug enables debug logging. Environment only (NIGHTSCOUT_DEBUG).
	Debug bool
}

// ProxyConfig contains outbound proxy settings.
type ProxyConfig struct {
	// Mode is one of no-proxy, system, basic, ntlm. Default: system
	Mode     string
	Host     string
	Port     int
	User     string
	Password string
	// NoProxy is a comma-separated bypass list (hosts, domains, CIDRs).
	NoProxy string
}

// AlertConfig controls desktop notifications.
type AlertConfig struct {
	// Enabled sends a notification when a reading enters very-low or very-high.
	// Default: false
	Enabled bool
}

// Proxy modes.
const (
	ProxyModeNone   = "no-proxy"
	ProxyModeSystem = "system"
	ProxyModeBasic  = "basic"
	ProxyModeNTLM   = "ntlm"
)

// Config validation errors
var (
	ErrMissingURL          = errors.New("nightscout url not configured")
	ErrInvalidURL          = errors.New("nightscout url must be an absolute http or https URL")
	ErrInvalidPollInterval = errors.New("poll_interval_seconds must be between 10 and 3600")
	ErrInvalidTimeout      = errors.New("timeout_seconds must be between 1 and 300")
	ErrInvalidRetryMax     = errors.New("retry_max must be between 0 and 10")
	ErrInvalidProxyMode    = errors.New("proxy mode must be one of no-proxy, system, basic, ntlm")
)

// DefaultConfigPath returns the default path for the tray.conf file.
//   - Windows: %APPDATA%\Nightscout\Tray\tray.conf
//   - Unix: ~/.config/nightscout-tray/tray.conf
func DefaultConfigPath() (string, error) {
	var configDir string

	if runtime.GOOS == "windows" {
		appData := os.Getenv("APPDATA")
		if appData == "" {
			userProfile := os.Getenv("USERPROFILE")
			if userProfile == "" {
				return "", errors.New("neither APPDATA nor USERPROFILE environment variable set")
			}
			appData = filepath.Join(userProfile, "AppData", "Roaming")
		}
		configDir = filepath.Join(appData, "Nightscout", "Tray")
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config", "nightscout-tray")
	}

	return filepath.Join(configDir, "tray.conf"), nil
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		PollInterval: constants.DefaultPollInterval,
		Timeout:      constants.HTTPDefaultTimeout,
		RetryMax:     constants.DefaultRetryMax,
		Proxy: ProxyConfig{
			Mode: ProxyModeSystem,
			Port: constants.DefaultProxyPort,
		},
	}
}

// Load reads the tray.conf file and applies environment overrides.
// If path is empty, uses the default path.
// A missing file is not an error: defaults plus environment are returned,
// and Validate reports a missing URL.
func Load(path string) (*Config, error) {
	cfg := NewConfig()

	if path == "" {
		var err error
		path, err = DefaultConfigPath()
		if err != nil {
			path = ""
		}
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cfg.loadFile(path); err != nil {
				return nil, err
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to stat %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (cfg *Config) loadFile(path string) error {
	iniFile, err := ini.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load tray.conf: %w", err)
	}

	// Parse [nightscout] section
	nsSection := iniFile.Section("nightscout")
	cfg.URL = strings.TrimSpace(nsSection.Key("url").String())
	cfg.PollInterval = time.Duration(nsSection.Key("poll_interval_seconds").MustInt(int(constants.DefaultPollInterval/time.Second))) * time.Second
	cfg.Timeout = time.Duration(nsSection.Key("timeout_seconds").MustInt(int(constants.HTTPDefaultTimeout/time.Second))) * time.Second
	cfg.RetryMax = nsSection.Key("retry_max").MustInt(constants.DefaultRetryMax)

	// Parse [proxy] section
	proxySection := iniFile.Section("proxy")
	cfg.Proxy.Mode = strings.ToLower(proxySection.Key("mode").MustString(ProxyModeSystem))
	cfg.Proxy.Host = proxySection.Key("host").String()
	cfg.Proxy.Port = proxySection.Key("port").MustInt(constants.DefaultProxyPort)
	cfg.Proxy.User = proxySection.Key("user").String()
	cfg.Proxy.Password = proxySection.Key("password").String()
	cfg.Proxy.NoProxy = proxySection.Key("no_proxy").String()

	// Parse [alerts] section
	cfg.Alerts.Enabled = iniFile.Section("alerts").Key("enabled").MustBool(false)

	return nil
}

// envVars mirrors Config for envconfig. It is seeded from the loaded values
// so that only variables actually present in the environment override them.
type envVars struct {
	URL                 string
	PollIntervalSeconds int    `split_words:"true"`
	TimeoutSeconds      int    `split_words:"true"`
	RetryMax            int    `split_words:"true"`
	ProxyMode           string `split_words:"true"`
	ProxyHost           string `split_words:"true"`
	ProxyPort           int    `split_words:"true"`
	ProxyUser           string `split_words:"true"`
	ProxyPassword       string `split_words:"true"`
	NoProxy             string `split_words:"true"`
	AlertsEnabled       bool   `split_words:"true"`
	Debug               bool
}

func (cfg *Config) applyEnv() error {
	env := envVars{
		URL:                 cfg.URL,
		PollIntervalSeconds: int(cfg.PollInterval / time.Second),
		TimeoutSeconds:      int(cfg.Timeout / time.Second),
		RetryMax:            cfg.RetryMax,
		ProxyMode:           cfg.Proxy.Mode,
		ProxyHost:           cfg.Proxy.Host,
		ProxyPort:           cfg.Proxy.Port,
		ProxyUser:           cfg.Proxy.User,
		ProxyPassword:       cfg.Proxy.Password,
		NoProxy:             cfg.Proxy.NoProxy,
		AlertsEnabled:       cfg.Alerts.Enabled,
		Debug:               cfg.Debug,
	}
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}

	cfg.URL = strings.TrimSpace(env.URL)
	cfg.PollInterval = time.Duration(env.PollIntervalSeconds) * time.Second
	cfg.Timeout = time.Duration(env.TimeoutSeconds) * time.Second
	cfg.RetryMax = env.RetryMax
	cfg.Proxy.Mode = strings.ToLower(strings.TrimSpace(env.ProxyMode))
	cfg.Proxy.Host = env.ProxyHost
	cfg.Proxy.Port = env.ProxyPort
	cfg.Proxy.User = env.ProxyUser
	cfg.Proxy.Password = env.ProxyPassword
	cfg.Proxy.NoProxy = env.NoProxy
	cfg.Alerts.Enabled = env.AlertsEnabled
	cfg.Debug = env.Debug
	return nil
}

// Save writes the configuration to the tray.conf file.
// If path is empty, uses the default path.
// Creates parent directories if they don't exist.
func Save(cfg *Config, path string) error {
	if path == "" {
		var err error
		path, err = DefaultConfigPath()
		if err != nil {
			return fmt.Errorf("failed to determine config path: %w", err)
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	iniFile := ini.Empty()

	nsSection, err := iniFile.NewSection("nightscout")
	if err != nil {
		return fmt.Errorf("failed to create nightscout section: %w", err)
	}
	nsSection.Key("url").SetValue(cfg.URL)
	nsSection.Key("poll_interval_seconds").SetValue(fmt.Sprintf("%d", int(cfg.PollInterval/time.Second)))
	nsSection.Key("timeout_seconds").SetValue(fmt.Sprintf("%d", int(cfg.Timeout/time.Second)))
	nsSection.Key("retry_max").SetValue(fmt.Sprintf("%d", cfg.RetryMax))

	proxySection, err := iniFile.NewSection("proxy")
	if err != nil {
		return fmt.Errorf("failed to create proxy section: %w", err)
	}
	proxySection.Key("mode").SetValue(cfg.Proxy.Mode)
	proxySection.Key("host").SetValue(cfg.Proxy.Host)
	proxySection.Key("port").SetValue(fmt.Sprintf("%d", cfg.Proxy.Port))
	proxySection.Key("user").SetValue(cfg.Proxy.User)
	proxySection.Key("password").SetValue(cfg.Proxy.Password)
	proxySection.Key("no_proxy").SetValue(cfg.Proxy.NoProxy)

	alertsSection, err := iniFile.NewSection("alerts")
	if err != nil {
		return fmt.Errorf("failed to create alerts section: %w", err)
	}
	alertsSection.Key("enabled").SetValue(fmt.Sprintf("%t", cfg.Alerts.Enabled))

	// Temporary file + rename for atomicity
	tmpPath := path + ".tmp"
	if err := iniFile.SaveTo(tmpPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	if runtime.GOOS != "windows" {
		if err := os.Chmod(tmpPath, 0600); err != nil {
			os.Remove(tmpPath)
			return fmt.Errorf("failed to set config permissions: %w", err)
		}
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save config: %w", err)
	}

	return nil
}

// Validate checks the configuration. A missing URL is reported as
// ErrMissingURL, which callers treat as fatal.
func (cfg *Config) Validate() error {
	if strings.TrimSpace(cfg.URL) == "" {
		return ErrMissingURL
	}
	u, err := url.Parse(cfg.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidURL
	}
	if cfg.PollInterval < constants.MinPollInterval || cfg.PollInterval > constants.MaxPollInterval {
		return ErrInvalidPollInterval
	}
	if cfg.Timeout < time.Second || cfg.Timeout > constants.HTTPMaxTimeout {
		return ErrInvalidTimeout
	}
	if cfg.RetryMax < 0 || cfg.RetryMax > constants.MaxRetryMax {
		return ErrInvalidRetryMax
	}
	switch cfg.Proxy.Mode {
	case ProxyModeNone, ProxyModeSystem, ProxyModeBasic, ProxyModeNTLM, "":
	default:
		return ErrInvalidProxyMode
	}
	return nil
}

// BaseURL returns the configured URL without trailing slashes.
func (cfg *Config) BaseURL() string {
	return strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
}

// Redacted returns a copy safe for printing: the proxy password is masked.
func (cfg *Config) Redacted() Config {
	out := *cfg
	if out.Proxy.Password != "" {
		out.Proxy.Password = "********"
	}
	return out
}
