package constants

import (
	"time"
)

// Application identity
const (
	// AppID - fyne application ID, also used for preferences storage
	AppID = "com.nightscout.tray"

	// AppName - display name used in window titles and dialogs
	AppName = "Nightscout Glucose Monitor"
)

// Polling
const (
	// DefaultPollInterval - interval between fetches (60 seconds)
	DefaultPollInterval = 60 * time.Second

	// MinPollInterval - lower bound accepted from config (10 seconds)
	MinPollInterval = 10 * time.Second

	// MaxPollInterval - upper bound accepted from config (1 hour)
	MaxPollInterval = time.Hour
)

// Nightscout API
const (
	// EntriesPath - REST path for the latest sensor entries
	EntriesPath = "/api/v1/entries.json"

	// EntriesCount - number of entries requested per poll
	EntriesCount = 1

	// MaxResponseBytes - upper bound on the body read from the entries endpoint (1 MB)
	MaxResponseBytes = 1 << 20
)

// HTTP transport
const (
	// HTTPDefaultTimeout - whole-request timeout for Nightscout calls (30 seconds)
	HTTPDefaultTimeout = 30 * time.Second

	// HTTPMaxTimeout - upper bound accepted from config (5 minutes)
	HTTPMaxTimeout = 300 * time.Second

	// HTTPDialTimeout - TCP connect timeout
	HTTPDialTimeout = 10 * time.Second

	// HTTPDialKeepAlive - TCP keep-alive period
	HTTPDialKeepAlive = 30 * time.Second

	// HTTPIdleConnTimeout - idle connections are closed after this long
	HTTPIdleConnTimeout = 90 * time.Second

	// HTTPTLSHandshakeTimeout - TLS handshake timeout
	HTTPTLSHandshakeTimeout = 10 * time.Second

	// HTTPExpectContinueTimeout - wait for 100-continue
	HTTPExpectContinueTimeout = 1 * time.Second

	// DefaultProxyPort - used when a proxy host is configured without a port
	DefaultProxyPort = 8080
)

// Retry configuration
const (
	// DefaultRetryMax - retries per poll; zero means the next tick is the retry
	DefaultRetryMax = 0

	// MaxRetryMax - upper bound accepted from config
	MaxRetryMax = 10

	// RetryWaitMin - minimum backoff between retries
	RetryWaitMin = 1 * time.Second

	// RetryWaitMax - maximum backoff between retries
	RetryWaitMax = 10 * time.Second
)

// Icon rendering
const (
	// IconSize - edge length of the generated tray/window icon in pixels
	IconSize = 32
)
