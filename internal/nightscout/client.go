// Package nightscout fetches the most recent sensor reading from a
// Nightscout site's REST API.
package nightscout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	nethttp "net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/glucotray/nightscout-tray/internal/config"
	"github.com/glucotray/nightscout-tray/internal/constants"
	"github.com/glucotray/nightscout-tray/internal/glucose"
	"github.com/glucotray/nightscout-tray/internal/http"
	"github.com/glucotray/nightscout-tray/internal/logging"
	"github.com/glucotray/nightscout-tray/internal/version"
)

// Fetch errors.
var (
	// ErrStatus wraps non-2xx responses.
	ErrStatus = errors.New("unexpected status")
	// ErrDecode wraps malformed response bodies.
	ErrDecode = errors.New("malformed entries response")
)

// Fetcher returns the latest reading or nil when there is none or the
// fetch failed. *Client implements it; the tray host depends on the
// interface so tests can substitute a fake.
type Fetcher interface {
	Latest(ctx context.Context) *glucose.Reading
}

// Ensure Client implements Fetcher at compile time.
var _ Fetcher = (*Client)(nil)

// retryLogger implements the retryablehttp.LeveledLogger interface on top
// of the application logger. Retry chatter is debug-only.
type retryLogger struct {
	logger *logging.Logger
}

func (l *retryLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l *retryLogger) Info(msg string, keysAndValues ...interface{}) {}

func (l *retryLogger) Debug(msg string, keysAndValues ...interface{}) {}

func (l *retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

// Client talks to the Nightscout entries API.
type Client struct {
	baseURL    string
	entriesURL string
	http       *nethttp.Client
	logger     *logging.Logger
}

// NewClient builds a Client from cfg. cfg.URL must be set; the proxy,
// timeout and retry settings are taken from cfg as well.
func NewClient(cfg *config.Config, logger *logging.Logger) (*Client, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if cfg == nil || strings.TrimSpace(cfg.URL) == "" {
		return nil, config.ErrMissingURL
	}

	entriesURL, err := buildEntriesURL(cfg.BaseURL())
	if err != nil {
		return nil, err
	}

	httpClient, err := http.ConfigureHTTPClient(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to configure HTTP client: %w", err)
	}

	// Wrap with retry logic. RetryMax defaults to zero: a failed poll is
	// simply retried on the next tick.
	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient = httpClient
	retryClient.RetryMax = cfg.RetryMax
	retryClient.RetryWaitMin = constants.RetryWaitMin
	retryClient.RetryWaitMax = constants.RetryWaitMax
	retryClient.Logger = &retryLogger{logger: logger}
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Client{
		baseURL:    cfg.BaseURL(),
		entriesURL: entriesURL,
		http:       retryClient.StandardClient(),
		logger:     logger,
	}, nil
}

// buildEntriesURL appends the entries path and count query to base.
func buildEntriesURL(base string) (string, error) {
	u, err := url.Parse(strings.TrimRight(base, "/"))
	if err != nil {
		return "", fmt.Errorf("invalid nightscout url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", config.ErrInvalidURL
	}
	u.Path = strings.TrimRight(u.Path, "/") + constants.EntriesPath
	u.RawQuery = url.Values{"count": []string{strconv.Itoa(constants.EntriesCount)}}.Encode()
	u.Fragment = ""
	return u.String(), nil
}

// BaseURL returns the site URL without trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// EntriesURL returns the full URL polled by FetchLatest.
func (c *Client) EntriesURL() string {
	return c.entriesURL
}

// FetchLatest performs one GET of the entries endpoint and returns the
// first (most recent) element. An empty array, a null first element or
// one without a positive sgv yields (nil, nil).
func (c *Client) FetchLatest(ctx context.Context) (*glucose.Reading, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}

	req, err := nethttp.NewRequestWithContext(ctx, nethttp.MethodGet, c.entriesURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little of the body so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: %s", ErrStatus, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, constants.MaxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var entries []*glucose.Reading
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	// A null first element or a non-sgv row (mbg, cal) carries no glucose value.
	if len(entries) == 0 || entries[0] == nil || entries[0].SGV <= 0 {
		return nil, nil
	}
	return entries[0], nil
}

// Latest is FetchLatest with every failure swallowed: errors are logged at
// debug level and nil is returned. The tray never surfaces fetch errors.
func (c *Client) Latest(ctx context.Context) *glucose.Reading {
	reading, err := c.FetchLatest(ctx)
	if err != nil {
		c.logger.Debug().Err(err).Str("url", c.entriesURL).Msg("Error fetching glucose reading")
		return nil
	}
	if reading == nil {
		c.logger.Debug().Str("url", c.entriesURL).Msg("Nightscout returned no reading")
	}
	return reading
}
