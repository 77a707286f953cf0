package http

import (
	"fmt"
	nethttp "net/http"
	"net/url"
	"strings"

	ntlmssp "github.com/Azure/go-ntlmssp"
	"golang.org/x/net/http/httpproxy"

	"github.com/glucotray/nightscout-tray/internal/config"
	"github.com/glucotray/nightscout-tray/internal/constants"
	"github.com/glucotray/nightscout-tray/internal/logging"
)

// ConfigureHTTPClient configures an HTTP client with the proxy settings from
// cfg. A nil cfg behaves like proxy mode "system".
func ConfigureHTTPClient(cfg *config.Config, logger *logging.Logger) (*nethttp.Client, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	transport := newTransport()
	client := &nethttp.Client{
		Transport: transport,
		Timeout:   clientTimeout(cfg),
	}

	if cfg == nil {
		transport.Proxy = nethttp.ProxyFromEnvironment
		return client, nil
	}

	switch strings.ToLower(cfg.Proxy.Mode) {
	case config.ProxyModeNone:
		transport.Proxy = nil

	case config.ProxyModeSystem, "":
		transport.Proxy = nethttp.ProxyFromEnvironment

	case config.ProxyModeNTLM:
		// Fall back to a direct connection if the host is missing so the tray
		// still starts and the user can fix tray.conf.
		if cfg.Proxy.Host == "" {
			logger.Warn().Msg("Proxy mode is NTLM but host is missing - falling back to no-proxy mode")
			transport.Proxy = nil
			return client, nil
		}

		transport.Proxy = proxyFuncWithBypass(buildProxyURL(cfg.Proxy), cfg.Proxy.NoProxy)
		// The NTLM handshake needs HTTP/1.1 connection affinity.
		transport.ForceAttemptHTTP2 = false
		client.Transport = ntlmssp.Negotiator{
			RoundTripper: transport,
		}

	case config.ProxyModeBasic:
		if cfg.Proxy.Host == "" {
			logger.Warn().Msg("Proxy mode is basic but host is missing - falling back to no-proxy mode")
			transport.Proxy = nil
			return client, nil
		}

		if cfg.Proxy.User != "" && cfg.Proxy.Password == "" {
			logger.Warn().Msg("Proxy user configured but password missing - proxy auth disabled")
		}
		transport.Proxy = proxyFuncWithBypass(buildProxyURL(cfg.Proxy), cfg.Proxy.NoProxy)
		transport.ForceAttemptHTTP2 = false

	default:
		return nil, fmt.Errorf("unsupported proxy mode: %s", cfg.Proxy.Mode)
	}

	return client, nil
}

// buildProxyURL constructs a proxy URL from config
func buildProxyURL(p config.ProxyConfig) *url.URL {
	port := p.Port
	if port == 0 {
		port = constants.DefaultProxyPort
	}

	proxyURL := &url.URL{
		Scheme: "http",
		Host:   fmt.Sprintf("%s:%d", p.Host, port),
	}

	// Only embed credentials if both user AND password are provided.
	// An empty password in the URL makes some proxies reject the request.
	if p.User != "" && p.Password != "" {
		proxyURL.User = url.UserPassword(p.User, p.Password)
	}

	return proxyURL
}

// proxyFuncWithBypass returns a proxy function that respects the NoProxy bypass list.
// If noProxy is empty, behaves identically to nethttp.ProxyURL.
// When noProxy is set, golang.org/x/net/http/httpproxy matches hosts, domains and CIDRs.
func proxyFuncWithBypass(proxyURL *url.URL, noProxy string) func(*nethttp.Request) (*url.URL, error) {
	if noProxy == "" {
		return nethttp.ProxyURL(proxyURL)
	}
	cfg := httpproxy.Config{
		HTTPProxy:  proxyURL.String(),
		HTTPSProxy: proxyURL.String(),
		NoProxy:    noProxy,
	}
	proxyFunc := cfg.ProxyFunc()
	return func(req *nethttp.Request) (*url.URL, error) {
		return proxyFunc(req.URL)
	}
}
