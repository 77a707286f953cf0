// Package http builds the HTTP client used to reach the Nightscout site,
// including proxy handling for corporate networks.
package http

import (
	"crypto/tls"
	"net"
	nethttp "net/http"
	"time"

	"github.com/glucotray/nightscout-tray/internal/config"
	"github.com/glucotray/nightscout-tray/internal/constants"
)

// newTransport returns the base transport shared by every proxy mode.
func newTransport() *nethttp.Transport {
	return &nethttp.Transport{
		DialContext: (&net.Dialer{
			Timeout:   constants.HTTPDialTimeout,
			KeepAlive: constants.HTTPDialKeepAlive,
		}).DialContext,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
		MaxIdleConns:          2,
		MaxIdleConnsPerHost:   1,
		IdleConnTimeout:       constants.HTTPIdleConnTimeout,
		TLSHandshakeTimeout:   constants.HTTPTLSHandshakeTimeout,
		ExpectContinueTimeout: constants.HTTPExpectContinueTimeout,
		ForceAttemptHTTP2:     true,
	}
}

// clientTimeout returns the configured request timeout or the default.
func clientTimeout(cfg *config.Config) time.Duration {
	if cfg == nil || cfg.Timeout <= 0 {
		return constants.HTTPDefaultTimeout
	}
	return cfg.Timeout
}
