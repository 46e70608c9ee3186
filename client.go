// Package layoutadmin is a client for the layout endpoints of the admin API:
// question versioning, layout versions and templates, and layout upload.
package layoutadmin

import (
	"net/http"
	"net/url"
	"time"

	"github.com/samuel/go-metrics/metrics"
	"github.com/sprucehealth/layoutadmin/libs/errors"
	"github.com/sprucehealth/layoutadmin/libs/golog"
	"golang.org/x/time/rate"
)

type Client struct {
	b Backend
}

type ClientConfig struct {
	BaseURL     string
	BearerToken string
	// HTTPClient is optional and defaults to a client with Timeout
	HTTPClient *http.Client
	Timeout    time.Duration
	// RequestsPerSecond limits the request rate when greater than zero.
	RequestsPerSecond float64
	MetricsRegistry   metrics.Registry
	Log               golog.Logger
}

func NewClient(cfg ClientConfig) (*Client, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, errors.Annotatef(errors.Trace(err), "invalid admin API URL %q", cfg.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.Errorf("invalid admin API URL %q: scheme must be http or https", cfg.BaseURL)
	}
	if cfg.HTTPClient == nil {
		if cfg.Timeout <= 0 {
			cfg.Timeout = 30 * time.Second
		}
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	b := NewBackend(cfg.BaseURL, cfg.BearerToken, cfg.HTTPClient, cfg.MetricsRegistry)
	if cfg.RequestsPerSecond > 0 {
		b.Limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	if cfg.Log != nil {
		b.Log = cfg.Log
	}
	return &Client{b: b}, nil
}

// NewClientWithBackend returns a client that sends every call through b.
func NewClientWithBackend(b Backend) *Client {
	return &Client{b: b}
}
