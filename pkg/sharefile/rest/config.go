package rest

import (
	"fmt"
	"net/http"
	"time"

	"github.com/marmos91/sharefs/pkg/metrics"
)

// RetryPolicy controls retries of transient failures: transport errors,
// 408, 429 and 5xx responses.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Jitter     float64
}

// DefaultRetryPolicy retries three times between 250ms and 4s apart.
var DefaultRetryPolicy = RetryPolicy{
	MaxRetries: 3,
	BaseDelay:  250 * time.Millisecond,
	MaxDelay:   4 * time.Second,
	Jitter:     0.25,
}

// Config configures a REST client.
type Config struct {
	// Hostname is the account host, e.g. "acme.sharefile.com".
	Hostname string

	// ClientID and ClientSecret identify the registered API application.
	ClientID     string
	ClientSecret string

	// Username and Password are the account credentials (password grant).
	Username string
	Password string

	// TokenURL overrides "https://<Hostname>/oauth/token".
	TokenURL string

	// BaseURL overrides the API root derived from the token response
	// ("https://<subdomain>.<apicp>/sf/v3/").
	BaseURL string

	// HTTPClient is the unauthenticated base client. Defaults to a client
	// with Timeout.
	HTTPClient *http.Client

	// Timeout bounds each HTTP request when HTTPClient is nil.
	Timeout time.Duration

	// Retry overrides DefaultRetryPolicy when MaxRetries is non-zero.
	Retry RetryPolicy

	// RequestsPerSecond and Burst throttle outgoing calls. Zero is unlimited.
	RequestsPerSecond uint
	Burst             uint

	// Metrics records requests and retries. Defaults to no-op.
	Metrics metrics.ClientMetrics
}

func (c *Config) applyDefaults() {
	if c.Timeout == 0 {
		c.Timeout = 60 * time.Second
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	if c.Retry.MaxRetries == 0 {
		c.Retry = DefaultRetryPolicy
	}
	if c.Retry.MaxRetries < 0 {
		c.Retry.MaxRetries = 0
	}
	if c.Retry.BaseDelay <= 0 {
		c.Retry.BaseDelay = DefaultRetryPolicy.BaseDelay
	}
	if c.Retry.MaxDelay <= 0 {
		c.Retry.MaxDelay = DefaultRetryPolicy.MaxDelay
	}
	if c.TokenURL == "" && c.Hostname != "" {
		c.TokenURL = "https://" + c.Hostname + "/oauth/token"
	}
	if c.Metrics == nil {
		c.Metrics = metrics.NewNoopClientMetrics()
	}
}

func (c *Config) validate() error {
	if c.TokenURL == "" {
		return fmt.Errorf("rest: hostname or token url is required")
	}
	if c.ClientID == "" || c.ClientSecret == "" {
		return fmt.Errorf("rest: client id and secret are required")
	}
	if c.Username == "" || c.Password == "" {
		return fmt.Errorf("rest: username and password are required")
	}
	return nil
}
