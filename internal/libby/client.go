package libby

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/sirupsen/logrus"
)

// UserAgent presented on every catalog and content request.
const UserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// StatusError is a non-success HTTP response.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return "unexpected response status " + e.Status
}

// ClientOptions configures a content fetch client.
type ClientOptions struct {
	Timeout time.Duration
	Retries int
	Jar     http.CookieJar // session auth cookies; a fresh jar is created when nil
}

// Client fetches loan content over the authenticated reader session. The
// cookie jar carries the auth state required by the content CDN.
type Client struct {
	hc      *http.Client
	retries int
}

// NewClient creates a content fetch client with a tuned transport.
func NewClient(opts ClientOptions) *Client {
	jar := opts.Jar
	if jar == nil {
		jar, _ = cookiejar.New(nil)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	retries := opts.Retries
	if retries <= 0 {
		retries = 1
	}

	return &Client{
		hc: &http.Client{
			Timeout:   timeout,
			Jar:       jar,
			Transport: newTransport(),
		},
		retries: retries,
	}
}

// newTransport tunes the pooled transport for many small sequential fetches
// against the same content host.
func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 100
	t.MaxIdleConnsPerHost = 100
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 30 * time.Second
	return t
}

// DefaultHeaders returns the base header set for content requests.
func (c *Client) DefaultHeaders() map[string]string {
	return map[string]string{
		"User-Agent": UserAgent,
		"Accept":     "*/*",
	}
}

// Fetch downloads url with the given headers. Transient failures (timeouts,
// 5xx responses) are retried up to the configured attempt count; exhaustion
// returns the last error.
func (c *Client) Fetch(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= c.retries; attempt++ {
		body, err := c.fetchOnce(ctx, url, headers)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !isTransient(err) {
			break
		}
		if attempt < c.retries {
			logrus.WithField("url", url).WithError(err).
				Debugf("retrying fetch, attempt %d/%d", attempt, c.retries)
		}
	}
	return nil, fmt.Errorf("fetch %s: %w", url, lastErr)
}

func (c *Client) fetchOnce(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.DefaultHeaders() {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	res, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: res.StatusCode, Status: res.Status}
	}
	return io.ReadAll(res.Body)
}

// isTransient reports whether err is worth retrying.
func isTransient(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code >= 500
	}
	return false
}
