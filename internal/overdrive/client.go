// Package overdrive provides the catalog metadata client.
package overdrive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"loanpack/internal/libby"
)

// DefaultMediaEndpoint is the catalog media lookup base URL.
const DefaultMediaEndpoint = "https://thunder.api.overdrive.com/v2/media"

// ErrNotFound means the catalog has no media record for the id. It is fatal
// to the whole assembly run.
var ErrNotFound = errors.New("media not found")

// ClientOptions configures a metadata client.
type ClientOptions struct {
	Endpoint  string
	UserAgent string
	Timeout   time.Duration
	Retries   int
}

// Client looks up catalog media metadata.
type Client struct {
	hc        *http.Client
	endpoint  string
	userAgent string
	retries   int
}

// NewClient creates a metadata client.
func NewClient(opts ClientOptions) *Client {
	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = DefaultMediaEndpoint
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = libby.UserAgent
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
		hc:        &http.Client{Timeout: timeout},
		endpoint:  endpoint,
		userAgent: userAgent,
		retries:   retries,
	}
}

// Media fetches the MediaInfo for a catalog title id. Not-found is returned
// as ErrNotFound; transient errors are retried before giving up.
func (c *Client) Media(ctx context.Context, titleID string) (libby.MediaInfo, error) {
	var lastErr error
	for attempt := 1; attempt <= c.retries; attempt++ {
		info, err := c.mediaOnce(ctx, titleID)
		if err == nil {
			return info, nil
		}
		lastErr = err
		if errors.Is(err, ErrNotFound) {
			break
		}
		if !isTransient(err) {
			break
		}
		if attempt < c.retries {
			logrus.WithField("title", titleID).WithError(err).
				Debugf("retrying media lookup, attempt %d/%d", attempt, c.retries)
		}
	}
	return libby.MediaInfo{}, fmt.Errorf("media %s: %w", titleID, lastErr)
}

func (c *Client) mediaOnce(ctx context.Context, titleID string) (libby.MediaInfo, error) {
	url := c.endpoint + "/" + titleID
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return libby.MediaInfo{}, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	res, err := c.hc.Do(req)
	if err != nil {
		return libby.MediaInfo{}, err
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusNotFound:
		return libby.MediaInfo{}, ErrNotFound
	case res.StatusCode != http.StatusOK:
		return libby.MediaInfo{}, &libby.StatusError{Code: res.StatusCode, Status: res.Status}
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return libby.MediaInfo{}, err
	}

	var info libby.MediaInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return libby.MediaInfo{}, fmt.Errorf("decode media response: %w", err)
	}
	return info, nil
}

func isTransient(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var statusErr *libby.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code >= 500
	}
	return false
}
