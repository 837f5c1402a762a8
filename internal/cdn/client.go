package cdn

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// CDN layout
const (
	DefaultBaseURL     = "https://geometrydashfiles.b-cdn.net"
	LibraryVersionPath = "/sfx/sfxlibrary_version.txt"
	LibraryDataPath    = "/sfx/sfxlibrary.dat"
	SoundPathFormat    = "/sfx/s%d.ogg"
)

// Client defaults
const (
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 1
	DefaultBackoff    = 2 * time.Second
	maxPayloadBytes   = 64 << 20
)

// ErrNotFound is returned when the CDN has no file at the requested path.
var ErrNotFound = errors.New("not found on CDN")

// StatusError reports an unexpected HTTP status.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.StatusCode)
}

// Client fetches library files and sounds from the content-delivery network.
type Client struct {
	baseURL    string
	http       *http.Client
	maxRetries int
	backoff    time.Duration
	logger     *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithRetry sets how many times a failed request is retried and the delay between attempts.
func WithRetry(maxRetries int, backoff time.Duration) Option {
	return func(c *Client) {
		c.maxRetries = max(maxRetries, 0)
		c.backoff = backoff
	}
}

// WithLogger sets the logger used for retry messages.
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a client for baseURL. An empty baseURL selects DefaultBaseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    baseURL,
		http:       &http.Client{Timeout: DefaultTimeout},
		maxRetries: DefaultMaxRetries,
		backoff:    DefaultBackoff,
		logger:     log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the CDN root in use
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SoundURL returns the URL of the sound file with the given id.
func (c *Client) SoundURL(id int) string {
	return c.baseURL + fmt.Sprintf(SoundPathFormat, id)
}

// LibraryVersion fetches the version number of the current library manifest.
func (c *Client) LibraryVersion(ctx context.Context) (int, error) {
	body, err := c.get(ctx, c.baseURL+LibraryVersionPath)
	if err != nil {
		return 0, err
	}
	version, err := strconv.Atoi(strings.TrimSpace(string(body)))
	if err != nil {
		return 0, fmt.Errorf("parse library version: %w", err)
	}
	return version, nil
}

// LibraryData fetches the encoded library manifest.
func (c *Client) LibraryData(ctx context.Context) ([]byte, error) {
	return c.get(ctx, c.baseURL+LibraryDataPath)
}

// Sound fetches the audio bytes of a sound.
func (c *Client) Sound(ctx context.Context, id int) ([]byte, error) {
	return c.get(ctx, c.SoundURL(id))
}

// get performs a GET with retry on transport errors and 5xx responses.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(c.backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			c.logger.Printf("Retrying GET %s, attempt %d", url, attempt+1)
		}

		body, err := c.fetchOnce(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !retryable(err) {
			return nil, err
		}
	}
	return nil, lastErr
}

func (c *Client) fetchOnce(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("GET %s: %w", url, ErrNotFound)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	return body, nil
}

func retryable(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= 500
	}
	return true
}
