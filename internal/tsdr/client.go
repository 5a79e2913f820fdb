package tsdr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

const (
	DefaultStatusURL = "https://tsdrapi.uspto.gov/ts/cd/casestatus/sn%s/info.json"
	DefaultImageURL  = "https://tsdrapi.uspto.gov/ts/cd/rawImage/%s"

	apiKeyHeader = "USPTO-API-KEY"
)

// Client talks to the case-status API. One Client (and its connection pool)
// is reused across an entire batch run.
type Client struct {
	http      *http.Client
	apiKey    string
	statusURL string
	imageURL  string
	policy    Policy
	sleep     func(time.Duration)
}

type Option func(*Client)

// WithURLs overrides the status and image URL templates, for tests.
func WithURLs(statusURL, imageURL string) Option {
	return func(c *Client) {
		c.statusURL = statusURL
		c.imageURL = imageURL
	}
}

// WithPolicy overrides the retry policy.
func WithPolicy(p Policy) Option {
	return func(c *Client) { c.policy = p }
}

// WithSleep overrides the backoff sleeper, for tests.
func WithSleep(sleep func(time.Duration)) Option {
	return func(c *Client) { c.sleep = sleep }
}

func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		http:      &http.Client{Timeout: 60 * time.Second},
		apiKey:    apiKey,
		statusURL: DefaultStatusURL,
		imageURL:  DefaultImageURL,
		policy:    DefaultPolicy,
		sleep:     time.Sleep,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchClasses retrieves and parses the class data for one serial number.
// Timeouts and server errors are retried per the client's policy; client
// errors abort immediately. On final failure the returned error is a
// *RequestError whose Tag the caller records before moving to the next
// serial. A payload that fetches but does not parse yields an empty
// ClassSet and no error.
func (c *Client) FetchClasses(ctx context.Context, serial string) (ClassSet, error) {
	var body []byte
	err := c.policy.Do(ctx, c.sleep, func() error {
		b, err := c.get(ctx, fmt.Sprintf(c.statusURL, serial), serial)
		if err != nil {
			return err
		}
		body = b
		return nil
	})
	if err != nil {
		return ClassSet{}, err
	}
	return parseClassSet(body), nil
}

// FetchImage retrieves the raw mark image bytes for a serial number. Image
// fetches are not retried; classification degrades to its safe default
// instead.
func (c *Client) FetchImage(ctx context.Context, serial string) ([]byte, error) {
	return c.get(ctx, fmt.Sprintf(c.imageURL, serial), serial)
}

func (c *Client) get(ctx context.Context, url, serial string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &RequestError{Serial: serial, Tag: "request", Err: err}
	}
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, classifyTransport(serial, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &RequestError{
			Serial:    serial,
			Tag:       fmt.Sprintf("http_%d", resp.StatusCode),
			Retryable: resp.StatusCode >= 500,
			Err:       fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransport(serial, err)
	}
	return body, nil
}

func classifyTransport(serial string, err error) *RequestError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &RequestError{Serial: serial, Tag: "timeout", Retryable: true, Err: err}
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return &RequestError{Serial: serial, Tag: "timeout", Retryable: true, Err: err}
	}
	return &RequestError{Serial: serial, Tag: "connection", Retryable: true, Err: err}
}

// IsRetryable reports whether a failure should consume retry budget:
// timeouts, connection errors, and HTTP 5xx qualify; 4xx and local request
// construction errors do not.
func IsRetryable(err error) bool {
	var re *RequestError
	return errors.As(err, &re) && re.Retryable
}
