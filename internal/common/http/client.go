package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	apperrors "random-workers/internal/common/errors"

	"github.com/spf13/cast"
)

// RequestOptions describes one outbound call.
type RequestOptions struct {
	Method  string
	URL     string
	QS      map[string]interface{}
	Headers map[string]string
	// JSON decodes the body; when false the body is returned as a string.
	JSON bool
	// ReturnFullResponse returns *Response instead of the body alone.
	ReturnFullResponse bool
}

// Response is returned when RequestOptions.ReturnFullResponse is set.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       interface{}
}

const (
	// DefaultMaxBodyBytes caps how much of a response body is read.
	DefaultMaxBodyBytes = 64 << 10
	// maxErrorBodyBytes caps the body text carried by a StatusError.
	maxErrorBodyBytes = 512
)

type Client struct {
	httpClient   *http.Client
	maxBodyBytes int64
}

func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		maxBodyBytes: DefaultMaxBodyBytes,
	}
}

// NewClientWith wraps an existing *http.Client.
func NewClientWith(c *http.Client) *Client {
	return &Client{httpClient: c, maxBodyBytes: DefaultMaxBodyBytes}
}

// WithMaxBodyBytes changes the response body cap. Bytes past the cap are dropped.
func (c *Client) WithMaxBodyBytes(n int64) *Client {
	c.maxBodyBytes = n
	return c
}

func (c *Client) DoWithContext(ctx context.Context, req *http.Request) (*http.Response, error) {
	req = req.WithContext(ctx)
	return c.httpClient.Do(req)
}

// Request performs the call described by opts. Network failures, timeouts and
// non-2xx statuses come back as transport errors.
func (c *Client) Request(ctx context.Context, opts RequestOptions) (interface{}, error) {
	target, err := BuildURL(opts.URL, opts.QS)
	if err != nil {
		return nil, apperrors.NewTransportError(opts.URL, err)
	}

	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequest(method, target, nil)
	if err != nil {
		return nil, apperrors.NewTransportError(opts.URL, err)
	}
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}
	if opts.JSON {
		req.Header.Set("Accept", "application/json")
	}

	resp, err := c.DoWithContext(ctx, req)
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, apperrors.NewTransportTimeoutError(opts.URL, err)
		}
		return nil, apperrors.NewTransportError(opts.URL, err)
	}
	defer resp.Body.Close()

	limit := c.maxBodyBytes
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return nil, apperrors.NewTransportError(opts.URL, fmt.Errorf("read response body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperrors.NewTransportError(opts.URL, &StatusError{StatusCode: resp.StatusCode, Body: truncate(raw, maxErrorBodyBytes)})
	}

	var body interface{} = string(raw)
	if opts.JSON && len(raw) > 0 {
		var decoded interface{}
		if err := json.Unmarshal(raw, &decoded); err != nil {
			return nil, apperrors.NewTransportError(opts.URL, fmt.Errorf("decode json body: %w", err))
		}
		body = decoded
	}

	if opts.ReturnFullResponse {
		return &Response{StatusCode: resp.StatusCode, Headers: resp.Header, Body: body}, nil
	}
	return body, nil
}

// StatusError reports a non-success HTTP status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

func truncate(raw []byte, n int) string {
	if len(raw) > n {
		raw = raw[:n]
	}
	return string(raw)
}

// BuildURL appends qs to base, formatting values the way a query-string map is usually
// rendered (numbers without trailing zeros, booleans as true/false).
func BuildURL(base string, qs map[string]interface{}) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	if len(qs) == 0 {
		return u.String(), nil
	}

	params := u.Query()
	for k, v := range qs {
		s, err := cast.ToStringE(v)
		if err != nil {
			return "", fmt.Errorf("query parameter %s: %w", k, err)
		}
		params.Set(k, s)
	}
	u.RawQuery = params.Encode()
	return u.String(), nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
