// Package upstream fetches flag images from the service they originate from.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/nicolagi/secureflag/storage"
)

// DefaultBaseURL serves one SVG per lowercase country code.
const DefaultBaseURL = "https://flagcdn.com"

// ErrStatus matches every *StatusError. Other fetchers wrap it to report that
// the origin has no resource for a key.
var ErrStatus = errors.New("non-success status")

// StatusError reports a non-success response for a key.
type StatusError struct {
	Key        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream %q: status %d", e.Key, e.StatusCode)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrStatus
}

type options struct {
	baseURL string
	client  *http.Client
}

type Option func(*options)

func WithBaseURL(value string) Option {
	return func(o *options) {
		o.baseURL = value
	}
}

func WithHTTPClient(value *http.Client) Option {
	return func(o *options) {
		o.client = value
	}
}

// Client is a read-only client of the upstream resource service.
type Client struct {
	opts options
}

func New(opts ...Option) *Client {
	var c Client
	c.opts.baseURL = DefaultBaseURL
	c.opts.client = http.DefaultClient
	for _, o := range opts {
		o(&c.opts)
	}
	c.opts.baseURL = strings.TrimRight(c.opts.baseURL, "/")
	return &c
}

// URLFor returns where the resource for key lives upstream.
func (c *Client) URLFor(key string) string {
	return c.opts.baseURL + "/" + url.PathEscape(key)
}

// Fetch retrieves the resource for key. The content type is whatever upstream
// declared, possibly empty. Non-2xx responses yield a *StatusError.
func (c *Client) Fetch(ctx context.Context, key string) (storage.Object, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URLFor(key), nil)
	if err != nil {
		return storage.Object{}, err
	}
	response, err := c.opts.client.Do(request)
	if response != nil && response.Body != nil {
		defer func() {
			_ = response.Body.Close()
		}()
	}
	if err != nil {
		return storage.Object{}, fmt.Errorf("could not fetch %q: %w", key, err)
	}
	if response.StatusCode < 200 || response.StatusCode > 299 {
		return storage.Object{}, &StatusError{Key: key, StatusCode: response.StatusCode}
	}
	body, err := io.ReadAll(response.Body)
	if err != nil {
		return storage.Object{}, fmt.Errorf("could not read %q: %w", key, err)
	}
	return storage.Object{
		ContentType: response.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}
