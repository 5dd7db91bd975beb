// Package httpclient wraps the resty HTTP client behind a narrow interface so
// callers can be tested against fakes.
package httpclient

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Response exposes the subset of an HTTP response the pipeline reads.
type Response interface {
	StatusCode() int
	Body() []byte
}

// Client issues GET requests with per-request headers.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
}

type restyClient struct {
	client *resty.Client
}

type restyResponse struct {
	resp *resty.Response
}

func (r *restyResponse) StatusCode() int { return r.resp.StatusCode() }
func (r *restyResponse) Body() []byte    { return r.resp.Body() }

// NewRestyClient builds a Client with the given total request timeout.
func NewRestyClient(timeout time.Duration) Client {
	c := resty.New().
		SetTimeout(timeout).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(5))
	return &restyClient{client: c}
}

// Get performs a GET request against url with the provided headers.
func (c *restyClient) Get(ctx context.Context, url string, headers map[string]string) (Response, error) {
	req := c.client.R().SetContext(ctx)
	for k, v := range headers {
		req.SetHeader(k, v)
	}

	resp, err := req.Get(url)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", url, err)
	}
	return &restyResponse{resp: resp}, nil
}
