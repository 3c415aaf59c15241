// Package uhiapi is the HTTP client for the urban-heat analysis backend.
package uhiapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/urbanpulse/heat_radar/app/heat_radar/pkg/model"
	"github.com/urbanpulse/heat_radar/app/heat_radar/pkg/source"
)

// DefaultBaseURL is the local development backend.
const DefaultBaseURL = "http://127.0.0.1:5001"

// Client calls GET {base}/analyze?city={name}.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates an analysis API client. A zero timeout leaves the
// request unbounded apart from the caller's context; the backend recomputes
// satellite statistics on demand and can take tens of seconds.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// Ensure Client implements source.Source
var _ source.Source = (*Client)(nil)

// Fetch implements source.Source.
func (c *Client) Fetch(ctx context.Context, city string) (*model.Analysis, error) {
	if city == "" {
		return nil, &source.FetchError{Msg: "city name is required"}
	}

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, &source.FetchError{Msg: fmt.Sprintf("invalid base URL %q", c.baseURL), Err: err}
	}
	u.Path = "/analyze"
	q := u.Query()
	q.Set("city", city)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &source.FetchError{Msg: "create request failed", Err: err}
	}

	res, err := c.client.Do(req)
	if err != nil {
		return nil, &source.FetchError{Msg: "backend unreachable", Err: err}
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &source.FetchError{Status: res.StatusCode, Msg: "read body failed", Err: err}
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &source.FetchError{Status: res.StatusCode, Msg: string(body)}
	}

	analysis, err := source.Decode(body)
	if err != nil {
		return nil, &source.FetchError{Status: res.StatusCode, Msg: "malformed analysis payload", Err: err}
	}
	if analysis.City == "" {
		analysis.City = city
	}
	return analysis, nil
}
