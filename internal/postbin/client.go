// Package postbin creates temporary request bins and posts payloads to them
package postbin

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/tidwall/gjson"

	"github.com/rezonia/invoice-exporter/internal/model"
)

const (
	DefaultURL     = "https://www.postb.in/api/bin"
	DefaultTimeout = 30 * time.Second
)

// Client talks to the relay bin service
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-call timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient = &http.Client{Timeout: timeout}
	}
}

// NewClient creates a client for the bin API at baseURL
func NewClient(baseURL string, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PostResult is the relay response to a submitted payload
type PostResult struct {
	StatusCode   int
	ResponseText string
}

// CreateBin requests a new bin and returns its API url (<base>/<binId>)
func (c *Client) CreateBin(ctx context.Context) (string, error) {
	_, body, err := c.do(ctx, c.baseURL, nil)
	if err != nil {
		return "", err
	}

	binID := gjson.GetBytes(body, "binId").String()
	if binID == "" {
		return "", model.NewInternalError("Failed to retrieve bin URL", nil)
	}
	return c.baseURL + "/" + binID, nil
}

// PostJSON submits payload as JSON to url
func (c *Client) PostJSON(ctx context.Context, url string, payload any) (*PostResult, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, model.NewInternalError("An unexpected error occurred: "+err.Error(), err)
	}

	status, body, err := c.do(ctx, url, data)
	if err != nil {
		return nil, err
	}
	return &PostResult{StatusCode: status, ResponseText: string(body)}, nil
}

// do issues a POST and maps any non-2xx status to an upstream error
func (c *Client) do(ctx context.Context, url string, payload []byte) (int, []byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return 0, nil, model.NewInternalError("failed to build request", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, model.NewTransportError(url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, model.NewTransportError(url, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, data, model.NewUpstreamError(resp.StatusCode, "HTTP error occurred: "+string(data), string(data))
	}
	return resp.StatusCode, data, nil
}
