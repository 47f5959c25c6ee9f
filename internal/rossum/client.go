// Package rossum talks to the document-processing API: login, queue export
// and queue listing. Every call is attempted exactly once.
package rossum

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/rezonia/invoice-exporter/internal/model"
)

const DefaultTimeout = 30 * time.Second

// Client is a document-processing API client bound to one organization
type Client struct {
	baseURL    string
	username   string
	password   string
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

// NewClient creates a client. baseURL ends with a slash, e.g.
// https://acme.rossum.app/api/v1/
func NewClient(baseURL, username, password string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    baseURL,
		username:   username,
		password:   password,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login exchanges the configured credentials for an API key
func (c *Client) Login(ctx context.Context) (string, error) {
	url := c.baseURL + "auth/login"

	payload, err := json.Marshal(loginRequest{Username: c.username, Password: c.password})
	if err != nil {
		return "", model.NewInternalError("failed to encode login request", err)
	}

	status, body, err := c.do(ctx, http.MethodPost, url, "", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", model.NewAuthError(status, "Rossum authentication failed")
	}

	key := gjson.GetBytes(body, "key").String()
	if key == "" {
		return "", model.NewInternalError("Failed to retrieve API key from Rossum response", nil)
	}
	return key, nil
}

// ExportAnnotations fetches the XML export of a queue.
// An unknown queue fails NotFound, listing every queue id the key can see.
func (c *Client) ExportAnnotations(ctx context.Context, token string, queueID int64) ([]byte, error) {
	url := fmt.Sprintf("%squeues/%d/export?format=xml", c.baseURL, queueID)

	status, body, err := c.do(ctx, http.MethodGet, url, token, nil)
	if err != nil {
		return nil, err
	}

	switch status {
	case http.StatusOK:
		return body, nil
	case http.StatusNotFound:
		ids, err := c.ListQueues(ctx, token)
		if err != nil {
			return nil, err
		}
		return nil, model.NewNotFoundError("Queue id not found, available queues: " + strings.Join(ids, ", "))
	default:
		return nil, model.NewUnexpectedError(status, "Unexpected error occurred while fetching annotations", string(body))
	}
}

// ListQueues returns the ids of all queues visible to the key
func (c *Client) ListQueues(ctx context.Context, token string) ([]string, error) {
	url := c.baseURL + "queues"

	status, body, err := c.do(ctx, http.MethodGet, url, token, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, model.NewUpstreamError(status, "Failed to retrieve available queues", string(body))
	}

	var ids []string
	for _, id := range gjson.GetBytes(body, "results.#.id").Array() {
		ids = append(ids, id.String())
	}
	return ids, nil
}

func (c *Client) do(ctx context.Context, method, url, token string, body io.Reader) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return 0, nil, model.NewInternalError("failed to build request", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
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
	return resp.StatusCode, data, nil
}
