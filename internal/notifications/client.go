package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	appErrors "dbdeck/internal/errors"

	"github.com/google/uuid"
)

const (
	notificationsPath = "/platform/notifications"
	apiVersion        = "2"
)

// Client calls the platform notifications API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithToken sends token as a bearer credential.
func WithToken(token string) ClientOption {
	return func(c *Client) {
		c.token = strings.TrimSpace(token)
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient returns a client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch loads one page. Page N starts at offset N*limit; with no status
// filter the feed shows new and seen notifications.
func (c *Client) Fetch(ctx context.Context, q Query) ([]Notification, error) {
	limit := q.limit()
	params := url.Values{}
	params.Set("offset", strconv.Itoa(q.Page*limit))
	params.Set("limit", strconv.Itoa(limit))
	for _, s := range q.statuses() {
		params.Add("status", string(s))
	}
	for _, p := range q.Priority {
		params.Add("priority", string(p))
	}

	req, err := c.newRequest(ctx, http.MethodGet, notificationsPath+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	var out []Notification
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []Notification{}
	}
	return out, nil
}

type statusUpdate struct {
	IDs    []uuid.UUID `json:"ids"`
	Status Status      `json:"status"`
}

// UpdateStatus sets the status of the given notifications.
func (c *Client) UpdateStatus(ctx context.Context, ids []uuid.UUID, status Status) error {
	if len(ids) == 0 {
		return nil
	}
	body, err := json.Marshal(statusUpdate{IDs: ids, Status: status})
	if err != nil {
		return fmt.Errorf("encode status update: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPatch, notificationsPath, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, nil)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	if c.baseURL == "" {
		return nil, appErrors.New(appErrors.CodeConfigurationError, "api url is not configured", nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, appErrors.New(appErrors.CodeHTTP, "build request", err)
	}
	req.Header.Set("Version", apiVersion)
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

type errorBody struct {
	Message string `json:"message"`
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return ctxErr
		}
		return appErrors.New(appErrors.CodeHTTP, err.Error(), err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return appErrors.New(appErrors.CodeHTTP, "read response", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := http.StatusText(resp.StatusCode)
		var eb errorBody
		if json.Unmarshal(data, &eb) == nil && eb.Message != "" {
			msg = eb.Message
		}
		return appErrors.New(appErrors.CodeResponse, msg, fmt.Errorf("%s %s: status %d", req.Method, req.URL.Path, resp.StatusCode))
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return appErrors.New(appErrors.CodeResponse, "decode notifications", err)
	}
	return nil
}
