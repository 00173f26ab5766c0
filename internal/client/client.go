// Package client is the consumer side of the inventory API: a typed HTTP
// client and a Controller that keeps the view state of an inventory screen.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/erazemk/zaloga/internal/model"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// Client calls the inventory HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithToken sends a bearer token with every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New creates a client for the server at baseURL, e.g. http://localhost:8080.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListReferences fetches the entries of one lookup table.
func (c *Client) ListReferences(ctx context.Context, kind model.ReferenceKind) ([]model.ReferenceEntry, error) {
	if kind.Table() == "" {
		return nil, fmt.Errorf("unknown reference kind %q", kind)
	}
	var entries []model.ReferenceEntry
	if err := c.do(ctx, http.MethodGet, "/api/"+kind.Table(), nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// ListItems fetches all items, newest first.
func (c *Client) ListItems(ctx context.Context) ([]model.Item, error) {
	var items []model.Item
	if err := c.do(ctx, http.MethodGet, "/api/items", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// GetItem fetches a single item.
func (c *Client) GetItem(ctx context.Context, id int64) (*model.Item, error) {
	var item model.Item
	if err := c.do(ctx, http.MethodGet, itemPath(id), nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateItem adds an item and returns its id.
func (c *Client) CreateItem(ctx context.Context, in model.NewItem) (int64, error) {
	var resp struct {
		ID int64 `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/items", in, &resp); err != nil {
		return 0, err
	}
	return resp.ID, nil
}

// UpdateItemQuantity sets an item's quantity to q.
func (c *Client) UpdateItemQuantity(ctx context.Context, id int64, q int) error {
	return c.do(ctx, http.MethodPatch, itemPath(id)+"/quantity", map[string]int{"quantity": q}, nil)
}

// DeleteItem removes an item.
func (c *Client) DeleteItem(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, itemPath(id), nil, nil)
}

func itemPath(id int64) string {
	return "/api/items/" + strconv.FormatInt(id, 10)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errBody struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errBody); err != nil || errBody.Error == "" {
			errBody.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: errBody.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
