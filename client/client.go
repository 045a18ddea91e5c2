// Package client is a Go client for the storefront HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"aquashop/entities"
	"aquashop/models"
)

// StatusError is returned for any non-2xx response that has no sentinel.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("aquashop: %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Body)
}

// Unwrap maps well-known statuses onto the model sentinels so callers can
// use errors.Is.
func (e *StatusError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusNotFound:
		return models.ErrNotFoundError
	case http.StatusBadRequest:
		return models.ErrBadRequest
	case http.StatusUnauthorized:
		return models.ErrUnauthorized
	case http.StatusNotAcceptable:
		return models.ErrNotAllowed
	}
	if e.StatusCode >= 500 {
		return models.ErrServerError
	}
	return nil
}

type Client struct {
	base string
	http *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("aquashop: base url %q must be absolute", baseURL)
	}
	c := &Client{
		base: strings.TrimRight(u.String(), "/"),
		http: &http.Client{Timeout: 10 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

func (c *Client) ListFishes(ctx context.Context) ([]entities.Fish, error) {
	var out []entities.Fish
	err := c.do(ctx, http.MethodGet, "/fishes", nil, &out)
	return out, err
}

func (c *Client) ListFishesByCategory(ctx context.Context, category string) ([]entities.Fish, error) {
	var out []entities.Fish
	err := c.do(ctx, http.MethodGet, "/fishes?category="+url.QueryEscape(category), nil, &out)
	return out, err
}

// GetFish fails with an error wrapping models.ErrNotFoundError when the id
// is unknown.
func (c *Client) GetFish(ctx context.Context, id string) (entities.Fish, error) {
	var out entities.Fish
	err := c.do(ctx, http.MethodGet, "/fishes/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (c *Client) CreateOrder(ctx context.Context, req models.OrderRequest) (models.Order, error) {
	var out models.Order
	err := c.do(ctx, http.MethodPost, "/orders", req, &out)
	return out, err
}

func (c *Client) UpdateFish(ctx context.Context, id string, f models.Fish) (entities.Fish, error) {
	var out entities.Fish
	err := c.do(ctx, http.MethodPut, "/fishes/"+url.PathEscape(id), f, &out)
	return out, err
}

func (c *Client) DeleteFish(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/fishes/"+url.PathEscape(id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("aquashop: encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("aquashop: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("aquashop: decode %s %s: %w", method, path, err)
	}
	return nil
}
