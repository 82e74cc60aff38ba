// Package client talks to a running toast instance over its HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/idilsaglam/toast/internal/api"
	"github.com/idilsaglam/toast/internal/model"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
)

type Client struct {
	base  string
	token string
	http  *http.Client
}

// New returns a client for the API at addr (e.g. "http://127.0.0.1:7766").
// An empty token sends no Authorization header.
func New(addr, token string) *Client {
	if !strings.Contains(addr, "://") {
		addr = "http://" + addr
	}
	return &Client{
		base:  strings.TrimRight(addr, "/"),
		token: token,
		http:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Create(ctx context.Context, req api.CreateRequest) (model.ID, error) {
	var out api.CreateResponse
	if err := c.do(ctx, http.MethodPost, "/toasts", req, &out); err != nil {
		return 0, err
	}
	return out.ID, nil
}

func (c *Client) List(ctx context.Context) ([]api.Toast, error) {
	var out []api.Toast
	if err := c.do(ctx, http.MethodGet, "/toasts", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Dismiss succeeds whether or not the toast still exists.
func (c *Client) Dismiss(ctx context.Context, id model.ID) error {
	return c.do(ctx, http.MethodDelete, "/toasts/"+id.String(), nil, nil)
}

func (c *Client) Pin(ctx context.Context, id model.ID) error {
	return c.do(ctx, http.MethodPost, "/toasts/"+id.String()+"/pin", nil, nil)
}

func (c *Client) Restart(ctx context.Context, id model.ID) error {
	return c.do(ctx, http.MethodPost, "/toasts/"+id.String()+"/restart", nil, nil)
}

func (c *Client) Clear(ctx context.Context) (int, error) {
	var out api.ClearResponse
	if err := c.do(ctx, http.MethodDelete, "/toasts", nil, &out); err != nil {
		return 0, err
	}
	return out.Cleared, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal: %w", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	if in != nil {
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

	if resp.StatusCode >= 300 {
		var e api.Error
		json.NewDecoder(resp.Body).Decode(&e)
		msg := e.Error
		if msg == "" {
			msg = resp.Status
		}
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %s", ErrNotFound, msg)
		}
		return fmt.Errorf("%s %s: %s", method, path, msg)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
