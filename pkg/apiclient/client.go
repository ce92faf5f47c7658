// Package apiclient is the HTTP transport both runtimes use to talk
// to the LogiTrack API. It attaches the bearer token when one is
// stored, bounds every request with a fixed timeout, and tears the
// stored session down on any 401 while still returning the error to
// the caller. What to do after a 401 (redirect, re-render, prompt) is
// a policy decision that belongs to the layers above.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/logitrack/clients/pkg/logging"
	"github.com/logitrack/clients/pkg/models"
	"github.com/logitrack/clients/pkg/store"
)

const requestTimeout = 10 * time.Second

type Client struct {
	baseURL    string
	store      store.Store
	httpClient *http.Client
}

func New(baseURL string, st store.Store) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		store:   st,
		httpClient: &http.Client{
			Timeout: requestTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// WithStore returns a client that shares the underlying HTTP client
// but reads and clears tokens in st. The web runtime binds its
// per-request cookie store to one shared transport this way.
func (c *Client) WithStore(st store.Store) *Client {
	clone := *c
	clone.store = st
	return &clone
}

func (c *Client) Get(ctx context.Context, path string) (*models.Envelope, error) {
	return c.Do(ctx, http.MethodGet, path, nil)
}

func (c *Client) Post(ctx context.Context, path string, body any) (*models.Envelope, error) {
	return c.Do(ctx, http.MethodPost, path, body)
}

func (c *Client) Patch(ctx context.Context, path string, body any) (*models.Envelope, error) {
	return c.Do(ctx, http.MethodPatch, path, body)
}

func (c *Client) Do(ctx context.Context, method, path string, body any) (*models.Envelope, error) {
	l := logging.FromContext(ctx).With("method", method, "path", path)

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	// Presence of a token decides whether the request goes out
	// authenticated; the server is the final arbiter of access.
	if c.store != nil {
		if snap, ok, _ := c.store.Load(); ok && snap.Access != "" {
			req.Header.Set("Authorization", "Bearer "+snap.Access)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		l.Warn("request_failed", "error", err)
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		// The only local action a 401 takes: drop the stored session.
		// The original error still reaches the caller untouched.
		if c.store != nil {
			if clearErr := c.store.Clear(); clearErr != nil {
				l.Error("session_clear_failed", "error", clearErr)
			}
		}
		l.Warn("unauthorized", "status", resp.StatusCode)
		return nil, apiErrorFrom(resp.StatusCode, raw)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		l.Warn("request_rejected", "status", resp.StatusCode)
		return nil, apiErrorFrom(resp.StatusCode, raw)
	}

	var env models.Envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
	} else {
		env.Success = true
	}
	l.Debug("request_completed", "status", resp.StatusCode)
	return &env, nil
}

func apiErrorFrom(status int, raw []byte) *APIError {
	apiErr := &APIError{Status: status}
	var env models.Envelope
	if err := json.Unmarshal(raw, &env); err == nil {
		apiErr.Message = env.Message
		apiErr.Errors = env.Errors
	}
	return apiErr
}
