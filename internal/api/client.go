// Package api is the typed HTTP client for the CareConnect backend. Every
// call is JSON over REST, carries the session token when one exists, and
// reports completed calls as user activity.
package api

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
)

const defaultTimeout = 15 * time.Second

// ErrUnauthorized is returned when the backend rejects the session token.
var ErrUnauthorized = errors.New("api: unauthorized")

// TokenSource supplies the current session token. An empty token with a nil
// error means the request goes out unauthenticated.
type TokenSource func(ctx context.Context) (string, error)

// Client talks to the CareConnect backend.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// OnError, when non-nil, observes every failed call (transport errors
	// and error statuses alike). Must not block.
	OnError func(method, path string, err error)

	tokens TokenSource
	onCall func()
}

// NewClient returns a client for baseURL. tokens may be nil for a client
// that only performs unauthenticated calls; onCall, when non-nil, is
// invoked after each completed request so API traffic counts as activity.
func NewClient(baseURL string, tokens TokenSource, onCall func()) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: defaultTimeout},
		tokens:     tokens,
		onCall:     onCall,
	}
}

type apiError struct {
	Error string `json:"error"`
}

// do performs one JSON request and reports any failure to OnError. in is
// marshaled as the body when non-nil; out is decoded from the response body
// when non-nil.
func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	err := c.roundTrip(ctx, method, path, in, out)
	if err != nil && c.OnError != nil {
		c.OnError(method, path, err)
	}
	return err
}

func (c *Client) roundTrip(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		tok, err := c.tokens(ctx)
		if err != nil {
			return err
		}
		if tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if c.onCall != nil {
		c.onCall()
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode >= 400:
		var apiErr apiError
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("api: %s %s: %s", method, path, apiErr.Error)
		}
		return fmt.Errorf("api: %s %s: status=%d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
