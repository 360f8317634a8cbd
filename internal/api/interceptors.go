package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

func (c *Client) requestIDInterceptor(_ context.Context, req *http.Request) error {
	if req.Header.Get("X-Request-ID") == "" {
		req.Header.Set("X-Request-ID", c.newID())
	}
	return nil
}

// authInterceptor attaches the stored bearer token, if any.
func (c *Client) authInterceptor(ctx context.Context, req *http.Request) error {
	if c.tokens == nil {
		return nil
	}
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("reading auth token: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return nil
}

// unauthorizedInterceptor clears the stored token when the server rejects
// the credentials. The 401 error itself still reaches the caller.
func (c *Client) unauthorizedInterceptor(ctx context.Context, call *Call) {
	if c.tokens == nil || !errors.Is(call.Err, ErrUnauthorized) {
		return
	}
	// Clearing must happen even if the caller's context is already done.
	if err := c.tokens.ClearToken(context.WithoutCancel(ctx)); err != nil {
		call.ClearErr = err
		return
	}
	call.TokenCleared = true
}
