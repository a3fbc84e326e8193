// Package backend talks to the marketplace REST API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"coursefinder/internal/model"

	"github.com/rs/zerolog"
)

// Client is a thin REST client for the marketplace backend.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Retry   RetryConfig
	logger  zerolog.Logger
}

// New creates a Client. maxAttempts applies to idempotent GETs only.
func New(baseURL string, timeout time.Duration, maxAttempts int, logger zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	retry := DefaultRetryConfig()
	if maxAttempts > 0 {
		retry.MaxAttempts = maxAttempts
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
		Retry:   retry,
		logger:  logger,
	}
}

// MediaURL builds the public URL of a stored media path.
func (c *Client) MediaURL(path string) string {
	return c.BaseURL + "/media/" + model.NormalizeMediaPath(path)
}

func (c *Client) get(ctx context.Context, path, token string) ([]byte, error) {
	build := func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		setBearer(req, token)
		return req, nil
	}
	return c.send(ctx, build, c.Retry)
}

func (c *Client) postJSON(ctx context.Context, path, token string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", path, err)
	}
	build := func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		setBearer(req, token)
		return req, nil
	}
	return c.send(ctx, build, NoRetry())
}

func (c *Client) postBody(ctx context.Context, path, token, contentType string, body []byte) ([]byte, error) {
	build := func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Accept", "application/json")
		setBearer(req, token)
		return req, nil
	}
	return c.send(ctx, build, NoRetry())
}

// send runs the request and folds failures into the package's error
// taxonomy: transport failures wrap ErrUnavailable, 401/403 wrap
// ErrUnauthorized, other statuses stay *HTTPError.
func (c *Client) send(ctx context.Context, build func(context.Context) (*http.Request, error), retry RetryConfig) ([]byte, error) {
	start := time.Now()
	resp, body, err := doWithRetry(ctx, c.HTTP, build, retry)
	if resp != nil {
		c.logger.Debug().
			Str("method", resp.Request.Method).
			Str("url", resp.Request.URL.String()).
			Int("status", resp.StatusCode).
			Dur("elapsed", time.Since(start)).
			Msg("backend request")
	}
	if err == nil {
		return body, nil
	}

	var herr *HTTPError
	switch {
	case errors.As(err, &herr):
		if herr.StatusCode == http.StatusUnauthorized || herr.StatusCode == http.StatusForbidden {
			return nil, fmt.Errorf("%w: %w", ErrUnauthorized, herr)
		}
		return nil, herr
	case errors.Is(err, context.Canceled):
		return nil, err
	default:
		c.logger.Warn().Err(err).Msg("backend unreachable")
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
}

func setBearer(req *http.Request, token string) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}
