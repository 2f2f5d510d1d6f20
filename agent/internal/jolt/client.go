package jolt

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/Ckuran148/Jolt/agent/internal/config"
	"github.com/Ckuran148/Jolt/pkg/types"
)

const (
	maxAttempts    = 3
	retryStep      = 1 * time.Second
	errorBodyChars = 50
)

var titleRe = regexp.MustCompile(`(?is)<title>(.*?)</title>`)

// APIError is returned when the API answers with a GraphQL errors array.
type APIError struct {
	Messages []string
}

func (e *APIError) Error() string {
	return strings.Join(e.Messages, ", ")
}

// retryableError marks a failed attempt that may succeed when repeated.
type retryableError struct {
	err error
}

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

// Client talks to the checklist GraphQL endpoint.
type Client struct {
	endpoint string
	http     *http.Client
	limiter  *rate.Limiter

	// pause returns how long to wait before attempt n (1-based retries).
	pause func(n int) time.Duration
}

// New builds a Client for cfg. ratePerSecond <= 0 disables client-side
// rate limiting.
func New(cfg config.JoltConfig, ratePerSecond float64) *Client {
	limit := rate.Inf
	if ratePerSecond > 0 {
		limit = rate.Limit(ratePerSecond)
	}
	return &Client{
		endpoint: cfg.Endpoint,
		http:     buildHTTPClient(cfg),
		limiter:  rate.NewLimiter(limit, 1),
		pause:    func(n int) time.Duration { return time.Duration(n) * retryStep },
	}
}

// Locations returns every location visible to the configured credentials.
func (c *Client) Locations(ctx context.Context) ([]types.Location, error) {
	var out struct {
		Company struct {
			Locations []types.Location `json:"locations"`
		} `json:"company"`
	}
	if err := c.Query(ctx, locationsQuery, nil, &out); err != nil {
		return nil, fmt.Errorf("jolt: locations: %w", err)
	}
	return out.Company.Locations, nil
}

// ListInstances returns the top-level lists of locationID displayed within
// [start, end] (unix seconds), each with its item tree three sublists deep.
func (c *Client) ListInstances(ctx context.Context, locationID string, start, end int64) ([]types.ListInstance, error) {
	vars := map[string]any{
		"filter": map[string]any{
			"locationIds":            []string{locationID},
			"displayAfterTimestamp":  start,
			"displayBeforeTimestamp": end,
			"isSublist":              false,
		},
	}
	var out struct {
		ListInstances []types.ListInstance `json:"listInstances"`
	}
	if err := c.Query(ctx, listInstancesQuery, vars, &out); err != nil {
		return nil, fmt.Errorf("jolt: list instances %s: %w", locationID, err)
	}
	return out.ListInstances, nil
}

type request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type response struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Query posts a GraphQL document and decodes the data member into out.
func (c *Client) Query(ctx context.Context, query string, vars map[string]any, out any) error {
	if vars == nil {
		vars = map[string]any{}
	}
	body, err := json.Marshal(request{Query: query, Variables: vars})
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	var lastErr error
	for n := 0; n < maxAttempts; n++ {
		if n > 0 {
			wait := c.pause(n)
			slog.Warn("jolt: request failed, retrying", "attempt", n, "err", lastErr, "retry_in", wait)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}

		data, err := c.attempt(ctx, body)
		if err == nil {
			if out == nil || len(data) == 0 || string(data) == "null" {
				return nil
			}
			if err := json.Unmarshal(data, out); err != nil {
				return fmt.Errorf("decode data: %w", err)
			}
			return nil
		}

		var re *retryableError
		if !errors.As(err, &re) {
			return err
		}
		lastErr = re.err
	}
	return fmt.Errorf("giving up after %d attempts: %w", maxAttempts, lastErr)
}

// attempt performs one POST and classifies its failure.
func (c *Client) attempt(ctx context.Context, body []byte) (json.RawMessage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &retryableError{fmt.Errorf("http post: %w", err)}
	}
	defer resp.Body.Close()

	text, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &retryableError{fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &retryableError{fmt.Errorf("api error (%d): %s", resp.StatusCode, truncate(string(text), errorBodyChars))}
	}

	var r response
	if err := json.Unmarshal(text, &r); err != nil {
		msg := "proxy timeout: received HTML instead of data"
		if m := titleRe.FindSubmatch(text); m != nil && len(bytes.TrimSpace(m[1])) > 0 {
			msg += " [" + string(bytes.TrimSpace(m[1])) + "]"
		}
		return nil, &retryableError{errors.New(msg)}
	}

	if len(r.Errors) > 0 {
		msgs := make([]string, len(r.Errors))
		for i, e := range r.Errors {
			msgs[i] = e.Message
		}
		return nil, &APIError{Messages: msgs}
	}
	return r.Data, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// authRoundTripper injects authentication headers into every outgoing request.
type authRoundTripper struct {
	base http.RoundTripper
	auth config.AuthConfig
}

func (t *authRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	switch t.auth.Mode {
	case "apikey":
		req = req.Clone(req.Context())
		req.Header.Set(t.auth.EffectiveHeader(), t.auth.Key())
	case "bearer":
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+t.auth.Token())
	case "basic":
		req = req.Clone(req.Context())
		req.SetBasicAuth(t.auth.Username, t.auth.Password())
	}
	return t.base.RoundTrip(req)
}

// buildHTTPClient constructs an http.Client for the endpoint's auth and TLS settings.
func buildHTTPClient(cfg config.JoltConfig) *http.Client {
	tlsCfg := &tls.Config{
		InsecureSkipVerify: cfg.TLS.InsecureSkipVerify, //nolint:gosec // user-configured
	}
	return &http.Client{
		Transport: &authRoundTripper{
			base: &http.Transport{TLSClientConfig: tlsCfg, Proxy: http.ProxyFromEnvironment},
			auth: cfg.Auth,
		},
		Timeout: cfg.Timeout,
	}
}
