package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/marmos91/sharefs/internal/logger"
)

// request describes one API call.
type request struct {
	// Endpoint is the metrics label, e.g. "items_by_path".
	Endpoint string
	Method   string

	// Path is relative to the API base, or absolute for upload chunk URIs.
	Path  string
	Query url.Values

	// JSON is encoded as the request body when non-nil.
	JSON any

	// Body is sent as-is when JSON is nil. Streamed bodies are never retried.
	Body        io.Reader
	ContentType string
}

// do executes req with rate limiting and retries. The caller closes the
// response body. Non-2xx responses become *APIError.
func (c *Client) do(ctx context.Context, req *request) (*http.Response, error) {
	target, err := c.resolveURL(req.Path, req.Query)
	if err != nil {
		return nil, err
	}

	var payload []byte
	replayable := true
	contentType := req.ContentType
	switch {
	case req.JSON != nil:
		payload, err = json.Marshal(req.JSON)
		if err != nil {
			return nil, fmt.Errorf("rest: encode %s body: %w", req.Endpoint, err)
		}
		contentType = "application/json"
	case req.Body != nil:
		replayable = false
	}

	bo := newBackoff(c.retry)
	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		var body io.Reader
		switch {
		case payload != nil:
			body = bytes.NewReader(payload)
		case req.Body != nil:
			body = req.Body
		}

		httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
		if err != nil {
			return nil, err
		}
		httpReq.Header.Set("Accept", "application/json")
		if contentType != "" {
			httpReq.Header.Set("Content-Type", contentType)
		}

		start := time.Now()
		resp, err := c.http.Do(httpReq)
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		c.metrics.RecordRequest(req.Endpoint, status, time.Since(start))

		if err == nil && resp.StatusCode < 400 {
			return resp, nil
		}

		if err == nil {
			err = readAPIError(resp)
		}

		if !replayable || attempt >= c.retry.MaxRetries || !shouldRetry(err) {
			return nil, err
		}

		delay := bo.forAttempt(attempt)
		logger.Debug("rest: %s %s failed (%v), retry %d in %s", req.Method, req.Endpoint, err, attempt+1, delay)
		c.metrics.RecordRetry(req.Endpoint)
		if err := sleepCtx(ctx, delay); err != nil {
			return nil, err
		}
	}
}

func shouldRetry(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable()
	}
	return true
}

func readAPIError(resp *http.Response) error {
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return fmt.Errorf("rest: read error body: %w", err)
	}
	return newAPIError(resp.StatusCode, body)
}

func (c *Client) resolveURL(path string, query url.Values) (string, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("rest: invalid path %q: %w", path, err)
	}
	full := c.baseURL.ResolveReference(ref)
	if len(query) > 0 {
		q := full.Query()
		for k, values := range query {
			for _, v := range values {
				q.Add(k, v)
			}
		}
		full.RawQuery = q.Encode()
	}
	return full.String(), nil
}

// getJSON issues a GET and decodes the response into out.
func (c *Client) getJSON(ctx context.Context, endpoint, path string, query url.Values, out any) error {
	resp, err := c.do(ctx, &request{Endpoint: endpoint, Method: http.MethodGet, Path: path, Query: query})
	if err != nil {
		return err
	}
	return decodeJSON(resp, out)
}

func decodeJSON(resp *http.Response, out any) error {
	defer func() { _ = resp.Body.Close() }()
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("rest: decode response: %w", err)
	}
	return nil
}

// discard drains and closes a response whose body is irrelevant.
func discard(resp *http.Response, err error) error {
	if err != nil {
		return err
	}
	return decodeJSON(resp, nil)
}

// itemPath renders the OData entity path "Items(<id>)" plus a suffix.
func itemPath(id, suffix string) string {
	return "Items(" + url.PathEscape(strings.TrimSpace(id)) + ")" + suffix
}
