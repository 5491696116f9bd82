// Package rest implements sharefile.Client over the ShareFile v3 REST API.
//
// Authentication uses the OAuth2 password grant; the token is refreshed
// transparently. Every call is rate limited and transient failures are
// retried with exponential backoff. Streamed uploads are sent once.
package rest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/marmos91/sharefs/internal/ratelimiter"
	"github.com/marmos91/sharefs/pkg/metrics"
	"github.com/marmos91/sharefs/pkg/sharefile"
)

// Client talks to one ShareFile account.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	plain   *http.Client
	retry   RetryPolicy
	limiter *ratelimiter.RateLimiter
	metrics metrics.ClientMetrics
}

var _ sharefile.Client = (*Client)(nil)

// New authenticates and returns a ready client.
func New(ctx context.Context, cfg Config) (*Client, error) {
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	authed, base, err := authenticate(ctx, &cfg)
	if err != nil {
		return nil, err
	}

	parsed, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("rest: invalid base url %q: %w", base, err)
	}

	return &Client{
		baseURL: parsed,
		http:    authed,
		plain:   cfg.HTTPClient,
		retry:   cfg.Retry,
		limiter: ratelimiter.New(cfg.RequestsPerSecond, cfg.Burst),
		metrics: cfg.Metrics,
	}, nil
}

// BaseURL returns the API root in use.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

func (c *Client) ItemByPath(ctx context.Context, path string) (*sharefile.Item, error) {
	var wire apiItem
	err := c.getJSON(ctx, "items_by_path", "Items/ByPath", url.Values{
		"path":    {path},
		"$expand": {"Info"},
	}, &wire)
	if err != nil {
		return nil, notFoundOn404(err, "path %q", path)
	}
	return wire.toItem(false), nil
}

func (c *Client) ItemByID(ctx context.Context, id string, withChildren bool) (*sharefile.Item, error) {
	expand := "Info"
	if withChildren {
		expand = "Info,Children"
	}

	var wire apiItem
	err := c.getJSON(ctx, "items_by_id", itemPath(id, ""), url.Values{"$expand": {expand}}, &wire)
	if err != nil {
		return nil, notFoundOn404(err, "item %s", id)
	}
	return wire.toItem(withChildren), nil
}

func (c *Client) ItemContents(ctx context.Context, id string) ([]byte, error) {
	resp, err := c.do(ctx, &request{
		Endpoint: "items_download",
		Method:   http.MethodGet,
		Path:     itemPath(id, "/Download"),
	})
	if err != nil {
		return nil, notFoundOn404(err, "item %s", id)
	}
	defer func() { _ = resp.Body.Close() }()

	return io.ReadAll(resp.Body)
}

func (c *Client) DownloadURL(ctx context.Context, id string) (string, error) {
	var spec downloadSpec
	err := c.getJSON(ctx, "items_download_url", itemPath(id, "/Download"), url.Values{
		"redirect": {"false"},
	}, &spec)
	if err != nil {
		return "", notFoundOn404(err, "item %s", id)
	}
	if spec.DownloadURL == "" {
		return "", fmt.Errorf("rest: item %s: empty download url", id)
	}
	return spec.DownloadURL, nil
}

// OpenURL fetches a pre-signed download URL without the bearer token.
func (c *Client) OpenURL(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.plain.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, readAPIError(resp)
	}
	return resp.Body, nil
}

// UploadStreamed uses the two-step "Standard" upload: request an
// UploadSpecification, then post the raw body to its ChunkUri.
func (c *Client) UploadStreamed(ctx context.Context, r io.Reader, parentID, filename string, unzip, overwrite bool) error {
	var spec uploadSpec
	resp, err := c.do(ctx, &request{
		Endpoint: "items_upload",
		Method:   http.MethodPost,
		Path:     itemPath(parentID, "/Upload2"),
		JSON: uploadRequest{
			Method:    "Standard",
			Raw:       true,
			FileName:  filename,
			Overwrite: overwrite,
			Unzip:     unzip,
		},
	})
	if err != nil {
		return notFoundOn404(err, "folder %s", parentID)
	}
	if err := decodeJSON(resp, &spec); err != nil {
		return err
	}
	if spec.ChunkURI == "" {
		return fmt.Errorf("rest: upload of %q: empty chunk uri", filename)
	}

	return discard(c.do(ctx, &request{
		Endpoint:    "upload_chunk",
		Method:      http.MethodPost,
		Path:        spec.ChunkURI,
		Body:        r,
		ContentType: "application/octet-stream",
	}))
}

func (c *Client) UpdateItem(ctx context.Context, id string, patch sharefile.ItemPatch) error {
	body := itemPatch{Name: patch.Name, FileName: patch.FileName}
	if patch.ParentID != "" {
		body.Parent = &apiRef{ID: patch.ParentID}
	}

	err := discard(c.do(ctx, &request{
		Endpoint: "items_update",
		Method:   http.MethodPatch,
		Path:     itemPath(id, ""),
		JSON:     body,
	}))
	return notFoundOn404(err, "item %s", id)
}

func (c *Client) CopyItem(ctx context.Context, targetParentID, sourceID string, overwrite bool) error {
	err := discard(c.do(ctx, &request{
		Endpoint: "items_copy",
		Method:   http.MethodPost,
		Path:     itemPath(sourceID, "/Copy"),
		Query: url.Values{
			"targetid":  {targetParentID},
			"overwrite": {strconv.FormatBool(overwrite)},
		},
	}))
	return notFoundOn404(err, "item %s", sourceID)
}

func (c *Client) DeleteItem(ctx context.Context, id string) error {
	err := discard(c.do(ctx, &request{
		Endpoint: "items_delete",
		Method:   http.MethodDelete,
		Path:     itemPath(id, ""),
	}))
	return notFoundOn404(err, "item %s", id)
}

func (c *Client) CreateFolder(ctx context.Context, parentID, name, description string, overwrite bool) error {
	err := discard(c.do(ctx, &request{
		Endpoint: "items_create_folder",
		Method:   http.MethodPost,
		Path:     itemPath(parentID, "/Folder"),
		Query:    url.Values{"overwrite": {strconv.FormatBool(overwrite)}},
		JSON:     folderRequest{Name: name, Description: description},
	}))
	return notFoundOn404(err, "folder %s", parentID)
}

// HomeFolderName returns the Name of the item served at the bare Items
// endpoint, which is the caller's home folder.
func (c *Client) HomeFolderName(ctx context.Context) (string, error) {
	var wire apiItem
	if err := c.getJSON(ctx, "items_home", "Items", nil, &wire); err != nil {
		return "", err
	}
	return wire.Name, nil
}

// notFoundOn404 tags 404 responses with sharefile.ErrItemNotFound and leaves
// every other error untouched.
func notFoundOn404(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w: %w", fmt.Sprintf(format, args...), sharefile.ErrItemNotFound, err)
	}
	return err
}
