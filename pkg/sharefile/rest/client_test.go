package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/marmos91/sharefs/pkg/sharefile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingMetrics struct {
	mu       sync.Mutex
	requests map[string]int
	retries  map[string]int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{requests: map[string]int{}, retries: map[string]int{}}
}

func (m *countingMetrics) RecordRequest(endpoint string, _ int, _ time.Duration) {
	m.mu.Lock()
	m.requests[endpoint]++
	m.mu.Unlock()
}

func (m *countingMetrics) RecordRetry(endpoint string) {
	m.mu.Lock()
	m.retries[endpoint]++
	m.mu.Unlock()
}

// apiServer is an httptest server with a token endpoint and a mux for the
// API routes under /sf/v3/.
type apiServer struct {
	*httptest.Server
	mux *http.ServeMux
}

func newAPIServer(t *testing.T) *apiServer {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.PostForm.Get("grant_type") != "password" || r.PostForm.Get("password") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"error":"invalid_grant"}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"access_token":"tok","token_type":"bearer","expires_in":3600,"subdomain":"acme","apicp":"sharefile.com"}`)
	})

	s := &apiServer{Server: httptest.NewServer(mux), mux: mux}
	t.Cleanup(s.Close)
	return s
}

// handle registers an API route that requires the bearer token.
func (s *apiServer) handle(t *testing.T, pattern string, h http.HandlerFunc) {
	s.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"), pattern)
		h(w, r)
	})
}

func (s *apiServer) config() Config {
	return Config{
		ClientID:     "id",
		ClientSecret: "cs",
		Username:     "user@example.com",
		Password:     "secret",
		TokenURL:     s.URL + "/oauth/token",
		BaseURL:      s.URL + "/sf/v3/",
		Retry:        RetryPolicy{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond},
	}
}

func (s *apiServer) client(t *testing.T) *Client {
	t.Helper()
	c, err := New(context.Background(), s.config())
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNew_Validation(t *testing.T) {
	_, err := New(context.Background(), Config{})
	assert.Error(t, err)

	_, err = New(context.Background(), Config{Hostname: "acme.sharefile.com", ClientID: "id", ClientSecret: "cs"})
	assert.Error(t, err, "credentials are required")
}

func TestNew_BadCredentials(t *testing.T) {
	s := newAPIServer(t)
	cfg := s.config()
	cfg.Password = "wrong"

	_, err := New(context.Background(), cfg)
	assert.Error(t, err)
}

func TestNew_DerivesBaseURLFromToken(t *testing.T) {
	s := newAPIServer(t)
	cfg := s.config()
	cfg.BaseURL = ""

	c, err := New(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "https://acme.sharefile.com/sf/v3/", c.BaseURL())
}

func TestItemByPath(t *testing.T) {
	s := newAPIServer(t)
	s.handle(t, "/sf/v3/Items/ByPath", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/docs/report.pdf", r.URL.Query().Get("path"))
		assert.Equal(t, "Info", r.URL.Query().Get("$expand"))
		writeJSON(w, http.StatusOK, map[string]any{
			"odata.type":         sharefile.ODataTypeFile,
			"Id":                 "fi123",
			"Name":               "report.pdf",
			"FileName":           "report.pdf",
			"FileSizeBytes":      2048,
			"ClientModifiedDate": "2024-01-02T03:04:05Z",
			"Parent":             map[string]any{"Id": "fo456"},
			"Info": map[string]any{
				"CanDownload": true,
				"CanUpload":   false,
				"CanView":     "yes",
			},
		})
	})

	item, err := s.client(t).ItemByPath(context.Background(), "/docs/report.pdf")
	require.NoError(t, err)

	assert.Equal(t, "fi123", item.ID)
	assert.Equal(t, sharefile.KindFile, item.Kind)
	assert.Equal(t, "report.pdf", item.Name)
	assert.Equal(t, "fo456", item.ParentID)
	assert.Equal(t, int64(2048), item.Size)
	assert.Equal(t, "2024-01-02T03:04:05Z", item.ClientModifiedDate)
	assert.True(t, item.Info.Allows(sharefile.CanDownload))
	assert.False(t, item.Info.Allows(sharefile.CanUpload))
	assert.False(t, item.Info.Allows(sharefile.CanView), "non-boolean flags deny")
}

func TestItemByPath_NotFound(t *testing.T) {
	s := newAPIServer(t)
	s.handle(t, "/sf/v3/Items/ByPath", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"code":    "NotFound",
			"message": map[string]any{"lang": "en-US", "value": "Item not found"},
		})
	})

	_, err := s.client(t).ItemByPath(context.Background(), "/missing")
	require.Error(t, err)
	assert.True(t, sharefile.IsNotFound(err))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "NotFound", apiErr.Code)
	assert.Equal(t, "Item not found", apiErr.Message)
}

func TestItemByID_WithChildren(t *testing.T) {
	s := newAPIServer(t)
	s.handle(t, "/sf/v3/Items(fo1)", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Info,Children", r.URL.Query().Get("$expand"))
		writeJSON(w, http.StatusOK, map[string]any{
			"odata.type": sharefile.ODataTypeFolder,
			"Id":         "fo1",
			"Name":       "docs",
			"FileName":   "docs",
			"Children": []map[string]any{
				{"odata.type": sharefile.ODataTypeFile, "Id": "a", "FileName": "b.txt", "Parent": map[string]any{"Id": "fo1"}},
				{"odata.type": "ShareFile.Api.Models.Link", "Id": "l", "Name": "link"},
				{"odata.type": sharefile.ODataTypeFile, "Id": "c", "FileName": "a.txt", "Parent": map[string]any{"Id": "fo1"}},
			},
		})
	})

	item, err := s.client(t).ItemByID(context.Background(), "fo1", true)
	require.NoError(t, err)
	assert.True(t, item.IsFolder())
	require.Len(t, item.Children, 3)
	assert.Equal(t, "b.txt", item.Children[0].Name, "server order is kept")
	assert.Equal(t, sharefile.KindOther, item.Children[1].Kind)
	assert.Equal(t, "link", item.Children[1].Name)
}

func TestRetriesTransientFailures(t *testing.T) {
	s := newAPIServer(t)
	var calls atomic.Int32
	s.handle(t, "/sf/v3/Items", func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"odata.type": sharefile.ODataTypeFolder, "Id": "home", "Name": "Personal Folders"})
	})

	m := newCountingMetrics()
	cfg := s.config()
	cfg.Metrics = m
	c, err := New(context.Background(), cfg)
	require.NoError(t, err)

	name, err := c.HomeFolderName(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Personal Folders", name)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, 3, m.requests["items_home"])
	assert.Equal(t, 2, m.retries["items_home"])
}

func TestGivesUpAfterMaxRetries(t *testing.T) {
	s := newAPIServer(t)
	var calls atomic.Int32
	s.handle(t, "/sf/v3/Items", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := s.client(t).HomeFolderName(context.Background())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, int32(3), calls.Load(), "one attempt plus two retries")
}

func TestDoesNotRetryClientErrors(t *testing.T) {
	s := newAPIServer(t)
	var calls atomic.Int32
	s.handle(t, "/sf/v3/Items(x)", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	})

	err := s.client(t).DeleteItem(context.Background(), "x")
	require.Error(t, err)
	assert.False(t, sharefile.IsNotFound(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestUploadStreamed(t *testing.T) {
	s := newAPIServer(t)
	var received atomic.Value

	s.handle(t, "/sf/v3/Items(fo1)/Upload2", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var req uploadRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, uploadRequest{Method: "Standard", Raw: true, FileName: "a.txt", Overwrite: true}, req)
		writeJSON(w, http.StatusOK, map[string]any{"ChunkUri": s.URL + "/upload/chunk?uploadid=u1"})
	})
	s.handle(t, "/upload/chunk", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "u1", r.URL.Query().Get("uploadid"))
		body, _ := io.ReadAll(r.Body)
		received.Store(string(body))
		w.WriteHeader(http.StatusOK)
	})

	err := s.client(t).UploadStreamed(context.Background(), strings.NewReader("hello"), "fo1", "a.txt", false, true)
	require.NoError(t, err)
	assert.Equal(t, "hello", received.Load())
}

func TestUpdateCopyDeleteCreate(t *testing.T) {
	s := newAPIServer(t)

	s.handle(t, "/sf/v3/Items(fi1)", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPatch:
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "b.txt", body["Name"])
			assert.Equal(t, "b.txt", body["FileName"])
			assert.Equal(t, map[string]any{"Id": "fo2"}, body["Parent"])
			writeJSON(w, http.StatusOK, map[string]any{"Id": "fi1"})
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	})
	s.handle(t, "/sf/v3/Items(fi1)/Copy", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "fo2", r.URL.Query().Get("targetid"))
		assert.Equal(t, "true", r.URL.Query().Get("overwrite"))
		writeJSON(w, http.StatusOK, map[string]any{"Id": "fi9"})
	})
	s.handle(t, "/sf/v3/Items(fo2)/Folder", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "true", r.URL.Query().Get("overwrite"))
		var body folderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, folderRequest{Name: "new", Description: "new"}, body)
		writeJSON(w, http.StatusOK, map[string]any{"Id": "fo3"})
	})

	c := s.client(t)
	ctx := context.Background()

	require.NoError(t, c.UpdateItem(ctx, "fi1", sharefile.ItemPatch{Name: "b.txt", FileName: "b.txt", ParentID: "fo2"}))
	require.NoError(t, c.CopyItem(ctx, "fo2", "fi1", true))
	require.NoError(t, c.DeleteItem(ctx, "fi1"))
	require.NoError(t, c.CreateFolder(ctx, "fo2", "new", "new", true))
}

func TestDownload(t *testing.T) {
	s := newAPIServer(t)
	s.handle(t, "/sf/v3/Items(fi1)/Download", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("redirect") == "false" {
			writeJSON(w, http.StatusOK, map[string]any{"DownloadUrl": s.URL + "/files/fi1"})
			return
		}
		_, _ = io.WriteString(w, "file body")
	})
	s.mux.HandleFunc("/files/fi1", func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"), "pre-signed urls get no bearer token")
		_, _ = io.WriteString(w, "streamed body")
	})

	c := s.client(t)
	ctx := context.Background()

	data, err := c.ItemContents(ctx, "fi1")
	require.NoError(t, err)
	assert.Equal(t, "file body", string(data))

	u, err := c.DownloadURL(ctx, "fi1")
	require.NoError(t, err)

	rc, err := c.OpenURL(ctx, u)
	require.NoError(t, err)
	defer rc.Close()
	streamed, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "streamed body", string(streamed))

	_, err = c.OpenURL(ctx, s.URL+"/files/missing")
	assert.Error(t, err)
}

func TestBackoffBounds(t *testing.T) {
	b := newBackoff(RetryPolicy{BaseDelay: 10 * time.Millisecond, MaxDelay: 50 * time.Millisecond})
	assert.Equal(t, 10*time.Millisecond, b.forAttempt(0))
	assert.Equal(t, 20*time.Millisecond, b.forAttempt(1))
	assert.Equal(t, 40*time.Millisecond, b.forAttempt(2))
	assert.Equal(t, 50*time.Millisecond, b.forAttempt(3))
	assert.Equal(t, 50*time.Millisecond, b.forAttempt(40))

	jittered := newBackoff(RetryPolicy{BaseDelay: 100 * time.Millisecond, MaxDelay: time.Second, Jitter: 0.5})
	for i := 0; i < 20; i++ {
		d := jittered.forAttempt(0)
		assert.GreaterOrEqual(t, d, 50*time.Millisecond)
		assert.LessOrEqual(t, d, 150*time.Millisecond)
	}
}
