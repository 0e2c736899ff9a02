package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"sync"

	"github.com/quillfox/lmx/internal/shared"
)

// FileRef is a transient reference to fetched binary data, backed by a
// temporary file holding the exact bytes received. The caller owns the
// reference and releases it when done; nothing reference-counts it.
type FileRef struct {
	Name        string
	ContentType string
	Path        string
	Size        int64

	releaseOnce sync.Once
	releaseErr  error
}

// Open opens the referenced file for reading.
func (f *FileRef) Open() (*os.File, error) {
	return os.Open(f.Path)
}

// Release removes the backing temp file. Safe to call more than once.
func (f *FileRef) Release() error {
	f.releaseOnce.Do(func() {
		if err := os.Remove(f.Path); err != nil && !os.IsNotExist(err) {
			f.releaseErr = fmt.Errorf("failed to release file ref: %w", err)
		}
	})
	return f.releaseErr
}

// FetchFile fetches a binary file from the backend.
//
// The request is always a GET carrying only the Authorization header; the
// response body is spooled to a temp file byte for byte, never re-encoded.
// Failures are classified exactly like [Client.Call], including the 401
// logout side effect.
func (c *Client) FetchFile(ctx context.Context, endpoint string) (*FileRef, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.attachAuth(req)

	requestID := shared.GenerateID()
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("file fetch failed", "endpoint", endpoint, "request_id", requestID, "error", err)
		return nil, fmt.Errorf("cannot reach server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		isJSON := isJSONContentType(resp.Header.Get("Content-Type"))
		return nil, c.classifyFailure(endpoint, resp.StatusCode, isJSON, body)
	}

	name := path.Base(endpoint)
	tmp, err := os.CreateTemp("", "lmx-*-"+name)
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}

	size, err := io.Copy(tmp, resp.Body)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("failed to spool file: %w", err)
	}

	c.logger.Debug("file fetched", "endpoint", endpoint, "bytes", size, "request_id", requestID)

	return &FileRef{
		Name:        name,
		ContentType: resp.Header.Get("Content-Type"),
		Path:        tmp.Name(),
		Size:        size,
	}, nil
}

// MarshalJSON lets a FileRef appear in JSON command output without exposing
// the temp file handle internals.
func (f *FileRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name        string `json:"name"`
		ContentType string `json:"content_type"`
		Path        string `json:"path"`
		Size        int64  `json:"size"`
	}{f.Name, f.ContentType, f.Path, f.Size})
}
