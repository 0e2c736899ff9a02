package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/quillfox/lmx/internal/shared"
	tu "github.com/quillfox/lmx/internal/testing"
)

// staticTokens is a TokenSource returning a fixed token.
type staticTokens string

func (s staticTokens) Token() string { return string(s) }

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	client := NewClient(srv.URL, srv.Client())
	client.SetLogger(shared.NewLogger(&bytes.Buffer{}))
	return client, srv
}

func TestClient(t *testing.T) {
	ctx := context.Background()

	t.Run("NewClient", func(t *testing.T) {
		t.Run("with empty base URL uses default", func(t *testing.T) {
			client := NewClient("", nil)
			if client.BaseURL() != defaultBaseURL {
				t.Errorf("BaseURL() = %s, want %s", client.BaseURL(), defaultBaseURL)
			}
		})

		t.Run("with nil http client uses default", func(t *testing.T) {
			client := NewClient("http://example.test", nil)
			if client.httpClient != http.DefaultClient {
				t.Error("expected http.DefaultClient")
			}
		})
	})

	t.Run("attaches bearer token when authenticated", func(t *testing.T) {
		var gotAuth string
		client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			gotAuth = req.Header.Get("Authorization")
			w.WriteHeader(http.StatusNoContent)
		}))
		defer srv.Close()
		client.SetTokenSource(staticTokens("tok-123"))

		if _, err := client.Call(ctx, "/api/courses", CallOptions{}); err != nil {
			t.Fatalf("Call failed: %v", err)
		}
		if gotAuth != "Bearer tok-123" {
			t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer tok-123")
		}
	})

	t.Run("sends no auth header when token is empty", func(t *testing.T) {
		var gotAuth string
		client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			gotAuth = req.Header.Get("Authorization")
			w.WriteHeader(http.StatusNoContent)
		}))
		defer srv.Close()
		client.SetTokenSource(staticTokens(""))

		if _, err := client.Call(ctx, "/api/courses", CallOptions{}); err != nil {
			t.Fatalf("Call failed: %v", err)
		}
		if gotAuth != "" {
			t.Errorf("Authorization = %q, want empty", gotAuth)
		}
	})

	t.Run("marshals body as JSON for POST", func(t *testing.T) {
		var gotBody []byte
		var gotContentType string
		client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			gotBody, _ = io.ReadAll(req.Body)
			gotContentType = req.Header.Get("Content-Type")
			w.WriteHeader(http.StatusNoContent)
		}))
		defer srv.Close()

		_, err := client.Call(ctx, "/api/things", CallOptions{
			Method: http.MethodPost,
			Body:   map[string]string{"name": "algebra"},
		})
		if err != nil {
			t.Fatalf("Call failed: %v", err)
		}
		if gotContentType != "application/json" {
			t.Errorf("Content-Type = %q", gotContentType)
		}
		if string(gotBody) != `{"name":"algebra"}` {
			t.Errorf("body = %s", gotBody)
		}
	})

	t.Run("binary form passes bytes and content type through", func(t *testing.T) {
		var gotBody []byte
		var gotContentType string
		client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			gotBody, _ = io.ReadAll(req.Body)
			gotContentType = req.Header.Get("Content-Type")
			w.WriteHeader(http.StatusNoContent)
		}))
		defer srv.Close()

		payload := []byte("--boundary\r\ncontent\r\n--boundary--\r\n")
		_, err := client.Call(ctx, "/api/homework/submit", CallOptions{
			Method:      http.MethodPost,
			Body:        payload,
			BinaryForm:  true,
			ContentType: "multipart/form-data; boundary=boundary",
		})
		if err != nil {
			t.Fatalf("Call failed: %v", err)
		}
		if !bytes.Equal(gotBody, payload) {
			t.Error("multipart payload was altered in transit")
		}
		if gotContentType != "multipart/form-data; boundary=boundary" {
			t.Errorf("Content-Type = %q", gotContentType)
		}
	})

	t.Run("binary form rejects unsupported body types", func(t *testing.T) {
		client := NewClient("http://example.test", nil)

		_, err := client.Call(ctx, "/api/homework/submit", CallOptions{
			Method:     http.MethodPost,
			Body:       42,
			BinaryForm: true,
		})
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("error = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("204 yields an empty response", func(t *testing.T) {
		client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))
		defer srv.Close()

		resp, err := client.Call(ctx, "/api/calendar/sync", CallOptions{Method: http.MethodPost})
		if err != nil {
			t.Fatalf("Call failed: %v", err)
		}
		if len(resp.Body) != 0 {
			t.Errorf("body = %q, want empty", resp.Body)
		}
		if resp.Value() != nil {
			t.Errorf("Value() = %v, want nil", resp.Value())
		}
	})

	t.Run("non-JSON success is wrapped, not an error", func(t *testing.T) {
		client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("Content-Type", "text/plain")
			w.Write([]byte("pong"))
		}))
		defer srv.Close()

		resp, err := client.Call(ctx, "/api/ping", CallOptions{})
		if err != nil {
			t.Fatalf("Call failed: %v", err)
		}

		value, ok := resp.Value().(TextResult)
		if !ok {
			t.Fatalf("Value() = %T, want TextResult", resp.Value())
		}
		if value.Message != "Success" || value.Data != "pong" {
			t.Errorf("Value() = %+v", value)
		}
	})

	t.Run("JSON error field becomes the error message", func(t *testing.T) {
		client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error": "course not found"}`))
		}))
		defer srv.Close()

		_, err := client.Call(ctx, "/api/course/999/files", CallOptions{})
		var apiErr *Error
		if !errors.As(err, &apiErr) {
			t.Fatalf("error = %T, want *Error", err)
		}
		if apiErr.Message != "course not found" {
			t.Errorf("Message = %q", apiErr.Message)
		}
		if apiErr.Status != http.StatusBadRequest {
			t.Errorf("Status = %d", apiErr.Status)
		}
	})

	t.Run("JSON error without error field falls back to status", func(t *testing.T) {
		client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"detail": "boom"}`))
		}))
		defer srv.Close()

		_, err := client.Call(ctx, "/api/courses", CallOptions{})
		var apiErr *Error
		if !errors.As(err, &apiErr) {
			t.Fatalf("error = %T, want *Error", err)
		}
		if apiErr.Message != "HTTP 500" {
			t.Errorf("Message = %q", apiErr.Message)
		}
	})

	t.Run("non-JSON error gets a generic server message", func(t *testing.T) {
		client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte("<html><body>404 Not Found</body></html>"))
		}))
		defer srv.Close()

		_, err := client.Call(ctx, "/api/nope", CallOptions{})
		if err == nil {
			t.Fatal("expected error")
		}
		if !strings.Contains(err.Error(), "server error: status 404") {
			t.Errorf("error = %q", err)
		}
		if strings.Contains(err.Error(), "<html>") {
			t.Errorf("raw HTML leaked into error: %q", err)
		}
	})

	t.Run("401 fires the unauthorized hook", func(t *testing.T) {
		client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error": "token expired"}`))
		}))
		defer srv.Close()

		fired := 0
		client.SetUnauthorizedHook(func() { fired++ })

		_, err := client.Call(ctx, "/api/courses", CallOptions{})
		var apiErr *Error
		if !errors.As(err, &apiErr) || !apiErr.Unauthorized() {
			t.Fatalf("error = %v, want unauthorized *Error", err)
		}
		if fired != 1 {
			t.Errorf("hook fired %d times, want 1", fired)
		}
	})

	t.Run("401 from login does not fire the hook", func(t *testing.T) {
		client, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error": "bad credentials"}`))
		}))
		defer srv.Close()

		fired := 0
		client.SetUnauthorizedHook(func() { fired++ })

		for _, endpoint := range []string{LoginEndpoint, RegisterEndpoint} {
			_, err := client.Call(ctx, endpoint, CallOptions{Method: http.MethodPost, Body: map[string]string{}})
			if err == nil {
				t.Fatalf("expected error from %s", endpoint)
			}
		}
		if fired != 0 {
			t.Errorf("hook fired %d times, want 0", fired)
		}
	})

	t.Run("transport failure wraps the cause", func(t *testing.T) {
		client := NewClient("http://example.test", &http.Client{
			Transport: tu.NewMockRoundTripper(nil, errors.New("connection refused")),
		})
		client.SetLogger(shared.NewLogger(&bytes.Buffer{}))

		_, err := client.Call(ctx, "/api/courses", CallOptions{})
		if err == nil {
			t.Fatal("expected error")
		}
		if !strings.Contains(err.Error(), "cannot reach server") {
			t.Errorf("error = %q", err)
		}
	})

	t.Run("body read failure is reported", func(t *testing.T) {
		client := NewClient("http://example.test", &http.Client{
			Transport: tu.NewMockRoundTripper(&http.Response{
				StatusCode: http.StatusOK,
				Header:     http.Header{"Content-Type": []string{"application/json"}},
				Body:       &tu.FCloser{},
			}, nil),
		})
		client.SetLogger(shared.NewLogger(&bytes.Buffer{}))

		_, err := client.Call(ctx, "/api/courses", CallOptions{})
		if err == nil || !strings.Contains(err.Error(), "failed to read response") {
			t.Errorf("error = %v", err)
		}
	})
}

func TestResponse(t *testing.T) {
	t.Run("Decode", func(t *testing.T) {
		t.Run("unmarshals JSON bodies", func(t *testing.T) {
			resp := &Response{Status: 200, IsJSON: true, Body: []byte(`{"name": "Algebra"}`)}

			var got struct {
				Name string `json:"name"`
			}
			if err := resp.Decode(&got); err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if got.Name != "Algebra" {
				t.Errorf("Name = %q", got.Name)
			}
		})

		t.Run("empty body is a no-op", func(t *testing.T) {
			resp := &Response{Status: 204}

			var got map[string]any
			if err := resp.Decode(&got); err != nil {
				t.Errorf("Decode failed: %v", err)
			}
			if got != nil {
				t.Errorf("got = %v, want nil", got)
			}
		})

		t.Run("non-JSON body is an error", func(t *testing.T) {
			resp := &Response{Status: 200, Body: []byte("<html></html>")}

			var got map[string]any
			err := resp.Decode(&got)
			if !errors.Is(err, shared.ErrServerError) {
				t.Errorf("error = %v, want ErrServerError", err)
			}
		})
	})

	t.Run("Value decodes JSON into generic structures", func(t *testing.T) {
		resp := &Response{Status: 200, IsJSON: true, Body: []byte(`[1, 2, 3]`)}

		value, ok := resp.Value().([]any)
		if !ok {
			t.Fatalf("Value() = %T, want []any", resp.Value())
		}
		if len(value) != 3 {
			t.Errorf("len = %d", len(value))
		}
	})

	t.Run("TextResult marshals as message and data", func(t *testing.T) {
		data, err := json.Marshal(TextResult{Message: "Success", Data: "pong"})
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		if string(data) != `{"message":"Success","data":"pong"}` {
			t.Errorf("marshaled = %s", data)
		}
	})
}
