package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/quillfox/lmx/internal/shared"
)

const defaultBaseURL = "http://127.0.0.1:5000"

// Auth endpoints are exempt from the automatic-logout side effect: a 401 from
// the login call itself means bad credentials, not an expired session.
const (
	LoginEndpoint    = "/api/auth/login"
	RegisterEndpoint = "/api/auth/register"
)

// TokenSource supplies the current bearer token, or "" when unauthenticated.
type TokenSource interface {
	Token() string
}

// Client makes requests to the lmx backend.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	logger         *log.Logger
	tokens         TokenSource
	onUnauthorized func()
}

// NewClient creates a backend client for the given base URL.
// The base URL is fixed for the lifetime of the client.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     shared.NewLogger(nil),
	}
}

// SetTokenSource wires the session store the client reads tokens from.
func (c *Client) SetTokenSource(ts TokenSource) { c.tokens = ts }

// SetUnauthorizedHook registers the session teardown invoked when any call
// other than login/register returns 401. The hook must be idempotent; several
// in-flight requests may observe 401 concurrently.
func (c *Client) SetUnauthorizedHook(fn func()) { c.onUnauthorized = fn }

// SetLogger replaces the client's logger.
func (c *Client) SetLogger(l *log.Logger) { c.logger = l }

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// CallOptions configures a single request through [Client.Call].
type CallOptions struct {
	Method  string            // defaults to GET
	Body    any               // JSON-marshaled unless BinaryForm; ignored for GET
	Headers map[string]string // merged over the computed header set

	// BinaryForm marks Body as a pre-built multipart payload ([]byte or
	// io.Reader). The client then never sets a JSON content type; ContentType
	// carries the form writer's own value, multipart boundary included.
	BinaryForm  bool
	ContentType string
}

// Response is a classified successful response.
type Response struct {
	Status int
	IsJSON bool
	Body   []byte
}

// Decode unmarshals a JSON response body into v. A 204 or empty body is a
// no-op. Decoding a non-JSON body is an error; callers expecting unstructured
// success output should use [Response.Value].
func (r *Response) Decode(v any) error {
	if len(r.Body) == 0 {
		return nil
	}
	if !r.IsJSON {
		return fmt.Errorf("%w: expected JSON response, got %q", shared.ErrServerError, previewBody(r.Body))
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// TextResult wraps a non-JSON success body so unexpected plain-text responses
// never crash the caller.
type TextResult struct {
	Message string `json:"message"`
	Data    string `json:"data"`
}

// Value returns the response as a generic value: decoded JSON, a [TextResult]
// wrapper for non-JSON bodies, or nil for empty responses.
func (r *Response) Value() any {
	if len(r.Body) == 0 {
		return nil
	}
	if r.IsJSON {
		var v any
		if err := json.Unmarshal(r.Body, &v); err == nil {
			return v
		}
	}
	return TextResult{Message: "Success", Data: string(r.Body)}
}

// Error is a classified non-2xx API response.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

// Unauthorized reports whether the response was a 401.
func (e *Error) Unauthorized() bool { return e.Status == http.StatusUnauthorized }

// Call issues a request to a backend endpoint and classifies the outcome.
//
// On 2xx it returns the response; on non-2xx it returns an [*Error] whose
// message comes from the body's JSON error field when present, or a generic
// server-error message when the body is not JSON (misrouted deployments tend
// to answer with HTML error pages). Transport failures wrap the cause. A 401
// from any endpoint except login/register fires the unauthorized hook before
// the error propagates.
func (c *Client) Call(ctx context.Context, endpoint string, opts CallOptions) (*Response, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	var reqBody io.Reader
	if opts.Body != nil && method != http.MethodGet {
		if opts.BinaryForm {
			switch b := opts.Body.(type) {
			case []byte:
				reqBody = bytes.NewReader(b)
			case io.Reader:
				reqBody = b
			default:
				return nil, fmt.Errorf("%w: binary form body must be []byte or io.Reader", shared.ErrInvalidInput)
			}
		} else {
			data, err := json.Marshal(opts.Body)
			if err != nil {
				return nil, fmt.Errorf("failed to marshal request body: %w", err)
			}
			reqBody = bytes.NewReader(data)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if !opts.BinaryForm {
		req.Header.Set("Content-Type", "application/json")
	} else if opts.ContentType != "" {
		req.Header.Set("Content-Type", opts.ContentType)
	}
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}
	c.attachAuth(req)

	requestID := shared.GenerateID()
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("request failed", "method", method, "endpoint", endpoint, "request_id", requestID, "error", err)
		return nil, fmt.Errorf("cannot reach server: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	isJSON := isJSONContentType(resp.Header.Get("Content-Type"))
	c.logger.Debug("api call", "method", method, "endpoint", endpoint, "status", resp.StatusCode, "request_id", requestID)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.classifyFailure(endpoint, resp.StatusCode, isJSON, body)
	}

	if resp.StatusCode == http.StatusNoContent {
		return &Response{Status: resp.StatusCode}, nil
	}

	return &Response{Status: resp.StatusCode, IsJSON: isJSON, Body: body}, nil
}

// classifyFailure builds the error for a non-2xx response and fires the
// unauthorized hook when appropriate.
func (c *Client) classifyFailure(endpoint string, status int, isJSON bool, body []byte) error {
	apiErr := &Error{Status: status}

	if isJSON {
		var errBody struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(body, &errBody); err == nil && errBody.Error != "" {
			apiErr.Message = errBody.Error
		} else {
			apiErr.Message = fmt.Sprintf("HTTP %d", status)
		}
	} else {
		c.logger.Warn("non-JSON error response", "status", status, "body", previewBody(body))
		apiErr.Message = fmt.Sprintf("server error: status %d, backend may not be running or endpoint not found", status)
	}

	if apiErr.Unauthorized() && !isAuthEndpoint(endpoint) && c.onUnauthorized != nil {
		c.onUnauthorized()
	}

	return apiErr
}

func (c *Client) attachAuth(req *http.Request) {
	if c.tokens == nil {
		return
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func isAuthEndpoint(endpoint string) bool {
	return endpoint == LoginEndpoint || endpoint == RegisterEndpoint
}

func isJSONContentType(ct string) bool {
	return strings.Contains(ct, "application/json")
}

func previewBody(body []byte) string {
	const max = 200
	if len(body) > max {
		return string(body[:max])
	}
	return string(body)
}
