// Package session holds the client-side authentication state: the opaque
// bearer token and the cached user record the backend returned at login.
//
// The store is an explicit dependency injected where needed, not a package
// global: the api client reads tokens from it, and its teardown runs as the
// client's unauthorized hook so a 401 anywhere logs the whole app out.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/quillfox/lmx/internal/api"
	"github.com/quillfox/lmx/internal/shared"
)

// FileName is the session file kept under the lmx home directory.
const FileName = "session.json"

// state is the durable session record. Token and user are persisted together
// and cleared together, never independently.
type state struct {
	Token string          `json:"token"`
	User  json.RawMessage `json:"user,omitempty"`
}

// LoginResult is the backend's answer to a successful login.
type LoginResult struct {
	Token string          `json:"token"`
	User  json.RawMessage `json:"user"`
}

// Store owns the session lifecycle: login, register, logout, and restoring a
// persisted session at startup. All methods are safe for concurrent use; any
// number of in-flight 401s may clear the session redundantly.
type Store struct {
	mu      sync.Mutex
	path    string
	current state
	client  *api.Client
	logger  *log.Logger
	onReset []func()
}

// NewStore creates a session store persisting to dir/session.json and loads
// any session left by a previous run. A persisted token is treated as logged
// in without revalidation; the first failing authenticated call corrects that.
func NewStore(dir string, logger *log.Logger) *Store {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	s := &Store{path: filepath.Join(dir, FileName), logger: logger}
	s.load()
	return s
}

// Bind wires the store and the api client together: the client reads tokens
// from the store and tears the session down on 401.
func (s *Store) Bind(c *api.Client) {
	s.client = c
	c.SetTokenSource(s)
	c.SetUnauthorizedHook(s.expire)
}

// OnReset registers a hook fired whenever the session is cleared, whether by
// explicit logout or by the 401 side effect. The navigation root uses this to
// force the app back to the login view.
func (s *Store) OnReset(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onReset = append(s.onReset, fn)
}

// Token returns the current bearer token, or "" when unauthenticated.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Token
}

// Authenticated reports whether a token is present.
func (s *Store) Authenticated() bool { return s.Token() != "" }

// User returns the cached user record as a generic map, or nil when absent.
func (s *Store) User() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.current.User) == 0 {
		return nil
	}
	var user map[string]any
	if err := json.Unmarshal(s.current.User, &user); err != nil {
		return nil
	}
	return user
}

// Login exchanges credentials for a token and persists {token, user} durably.
// On failure the session is left exactly as it was.
func (s *Store) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if s.client == nil {
		return nil, fmt.Errorf("%w: session store not bound to a client", shared.ErrInvalidConfig)
	}

	resp, err := s.client.Call(ctx, api.LoginEndpoint, api.CallOptions{
		Method: http.MethodPost,
		Body:   map[string]string{"username": username, "password": password},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrAuthFailed, err)
	}

	var result LoginResult
	if err := resp.Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrAuthFailed, err)
	}
	if result.Token == "" {
		return nil, fmt.Errorf("%w: login response carried no token", shared.ErrAuthFailed)
	}

	s.mu.Lock()
	s.current = state{Token: result.Token, User: result.User}
	err = s.persistLocked()
	s.mu.Unlock()
	if err != nil {
		s.logger.Warn("failed to persist session", "error", err)
	}

	s.logger.Info("logged in", "user", username)
	return &result, nil
}

// Register creates an account on the backend. Registration does not imply
// login; the session is never mutated here.
func (s *Store) Register(ctx context.Context, username, password string) error {
	if s.client == nil {
		return fmt.Errorf("%w: session store not bound to a client", shared.ErrInvalidConfig)
	}

	_, err := s.client.Call(ctx, api.RegisterEndpoint, api.CallOptions{
		Method: http.MethodPost,
		Body:   map[string]string{"username": username, "password": password},
	})
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}
	return nil
}

// Logout clears the persisted token and user and fires the reset hooks.
// Calling it twice produces the same end state as calling it once.
func (s *Store) Logout() {
	s.clear("logged out")
}

// expire is the unauthorized hook: same teardown as Logout, different cause.
func (s *Store) expire() {
	s.clear("session expired")
}

func (s *Store) clear(reason string) {
	s.mu.Lock()
	wasActive := s.current.Token != ""
	s.current = state{}
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("failed to remove session file", "error", err)
	}
	hooks := make([]func(), len(s.onReset))
	copy(hooks, s.onReset)
	s.mu.Unlock()

	if wasActive {
		s.logger.Info(reason)
	}
	for _, fn := range hooks {
		fn()
	}
}

// load restores a persisted session, if any.
func (s *Store) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("failed to read session file", "error", err)
		}
		return
	}

	var st state
	if err := json.Unmarshal(data, &st); err != nil {
		s.logger.Warn("discarding corrupt session file", "error", err)
		os.Remove(s.path)
		return
	}
	s.current = st
}

// persistLocked writes the session file. Caller holds s.mu.
func (s *Store) persistLocked() error {
	data, err := json.Marshal(s.current)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}
