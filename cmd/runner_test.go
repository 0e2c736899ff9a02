package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/urfave/cli/v3"

	"github.com/quillfox/lmx/internal/api"
	"github.com/quillfox/lmx/internal/session"
	"github.com/quillfox/lmx/internal/shared"
)

// newTestRunner builds a runner wired to a test backend, with session state
// isolated in a temp directory.
func newTestRunner(t *testing.T, backend http.Handler) (*Runner, *bytes.Buffer) {
	t.Helper()

	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	logger := shared.NewLogger(&bytes.Buffer{})
	client := api.NewClient(srv.URL, srv.Client())
	client.SetLogger(logger)

	store := session.NewStore(t.TempDir(), logger)
	store.Bind(client)

	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Config:  shared.DefaultConfig(),
		Client:  client,
		Session: store,
		Logger:  logger,
		Output:  output,
	})
	return runner, output
}

// run executes one CLI invocation against the runner's command tree.
func run(t *testing.T, r *Runner, args ...string) error {
	t.Helper()
	app := &cli.Command{Name: "lmx", Commands: r.register()}
	return app.Run(context.Background(), append([]string{"lmx"}, args...))
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			client := api.NewClient("http://127.0.0.1:9", nil)

			runner := NewRunner(RunnerOpts{
				Config: config,
				Client: client,
				Logger: logger,
				Output: output,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.client != client {
				t.Error("expected client to be set")
			}
			if runner.engine == nil {
				t.Error("expected engine to be built")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil client builds one from config", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.client == nil {
				t.Error("expected client to be built from config")
			}
		})
	})

	t.Run("courses list prints the catalog", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/api/courses", func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode([]map[string]any{
				{"id": 1, "course_id": 101, "name": "Algebra"},
				{"id": 2, "course_id": 202, "name": "Physics"},
			})
		})

		runner, output := newTestRunner(t, mux)
		if err := run(t, runner, "courses", "list"); err != nil {
			t.Fatalf("courses list failed: %v", err)
		}

		got := output.String()
		if !strings.Contains(got, "Algebra") || !strings.Contains(got, "Physics") {
			t.Errorf("output missing courses, got: %s", got)
		}
		if !strings.Contains(got, "Courses (2)") {
			t.Errorf("output missing header, got: %s", got)
		}
	})

	t.Run("auth login persists and whoami reads back", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"token": "tok-123",
				"user":  map[string]any{"username": "student"},
			})
		})

		runner, output := newTestRunner(t, mux)

		if err := run(t, runner, "auth", "login", "-u", "student", "-p", "hunter2"); err != nil {
			t.Fatalf("auth login failed: %v", err)
		}
		if !strings.Contains(output.String(), "Logged in as student") {
			t.Errorf("login output = %s", output.String())
		}

		output.Reset()
		if err := run(t, runner, "auth", "whoami"); err != nil {
			t.Fatalf("auth whoami failed: %v", err)
		}
		if !strings.Contains(output.String(), "student") {
			t.Errorf("whoami output = %s", output.String())
		}
	})

	t.Run("whoami without session fails", func(t *testing.T) {
		runner, _ := newTestRunner(t, http.NewServeMux())

		err := run(t, runner, "auth", "whoami")
		if err == nil {
			t.Fatal("expected error for whoami without session")
		}
	})

	t.Run("logout is idempotent", func(t *testing.T) {
		runner, _ := newTestRunner(t, http.NewServeMux())

		if err := run(t, runner, "auth", "logout"); err != nil {
			t.Fatalf("first logout failed: %v", err)
		}
		if err := run(t, runner, "auth", "logout"); err != nil {
			t.Fatalf("second logout failed: %v", err)
		}
	})

	t.Run("scrape status reports failure from result", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/api/scrape/status", func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"status": "idle",
				"result": map[string]any{"success": false, "message": "LMS login failed"},
			})
		})

		runner, output := newTestRunner(t, mux)
		if err := run(t, runner, "scrape", "status"); err != nil {
			t.Fatalf("scrape status failed: %v", err)
		}
		if !strings.Contains(output.String(), "✗ Last scrape: LMS login failed") {
			t.Errorf("output = %s", output.String())
		}
	})

	t.Run("api get prints wrapped text for non-JSON success", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/api/ping", func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("Content-Type", "text/plain")
			w.Write([]byte("pong"))
		})

		runner, output := newTestRunner(t, mux)
		if err := run(t, runner, "api", "get", "/api/ping"); err != nil {
			t.Fatalf("api get failed: %v", err)
		}

		got := output.String()
		if !strings.Contains(got, "\"message\": \"Success\"") || !strings.Contains(got, "pong") {
			t.Errorf("output = %s", got)
		}
	})
}

func TestWriters(t *testing.T) {
	t.Run("writeJSON", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		if err := runner.writeJSON(map[string]string{"k": "v"}, false); err != nil {
			t.Fatalf("writeJSON failed: %v", err)
		}
		if output.String() != "{\"k\":\"v\"}\n" {
			t.Errorf("output = %q", output.String())
		}
	})

	t.Run("writePlain", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		if err := runner.writePlain("%d files\n", 3); err != nil {
			t.Fatalf("writePlain failed: %v", err)
		}
		if output.String() != "3 files\n" {
			t.Errorf("output = %q", output.String())
		}
	})
}
