package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/quillfox/lmx/internal/api"
	"github.com/quillfox/lmx/internal/shared"
)

// APIGet issues a raw GET against the backend and prints the result.
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path", shared.ErrMissingArgument)
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	resp, err := r.client.Call(ctx, path, api.CallOptions{})
	if err != nil {
		return err
	}

	return r.writeJSON(resp.Value(), true)
}

// APIPost issues a raw POST with a JSON body and prints the result.
func (r *Runner) APIPost(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path", shared.ErrMissingArgument)
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	var body any
	if err := json.Unmarshal([]byte(cmd.String("data")), &body); err != nil {
		return fmt.Errorf("%w: --data is not valid JSON: %v", shared.ErrInvalidFlag, err)
	}

	resp, err := r.client.Call(ctx, path, api.CallOptions{
		Method: http.MethodPost,
		Body:   body,
	})
	if err != nil {
		return err
	}

	return r.writeJSON(resp.Value(), true)
}
