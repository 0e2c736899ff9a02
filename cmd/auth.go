package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/quillfox/lmx/internal/shared"
)

// AuthLogin exchanges credentials for a session and persists it.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	username := cmd.String("username")
	password := cmd.String("password")

	result, err := r.session.Login(ctx, username, password)
	if err != nil {
		return err
	}

	r.writePlain("✓ Logged in as %s\n", username)
	if len(result.User) > 0 {
		r.writePlain("Session saved\n")
	}
	return nil
}

// AuthRegister creates an account. Registration does not log in.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	username := cmd.String("username")
	password := cmd.String("password")

	if err := r.session.Register(ctx, username, password); err != nil {
		return err
	}

	r.writePlain("✓ Account created for %s\n", username)
	r.writePlain("Run 'lmx auth login' to start a session\n")
	return nil
}

// AuthLogout clears the persisted session. Safe to run when already logged out.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	r.session.Logout()
	return r.writePlain("✓ Logged out\n")
}

// AuthWhoami prints the cached user from the persisted session.
func (r *Runner) AuthWhoami(ctx context.Context, cmd *cli.Command) error {
	if !r.session.Authenticated() {
		return fmt.Errorf("%w: no active session", shared.ErrNotAuthenticated)
	}

	user := r.session.User()
	if user == nil {
		return r.writePlain("Logged in (no cached user record)\n")
	}

	if name, ok := user["username"].(string); ok {
		r.writePlain("Logged in as %s\n", name)
	}
	return r.writeJSON(user, true)
}
