package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/quillfox/lmx/internal/shared"
)

// ChatProviders lists the chat providers configured on the backend.
func (r *Runner) ChatProviders(ctx context.Context, cmd *cli.Command) error {
	providers, err := r.chat.Providers(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	r.writePlainHeader(fmt.Sprintf("Chat providers (%d)", len(providers)))
	for _, p := range providers {
		marker := "✗"
		if p.Available {
			marker = "✓"
		}
		r.writePlain("%s %s (%s)\n", marker, p.Name, p.ID)
	}
	return nil
}

// ChatSend sends one message and prints the reply.
func (r *Runner) ChatSend(ctx context.Context, cmd *cli.Command) error {
	message := cmd.StringArg("message")
	if message == "" {
		return fmt.Errorf("%w: message", shared.ErrMissingArgument)
	}

	reply, err := r.chat.Send(ctx, cmd.String("provider"), message, int(cmd.Int("course")))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if reply.Provider != "" {
		r.writePlain("[%s]\n", reply.Provider)
	}
	return r.writePlain("%s\n", reply.Response)
}
