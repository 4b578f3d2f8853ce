package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/queued/internal/shared"
	"github.com/urfave/cli/v3"
)

// APIGet performs a raw GET against the queue server and prints the response.
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: request path is required", shared.ErrMissingArgument)
	}

	resp, err := r.api.Get(ctx, path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	if resp.IsJSON {
		return r.writeJSON(resp.JSONData, cmd.Bool("pretty"))
	}
	return r.writePlain("%s\n", string(resp.Body))
}

// APIPost performs a raw POST against the queue server and prints the response.
func (r *Runner) APIPost(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: request path is required", shared.ErrMissingArgument)
	}

	resp, err := r.api.Post(ctx, path, []byte(cmd.String("data")))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	if resp.IsJSON {
		return r.writeJSON(resp.JSONData, true)
	}
	return r.writePlain("%s\n", string(resp.Body))
}

// APIHealth checks whether the server is reachable and healthy.
func (r *Runner) APIHealth(ctx context.Context, cmd *cli.Command) error {
	if err := r.client.Health(ctx); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	return r.writePlain("✓ Server is healthy\n")
}
