package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/djx/internal/shared"
	"github.com/urfave/cli/v3"
)

// APIGet makes a direct GET request to the Spotify Web API
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	pretty := cmd.Bool("pretty")

	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("%w: request path is required", shared.ErrMissingArgument)
	}

	if r.client == nil {
		return fmt.Errorf("%w: Spotify client not initialized", shared.ErrServiceUnavailable)
	}

	if !strings.HasPrefix(path, "/") && !strings.HasPrefix(path, "http") {
		path = "/" + path
	}

	r.logger.Info("GET request", "path", path)

	var payload any
	if err := r.client.Get(ctx, path, nil, &payload); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	return r.writeJSON(payload, pretty)
}
