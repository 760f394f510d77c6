package main

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/djx/internal/shared"
	"github.com/desertthunder/djx/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for track discovery.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	limit := cmd.Int("limit")

	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("%w: search query is required", shared.ErrMissingArgument)
	}

	if r.service == nil {
		return fmt.Errorf("%w: Spotify service not initialized", shared.ErrServiceUnavailable)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/djx-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, r.service, query, limit)
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
