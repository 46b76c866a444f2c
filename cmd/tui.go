package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/Lesmash/spotify-playlist-creator/internal/services"
	"github.com/Lesmash/spotify-playlist-creator/internal/shared"
	"github.com/Lesmash/spotify-playlist-creator/internal/tasks"
	"github.com/Lesmash/spotify-playlist-creator/internal/ui"
)

// TUI launches the interactive terminal client.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(cmd.String("log-file"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)
	r.notify = func(s string) { r.logger.Info(s) }
	if _, ok := r.backend.(*services.Backend); ok {
		r.backend = services.NewBackend(r.config.Backend, r.httpClient, r.logger)
	}

	sess, err := r.session(cmd)
	if err != nil {
		return err
	}

	progress := make(chan tasks.ProgressUpdate, 16)
	model := ui.NewModel(ctx, r.controller(sess, progress), progress)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
