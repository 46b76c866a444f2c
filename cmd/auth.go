package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/Lesmash/spotify-playlist-creator/internal/controller"
	"github.com/Lesmash/spotify-playlist-creator/internal/shared"
)

// Login runs the browser round trip and reports who signed in.
//
// The token is not persisted; pass --print-token to reuse it with --token.
func (r *Runner) Login(ctx context.Context, cmd *cli.Command) error {
	sess, err := r.session(cmd)
	if err != nil {
		return err
	}

	c := r.controller(sess, nil)
	c.Start(ctx)

	r.logger.Info("starting login", "backend", r.config.Backend.BaseURL)
	state, err := c.Dispatch(ctx, controller.Event{Action: controller.Login})
	if err != nil {
		return err
	}

	if d := state.Dashboard; d != nil && d.ProfileErr == nil && d.Profile.DisplayName != "" {
		r.writePlain("✓ Logged in as %s\n", d.Profile.DisplayName)
	} else {
		r.writePlain("✓ Logged in\n")
	}

	if cmd.Bool("print-token") {
		r.writePlain("Access token: %s\n", sess.AccessToken())
	}
	return nil
}

// Status checks the backend by calling its root endpoint.
func (r *Runner) Status(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("checking backend status", "backend", r.config.Backend.BaseURL)

	health, err := r.backend.Health(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	if !health.OK() {
		return fmt.Errorf("%w: status %q", shared.ErrServiceUnavailable, health.Status)
	}

	r.writePlain("✓ Backend is running\n")
	r.writePlain("URL: %s\n", r.config.Backend.BaseURL)
	r.writePlain("Status: %s\n", health.Status)
	if health.Message != "" {
		r.writePlain("Message: %s\n", health.Message)
	}
	return nil
}
