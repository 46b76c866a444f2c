package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/Lesmash/spotify-playlist-creator/internal/controller"
	"github.com/Lesmash/spotify-playlist-creator/internal/formatter"
	"github.com/Lesmash/spotify-playlist-creator/internal/models"
	"github.com/Lesmash/spotify-playlist-creator/internal/shared"
	"github.com/Lesmash/spotify-playlist-creator/internal/tasks"
)

type dashboardJSON struct {
	Profile    *models.Profile    `json:"profile,omitempty"`
	TopArtists []models.TopArtist `json:"top_artists,omitempty"`
	TopTracks  []models.TopTrack  `json:"top_tracks,omitempty"`
	Errors     map[string]string  `json:"errors,omitempty"`
}

// Profile fetches profile, top artists and top tracks concurrently and prints each region.
//
// A failed region is reported in place; the command only fails when every region failed.
func (r *Runner) Profile(ctx context.Context, cmd *cli.Command) error {
	sess, err := r.session(cmd)
	if err != nil {
		return err
	}
	if !sess.Active() {
		return fmt.Errorf("%w: profile needs --token or --redirect", shared.ErrNotAuthenticated)
	}

	progress := make(chan tasks.ProgressUpdate, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.logger.Debug(update.Message, "phase", update.Phase, "step", update.Step)
		}
	}()

	state := r.controller(sess, progress).Start(ctx)
	close(progress)
	<-done

	d := state.Dashboard
	if d == nil {
		return fmt.Errorf("%w: dashboard not loaded", shared.ErrServiceUnavailable)
	}

	if cmd.Bool("json") {
		out := dashboardJSON{TopArtists: d.Artists, TopTracks: d.Tracks}
		if d.ProfileErr == nil {
			out.Profile = &d.Profile
		}
		if errs := d.Errors(); len(errs) > 0 {
			out.Errors = make(map[string]string, len(errs))
			for _, e := range errs {
				out.Errors[e.Endpoint] = e.Error.Error()
			}
		}
		if err := r.writeJSON(out, true); err != nil {
			return err
		}
	} else {
		r.printDashboard(d)
	}

	if errs := d.Errors(); len(errs) == 3 {
		return errs[0].Error
	}
	return nil
}

func (r *Runner) printDashboard(d *tasks.Dashboard) {
	r.writePlainHeader("Profile")
	if d.ProfileErr != nil {
		r.writePlain("✗ %v\n", d.ProfileErr)
	} else {
		r.writePlain("%s\n", d.Profile.DisplayName)
		if d.Profile.ImageURL != "" {
			r.writePlain("Avatar: %s\n", d.Profile.ImageURL)
		}
	}

	r.writePlainln("Top Artists")
	if d.ArtistsErr != nil {
		r.writePlain("✗ %v\n", d.ArtistsErr)
	} else {
		for i, a := range d.Artists {
			r.writePlain("%2d. %s\n", i+1, a.Name)
		}
	}

	r.writePlainln("Top Tracks")
	if d.TracksErr != nil {
		r.writePlain("✗ %v\n", d.TracksErr)
	} else {
		for i, t := range d.Tracks {
			r.writePlain("%2d. %s - %s\n", i+1, t.Name, t.Artist)
		}
	}
}

// Create sends the prompt to the backend and prints or saves the grouped journey.
//
// A backend-reported error is rendered like any other journey; transport and HTTP failures fail the command.
func (r *Runner) Create(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	sess, err := r.session(cmd)
	if err != nil {
		return err
	}

	c := r.controller(sess, nil)
	c.Resume()

	prompt := strings.Join(cmd.Args().Slice(), " ")
	if n := cmd.Int("template"); prompt == "" && n > 0 {
		state, err := c.Dispatch(ctx, controller.Event{Action: controller.UseTemplate, Index: int(n) - 1})
		if err != nil {
			return err
		}
		prompt = state.Prompt
	}

	r.logger.Info("creating journey", "prompt", prompt)
	state, err := c.Dispatch(ctx, controller.Event{Action: controller.Create, Prompt: prompt})
	switch {
	case errors.Is(err, shared.ErrEmptyPrompt):
		return err
	case err != nil:
		return fmt.Errorf("%s%w", controller.AlertPrefix, err)
	case state.Journey == nil:
		return fmt.Errorf("%w: no journey returned", shared.ErrPayload)
	}

	view := *state.Journey
	if path := cmd.String("output"); path != "" {
		written, err := formatter.WriteExport(view, format, path)
		if err != nil {
			return err
		}
		r.logger.Info("journey saved", "path", written, "tracks", view.TrackCount)
		return r.writePlain("✓ Saved %d tracks to %s\n", view.TrackCount, written)
	}

	data, err := formatter.Export(view, format)
	if err != nil {
		return err
	}
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// Theme prints the current theme, or sets it to light, dark, or the other one.
func (r *Runner) Theme(ctx context.Context, cmd *cli.Command) error {
	sess, err := r.session(cmd)
	if err != nil {
		return err
	}

	arg := strings.ToLower(strings.TrimSpace(cmd.Args().First()))
	switch arg {
	case "":
		return r.writePlain("%s\n", sess.Theme())
	case "toggle":
		state, err := r.controller(sess, nil).Dispatch(ctx, controller.Event{Action: controller.ToggleTheme})
		if err != nil {
			return err
		}
		return r.writePlain("✓ Theme set to %s\n", state.Theme)
	case string(models.ThemeLight), string(models.ThemeDark):
		if err := sess.SetTheme(models.Theme(arg)); err != nil {
			return err
		}
		return r.writePlain("✓ Theme set to %s\n", arg)
	default:
		return fmt.Errorf("%w: theme %q (want light, dark or toggle)", shared.ErrInvalidArgument, arg)
	}
}
