package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/Lesmash/spotify-playlist-creator/internal/history"
	"github.com/Lesmash/spotify-playlist-creator/internal/shared"
)

// historyStore loads the history for a signed-in session. History is hidden while logged out.
func (r *Runner) historyStore(cmd *cli.Command) (*history.Store, error) {
	sess, err := r.session(cmd)
	if err != nil {
		return nil, err
	}
	if !sess.Active() {
		return nil, fmt.Errorf("%w: history needs --token or --redirect", shared.ErrNotAuthenticated)
	}

	store := history.NewStore(r.storage, sess.Active, history.WithLogger(r.logger))
	store.Load()
	return store, nil
}

func historyID(cmd *cli.Command) (int64, error) {
	raw := cmd.Args().First()
	if raw == "" {
		return 0, fmt.Errorf("%w: history entry id", shared.ErrMissingArgument)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: id %q", shared.ErrInvalidArgument, raw)
	}
	return id, nil
}

// HistoryList prints the recent prompts, newest first.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	store, err := r.historyStore(cmd)
	if err != nil {
		return err
	}

	rendered := store.Rows()
	if cmd.Bool("json") {
		return r.writeJSON(rendered.Rows, true)
	}

	if !rendered.Visible {
		return r.writePlain("No journeys yet.\n")
	}

	r.writePlainHeader("Recent Journeys")
	for _, row := range rendered.Rows {
		r.writePlain("[%d] %s • %s\n", row.ID, row.Timestamp, row.Tracks)
		r.writePlain("    %s\n", row.Preview)
	}
	return nil
}

// HistoryDelete removes one entry by id.
func (r *Runner) HistoryDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := historyID(cmd)
	if err != nil {
		return err
	}
	store, err := r.historyStore(cmd)
	if err != nil {
		return err
	}

	removed, err := store.Delete(id)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("%w: %d", shared.ErrHistoryNotFound, id)
	}
	return r.writePlain("✓ Deleted %d\n", id)
}

// HistoryReuse prints the full prompt of an entry, optionally copying it to the clipboard.
func (r *Runner) HistoryReuse(ctx context.Context, cmd *cli.Command) error {
	id, err := historyID(cmd)
	if err != nil {
		return err
	}
	store, err := r.historyStore(cmd)
	if err != nil {
		return err
	}

	entry, err := store.Find(id)
	if err != nil {
		return fmt.Errorf("%w: %d", err, id)
	}

	if cmd.Bool("copy") {
		if err := r.copy(entry.Prompt); err != nil {
			r.logger.Warn("failed to copy prompt", "error", err)
		} else {
			r.logger.Info("prompt copied to clipboard", "id", id)
		}
	}
	return r.writePlain("%s\n", entry.Prompt)
}
