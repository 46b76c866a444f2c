package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
	Err     error  // Set when the step failed
}

// Operation phase enumeration
type Phase int

const (
	FetchProfile Phase = iota
	FetchTopArtists
	FetchTopTracks
	Done
)

func (p Phase) String() string {
	switch p {
	case FetchProfile:
		return "fetch_profile"
	case FetchTopArtists:
		return "fetch_top_artists"
	case FetchTopTracks:
		return "fetch_top_tracks"
	case Done:
		return "done"
	default:
		return ""
	}
}

func startedUpdate(f fetch, step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   f.phase,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Fetching %s...", f.name),
	}
}

func completedUpdate(f fetch, step, total int, data any) ProgressUpdate {
	return ProgressUpdate{
		Phase:   f.phase,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, f.name),
		Data:    data,
	}
}

func failedUpdate(f fetch, step, total int, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   f.phase,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, f.name, err),
		Err:     err,
	}
}

func doneUpdate(total, failed int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Done,
		Step:    total,
		Total:   total,
		Message: fmt.Sprintf("Loaded %d of %d", total-failed, total),
	}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
