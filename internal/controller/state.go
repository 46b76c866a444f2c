package controller

import (
	"github.com/Lesmash/spotify-playlist-creator/internal/history"
	"github.com/Lesmash/spotify-playlist-creator/internal/journey"
	"github.com/Lesmash/spotify-playlist-creator/internal/models"
	"github.com/Lesmash/spotify-playlist-creator/internal/tasks"
)

// Phase is the session state.
type Phase int

const (
	LoggedOut Phase = iota
	LoggedIn
)

func (p Phase) String() string {
	switch p {
	case LoggedOut:
		return "logged_out"
	case LoggedIn:
		return "logged_in"
	default:
		return ""
	}
}

// ViewState is everything a front end draws.
type ViewState struct {
	Phase       Phase
	Theme       models.Theme
	Prompt      string
	FocusPrompt bool   // set by reuse and templates until the front end dispatches ClearFocus
	Busy        bool   // a create request is in flight
	Alert       string // blocking message, cleared by DismissAlert
	Journey     *journey.View
	Dashboard   *tasks.Dashboard
	History     history.Rendered
}

// LoggedIn reports whether the state is [LoggedIn].
func (s ViewState) LoggedIn() bool { return s.Phase == LoggedIn }

// HasAlert reports whether a blocking alert is shown.
func (s ViewState) HasAlert() bool { return s.Alert != "" }
