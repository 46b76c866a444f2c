package ui

import (
	"github.com/Lesmash/spotify-playlist-creator/internal/controller"
	"github.com/Lesmash/spotify-playlist-creator/internal/tasks"
)

// startedMsg carries the state after the controller's start-up load.
type startedMsg struct {
	state controller.ViewState
}

// loginDoneMsg is sent when the browser round trip finishes.
type loginDoneMsg struct {
	err error
}

// createDoneMsg is sent when a create request finishes.
type createDoneMsg struct {
	err error
}

// progressUpdateMsg wraps a dashboard [tasks.ProgressUpdate].
type progressUpdateMsg tasks.ProgressUpdate

// progressClosedMsg is sent once the progress channel is closed.
type progressClosedMsg struct{}
