// Package controller drives the journey client through an explicit action table over a [ViewState].
//
// Front ends (the CLI commands and the TUI) never touch the gateway, session or history directly:
// they [Controller.Dispatch] an [Event] and render the returned [ViewState].
//
// # States
//
// The controller is LoggedOut until a token is captured, then LoggedIn. There is no logout and no refresh.
// Entering LoggedIn loads the dashboard fan-out and the history.
//
// # Create
//
// Create validates the prompt, marks the state busy, calls the backend once, renders the result,
// records history for non-empty results, and clears busy. A second Create while one is in flight
// fails with [shared.ErrBusy]. Transport and HTTP errors raise an alert; backend-reported errors
// render inline.
package controller
