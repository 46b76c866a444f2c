// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI is a thin front end over [controller.Controller]:
//  1. [LoginView] : Start the browser login round trip
//  2. [PromptView] : Dashboard (profile, top artists, top tracks) and the journey prompt
//  3. [ResultView] : Scrollable mood sections of the last journey
//  4. [HistoryView] : Recent prompts, reusable and deletable
//
// Every key press maps to a controller action; long actions (start-up, login, create) run as
// tea.Cmds and report back with a message. Dashboard progress flows through a channel, the same
// way as the loader reports it.
//
// Colors come from a per-theme [Palette]; toggling the theme restyles the whole screen.
package ui
