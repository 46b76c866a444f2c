// Package tasks runs the backend fetches that happen on sign-in, with real-time progress reporting.
//
// # Dashboard Fan-out
//
// [Loader.Load] issues three independent fetches concurrently:
//
//  1. Profile     : display name and avatar
//  2. Top artists : the user's most played artists
//  3. Top tracks  : the user's most played tracks
//
// The fetches populate disjoint fields of [Dashboard]. A failure is logged and stored on that
// field's error; the others still complete. Nothing is retried.
//
// Requests are paced by a [rate.Limiter] so a slow backend is not hit by bursts.
//
// # Progress Reporting
//
// # All operations use non-blocking channels for progress updates
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
package tasks
