// Package models defines the domain entities for the journey client.
//
// The package contains two categories of types:
//
// 1. Backend shapes: values decoded from the recommendation backend
//   - [Track] : a recommended track, optionally tagged with a mood and a reason
//   - [Profile], [TopArtist], [TopTrack] : the signed-in user's Spotify summary
//
// 2. Client-owned state: values this client creates and persists
//   - [MoodBucket] : tracks sharing a mood label, in the order they were received
//   - [HistoryEntry] : one past prompt, stored newest-first in local storage
//   - [Theme] : the light/dark preference
//
// [Storage] is the key/value contract the local storage layer satisfies.
package models
