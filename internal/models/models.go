// package models defines the data model for the journey client
package models

import (
	"strings"
	"time"
)

// Image is an artwork reference.
type Image struct {
	URL string `json:"url"`
}

// Artist is a credited performer on a [Track].
type Artist struct {
	ID     string  `json:"id,omitempty"`
	Name   string  `json:"name"`
	Images []Image `json:"images,omitempty"`
}

// Album is the optional release a [Track] belongs to.
type Album struct {
	Name   string  `json:"name"`
	Images []Image `json:"images,omitempty"`
}

// Track is a recommended track as returned by the backend.
type Track struct {
	ID      string   `json:"id,omitempty"`
	Name    string   `json:"name"`
	Artists []Artist `json:"artists"`
	Album   *Album   `json:"album,omitempty"`
	Mood    string   `json:"mood,omitempty"`
	Reason  string   `json:"reason,omitempty"`
	URI     string   `json:"uri,omitempty"`
}

// ArtistNames joins the artist names with ", ".
func (t Track) ArtistNames() string {
	names := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}

// AlbumName returns the album name or "" when the track has none.
func (t Track) AlbumName() string {
	if t.Album == nil {
		return ""
	}
	return t.Album.Name
}

// AlbumArt returns the first album image URL, if any.
func (t Track) AlbumArt() string {
	if t.Album == nil || len(t.Album.Images) == 0 {
		return ""
	}
	return t.Album.Images[0].URL
}

// HasMood reports whether the backend labelled this track.
func (t Track) HasMood() bool {
	return strings.TrimSpace(t.Mood) != ""
}

// MoodBucket groups tracks under one mood.
type MoodBucket struct {
	Key    string  // Lowercased mood key, "other" for unlabelled tracks
	Label  string  // Display name
	Tracks []Track // Insertion order = order received
}

// Len returns the number of tracks in the bucket.
func (b MoodBucket) Len() int { return len(b.Tracks) }

// HistoryEntry records one prompt that produced recommendations.
//
// JSON keys match the entries the browser client kept in local storage.
type HistoryEntry struct {
	ID         int64     `json:"id"`
	Prompt     string    `json:"prompt"`
	Timestamp  time.Time `json:"timestamp"`
	TrackCount int       `json:"trackCount"`
}

// Profile is the signed-in user's display information.
type Profile struct {
	DisplayName string
	ImageURL    string
}

// TopArtist is one entry of the user's top artists.
type TopArtist struct {
	Name     string
	ImageURL string
}

// TopTrack is one entry of the user's top tracks.
type TopTrack struct {
	Name     string
	Artist   string
	ImageURL string
}

// Theme is the persisted colour preference.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// ParseTheme maps a stored value to a [Theme], defaulting to [ThemeDark].
func ParseTheme(s string) Theme {
	if Theme(strings.ToLower(strings.TrimSpace(s))) == ThemeLight {
		return ThemeLight
	}
	return ThemeDark
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// Storage is a synchronous string key/value store with browser local storage semantics:
// last write wins, and a missing key is not an error.
type Storage interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Remove(key string) error
}
