package journey

import (
	"fmt"

	"github.com/Lesmash/spotify-playlist-creator/internal/models"
)

const (
	// DefaultTitle heads a successful journey whose response carried no name.
	DefaultTitle = "Your AI-Generated Music Journey"
	// NoTracksMessage replaces the sections when a response has no tracks.
	NoTracksMessage = "No tracks found based on your prompt. Try a different description."
)

// Result is the backend's answer to a journey request: [Success] or [Failure].
type Result interface {
	isResult()
}

// Success carries the recommended tracks.
type Success struct {
	Name        string
	Warning     string
	PlaylistURL string
	Tracks      []models.Track
}

// Failure carries an error the backend reported inside a 2xx body.
type Failure struct {
	Message string
}

func (Success) isResult() {}
func (Failure) isResult() {}

// Item is one rendered track line.
type Item struct {
	Line   string // "<name> - <artists>"
	Album  string
	Reason string
	Track  models.Track
}

// Section is a rendered, non-empty mood bucket.
type Section struct {
	Key     string
	Heading string
	Items   []Item
}

// View is everything a front end needs to draw one journey.
type View struct {
	Title       string
	Warning     string
	PlaylistURL string
	Error       string
	Strategy    Strategy
	Sections    []Section
	Empty       bool
	Placeholder string
	TrackCount  int
}

// Failed reports whether the view shows an inline backend error.
func (v View) Failed() bool { return v.Error != "" }

// Render builds a [View] from a backend [Result].
func Render(r Result) View {
	switch r := r.(type) {
	case Success:
		v := RenderTracks(r.Tracks)
		if r.Name != "" {
			v.Title = r.Name
		}
		v.Warning = r.Warning
		v.PlaylistURL = r.PlaylistURL
		return v
	case Failure:
		return View{Error: r.Message}
	default:
		return View{Error: fmt.Sprintf("unexpected result %T", r)}
	}
}

// RenderTracks groups tracks and renders each non-empty bucket as a section.
func RenderTracks(tracks []models.Track) View {
	v := View{Title: DefaultTitle, TrackCount: len(tracks)}
	if len(tracks) == 0 {
		v.Empty = true
		v.Placeholder = NoTracksMessage
		return v
	}

	buckets, strategy := Group(tracks)
	v.Strategy = strategy
	v.Sections = RenderBuckets(buckets)
	return v
}

// RenderBuckets converts buckets to sections, dropping empty buckets.
func RenderBuckets(buckets []models.MoodBucket) []Section {
	sections := make([]Section, 0, len(buckets))
	for _, b := range buckets {
		if b.Len() == 0 {
			continue
		}
		s := Section{Key: b.Key, Heading: b.Label, Items: make([]Item, 0, b.Len())}
		for _, t := range b.Tracks {
			s.Items = append(s.Items, Item{
				Line:   fmt.Sprintf("%s - %s", t.Name, t.ArtistNames()),
				Album:  t.AlbumName(),
				Reason: t.Reason,
				Track:  t,
			})
		}
		sections = append(sections, s)
	}
	return sections
}
