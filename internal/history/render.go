package history

import (
	"fmt"

	"github.com/Lesmash/spotify-playlist-creator/internal/models"
)

// Row is one rendered history entry.
type Row struct {
	ID        int64
	Preview   string
	Timestamp string
	Tracks    string
	Prompt    string
}

// Rendered is the history section. It is hidden when there are no rows.
type Rendered struct {
	Visible bool
	Rows    []Row
}

// Render builds the history section from entries.
func Render(entries []models.HistoryEntry) Rendered {
	r := Rendered{Visible: len(entries) > 0, Rows: make([]Row, 0, len(entries))}
	for _, e := range entries {
		r.Rows = append(r.Rows, Row{
			ID:        e.ID,
			Preview:   Preview(e.Prompt),
			Timestamp: FormatTimestamp(e.Timestamp),
			Tracks:    fmt.Sprintf("%d tracks", e.TrackCount),
			Prompt:    e.Prompt,
		})
	}
	return r
}

// Rows renders the store's current entries.
func (s *Store) Rows() Rendered {
	return Render(s.Entries())
}
