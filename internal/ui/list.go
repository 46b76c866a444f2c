package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/Lesmash/spotify-playlist-creator/internal/history"
)

var _ list.Item = historyItem{}

// historyItem wraps [history.Row] to implement [list.Item].
type historyItem struct {
	row history.Row
}

func (i historyItem) FilterValue() string { return i.row.Prompt }
func (i historyItem) Title() string       { return i.row.Preview }
func (i historyItem) Description() string {
	return fmt.Sprintf("%s • %s", i.row.Timestamp, i.row.Tracks)
}

func historyItems(r history.Rendered) []list.Item {
	items := make([]list.Item, len(r.Rows))
	for i, row := range r.Rows {
		items[i] = historyItem{row: row}
	}
	return items
}
