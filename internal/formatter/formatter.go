// package formatter exports a rendered journey to various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/Lesmash/spotify-playlist-creator/internal/journey"
	"github.com/Lesmash/spotify-playlist-creator/internal/shared"
)

// Format names an export format.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
)

// Formats lists the supported formats in help order.
var Formats = []Format{FormatText, FormatMarkdown, FormatCSV, FormatJSON}

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatText, nil
	case "md":
		return FormatMarkdown, nil
	case FormatText, FormatMarkdown, FormatCSV, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, s)
	}
}

// Export renders view in the given format.
func Export(view journey.View, format Format) ([]byte, error) {
	switch format {
	case FormatText, "":
		return ExportToText(view)
	case FormatMarkdown:
		return ExportToMarkdown(view)
	case FormatCSV:
		return ExportToCSV(view)
	case FormatJSON:
		return ExportToJSON(view)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}
}

// ExportToCSV converts a View to CSV format with columns: Mood, Name, Artists, Album, Reason
func ExportToCSV(view journey.View) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Mood", "Name", "Artists", "Album", "Reason"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	// A failed or empty view carries its message in a single row.
	var notice []string
	switch {
	case view.Failed():
		notice = []string{"Error", view.Error, "", "", ""}
	case view.Empty:
		notice = []string{"", view.Placeholder, "", "", ""}
	}
	if notice != nil {
		if err := writer.Write(notice); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	for _, section := range view.Sections {
		for _, item := range section.Items {
			record := []string{
				section.Heading,
				item.Track.Name,
				item.Track.ArtistNames(),
				item.Album,
				item.Reason,
			}
			if err := writer.Write(record); err != nil {
				return nil, fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a View to Markdown with one H2 per mood section
func ExportToMarkdown(view journey.View) ([]byte, error) {
	var buf bytes.Buffer

	if view.Failed() {
		buf.WriteString(fmt.Sprintf("**Error**: %s\n", view.Error))
		return buf.Bytes(), nil
	}

	buf.WriteString(fmt.Sprintf("# %s\n\n", view.Title))

	if view.Warning != "" {
		buf.WriteString(fmt.Sprintf("> %s\n\n", view.Warning))
	}
	if view.PlaylistURL != "" {
		buf.WriteString(fmt.Sprintf("[Open in Spotify](%s)\n\n", view.PlaylistURL))
	}

	if view.Empty {
		buf.WriteString(fmt.Sprintf("_%s_\n", view.Placeholder))
		return buf.Bytes(), nil
	}

	buf.WriteString(fmt.Sprintf("**Tracks**: %d\n\n", view.TrackCount))

	for _, section := range view.Sections {
		buf.WriteString(fmt.Sprintf("## %s\n\n", section.Heading))
		for i, item := range section.Items {
			albumPart := ""
			if item.Album != "" {
				albumPart = fmt.Sprintf(" (%s)", item.Album)
			}
			buf.WriteString(fmt.Sprintf("%d. %s%s\n", i+1, item.Line, albumPart))
			if item.Reason != "" {
				buf.WriteString(fmt.Sprintf("   - _%s_\n", item.Reason))
			}
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// ExportToText converts a View to plain text format
func ExportToText(view journey.View) ([]byte, error) {
	var buf bytes.Buffer

	if view.Failed() {
		buf.WriteString(fmt.Sprintf("Error: %s\n", view.Error))
		return buf.Bytes(), nil
	}

	buf.WriteString(fmt.Sprintf("%s\n", view.Title))
	if view.Warning != "" {
		buf.WriteString(fmt.Sprintf("Warning: %s\n", view.Warning))
	}
	if view.PlaylistURL != "" {
		buf.WriteString(fmt.Sprintf("Playlist: %s\n", view.PlaylistURL))
	}

	if view.Empty {
		buf.WriteString(fmt.Sprintf("\n%s\n", view.Placeholder))
		return buf.Bytes(), nil
	}

	for _, section := range view.Sections {
		buf.WriteString(fmt.Sprintf("\n%s\n", section.Heading))
		for _, item := range section.Items {
			buf.WriteString(fmt.Sprintf("  %s\n", item.Line))
			if item.Album != "" {
				buf.WriteString(fmt.Sprintf("    Album: %s\n", item.Album))
			}
			if item.Reason != "" {
				buf.WriteString(fmt.Sprintf("    %s\n", item.Reason))
			}
		}
	}

	return buf.Bytes(), nil
}

type jsonTrack struct {
	Name    string `json:"name"`
	Artists string `json:"artists"`
	Album   string `json:"album,omitempty"`
	Reason  string `json:"reason,omitempty"`
	URI     string `json:"uri,omitempty"`
}

type jsonSection struct {
	Mood   string      `json:"mood"`
	Label  string      `json:"label"`
	Tracks []jsonTrack `json:"tracks"`
}

type jsonView struct {
	Title       string        `json:"title,omitempty"`
	Warning     string        `json:"warning,omitempty"`
	PlaylistURL string        `json:"playlist_url,omitempty"`
	Error       string        `json:"error,omitempty"`
	Strategy    string        `json:"strategy,omitempty"`
	Sections    []jsonSection `json:"sections"`
}

// ExportToJSON converts a View to indented JSON
func ExportToJSON(view journey.View) ([]byte, error) {
	out := jsonView{
		Title:       view.Title,
		Warning:     view.Warning,
		PlaylistURL: view.PlaylistURL,
		Error:       view.Error,
		Sections:    []jsonSection{},
	}
	if !view.Failed() && !view.Empty {
		out.Strategy = view.Strategy.String()
	}

	for _, section := range view.Sections {
		js := jsonSection{Mood: section.Key, Label: section.Heading, Tracks: make([]jsonTrack, 0, len(section.Items))}
		for _, item := range section.Items {
			js.Tracks = append(js.Tracks, jsonTrack{
				Name:    item.Track.Name,
				Artists: item.Track.ArtistNames(),
				Album:   item.Album,
				Reason:  item.Reason,
				URI:     item.Track.URI,
			})
		}
		out.Sections = append(out.Sections, js)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteExport renders view and writes it to path.
//
// Defaults to journey.{ext} when path is empty.
func WriteExport(view journey.View, format Format, path string) (string, error) {
	if path == "" {
		path = "journey." + Extension(format)
	}

	data, err := Export(view, format)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", format, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s file: %w", format, err)
	}

	return path, nil
}

// Extension returns the file extension for a format.
func Extension(format Format) string {
	switch format {
	case FormatMarkdown:
		return "md"
	case FormatCSV:
		return "csv"
	case FormatJSON:
		return "json"
	default:
		return "txt"
	}
}
