// package formatter provides functions to export the play queue to various formats (CSV, Markdown, M3U, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/desertthunder/queued/internal/models"
	"github.com/desertthunder/queued/internal/shared"
)

// ExportToCSV converts a QueueView to CSV format with columns: Position, ID, Title, Artist, Album, Duration, Source
func ExportToCSV(view *models.QueueView) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Position", "ID", "Title", "Artist", "Album", "Duration", "Source"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, item := range view.Items {
		title, artist, album, duration := trackFields(item)
		record := []string{
			strconv.Itoa(item.Position),
			item.TrackID,
			title,
			artist,
			album,
			strconv.Itoa(duration),
			item.SourceType,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a QueueView to Markdown format.
//
// The current track is marked with a playhead arrow.
func ExportToMarkdown(view *models.QueueView) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Play Queue\n\n")
	buf.WriteString(fmt.Sprintf("**Tracks**: %d\n", view.TotalTracks))
	buf.WriteString(fmt.Sprintf("**Duration**: %s\n", shared.FormatDuration(view.TotalDuration)))
	buf.WriteString(fmt.Sprintf("**Shuffle**: %s\n", onOff(view.ShuffleEnabled)))
	buf.WriteString(fmt.Sprintf("**Repeat**: %s\n\n", view.RepeatMode))

	buf.WriteString("## Tracks\n\n")
	for i, item := range view.Items {
		title, artist, album, duration := trackFields(item)
		marker := ""
		if i == view.CurrentIndex && view.TotalTracks > 0 {
			marker = " ◀"
		}
		albumPart := ""
		if album != "" {
			albumPart = fmt.Sprintf(" (%s)", album)
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s%s [%s]%s\n", i+1, artist, title, albumPart, shared.FormatDuration(duration), marker))
	}

	return buf.Bytes(), nil
}

// ExportToM3U converts a QueueView to the extended M3U playlist format.
//
// Entries with no resolved track or no file path are skipped.
func ExportToM3U(view *models.QueueView) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("#EXTM3U\n")
	for _, item := range view.Items {
		if item.Track == nil || item.Track.Path == "" {
			continue
		}
		buf.WriteString(fmt.Sprintf("#EXTINF:%d,%s - %s\n", item.Track.Duration, item.Track.ArtistName, item.Track.Title))
		buf.WriteString(item.Track.Path + "\n")
	}

	return buf.Bytes(), nil
}

// ExportToText converts a QueueView to plain text format
func ExportToText(view *models.QueueView) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Queue: %d tracks (%s)\n\n", view.TotalTracks, shared.FormatDuration(view.TotalDuration)))

	for i, item := range view.Items {
		title, artist, _, _ := trackFields(item)
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, artist, title))
	}

	return buf.Bytes(), nil
}

// Export renders a QueueView in the named format: "csv", "markdown", "m3u", or "text".
func Export(view *models.QueueView, format string) ([]byte, error) {
	switch format {
	case "csv":
		return ExportToCSV(view)
	case "markdown", "md":
		return ExportToMarkdown(view)
	case "m3u":
		return ExportToM3U(view)
	case "text", "txt":
		return ExportToText(view)
	default:
		return nil, fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, format)
	}
}

// WriteExport renders a QueueView and writes it to filepath.
//
// Defaults the filename to queue.{ext} when filepath is empty.
func WriteExport(view *models.QueueView, format, filepath string) (string, error) {
	data, err := Export(view, format)
	if err != nil {
		return "", err
	}

	if filepath == "" {
		filepath = "queue." + extensionFor(format)
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return filepath, nil
}

// trackFields pulls display fields from an item, tolerating unresolved tracks.
func trackFields(item models.QueueViewItem) (title, artist, album string, duration int) {
	if item.Track == nil {
		return item.TrackID, "Unknown", "", 0
	}
	return item.Track.Title, item.Track.ArtistName, item.Track.AlbumName, item.Track.Duration
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func extensionFor(format string) string {
	switch format {
	case "markdown", "md":
		return "md"
	case "m3u":
		return "m3u"
	case "text", "txt":
		return "txt"
	default:
		return "csv"
	}
}
