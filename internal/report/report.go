// Package report writes discovered playlists to disk and to the terminal.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/gndm/ytPlaylists/internal/extract"
)

// TimestampLayout is the layout of the generation time in report headers.
const TimestampLayout = "2006-01-02 15:04:05"

// Format selects the report encoding.
type Format string

// Supported formats.
const (
	FormatText Format = "text"
	FormatHTML Format = "html"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatHTML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown report format %q: must be 'text' or 'html'", s)
	}
}

// Writer renders records and writes them to a file.
type Writer struct {
	format Format
	logger *zap.Logger
	now    func() time.Time
}

// NewWriter creates a Writer for format. logger may be nil.
func NewWriter(format Format, logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{format: format, logger: logger, now: time.Now}
}

// Write renders records and replaces the file at path, creating its
// directory if needed.
func (w *Writer) Write(path string, records []extract.Record) error {
	data, err := w.Render(records)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	w.logger.Debug("report written",
		zap.String("path", path),
		zap.String("format", string(w.format)),
		zap.Int("records", len(records)),
		zap.Int("bytes", len(data)))
	return nil
}

// Render returns the report bytes without touching the filesystem.
func (w *Writer) Render(records []extract.Record) ([]byte, error) {
	generated := w.now()
	switch w.format {
	case FormatHTML:
		return w.renderHTML(records, generated)
	case FormatText, "":
		return RenderText(records, generated), nil
	default:
		return nil, fmt.Errorf("unknown report format %q", w.format)
	}
}

// RenderText renders the plain-text report: one numbered block per record
// followed by the bare URLs.
func RenderText(records []extract.Record, generated time.Time) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "YouTube Channel Playlists - Fetched on %s\n", generated.Format(TimestampLayout))
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	for i, r := range records {
		fmt.Fprintf(&b, "%d. %s\n", i+1, r.Title)
		fmt.Fprintf(&b, "   URL: %s\n", r.URL)
		fmt.Fprintf(&b, "   ID: %s\n", r.ID)
		fmt.Fprintf(&b, "   Videos: %d\n", r.VideoCount)
		fmt.Fprintf(&b, "   Uploader: %s\n", r.Uploader)
		b.WriteString(strings.Repeat("-", 40) + "\n")
	}

	b.WriteString("\nDirect Links Only:\n")
	b.WriteString(strings.Repeat("=", 20) + "\n")
	for _, r := range records {
		b.WriteString(r.URL + "\n")
	}

	return []byte(b.String())
}
