package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/gndm/ytPlaylists/internal/parser"
	"github.com/gndm/ytPlaylists/internal/ytdlp"
)

// Enrich queries yt-dlp once for the playlist's metadata. It never fails:
// when the call or the decoding goes wrong it returns FallbackRecord.
func (e *Extractor) Enrich(ctx context.Context, playlistURL string) Record {
	rec, err := e.fetchMetadata(ctx, playlistURL)
	if err != nil {
		e.logger.Debug("metadata unavailable, using fallback",
			zap.String("playlist", playlistURL),
			zap.Error(err))
		return FallbackRecord(playlistURL)
	}
	return rec
}

func (e *Extractor) fetchMetadata(ctx context.Context, playlistURL string) (Record, error) {
	lines, err := e.yt.FlatDump(ctx, playlistURL, e.callOptions(e.metadataTimeout))
	if err != nil {
		return Record{}, err
	}
	if len(lines) == 0 {
		return Record{}, errors.New("empty metadata output")
	}

	var info ytdlp.PlaylistInfo
	if err := json.Unmarshal([]byte(lines[0]), &info); err != nil {
		return Record{}, fmt.Errorf("failed to parse metadata: %w", err)
	}

	return Record{
		Title:      orUnknown(info.Title),
		ID:         info.ID,
		VideoCount: info.Count,
		Uploader:   orUnknown(info.Uploader),
		URL:        playlistURL,
		Source:     SourceMetadata,
	}, nil
}

// Records builds one Record per URL. In detailed mode each playlist is
// enriched in turn and progress is called before every query. Cancellation
// stops detailed mode with the context error; no partial list is returned.
func (e *Extractor) Records(ctx context.Context, urls []string, detailed bool, progress func(i, total int)) ([]Record, error) {
	records := make([]Record, 0, len(urls))
	for i, u := range urls {
		if !detailed {
			records = append(records, BasicRecord(i+1, u))
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if progress != nil {
			progress(i+1, len(urls))
		}
		rec := e.Enrich(ctx, u)
		// Enrich falls back when its subprocess is killed; drop that record.
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// BasicRecord is the placeholder written when metadata is not requested.
func BasicRecord(n int, playlistURL string) Record {
	return Record{
		Title:    fmt.Sprintf("Playlist %d", n),
		ID:       parser.IDFromURL(playlistURL),
		Uploader: Unknown,
		URL:      playlistURL,
		Source:   SourceBasic,
	}
}

// FallbackRecord is derived from the URL alone.
func FallbackRecord(playlistURL string) Record {
	return Record{
		Title:    Unknown,
		ID:       parser.IDFromURL(playlistURL),
		Uploader: Unknown,
		URL:      playlistURL,
		Source:   SourceFallback,
	}
}

func orUnknown(s string) string {
	if s == "" {
		return Unknown
	}
	return s
}
