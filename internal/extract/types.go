package extract

import (
	"errors"
	"time"
)

// ErrNoPlaylists is returned by Discover when every strategy came back empty.
var ErrNoPlaylists = errors.New("no playlists found")

// Unknown is used for text fields the metadata query could not provide.
const Unknown = "Unknown"

// Default timeouts for each kind of yt-dlp call.
const (
	DefaultDiscoveryTimeout = 60 * time.Second
	DefaultFallbackTimeout  = 90 * time.Second
	DefaultMetadataTimeout  = 30 * time.Second
)

// Source records how a Record was produced.
type Source string

// Record sources.
const (
	SourceBasic    Source = "basic"
	SourceMetadata Source = "metadata"
	SourceFallback Source = "fallback"
)

// Record describes one playlist in the report.
type Record struct {
	Title      string `json:"title"`
	ID         string `json:"id"`
	VideoCount int    `json:"video_count"`
	Uploader   string `json:"uploader"`
	URL        string `json:"url"`
	Source     Source `json:"source"`
}
