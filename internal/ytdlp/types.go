package ytdlp

import "time"

// Options controls a single yt-dlp invocation.
type Options struct {
	// CookiesPath is passed as --cookies when the file exists.
	CookiesPath string
	// Timeout kills the subprocess when exceeded. Zero means no limit.
	Timeout time.Duration
}

// PlaylistInfo is the subset of a flat --dump-json line describing the
// playlist an entry belongs to.
type PlaylistInfo struct {
	Title    string `json:"playlist_title"`
	ID       string `json:"playlist_id"`
	Count    int    `json:"playlist_count"`
	Uploader string `json:"playlist_uploader"`
}
