package ytdlp

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotInstalled = errors.New("yt-dlp is not installed or not found in PATH")
	ErrTimeout      = errors.New("yt-dlp timed out")
	ErrFailed       = errors.New("yt-dlp execution failed")

	// Classified failures; each one also matches ErrFailed.
	ErrChannelNotFound = fmt.Errorf("%w: channel not found", ErrFailed)
	ErrRateLimited     = fmt.Errorf("%w: rate limited", ErrFailed)
	ErrLoginRequired   = fmt.Errorf("%w: login required", ErrFailed)
)

// classify maps yt-dlp stderr output to a sentinel error.
func classify(stderr string) error {
	s := strings.ToLower(stderr)

	switch {
	case strings.Contains(s, "does not exist") || strings.Contains(s, "http error 404"):
		return ErrChannelNotFound
	case strings.Contains(s, "http error 429") || strings.Contains(s, "too many requests"):
		return ErrRateLimited
	case strings.Contains(s, "sign in to confirm") || strings.Contains(s, "login required") ||
		strings.Contains(s, "use --cookies"):
		return ErrLoginRequired
	default:
		return ErrFailed
	}
}
