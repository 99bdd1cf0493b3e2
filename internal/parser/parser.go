// Package parser recognizes YouTube playlist references in yt-dlp output.
package parser

import (
	"encoding/json"
	"strings"
)

// Marker is the substring every canonical playlist URL contains.
const Marker = "playlist?list="

const canonicalPrefix = "https://www.youtube.com/" + Marker

// missing is what yt-dlp prints for a template field that has no value.
const missing = "NA"

// entryURLFields are the flat --dump-json fields that may hold a playlist URL.
var entryURLFields = []string{"url", "webpage_url", "original_url"}

// CanonicalURL builds the playlist page URL for id.
func CanonicalURL(id string) string {
	return canonicalPrefix + id
}

// IsPlaylistID reports whether s looks like a bare playlist id.
func IsPlaylistID(s string) bool {
	return strings.HasPrefix(s, "PL") && len(s) > 10
}

// IDFromURL returns the value of the list= parameter, or "" if there is none.
func IDFromURL(rawURL string) string {
	_, after, ok := strings.Cut(rawURL, "list=")
	if !ok {
		return ""
	}
	id, _, _ := strings.Cut(after, "&")
	return id
}

// Valid reports whether u may appear in the final result.
func Valid(u string) bool {
	return strings.Contains(u, Marker) && !strings.HasSuffix(u, missing)
}

// ParseLine applies the line recognizers in priority order:
// a playlist URL is kept as-is, a bare playlist id and a watch URL carrying
// a list parameter are turned into a canonical URL. Anything else is dropped.
func ParseLine(line string) (string, bool) {
	line = strings.TrimSpace(line)
	if line == "" || line == missing {
		return "", false
	}

	switch {
	case strings.Contains(line, Marker):
		return line, true
	case IsPlaylistID(line):
		return CanonicalURL(line), true
	case strings.Contains(line, "watch?v=") && strings.Contains(line, "&list="):
		if id := IDFromURL(line); id != "" {
			return CanonicalURL(id), true
		}
	}
	return "", false
}

// ParseEntry extracts playlist URLs from one line of flat --dump-json output.
// Lines that are not a JSON object yield nothing.
func ParseEntry(line string) []string {
	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		return nil
	}

	var urls []string
	for _, field := range entryURLFields {
		if v, ok := entry[field].(string); ok && strings.Contains(v, Marker) {
			urls = append(urls, v)
		}
	}
	if id, ok := entry["id"].(string); ok && IsPlaylistID(id) {
		urls = append(urls, CanonicalURL(id))
	}
	return urls
}
