package report

import (
	"fmt"
	"strings"

	"github.com/gndm/ytPlaylists/internal/extract"
)

// DefaultSummaryLimit is how many playlists Summary lists by default.
const DefaultSummaryLimit = 5

// Summary formats the first limit records for the terminal, one per line,
// followed by a count of the rest.
func Summary(records []extract.Record, limit int) string {
	if limit <= 0 {
		limit = DefaultSummaryLimit
	}

	var b strings.Builder
	for i, r := range records {
		if i == limit {
			fmt.Fprintf(&b, "  ... and %d more playlists\n", len(records)-limit)
			break
		}
		fmt.Fprintf(&b, "  %d. %s (%s)\n", i+1, r.Title, pluralize(r.VideoCount, "video"))
	}
	return b.String()
}

// pluralize returns "1 video" or "N videos" based on count.
func pluralize(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
