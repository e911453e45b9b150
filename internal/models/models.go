// package models defines the data model for the playlist video tracker
package models

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Time layouts used at the system boundaries.
//
// The playlist source reports publish timestamps in UTC ISO-8601, the sheet
// stores them in a space-separated canonical form, and cutoff dates arrive
// from the CLI as bare dates.
const (
	SourceTimeLayout = "2006-01-02T15:04:05Z"
	SheetTimeLayout  = "2006-01-02 15:04:05"
	CutoffDateLayout = "2006-01-02"
)

// WatchURLPrefix is prepended to a video ID to form its canonical URL.
const WatchURLPrefix = "https://www.youtube.com/watch?v="

// RawItem is a single playlist entry as returned by the source.
// It lives only for the duration of one page's processing.
type RawItem struct {
	Title       string
	VideoID     string
	PublishedAt string // ISO-8601 UTC, e.g. "2025-02-02T15:04:05Z"
}

// Page is one page of playlist results along with the continuation cursor.
type Page struct {
	Items      []RawItem
	NextCursor string // empty when the playlist is exhausted
}

// Video is the normalized, core-owned record for a playlist entry.
//
// The unique key is URL (equivalently VideoID). AddedToDB and DBAddedAt are
// human-editable once persisted; the reconciler only sets their defaults for
// genuinely new records and never touches them afterwards.
type Video struct {
	Title       string
	VideoID     string
	URL         string
	PublishedAt time.Time
	AddedToDB   bool
	DBAddedAt   *time.Time
	Categories  []string // sorted category names; empty means unclassified
}

// WatchURL derives the canonical video URL from an external video ID.
func WatchURL(videoID string) string {
	return WatchURLPrefix + videoID
}

// CategoryLabel returns the display form of the video's categories:
// the sorted set joined with commas.
func (v Video) CategoryLabel() string {
	return strings.Join(v.Categories, ", ")
}

// ParseSourceTime parses a publish timestamp in the source's ISO-8601 form.
func ParseSourceTime(s string) (time.Time, error) {
	t, err := time.Parse(SourceTimeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid publish timestamp %q: %w", s, err)
	}
	return t, nil
}

// ParseCutoffDate parses a cutoff date in YYYY-MM-DD form.
func ParseCutoffDate(s string) (time.Time, error) {
	t, err := time.Parse(CutoffDateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid cutoff date %q: %w", s, err)
	}
	return t, nil
}

// CategoryFilter maps a game category to the keyword phrases that identify it.
// Loaded once from configuration and immutable during a run.
type CategoryFilter map[string][]string

// Games returns the configured category names in sorted order.
func (f CategoryFilter) Games() []string {
	games := make([]string, 0, len(f))
	for game := range f {
		games = append(games, game)
	}
	sort.Strings(games)
	return games
}

// RowRef identifies a sheet row by title and publish date for reporting.
type RowRef struct {
	Title string
	Date  time.Time
}

// StatsReport summarizes the reconciled sheet.
//
// Pointer fields are nil when the underlying data is missing entirely, which
// is distinct from a zero count.
type StatsReport struct {
	TotalRows     int
	InDatabase    *int // nil when the sheet has no added_to_db column
	NotInDatabase *int
	DistinctURLs  *int // nil when the sheet has no url column
	Latest        *RowRef
	Oldest        *RowRef
	TimespanDays  *int           // nil when no row has a valid date
	Categories    map[string]int // nil when the sheet has no categories column
}
