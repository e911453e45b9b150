// Package filter implements the title classification engine.
//
// Two modes are supported: exact case-insensitive substring matching, which
// assigns at most one category, and fuzzy partial-ratio matching, which may
// assign several.
package filter

import (
	"fmt"
	"sort"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/desertthunder/vidtrack/internal/models"
	"github.com/desertthunder/vidtrack/internal/shared"
)

// Mode selects the matching algorithm.
type Mode int

const (
	ModeExact Mode = iota
	ModeFuzzy
)

// DefaultThreshold is the fuzzy score a keyword must strictly exceed to match.
const DefaultThreshold = 80

func (m Mode) String() string {
	switch m {
	case ModeExact:
		return "exact"
	case ModeFuzzy:
		return "fuzzy"
	default:
		return ""
	}
}

// ParseMode converts a configuration string into a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "exact":
		return ModeExact, nil
	case "fuzzy", "":
		return ModeFuzzy, nil
	default:
		return ModeFuzzy, fmt.Errorf("%w: unknown classify mode %q", shared.ErrInvalidConfig, s)
	}
}

// MatchesKeywords reports whether any keyword occurs as a case-insensitive
// substring of the title.
func MatchesKeywords(title string, keywords []string) bool {
	lowered := strings.ToLower(title)
	for _, keyword := range keywords {
		if strings.Contains(lowered, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}

// First returns the first category whose keywords match the title as an exact
// substring. Categories are tried in sorted name order so the result is
// deterministic. The second return value is false when nothing matches.
func First(title string, categories models.CategoryFilter) (string, bool) {
	for _, game := range categories.Games() {
		if MatchesKeywords(title, categories[game]) {
			return game, true
		}
	}
	return "", false
}

// Classify scores every (category, keyword) pair against the title with a
// partial-ratio fuzzy match and returns the sorted set of categories holding
// at least one keyword scoring strictly above threshold.
//
// A result of length zero means the title is unclassified.
func Classify(title string, categories models.CategoryFilter, threshold int) []string {
	lowered := strings.ToLower(title)

	var matched []string
	for game, keywords := range categories {
		for _, keyword := range keywords {
			if fuzzy.PartialRatio(strings.ToLower(keyword), lowered) > threshold {
				matched = append(matched, game)
				break
			}
		}
	}

	sort.Strings(matched)
	return matched
}
