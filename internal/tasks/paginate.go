package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/vidtrack/internal/models"
	"github.com/desertthunder/vidtrack/internal/services"
)

// FetchState carries the pagination cursor and dedup set across page fetches.
// It is owned by the caller so successive runs can resume, and so independent
// runs never interfere.
type FetchState struct {
	Cursor string
	Seen   map[string]struct{}
}

// NewFetchState returns fresh pagination state starting at the first page.
func NewFetchState() *FetchState {
	return &FetchState{Seen: map[string]struct{}{}}
}

// StopReason records why a fetch run stopped requesting pages.
type StopReason int

const (
	StopExhausted StopReason = iota // source returned no next cursor
	StopCutoff                      // an item older than the cutoff was seen
	StopMaxPages                    // page budget spent
	StopError                       // a page fetch or item timestamp failed
)

func (r StopReason) String() string {
	switch r {
	case StopExhausted:
		return "exhausted"
	case StopCutoff:
		return "cutoff"
	case StopMaxPages:
		return "max_pages"
	case StopError:
		return "error"
	default:
		return ""
	}
}

// FetchResult holds everything one fetch run produced. Items fetched before a
// failure are preserved; Err is non-nil only when Reason is StopError.
type FetchResult struct {
	Items  []models.RawItem
	Pages  int
	Reason StopReason
	Err    error
}

// FetchOptions bounds and filters a fetch run.
type FetchOptions struct {
	Cutoff   *time.Time // inclusive lower bound on publish date, nil disables filtering
	MaxPages int
	Logger   *log.Logger
}

// FetchNew drives repeated page fetches against the source, emitting each
// unseen item in source order.
//
// Items older than the cutoff end the run immediately: the rest of the page
// is discarded and no further page is requested. This relies on the source
// yielding items newest-first; an out-of-order old item hides anything newer
// behind it.
func FetchNew(ctx context.Context, source services.Source, state *FetchState, opts FetchOptions) *FetchResult {
	result := &FetchResult{Reason: StopMaxPages}

	for result.Pages < opts.MaxPages {
		page, err := source.GetPage(ctx, state.Cursor)
		if err != nil {
			result.Reason = StopError
			result.Err = fmt.Errorf("fetching page %d: %w", result.Pages+1, err)
			if opts.Logger != nil {
				opts.Logger.Warn("page fetch failed, stopping pagination",
					"page", result.Pages+1, "error", err)
			}
			return result
		}
		result.Pages++

		for _, item := range page.Items {
			if opts.Cutoff != nil {
				published, perr := models.ParseSourceTime(item.PublishedAt)
				if perr != nil {
					result.Reason = StopError
					result.Err = fmt.Errorf("item %s: %w", item.VideoID, perr)
					return result
				}
				if published.Before(*opts.Cutoff) {
					result.Reason = StopCutoff
					if opts.Logger != nil {
						opts.Logger.Info("reached cutoff date, stopping pagination",
							"video_id", item.VideoID, "published_at", item.PublishedAt)
					}
					return result
				}
			}

			if _, dup := state.Seen[item.VideoID]; dup {
				continue
			}
			state.Seen[item.VideoID] = struct{}{}
			result.Items = append(result.Items, item)
		}

		state.Cursor = page.NextCursor
		if state.Cursor == "" {
			result.Reason = StopExhausted
			return result
		}
	}

	return result
}
