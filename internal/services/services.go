// package services defines interface Source for playlist item providers
//
// YouTube Data API v3 (playlistItems)
package services

import (
	"context"

	"github.com/desertthunder/vidtrack/internal/models"
)

// Source defines the interface for paginated playlist metadata providers.
//
// Pages are assumed newest-first; the pipeline's early cutoff stop depends on
// this ordering.
type Source interface {
	// GetPage fetches one page of playlist items. An empty cursor requests
	// the first page; the returned cursor is empty when no pages remain.
	GetPage(ctx context.Context, cursor string) (*models.Page, error)

	// Name returns the name of the source (e.g., "YouTube")
	Name() string
}
