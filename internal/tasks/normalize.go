package tasks

import (
	"fmt"
	"sort"

	"github.com/desertthunder/vidtrack/internal/models"
	"github.com/desertthunder/vidtrack/internal/shared"
)

// Normalize converts a raw playlist item into the canonical record shape.
//
// A malformed publish timestamp is a hard error: the source contract
// guarantees ISO-8601 UTC, so a parse failure means upstream is broken, not
// that the record should be quietly dropped.
func Normalize(item models.RawItem) (models.Video, error) {
	published, err := models.ParseSourceTime(item.PublishedAt)
	if err != nil {
		return models.Video{}, fmt.Errorf("%w: normalizing item %q: %w", shared.ErrInvalidInput, item.VideoID, err)
	}

	return models.Video{
		Title:       item.Title,
		VideoID:     item.VideoID,
		URL:         models.WatchURL(item.VideoID),
		PublishedAt: published,
	}, nil
}

// NormalizeAll converts a batch of raw items, failing on the first malformed
// timestamp.
func NormalizeAll(items []models.RawItem) ([]models.Video, error) {
	videos := make([]models.Video, 0, len(items))
	for _, item := range items {
		v, err := Normalize(item)
		if err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}
	return videos, nil
}

// SortByPublishedDesc orders records newest-first.
func SortByPublishedDesc(videos []models.Video) {
	sort.SliceStable(videos, func(i, j int) bool {
		return videos[i].PublishedAt.After(videos[j].PublishedAt)
	})
}
