package sheet

import (
	"testing"
	"time"

	"github.com/desertthunder/vidtrack/internal/models"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	parsed, err := time.Parse(models.SheetTimeLayout, s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return parsed
}

func video(t *testing.T, id, title, published string) models.Video {
	t.Helper()
	parsed, err := time.Parse(models.SourceTimeLayout, published)
	if err != nil {
		t.Fatalf("bad test timestamp %q: %v", published, err)
	}
	return models.Video{
		Title:       title,
		VideoID:     id,
		URL:         models.WatchURL(id),
		PublishedAt: parsed,
	}
}
