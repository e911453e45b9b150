package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/vidtrack/internal/models"
)

var _ list.Item = videoItem{}

// videoItem wraps [models.Video] to implement [list.Item].
type videoItem struct {
	video models.Video
	isNew bool
}

func (i videoItem) FilterValue() string { return i.video.Title }
func (i videoItem) Title() string       { return i.video.Title }
func (i videoItem) Description() string {
	desc := i.video.PublishedAt.Format(models.CutoffDateLayout)
	if label := i.video.CategoryLabel(); label != "" {
		desc = fmt.Sprintf("%s • %s", desc, label)
	}
	if i.isNew {
		desc = fmt.Sprintf("%s • new", desc)
	}
	return desc
}
