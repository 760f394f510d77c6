package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/djx/internal/models"
	"github.com/desertthunder/djx/internal/shared"
)

var _ list.Item = trackItem{}

// trackItem wraps [models.Track] to implement [list.Item].
type trackItem struct {
	track models.Track
}

func (i trackItem) FilterValue() string { return i.track.Title }
func (i trackItem) Title() string       { return i.track.Title }
func (i trackItem) Description() string {
	desc := fmt.Sprintf("%s [%s]", i.track.Artist, shared.FormatDuration(i.track.Duration))
	if i.track.Album != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.track.Album)
	}
	return desc
}
