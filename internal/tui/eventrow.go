package tui

import (
	"fmt"
	"time"

	"github.com/evlens/evlens/internal/api"
)

// renderEventRow renders one event as a card: timestamp/camera/label header,
// snippet line, and a blank separator. The list layer truncates or pads the
// result to the configured row height, so the card never has to measure
// itself.
func renderEventRow(ev api.Event, selected bool, width int) string {
	marker := "  "
	if selected {
		marker = "▌ "
	}

	thumb := " "
	if ev.ThumbnailRef != nil {
		thumb = "◫"
	}

	head := fmt.Sprintf("%s%s %s  %s  %s %.0f%%",
		marker,
		ev.Timestamp.Local().Format(time.DateTime),
		ev.Camera,
		ev.Label,
		thumb,
		ev.Score*100,
	)
	snippet := fmt.Sprintf("%s%s", marker, ev.Snippet)

	if selected {
		return selectedRowStyle.Render(head) + "\n" + selectedRowStyle.Render(snippet)
	}
	return head + "\n" + dimStyle.Render(snippet)
}
