package engine

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// VisibleRange returns the inclusive 0-based index bounds of the rows at
// least partially inside [scrollOffset, scrollOffset+vp.Height). This is the
// window arithmetic without overscan; it backs the "showing X–Y of N"
// indicator and must stay cheap enough to run on every scroll event.
//
// For an empty collection it returns (0, -1).
func VisibleRange(n, scrollOffset int, vp Viewport) (int, int) {
	if n <= 0 || vp.RowHeight <= 0 {
		return 0, -1
	}
	if scrollOffset < 0 {
		scrollOffset = 0
	}

	first := scrollOffset / vp.RowHeight
	if first > n-1 {
		first = n - 1
	}

	last := ceilDiv(scrollOffset+vp.Height, vp.RowHeight) - 1
	if last > n-1 {
		last = n - 1
	}
	if last < first {
		last = first
	}

	return first, last
}

// indicatorPrinter formats counts with thousands separators.
//
//nolint:gochecknoglobals // message.Printer is immutable and safe to share.
var indicatorPrinter = message.NewPrinter(language.English)

// RangeLabel renders the 1-based human-readable indicator for a visible
// range as returned by VisibleRange. An empty collection reads "0 of 0".
func RangeLabel(first, last, total int) string {
	if total <= 0 || last < first {
		return "0 of 0"
	}
	return indicatorPrinter.Sprintf("%d–%d of %d", first+1, last+1, total)
}
