package engine

// DefaultOverscan is the number of extra rows materialized beyond each
// viewport edge. Overscan exists so fast scrolling reveals already-rendered
// rows instead of blank space.
const DefaultOverscan = 5

// Viewport describes the geometry a window is computed against. Heights are
// in whatever unit the renderer uses (terminal cells here); the math is
// unit-agnostic.
type Viewport struct {
	// RowHeight is the fixed estimated height of one row. Must be > 0.
	RowHeight int
	// Height is the visible height of the scrollable area.
	Height int
	// Overscan is the number of extra rows on each side of the visible span.
	Overscan int
}

// Window is the contiguous index range that must be materialized for one
// scroll position, plus the geometry to place it at.
type Window struct {
	// Start and End are the inclusive index bounds of the materialized rows.
	// For an empty collection Start is 0 and End is -1.
	Start int
	End   int
	// TopOffset is where the materialized block begins in virtual space.
	TopOffset int
	// TotalHeight is the full virtual height of the collection. It depends
	// only on the item count and row height, never on the scroll position.
	TotalHeight int
}

// Len returns the number of materialized rows.
func (w Window) Len() int {
	if w.End < w.Start {
		return 0
	}
	return w.End - w.Start + 1
}

// Contains reports whether the index falls inside the window.
func (w Window) Contains(idx int) bool {
	return idx >= w.Start && idx <= w.End
}

// ComputeWindow derives the materialization window for n items at the given
// scroll offset. The result is always recomputed from the live offset and
// never cached, so it cannot desynchronize from the scroll position. Indices
// are clamped to [0, n-1]; n = 0 yields an empty window with zero height.
func ComputeWindow(n, scrollOffset int, vp Viewport) Window {
	if n <= 0 || vp.RowHeight <= 0 {
		return Window{Start: 0, End: -1}
	}
	if scrollOffset < 0 {
		scrollOffset = 0
	}

	start := scrollOffset/vp.RowHeight - vp.Overscan
	if start < 0 {
		start = 0
	}
	if start > n-1 {
		start = n - 1
	}

	end := ceilDiv(scrollOffset+vp.Height, vp.RowHeight) + vp.Overscan
	if end > n-1 {
		end = n - 1
	}
	if end < start {
		end = start
	}

	return Window{
		Start:       start,
		End:         end,
		TopOffset:   start * vp.RowHeight,
		TotalHeight: n * vp.RowHeight,
	}
}

// MaxScrollOffset returns the largest useful scroll offset for n items: the
// position where the last row's bottom edge meets the viewport bottom.
func MaxScrollOffset(n int, vp Viewport) int {
	if vp.RowHeight <= 0 {
		return 0
	}
	maxOffset := n*vp.RowHeight - vp.Height
	if maxOffset < 0 {
		return 0
	}
	return maxOffset
}

// ceilDiv returns ceil(a/b) for positive b.
func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
