package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeWindow_ReferenceScenario(t *testing.T) {
	// N=200, rowHeight=80, viewport=600, overscan=5, scrollOffset=1600.
	vp := Viewport{RowHeight: 80, Height: 600, Overscan: 5}
	w := ComputeWindow(200, 1600, vp)

	assert.Equal(t, 15, w.Start)
	assert.Equal(t, 33, w.End)
	assert.Equal(t, 1200, w.TopOffset)
	assert.Equal(t, 16000, w.TotalHeight)
}

func TestComputeWindow(t *testing.T) {
	vp := Viewport{RowHeight: 80, Height: 600, Overscan: 5}

	tests := []struct {
		name         string
		n            int
		scrollOffset int
		wantStart    int
		wantEnd      int
		wantTop      int
	}{
		{
			name: "top of list clamps start", n: 200, scrollOffset: 0,
			wantStart: 0, wantEnd: 13, wantTop: 0,
		},
		{
			name: "negative offset treated as zero", n: 200, scrollOffset: -50,
			wantStart: 0, wantEnd: 13, wantTop: 0,
		},
		{
			name: "bottom of list clamps end", n: 200, scrollOffset: 15400,
			wantStart: 187, wantEnd: 199, wantTop: 14960,
		},
		{
			name: "offset beyond content clamps both", n: 10, scrollOffset: 99999,
			wantStart: 9, wantEnd: 9, wantTop: 720,
		},
		{
			name: "collection smaller than viewport", n: 3, scrollOffset: 0,
			wantStart: 0, wantEnd: 2, wantTop: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ComputeWindow(tt.n, tt.scrollOffset, vp)
			assert.Equal(t, tt.wantStart, w.Start)
			assert.Equal(t, tt.wantEnd, w.End)
			assert.Equal(t, tt.wantTop, w.TopOffset)
			assert.Equal(t, tt.n*vp.RowHeight, w.TotalHeight)
		})
	}
}

func TestComputeWindow_EmptyCollection(t *testing.T) {
	w := ComputeWindow(0, 500, Viewport{RowHeight: 80, Height: 600, Overscan: 5})

	assert.Zero(t, w.Len())
	assert.Zero(t, w.TotalHeight)
	assert.Zero(t, w.TopOffset)
}

// TestComputeWindow_CoversVisibleRows checks the containment law: for any
// offset, every row partially inside the viewport is inside the window, the
// window never exceeds overscan beyond the visible span, and indices stay in
// bounds.
func TestComputeWindow_CoversVisibleRows(t *testing.T) {
	const n = 500
	vp := Viewport{RowHeight: 3, Height: 40, Overscan: 5}

	for offset := 0; offset <= MaxScrollOffset(n, vp); offset += 7 {
		w := ComputeWindow(n, offset, vp)

		require.GreaterOrEqual(t, w.Start, 0)
		require.LessOrEqual(t, w.End, n-1)

		first, last := VisibleRange(n, offset, vp)
		require.LessOrEqual(t, w.Start, first, "offset %d: visible row above window", offset)
		require.GreaterOrEqual(t, w.End, last, "offset %d: visible row below window", offset)

		// No more than overscan extra rows on either side (modulo clamping).
		require.GreaterOrEqual(t, w.Start, first-vp.Overscan)
		require.LessOrEqual(t, w.End, last+vp.Overscan+1)
	}
}

// TestComputeWindow_TotalHeightScrollInvariant checks that virtual height
// depends only on the item count, never the offset.
func TestComputeWindow_TotalHeightScrollInvariant(t *testing.T) {
	vp := Viewport{RowHeight: 80, Height: 600, Overscan: 5}

	base := ComputeWindow(200, 0, vp).TotalHeight
	for _, offset := range []int{0, 80, 1600, 8000, 15400} {
		assert.Equal(t, base, ComputeWindow(200, offset, vp).TotalHeight)
	}

	assert.NotEqual(t, base, ComputeWindow(199, 0, vp).TotalHeight)
}

// TestComputeWindow_AfterRemoval models the row-removal path: the offset is
// untouched, only N shrinks, and the window must recompute in bounds even
// when the old end index now exceeds the new last row.
func TestComputeWindow_AfterRemoval(t *testing.T) {
	vp := Viewport{RowHeight: 80, Height: 600, Overscan: 5}
	const offset = 15400 // bottom of a 200-row list

	before := ComputeWindow(200, offset, vp)
	require.Equal(t, 199, before.End)

	after := ComputeWindow(199, offset, vp)
	assert.Equal(t, 198, after.End)
	assert.LessOrEqual(t, after.Start, after.End)
	assert.Equal(t, 199*80, after.TotalHeight)
}

func TestWindow_Len_Contains(t *testing.T) {
	w := Window{Start: 15, End: 33}
	assert.Equal(t, 19, w.Len())
	assert.True(t, w.Contains(15))
	assert.True(t, w.Contains(33))
	assert.False(t, w.Contains(14))
	assert.False(t, w.Contains(34))

	empty := Window{Start: 0, End: -1}
	assert.Zero(t, empty.Len())
	assert.False(t, empty.Contains(0))
}

func TestMaxScrollOffset(t *testing.T) {
	vp := Viewport{RowHeight: 80, Height: 600}
	assert.Equal(t, 15400, MaxScrollOffset(200, vp))
	assert.Zero(t, MaxScrollOffset(5, vp)) // content shorter than viewport
	assert.Zero(t, MaxScrollOffset(0, vp))
}
