package engine

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeList is a minimal ScrollTarget for recorder tests.
type fakeList struct {
	offset int
}

func (f *fakeList) ScrollOffset() int          { return f.offset }
func (f *fakeList) SetScrollOffset(offset int) { f.offset = offset }

func newTestRecorder() *Recorder {
	return NewRecorder(zerolog.Nop())
}

func TestRecorder_OpenCloseRoundTrip(t *testing.T) {
	r := newTestRecorder()
	list := &fakeList{offset: 400}
	r.Register("events", list)

	r.OpenChild("events")
	require.Equal(t, 1, r.Depth())

	// Scrolling inside the child must not affect the captured frame.
	list.offset = 9999

	r.CloseChild("events")
	assert.Equal(t, 400, list.offset)
	assert.Zero(t, r.Depth())
}

// TestRecorder_NestedChain models list → detail → sub-detail: each close
// walks back one level and each level restores its own captured offset.
func TestRecorder_NestedChain(t *testing.T) {
	r := newTestRecorder()
	parent := &fakeList{offset: 400}
	detail := &fakeList{offset: 0}
	r.Register("parent", parent)
	r.Register("detail", detail)

	// Open detail from the parent list at offset 400.
	r.OpenChild("parent")

	// Scroll the detail's own list, then open a sub-detail from it.
	detail.offset = 120
	r.OpenChild("detail")
	require.Equal(t, 2, r.Depth())

	// Both lists move while the sub-detail is open.
	parent.offset = 1
	detail.offset = 2

	// Close in reverse order; each level gets its exact pre-open offset back.
	r.CloseChild("detail")
	assert.Equal(t, 120, detail.offset)

	r.CloseChild("parent")
	assert.Equal(t, 400, parent.offset)
	assert.Zero(t, r.Depth())
}

func TestRecorder_DeepNestingSameList(t *testing.T) {
	r := newTestRecorder()
	list := &fakeList{}
	r.Register("events", list)

	offsets := []int{100, 250, 775}
	for _, off := range offsets {
		list.offset = off
		r.OpenChild("events")
	}
	require.Equal(t, 3, r.Depth())

	// LIFO: frames come back newest-first.
	for i := len(offsets) - 1; i >= 0; i-- {
		list.offset = -1
		r.CloseChild("events")
		assert.Equal(t, offsets[i], list.offset)
	}
}

func TestRecorder_RestorationMissIsNoOp(t *testing.T) {
	r := newTestRecorder()
	list := &fakeList{offset: 300}
	r.Register("events", list)

	r.OpenChild("events")
	r.Deregister("events")

	// The list unmounted while the child was open. Closing must not panic
	// and must still consume the frame.
	require.NotPanics(t, func() { r.CloseChild("events") })
	assert.Zero(t, r.Depth())
	assert.Equal(t, 300, list.offset) // untouched
}

func TestRecorder_OpenFromUnregisteredListIsNoOp(t *testing.T) {
	r := newTestRecorder()
	r.OpenChild("ghost")
	assert.Zero(t, r.Depth())
}

func TestRecorder_CloseWithoutOpenIsNoOp(t *testing.T) {
	r := newTestRecorder()
	list := &fakeList{offset: 42}
	r.Register("events", list)

	require.NotPanics(t, func() { r.CloseChild("events") })
	assert.Equal(t, 42, list.offset)
}

func TestRecorder_PopsMatchingFrameOnly(t *testing.T) {
	r := newTestRecorder()
	a := &fakeList{offset: 10}
	b := &fakeList{offset: 20}
	r.Register("a", a)
	r.Register("b", b)

	r.OpenChild("a")
	r.OpenChild("b")

	// Closing a's child skips b's frame and consumes a's.
	a.offset = 99
	r.CloseChild("a")
	assert.Equal(t, 10, a.offset)
	assert.Equal(t, 1, r.Depth())

	b.offset = 99
	r.CloseChild("b")
	assert.Equal(t, 20, b.offset)
}
