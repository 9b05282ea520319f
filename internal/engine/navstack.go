package engine

import (
	"github.com/rs/zerolog"
)

// ScrollTarget is the handle a list registers so its scroll position can be
// captured and restored. Handles are passed in explicitly at registration;
// the recorder never locates a list through any global lookup.
type ScrollTarget interface {
	// ScrollOffset returns the current scroll offset.
	ScrollOffset() int
	// SetScrollOffset moves the list to the given offset.
	SetScrollOffset(offset int)
}

// Frame is one saved scroll position, pushed when a child view opens from a
// list row and popped when that child closes.
type Frame struct {
	// ListID identifies the list the frame belongs to.
	ListID string
	// ScrollOffset is the list's offset at the moment the child opened.
	ScrollOffset int
}

// Recorder preserves list scroll positions across nested, re-entrant child
// views (list → detail → sub-detail). Frames are strictly LIFO: closing a
// child restores exactly the position captured by the matching open, however
// deep the nesting went or how long it stayed open.
type Recorder struct {
	frames  []Frame
	targets map[string]ScrollTarget
	logger  zerolog.Logger
}

// NewRecorder creates an empty Recorder.
func NewRecorder(logger zerolog.Logger) *Recorder {
	return &Recorder{
		targets: make(map[string]ScrollTarget),
		logger:  logger,
	}
}

// Register associates a live list with its ID. Must be called when the list
// mounts, before any child can open from it.
func (r *Recorder) Register(listID string, target ScrollTarget) {
	r.targets[listID] = target
}

// Deregister drops the handle for an unmounted list. Frames referencing it
// remain on the stack; restoring against them becomes a no-op.
func (r *Recorder) Deregister(listID string) {
	delete(r.targets, listID)
}

// Depth returns the number of frames currently on the stack, which equals
// the number of open child views whose parent is a recorded list.
func (r *Recorder) Depth() int {
	return len(r.frames)
}

// OpenChild captures the list's current scroll offset and pushes a frame.
// The push happens before the child view opens, so the captured offset can
// never include scrolling that happens inside the child.
func (r *Recorder) OpenChild(listID string) {
	target, ok := r.targets[listID]
	if !ok {
		r.logger.Debug().Str("list", listID).Msg("open child from unregistered list, nothing captured")
		return
	}
	r.frames = append(r.frames, Frame{
		ListID:       listID,
		ScrollOffset: target.ScrollOffset(),
	})
}

// CloseChild pops the most recent frame for the list being returned to and
// restores its scroll offset. If the list no longer exists the frame is
// still consumed and the restoration is silently dropped; a dead list must
// never make closing a child fail.
func (r *Recorder) CloseChild(listID string) {
	idx := -1
	for i := len(r.frames) - 1; i >= 0; i-- {
		if r.frames[i].ListID == listID {
			idx = i
			break
		}
	}
	if idx == -1 {
		r.logger.Debug().Str("list", listID).Msg("close child with no matching frame")
		return
	}

	frame := r.frames[idx]
	r.frames = append(r.frames[:idx], r.frames[idx+1:]...)

	target, ok := r.targets[listID]
	if !ok {
		r.logger.Debug().
			Str("list", listID).
			Int("offset", frame.ScrollOffset).
			Msg("restoration target gone, dropping frame")
		return
	}
	target.SetScrollOffset(frame.ScrollOffset)
}
