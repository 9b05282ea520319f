package engine

import "sync/atomic"

// Sequencer implements last-request-wins for asynchronous fetches. Each
// fetch takes a generation from Next before it is issued; when its response
// arrives, Current tells the caller whether a newer fetch for the same list
// has been issued in the meantime, in which case the response is stale and
// must be discarded without being applied.
//
// Fetch commands run on their own goroutines under Bubble Tea, so the
// counter is atomic even though responses are applied on the single update
// loop.
type Sequencer struct {
	generation atomic.Uint64
}

// Next allocates the generation for a fetch about to be issued.
func (s *Sequencer) Next() uint64 {
	return s.generation.Add(1)
}

// Current returns the most recently allocated generation.
func (s *Sequencer) Current() uint64 {
	return s.generation.Load()
}

// IsCurrent reports whether a response carrying the given generation is
// still the latest and may be applied.
func (s *Sequencer) IsCurrent(generation uint64) bool {
	return s.generation.Load() == generation
}
