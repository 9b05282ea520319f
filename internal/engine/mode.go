package engine

// DefaultVirtualizationThreshold is the total count above which a list
// renders windowed instead of paginated.
const DefaultVirtualizationThreshold = 50

// RenderMode is how a list materializes its rows.
type RenderMode int

const (
	// ModePaginated renders one bounded page at a time with prev/next
	// controls. Used for small collections where full materialization of a
	// page is cheaper than windowing math.
	ModePaginated RenderMode = iota
	// ModeWindowed materializes only the near-visible rows of the full
	// collection and reserves virtual height for the rest.
	ModeWindowed
)

// String returns the mode name for logs.
func (m RenderMode) String() string {
	switch m {
	case ModePaginated:
		return "paginated"
	case ModeWindowed:
		return "windowed"
	default:
		return "unknown"
	}
}

// SelectMode picks the render mode for a collection of the given total size.
// A total at or below the threshold stays paginated. The decision is made
// once per list open and deliberately never revisited mid-session, even when
// removals drag the total back across the threshold: switching modes while
// the user is scrolled mid-list would visibly rebuild the layout under them.
func SelectMode(total, threshold int) RenderMode {
	if threshold <= 0 {
		threshold = DefaultVirtualizationThreshold
	}
	if total > threshold {
		return ModeWindowed
	}
	return ModePaginated
}
