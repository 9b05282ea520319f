// Package engine implements the adaptive list rendering core: render-mode
// selection, windowed visible-range math, scroll-position bookkeeping across
// nested navigation, and last-request-wins fetch sequencing.
//
// Everything in this package is pure state and arithmetic with no UI or
// transport dependencies. The TUI layer owns viewports and key handling; the
// engine answers "which rows must exist right now and where do they sit".
// All computation is O(visible rows) per scroll event, never O(N), which is
// what makes collections with thousands of rows cheap to navigate.
package engine
