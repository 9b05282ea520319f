// Package listview provides the two list renderers behind the review
// dashboard: a windowed model for large collections and a paginated model
// for small ones.
//
// The windowed model materializes only the rows near the viewport plus an
// overscan margin, so lists with thousands of events render in
// O(visible rows) per scroll event while the scrollbar geometry stays
// accurate over the full virtual height. The paginated model materializes
// one bounded page with prev/next controls and needs no windowing math.
//
// Which model backs a given list is decided once per collection open by
// engine.SelectMode and never changes mid-session.
package listview
