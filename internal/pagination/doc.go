// Package pagination provides shared pagination, sorting, and result
// metadata for CLI commands that list events.
//
// Two mutually exclusive modes are supported:
//   - Offset-based: --limit and --offset
//   - Page-based: --page and --page-size
//
// The pagination package keeps flag semantics consistent across every
// command that returns event lists.
package pagination
