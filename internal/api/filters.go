package api

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Filter validation errors.
var (
	ErrInvalidFilterFormat = errors.New("filter must be in key=value format")
	ErrUnknownFilterKey    = errors.New("unknown filter key")
	ErrInvalidFilterTime   = errors.New("filter time must be RFC 3339")
)

// validFilterKeys lists the filter keys the events endpoint accepts.
//
//nolint:gochecknoglobals // Compile-time constant lookup table.
var validFilterKeys = map[string]bool{
	"camera": true,
	"label":  true,
	"after":  true,
	"before": true,
}

// Filters is an ordered list of "key=value" filter expressions. Identical
// filter sets yield identical orderings from the backend, which is what lets
// the list engine treat refetches as stable.
type Filters []string

// ValidateFilter checks a single "key=value" expression. Time-valued keys
// (after, before) must parse as RFC 3339.
func ValidateFilter(expr string) error {
	key, value, ok := strings.Cut(expr, "=")
	if !ok || key == "" || value == "" {
		return fmt.Errorf("%w: %q", ErrInvalidFilterFormat, expr)
	}
	if !validFilterKeys[key] {
		return fmt.Errorf("%w: %q (valid: camera, label, after, before)", ErrUnknownFilterKey, key)
	}
	if key == "after" || key == "before" {
		if _, err := time.Parse(time.RFC3339, value); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidFilterTime, value)
		}
	}
	return nil
}

// Validate checks every expression, failing on the first invalid one.
func (f Filters) Validate() error {
	for _, expr := range f {
		if expr == "" {
			continue
		}
		if err := ValidateFilter(expr); err != nil {
			return err
		}
	}
	return nil
}

// Key returns a canonical representation of the filter set, used to decide
// whether two fetches target the same list (last-request-wins scoping).
func (f Filters) Key() string {
	return strings.Join(f, "&")
}

// apply adds the filter expressions to query values. Filters must have been
// validated first; malformed expressions are skipped.
func (f Filters) apply(q url.Values) {
	for _, expr := range f {
		key, value, ok := strings.Cut(expr, "=")
		if !ok || key == "" || value == "" {
			continue
		}
		q.Set(key, value)
	}
}
