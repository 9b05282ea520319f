package pagination

import (
	"sort"

	"github.com/evlens/evlens/internal/api"
)

// EventSorter sorts event slices by a named field.
type EventSorter struct {
	validFields map[string]bool
}

// NewEventSorter creates an EventSorter with the supported sort fields.
func NewEventSorter() *EventSorter {
	return &EventSorter{
		validFields: map[string]bool{
			"time":   true,
			"camera": true,
			"label":  true,
			"score":  true,
		},
	}
}

// IsValidField checks whether the field can be sorted on.
func (s *EventSorter) IsValidField(field string) bool {
	return s.validFields[field]
}

// ValidFields returns the supported sort fields in a stable order.
func (s *EventSorter) ValidFields() []string {
	fields := make([]string, 0, len(s.validFields))
	for field := range s.validFields {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

// Sort returns a new slice sorted by the given field and order. The input is
// not modified. An invalid field returns the input unchanged; callers are
// expected to have validated the field against IsValidField.
func (s *EventSorter) Sort(events []api.Event, field, order string) []api.Event {
	if !s.IsValidField(field) {
		return events
	}

	sorted := make([]api.Event, len(events))
	copy(sorted, events)

	sort.SliceStable(sorted, func(i, j int) bool {
		// Descending order swaps the comparison operands, preserving
		// stability for equal keys.
		if order == SortOrderDesc {
			i, j = j, i
		}

		switch field {
		case "time":
			return sorted[i].Timestamp.Before(sorted[j].Timestamp)
		case "camera":
			return sorted[i].Camera < sorted[j].Camera
		case "label":
			return sorted[i].Label < sorted[j].Label
		case "score":
			return sorted[i].Score < sorted[j].Score
		default:
			return false
		}
	})

	return sorted
}
