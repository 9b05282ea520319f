package api

import "time"

// Event is one camera event linked to an entity. The ID is stable for the
// lifetime of the event; the display payload may be edited server-side
// without the ID changing.
type Event struct {
	// ID uniquely identifies the event.
	ID string `json:"id"`
	// Timestamp is when the event occurred. Listings are newest-first.
	Timestamp time.Time `json:"timestamp"`
	// Camera is the source camera name.
	Camera string `json:"camera"`
	// Label is the detected object class (person, car, ...).
	Label string `json:"label"`
	// Score is the detection confidence in [0, 1].
	Score float64 `json:"score"`
	// Snippet is a short human-readable description for list rows.
	Snippet string `json:"snippet"`
	// ThumbnailRef references a thumbnail image, nil when none exists.
	ThumbnailRef *string `json:"thumbnail"`
}

// Page is one page of an entity's linked events plus the authoritative total.
type Page struct {
	Events  []Event `json:"events"`
	Total   int     `json:"total"`
	HasMore bool    `json:"has_more"`
}

// VersionInfo is the backend's version handshake response.
type VersionInfo struct {
	Version string `json:"version"`
}

// errorEnvelope is the backend's error response body.
type errorEnvelope struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
