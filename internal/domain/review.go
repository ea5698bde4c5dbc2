package domain

import "time"

// GeneratedReview is the engine output. It is never mutated after it is returned.
type GeneratedReview struct {
	Text     string   `json:"text"`
	Metadata Metadata `json:"metadata"`
}

// Metadata describes how a review was produced. On fallback only Voice, Rating,
// TripType, counts, GeneratedAt, Fallback and Error are set.
type Metadata struct {
	Voice         Voice        `json:"voice"`
	Rating        int          `json:"rating"`
	TripType      TripType     `json:"trip_type"`
	Arc           NarrativeArc `json:"arc,omitempty"`
	Beats         []string     `json:"beats,omitempty"`
	WordCount     int          `json:"word_count"`
	SentenceCount int          `json:"sentence_count"`
	Readability   float64      `json:"readability"`
	Authenticity  int          `json:"authenticity"`
	Language      string       `json:"language,omitempty"`
	GeneratedAt   time.Time    `json:"generated_at"`
	Fallback      bool         `json:"fallback"`
	Error         string       `json:"error,omitempty"`
}

// Draft is a persisted review the guest may still edit or submit.
type Draft struct {
	ID         string            `json:"id"`
	PropertyID *int64            `json:"property_id,omitempty"`
	HotelName  string            `json:"hotel_name"`
	Request    GenerationRequest `json:"request"`
	Review     GeneratedReview   `json:"review"`
	CreatedAt  time.Time         `json:"created_at"`
}

type DraftsPage struct {
	Items []Draft `json:"items"`
}

// ReviewEvent is emitted for analytics after every generation.
type ReviewEvent struct {
	DraftID      string    `json:"draft_id,omitempty"`
	PropertyID   *int64    `json:"property_id,omitempty"`
	Voice        Voice     `json:"voice"`
	Rating       int       `json:"rating"`
	TripType     TripType  `json:"trip_type"`
	WordCount    int       `json:"word_count"`
	Readability  float64   `json:"readability"`
	Authenticity int       `json:"authenticity"`
	Fallback     bool      `json:"fallback"`
	GeneratedAt  time.Time `json:"generated_at"`
}

// EventFor builds the analytics event for a review.
func EventFor(draftID string, propertyID *int64, r GeneratedReview) ReviewEvent {
	m := r.Metadata
	return ReviewEvent{
		DraftID:      draftID,
		PropertyID:   propertyID,
		Voice:        m.Voice,
		Rating:       m.Rating,
		TripType:     m.TripType,
		WordCount:    m.WordCount,
		Readability:  m.Readability,
		Authenticity: m.Authenticity,
		Fallback:     m.Fallback,
		GeneratedAt:  m.GeneratedAt,
	}
}
