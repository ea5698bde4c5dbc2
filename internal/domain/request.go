package domain

import "strings"

type TripType string

const (
	TripLeisure  TripType = "leisure"
	TripBusiness TripType = "business"
	TripFamily   TripType = "family"
	TripSolo     TripType = "solo"
	TripCouple   TripType = "couple"
)

// Known reports whether t is one of the five supported trip types.
func (t TripType) Known() bool {
	switch t {
	case TripLeisure, TripBusiness, TripFamily, TripSolo, TripCouple:
		return true
	}
	return false
}

// Phrasing returns the trip type used for wording. Unknown values read as leisure.
func (t TripType) Phrasing() TripType {
	if t.Known() {
		return t
	}
	return TripLeisure
}

type Voice string

const (
	VoiceProfessional Voice = "professional"
	VoiceFriendly     Voice = "friendly"
	VoiceEnthusiastic Voice = "enthusiastic"
	VoiceDetailed     Voice = "detailed"
)

const (
	DefaultNights = 3
	DefaultVoice  = VoiceFriendly
	MinRating     = 1
	MaxRating     = 5
)

// GenerationRequest is the caller-supplied input for one review. It carries no size
// limits: any number of highlights and any name length generate normally.
type GenerationRequest struct {
	HotelName  string      `json:"hotel_name" validate:"required"`
	PropertyID *int64      `json:"property_id,omitempty"`
	Rating     int         `json:"rating" validate:"gte=1,lte=5"`
	TripType   TripType    `json:"trip_type,omitempty"`
	Highlights []Highlight `json:"highlights,omitempty"`
	Nights     int         `json:"nights,omitempty"`
	Voice      Voice       `json:"voice,omitempty"`
	Language   string      `json:"language,omitempty"`
}

// WithDefaults fills nights and voice and trims the hotel name.
// It never touches Rating, which is validated as given.
func (r GenerationRequest) WithDefaults() GenerationRequest {
	out := r
	out.HotelName = strings.TrimSpace(r.HotelName)
	if out.Nights <= 0 {
		out.Nights = DefaultNights
	}
	out.Voice = Voice(strings.ToLower(strings.TrimSpace(string(r.Voice))))
	if out.Voice == "" {
		out.Voice = DefaultVoice
	}
	out.TripType = TripType(strings.ToLower(strings.TrimSpace(string(r.TripType))))
	if len(r.Highlights) > 0 {
		out.Highlights = append([]Highlight(nil), r.Highlights...)
	}
	return out
}

// NarrativeArc is the emotional trajectory derived from the rating.
type NarrativeArc string

const (
	ArcHeroic        NarrativeArc = "heroic"
	ArcSatisfying    NarrativeArc = "satisfying"
	ArcBalanced      NarrativeArc = "balanced"
	ArcDisappointing NarrativeArc = "disappointing"
	ArcTragic        NarrativeArc = "tragic"
)

// ArcFor maps a rating to its arc. Out-of-range ratings clamp to the nearest end.
func ArcFor(rating int) NarrativeArc {
	switch {
	case rating >= 5:
		return ArcHeroic
	case rating == 4:
		return ArcSatisfying
	case rating == 3:
		return ArcBalanced
	case rating == 2:
		return ArcDisappointing
	default:
		return ArcTragic
	}
}

// HasClimax is false only for the balanced arc.
func (a NarrativeArc) HasClimax() bool { return a != ArcBalanced }
