package domain_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"stay_reviews/internal/domain"
)

func TestArcFor(t *testing.T) {
	want := map[int]domain.NarrativeArc{
		5: domain.ArcHeroic, 4: domain.ArcSatisfying, 3: domain.ArcBalanced,
		2: domain.ArcDisappointing, 1: domain.ArcTragic,
	}
	for r, arc := range want {
		if got := domain.ArcFor(r); got != arc {
			t.Errorf("ArcFor(%d)=%s want %s", r, got, arc)
		}
		if got := arc.HasClimax(); got == (r == 3) {
			t.Errorf("arc %s HasClimax=%v", arc, got)
		}
	}
}

func TestWithDefaults(t *testing.T) {
	r := domain.GenerationRequest{HotelName: "  Inn  ", Rating: 4, Voice: " Detailed ", TripType: "BUSINESS"}.WithDefaults()
	if r.HotelName != "Inn" || r.Nights != domain.DefaultNights || r.Voice != domain.VoiceDetailed || r.TripType != domain.TripBusiness {
		t.Fatalf("unexpected defaults: %+v", r)
	}
	if d := (domain.GenerationRequest{}).WithDefaults(); d.Voice != domain.DefaultVoice {
		t.Fatalf("voice default=%s", d.Voice)
	}
}

func TestTripType_UnknownPhrasesAsLeisure(t *testing.T) {
	if got := domain.TripType("honeymoon").Phrasing(); got != domain.TripLeisure {
		t.Fatalf("got %s", got)
	}
	if got := domain.TripFamily.Phrasing(); got != domain.TripFamily {
		t.Fatalf("got %s", got)
	}
}

func manyHighlights(n int) []domain.Highlight {
	out := make([]domain.Highlight, n)
	for i := range out {
		out[i] = domain.Highlight{Text: fmt.Sprintf("feature %d", i)}
	}
	return out
}

func TestValidateRequest(t *testing.T) {
	cases := []struct {
		name string
		req  domain.GenerationRequest
		want error
	}{
		{"ok", domain.GenerationRequest{HotelName: "H", Rating: 3}, nil},
		{"rating low", domain.GenerationRequest{HotelName: "H", Rating: 0}, domain.ErrRatingOutOfRange},
		{"rating high", domain.GenerationRequest{HotelName: "H", Rating: 6}, domain.ErrRatingOutOfRange},
		{"no name", domain.GenerationRequest{Rating: 3}, domain.ErrHotelNameRequired},
		{"long name", domain.GenerationRequest{HotelName: strings.Repeat("h", 201), Rating: 3}, nil},
		{"many highlights", domain.GenerationRequest{HotelName: "H", Rating: 4, Highlights: manyHighlights(26)}, nil},
		{"long voice", domain.GenerationRequest{HotelName: "H", Rating: 4, Voice: domain.Voice(strings.Repeat("v", 65))}, nil},
	}
	for _, c := range cases {
		err := domain.ValidateRequest(c.req)
		if c.want == nil {
			if err != nil {
				t.Errorf("%s: unexpected %v", c.name, err)
			}
			continue
		}
		var ve *domain.ValidationError
		if !errors.Is(err, c.want) || !errors.As(err, &ve) {
			t.Errorf("%s: got %v want %v", c.name, err, c.want)
		}
	}
}

func TestInferCategory(t *testing.T) {
	cases := map[string]domain.Category{
		"Spotless bathroom":   domain.CategoryCleanliness,
		"Comfy bed":           domain.CategoryComfort,
		"Friendly staff":      domain.CategoryService,
		"Breakfast buffet":    domain.CategoryFood,
		"Great location":      domain.CategoryLocation,
		"Rooftop pool":        domain.CategoryAmenities,
		"Fast Wi-Fi":          domain.CategoryWifi,
		"Great value":         domain.CategoryValue,
		"Lovely architecture": domain.CategoryGeneral,
	}
	for text, want := range cases {
		if got := domain.InferCategory(text); got != want {
			t.Errorf("InferCategory(%q)=%s want %s", text, got, want)
		}
	}
}

func TestHighlight_UnmarshalStringOrObject(t *testing.T) {
	var hs []domain.Highlight
	if err := json.Unmarshal([]byte(`["quiet room", {"text":"Pool","category":"AMENITIES"}, "  "]`), &hs); err != nil {
		t.Fatal(err)
	}
	got := domain.NormalizeHighlights(hs)
	if len(got) != 2 {
		t.Fatalf("got %+v", got)
	}
	if got[0].Text != "quiet room" || got[0].Category != domain.CategoryComfort {
		t.Fatalf("first=%+v", got[0])
	}
	if got[1].Category != domain.CategoryAmenities {
		t.Fatalf("second=%+v", got[1])
	}
}
