package domain

import (
	"bytes"
	"strings"

	json "github.com/goccy/go-json"
)

type Category string

const (
	CategoryCleanliness Category = "cleanliness"
	CategoryComfort     Category = "comfort"
	CategoryService     Category = "service"
	CategoryFood        Category = "food"
	CategoryLocation    Category = "location"
	CategoryAmenities   Category = "amenities"
	CategoryWifi        Category = "wifi"
	CategoryValue       Category = "value"
	CategoryGeneral     Category = "general"
)

// Categories lists every category, general last.
var Categories = []Category{
	CategoryCleanliness, CategoryComfort, CategoryService, CategoryFood,
	CategoryLocation, CategoryAmenities, CategoryWifi, CategoryValue, CategoryGeneral,
}

// Known reports whether c is one of the nine categories.
func (c Category) Known() bool {
	for _, k := range Categories {
		if c == k {
			return true
		}
	}
	return false
}

// categoryKeywords is scanned in slice order; the first category with a matching
// keyword wins.
var categoryKeywords = []struct {
	cat      Category
	keywords []string
}{
	{CategoryCleanliness, []string{"clean", "spotless", "tidy", "hygien", "fresh sheets", "housekeeping", "dirty", "dust"}},
	{CategoryComfort, []string{"comfort", "bed", "pillow", "quiet", "sleep", "cozy", "cosy", "mattress", "spacious"}},
	{CategoryService, []string{"staff", "service", "friendly", "helpful", "reception", "concierge", "welcome", "check-in", "front desk"}},
	{CategoryFood, []string{"breakfast", "food", "restaurant", "dinner", "meal", "coffee", "bar", "buffet", "lunch"}},
	{CategoryLocation, []string{"location", "central", "walk", "nearby", "view", "beach", "downtown", "transport", "close to"}},
	{CategoryAmenities, []string{"pool", "gym", "spa", "parking", "amenit", "facilit", "sauna", "fitness", "balcony"}},
	{CategoryWifi, []string{"wifi", "wi-fi", "internet", "connection", "signal"}},
	{CategoryValue, []string{"value", "price", "cheap", "afford", "worth", "deal", "budget", "cost"}},
}

// InferCategory returns the first category whose keyword set matches text, or general.
func InferCategory(text string) Category {
	low := strings.ToLower(text)
	for _, ck := range categoryKeywords {
		for _, kw := range ck.keywords {
			if strings.Contains(low, kw) {
				return ck.cat
			}
		}
	}
	return CategoryGeneral
}

// Highlight is a guest-selected aspect of the stay. In JSON it may be a bare string
// or an object with text and an optional category.
type Highlight struct {
	Text     string   `json:"text"`
	Category Category `json:"category,omitempty"`
}

func (h *Highlight) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*h = Highlight{Text: s}
		return nil
	}
	type plain Highlight
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*h = Highlight(p)
	return nil
}

// NormalizeHighlights drops blank entries, lower-cases categories and infers missing or
// unknown categories from the text.
func NormalizeHighlights(in []Highlight) []Highlight {
	out := make([]Highlight, 0, len(in))
	for _, h := range in {
		text := strings.Join(strings.Fields(h.Text), " ")
		if text == "" {
			continue
		}
		cat := Category(strings.ToLower(strings.TrimSpace(string(h.Category))))
		if !cat.Known() {
			cat = InferCategory(text)
		}
		out = append(out, Highlight{Text: text, Category: cat})
	}
	return out
}
