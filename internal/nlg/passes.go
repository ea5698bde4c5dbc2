package nlg

import (
	"strings"

	"stay_reviews/internal/domain"
	"stay_reviews/internal/nlg/rewrite"
	"stay_reviews/internal/nlg/vocab"
)

// Nuance chains run after the voice pass and before polish. They only strengthen
// existing framing; they never add sentences. A word already carrying an
// intensifier or a hedge is left alone.
var (
	positiveNuance = guarded(
		rewrite.Word("pleasant", "delightful"),
		rewrite.Word("liked", "loved"),
		rewrite.Word("enjoyed", "thoroughly enjoyed"),
		rewrite.Word("helpful", "genuinely helpful"),
		rewrite.Word("made a real difference", "made a wonderful difference"),
	)
	negativeNuance = guarded(
		rewrite.Word("disappointing", "genuinely disappointing"),
		rewrite.Word("problems", "frustrating problems"),
		rewrite.Word("could have been better", "should have been much better"),
		rewrite.Word("inconsistent", "frustratingly inconsistent"),
	)
)

// nuanceModifiers are the default intensifier and hedge banks plus the adverbs the
// nuance rules themselves insert.
func nuanceModifiers() []string {
	words := vocab.New()
	out := append(words.Words(vocab.AxisIntensifier), words.Words(vocab.AxisHedge)...)
	return append(out, "genuinely", "thoroughly", "frustratingly")
}

func guarded(rules ...rewrite.Rule) rewrite.Chain {
	mods := nuanceModifiers()
	out := make(rewrite.Chain, len(rules))
	for i, r := range rules {
		out[i] = r.UnlessAfter(mods...)
	}
	return out
}

func nuanceFor(rating int) rewrite.Chain {
	switch {
	case rating >= 4:
		return positiveNuance
	case rating <= 2:
		return negativeNuance
	default:
		return nil
	}
}

// fallbackSentences are indexed by rating-1. Invalid ratings use the middle one.
var fallbackSentences = [domain.MaxRating]string{
	"We stayed at {hotel} on a {trip} trip, and unfortunately it fell well short of what we expected.",
	"We stayed at {hotel} on a {trip} trip, and it was a somewhat disappointing experience overall.",
	"We stayed at {hotel} on a {trip} trip, and it was an average stay with both good and bad points.",
	"We stayed at {hotel} on a {trip} trip and had a very good experience overall.",
	"We stayed at {hotel} on a {trip} trip and had an excellent experience from start to finish.",
}

var tripWords = map[domain.TripType]string{
	domain.TripLeisure:  "leisure",
	domain.TripBusiness: "business",
	domain.TripFamily:   "family",
	domain.TripSolo:     "solo",
	domain.TripCouple:   "couples",
}

// FallbackText is the deterministic single-sentence review. It depends only on its
// arguments.
func FallbackText(hotel string, rating int, trip domain.TripType) string {
	hotel = strings.TrimSpace(hotel)
	if hotel == "" {
		hotel = "this hotel"
	}
	idx := 2
	if rating >= domain.MinRating && rating <= domain.MaxRating {
		idx = rating - 1
	}
	return strings.NewReplacer("{hotel}", hotel, "{trip}", tripWords[trip.Phrasing()]).Replace(fallbackSentences[idx])
}
