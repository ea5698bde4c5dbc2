package vocab

import (
	"strings"

	"stay_reviews/internal/domain"
)

// absolutes are descriptors that read badly after an intensifier: superlatives and
// phrases that already carry their own degree.
var absolutes = map[string]struct{}{
	"perfect": {}, "ideal": {}, "unbeatable": {}, "outstanding": {}, "excellent": {},
	"immaculate": {}, "spotless": {}, "pristine": {}, "seamless": {}, "wonderful": {},
	"sparkling clean": {}, "beautifully presented": {}, "painfully slow": {},
	"reasonably clean": {}, "tidy enough": {}, "comfortable enough": {},
	"patchy at times": {},
}

// Absolute reports whether a descriptor should appear without an intensifier.
func Absolute(desc string) bool {
	_, ok := absolutes[strings.ToLower(strings.TrimSpace(desc))]
	return ok
}

func defaultBanks() map[Axis]map[string][]string {
	desc := map[string][]string{}
	add := func(c domain.Category, pos, neu, neg []string) {
		desc[DescriptorKey(c, Positive)] = pos
		desc[DescriptorKey(c, Neutral)] = neu
		desc[DescriptorKey(c, Negative)] = neg
	}
	add(domain.CategoryCleanliness,
		[]string{"spotless", "immaculate", "sparkling clean", "pristine"},
		[]string{"reasonably clean", "tidy enough", "acceptable"},
		[]string{"grubby", "poorly cleaned", "dusty"})
	add(domain.CategoryComfort,
		[]string{"comfortable", "cozy", "restful", "plush"},
		[]string{"comfortable enough", "decent", "adequate"},
		[]string{"uncomfortable", "lumpy", "cramped"})
	add(domain.CategoryService,
		[]string{"attentive", "welcoming", "helpful", "warm"},
		[]string{"polite", "efficient", "professional"},
		[]string{"indifferent", "slow", "dismissive"})
	add(domain.CategoryFood,
		[]string{"delicious", "fresh", "beautifully presented", "flavorful"},
		[]string{"decent", "standard", "fine"},
		[]string{"bland", "overpriced", "disappointing"})
	add(domain.CategoryLocation,
		[]string{"perfect", "ideal", "unbeatable", "convenient"},
		[]string{"reasonable", "workable", "okay"},
		[]string{"inconvenient", "remote", "noisy"})
	add(domain.CategoryAmenities,
		[]string{"excellent", "well maintained", "impressive", "thoughtful"},
		[]string{"basic", "functional", "standard"},
		[]string{"outdated", "limited", "poorly maintained"})
	add(domain.CategoryWifi,
		[]string{"fast", "reliable", "seamless"},
		[]string{"usable", "adequate", "patchy at times"},
		[]string{"unreliable", "painfully slow", "spotty"})
	add(domain.CategoryValue,
		[]string{"outstanding", "excellent", "unbeatable"},
		[]string{"fair", "reasonable", "acceptable"},
		[]string{"poor", "disappointing", "questionable"})
	add(domain.CategoryGeneral,
		[]string{"wonderful", "lovely", "memorable"},
		[]string{"okay", "fine", "decent"},
		[]string{"lacking", "underwhelming", "mediocre"})

	return map[Axis]map[string][]string{
		AxisEmotion: {
			TierDelight:        {"delighted", "thrilled", "overjoyed", "elated"},
			TierSatisfaction:   {"pleased", "satisfied", "happy", "content"},
			TierNeutral:        {"fine", "indifferent", "unmoved"},
			TierDisappointment: {"disappointed", "frustrated", "underwhelmed", "let down"},
		},
		AxisDescriptor: desc,
		AxisIntensifier: {
			StrengthMild:     {"quite", "fairly", "rather"},
			StrengthModerate: {"really", "very", "truly"},
			StrengthStrong:   {"absolutely", "exceptionally", "remarkably"},
		},
		AxisHedge: {
			HedgeUncertainty: {"I think", "perhaps", "it seems to me"},
			HedgeSoftening:   {"a little", "slightly", "somewhat"},
			HedgePersonal:    {"for us", "personally", "in my experience"},
		},
		AxisTemporal: {
			TemporalArrival:   {"from the moment we arrived", "as soon as we checked in", "right from check-in"},
			TemporalDuring:    {"throughout our stay", "during our visit", "day after day"},
			TemporalDeparture: {"by the time we checked out", "on our last morning", "as we were leaving"},
		},
	}
}
