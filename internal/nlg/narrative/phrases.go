package narrative

import (
	"stay_reviews/internal/domain"
	"stay_reviews/internal/nlg/vocab"
)

var hooks = map[domain.NarrativeArc][]string{
	domain.ArcHeroic: {
		"This was hands down one of the best hotel stays we have ever had.",
		"I still can't stop thinking about this place.",
		"Every so often a hotel completely exceeds expectations, and this was one of those times.",
	},
	domain.ArcSatisfying: {
		"We had a really pleasant stay and would happily come back.",
		"This hotel got almost everything right.",
		"Overall this was a very good experience with only minor quibbles.",
	},
	domain.ArcBalanced: {
		"Our stay was a mixed bag, with some good points and some not so good.",
		"This hotel was fine, but nothing particularly memorable.",
		"There is a lot to like here, and a few things that could be better.",
	},
	domain.ArcDisappointing: {
		"Unfortunately this stay did not live up to our expectations.",
		"I wanted to like this hotel more than I did.",
		"We left feeling a bit let down by this one.",
	},
	domain.ArcTragic: {
		"I rarely write negative reviews, but this stay left me no choice.",
		"Sadly this was one of the most frustrating hotel stays we have had.",
		"I really can't recommend this hotel based on our stay.",
	},
}

var tripContext = map[domain.TripType]string{
	domain.TripLeisure:  "On a relaxing getaway,",
	domain.TripBusiness: "As business travelers,",
	domain.TripFamily:   "Traveling with the kids,",
	domain.TripSolo:     "Traveling solo,",
	domain.TripCouple:   "On a trip for two,",
}

// setups are indexed by rating-1.
var setups = [domain.MaxRating]string{
	"We unfortunately booked {nights} at {hotel}, and we regretted it almost immediately.",
	"We unfortunately booked {nights} at {hotel} expecting a lot more than we got.",
	"We spent {nights} at {hotel} without any particular expectations either way.",
	"We booked {nights} at {hotel} based on the excellent reviews and a recommendation from a friend.",
	"We booked {nights} at {hotel} based on the excellent reviews, and it lived up to every one of them.",
}

// pointPatterns are the syntactic templates for a development sentence.
var pointPatterns = []string{
	"the {topic} {be} {intens}{desc}",
	"we found the {topic} {intens}{desc}",
	"I have to say the {topic} felt {desc}",
	"when it came to the {topic}, everything was {intens}{desc}",
	"the {topic} turned out to be {intens}{desc}",
	"our experience with the {topic} was {desc}",
}

var parentheticals = []string{
	" (especially welcome after a long day of exploring)",
	" (something we really appreciated)",
	" (exactly what we needed)",
	" (a particularly thoughtful touch)",
}

var praise = []string{
	", which made a real difference",
	", and we noticed it every single day",
	", which set the tone for the whole trip",
}

// hedgedPraise takes a personal hedge.
const hedgedPraise = ", which {hedge} made all the difference"

// criticism templates take a hedge of the kind given.
var criticism = []struct {
	kind string
	tmpl string
}{
	{vocab.HedgeSoftening, ", though {hedge} more attention to detail would help"},
	{vocab.HedgeUncertainty, ", although {hedge} it could have been better"},
	{vocab.HedgeSoftening, ", but it was {hedge} inconsistent from day to day"},
}

var positiveMoments = []string{
	"the staff surprised us with a handwritten note and a small treat in our room",
	"we were upgraded to a room with a stunning view",
	"the front desk went out of their way to book us a table at a local favorite",
	"housekeeping remembered exactly how we liked the room set up",
}

var redemptiveMoments = []string{
	"a member of the housekeeping team went out of their way to help us",
	"the coffee at breakfast was genuinely good",
	"the night manager apologized sincerely when we raised our concerns",
	"the view from our window was lovely",
}

const (
	climaxPositive   = "The moment that really stood out was when {moment}, and honestly we were {emotion}."
	climaxRedemptive = "To be fair, there was one bright spot: {moment}, which we did appreciate even if it could not make up for the rest."

	genericPositive = "{temporal}, everything felt {intens}{desc}, and the team clearly cared about getting the details right."
	genericNeutral  = "{temporal}, things were {desc} overall, although a few details could have been handled better."
	genericNegative = "{temporal}, too much of the stay felt {desc}, and small problems kept adding up."

	reflectionPositive = "Looking back, {summary} made this stay {intens}{desc}, and we left feeling {emotion}."
	reflectionNeutral  = "Looking back, it was a {desc} stay, neither great nor bad."
	reflectionNegative = "If I had to pick one redeeming aspect, it would be the {topic}, but overall we were {emotion}."
)

// categoryNouns name a category when the highlight text has nothing left to use.
var categoryNouns = map[domain.Category]string{
	domain.CategoryCleanliness: "room",
	domain.CategoryComfort:     "bed",
	domain.CategoryService:     "staff",
	domain.CategoryFood:        "breakfast",
	domain.CategoryLocation:    "location",
	domain.CategoryAmenities:   "facilities",
	domain.CategoryWifi:        "Wi-Fi",
	domain.CategoryValue:       "price",
	domain.CategoryGeneral:     "stay",
}

// evaluative words stripped from the front of a highlight to get its topic
var evaluative = map[string]struct{}{
	"great": {}, "good": {}, "nice": {}, "amazing": {}, "excellent": {}, "clean": {},
	"friendly": {}, "fast": {}, "comfortable": {}, "comfy": {}, "delicious": {},
	"helpful": {}, "lovely": {}, "beautiful": {}, "spacious": {}, "quiet": {},
	"perfect": {}, "wonderful": {}, "fantastic": {}, "free": {}, "very": {}, "super": {},
	"really": {}, "central": {}, "convenient": {}, "modern": {}, "big": {}, "huge": {},
	"cozy": {}, "tasty": {}, "awesome": {}, "incredible": {}, "stunning": {},
	"reliable": {}, "spotless": {}, "affordable": {}, "cheap": {}, "the": {}, "a": {},
	"bad": {}, "poor": {}, "slow": {}, "dirty": {}, "rude": {}, "noisy": {},
}
