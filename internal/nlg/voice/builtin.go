package voice

import (
	"stay_reviews/internal/domain"
	"stay_reviews/internal/nlg/rewrite"
	"stay_reviews/internal/nlg/vocab"
)

func builtinProfiles() []Profile {
	// upgrades skip words that already carry an intensifier ("quite okay")
	intensifiers := vocab.New().Words(vocab.AxisIntensifier)
	return []Profile{
		{
			Name:                domain.VoiceProfessional,
			Characteristics:     []string{"measured", "precise", "courteous"},
			IntensifierStrength: vocab.StrengthMild,
			HedgeFrequency:      0.2,
			Rules: rewrite.Chain{
				rewrite.MustCompile(`!`, "."),
				rewrite.Word("amazing", "excellent"),
				rewrite.Word("awesome", "excellent"),
				rewrite.Word("incredible", "excellent"),
				rewrite.Word("terrible", "below standard"),
				rewrite.Word("awful", "disappointing"),
				rewrite.Word("horrible", "unsatisfactory"),
				rewrite.Word("dirty", "not as clean as expected"),
				rewrite.Word("rude", "less courteous than expected"),
				rewrite.Word("grubby", "in need of attention"),
				rewrite.Word("painfully slow", "slow"),
				rewrite.Word("dismissive", "inattentive"),
			},
			Recommendations: [domain.MaxRating]string{
				"I cannot recommend this property to business or leisure travelers at this time.",
				"I would advise other travelers to consider alternative accommodation options.",
				"This property is adequate for a short stay, though travelers with higher expectations may wish to look elsewhere.",
				"I would recommend this property to travelers seeking reliable, well-run accommodation.",
				"I recommend this property without reservation and would gladly stay here again.",
			},
		},
		{
			Name:                domain.VoiceFriendly,
			Characteristics:     []string{"warm", "conversational", "relaxed"},
			IntensifierStrength: vocab.StrengthModerate,
			HedgeFrequency:      0.4,
			Recommendations: [domain.MaxRating]string{
				"Honestly, I'd steer clear and book somewhere else.",
				"To be honest, I'd probably look at other options next time.",
				"It's fine for a night or two, but I'd shop around first.",
				"We'd happily stay here again and would recommend it to friends.",
				"We can't wait to come back, and we'd recommend it to anyone!",
			},
		},
		{
			Name:                domain.VoiceEnthusiastic,
			Characteristics:     []string{"energetic", "expressive", "upbeat"},
			IntensifierStrength: vocab.StrengthStrong,
			HedgeFrequency:      0.1,
			Rules: rewrite.Chain{
				rewrite.MustCompile(`\.(\s|$)`, "!$1"),
				rewrite.Word("good", "fantastic").UnlessAfter(intensifiers...),
				rewrite.Word("okay", "pretty great").UnlessAfter(intensifiers...),
			},
			Recommendations: [domain.MaxRating]string{
				"Save yourself the trouble and book elsewhere!",
				"Sadly, I just can't get excited about recommending this one!",
				"It'll do if you're in a pinch, just don't expect fireworks!",
				"Definitely book this place, you won't regret it!",
				"Book it now, you are going to love it!",
			},
		},
		{
			Name:                domain.VoiceDetailed,
			Characteristics:     []string{"thorough", "specific", "analytical"},
			IntensifierStrength: vocab.StrengthModerate,
			HedgeFrequency:      0.5,
			Rules: rewrite.Chain{
				rewrite.Word("room", "accommodation"),
				rewrite.Word("rooms", "guest rooms"),
				rewrite.Word("nice", "well-appointed"),
				rewrite.Word("place", "property"),
				rewrite.Word("food", "cuisine"),
				rewrite.Word("bed", "bedding"),
			},
			Recommendations: [domain.MaxRating]string{
				"Taking into account the condition of the room, the service and the overall value, I cannot recommend this hotel.",
				"Weighing the issues we encountered against the price, I would suggest comparing other hotels in the area before booking.",
				"On balance, considering location, comfort and price, this hotel is a reasonable but unremarkable choice.",
				"Considering the comfort of the room, the quality of service and the fair price, I would recommend this hotel.",
				"Considering every aspect of the stay, from the room to the service and the location, I would recommend this hotel wholeheartedly.",
			},
		},
	}
}
