// Package narrative builds the five-part review skeleton: hook, setup, development,
// climax and resolution.
package narrative

import (
	"errors"
	"math/rand/v2"
	"strings"

	"stay_reviews/internal/domain"
	"stay_reviews/internal/nlg/rewrite"
	"stay_reviews/internal/nlg/transition"
	"stay_reviews/internal/nlg/vocab"
	"stay_reviews/internal/nlg/voice"
)

const (
	BeatHook        = "hook"
	BeatSetup       = "setup"
	BeatDevelopment = "development"
	BeatClimax      = "climax"
	BeatResolution  = "resolution"
)

var ErrNilAllocator = errors.New("narrative: allocator is required")

// Input is the normalized request the composer works from. HotelRef is written
// wherever the hotel name belongs.
type Input struct {
	HotelRef   string
	Rating     int
	TripType   domain.TripType
	Highlights []domain.Highlight
	Nights     int
}

type Point struct {
	Category   domain.Category
	Transition string
	Sentence   string
}

// Narrative is the composed skeleton before any tone pass.
type Narrative struct {
	Arc            domain.NarrativeArc
	Hook           string
	Setup          string
	Points         []Point
	Generic        string
	Climax         string
	Reflection     string
	Recommendation string
}

// Paragraphs returns intro, body and closing paragraphs.
func (n Narrative) Paragraphs() []string {
	intro := n.Hook + " " + n.Setup

	body := make([]string, 0, len(n.Points)+2)
	if len(n.Points) == 0 {
		body = append(body, n.Generic)
	}
	for _, p := range n.Points {
		body = append(body, p.Sentence)
	}
	if n.Climax != "" {
		body = append(body, n.Climax)
	}

	closing := n.Reflection + " " + n.Recommendation
	return []string{intro, strings.Join(body, " "), closing}
}

func (n Narrative) Text() string { return strings.Join(n.Paragraphs(), "\n\n") }

func (n Narrative) Beats() []string {
	beats := []string{BeatHook, BeatSetup, BeatDevelopment}
	if n.Climax != "" {
		beats = append(beats, BeatClimax)
	}
	return append(beats, BeatResolution)
}

func (n Narrative) Transitions() []string {
	out := make([]string, 0, len(n.Points))
	for _, p := range n.Points {
		out = append(out, p.Transition)
	}
	return out
}

type Composer struct {
	words *vocab.Store
}

func NewComposer(words *vocab.Store) *Composer {
	if words == nil {
		words = vocab.New()
	}
	return &Composer{words: words}
}

// Compose builds every part in order. alloc must belong to this call only.
func (c *Composer) Compose(rng *rand.Rand, in Input, profile voice.Profile, alloc *transition.Allocator) (Narrative, error) {
	if alloc == nil {
		return Narrative{}, ErrNilAllocator
	}
	rec, err := profile.Recommendation(in.Rating)
	if err != nil {
		return Narrative{}, err
	}
	arc := domain.ArcFor(in.Rating)
	n := Narrative{Arc: arc}
	n.Hook = c.hook(rng, arc, in.TripType)
	n.Setup = c.setup(in)
	if len(in.Highlights) == 0 {
		n.Generic = c.generic(rng, in.Rating, profile)
	} else {
		n.Points = c.development(rng, in, profile, alloc)
	}
	if arc.HasClimax() {
		n.Climax = c.climax(rng, in.Rating)
	}
	n.Reflection = c.reflection(rng, in, profile)
	n.Recommendation = rec
	return n, nil
}

// EmotionTier picks the emotion bank for a rating.
func EmotionTier(rating int) string {
	switch {
	case rating >= 5:
		return vocab.TierDelight
	case rating >= 4:
		return vocab.TierSatisfaction
	case rating >= 3:
		return vocab.TierNeutral
	default:
		return vocab.TierDisappointment
	}
}

// SentimentFor maps a rating to the descriptor sentiment.
func SentimentFor(rating int) vocab.Sentiment {
	switch {
	case rating >= 4:
		return vocab.Positive
	case rating == 3:
		return vocab.Neutral
	default:
		return vocab.Negative
	}
}

func (c *Composer) hook(rng *rand.Rand, arc domain.NarrativeArc, trip domain.TripType) string {
	pool := hooks[arc]
	h := pool[rng.IntN(len(pool))]
	// context clause on roughly three hooks in five
	if rng.IntN(5) < 3 {
		return tripContext[trip.Phrasing()] + " " + rewrite.LowerFirst(h)
	}
	return h
}

func (c *Composer) setup(in Input) string {
	return strings.NewReplacer(
		"{nights}", nightsPhrase(in.Nights),
		"{hotel}", in.HotelRef,
	).Replace(setups[clampRating(in.Rating)-1])
}

func (c *Composer) development(rng *rand.Rand, in Input, profile voice.Profile, alloc *transition.Allocator) []Point {
	total := len(in.Highlights)
	sent := SentimentFor(in.Rating)
	order := rng.Perm(len(pointPatterns))
	points := make([]Point, 0, total)
	for i, h := range in.Highlights {
		tr := alloc.Next(rng, i, total)
		topic := topicFor(h)
		intens, desc := c.qualified(rng, profile, h.Category, sent)
		clause := strings.NewReplacer(
			"{topic}", topic,
			"{be}", beFor(topic),
			"{intens}", intens,
			"{desc}", desc,
		).Replace(pointPatterns[order[i%len(order)]])
		sentence := tr + " " + clause + c.personalTouch(rng, in.Rating, profile) + "."
		points = append(points, Point{Category: h.Category, Transition: tr, Sentence: sentence})
	}
	return points
}

func (c *Composer) personalTouch(rng *rand.Rand, rating int, profile voice.Profile) string {
	if rating < 4 {
		cr := criticism[rng.IntN(len(criticism))]
		return strings.ReplaceAll(cr.tmpl, "{hedge}", c.words.Hedge(rng, cr.kind))
	}
	if rng.IntN(2) == 0 {
		return parentheticals[rng.IntN(len(parentheticals))]
	}
	if rng.Float64() < profile.HedgeFrequency {
		return strings.ReplaceAll(hedgedPraise, "{hedge}", c.words.Hedge(rng, vocab.HedgePersonal))
	}
	return praise[rng.IntN(len(praise))]
}

func (c *Composer) generic(rng *rand.Rand, rating int, profile voice.Profile) string {
	tmpl, temporal := genericNegative, vocab.TemporalDuring
	switch {
	case rating >= 4:
		tmpl, temporal = genericPositive, vocab.TemporalArrival
	case rating == 3:
		tmpl = genericNeutral
	}
	intens, desc := c.qualified(rng, profile, domain.CategoryGeneral, SentimentFor(rating))
	return strings.NewReplacer(
		"{temporal}", rewrite.UpperFirst(c.words.Temporal(rng, temporal)),
		"{intens}", intens,
		"{desc}", desc,
	).Replace(tmpl)
}

// qualified draws a descriptor and the intensifier that goes before it. Absolute
// descriptors get none; otherwise the intensifier carries its trailing space.
func (c *Composer) qualified(rng *rand.Rand, profile voice.Profile, cat domain.Category, sent vocab.Sentiment) (intens, desc string) {
	desc = c.words.Descriptor(rng, cat, sent)
	if vocab.Absolute(desc) {
		return "", desc
	}
	return c.words.Intensifier(rng, profile.IntensifierStrength) + " ", desc
}

func (c *Composer) climax(rng *rand.Rand, rating int) string {
	if rating >= 4 {
		return strings.NewReplacer(
			"{moment}", positiveMoments[rng.IntN(len(positiveMoments))],
			"{emotion}", c.words.Emotion(rng, EmotionTier(rating)),
		).Replace(climaxPositive)
	}
	return strings.ReplaceAll(climaxRedemptive, "{moment}", redemptiveMoments[rng.IntN(len(redemptiveMoments))])
}

func (c *Composer) reflection(rng *rand.Rand, in Input, profile voice.Profile) string {
	switch {
	case in.Rating >= 4:
		intens, desc := c.qualified(rng, profile, domain.CategoryGeneral, vocab.Positive)
		return strings.NewReplacer(
			"{summary}", summarize(in.Highlights),
			"{intens}", intens,
			"{desc}", desc,
			"{emotion}", c.words.Emotion(rng, EmotionTier(in.Rating)),
		).Replace(reflectionPositive)
	case in.Rating == 3:
		return strings.ReplaceAll(reflectionNeutral, "{desc}", c.words.Descriptor(rng, domain.CategoryGeneral, vocab.Neutral))
	default:
		topic := categoryNouns[domain.CategoryLocation]
		if len(in.Highlights) > 0 {
			topic = topicFor(in.Highlights[0])
		}
		return strings.NewReplacer(
			"{topic}", topic,
			"{emotion}", c.words.Emotion(rng, EmotionTier(in.Rating)),
		).Replace(reflectionNegative)
	}
}

// topicFor strips leading evaluative words from a highlight, falling back to the
// category noun when nothing is left.
func topicFor(h domain.Highlight) string {
	words := strings.Fields(strings.ToLower(h.Text))
	for len(words) > 0 {
		if _, ok := evaluative[strings.Trim(words[0], ",.!")]; !ok {
			break
		}
		words = words[1:]
	}
	if len(words) == 0 || len(words) > 4 {
		if noun, ok := categoryNouns[h.Category]; ok {
			return noun
		}
		return categoryNouns[domain.CategoryGeneral]
	}
	return strings.Trim(strings.Join(words, " "), ",.!?;:")
}

func beFor(topic string) string {
	last := topic
	if i := strings.LastIndexByte(topic, ' '); i >= 0 {
		last = topic[i+1:]
	}
	if strings.HasSuffix(last, "s") && !strings.HasSuffix(last, "ss") {
		return "were"
	}
	return "was"
}

func summarize(hs []domain.Highlight) string {
	if len(hs) == 0 {
		return "the whole experience"
	}
	seen := map[string]struct{}{}
	var topics []string
	for _, h := range hs {
		t := "the " + topicFor(h)
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		topics = append(topics, t)
		if len(topics) == 3 {
			break
		}
	}
	switch len(topics) {
	case 1:
		return topics[0]
	case 2:
		return topics[0] + " and " + topics[1]
	default:
		return strings.Join(topics[:len(topics)-1], ", ") + " and " + topics[len(topics)-1]
	}
}

var numberWords = []string{"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine", "ten"}

func nightsPhrase(n int) string {
	if n <= 0 {
		n = domain.DefaultNights
	}
	if n == 1 {
		return "one night"
	}
	if n < len(numberWords) {
		return numberWords[n] + " nights"
	}
	return itoa(n) + " nights"
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var b [20]byte
	i := len(b)
	for n > 0 {
		i--
		b[i] = byte('0' + n%10)
		n /= 10
	}
	return string(b[i:])
}

func clampRating(r int) int {
	if r < domain.MinRating {
		return domain.MinRating
	}
	if r > domain.MaxRating {
		return domain.MaxRating
	}
	return r
}
