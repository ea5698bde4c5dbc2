// Package nlg turns a GenerationRequest into a finished review. Generate is safe for
// concurrent use: every call owns its random source and transition allocator.
package nlg

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"stay_reviews/internal/domain"
	"stay_reviews/internal/nlg/narrative"
	"stay_reviews/internal/nlg/rewrite"
	"stay_reviews/internal/nlg/scoring"
	"stay_reviews/internal/nlg/transition"
	"stay_reviews/internal/nlg/vocab"
	"stay_reviews/internal/nlg/voice"
)

// hotelToken stands in for the hotel name until every rewrite pass has run.
const hotelToken = "{hotel_name}"

const seedMix = 0x9e3779b97f4a7c15

type Synthesizer struct {
	words    *vocab.Store
	voices   *voice.Registry
	pool     *transition.Pool
	composer *narrative.Composer
	scorer   *scoring.Scorer
	log      zerolog.Logger
	now      func() time.Time

	seeded bool
	seed   uint64
}

type Option func(*Synthesizer)

// WithSeed makes every call draw from the same sequence, so identical requests
// produce identical text.
func WithSeed(seed uint64) Option {
	return func(s *Synthesizer) { s.seeded, s.seed = true, seed }
}

func WithScoring(th scoring.Thresholds) Option {
	return func(s *Synthesizer) { s.scorer = scoring.New(th) }
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Synthesizer) { s.log = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *Synthesizer) { s.now = now }
}

func WithVocabulary(v *vocab.Store) Option {
	return func(s *Synthesizer) { s.words = v }
}

func WithVoices(r *voice.Registry) Option {
	return func(s *Synthesizer) { s.voices = r }
}

func WithTransitions(p *transition.Pool) Option {
	return func(s *Synthesizer) { s.pool = p }
}

func New(opts ...Option) *Synthesizer {
	s := &Synthesizer{
		words:  vocab.New(),
		voices: voice.NewRegistry(),
		pool:   transition.DefaultPool(),
		scorer: scoring.New(scoring.DefaultThresholds()),
		log:    log.Logger,
		now:    time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	s.composer = narrative.NewComposer(s.words)
	return s
}

// Vocabulary is the live store; words registered on it are used by later calls.
func (s *Synthesizer) Vocabulary() *vocab.Store { return s.words }

func (s *Synthesizer) Voices() *voice.Registry { return s.voices }

func (s *Synthesizer) Scorer() *scoring.Scorer { return s.scorer }

func (s *Synthesizer) rng() *rand.Rand {
	if s.seeded {
		return rand.New(rand.NewPCG(s.seed, s.seed^seedMix))
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// Generate never fails. Any validation or composition error, or a panic, yields
// the fallback review with Metadata.Fallback set.
func (s *Synthesizer) Generate(req domain.GenerationRequest) (out domain.GeneratedReview) {
	req = req.WithDefaults()
	defer func() {
		if r := recover(); r != nil {
			out = s.fallback(req, fmt.Errorf("nlg: panic: %v", r))
		}
	}()

	review, err := s.generate(req)
	if err != nil {
		return s.fallback(req, err)
	}
	return review
}

func (s *Synthesizer) generate(req domain.GenerationRequest) (domain.GeneratedReview, error) {
	if err := domain.ValidateRequest(req); err != nil {
		return domain.GeneratedReview{}, err
	}
	profile, ok := s.voices.Lookup(req.Voice)
	if !ok {
		return domain.GeneratedReview{}, domain.NewValidationError("voice", string(req.Voice), domain.ErrUnknownVoice)
	}

	alloc := transition.NewAllocator(s.pool)
	alloc.Reset()
	rng := s.rng()

	n, err := s.composer.Compose(rng, narrative.Input{
		HotelRef:   hotelToken,
		Rating:     req.Rating,
		TripType:   req.TripType,
		Highlights: domain.NormalizeHighlights(req.Highlights),
		Nights:     req.Nights,
	}, profile, alloc)
	if err != nil {
		return domain.GeneratedReview{}, fmt.Errorf("compose: %w", err)
	}

	text := n.Text()
	text = s.voices.Apply(text, profile.Name)
	text = nuanceFor(req.Rating).Apply(text)
	text = rewrite.Polish(text)
	text = strings.ReplaceAll(text, hotelToken, req.HotelName)

	rep := s.scorer.Analyze(text)
	return domain.GeneratedReview{
		Text: text,
		Metadata: domain.Metadata{
			Voice:         profile.Name,
			Rating:        req.Rating,
			TripType:      req.TripType,
			Arc:           n.Arc,
			Beats:         n.Beats(),
			WordCount:     rep.WordCount,
			SentenceCount: rep.SentenceCount,
			Readability:   rep.Readability,
			Authenticity:  rep.Authenticity,
			Language:      req.Language,
			GeneratedAt:   s.now().UTC(),
		},
	}, nil
}

func (s *Synthesizer) fallback(req domain.GenerationRequest, cause error) domain.GeneratedReview {
	s.log.Warn().Err(cause).
		Int("rating", req.Rating).
		Str("voice", string(req.Voice)).
		Str("trip_type", string(req.TripType)).
		Msg("review generation fell back")

	text := FallbackText(req.HotelName, req.Rating, req.TripType)
	words := strings.Fields(text)
	sentences := len(scoring.Sentences(text))
	return domain.GeneratedReview{
		Text: text,
		Metadata: domain.Metadata{
			Voice:         req.Voice,
			Rating:        req.Rating,
			TripType:      req.TripType,
			WordCount:     len(words),
			SentenceCount: sentences,
			Language:      req.Language,
			GeneratedAt:   s.now().UTC(),
			Fallback:      true,
			Error:         cause.Error(),
		},
	}
}
