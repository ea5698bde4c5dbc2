// Package vocab holds the categorized word banks the composer draws from.
//
// Banks are addressed by an axis (emotion, descriptor, intensifier, hedge, temporal)
// and a key within that axis. Lookups take the caller's random source so a seeded
// generation is reproducible; the store itself holds no per-call state.
package vocab

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
	"sync"

	"stay_reviews/internal/domain"
)

type Axis string

const (
	AxisEmotion     Axis = "emotion"
	AxisDescriptor  Axis = "descriptor"
	AxisIntensifier Axis = "intensifier"
	AxisHedge       Axis = "hedge"
	AxisTemporal    Axis = "temporal"
)

var Axes = []Axis{AxisEmotion, AxisDescriptor, AxisIntensifier, AxisHedge, AxisTemporal}

// Emotion tiers.
const (
	TierDelight        = "delight"
	TierSatisfaction   = "satisfaction"
	TierNeutral        = "neutral"
	TierDisappointment = "disappointment"
)

type Sentiment string

const (
	Positive Sentiment = "positive"
	Neutral  Sentiment = "neutral"
	Negative Sentiment = "negative"
)

// Intensifier strengths.
const (
	StrengthMild     = "mild"
	StrengthModerate = "moderate"
	StrengthStrong   = "strong"
)

// Hedge types.
const (
	HedgeUncertainty = "uncertainty"
	HedgeSoftening   = "softening"
	HedgePersonal    = "personal"
)

// Temporal types.
const (
	TemporalArrival   = "arrival"
	TemporalDuring    = "during"
	TemporalDeparture = "departure"
)

// GenericWord is returned when an axis/key pair has no bank.
const GenericWord = "decent"

var ErrUnknownBank = errors.New("vocab: unknown bank")

// DescriptorKey builds the descriptor bank key for a category and sentiment.
func DescriptorKey(c domain.Category, s Sentiment) string {
	return string(c) + "/" + string(s)
}

type Store struct {
	mu    sync.RWMutex
	banks map[Axis]map[string][]string
}

// New returns a store seeded with the default English banks.
func New() *Store {
	s := &Store{banks: make(map[Axis]map[string][]string, len(Axes))}
	for axis, banks := range defaultBanks() {
		m := make(map[string][]string, len(banks))
		for k, words := range banks {
			m[k] = append([]string(nil), words...)
		}
		s.banks[axis] = m
	}
	return s
}

// Pick returns one word drawn uniformly from the bank, or GenericWord when the
// bank does not exist or is empty.
func (s *Store) Pick(rng *rand.Rand, axis Axis, key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	words := s.banks[axis][key]
	if len(words) == 0 {
		return GenericWord
	}
	return words[rng.IntN(len(words))]
}

func (s *Store) Emotion(rng *rand.Rand, tier string) string {
	return s.Pick(rng, AxisEmotion, tier)
}

func (s *Store) Descriptor(rng *rand.Rand, c domain.Category, sent Sentiment) string {
	return s.Pick(rng, AxisDescriptor, DescriptorKey(c, sent))
}

func (s *Store) Intensifier(rng *rand.Rand, strength string) string {
	return s.Pick(rng, AxisIntensifier, strength)
}

func (s *Store) Hedge(rng *rand.Rand, kind string) string {
	return s.Pick(rng, AxisHedge, kind)
}

func (s *Store) Temporal(rng *rand.Rand, kind string) string {
	return s.Pick(rng, AxisTemporal, kind)
}

// Register appends words to an existing bank. Blank and duplicate words are
// skipped. Banks can grow but never shrink.
func (s *Store) Register(axis Axis, key string, words ...string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bank, ok := s.banks[axis][key]
	if !ok {
		return 0, fmt.Errorf("%w: %s/%s", ErrUnknownBank, axis, key)
	}
	seen := make(map[string]struct{}, len(bank))
	for _, w := range bank {
		seen[w] = struct{}{}
	}
	added := 0
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		bank = append(bank, w)
		added++
	}
	s.banks[axis][key] = bank
	return added, nil
}

// Words returns a copy of every word on an axis, sorted.
func (s *Store) Words(axis Axis) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []string
	for _, words := range s.banks[axis] {
		out = append(out, words...)
	}
	sort.Strings(out)
	return out
}

type Stats struct {
	Banks      int          `json:"banks"`
	Categories int          `json:"categories"`
	Items      map[Axis]int `json:"items"`
	Total      int          `json:"total"`
}

// Stats reports bank and item counts. Categories counts the distinct descriptor
// categories.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := Stats{Items: make(map[Axis]int, len(s.banks))}
	cats := map[string]struct{}{}
	for axis, banks := range s.banks {
		for key, words := range banks {
			st.Banks++
			st.Items[axis] += len(words)
			st.Total += len(words)
			if axis == AxisDescriptor {
				if i := strings.IndexByte(key, '/'); i > 0 {
					cats[key[:i]] = struct{}{}
				}
			}
		}
	}
	st.Categories = len(cats)
	return st
}
