// Package voice defines tone profiles and the final-pass text adapter that applies
// each profile's rewrite rules.
package voice

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"stay_reviews/internal/domain"
	"stay_reviews/internal/nlg/rewrite"
	"stay_reviews/internal/nlg/vocab"
)

var (
	ErrIncomplete = errors.New("voice: a recommendation sentence is required for every rating")
	ErrExists     = errors.New("voice: profile already registered")
	ErrBadProfile = errors.New("voice: invalid profile")
)

// Profile is immutable once registered.
type Profile struct {
	Name                domain.Voice
	Characteristics     []string
	IntensifierStrength string
	// HedgeFrequency is the chance in [0,1] that a positive point carries a hedge.
	HedgeFrequency float64
	Rules          rewrite.Chain
	// Recommendations[i] is the closing sentence for rating i+1.
	Recommendations [domain.MaxRating]string
}

// Recommendation returns the sentence for a rating in 1..5.
func (p Profile) Recommendation(rating int) (string, error) {
	if rating < domain.MinRating || rating > domain.MaxRating {
		return "", fmt.Errorf("%w: %d", domain.ErrRatingOutOfRange, rating)
	}
	s := strings.TrimSpace(p.Recommendations[rating-1])
	if s == "" {
		return "", fmt.Errorf("%w: voice %q rating %d", ErrIncomplete, p.Name, rating)
	}
	return s, nil
}

func (p Profile) validate() error {
	if strings.TrimSpace(string(p.Name)) == "" {
		return fmt.Errorf("%w: name is required", ErrBadProfile)
	}
	if p.HedgeFrequency < 0 || p.HedgeFrequency > 1 {
		return fmt.Errorf("%w: hedge frequency must be within [0,1]", ErrBadProfile)
	}
	switch p.IntensifierStrength {
	case vocab.StrengthMild, vocab.StrengthModerate, vocab.StrengthStrong:
	default:
		return fmt.Errorf("%w: intensifier strength %q", ErrBadProfile, p.IntensifierStrength)
	}
	for i := range p.Recommendations {
		if strings.TrimSpace(p.Recommendations[i]) == "" {
			return fmt.Errorf("%w: missing rating %d", ErrIncomplete, i+1)
		}
	}
	return nil
}

// Registry maps voice names to profiles. Profiles can be added at runtime but are
// never replaced.
type Registry struct {
	mu       sync.RWMutex
	profiles map[domain.Voice]Profile
}

// NewRegistry returns a registry holding the four built-in voices.
func NewRegistry() *Registry {
	r := &Registry{profiles: map[domain.Voice]Profile{}}
	for _, p := range builtinProfiles() {
		r.profiles[p.Name] = p
	}
	return r
}

func (r *Registry) Register(p Profile) error {
	p.Name = domain.Voice(strings.ToLower(strings.TrimSpace(string(p.Name))))
	if err := p.validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[p.Name]; ok {
		return fmt.Errorf("%w: %s", ErrExists, p.Name)
	}
	p.Characteristics = append([]string(nil), p.Characteristics...)
	p.Rules = append(rewrite.Chain(nil), p.Rules...)
	r.profiles[p.Name] = p
	return nil
}

// Lookup returns a copy of the profile; callers may modify its slices freely.
func (r *Registry) Lookup(v domain.Voice) (Profile, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[v]
	if !ok {
		return Profile{}, false
	}
	p.Characteristics = append([]string(nil), p.Characteristics...)
	p.Rules = append(rewrite.Chain(nil), p.Rules...)
	return p, true
}

// Names lists registered voices, sorted.
func (r *Registry) Names() []domain.Voice {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Voice, 0, len(r.profiles))
	for name := range r.profiles {
		out = append(out, name)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Apply runs the voice's rules over text. Unknown voices leave text unchanged.
func (r *Registry) Apply(text string, v domain.Voice) string {
	// stored profiles are never mutated after Register, so no copy is needed here
	r.mu.RLock()
	p, ok := r.profiles[v]
	r.mu.RUnlock()
	if !ok {
		return text
	}
	return p.Rules.Apply(text)
}
