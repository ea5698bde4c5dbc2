// Package transition hands out connective phrases for successive narrative points
// without repeating one inside a single review.
//
// A Pool is static configuration and safe to share. An Allocator owns the used-set
// for exactly one generation call; create one per call.
package transition

import (
	"errors"
	"math/rand/v2"
)

var ErrEmptyPool = errors.New("transition: opening, middle and closing phrases are required")

// Pool groups phrases by where they may appear in the sequence.
type Pool struct {
	opening []string
	middle  []string
	closing []string
}

func NewPool(opening, middle, closing []string) (*Pool, error) {
	if len(opening) == 0 || len(middle) == 0 || len(closing) == 0 {
		return nil, ErrEmptyPool
	}
	return &Pool{
		opening: append([]string(nil), opening...),
		middle:  append([]string(nil), middle...),
		closing: append([]string(nil), closing...),
	}, nil
}

func DefaultPool() *Pool {
	p, _ := NewPool(
		[]string{"First of all,", "To start with,", "Right away,", "Straight off,"},
		[]string{
			"Furthermore,", "What's more,", "On top of that,", "Additionally,",
			"Beyond that,", "In addition,", "Equally,", "Also,", "Better still,",
		},
		[]string{"Finally,", "Last but not least,", "To round things off,", "Lastly,"},
	)
	return p
}

// Size is the number of distinct phrases in the pool.
func (p *Pool) Size() int { return len(p.all()) }

// Phrases lists every phrase in the pool: opening, then middle, then closing.
func (p *Pool) Phrases() []string { return p.all() }

func (p *Pool) all() []string {
	out := make([]string, 0, len(p.opening)+len(p.middle)+len(p.closing))
	out = append(out, p.opening...)
	out = append(out, p.middle...)
	return append(out, p.closing...)
}

func (p *Pool) group(index, total int) []string {
	switch {
	case index <= 0 || total <= 1:
		return p.opening
	case index >= total-1:
		return p.closing
	default:
		return p.middle
	}
}

// Used is the per-call set of phrases already handed out.
type Used struct {
	seen  map[string]struct{}
	order []string
}

func NewUsed() *Used { return &Used{seen: map[string]struct{}{}} }

func (u *Used) Contains(phrase string) bool {
	_, ok := u.seen[phrase]
	return ok
}

func (u *Used) Add(phrase string) {
	if u.seen == nil {
		u.seen = map[string]struct{}{}
	}
	u.seen[phrase] = struct{}{}
	u.order = append(u.order, phrase)
}

func (u *Used) Reset() {
	u.seen = map[string]struct{}{}
	u.order = nil
}

func (u *Used) Len() int { return len(u.order) }

// Phrases returns the phrases in the order they were handed out.
func (u *Used) Phrases() []string { return append([]string(nil), u.order...) }

// SelectUnique picks a phrase for position index of total that is not in used and
// records it. The positional group is tried first, then the whole pool. Once every
// phrase has been used it repeats from the positional group.
func (p *Pool) SelectUnique(rng *rand.Rand, index, total int, used *Used) string {
	group := p.group(index, total)
	if phrase, ok := pickUnused(rng, group, used); ok {
		used.Add(phrase)
		return phrase
	}
	if phrase, ok := pickUnused(rng, p.all(), used); ok {
		used.Add(phrase)
		return phrase
	}
	phrase := group[rng.IntN(len(group))]
	used.Add(phrase)
	return phrase
}

func pickUnused(rng *rand.Rand, phrases []string, used *Used) (string, bool) {
	free := make([]string, 0, len(phrases))
	for _, ph := range phrases {
		if !used.Contains(ph) {
			free = append(free, ph)
		}
	}
	if len(free) == 0 {
		return "", false
	}
	return free[rng.IntN(len(free))], true
}

// Allocator binds a shared pool to one call's used-set.
type Allocator struct {
	pool *Pool
	used *Used
}

func NewAllocator(pool *Pool) *Allocator {
	if pool == nil {
		pool = DefaultPool()
	}
	return &Allocator{pool: pool, used: NewUsed()}
}

func (a *Allocator) Next(rng *rand.Rand, index, total int) string {
	return a.pool.SelectUnique(rng, index, total, a.used)
}

func (a *Allocator) Reset() { a.used.Reset() }

func (a *Allocator) Used() []string { return a.used.Phrases() }
