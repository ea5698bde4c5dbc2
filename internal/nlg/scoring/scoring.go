// Package scoring computes the quality metadata attached to a generated review.
package scoring

import (
	"math"
	"regexp"
	"strings"
)

// Thresholds tune the authenticity heuristics. The zero value is not useful; start
// from DefaultThresholds.
type Thresholds struct {
	// VarianceThreshold is the sentence-length variance (in words) above which the
	// rhythm counts as natural.
	VarianceThreshold float64 `koanf:"variance_threshold"`
	PronounMin        int     `koanf:"pronoun_min"`
	PointsPerSignal   int     `koanf:"points_per_signal"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{VarianceThreshold: 10, PronounMin: 3, PointsPerSignal: 20}
}

const maxScore = 100

// Report is the outcome of Analyze.
type Report struct {
	WordCount     int
	SentenceCount int
	Readability   float64
	Authenticity  int
	Signals       []string
}

// Signal names reported in Report.Signals.
const (
	SignalVariance    = "sentence_variance"
	SignalPronouns    = "personal_pronouns"
	SignalEmotion     = "emotion_word"
	SignalSpecificity = "specificity_marker"
	SignalHedge       = "hedge_word"
)

var (
	reSentenceSplit = regexp.MustCompile(`[.!?]+`)
	reVowelGroup    = regexp.MustCompile(`[aeiouy]+`)
	reWordChars     = regexp.MustCompile(`[^a-z]`)
	rePronoun       = regexp.MustCompile(`(?i)\b(i|we|my|our|me|us)\b`)
)

var (
	emotionWords = wordSet(
		"delighted", "thrilled", "overjoyed", "elated", "happy", "pleased", "satisfied",
		"content", "impressed", "grateful", "disappointed", "frustrated", "let down",
		"unhappy", "underwhelmed", "dismayed", "relaxed", "comfortable", "glad", "love",
		"loved", "enjoyed",
	)
	specificityWords = wordSet(
		"specifically", "particularly", "especially", "exactly", "every", "each", "night",
		"nights", "morning", "breakfast", "staff", "room", "view", "minutes",
	)
	hedgeWords = wordSet(
		"perhaps", "maybe", "somewhat", "slightly", "a little", "i think", "it seems",
		"personally", "in my experience", "for us", "probably", "fairly",
	)
)

func wordSet(ws ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(ws))
	for _, w := range ws {
		out = append(out, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(w)+`\b`))
	}
	return out
}

func anyMatch(text string, set []*regexp.Regexp) bool {
	for _, re := range set {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// Scorer is safe for concurrent use.
type Scorer struct {
	th Thresholds
}

func New(th Thresholds) *Scorer {
	def := DefaultThresholds()
	if th.PointsPerSignal <= 0 {
		th.PointsPerSignal = def.PointsPerSignal
	}
	if th.PronounMin <= 0 {
		th.PronounMin = def.PronounMin
	}
	if th.VarianceThreshold < 0 {
		th.VarianceThreshold = def.VarianceThreshold
	}
	return &Scorer{th: th}
}

func (s *Scorer) Thresholds() Thresholds { return s.th }

func (s *Scorer) Analyze(text string) Report {
	words := strings.Fields(text)
	sentences := Sentences(text)
	r := Report{
		WordCount:     len(words),
		SentenceCount: len(sentences),
		Readability:   Readability(words, len(sentences)),
	}

	add := func(ok bool, signal string) {
		if ok {
			r.Authenticity += s.th.PointsPerSignal
			r.Signals = append(r.Signals, signal)
		}
	}
	add(LengthVariance(sentences) > s.th.VarianceThreshold, SignalVariance)
	add(len(rePronoun.FindAllStringIndex(text, -1)) >= s.th.PronounMin, SignalPronouns)
	add(anyMatch(text, emotionWords), SignalEmotion)
	add(anyMatch(text, specificityWords), SignalSpecificity)
	add(anyMatch(text, hedgeWords), SignalHedge)
	if r.Authenticity > maxScore {
		r.Authenticity = maxScore
	}
	return r
}

// Sentences splits on runs of terminal punctuation and drops empty pieces.
func Sentences(text string) []string {
	var out []string
	for _, s := range reSentenceSplit.Split(text, -1) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// LengthVariance is the population variance of sentence lengths in words.
func LengthVariance(sentences []string) float64 {
	if len(sentences) < 2 {
		return 0
	}
	lens := make([]float64, len(sentences))
	var sum float64
	for i, s := range sentences {
		lens[i] = float64(len(strings.Fields(s)))
		sum += lens[i]
	}
	mean := sum / float64(len(lens))
	var v float64
	for _, l := range lens {
		v += (l - mean) * (l - mean)
	}
	return v / float64(len(lens))
}

// Syllables approximates a word's syllable count as its vowel groups, at least one.
func Syllables(word string) int {
	w := reWordChars.ReplaceAllString(strings.ToLower(word), "")
	n := len(reVowelGroup.FindAllStringIndex(w, -1))
	if n < 1 {
		return 1
	}
	return n
}

// Readability is Flesch Reading Ease clamped to [0,100], rounded to one decimal.
func Readability(words []string, sentences int) float64 {
	if len(words) == 0 || sentences == 0 {
		return 0
	}
	syl := 0
	for _, w := range words {
		syl += Syllables(w)
	}
	wc := float64(len(words))
	score := 206.835 - 1.015*(wc/float64(sentences)) - 84.6*(float64(syl)/wc)
	score = math.Max(0, math.Min(maxScore, score))
	return math.Round(score*10) / 10
}
