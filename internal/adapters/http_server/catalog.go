package httpserver

import (
	"errors"
	"net/http"

	"stay_reviews/internal/domain"
	"stay_reviews/internal/nlg/rewrite"
	"stay_reviews/internal/nlg/vocab"
	"stay_reviews/internal/nlg/voice"
)

type wordsRequest struct {
	Axis  vocab.Axis `json:"axis" validate:"required"`
	Key   string     `json:"key" validate:"required,max=64"`
	Words []string   `json:"words" validate:"required,min=1,max=100,dive,max=80"`
}

type ruleRequest struct {
	Pattern string `json:"pattern" validate:"required,max=200"`
	Replace string `json:"replace"`
	// Word treats Pattern as a literal whole word, matched case-insensitively.
	Word     bool `json:"word"`
	KeepCase bool `json:"keep_case"`
}

type voiceRequest struct {
	Name                domain.Voice  `json:"name" validate:"required,max=64"`
	Characteristics     []string      `json:"characteristics" validate:"max=10"`
	IntensifierStrength string        `json:"intensifier_strength"`
	HedgeFrequency      float64       `json:"hedge_frequency"`
	Rules               []ruleRequest `json:"rules" validate:"max=50,dive"`
	Recommendations     []string      `json:"recommendations" validate:"len=5"`
}

type voiceView struct {
	Name                domain.Voice `json:"name"`
	Characteristics     []string     `json:"characteristics"`
	IntensifierStrength string       `json:"intensifier_strength"`
	HedgeFrequency      float64      `json:"hedge_frequency"`
	Rules               int          `json:"rules"`
}

func (h *Handlers) vocabularyStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Words.Stats())
}

func (h *Handlers) registerWords(w http.ResponseWriter, r *http.Request) {
	var req wordsRequest
	if !decode(w, r, &req) {
		return
	}
	if err := domain.ValidateStruct(req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	added, err := h.Words.Register(req.Axis, req.Key, req.Words...)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Unknown bank", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"axis": req.Axis, "key": req.Key, "added": added})
}

func (h *Handlers) listVoices(w http.ResponseWriter, r *http.Request) {
	names := h.Voices.Names()
	out := make([]voiceView, 0, len(names))
	for _, n := range names {
		p, ok := h.Voices.Lookup(n)
		if !ok {
			continue
		}
		out = append(out, voiceView{
			Name:                p.Name,
			Characteristics:     p.Characteristics,
			IntensifierStrength: p.IntensifierStrength,
			HedgeFrequency:      p.HedgeFrequency,
			Rules:               len(p.Rules),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) registerVoice(w http.ResponseWriter, r *http.Request) {
	var req voiceRequest
	if !decode(w, r, &req) {
		return
	}
	if err := domain.ValidateStruct(req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid voice", err.Error())
		return
	}
	p, err := req.profile()
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid voice", err.Error())
		return
	}
	if err := h.Voices.Register(p); err != nil {
		if errors.Is(err, voice.ErrExists) {
			writeProblem(w, http.StatusConflict, "Voice exists", err.Error())
			return
		}
		writeProblem(w, http.StatusBadRequest, "Invalid voice", err.Error())
		return
	}
	reg, _ := h.Voices.Lookup(p.Name)
	w.Header().Set("Location", "/v1/voices")
	writeJSON(w, http.StatusCreated, voiceView{
		Name:                reg.Name,
		Characteristics:     reg.Characteristics,
		IntensifierStrength: reg.IntensifierStrength,
		HedgeFrequency:      reg.HedgeFrequency,
		Rules:               len(reg.Rules),
	})
}

func (v voiceRequest) profile() (voice.Profile, error) {
	p := voice.Profile{
		Name:                v.Name,
		Characteristics:     v.Characteristics,
		IntensifierStrength: v.IntensifierStrength,
		HedgeFrequency:      v.HedgeFrequency,
	}
	if p.IntensifierStrength == "" {
		p.IntensifierStrength = vocab.StrengthModerate
	}
	for _, rr := range v.Rules {
		if rr.Word {
			p.Rules = append(p.Rules, rewrite.Word(rr.Pattern, rr.Replace))
			continue
		}
		rule, err := rewrite.Compile(rr.Pattern, rr.Replace, rr.KeepCase)
		if err != nil {
			return voice.Profile{}, err
		}
		p.Rules = append(p.Rules, rule)
	}
	copy(p.Recommendations[:], v.Recommendations)
	return p, nil
}
