package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"stay_reviews/internal/app"
	"stay_reviews/internal/domain"
	"stay_reviews/internal/nlg/vocab"
	"stay_reviews/internal/nlg/voice"
)

const maxBodyBytes = 1 << 20

type Handlers struct {
	Reviews *app.ReviewService
	Q       *app.QueryService
	Words   *vocab.Store
	Voices  *voice.Registry
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Route("/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(s.limit)
			r.Post("/reviews", h.generate)
			r.Post("/drafts", h.saveDraft)
		})
		r.Get("/drafts/{id}", h.getDraft)
		r.Get("/hotels/{id}/drafts", h.listDrafts)
		r.Get("/vocabulary/stats", h.vocabularyStats)
		r.Post("/vocabulary", h.registerWords)
		r.Get("/voices", h.listVoices)
		r.Post("/voices", h.registerVoice)
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// decode reads a single JSON document; it writes the 400 itself and reports false
// when the body is unusable.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeProblem(w, http.StatusRequestEntityTooLarge, "Body too large", err.Error())
		return false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		writeProblem(w, http.StatusBadRequest, "Malformed JSON", err.Error())
		return false
	}
	return true
}

// requestLimits bounds generation payloads accepted over HTTP. The engine itself
// takes any size.
type requestLimits struct {
	HotelName  string             `validate:"max=200"`
	Highlights []domain.Highlight `validate:"max=25"`
	Voice      domain.Voice       `validate:"max=64"`
}

// decodeRequest decodes a generation request and applies the API size limits.
func decodeRequest(w http.ResponseWriter, r *http.Request, req *domain.GenerationRequest) bool {
	if !decode(w, r, req) {
		return false
	}
	lim := requestLimits{HotelName: req.HotelName, Highlights: req.Highlights, Voice: req.Voice}
	if err := domain.ValidateStruct(lim); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid request", err.Error())
		return false
	}
	return true
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		// Log but don't fail the whole response; return empty ETag and best-effort body.
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeCached writes body with its ETag, or a bare 304 when the client holds it.
func writeCached(w http.ResponseWriter, r *http.Request, etag, contentType string, body []byte) {
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag) // include ETag on 304
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write body")
	}
}

// writeServiceError maps application errors to problem responses.
func writeServiceError(w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		writeProblem(w, http.StatusBadRequest, "Invalid request", ve.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	default:
		log.Error().Err(err).Msg("request failed")
		writeProblem(w, http.StatusBadGateway, "Upstream failure", "the request could not be completed")
	}
}

func (h *Handlers) generate(w http.ResponseWriter, r *http.Request) {
	var req domain.GenerationRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	out, err := h.Reviews.Generate(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	// a fallback review is still a review: 200 with metadata.fallback set
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) saveDraft(w http.ResponseWriter, r *http.Request) {
	var req domain.GenerationRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	d, err := h.Reviews.SaveDraft(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.Header().Set("Location", "/v1/drafts/"+d.ID)
	writeJSON(w, http.StatusCreated, d)
}

func (h *Handlers) getDraft(w http.ResponseWriter, r *http.Request) {
	d, err := h.Q.GetDraft(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeProblem(w, http.StatusNotFound, "Not Found", "draft not found")
			return
		}
		writeServiceError(w, err)
		return
	}

	etag, body := calcETagAndBody(d)
	if r.URL.Query().Get("format") == "html" {
		page, err := renderDraftHTML(d)
		if err != nil {
			log.Error().Err(err).Str("draft", d.ID).Msg("render draft")
			writeProblem(w, http.StatusInternalServerError, "Render failed", "draft could not be rendered")
			return
		}
		writeCached(w, r, htmlETag(etag), "text/html; charset=utf-8", page)
		return
	}
	writeCached(w, r, etag, "application/json", body)
}

func (h *Handlers) listDrafts(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}

	limit := app.DefaultListLimit
	if ls := r.URL.Query().Get("limit"); ls != "" {
		l, err := strconv.Atoi(ls)
		if err != nil || l <= 0 || l > app.MaxListLimit {
			writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 1 and 200")
			return
		}
		limit = l
	}

	out, err := h.Q.ListDrafts(r.Context(), id, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	etag, body := calcETagAndBody(out)
	writeCached(w, r, etag, "application/json", body)
}
