package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"stay_reviews/internal/adapters/observability"
	"stay_reviews/internal/domain"
)

// ReviewService drives the generation engine and everything around it: hotel name
// resolution, draft persistence and analytics events.
type ReviewService struct {
	gen      domain.ReviewGenerator
	repo     domain.DraftRepository
	cache    domain.Cache
	hotels   domain.HotelDirectory
	events   domain.EventPublisher
	cacheTTL time.Duration
}

// NewReviewService wires the service. hotels and events may be nil.
func NewReviewService(gen domain.ReviewGenerator, r domain.DraftRepository, c domain.Cache,
	hotels domain.HotelDirectory, events domain.EventPublisher, ttl time.Duration) *ReviewService {
	return &ReviewService{gen: gen, repo: r, cache: c, hotels: hotels, events: events, cacheTTL: ttl}
}

// Generate produces a review without persisting it. Engine failures are never
// returned as errors; they show up as Metadata.Fallback.
func (s *ReviewService) Generate(ctx context.Context, req domain.GenerationRequest) (domain.GeneratedReview, error) {
	req, err := s.resolveHotel(ctx, req)
	if err != nil {
		return domain.GeneratedReview{}, err
	}
	review := s.generate(req)
	s.publish(ctx, domain.EventFor("", req.PropertyID, review))
	return review, nil
}

// SaveDraft generates a review and stores it as a draft.
func (s *ReviewService) SaveDraft(ctx context.Context, req domain.GenerationRequest) (domain.Draft, error) {
	req, err := s.resolveHotel(ctx, req)
	if err != nil {
		return domain.Draft{}, err
	}
	review := s.generate(req)
	d := domain.Draft{
		ID:         uuid.NewString(),
		PropertyID: req.PropertyID,
		HotelName:  req.HotelName,
		Request:    req,
		Review:     review,
		CreatedAt:  review.Metadata.GeneratedAt,
	}
	if err := s.repo.SaveDraft(ctx, d); err != nil {
		return domain.Draft{}, fmt.Errorf("save draft: %w", err)
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, draftKey(d.ID), d, int(s.cacheTTL.Seconds()))
		if d.PropertyID != nil {
			s.invalidateDraftLists(ctx, *d.PropertyID)
		}
	}
	s.publish(ctx, domain.EventFor(d.ID, d.PropertyID, review))
	return d, nil
}

// BatchResult pairs one batch input with its outcome.
type BatchResult struct {
	Index int           `json:"index"`
	Draft *domain.Draft `json:"draft,omitempty"`
	Error string        `json:"error,omitempty"`
}

// GenerateBatch saves a draft for every request with at most workers in flight.
// Results keep input order. A cancelled context stops launching new work.
func (s *ReviewService) GenerateBatch(ctx context.Context, reqs []domain.GenerationRequest, workers int) []BatchResult {
	if workers <= 0 {
		workers = 1
	}
	out := make([]BatchResult, len(reqs))
	sem := semaphore.NewWeighted(int64(workers))
	var wg sync.WaitGroup

	for i, req := range reqs {
		out[i].Index = i
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			for j := i; j < len(reqs); j++ {
				out[j] = BatchResult{Index: j, Error: err.Error()}
			}
			break
		}
		wg.Add(1)
		go func(i int, req domain.GenerationRequest) {
			defer wg.Done()
			defer sem.Release(1)

			d, err := s.SaveDraft(ctx, req)
			if err != nil {
				log.Warn().Int("index", i).Err(err).Msg("batch item failed")
				out[i].Error = err.Error()
				return
			}
			out[i].Draft = &d
		}(i, req)
	}

	wg.Wait()
	return out
}

func (s *ReviewService) generate(req domain.GenerationRequest) domain.GeneratedReview {
	start := time.Now()
	review := s.gen.Generate(req)
	m := review.Metadata
	observability.ObserveGeneration(string(m.Voice), m.Rating, m.Fallback, m.Authenticity, time.Since(start))
	return review
}

// resolveHotel fills a blank hotel name from the directory when a property id is given.
func (s *ReviewService) resolveHotel(ctx context.Context, req domain.GenerationRequest) (domain.GenerationRequest, error) {
	req.HotelName = strings.TrimSpace(req.HotelName)
	if req.HotelName != "" || req.PropertyID == nil || s.hotels == nil {
		return req, nil
	}
	name, err := s.hotels.HotelName(ctx, *req.PropertyID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return req, fmt.Errorf("property %d: %w", *req.PropertyID, err)
		}
		return req, fmt.Errorf("resolve property %d: %w", *req.PropertyID, err)
	}
	req.HotelName = name
	return req, nil
}

// publish is best effort: analytics never fail a request.
func (s *ReviewService) publish(ctx context.Context, ev domain.ReviewEvent) {
	if s.events == nil {
		return
	}
	err := s.events.Publish(ctx, ev)
	observability.ObserveEvent(err)
	if err != nil {
		log.Warn().Err(err).Str("draft_id", ev.DraftID).Msg("publish review event failed")
	}
}

// invalidateDraftLists moves the property to a fresh list version. Pages cached under
// the old one, whatever their limit, are left to expire.
func (s *ReviewService) invalidateDraftLists(ctx context.Context, propertyID int64) {
	_ = s.cache.Set(ctx, listVersionKey(propertyID), uuid.NewString(), int(s.cacheTTL.Seconds()))
}
