package app

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"stay_reviews/internal/domain"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

type QueryService struct {
	repo     domain.DraftRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(r domain.DraftRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl}
}

func draftKey(id string) string { return "draft:" + id }

func listVersionKey(propertyID int64) string { return fmt.Sprintf("drafts:%d:ver", propertyID) }

// draftsKey embeds the property's list version; replacing the version retires the
// cached pages of every limit at once.
func draftsKey(propertyID int64, version string, limit int) string {
	return fmt.Sprintf("drafts:%d:%s:%d", propertyID, version, limit)
}

// listVersion returns the property's current list version, starting a new one when
// none is cached. Pages cached under a lost version are never read again.
func (s *QueryService) listVersion(ctx context.Context, propertyID int64) string {
	var v string
	if ok, _ := s.cache.Get(ctx, listVersionKey(propertyID), &v); ok && v != "" {
		return v
	}
	v = uuid.NewString()
	_ = s.cache.Set(ctx, listVersionKey(propertyID), v, int(s.cacheTTL.Seconds()))
	return v
}

func (s *QueryService) GetDraft(ctx context.Context, id string) (domain.Draft, error) {
	key := draftKey(id)
	var d domain.Draft
	if ok, _ := s.cache.Get(ctx, key, &d); ok {
		return d, nil
	}
	d, err := s.repo.GetDraft(ctx, id)
	if err != nil {
		return domain.Draft{}, err
	}
	_ = s.cache.Set(ctx, key, d, int(s.cacheTTL.Seconds()))
	return d, nil
}

// ListDrafts returns a property's drafts, newest first. limit is clamped to
// [1, MaxListLimit]; zero means DefaultListLimit.
func (s *QueryService) ListDrafts(ctx context.Context, propertyID int64, limit int) (domain.DraftsPage, error) {
	switch {
	case limit <= 0:
		limit = DefaultListLimit
	case limit > MaxListLimit:
		limit = MaxListLimit
	}
	key := draftsKey(propertyID, s.listVersion(ctx, propertyID), limit)
	var out domain.DraftsPage
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}

	page, err := s.repo.ListDrafts(ctx, propertyID, limit)
	if err != nil {
		return domain.DraftsPage{}, err
	}

	// copy slice to avoid aliasing the repo's backing array
	cp := domain.DraftsPage{}
	if n := len(page.Items); n > 0 {
		cp.Items = make([]domain.Draft, n)
		copy(cp.Items, page.Items)
	}

	// optional size guard
	if b, _ := json.Marshal(cp); len(b) < 1_000_000 {
		_ = s.cache.Set(ctx, key, cp, int(s.cacheTTL.Seconds()))
	}
	return cp, nil
}
