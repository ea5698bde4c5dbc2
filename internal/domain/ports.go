package domain

import "context"

type DraftRepository interface {
	SaveDraft(ctx context.Context, d Draft) error
	GetDraft(ctx context.Context, id string) (Draft, error)
	ListDrafts(ctx context.Context, propertyID int64, limit int) (DraftsPage, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// HotelDirectory resolves a property id to its display name.
type HotelDirectory interface {
	HotelName(ctx context.Context, propertyID int64) (string, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, ev ReviewEvent) error
}

// ReviewGenerator is the pure generation engine. It never fails; degraded output is
// flagged in the metadata.
type ReviewGenerator interface {
	Generate(req GenerationRequest) GeneratedReview
}
