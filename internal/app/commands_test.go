package app_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"stay_reviews/internal/app"
	"stay_reviews/internal/domain"
)

type fakeGen struct {
	calls    atomic.Int32
	inFlight atomic.Int32
	peak     atomic.Int32
	delay    time.Duration
}

func (g *fakeGen) Generate(req domain.GenerationRequest) domain.GeneratedReview {
	g.calls.Add(1)
	n := g.inFlight.Add(1)
	for {
		p := g.peak.Load()
		if n <= p || g.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(g.delay)
	g.inFlight.Add(-1)

	fallback := req.Rating < 1 || req.Rating > 5
	return domain.GeneratedReview{
		Text: "We stayed at " + req.HotelName + ".",
		Metadata: domain.Metadata{
			Voice: req.Voice, Rating: req.Rating, Fallback: fallback,
			GeneratedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		},
	}
}

type fakeHotels struct {
	names map[int64]string
	err   error
}

func (h *fakeHotels) HotelName(ctx context.Context, id int64) (string, error) {
	if h.err != nil {
		return "", h.err
	}
	n, ok := h.names[id]
	if !ok {
		return "", domain.ErrNotFound
	}
	return n, nil
}

type fakeEvents struct {
	mu  sync.Mutex
	evs []domain.ReviewEvent
	err error
}

func (e *fakeEvents) Publish(ctx context.Context, ev domain.ReviewEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.evs = append(e.evs, ev)
	return e.err
}

func TestGenerate_ResolvesHotelNameAndPublishes(t *testing.T) {
	events := &fakeEvents{}
	svc := app.NewReviewService(&fakeGen{}, &fakeRepo{}, &fakeCache{},
		&fakeHotels{names: map[int64]string{7: "Lakeside Lodge"}}, events, time.Minute)

	r, err := svc.Generate(context.Background(), domain.GenerationRequest{PropertyID: ptr(int64(7)), Rating: 4})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if r.Text != "We stayed at Lakeside Lodge." {
		t.Fatalf("text=%q", r.Text)
	}
	if len(events.evs) != 1 || events.evs[0].DraftID != "" || *events.evs[0].PropertyID != 7 {
		t.Fatalf("events=%+v", events.evs)
	}
}

func TestGenerate_UnknownProperty(t *testing.T) {
	svc := app.NewReviewService(&fakeGen{}, &fakeRepo{}, &fakeCache{}, &fakeHotels{}, nil, time.Minute)
	_, err := svc.Generate(context.Background(), domain.GenerationRequest{PropertyID: ptr(int64(9)), Rating: 4})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestGenerate_PublishErrorIsNotFatal(t *testing.T) {
	events := &fakeEvents{err: errors.New("nats down")}
	svc := app.NewReviewService(&fakeGen{}, &fakeRepo{}, &fakeCache{}, nil, events, time.Minute)
	if _, err := svc.Generate(context.Background(), domain.GenerationRequest{HotelName: "H", Rating: 3}); err != nil {
		t.Fatalf("publish error leaked: %v", err)
	}
}

func TestSaveDraft_PersistsCachesAndInvalidates(t *testing.T) {
	repo := &fakeRepo{}
	cache := &fakeCache{}
	events := &fakeEvents{}
	svc := app.NewReviewService(&fakeGen{}, repo, cache, nil, events, time.Minute)

	d, err := svc.SaveDraft(context.Background(), domain.GenerationRequest{HotelName: " Inn ", PropertyID: ptr(int64(3)), Rating: 5})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if d.ID == "" || d.HotelName != "Inn" || !d.CreatedAt.Equal(d.Review.Metadata.GeneratedAt) {
		t.Fatalf("draft=%+v", d)
	}
	if _, ok := repo.drafts[d.ID]; !ok {
		t.Fatal("draft not persisted")
	}
	if _, ok := cache.store["draft:"+d.ID]; !ok {
		t.Fatal("draft not cached")
	}
	if v, ok := cache.store["drafts:3:ver"].(string); !ok || v == "" {
		t.Fatalf("list version not bumped: %v", cache.store)
	}
	if len(events.evs) != 1 || events.evs[0].DraftID != d.ID {
		t.Fatalf("events=%+v", events.evs)
	}
}

func TestSaveDraft_RefreshesEveryListLimit(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepo{page: domain.DraftsPage{Items: []domain.Draft{{ID: "old"}}}}
	cache := &fakeCache{}
	q := app.NewQueryService(repo, cache, time.Minute)
	svc := app.NewReviewService(&fakeGen{}, repo, cache, nil, nil, time.Minute)

	limits := []int{7, app.DefaultListLimit, 120, app.MaxListLimit}
	for _, lim := range limits {
		if _, err := q.ListDrafts(ctx, 9, lim); err != nil {
			t.Fatal(err)
		}
	}
	repo.page = domain.DraftsPage{Items: []domain.Draft{{ID: "new"}, {ID: "old"}}}

	// another property's save leaves these pages cached
	if _, err := svc.SaveDraft(ctx, domain.GenerationRequest{HotelName: "Other", PropertyID: ptr(int64(10)), Rating: 4}); err != nil {
		t.Fatal(err)
	}
	if out, _ := q.ListDrafts(ctx, 9, 7); out.Items[0].ID != "old" {
		t.Fatalf("unrelated save evicted property 9: %+v", out.Items)
	}

	if _, err := svc.SaveDraft(ctx, domain.GenerationRequest{HotelName: "Inn", PropertyID: ptr(int64(9)), Rating: 4}); err != nil {
		t.Fatal(err)
	}
	for _, lim := range limits {
		out, err := q.ListDrafts(ctx, 9, lim)
		if err != nil {
			t.Fatal(err)
		}
		if len(out.Items) != 2 || out.Items[0].ID != "new" {
			t.Fatalf("limit %d served a stale page: %+v", lim, out.Items)
		}
	}
}

func TestSaveDraft_RepoError(t *testing.T) {
	events := &fakeEvents{}
	svc := app.NewReviewService(&fakeGen{}, &fakeRepo{err: errors.New("db gone")}, &fakeCache{}, nil, events, time.Minute)
	if _, err := svc.SaveDraft(context.Background(), domain.GenerationRequest{HotelName: "H", Rating: 5}); err == nil {
		t.Fatal("expected error")
	}
	if len(events.evs) != 0 {
		t.Fatal("event published for an unsaved draft")
	}
}

func TestGenerateBatch_BoundedAndOrdered(t *testing.T) {
	gen := &fakeGen{delay: 5 * time.Millisecond}
	repo := &fakeRepo{}
	svc := app.NewReviewService(gen, repo, &fakeCache{}, &fakeHotels{}, nil, time.Minute)

	reqs := make([]domain.GenerationRequest, 12)
	for i := range reqs {
		reqs[i] = domain.GenerationRequest{HotelName: "H", Rating: 1 + i%5}
	}
	reqs[4] = domain.GenerationRequest{PropertyID: ptr(int64(404)), Rating: 3}

	out := svc.GenerateBatch(context.Background(), reqs, 3)
	if len(out) != len(reqs) {
		t.Fatalf("results=%d", len(out))
	}
	for i, r := range out {
		if r.Index != i {
			t.Fatalf("result %d has index %d", i, r.Index)
		}
		if i == 4 {
			if r.Error == "" || r.Draft != nil {
				t.Fatalf("item 4 should fail: %+v", r)
			}
			continue
		}
		if r.Draft == nil || r.Draft.Request.Rating != reqs[i].Rating {
			t.Fatalf("item %d: %+v", i, r)
		}
	}
	if p := gen.peak.Load(); p > 3 {
		t.Fatalf("peak concurrency %d exceeds 3", p)
	}
	if len(repo.drafts) != 11 {
		t.Fatalf("saved %d drafts", len(repo.drafts))
	}
}

func TestGenerateBatch_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc := app.NewReviewService(&fakeGen{}, &fakeRepo{}, &fakeCache{}, nil, nil, time.Minute)
	out := svc.GenerateBatch(ctx, []domain.GenerationRequest{{HotelName: "a", Rating: 3}, {HotelName: "b", Rating: 3}}, 1)
	for _, r := range out {
		if r.Error == "" {
			t.Fatalf("expected cancellation error, got %+v", r)
		}
	}
}
