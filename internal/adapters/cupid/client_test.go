package cupid_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"stay_reviews/internal/adapters/cupid"
	"stay_reviews/internal/domain"
)

func TestClient_GetProperty_RetriesThenSuccess(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch atomic.AddInt32(&hits, 1) {
		case 1, 2:
			// two transient failures
			w.WriteHeader(500)
		default:
			w.WriteHeader(200)
			_ = json.NewEncoder(w).Encode(map[string]any{"id": 123.0})
		}
	}))
	defer ts.Close()

	cl, err := cupid.New(ts.URL, "test-key", 100) // high RPS for tests
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	got, err := cl.GetProperty(ctx, 123)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	id, ok := got["id"].(float64)
	if !ok || int(id) != 123 {
		t.Fatalf("unexpected payload: %+v", got)
	}
	if atomic.LoadInt32(&hits) < 3 {
		t.Fatalf("expected at least 3 calls due to retries, got %d", hits)
	}
}

func TestClient_GetProperty_404(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	cl, err := cupid.New(ts.URL, "test-key", 100)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err = cl.GetProperty(ctx, 1)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected domain.ErrNotFound, got %v", err)
	}
}

func TestClient_HotelName_LegacyPathAndAlias(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-API-Key") != "k" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Path != "/property/42" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"hotel_name": "  Harbour View  "})
	}))
	defer ts.Close()

	cl, _ := cupid.New(ts.URL, "k", 100)
	name, err := cl.HotelName(context.Background(), 42)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if name != "Harbour View" {
		t.Fatalf("name=%q", name)
	}
}

func TestClient_HotelName_MissingName(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"id": 1})
	}))
	defer ts.Close()

	cl, _ := cupid.New(ts.URL, "k", 100)
	if _, err := cl.HotelName(context.Background(), 1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestClient_BreakerIgnoresNotFound(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		http.NotFound(w, r)
	}))
	defer ts.Close()

	cl, _ := cupid.New(ts.URL, "k", 1000)
	for i := 0; i < 8; i++ {
		if _, err := cl.GetProperty(context.Background(), int64(i)); !errors.Is(err, cupid.ErrNotFound) {
			t.Fatalf("call %d: %v", i, err)
		}
	}
	// two candidate URLs per call, none short-circuited
	if got := atomic.LoadInt32(&hits); got != 16 {
		t.Fatalf("hits=%d", got)
	}
}

func TestNew_RequiresKey(t *testing.T) {
	if _, err := cupid.New("http://x", "", 1); err == nil {
		t.Fatal("expected error")
	}
}
