package httpserver_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	httpserver "stay_reviews/internal/adapters/http_server"
	redisad "stay_reviews/internal/adapters/redis"
	"stay_reviews/internal/app"
	"stay_reviews/internal/domain"
	"stay_reviews/internal/nlg"
)

type memRepo struct {
	mu     sync.Mutex
	drafts map[string]domain.Draft
}

func (m *memRepo) SaveDraft(ctx context.Context, d domain.Draft) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.drafts == nil {
		m.drafts = map[string]domain.Draft{}
	}
	m.drafts[d.ID] = d
	return nil
}

func (m *memRepo) GetDraft(ctx context.Context, id string) (domain.Draft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.drafts[id]
	if !ok {
		return domain.Draft{}, domain.ErrNotFound
	}
	return d, nil
}

func (m *memRepo) ListDrafts(ctx context.Context, propertyID int64, limit int) (domain.DraftsPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := domain.DraftsPage{Items: []domain.Draft{}}
	for _, d := range m.drafts {
		if d.PropertyID != nil && *d.PropertyID == propertyID {
			out.Items = append(out.Items, d)
		}
	}
	sort.Slice(out.Items, func(i, j int) bool { return out.Items[i].CreatedAt.After(out.Items[j].CreatedAt) })
	if len(out.Items) > limit {
		out.Items = out.Items[:limit]
	}
	return out, nil
}

type directory map[int64]string

func (d directory) HotelName(ctx context.Context, id int64) (string, error) {
	if n, ok := d[id]; ok {
		return n, nil
	}
	return "", domain.ErrNotFound
}

func newServer(t *testing.T, o httpserver.Options) *httptest.Server {
	t.Helper()
	mr := miniredis.RunT(t)
	cache := redisad.NewWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = cache.Close() })

	gen := nlg.New(nlg.WithSeed(7))
	repo := &memRepo{}
	hotels := directory{11: "Harbour View Hotel"}

	srv := httpserver.New(o)
	srv.MountHandlers(&httpserver.Handlers{
		Reviews: app.NewReviewService(gen, repo, cache, hotels, nil, time.Minute),
		Q:       app.NewQueryService(repo, cache, time.Minute),
		Words:   gen.Vocabulary(),
		Voices:  gen.Voices(),
	})
	ts := httptest.NewServer(srv.Mux())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func get(t *testing.T, url string, hdr map[string]string) *http.Response {
	t.Helper()
	req, _ := http.NewRequest(http.MethodGet, url, nil)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func TestHealthz(t *testing.T) {
	ts := newServer(t, httpserver.Options{})
	if resp := get(t, ts.URL+"/healthz", nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d", resp.StatusCode)
	}
}

func TestPostReview(t *testing.T) {
	ts := newServer(t, httpserver.Options{})

	resp := post(t, ts.URL+"/v1/reviews", `{"hotel_name":"Grand Plaza","rating":5,"voice":"enthusiastic",
		"highlights":["friendly staff",{"text":"rooftop pool","category":"amenities"}]}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d", resp.StatusCode)
	}
	var out domain.GeneratedReview
	decodeBody(t, resp, &out)
	if !strings.Contains(out.Text, "Grand Plaza") || out.Metadata.Fallback {
		t.Fatalf("unexpected review: %+v", out)
	}
	if out.Metadata.Arc != domain.ArcHeroic || out.Metadata.Voice != domain.VoiceEnthusiastic {
		t.Fatalf("metadata=%+v", out.Metadata)
	}
}

func TestPostReview_FallbackIsStill200(t *testing.T) {
	ts := newServer(t, httpserver.Options{})
	resp := post(t, ts.URL+"/v1/reviews", `{"hotel_name":"Inn","rating":9}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d", resp.StatusCode)
	}
	var out domain.GeneratedReview
	decodeBody(t, resp, &out)
	if !out.Metadata.Fallback || out.Metadata.Error == "" || !strings.Contains(out.Text, "Inn") {
		t.Fatalf("expected fallback: %+v", out)
	}
}

func TestPostReview_ResolvesPropertyAndUnknownIs404(t *testing.T) {
	ts := newServer(t, httpserver.Options{})

	resp := post(t, ts.URL+"/v1/reviews", `{"property_id":11,"rating":4}`)
	var out domain.GeneratedReview
	decodeBody(t, resp, &out)
	if !strings.Contains(out.Text, "Harbour View Hotel") {
		t.Fatalf("name not resolved: %q", out.Text)
	}

	resp = post(t, ts.URL+"/v1/reviews", `{"property_id":12,"rating":4}`)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status=%d", resp.StatusCode)
	}
}

func TestPostReview_MalformedJSON(t *testing.T) {
	ts := newServer(t, httpserver.Options{})
	resp := post(t, ts.URL+"/v1/reviews", `{"rating":`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status=%d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/problem+json" {
		t.Fatalf("content-type=%s", ct)
	}
}

func TestPostReview_SizeLimits(t *testing.T) {
	ts := newServer(t, httpserver.Options{})

	hs := make([]string, 26)
	for i := range hs {
		hs[i] = strconv.Quote("feature " + strconv.Itoa(i))
	}
	cases := map[string]string{
		"highlights": `{"hotel_name":"Inn","rating":4,"highlights":[` + strings.Join(hs, ",") + `]}`,
		"name":       `{"hotel_name":"` + strings.Repeat("n", 201) + `","rating":4}`,
	}
	for name, body := range cases {
		if resp := post(t, ts.URL+"/v1/reviews", body); resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: status=%d", name, resp.StatusCode)
		}
	}

	resp := post(t, ts.URL+"/v1/reviews", `{"hotel_name":"Inn","rating":4,"highlights":[`+strings.Join(hs[:25], ",")+`]}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("25 highlights: status=%d", resp.StatusCode)
	}
	var out domain.GeneratedReview
	decodeBody(t, resp, &out)
	if out.Metadata.Fallback {
		t.Fatalf("unexpected fallback: %s", out.Metadata.Error)
	}
}

func TestDrafts_CreateGetETagAndHTML(t *testing.T) {
	ts := newServer(t, httpserver.Options{})

	resp := post(t, ts.URL+"/v1/drafts", `{"hotel_name":"Old Mill <b>Inn</b>","property_id":5,"rating":3,"nights":2}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status=%d", resp.StatusCode)
	}
	var d domain.Draft
	decodeBody(t, resp, &d)
	if d.ID == "" || resp.Header.Get("Location") != "/v1/drafts/"+d.ID {
		t.Fatalf("draft=%+v location=%s", d, resp.Header.Get("Location"))
	}

	resp = get(t, ts.URL+"/v1/drafts/"+d.ID, nil)
	etag := resp.Header.Get("ETag")
	if resp.StatusCode != http.StatusOK || !strings.HasPrefix(etag, `W/"`) {
		t.Fatalf("status=%d etag=%q", resp.StatusCode, etag)
	}
	var got domain.Draft
	decodeBody(t, resp, &got)
	if got.Review.Text != d.Review.Text {
		t.Fatal("stored text differs from created draft")
	}

	resp = get(t, ts.URL+"/v1/drafts/"+d.ID, map[string]string{"If-None-Match": etag})
	if resp.StatusCode != http.StatusNotModified {
		t.Fatalf("want 304, got %d", resp.StatusCode)
	}

	resp = get(t, ts.URL+"/v1/drafts/"+d.ID+"?format=html", nil)
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(resp.Body)
	page := buf.String()
	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html") {
		t.Fatalf("content-type=%s", resp.Header.Get("Content-Type"))
	}
	if strings.Count(page, "<p>") != 3 || !strings.Contains(page, "&lt;b&gt;Inn&lt;/b&gt;") {
		t.Fatalf("unexpected html:\n%s", page)
	}
	if resp.Header.Get("ETag") == etag {
		t.Fatal("html and json share an etag")
	}
}

func TestDrafts_NotFound(t *testing.T) {
	ts := newServer(t, httpserver.Options{})
	if resp := get(t, ts.URL+"/v1/drafts/nope", nil); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status=%d", resp.StatusCode)
	}
}

func TestListDrafts(t *testing.T) {
	ts := newServer(t, httpserver.Options{})
	for _, r := range []int{2, 4} {
		body := `{"hotel_name":"Inn","property_id":8,"rating":` + strconv.Itoa(r) + `}`
		if resp := post(t, ts.URL+"/v1/drafts", body); resp.StatusCode != http.StatusCreated {
			t.Fatalf("status=%d", resp.StatusCode)
		}
	}

	resp := get(t, ts.URL+"/v1/hotels/8/drafts?limit=10", nil)
	var page domain.DraftsPage
	decodeBody(t, resp, &page)
	if len(page.Items) != 2 {
		t.Fatalf("items=%d", len(page.Items))
	}

	for _, q := range []string{"/v1/hotels/abc/drafts", "/v1/hotels/8/drafts?limit=0", "/v1/hotels/8/drafts?limit=201"} {
		if resp := get(t, ts.URL+q, nil); resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s: status=%d", q, resp.StatusCode)
		}
	}
}

func TestVocabulary(t *testing.T) {
	ts := newServer(t, httpserver.Options{})

	var before struct{ Total int }
	decodeBody(t, get(t, ts.URL+"/v1/vocabulary/stats", nil), &before)
	if before.Total == 0 {
		t.Fatal("empty vocabulary")
	}

	resp := post(t, ts.URL+"/v1/vocabulary", `{"axis":"descriptor","key":"service/positive","words":["unhurried","unhurried"," "]}`)
	var added struct{ Added int }
	decodeBody(t, resp, &added)
	if resp.StatusCode != http.StatusOK || added.Added != 1 {
		t.Fatalf("status=%d added=%d", resp.StatusCode, added.Added)
	}

	var after struct{ Total int }
	decodeBody(t, get(t, ts.URL+"/v1/vocabulary/stats", nil), &after)
	if after.Total != before.Total+1 {
		t.Fatalf("total %d -> %d", before.Total, after.Total)
	}

	for _, body := range []string{
		`{"axis":"descriptor","key":"spa/positive","words":["calm"]}`,
		`{"axis":"descriptor","key":"service/positive","words":[]}`,
	} {
		if resp := post(t, ts.URL+"/v1/vocabulary", body); resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s: status=%d", body, resp.StatusCode)
		}
	}
}

const rusticVoice = `{"name":"Rustic","intensifier_strength":"mild","hedge_frequency":0.1,
	"rules":[{"pattern":"hotel","replace":"lodge","word":true},{"pattern":"\\bnice\\b","replace":"homely"}],
	"recommendations":["Stay away.","Not for me.","It will do.","A fine lodge.","A perfect hideaway."]}`

func TestVoices(t *testing.T) {
	ts := newServer(t, httpserver.Options{})

	var voices []struct{ Name string }
	decodeBody(t, get(t, ts.URL+"/v1/voices", nil), &voices)
	if len(voices) != 4 {
		t.Fatalf("voices=%v", voices)
	}

	if resp := post(t, ts.URL+"/v1/voices", rusticVoice); resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status=%d", resp.StatusCode)
	}
	if resp := post(t, ts.URL+"/v1/voices", rusticVoice); resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate status=%d", resp.StatusCode)
	}

	resp := post(t, ts.URL+"/v1/reviews", `{"hotel_name":"Pine Cabin","rating":4,"voice":"rustic"}`)
	var out domain.GeneratedReview
	decodeBody(t, resp, &out)
	if out.Metadata.Fallback || out.Metadata.Voice != "rustic" || !strings.HasSuffix(out.Text, "A fine lodge.") {
		t.Fatalf("custom voice not used: %+v", out)
	}

	for _, body := range []string{
		`{"name":"short","recommendations":["a","b"]}`,
		`{"name":"blank","recommendations":["a","b","","d","e"]}`,
		`{"name":"badre","rules":[{"pattern":"(["}],"recommendations":["a","b","c","d","e"]}`,
		`{"name":"loud","intensifier_strength":"deafening","recommendations":["a","b","c","d","e"]}`,
	} {
		if resp := post(t, ts.URL+"/v1/voices", body); resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s: status=%d", body, resp.StatusCode)
		}
	}
}

func TestRateLimitOnGeneration(t *testing.T) {
	ts := newServer(t, httpserver.Options{RateLimitPerMinute: 2})
	for i := 0; i < 2; i++ {
		if resp := post(t, ts.URL+"/v1/reviews", `{"hotel_name":"Inn","rating":3}`); resp.StatusCode != http.StatusOK {
			t.Fatalf("request %d: status=%d", i, resp.StatusCode)
		}
	}
	if resp := post(t, ts.URL+"/v1/reviews", `{"hotel_name":"Inn","rating":3}`); resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("want 429, got %d", resp.StatusCode)
	}
	// reads are not limited
	if resp := get(t, ts.URL+"/v1/voices", nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d", resp.StatusCode)
	}
}

func TestCORSPreflight(t *testing.T) {
	ts := newServer(t, httpserver.Options{CORSOrigins: []string{"https://guest.example"}})
	req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/v1/reviews", nil)
	req.Header.Set("Origin", "https://guest.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "https://guest.example" {
		t.Fatalf("allow-origin=%q", got)
	}
}
