package headlines

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Adda-Baaj/headlines/internal/settings"
	"github.com/Adda-Baaj/headlines/pkg/newsapi"
)

type memStore struct {
	s      settings.Settings
	saves  int
	failOn error
}

func (m *memStore) Load() (settings.Settings, error) { return m.s, nil }
func (m *memStore) Store(s settings.Settings) error {
	if m.failOn != nil {
		return m.failOn
	}
	m.s = s
	m.saves++
	return nil
}
func (m *memStore) Close() error { return nil }

const okBody = `{"status":"ok","totalResults":2,"articles":[
 {"title":"First","description":"One","url":"https://a.example/1"},
 {"title":"Second","description":null,"url":"https://a.example/2"}]}`

func newsServer(t *testing.T, status int, body string, hits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			atomic.AddInt32(hits, 1)
		}
		if r.Header.Get("Authorization") != "key" {
			t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func factoryFor(srv *httptest.Server) ClientFactory {
	return func(key string) *newsapi.Client {
		return newsapi.New(key, newsapi.WithBaseURL(srv.URL+"/v2/"))
	}
}

func TestNewReflectsStoredKey(t *testing.T) {
	h, err := New(&memStore{s: settings.Default()}, nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if h.APIKeyInitialized() {
		t.Fatalf("expected uninitialized without key")
	}
	if !h.DarkMode() {
		t.Fatalf("expected dark mode by default")
	}

	h, err = New(&memStore{s: settings.Settings{APIKey: "key"}}, nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !h.APIKeyInitialized() {
		t.Fatalf("expected initialized with stored key")
	}
}

func TestRefreshBuildsCards(t *testing.T) {
	srv := newsServer(t, http.StatusOK, okBody, nil)
	h, err := New(&memStore{s: settings.Settings{APIKey: "key"}}, factoryFor(srv), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := h.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	cards := h.Articles()
	want := []NewsCard{
		{Title: "First", Desc: "One", URL: "https://a.example/1"},
		{Title: "Second", Desc: "...", URL: "https://a.example/2"},
	}
	if len(cards) != len(want) {
		t.Fatalf("got %d cards", len(cards))
	}
	for i := range want {
		if cards[i] != want[i] {
			t.Fatalf("card %d = %+v, want %+v", i, cards[i], want[i])
		}
	}

	cards[0].Title = "mutated"
	if h.Articles()[0].Title != "First" {
		t.Fatalf("Articles must return a copy")
	}
}

func TestRefreshKeepsCardsOnError(t *testing.T) {
	good := newsServer(t, http.StatusOK, okBody, nil)
	h, _ := New(&memStore{s: settings.Settings{APIKey: "key"}}, factoryFor(good), nil)
	if err := h.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	bad := newsServer(t, http.StatusUnauthorized, `{"status":"error","code":"apiKeyDisabled"}`, nil)
	h.factory = factoryFor(bad)
	err := h.Refresh(context.Background())
	if !errors.Is(err, newsapi.ErrBadRequest) {
		t.Fatalf("expected bad request error, got %v", err)
	}
	if len(h.Articles()) != 2 {
		t.Fatalf("prior cards must survive a failed refresh")
	}
}

func TestStartFetchAndPoll(t *testing.T) {
	var hits int32
	srv := newsServer(t, http.StatusOK, okBody, &hits)
	h, _ := New(&memStore{s: settings.Settings{APIKey: "key"}}, factoryFor(srv), nil)

	if !h.StartFetch(context.Background()) {
		t.Fatalf("expected fetch to start")
	}
	if h.StartFetch(context.Background()) {
		t.Fatalf("second StartFetch must not issue another request")
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		changed, err := h.Poll()
		if err != nil {
			t.Fatalf("Poll: %v", err)
		}
		if changed {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("fetch did not complete")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if h.Fetching() {
		t.Fatalf("expected no pending fetch after poll")
	}
	if len(h.Articles()) != 2 || atomic.LoadInt32(&hits) != 1 {
		t.Fatalf("cards=%d hits=%d", len(h.Articles()), hits)
	}
	if changed, err := h.Poll(); changed || err != nil {
		t.Fatalf("idle Poll = %v, %v", changed, err)
	}
}

func TestSaveAPIKey(t *testing.T) {
	store := &memStore{s: settings.Default()}
	h, _ := New(store, nil, nil)

	if err := h.SaveAPIKey("   "); !errors.Is(err, ErrEmptyAPIKey) {
		t.Fatalf("expected ErrEmptyAPIKey, got %v", err)
	}
	if h.APIKeyInitialized() || store.saves != 0 {
		t.Fatalf("empty key must not be stored")
	}

	if err := h.SaveAPIKey(" abc "); err != nil {
		t.Fatalf("SaveAPIKey: %v", err)
	}
	if !h.APIKeyInitialized() || store.s.APIKey != "abc" || !store.s.DarkMode {
		t.Fatalf("unexpected stored settings %+v", store.s)
	}
}

func TestSaveAPIKeyStoreFailure(t *testing.T) {
	h, _ := New(&memStore{s: settings.Default(), failOn: errors.New("disk full")}, nil, nil)
	if err := h.SaveAPIKey("abc"); err == nil {
		t.Fatalf("expected store error")
	}
	if h.APIKeyInitialized() {
		t.Fatalf("failed save must not flip initialized")
	}
}

func TestToggleThemePersists(t *testing.T) {
	store := &memStore{s: settings.Settings{DarkMode: true, APIKey: "k"}}
	h, _ := New(store, nil, nil)
	if err := h.ToggleTheme(); err != nil {
		t.Fatalf("ToggleTheme: %v", err)
	}
	if h.DarkMode() || store.s.DarkMode || store.s.APIKey != "k" {
		t.Fatalf("unexpected state dark=%v stored=%+v", h.DarkMode(), store.s)
	}
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, []NewsCard{
		{Title: "A", Desc: "da", URL: "https://a"},
		{Title: "B", Desc: "...", URL: "https://b"},
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := "> A\nda\n- https://a\n\n> B\n...\n- https://b\n"
	if buf.String() != want {
		t.Fatalf("Render =\n%q\nwant\n%q", buf.String(), want)
	}
}
