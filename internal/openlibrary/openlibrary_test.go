package openlibrary

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search.json" {
			t.Errorf("path = %q, want /search.json", r.URL.Path)
		}
		if got := r.URL.Query().Get("q"); got != "dune herbert" {
			t.Errorf("q = %q, want %q", got, "dune herbert")
		}
		if got := r.URL.Query().Get("limit"); got != "3" {
			t.Errorf("limit = %q, want 3", got)
		}
		w.Write([]byte(`{"docs": [
			{"key": "/works/OL893415W", "title": "Dune", "author_name": ["Frank Herbert"], "cover_i": 11481354, "first_publish_year": 1965},
			{"title": "No key"},
			{"key": "/works/OL2W", "title": "Dune Messiah"}
		]}`))
	}))
	defer server.Close()

	c := NewClient(server.URL)
	results, err := c.Search(context.Background(), "dune herbert", 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("len = %d, want 2", len(results))
	}

	dune := results[0]
	if dune.WorkKey != "/works/OL893415W" || dune.Title != "Dune" {
		t.Errorf("result = %+v", dune)
	}
	if dune.Author == nil || *dune.Author != "Frank Herbert" {
		t.Errorf("author = %v, want Frank Herbert", dune.Author)
	}
	if dune.Year == nil || *dune.Year != 1965 {
		t.Errorf("year = %v, want 1965", dune.Year)
	}
	wantCover := "https://covers.openlibrary.org/b/id/11481354-M.jpg"
	if dune.CoverURL == nil || *dune.CoverURL != wantCover {
		t.Errorf("cover = %v, want %s", dune.CoverURL, wantCover)
	}

	messiah := results[1]
	if messiah.Author != nil || messiah.CoverURL != nil || messiah.Year != nil {
		t.Errorf("expected missing fields to be nil: %+v", messiah)
	}
}

func TestSearchShortQuery(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	results, err := NewClient(server.URL).Search(context.Background(), " du ", 3)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("results = %v, want none", results)
	}
	if calls.Load() != 0 {
		t.Errorf("upstream calls = %d, want 0", calls.Load())
	}
}

func TestSearchUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := NewClient(server.URL).Search(context.Background(), "dune", 3)
	if err == nil {
		t.Fatal("expected error for 503")
	}
}

func TestWorkDescription(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"string", `{"description": "Spice and sand."}`, "Spice and sand."},
		{"typed", `{"description": {"type": "/type/text", "value": "Spice and sand."}}`, "Spice and sand."},
		{"missing", `{"title": "Dune"}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/works/OL893415W.json" {
					t.Errorf("path = %q", r.URL.Path)
				}
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			got, err := NewClient(server.URL).WorkDescription(context.Background(), "/works/OL893415W")
			if err != nil {
				t.Fatalf("work: %v", err)
			}
			if got != tt.want {
				t.Errorf("description = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWorkDescriptionInvalidKey(t *testing.T) {
	c := NewClient("http://127.0.0.1:0")
	for _, key := range []string{"", "OL1W", "/works/", "/authors/OL1A", "/works/OL1W/../x", "/works/OL1W?x=1"} {
		if _, err := c.WorkDescription(context.Background(), key); !errors.Is(err, ErrInvalidWorkKey) {
			t.Errorf("WorkDescription(%q) err = %v, want ErrInvalidWorkKey", key, err)
		}
	}
}
