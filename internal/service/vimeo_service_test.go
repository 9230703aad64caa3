package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"course_enrich_backend/internal/model"
)

func TestVimeoLookup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("url"); got != "https://vimeo.com/76979871" {
			t.Errorf("url param = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"title":"Demo","duration":634}`))
	}))
	defer server.Close()

	s := NewVimeoService(2 * time.Second)
	s.BaseURL = server.URL

	secs, err := s.Lookup(context.Background(), model.VideoReference{
		Provider:   model.ProviderVimeo,
		ExternalID: "76979871",
	})
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if secs != 634 {
		t.Errorf("duration = %d, want 634", secs)
	}
}

func TestVimeoLookupNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	s := NewVimeoService(2 * time.Second)
	s.BaseURL = server.URL

	if _, err := s.Lookup(context.Background(), model.VideoReference{Provider: model.ProviderVimeo, ExternalID: "0"}); err == nil {
		t.Error("non-200 oEmbed response must be an error")
	}
}

func TestVimeoCanHandle(t *testing.T) {
	s := NewVimeoService(time.Second)

	if !s.CanHandle(model.VideoReference{Provider: model.ProviderVimeo}) {
		t.Error("must handle vimeo references")
	}
	if s.CanHandle(model.VideoReference{Provider: model.ProviderYouTube}) {
		t.Error("must not handle youtube references")
	}
}
