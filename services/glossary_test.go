package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestResolveFirstDefinition(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/indemnification") {
			t.Errorf("unexpected lookup path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"word":"indemnification","meanings":[{"partOfSpeech":"noun","definitions":[{"definition":"Protection against loss or damage."},{"definition":"Second definition ignored."}]}]}]`))
	}))
	defer server.Close()

	gs := NewGlossaryService(server.URL, nil, 60)

	got := gs.Resolve(context.Background(), "Indemnification")
	if got != "Protection against loss or damage." {
		t.Fatalf("unexpected definition: %q", got)
	}
}

func TestResolveFallbackOnNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	gs := NewGlossaryService(server.URL, nil, 60)

	got := gs.Resolve(context.Background(), "Xyzzyterm")
	if got != "Definition not found for Xyzzyterm" {
		t.Fatalf("unexpected fallback: %q", got)
	}
}

func TestResolveFallbackOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	gs := NewGlossaryService(server.URL, nil, 60)

	got := gs.Resolve(context.Background(), "Liability")
	if got != "Definition not found for Liability" {
		t.Fatalf("unexpected fallback: %q", got)
	}
}

func TestResolveFallbackOnUnreachableAPI(t *testing.T) {
	gs := NewGlossaryService("http://127.0.0.1:1", nil, 60)

	got := gs.Resolve(context.Background(), "Damages")
	if got != "Definition not found for Damages" {
		t.Fatalf("unexpected fallback: %q", got)
	}
}

func TestResolveFallbackOnMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"title":"No Definitions Found"}`))
	}))
	defer server.Close()

	gs := NewGlossaryService(server.URL, nil, 60)

	got := gs.Resolve(context.Background(), "Covenant")
	if got != "Definition not found for Covenant" {
		t.Fatalf("unexpected fallback: %q", got)
	}
}
