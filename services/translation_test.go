package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"legalease-backend/internal/ai"
)

func TestTranslateSameLanguageIdentity(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	ts := NewTranslationService(ai.NewHFClient("test-key", server.URL, 5), "Helsinki-NLP/opus-mt-%s-%s")

	text := "यह अनुबंध दोनों पक्षों पर लागू होता है"
	if got := ts.Translate(context.Background(), text, "hi", "hi"); got != text {
		t.Fatalf("same-language translation changed text: %q", got)
	}
	if calls != 0 {
		t.Fatalf("model invoked %d times for same-language pair", calls)
	}
}

func TestTranslateUsesLanguagePairModel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/Helsinki-NLP/opus-mt-hi-en") {
			t.Errorf("unexpected model path: %s", r.URL.Path)
		}
		w.Write([]byte(`[{"translation_text":"This contract binds both parties"}]`))
	}))
	defer server.Close()

	ts := NewTranslationService(ai.NewHFClient("test-key", server.URL, 5), "Helsinki-NLP/opus-mt-%s-%s")

	got := ts.Translate(context.Background(), "यह अनुबंध", "hi", "en")
	if got != "This contract binds both parties" {
		t.Fatalf("unexpected translation: %q", got)
	}
}

func TestTranslateFailureReturnsInput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	ts := NewTranslationService(ai.NewHFClient("test-key", server.URL, 5), "Helsinki-NLP/opus-mt-%s-%s")

	text := "keep me intact"
	if got := ts.Translate(context.Background(), text, "en", "hi"); got != text {
		t.Fatalf("failed translation did not fall back to input: %q", got)
	}
}

func TestTranslateWithoutCredentialsReturnsInput(t *testing.T) {
	ts := NewTranslationService(ai.NewHFClient("", "http://127.0.0.1:1", 5), "Helsinki-NLP/opus-mt-%s-%s")

	text := "no credentials configured"
	if got := ts.Translate(context.Background(), text, "en", "hi"); got != text {
		t.Fatalf("expected input back without credentials, got %q", got)
	}
}

func TestTranslateEmptyText(t *testing.T) {
	ts := NewTranslationService(ai.NewHFClient("test-key", "http://127.0.0.1:1", 5), "Helsinki-NLP/opus-mt-%s-%s")

	if got := ts.Translate(context.Background(), "", "en", "hi"); got != "" {
		t.Fatalf("expected empty output for empty input, got %q", got)
	}
}
