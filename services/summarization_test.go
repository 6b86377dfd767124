package services

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// fakeBackend scripts per-chunk behavior for summarization tests.
type fakeBackend struct {
	configured bool
	fail       bool
	calls      int
}

func (f *fakeBackend) Configured() bool { return f.configured }

func (f *fakeBackend) SummarizeChunk(ctx context.Context, text string) (string, error) {
	f.calls++
	if f.fail {
		return "", errors.New("model unavailable")
	}
	return "summary-" + text[:3], nil
}

func TestSummarizeEmptyInput(t *testing.T) {
	backend := &fakeBackend{configured: true}
	ss := NewSummarizationService(backend, NewSectionizerService(10))

	for _, input := range []string{"", "   ", "\n\t"} {
		if got := ss.Summarize(context.Background(), input); got != PlaceholderNoContent {
			t.Errorf("input %q: expected no-content placeholder, got %q", input, got)
		}
	}
	if backend.calls != 0 {
		t.Fatalf("backend invoked for empty input")
	}
}

func TestSummarizeUnconfiguredBackend(t *testing.T) {
	backend := &fakeBackend{configured: false}
	ss := NewSummarizationService(backend, NewSectionizerService(10))

	if got := ss.Summarize(context.Background(), "some legal text"); got != PlaceholderNotConfigured {
		t.Fatalf("expected not-configured placeholder, got %q", got)
	}
	if backend.calls != 0 {
		t.Fatalf("backend invoked while unconfigured")
	}
}

func TestSummarizeJoinsChunkSummaries(t *testing.T) {
	backend := &fakeBackend{configured: true}
	ss := NewSummarizationService(backend, NewSectionizerService(10))

	// 25 chars with chunk size 10 means 3 chunks
	got := ss.Summarize(context.Background(), "abcdefghijklmnopqrstuvwxy")
	if backend.calls != 3 {
		t.Fatalf("expected 3 chunk calls, got %d", backend.calls)
	}
	if len(strings.Split(got, " ")) != 3 {
		t.Fatalf("expected 3 space-joined summaries, got %q", got)
	}
}

func TestSummarizeFailedChunksBecomePlaceholders(t *testing.T) {
	backend := &fakeBackend{configured: true, fail: true}
	ss := NewSummarizationService(backend, NewSectionizerService(10))

	got := ss.Summarize(context.Background(), "abcdefghijklmnopqrst")
	want := PlaceholderChunkFailed + " " + PlaceholderChunkFailed
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestSummarizeNeverEmpty(t *testing.T) {
	cases := []struct {
		name    string
		backend *fakeBackend
		input   string
	}{
		{"empty input", &fakeBackend{configured: true}, ""},
		{"unconfigured", &fakeBackend{configured: false}, "text"},
		{"all failures", &fakeBackend{configured: true, fail: true}, "text"},
		{"success", &fakeBackend{configured: true}, "text"},
	}

	for _, tc := range cases {
		ss := NewSummarizationService(tc.backend, NewSectionizerService(10))
		if got := ss.Summarize(context.Background(), tc.input); strings.TrimSpace(got) == "" {
			t.Errorf("%s: summary is empty", tc.name)
		}
	}
}
