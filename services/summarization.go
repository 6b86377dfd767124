package services

import (
	"context"
	"errors"
	"strings"

	"legalease-backend/internal/ai"
	"legalease-backend/internal/config"
	"legalease-backend/internal/logger"
)

// Placeholder summaries. Summaries are never empty: every failure mode
// maps to one of these so the stored record and the stream both carry
// something readable.
const (
	PlaceholderNoContent     = "No content to summarize."
	PlaceholderNotConfigured = "Summarization is not configured."
	PlaceholderChunkFailed   = "[summary unavailable for this passage]"
)

// SummaryBackend is one summarization provider. Implementations return
// an error per chunk; the service above them turns errors into
// placeholders.
type SummaryBackend interface {
	SummarizeChunk(ctx context.Context, text string) (string, error)
	Configured() bool
}

// SummarizationService produces a plain-language summary for one
// section by chunking it and summarizing each chunk independently.
type SummarizationService struct {
	backend     SummaryBackend
	sectionizer *SectionizerService
}

func NewSummarizationService(backend SummaryBackend, sectionizer *SectionizerService) *SummarizationService {
	return &SummarizationService{
		backend:     backend,
		sectionizer: sectionizer,
	}
}

// NewBackendFromConfig selects the summarization provider.
func NewBackendFromConfig(cfg *config.Config) (SummaryBackend, error) {
	switch cfg.SummaryProvider {
	case "gemini":
		client, err := ai.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, err
		}
		return &geminiBackend{client: client, maxTokens: int32(cfg.SummaryMaxLength * 2)}, nil
	case "huggingface":
		return &hfBackend{
			client:    ai.NewHFClient(cfg.HFAPIKey, cfg.HFAPIURL, cfg.HFTimeout),
			model:     cfg.HFSummarizationModel,
			minLength: cfg.SummaryMinLength,
			maxLength: cfg.SummaryMaxLength,
		}, nil
	default:
		return nil, errors.New("unknown summarization provider: " + cfg.SummaryProvider)
	}
}

// Summarize chunks the section and joins the per-chunk summaries with a
// single space. Failed chunks contribute a placeholder instead of
// aborting the section.
func (ss *SummarizationService) Summarize(ctx context.Context, text string) string {
	if strings.TrimSpace(text) == "" {
		return PlaceholderNoContent
	}

	if !ss.backend.Configured() {
		return PlaceholderNotConfigured
	}

	chunks := ss.sectionizer.ChunkText(text)
	summaries := make([]string, 0, len(chunks))

	for i, chunk := range chunks {
		summary, err := ss.backend.SummarizeChunk(ctx, chunk)
		if err != nil {
			logger.Warn("Chunk summarization failed", "chunk", i, "error", err)
			summaries = append(summaries, PlaceholderChunkFailed)
			continue
		}
		summaries = append(summaries, strings.TrimSpace(summary))
	}

	return strings.Join(summaries, " ")
}

// hfBackend summarizes through the HuggingFace inference API.
type hfBackend struct {
	client    *ai.HFClient
	model     string
	minLength int
	maxLength int
}

func (b *hfBackend) Configured() bool {
	return b.client.HasCredentials()
}

func (b *hfBackend) SummarizeChunk(ctx context.Context, text string) (string, error) {
	return b.client.Summarize(ctx, b.model, text, b.minLength, b.maxLength)
}

// geminiBackend summarizes through the Gemini generative API.
type geminiBackend struct {
	client    *ai.GeminiClient
	maxTokens int32
}

func (b *geminiBackend) Configured() bool {
	return b.client != nil
}

func (b *geminiBackend) SummarizeChunk(ctx context.Context, text string) (string, error) {
	prompt := "Rewrite the following legal text in plain, simple language that a layperson can understand. Keep it brief and do not add information:\n\n" + text
	return b.client.GenerateText(ctx, prompt, b.maxTokens)
}
