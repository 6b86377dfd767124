package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"legalease-backend/internal/logger"
)

// GlossaryService resolves legal terms to plain-language definitions via
// a public dictionary API. Lookups never fail: any error becomes the
// not-found fallback definition. A Redis cache in front of the API is
// fail-open, a cache outage just means more upstream calls.
type GlossaryService struct {
	baseURL    string
	httpClient *http.Client
	rdb        *redis.Client
	cacheTTL   time.Duration
}

// dictionaryapi.dev response shape, only the fields we read
type dictionaryEntry struct {
	Word     string `json:"word"`
	Meanings []struct {
		PartOfSpeech string `json:"partOfSpeech"`
		Definitions  []struct {
			Definition string `json:"definition"`
		} `json:"definitions"`
	} `json:"meanings"`
}

func NewGlossaryService(baseURL string, rdb *redis.Client, cacheTTLSeconds int) *GlossaryService {
	return &GlossaryService{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		rdb:      rdb,
		cacheTTL: time.Duration(cacheTTLSeconds) * time.Second,
	}
}

// Resolve returns a definition for the term. The result is always a
// non-empty string.
func (gs *GlossaryService) Resolve(ctx context.Context, term string) string {
	tracer := otel.Tracer("glossary-service")
	ctx, span := tracer.Start(ctx, "glossary.resolve")
	defer span.End()

	span.SetAttributes(attribute.String("glossary.term", term))

	cacheKey := "glossary:" + strings.ToLower(term)

	if gs.rdb != nil {
		if cached, err := gs.rdb.Get(ctx, cacheKey).Result(); err == nil && cached != "" {
			span.SetAttributes(attribute.Bool("glossary.cache_hit", true))
			return cached
		}
	}

	definition := gs.lookup(ctx, term)

	if gs.rdb != nil {
		if err := gs.rdb.Set(ctx, cacheKey, definition, gs.cacheTTL).Err(); err != nil {
			logger.Debug("Glossary cache write failed", "term", term, "error", err)
		}
	}

	return definition
}

func (gs *GlossaryService) lookup(ctx context.Context, term string) string {
	fallback := fmt.Sprintf("Definition not found for %s", term)

	reqURL := fmt.Sprintf("%s/%s", gs.baseURL, url.PathEscape(strings.ToLower(term)))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fallback
	}

	resp, err := gs.httpClient.Do(req)
	if err != nil {
		logger.Debug("Dictionary lookup failed", "term", term, "error", err)
		return fallback
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fallback
	}

	var entries []dictionaryEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		logger.Debug("Dictionary response decode failed", "term", term, "error", err)
		return fallback
	}

	// First definition of the first meaning of the first entry
	if len(entries) > 0 && len(entries[0].Meanings) > 0 && len(entries[0].Meanings[0].Definitions) > 0 {
		if def := strings.TrimSpace(entries[0].Meanings[0].Definitions[0].Definition); def != "" {
			return def
		}
	}

	return fallback
}
