package services

import (
	"context"
	"fmt"
	"sync"

	"legalease-backend/internal/ai"
	"legalease-backend/internal/config"
	"legalease-backend/internal/logger"
)

var (
	translationOnce   sync.Once
	sharedTranslation *TranslationService
)

// TranslationService translates text between English and Hindi using
// opus-mt translation models. It degrades instead of failing: any model
// problem returns the input text unchanged.
type TranslationService struct {
	client        *ai.HFClient
	modelTemplate string
}

// GetTranslationService returns the process-wide translation service,
// creating it on first use.
func GetTranslationService(cfg *config.Config) *TranslationService {
	translationOnce.Do(func() {
		sharedTranslation = &TranslationService{
			client:        ai.NewHFClient(cfg.HFAPIKey, cfg.HFAPIURL, cfg.TranslationTimeout),
			modelTemplate: cfg.HFTranslationModel,
		}
	})
	return sharedTranslation
}

// NewTranslationService builds an unshared instance, used by tests and
// callers that manage their own lifecycle.
func NewTranslationService(client *ai.HFClient, modelTemplate string) *TranslationService {
	return &TranslationService{
		client:        client,
		modelTemplate: modelTemplate,
	}
}

// Translate converts text from sourceLang to targetLang. Identical
// language pairs return the input without touching the model.
func (ts *TranslationService) Translate(ctx context.Context, text, sourceLang, targetLang string) string {
	if sourceLang == targetLang || text == "" {
		return text
	}

	model := fmt.Sprintf(ts.modelTemplate, sourceLang, targetLang)
	translated, err := ts.client.Translate(ctx, model, text)
	if err != nil {
		logger.Warn("Translation failed, keeping original text", "model", model, "error", err)
		return text
	}

	return translated
}
