package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"legalease-backend/internal/logger"
	"legalease-backend/internal/telemetry"
	"legalease-backend/models"
)

// pipelineLang is the language every document is normalized to before
// summarization; the summarization models are English-only.
const pipelineLang = "en"

// Stream event shapes. One SectionEvent per completed section in
// ordinal order, then one GlossaryEvent, then one DoneEvent. An
// ErrorEvent replaces all of these and terminates the stream early.
type SectionEvent struct {
	Section    int    `json:"section"`
	Original   string `json:"original"`
	Summary    string `json:"summary"`
	InputLang  string `json:"inputLang"`
	OutputLang string `json:"outputLang"`
}

type GlossaryEvent struct {
	Glossary map[string]string `json:"glossary"`
}

type DoneEvent struct {
	Done bool `json:"done"`
}

type ErrorEvent struct {
	Error string `json:"error"`
}

// ProgressEmitter receives pipeline events as they happen. Emit errors
// mean the client stopped listening; the pipeline keeps going.
type ProgressEmitter interface {
	Emit(event any) error
}

// UploadInput carries one uploaded document into the pipeline.
type UploadInput struct {
	Content    []byte
	MimeType   string
	Filename   string
	UserID     string
	OutputLang string
}

// PipelineService runs the full document simplification sequence:
// extract, detect language, translate, sectionize, summarize, extract
// jargon, resolve glossary terms, persist.
type PipelineService struct {
	extractor   *ExtractorService
	detector    *LanguageDetector
	translator  *TranslationService
	sectionizer *SectionizerService
	summarizer  *SummarizationService
	jargon      *JargonExtractor
	glossary    *GlossaryService
	store       AnalysisStore
	metrics     *telemetry.Metrics
}

func NewPipelineService(
	extractor *ExtractorService,
	detector *LanguageDetector,
	translator *TranslationService,
	sectionizer *SectionizerService,
	summarizer *SummarizationService,
	jargon *JargonExtractor,
	glossary *GlossaryService,
	store AnalysisStore,
	metrics *telemetry.Metrics,
) *PipelineService {
	return &PipelineService{
		extractor:   extractor,
		detector:    detector,
		translator:  translator,
		sectionizer: sectionizer,
		summarizer:  summarizer,
		jargon:      jargon,
		glossary:    glossary,
		store:       store,
		metrics:     metrics,
	}
}

// Run processes one document and streams progress through the emitter.
// Extraction and persistence errors terminate the run with an error
// event; translation, summarization, and glossary failures degrade to
// fallback values and the run continues.
func (p *PipelineService) Run(ctx context.Context, input UploadInput, emitter ProgressEmitter) {
	tracer := otel.Tracer("pipeline")
	ctx, span := tracer.Start(ctx, "pipeline.run")
	defer span.End()

	span.SetAttributes(
		attribute.String("pipeline.filename", input.Filename),
		attribute.String("pipeline.mime_type", input.MimeType),
		attribute.String("pipeline.output_lang", input.OutputLang),
	)

	start := time.Now()

	text, err := p.extract(ctx, input)
	if err != nil {
		p.emitError(emitter, err)
		p.recordRun(start, "failed", 0)
		return
	}

	inputLang := p.detectLanguage(ctx, text)
	span.SetAttributes(attribute.String("pipeline.input_lang", inputLang))

	// Normalize to English before summarization
	workingText := text
	if inputLang != pipelineLang {
		workingText = p.translateStage(ctx, text, inputLang, pipelineLang)
	}

	sections := p.sectionizeStage(ctx, workingText)
	if len(sections) == 0 {
		p.emitError(emitter, ErrEmptyDocument)
		p.recordRun(start, "failed", 0)
		return
	}
	span.SetAttributes(attribute.Int("pipeline.sections", len(sections)))

	analysis := &models.Analysis{
		UserID:     input.UserID,
		Filename:   input.Filename,
		MimeType:   input.MimeType,
		InputLang:  inputLang,
		OutputLang: input.OutputLang,
	}
	analysisID, err := p.store.Create(ctx, analysis)
	if err != nil {
		logger.Error("Failed to create analysis record", "error", err)
		p.emitError(emitter, fmt.Errorf("failed to persist analysis"))
		p.recordRun(start, "failed", 0)
		return
	}

	glossary := make(map[string]string)
	resolved := make(map[string]bool)
	stored := make([]models.Section, 0, len(sections))

	for i, original := range sections {
		summary := p.processSection(ctx, original, input.OutputLang)

		// Glossary terms come from the section original, memoized
		// across the document so each term is resolved once
		for _, term := range p.jargon.ExtractTerms(original) {
			if resolved[term] {
				continue
			}
			resolved[term] = true
			glossary[term] = p.glossary.Resolve(ctx, term)
			if p.metrics != nil {
				p.metrics.RecordGlossaryLookup("pipeline", true)
			}
		}

		stored = append(stored, models.Section{
			Index:      i + 1,
			Original:   original,
			Summary:    summary,
			OutputLang: input.OutputLang,
		})

		if err := emitter.Emit(SectionEvent{
			Section:    i + 1,
			Original:   original,
			Summary:    summary,
			InputLang:  inputLang,
			OutputLang: input.OutputLang,
		}); err != nil {
			logger.Debug("Section event emit failed, client likely gone", "section", i+1)
		}
	}

	if err := emitter.Emit(GlossaryEvent{Glossary: glossary}); err != nil {
		logger.Debug("Glossary event emit failed, client likely gone")
	}

	if err := p.store.Complete(ctx, analysisID, stored, glossary); err != nil {
		logger.Error("Failed to complete analysis record", "analysis_id", analysisID.Hex(), "error", err)
		if failErr := p.store.Fail(ctx, analysisID, "persistence failed"); failErr != nil {
			logger.Error("Failed to mark analysis failed", "analysis_id", analysisID.Hex(), "error", failErr)
		}
		p.emitError(emitter, fmt.Errorf("failed to persist analysis"))
		p.recordRun(start, "failed", int64(len(stored)))
		return
	}

	if err := emitter.Emit(DoneEvent{Done: true}); err != nil {
		logger.Debug("Done event emit failed, client likely gone")
	}

	p.recordRun(start, "completed", int64(len(stored)))
}

func (p *PipelineService) extract(ctx context.Context, input UploadInput) (string, error) {
	tracer := otel.Tracer("pipeline")
	_, span := tracer.Start(ctx, "pipeline.extract")
	defer span.End()

	text, err := p.extractor.ExtractText(input.Content, input.MimeType, input.Filename)
	if err != nil {
		span.SetAttributes(attribute.Bool("pipeline.error", true))
		return "", err
	}
	span.SetAttributes(attribute.Int("pipeline.extracted_chars", len(text)))
	return text, nil
}

func (p *PipelineService) detectLanguage(ctx context.Context, text string) string {
	tracer := otel.Tracer("pipeline")
	_, span := tracer.Start(ctx, "pipeline.detect_language")
	defer span.End()

	lang := p.detector.Detect(text)
	span.SetAttributes(attribute.String("pipeline.detected_lang", lang))
	return lang
}

func (p *PipelineService) translateStage(ctx context.Context, text, from, to string) string {
	tracer := otel.Tracer("pipeline")
	ctx, span := tracer.Start(ctx, "pipeline.translate")
	defer span.End()

	span.SetAttributes(
		attribute.String("pipeline.translate_from", from),
		attribute.String("pipeline.translate_to", to),
	)
	return p.translator.Translate(ctx, text, from, to)
}

func (p *PipelineService) sectionizeStage(ctx context.Context, text string) []string {
	tracer := otel.Tracer("pipeline")
	_, span := tracer.Start(ctx, "pipeline.sectionize")
	defer span.End()

	sections := p.sectionizer.SplitSections(text)
	span.SetAttributes(attribute.Int("pipeline.section_count", len(sections)))
	return sections
}

// processSection summarizes one section and translates the summary to
// the requested output language.
func (p *PipelineService) processSection(ctx context.Context, original, outputLang string) string {
	tracer := otel.Tracer("pipeline")
	ctx, span := tracer.Start(ctx, "pipeline.process_section")
	defer span.End()

	summary := p.summarizer.Summarize(ctx, original)

	if outputLang != pipelineLang {
		summary = p.translator.Translate(ctx, summary, pipelineLang, outputLang)
	}

	return summary
}

func (p *PipelineService) emitError(emitter ProgressEmitter, err error) {
	// Only the extraction error taxonomy is safe to show verbatim
	message := "document processing failed"
	for _, known := range []error{ErrUnsupportedFormat, ErrExtractionFailed, ErrEmptyDocument} {
		if errors.Is(err, known) {
			message = err.Error()
			break
		}
	}
	if emitErr := emitter.Emit(ErrorEvent{Error: message}); emitErr != nil {
		logger.Debug("Error event emit failed, client likely gone")
	}
}

func (p *PipelineService) recordRun(start time.Time, status string, sections int64) {
	if p.metrics != nil {
		p.metrics.RecordPipeline(time.Since(start).Seconds(), status, sections)
	}
}
