package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all application metrics
type Metrics struct {
	RequestCounter     metric.Int64Counter
	RequestDuration    metric.Float64Histogram
	PipelineDuration   metric.Float64Histogram
	SectionsProcessed  metric.Int64Counter
	GlossaryLookups    metric.Int64Counter
	InferenceFailures  metric.Int64Counter
	DatabaseOperations metric.Int64Counter
}

// InitMetrics initializes all application metrics
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter("legalease-backend")

	requestCounter, err := meter.Int64Counter(
		"http.requests.total",
		metric.WithDescription("Total HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	requestDuration, err := meter.Float64Histogram(
		"http.request.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	pipelineDuration, err := meter.Float64Histogram(
		"pipeline.duration",
		metric.WithDescription("Document pipeline duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	sectionsProcessed, err := meter.Int64Counter(
		"pipeline.sections.processed",
		metric.WithDescription("Total document sections processed"),
	)
	if err != nil {
		return nil, err
	}

	glossaryLookups, err := meter.Int64Counter(
		"glossary.lookups.total",
		metric.WithDescription("Total glossary term lookups"),
	)
	if err != nil {
		return nil, err
	}

	inferenceFailures, err := meter.Int64Counter(
		"inference.failures.total",
		metric.WithDescription("Total model inference failures"),
	)
	if err != nil {
		return nil, err
	}

	databaseOperations, err := meter.Int64Counter(
		"database.operations.total",
		metric.WithDescription("Total database operations"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		RequestCounter:     requestCounter,
		RequestDuration:    requestDuration,
		PipelineDuration:   pipelineDuration,
		SectionsProcessed:  sectionsProcessed,
		GlossaryLookups:    glossaryLookups,
		InferenceFailures:  inferenceFailures,
		DatabaseOperations: databaseOperations,
	}, nil
}

// RecordRequest records HTTP request metrics
func (m *Metrics) RecordRequest(method, path, status string, duration float64) {
	attrs := []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("http.path", path),
		attribute.String("http.status", status),
	}

	m.RequestCounter.Add(context.Background(), 1, metric.WithAttributes(attrs...))
	m.RequestDuration.Record(context.Background(), duration, metric.WithAttributes(attrs...))
}

// RecordPipeline records a full pipeline run
func (m *Metrics) RecordPipeline(duration float64, status string, sections int64) {
	attrs := []attribute.KeyValue{
		attribute.String("pipeline.status", status),
	}

	m.PipelineDuration.Record(context.Background(), duration, metric.WithAttributes(attrs...))
	m.SectionsProcessed.Add(context.Background(), sections, metric.WithAttributes(attrs...))
}

// RecordGlossaryLookup records a term resolution attempt
func (m *Metrics) RecordGlossaryLookup(source string, found bool) {
	attrs := []attribute.KeyValue{
		attribute.String("glossary.source", source),
		attribute.Bool("glossary.found", found),
	}

	m.GlossaryLookups.Add(context.Background(), 1, metric.WithAttributes(attrs...))
}

// RecordInferenceFailure records a failed model call
func (m *Metrics) RecordInferenceFailure(provider, operation string) {
	attrs := []attribute.KeyValue{
		attribute.String("inference.provider", provider),
		attribute.String("inference.operation", operation),
	}

	m.InferenceFailures.Add(context.Background(), 1, metric.WithAttributes(attrs...))
}

// RecordDatabaseOperation records database operation metrics
func (m *Metrics) RecordDatabaseOperation(operation, collection string, success bool) {
	attrs := []attribute.KeyValue{
		attribute.String("db.operation", operation),
		attribute.String("db.collection", collection),
		attribute.Bool("db.success", success),
	}

	m.DatabaseOperations.Add(context.Background(), 1, metric.WithAttributes(attrs...))
}
