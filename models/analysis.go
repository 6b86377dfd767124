package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Analysis status constants
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Section is one paragraph-level unit of an analyzed document. Index values
// form a contiguous 1..N sequence in document order. Summary is never empty:
// failed summarization stores a placeholder string instead.
type Section struct {
	Index              int    `bson:"index" json:"index"`
	Original           string `bson:"original,omitempty" json:"original"`
	OriginalCompressed []byte `bson:"original_compressed,omitempty" json:"-"`
	Compression        string `bson:"compression,omitempty" json:"-"`
	Summary            string `bson:"summary" json:"summary"`
	OutputLang         string `bson:"output_lang" json:"output_lang"`
}

// Analysis is the persisted record of one document simplification run.
// It is created with status "processing" when the pipeline starts working
// on a document and updated exactly once when the run completes or fails.
type Analysis struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       string             `bson:"user_id" json:"user_id"`
	Filename     string             `bson:"filename" json:"filename"`
	MimeType     string             `bson:"mime_type" json:"mime_type"`
	InputLang    string             `bson:"input_lang" json:"input_lang"`
	OutputLang   string             `bson:"output_lang" json:"output_lang"`
	Sections     []Section          `bson:"sections,omitempty" json:"sections"`
	Glossary     map[string]string  `bson:"glossary,omitempty" json:"glossary"`
	SectionCount int                `bson:"section_count" json:"section_count"`
	Status       string             `bson:"status" json:"status"`
	ErrorMessage string             `bson:"error_message,omitempty" json:"error_message,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

// AnalysisSummary is the projection returned by history listings.
type AnalysisSummary struct {
	ID           primitive.ObjectID `bson:"_id" json:"id"`
	Filename     string             `bson:"filename" json:"filename"`
	MimeType     string             `bson:"mime_type" json:"mime_type"`
	InputLang    string             `bson:"input_lang" json:"input_lang"`
	OutputLang   string             `bson:"output_lang" json:"output_lang"`
	SectionCount int                `bson:"section_count" json:"section_count"`
	Status       string             `bson:"status" json:"status"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}

// HistoryPage wraps a listing response.
type HistoryPage struct {
	Analyses []AnalysisSummary `json:"analyses"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	Limit    int               `json:"limit"`
}
