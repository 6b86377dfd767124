package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"legalease-backend/internal/logger"
	"legalease-backend/internal/telemetry"
	"legalease-backend/models"
	"legalease-backend/utils"
)

// ErrAnalysisNotFound covers both truly absent records and records
// owned by another user.
var ErrAnalysisNotFound = errors.New("analysis not found")

// AnalysisStore persists pipeline runs and serves the history endpoints.
type AnalysisStore interface {
	Create(ctx context.Context, analysis *models.Analysis) (primitive.ObjectID, error)
	Complete(ctx context.Context, id primitive.ObjectID, sections []models.Section, glossary map[string]string) error
	Fail(ctx context.Context, id primitive.ObjectID, reason string) error
	List(ctx context.Context, userID string, page, limit int) (*models.HistoryPage, error)
	Get(ctx context.Context, userID string, id primitive.ObjectID) (*models.Analysis, error)
	Delete(ctx context.Context, userID string, id primitive.ObjectID) error
	FailStale(ctx context.Context, olderThan time.Duration) (int64, error)
}

// MongoAnalysisStore is the MongoDB-backed AnalysisStore.
type MongoAnalysisStore struct {
	collection *mongo.Collection
	metrics    *telemetry.Metrics
}

func NewMongoAnalysisStore(client *mongo.Client, dbName string, metrics *telemetry.Metrics) *MongoAnalysisStore {
	return &MongoAnalysisStore{
		collection: client.Database(dbName).Collection("analyses"),
		metrics:    metrics,
	}
}

func (s *MongoAnalysisStore) record(op string, err error) {
	if s.metrics != nil {
		s.metrics.RecordDatabaseOperation(op, "analyses", err == nil)
	}
}

// Create inserts the record with status "processing". The final state
// arrives later through Complete or Fail.
func (s *MongoAnalysisStore) Create(ctx context.Context, analysis *models.Analysis) (primitive.ObjectID, error) {
	now := time.Now().UTC()
	analysis.Status = models.StatusProcessing
	analysis.CreatedAt = now
	analysis.UpdatedAt = now

	result, err := s.collection.InsertOne(ctx, analysis)
	s.record("insert", err)
	if err != nil {
		return primitive.NilObjectID, err
	}

	id := result.InsertedID.(primitive.ObjectID)
	analysis.ID = id
	return id, nil
}

// Complete stores the finished sections and glossary. Section originals
// above the compression threshold are stored compressed.
func (s *MongoAnalysisStore) Complete(ctx context.Context, id primitive.ObjectID, sections []models.Section, glossary map[string]string) error {
	stored := make([]models.Section, len(sections))
	for i, section := range sections {
		stored[i] = section
		compressed, algorithm, err := utils.CompressText(section.Original)
		if err != nil {
			logger.Warn("Section compression failed, storing uncompressed", "section", section.Index, "error", err)
			continue
		}
		if algorithm == utils.CompressionNone {
			continue
		}
		stored[i].Original = ""
		stored[i].OriginalCompressed = compressed
		stored[i].Compression = string(algorithm)
	}

	update := bson.M{
		"$set": bson.M{
			"sections":      stored,
			"glossary":      glossary,
			"section_count": len(stored),
			"status":        models.StatusCompleted,
			"updated_at":    time.Now().UTC(),
		},
	}

	_, err := s.collection.UpdateByID(ctx, id, update)
	s.record("update", err)
	return err
}

// Fail marks the record failed with a reason.
func (s *MongoAnalysisStore) Fail(ctx context.Context, id primitive.ObjectID, reason string) error {
	update := bson.M{
		"$set": bson.M{
			"status":        models.StatusFailed,
			"error_message": reason,
			"updated_at":    time.Now().UTC(),
		},
	}

	_, err := s.collection.UpdateByID(ctx, id, update)
	s.record("update", err)
	return err
}

// List returns one page of the user's analyses, newest first.
func (s *MongoAnalysisStore) List(ctx context.Context, userID string, page, limit int) (*models.HistoryPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	filter := bson.M{"user_id": userID}

	total, err := s.collection.CountDocuments(ctx, filter)
	if err != nil {
		s.record("count", err)
		return nil, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit)).
		SetProjection(bson.M{
			"_id":           1,
			"filename":      1,
			"mime_type":     1,
			"input_lang":    1,
			"output_lang":   1,
			"section_count": 1,
			"status":        1,
			"created_at":    1,
		})

	cursor, err := s.collection.Find(ctx, filter, opts)
	s.record("find", err)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	summaries := make([]models.AnalysisSummary, 0, limit)
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, err
	}

	return &models.HistoryPage{
		Analyses: summaries,
		Total:    total,
		Page:     page,
		Limit:    limit,
	}, nil
}

// Get returns the full record for the user, with section originals
// decompressed for the response.
func (s *MongoAnalysisStore) Get(ctx context.Context, userID string, id primitive.ObjectID) (*models.Analysis, error) {
	filter := bson.M{"_id": id, "user_id": userID}

	var analysis models.Analysis
	err := s.collection.FindOne(ctx, filter).Decode(&analysis)
	s.record("find_one", err)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrAnalysisNotFound
		}
		return nil, err
	}

	for i := range analysis.Sections {
		section := &analysis.Sections[i]
		if len(section.OriginalCompressed) == 0 {
			continue
		}
		original, err := utils.DecompressText(section.OriginalCompressed, utils.CompressionAlgorithm(section.Compression))
		if err != nil {
			logger.Error("Section decompression failed", "analysis_id", id.Hex(), "section", section.Index, "error", err)
			continue
		}
		section.Original = original
		section.OriginalCompressed = nil
		section.Compression = ""
	}

	return &analysis, nil
}

// Delete removes the user's record. Deleting an absent or foreign
// record returns ErrAnalysisNotFound.
func (s *MongoAnalysisStore) Delete(ctx context.Context, userID string, id primitive.ObjectID) error {
	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	s.record("delete", err)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrAnalysisNotFound
	}
	return nil
}

// FailStale marks records stuck in "processing" beyond the cutoff as
// failed. Returns the number of records updated.
func (s *MongoAnalysisStore) FailStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	filter := bson.M{
		"status":     models.StatusProcessing,
		"updated_at": bson.M{"$lt": cutoff},
	}
	update := bson.M{
		"$set": bson.M{
			"status":        models.StatusFailed,
			"error_message": "processing timed out",
			"updated_at":    time.Now().UTC(),
		},
	}

	result, err := s.collection.UpdateMany(ctx, filter, update)
	s.record("update_many", err)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}
