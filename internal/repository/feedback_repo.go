package repository

import (
	"context"
	"fmt"
	"time"

	"intake-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const feedbackCollection = "customer_feedback"

type FeedbackRepo struct {
	collection *mongo.Collection
}

func NewFeedbackRepo(db *mongo.Database) *FeedbackRepo {
	return &FeedbackRepo{
		collection: db.Collection(feedbackCollection),
	}
}

func (r *FeedbackRepo) Create(ctx context.Context, feedback *models.Feedback) error {
	feedback.CreatedAt = time.Now().UTC()
	result, err := r.collection.InsertOne(ctx, feedback)
	if err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}
	feedback.ID = result.InsertedID.(bson.ObjectID)
	return nil
}

func typeFilter(t models.FeedbackType) bson.M {
	if t == "" {
		return bson.M{}
	}
	return bson.M{"feedback_type": t}
}

// List returns one page of feedback, newest first.
func (r *FeedbackRepo) List(ctx context.Context, filter models.FeedbackFilter) ([]models.Feedback, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(filter.Offset).
		SetLimit(filter.Limit)

	cursor, err := r.collection.Find(ctx, typeFilter(filter.Type), opts)
	if err != nil {
		return nil, fmt.Errorf("find feedback: %w", err)
	}
	feedback := []models.Feedback{}
	if err := cursor.All(ctx, &feedback); err != nil {
		return nil, fmt.Errorf("decode feedback: %w", err)
	}
	return feedback, nil
}

func (r *FeedbackRepo) Count(ctx context.Context, t models.FeedbackType) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, typeFilter(t))
	if err != nil {
		return 0, fmt.Errorf("count feedback: %w", err)
	}
	return count, nil
}

// Stats groups all feedback by type. $avg skips documents without a score.
func (r *FeedbackRepo) Stats(ctx context.Context) ([]models.FeedbackStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$feedback_type"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "avg_score", Value: bson.D{{Key: "$avg", Value: "$score"}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate feedback: %w", err)
	}
	var stats []models.FeedbackStats
	if err := cursor.All(ctx, &stats); err != nil {
		return nil, fmt.Errorf("decode feedback stats: %w", err)
	}
	return stats, nil
}

// EnsureIndexes creates necessary indexes for the feedback collection
func (r *FeedbackRepo) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "feedback_type", Value: 1}, {Key: "created_at", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "created_at", Value: -1}},
		},
	}
	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}
