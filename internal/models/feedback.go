package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type FeedbackType string

const (
	FeedbackNPS       FeedbackType = "nps"
	FeedbackReview    FeedbackType = "review"
	FeedbackSentiment FeedbackType = "sentiment"
)

func (t FeedbackType) Valid() bool {
	switch t {
	case FeedbackNPS, FeedbackReview, FeedbackSentiment:
		return true
	}
	return false
}

type Feedback struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"id"`
	FeedbackType FeedbackType  `bson:"feedback_type" json:"feedback_type"`
	Score        *int          `bson:"score,omitempty" json:"score"`
	Sentiment    *string       `bson:"sentiment,omitempty" json:"sentiment"`
	Comment      *string       `bson:"comment,omitempty" json:"comment"`
	ProductID    *string       `bson:"product_id,omitempty" json:"product_id"`
	CreatedAt    time.Time     `bson:"created_at" json:"created_at"`
}

// FeedbackStats is one row of the per-type breakdown. AvgScore is nil when
// no record of that type carries a score.
type FeedbackStats struct {
	FeedbackType FeedbackType `bson:"_id" json:"feedback_type"`
	Count        int64        `bson:"count" json:"count"`
	AvgScore     *float64     `bson:"avg_score" json:"avg_score"`
}

type FeedbackFilter struct {
	Type   FeedbackType
	Limit  int64
	Offset int64
}
