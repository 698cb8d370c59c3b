package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"intake-backend/internal/apperrors"
	"intake-backend/internal/metrics"
	"intake-backend/internal/models"
	"intake-backend/internal/notify"

	"github.com/sirupsen/logrus"
)

const invalidInput = "Invalid input."

type FeedbackStore interface {
	Create(ctx context.Context, feedback *models.Feedback) error
	List(ctx context.Context, filter models.FeedbackFilter) ([]models.Feedback, error)
	Count(ctx context.Context, t models.FeedbackType) (int64, error)
	Stats(ctx context.Context) ([]models.FeedbackStats, error)
}

type FeedbackHandler struct {
	feedbackRepo FeedbackStore
	notifier     notify.Notifier
	metrics      *metrics.Metrics
	log          logrus.FieldLogger
}

func NewFeedbackHandler(feedbackRepo FeedbackStore, notifier notify.Notifier, m *metrics.Metrics, log logrus.FieldLogger) *FeedbackHandler {
	return &FeedbackHandler{
		feedbackRepo: feedbackRepo,
		notifier:     notifier,
		metrics:      m,
		log:          log,
	}
}

// SubmitFeedbackRequest mirrors the widget payload. Score may arrive as a
// number or a numeric string; fractions are truncated.
type SubmitFeedbackRequest struct {
	FeedbackType string          `json:"feedback_type"`
	Score        *json.Number    `json:"score"`
	Sentiment    *string         `json:"sentiment"`
	Comment      *string         `json:"comment"`
	ProductID    *FlexibleString `json:"product_id"`
}

// maxScoreMagnitude bounds stored scores well inside the int range.
const maxScoreMagnitude = math.MaxInt32

func parseScore(n *json.Number) (*int, error) {
	if n == nil {
		return nil, nil
	}
	if v, err := n.Int64(); err == nil {
		if v > maxScoreMagnitude || v < -maxScoreMagnitude {
			return nil, fmt.Errorf("score %d out of range", v)
		}
		score := int(v)
		return &score, nil
	}
	f, err := n.Float64()
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > maxScoreMagnitude {
		return nil, fmt.Errorf("invalid score %q", n.String())
	}
	score := int(math.Trunc(f))
	return &score, nil
}

// --- POST /api/feedback ---

func (h *FeedbackHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var req SubmitFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.Validation(invalidInput), successMessage)
		return
	}

	feedbackType := models.FeedbackType(req.FeedbackType)
	if !feedbackType.Valid() {
		writeError(w, apperrors.Validation(invalidInput), successMessage)
		return
	}
	score, err := parseScore(req.Score)
	if err != nil {
		writeError(w, apperrors.Validation("Invalid score."), successMessage)
		return
	}

	feedback := &models.Feedback{
		FeedbackType: feedbackType,
		Score:        score,
		Sentiment:    req.Sentiment,
		Comment:      req.Comment,
		ProductID:    (*string)(req.ProductID),
	}

	if err := h.feedbackRepo.Create(r.Context(), feedback); err != nil {
		h.log.WithError(err).Error("Error creating feedback")
		writeError(w, apperrors.New(apperrors.KindStore, "Error: "+err.Error(), err), successMessage)
		return
	}
	h.metrics.Submission(string(feedbackType))

	// Fire notification in a background goroutine (non-blocking)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := h.notifier.Publish(ctx, formatFeedbackMessage(feedback)); err != nil {
			h.log.WithError(err).Warn("Error publishing notification")
		}
	}()

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Feedback submitted successfully!",
	})
}

func formatFeedbackMessage(f *models.Feedback) notify.Message {
	body := "Type: " + string(f.FeedbackType)
	if f.Score != nil {
		body += fmt.Sprintf("\nScore: %d", *f.Score)
	}
	if f.Sentiment != nil {
		body += "\nSentiment: " + *f.Sentiment
	}
	if f.ProductID != nil {
		body += "\nProduct: " + *f.ProductID
	}
	if f.Comment != nil {
		body += "\nComment: " + *f.Comment
	}
	return notify.Message{
		Subject: "New " + string(f.FeedbackType) + " feedback received",
		Body:    body,
	}
}
