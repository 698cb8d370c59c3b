package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"intake-backend/internal/database"
	"intake-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestFeedbackRepoIntegration(t *testing.T) {
	uri := os.Getenv("TEST_MONGODB_URI")
	if uri == "" {
		t.Skip("TEST_MONGODB_URI not set; skipping mongo integration test")
	}

	client, db, err := database.ConnectMongo(uri, "intake_test_"+time.Now().Format("20060102150405"))
	require.NoError(t, err)
	ctx := context.Background()
	defer func() {
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	}()

	repo := NewFeedbackRepo(db)
	require.NoError(t, repo.EnsureIndexes(ctx))

	for _, fb := range []*models.Feedback{
		{FeedbackType: models.FeedbackNPS, Score: intPtr(9)},
		{FeedbackType: models.FeedbackNPS, Score: intPtr(7)},
		{FeedbackType: models.FeedbackReview},
	} {
		require.NoError(t, repo.Create(ctx, fb))
		assert.False(t, fb.ID.IsZero())
		assert.False(t, fb.CreatedAt.IsZero())
	}

	page, err := repo.List(ctx, models.FeedbackFilter{Type: models.FeedbackNPS, Limit: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, 7, *page[0].Score)

	total, err := repo.Count(ctx, models.FeedbackNPS)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, models.FeedbackNPS, stats[0].FeedbackType)
	assert.Equal(t, int64(2), stats[0].Count)
	require.NotNil(t, stats[0].AvgScore)
	assert.InDelta(t, 8.0, *stats[0].AvgScore, 0.001)
	assert.Nil(t, stats[1].AvgScore)
}
