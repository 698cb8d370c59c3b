package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"intake-backend/internal/apperrors"
	"intake-backend/internal/metrics"
	"intake-backend/internal/models"
	"intake-backend/internal/notify"
	"intake-backend/internal/repository"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

type fakeSchemes struct {
	schemes []models.Scheme
	err     error
}

func (f *fakeSchemes) List(ctx context.Context) ([]models.Scheme, error) {
	return f.schemes, f.err
}

// fakeApplications keeps applications in memory, keyed by id.
type fakeApplications struct {
	mu      sync.Mutex
	schemes map[int64]string
	apps    map[int64]*models.Application
	nextID  int64
	now     time.Time
	err     error
}

func newFakeApplications() *fakeApplications {
	return &fakeApplications{
		schemes: map[int64]string{1: "Pradhan Mantri Awas Yojana", 2: "Ayushman Bharat"},
		apps:    make(map[int64]*models.Application),
		nextID:  1,
		now:     time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC),
	}
}

func (f *fakeApplications) Create(ctx context.Context, app models.NewApplication) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	name, ok := f.schemes[app.SchemeID]
	if !ok {
		return 0, repository.ErrUnknownScheme
	}
	id := f.nextID
	f.nextID++
	f.apps[id] = &models.Application{
		ID:         id,
		SchemeID:   app.SchemeID,
		Name:       app.Name,
		Email:      app.Email,
		Phone:      app.Phone,
		Status:     models.StatusPending,
		AppliedAt:  f.now,
		SchemeName: name,
	}
	return id, nil
}

func (f *fakeApplications) FindStatus(ctx context.Context, id int64) (*models.ApplicationStatusView, error) {
	app, err := f.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.ApplicationStatusView{ID: app.ID, Status: app.Status, SchemeName: app.SchemeName}, nil
}

func (f *fakeApplications) FindByID(ctx context.Context, id int64) (*models.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	app, ok := f.apps[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *app
	return &cp, nil
}

func (f *fakeApplications) List(ctx context.Context, filter models.ApplicationFilter) ([]models.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := []models.Application{}
	for id := f.nextID - 1; id > 0; id-- {
		app, ok := f.apps[id]
		if !ok || (filter.Status != "" && app.Status != filter.Status) {
			continue
		}
		out = append(out, *app)
	}
	return out, nil
}

func (f *fakeApplications) UpdateStatus(ctx context.Context, id int64, status models.ApplicationStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	app, ok := f.apps[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	app.Status = status
	return nil
}

type fakeFeedback struct {
	mu      sync.Mutex
	records []models.Feedback
	stats   []models.FeedbackStats
	filter  models.FeedbackFilter
	err     error
}

func (f *fakeFeedback) Create(ctx context.Context, feedback *models.Feedback) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	feedback.CreatedAt = time.Now().UTC()
	f.records = append(f.records, *feedback)
	return nil
}

func (f *fakeFeedback) List(ctx context.Context, filter models.FeedbackFilter) ([]models.Feedback, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filter = filter
	if f.err != nil {
		return nil, f.err
	}
	out := []models.Feedback{}
	for _, r := range f.records {
		if filter.Type == "" || r.FeedbackType == filter.Type {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeFeedback) Count(ctx context.Context, t models.FeedbackType) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	var n int64
	for _, r := range f.records {
		if t == "" || r.FeedbackType == t {
			n++
		}
	}
	return n, nil
}

func (f *fakeFeedback) Stats(ctx context.Context) ([]models.FeedbackStats, error) {
	return f.stats, f.err
}

// fakeNotifier records published messages; handlers publish from a goroutine.
type fakeNotifier struct {
	sent chan notify.Message
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{sent: make(chan notify.Message, 8)}
}

func (n *fakeNotifier) Publish(ctx context.Context, msg notify.Message) error {
	n.sent <- msg
	return nil
}

func (n *fakeNotifier) wait(t *testing.T) notify.Message {
	t.Helper()
	select {
	case msg := <-n.sent:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("notification was not published")
		return notify.Message{}
	}
}

func nullLogger() (logrus.FieldLogger, *test.Hook) {
	log, hook := test.NewNullLogger()
	return log, hook
}

func newTestMetrics() *metrics.Metrics {
	return metrics.New("test")
}

func do(t *testing.T, h http.Handler, method, target, body string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}
