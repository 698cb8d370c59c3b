package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"intake-backend/internal/apperrors"
	"intake-backend/internal/metrics"
	"intake-backend/internal/models"
	"intake-backend/internal/notify"

	"github.com/sirupsen/logrus"
)

type SchemeStore interface {
	List(ctx context.Context) ([]models.Scheme, error)
}

type ApplicationStore interface {
	Create(ctx context.Context, app models.NewApplication) (int64, error)
	FindStatus(ctx context.Context, id int64) (*models.ApplicationStatusView, error)
	FindByID(ctx context.Context, id int64) (*models.Application, error)
	List(ctx context.Context, filter models.ApplicationFilter) ([]models.Application, error)
	UpdateStatus(ctx context.Context, id int64, status models.ApplicationStatus) error
}

// ApplicationHandler serves the public side of the scheme service.
type ApplicationHandler struct {
	schemes      SchemeStore
	applications ApplicationStore
	notifier     notify.Notifier
	metrics      *metrics.Metrics
	log          logrus.FieldLogger
}

func NewApplicationHandler(schemes SchemeStore, applications ApplicationStore, notifier notify.Notifier, m *metrics.Metrics, log logrus.FieldLogger) *ApplicationHandler {
	return &ApplicationHandler{
		schemes:      schemes,
		applications: applications,
		notifier:     notifier,
		metrics:      m,
		log:          log,
	}
}

type ApplyRequest struct {
	SchemeID FlexibleID `json:"scheme_id"`
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Phone    string     `json:"phone"`
}

// --- GET /api/schemes ---

func (h *ApplicationHandler) ListSchemes(w http.ResponseWriter, r *http.Request) {
	schemes, err := h.schemes.List(r.Context())
	if err != nil {
		h.log.WithError(err).Error("Error listing schemes")
		writeError(w, apperrors.Store(err), plainError)
		return
	}
	writeJSON(w, http.StatusOK, schemes)
}

// --- POST /api/apply ---

func (h *ApplicationHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var req ApplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.Validation("Invalid data format"), successError)
		return
	}

	app := models.NewApplication{
		SchemeID: int64(req.SchemeID),
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.TrimSpace(req.Email),
		Phone:    strings.TrimSpace(req.Phone),
	}
	if app.SchemeID <= 0 || app.Name == "" || app.Email == "" || app.Phone == "" {
		writeError(w, apperrors.Validation("Missing required fields"), successError)
		return
	}

	id, err := h.applications.Create(r.Context(), app)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindStore {
			h.log.WithError(err).Error("Error creating application")
		}
		writeError(w, err, successError)
		return
	}
	h.metrics.Submission("application")

	// Notify in the background so the applicant is not kept waiting
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		msg := notify.Message{
			Subject: fmt.Sprintf("New scheme application #%d", id),
			Body:    fmt.Sprintf("%s <%s> applied for scheme %d (phone %s).", app.Name, app.Email, app.SchemeID, app.Phone),
		}
		if err := h.notifier.Publish(ctx, msg); err != nil {
			h.log.WithError(err).WithField("application_id", id).Warn("Error publishing notification")
		}
	}()

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "id": id})
}

// --- GET /api/status/{id} ---

func (h *ApplicationHandler) Status(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		send404(w)
		return
	}

	view, err := h.applications.FindStatus(r.Context(), id)
	if err != nil {
		writeError(w, h.lookupError(err, id), plainError)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// lookupError names a missing application and logs anything else.
func (h *ApplicationHandler) lookupError(err error, id int64) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return apperrors.NotFound("Application not found")
	}
	h.log.WithError(err).WithField("application_id", id).Error("Error finding application")
	return err
}
