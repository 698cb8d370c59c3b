package handlers

import (
	"errors"
	"io"
	"net/http"

	"intake-backend/internal/apperrors"
	"intake-backend/internal/metrics"
	"intake-backend/internal/models"
	"intake-backend/internal/receipt"

	"github.com/sirupsen/logrus"
)

type ReceiptRenderer interface {
	Render(w io.Writer, app *models.Application) error
}

type ReceiptHandler struct {
	applications ApplicationStore
	renderer     ReceiptRenderer
	metrics      *metrics.Metrics
	log          logrus.FieldLogger
}

func NewReceiptHandler(applications ApplicationStore, renderer ReceiptRenderer, m *metrics.Metrics, log logrus.FieldLogger) *ReceiptHandler {
	return &ReceiptHandler{
		applications: applications,
		renderer:     renderer,
		metrics:      m,
		log:          log,
	}
}

// --- GET /pdf/{id} ---

// Download streams the receipt. Once the 200 status is committed a render
// failure can only be logged; the client sees a truncated document.
func (h *ReceiptHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		send404(w)
		return
	}

	app, err := h.applications.FindByID(r.Context(), id)
	if errors.Is(err, apperrors.ErrNotFound) {
		send404(w)
		return
	}
	if err != nil {
		h.log.WithError(err).WithField("application_id", id).Error("Error loading application for receipt")
		http.Error(w, err.Error(), apperrors.HTTPStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename="+receipt.Filename(id))
	w.WriteHeader(http.StatusOK)

	if err := h.renderer.Render(w, app); err != nil {
		h.log.WithError(err).WithField("application_id", id).Error("Receipt stream aborted")
		return
	}
	h.metrics.ReceiptRendered()
}
