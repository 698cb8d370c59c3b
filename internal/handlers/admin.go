package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"intake-backend/internal/apperrors"
	"intake-backend/internal/auth"
	"intake-backend/internal/metrics"
	"intake-backend/internal/middleware"
	"intake-backend/internal/models"

	"github.com/sirupsen/logrus"
)

// AdminHandler serves login and the token-guarded review endpoints of the
// scheme service.
type AdminHandler struct {
	credentials  *auth.Credentials
	tokens       auth.TokenStore
	applications ApplicationStore
	metrics      *metrics.Metrics
	log          logrus.FieldLogger
}

func NewAdminHandler(credentials *auth.Credentials, tokens auth.TokenStore, applications ApplicationStore, m *metrics.Metrics, log logrus.FieldLogger) *AdminHandler {
	return &AdminHandler{
		credentials:  credentials,
		tokens:       tokens,
		applications: applications,
		metrics:      m,
		log:          log,
	}
}

const (
	loginFailed   = "Login Failed (Server Error)"
	invalidStatus = "Invalid status value"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// --- POST /api/login ---

func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.Validation("Invalid data format"), successError)
		return
	}

	err := h.credentials.Verify(req.Username, req.Password)
	if errors.Is(err, auth.ErrInvalidCredential) {
		h.metrics.Login(false)
		writeError(w, apperrors.Auth("Invalid credentials", err), successError)
		return
	}
	if err != nil {
		h.log.WithError(err).Error("Error verifying admin password")
		writeError(w, apperrors.New(apperrors.KindStore, loginFailed, err), successError)
		return
	}

	token, err := h.tokens.Issue(r.Context(), req.Username)
	if err != nil {
		h.log.WithError(err).Error("Error issuing token")
		writeError(w, apperrors.New(apperrors.KindStore, loginFailed, err), successError)
		return
	}
	h.metrics.Login(true)
	h.log.WithField("principal", req.Username).Info("Admin logged in")

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "token": token})
}

// --- POST /api/logout ---

func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.tokens.Revoke(r.Context(), middleware.GetToken(r.Context())); err != nil {
		h.log.WithError(err).Error("Error revoking token")
		writeError(w, apperrors.Store(err), successError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// --- GET /api/applications ---

func (h *AdminHandler) ListApplications(w http.ResponseWriter, r *http.Request) {
	var filter models.ApplicationFilter
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, ok := models.ParseStatus(raw)
		if !ok {
			writeError(w, apperrors.Validation(invalidStatus), plainError)
			return
		}
		filter.Status = status
	}

	apps, err := h.applications.List(r.Context(), filter)
	if err != nil {
		h.log.WithError(err).Error("Error listing applications")
		writeError(w, apperrors.Store(err), plainError)
		return
	}
	writeJSON(w, http.StatusOK, apps)
}

// --- PUT /api/application/{id} ---

// UpdateStatus allows any enumerated status from any current status,
// including re-applying the current one.
func (h *AdminHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		send404(w)
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.Validation("Invalid data format"), successError)
		return
	}
	status, ok := models.ParseStatus(req.Status)
	if !ok {
		writeError(w, apperrors.Validation(invalidStatus), successError)
		return
	}

	err := h.applications.UpdateStatus(r.Context(), id, status)
	if errors.Is(err, apperrors.ErrNotFound) {
		writeError(w, apperrors.NotFound("Application not found"), successError)
		return
	}
	if err != nil {
		h.log.WithError(err).WithField("application_id", id).Error("Error updating application status")
		writeError(w, apperrors.Store(err), successError)
		return
	}

	h.metrics.StatusUpdate(string(status))
	h.log.WithFields(logrus.Fields{
		"application_id": id,
		"status":         status,
		"principal":      middleware.GetPrincipal(r.Context()),
	}).Info("Application status updated")

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "error": nil})
}
