package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"intake-backend/internal/apperrors"
	"intake-backend/internal/auth"
	"intake-backend/internal/metrics"
	"intake-backend/internal/middleware"
	"intake-backend/internal/models"

	"github.com/sirupsen/logrus"
)

const (
	defaultFeedbackLimit = 100
	maxFeedbackLimit     = 1000
)

// FeedbackAdminHandler serves the session-guarded review API of the
// feedback service.
type FeedbackAdminHandler struct {
	feedbackRepo FeedbackStore
	sessions     *auth.SessionStore
	cookies      *auth.CookieCodec
	metrics      *metrics.Metrics
	log          logrus.FieldLogger
}

func NewFeedbackAdminHandler(feedbackRepo FeedbackStore, sessions *auth.SessionStore, cookies *auth.CookieCodec, m *metrics.Metrics, log logrus.FieldLogger) *FeedbackAdminHandler {
	return &FeedbackAdminHandler{
		feedbackRepo: feedbackRepo,
		sessions:     sessions,
		cookies:      cookies,
		metrics:      m,
		log:          log,
	}
}

type AdminActionRequest struct {
	Action   string `json:"action"`
	Password string `json:"password"`
}

type FeedbackListResponse struct {
	Success bool                                         `json:"success"`
	Data    []models.Feedback                            `json:"data"`
	Total   int64                                        `json:"total"`
	Stats   map[models.FeedbackType]models.FeedbackStats `json:"stats"`
}

func queryInt(r *http.Request, key string, fallback int64) int64 {
	v, err := strconv.ParseInt(r.URL.Query().Get(key), 10, 64)
	if err != nil {
		return fallback
	}
	return v
}

// --- GET /api/admin ---

func (h *FeedbackAdminHandler) List(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.RequireAuthenticated(middleware.GetSessionID(r.Context())); err != nil {
		writeError(w, apperrors.Auth("Unauthorized. Please login first.", err), successMessage)
		return
	}

	filter := models.FeedbackFilter{
		Type:   models.FeedbackType(r.URL.Query().Get("type")),
		Limit:  queryInt(r, "limit", defaultFeedbackLimit),
		Offset: queryInt(r, "offset", 0),
	}
	if filter.Type != "" && !filter.Type.Valid() {
		writeError(w, apperrors.Validation("Invalid feedback type."), successMessage)
		return
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultFeedbackLimit
	}
	if filter.Limit > maxFeedbackLimit {
		filter.Limit = maxFeedbackLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	ctx := r.Context()
	feedback, err := h.feedbackRepo.List(ctx, filter)
	if err != nil {
		h.serverError(w, err)
		return
	}
	total, err := h.feedbackRepo.Count(ctx, filter.Type)
	if err != nil {
		h.serverError(w, err)
		return
	}
	rows, err := h.feedbackRepo.Stats(ctx)
	if err != nil {
		h.serverError(w, err)
		return
	}

	stats := make(map[models.FeedbackType]models.FeedbackStats, len(rows))
	for _, row := range rows {
		stats[row.FeedbackType] = row
	}
	writeJSON(w, http.StatusOK, FeedbackListResponse{
		Success: true,
		Data:    feedback,
		Total:   total,
		Stats:   stats,
	})
}

func (h *FeedbackAdminHandler) serverError(w http.ResponseWriter, err error) {
	h.log.WithError(err).Error("Error querying feedback")
	writeError(w, apperrors.Store(err), successMessage)
}

// --- POST /api/admin ---

func (h *FeedbackAdminHandler) Action(w http.ResponseWriter, r *http.Request) {
	sid := middleware.GetSessionID(r.Context())

	var req AdminActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.Validation(invalidInput), successMessage)
		return
	}

	switch req.Action {
	case "login":
		h.login(w, sid, req.Password)
	case "logout":
		h.sessions.Logout(sid)
		h.cookies.Clear(w)
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "Logged out"})
	default:
		if err := h.sessions.RequireAuthenticated(sid); err != nil {
			writeError(w, apperrors.Auth("Unauthorized", err), successMessage)
			return
		}
		writeError(w, apperrors.Validation("Unknown action"), successMessage)
	}
}

// login always moves an authenticated admin onto a fresh session id.
func (h *FeedbackAdminHandler) login(w http.ResponseWriter, previous, password string) {
	sid := h.sessions.NewSessionID()
	if !h.sessions.Login(sid, password) {
		h.metrics.Login(false)
		writeError(w, apperrors.Auth("Invalid password", nil), successMessage)
		return
	}
	if err := h.cookies.Set(w, sid); err != nil {
		h.sessions.Logout(sid)
		h.log.WithError(err).Error("Error issuing session cookie")
		writeError(w, apperrors.New(apperrors.KindStore, "Login failed", err), successMessage)
		return
	}
	if previous != "" {
		h.sessions.Logout(previous)
	}
	h.metrics.Login(true)
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "Authentication successful"})
}
