package server

import (
	"net/http"

	"intake-backend/internal/auth"
	"intake-backend/internal/handlers"
	"intake-backend/internal/metrics"
	customMiddleware "intake-backend/internal/middleware"
	"intake-backend/internal/notify"

	"github.com/sirupsen/logrus"
)

type FeedbackDeps struct {
	Feedback       handlers.FeedbackStore
	Sessions       *auth.SessionStore
	Cookies        *auth.CookieCodec
	Notifier       notify.Notifier
	Metrics        *metrics.Metrics
	AllowedOrigins []string
	Log            logrus.FieldLogger
}

// NewFeedbackRouter also mounts the endpoints under their legacy .php paths
// so existing widgets keep working.
func NewFeedbackRouter(d FeedbackDeps) http.Handler {
	feedbackHandler := handlers.NewFeedbackHandler(d.Feedback, d.Notifier, d.Metrics, d.Log)
	adminHandler := handlers.NewFeedbackAdminHandler(d.Feedback, d.Sessions, d.Cookies, d.Metrics, d.Log)

	r := newRouter("feedback-server", d.AllowedOrigins, d.Metrics, d.Log, customMiddleware.SessionID(d.Cookies))

	for _, path := range []string{"/api/feedback", "/feedback.php"} {
		r.Post(path, feedbackHandler.SubmitFeedback)
	}
	for _, path := range []string{"/api/admin", "/admin_api.php"} {
		r.Get(path, adminHandler.List)
		r.Post(path, adminHandler.Action)
	}

	return r
}
