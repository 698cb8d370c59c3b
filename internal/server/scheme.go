package server

import (
	"net/http"

	"intake-backend/internal/auth"
	"intake-backend/internal/handlers"
	"intake-backend/internal/metrics"
	customMiddleware "intake-backend/internal/middleware"
	"intake-backend/internal/notify"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// SchemeDeps is everything the scheme service router needs.
type SchemeDeps struct {
	Schemes        handlers.SchemeStore
	Applications   handlers.ApplicationStore
	Credentials    *auth.Credentials
	Tokens         auth.TokenStore
	Receipts       handlers.ReceiptRenderer
	Notifier       notify.Notifier
	Metrics        *metrics.Metrics
	AllowedOrigins []string
	Log            logrus.FieldLogger
}

func NewSchemeRouter(d SchemeDeps) http.Handler {
	applicationHandler := handlers.NewApplicationHandler(d.Schemes, d.Applications, d.Notifier, d.Metrics, d.Log)
	adminHandler := handlers.NewAdminHandler(d.Credentials, d.Tokens, d.Applications, d.Metrics, d.Log)
	receiptHandler := handlers.NewReceiptHandler(d.Applications, d.Receipts, d.Metrics, d.Log)

	r := newRouter("scheme-server", d.AllowedOrigins, d.Metrics, d.Log)

	// Public routes (no auth required)
	r.Get("/api/schemes", applicationHandler.ListSchemes)
	r.Post("/api/apply", applicationHandler.Apply)
	r.Get("/api/status/{id}", applicationHandler.Status)
	r.Post("/api/login", adminHandler.Login)
	r.Get("/pdf/{id}", receiptHandler.Download)

	// Admin routes (bearer token required)
	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.BearerAuth(d.Tokens, d.Log))

		r.Post("/api/logout", adminHandler.Logout)
		r.Get("/api/applications", adminHandler.ListApplications)
		r.Put("/api/application/{id}", adminHandler.UpdateStatus)
	})

	return r
}
