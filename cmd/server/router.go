package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/mindflow-api/internal/api"
	apiMiddleware "github.com/phrazzld/mindflow-api/internal/api/middleware"
)

// setupRouter creates the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	authHandler := api.NewAuthHandler(app.authenticator, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)
	generateHandler := api.NewGenerateHandler(app.gateway, app.logger)
	extractHandler := api.NewExtractHandler(app.extractor, app.config.Extract.MaxUploadBytes, app.logger)
	studyHandler := api.NewStudyHandler(app.study, app.sessionService, app.logger)
	healthHandler := api.NewHealthHandler(app.health)

	r.Route("/api", func(r chi.Router) {
		// Generation endpoints (public)
		r.Post("/generate", generateHandler.Generate)
		r.Post("/extract", extractHandler.Extract)
		r.Post("/study/flashcards", studyHandler.Flashcards)
		r.Post("/study/quiz", studyHandler.Quiz)

		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Post("/study/save", studyHandler.Save)
			r.Get("/study/history", studyHandler.History)
			r.Get("/study/sessions/{id}", studyHandler.GetSession)
			r.Delete("/study/sessions/{id}", studyHandler.DeleteSession)
		})
	})

	r.Get("/health", healthHandler.Health)

	return r
}
