package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/kathalab/lesson-api/internal/api"
	apiMiddleware "github.com/kathalab/lesson-api/internal/api/middleware"
	"github.com/kathalab/lesson-api/internal/api/shared"
)

const healthCheckTimeout = 2 * time.Second

// setupRouter creates the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodPost, http.MethodGet, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         300,
	}))
	r.Use(answerOptions)

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithError(w, r, http.StatusMethodNotAllowed, api.MsgMethodNotAllowed)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithError(w, r, http.StatusNotFound, "Not found")
	})

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.authenticator, app.logger)
	lessonHandler := api.NewLessonHandler(app.lessonService, app.logger)
	excerptHandler := api.NewExcerptHandler(app.excerptService, app.logger)

	r.Route("/api", func(r chi.Router) {
		// Inline group: routing, and so 405 detection, happens before authentication.
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/generate-lesson", lessonHandler.GenerateLesson)

			r.Get("/lessons", lessonHandler.ListLessons)
			r.Get("/lessons/{id}", lessonHandler.GetLesson)
			r.Delete("/lessons/{id}", lessonHandler.DeleteLesson)
			r.Get("/lessons/{id}/export", lessonHandler.ExportLesson)

			r.Post("/community", excerptHandler.ShareExcerpt)
			r.Get("/community", excerptHandler.ListExcerpts)
		})
	})

	r.Get("/health", app.handleHealth)
	r.Handle("/metrics", app.metrics.Handler())

	return r
}

// answerOptions ends every OPTIONS request with an empty 200. Preflights
// are already answered by the CORS handler; this covers plain OPTIONS.
func answerOptions(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handleHealth reports 200 when the database answers a ping.
func (app *application) handleHealth(w http.ResponseWriter, r *http.Request) {
	if app.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()
		if err := app.db.PingContext(ctx); err != nil {
			app.logger.Error("health check failed", slog.String("error", err.Error()))
			shared.RespondWithError(w, r, http.StatusServiceUnavailable, "Database unavailable")
			return
		}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
