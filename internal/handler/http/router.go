package http

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

func NewRouter(logger *slog.Logger, allowedOrigins []string, scheduleHandler ScheduleHandler, runHandler RunHandler) *chi.Mux {
	r := chi.NewRouter()

	if len(allowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   allowedOrigins,
			AllowCredentials: true,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", HeaderJobToken},
			ExposedHeaders:   []string{HeaderJobID, HeaderJobToken},
			MaxAge:           300,
		}))
	}

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/ping"))

	r.Get("/", scheduleHandler.Index)
	r.Post("/schedule", scheduleHandler.Schedule)
	r.Post("/stop", scheduleHandler.Stop)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/parse-curl", scheduleHandler.ParseCurl)

		r.Route("/jobs/current", func(r chi.Router) {
			r.Get("/", scheduleHandler.Current)
			r.Get("/events", scheduleHandler.Events)
		})

		r.Route("/runs", func(r chi.Router) {
			r.Get("/", runHandler.List)
			r.Get("/{id}", runHandler.Get)
			r.Get("/{id}/log", runHandler.Log)
		})
	})

	return r
}
