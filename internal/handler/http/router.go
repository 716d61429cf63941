package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/shiftops-ph/timeclock-backend-go/internal/config"
	"github.com/shiftops-ph/timeclock-backend-go/internal/handler/http/middleware"
	"github.com/shiftops-ph/timeclock-backend-go/internal/pkg/jwt"
)

type Handlers struct {
	Scan       ScanHandler
	Attendance AttendanceHandler
	Anomaly    AnomalyHandler
	Point      PointHandler
	Schedule   ScheduleHandler
	Leave      LeaveHandler
	Export     ExportHandler
}

func NewRouter(cfg *config.Config, jwtService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "timeclock-backend"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	// Generated export workbooks
	fileServer := http.StripPrefix("/files", http.FileServer(http.Dir(cfg.Storage.BasePath)))
	r.Get("/files/*", fileServer.ServeHTTP)

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/scans", func(r chi.Router) {
				r.Post("/import", h.Scan.Import)
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Get("/", h.Attendance.List)
				r.Post("/process", h.Attendance.Process)
				r.Post("/reprocess", h.Attendance.Reprocess)
				r.Post("/fix-statuses", h.Attendance.FixStatuses)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.Attendance.Get)
					r.Patch("/", h.Attendance.Update)
					r.Post("/verify", h.Attendance.Verify)
				})
			})

			r.Get("/anomalies", h.Anomaly.Detect)

			r.Route("/points", func(r chi.Router) {
				r.Get("/", h.Point.ListByUser)
				r.Post("/expire", h.Point.Expire)
				r.Post("/{id}/excuse", h.Point.Excuse)
			})

			r.Route("/leaves", func(r chi.Router) {
				r.Post("/approve", h.Leave.Approve)
			})

			r.Route("/schedules", func(r chi.Router) {
				r.Get("/", h.Schedule.ListByUser)
				r.Post("/", h.Schedule.Create)
				r.Post("/{id}/activate", h.Schedule.Activate)
			})

			r.Route("/exports", func(r chi.Router) {
				r.Post("/attendance", h.Export.ExportAttendance)
			})

			r.Route("/jobs", func(r chi.Router) {
				r.Get("/{id}/progress", h.Export.JobProgress)
			})
		})
	})

	return r
}
