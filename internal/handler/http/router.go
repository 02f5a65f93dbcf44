package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/ph-hris/payroll-backend-go/internal/handler/http/middleware"
	"github.com/ph-hris/payroll-backend-go/internal/pkg/jwt"
)

func NewRouter(
	JWTService jwt.Service,
	payrollHandler PayrollHandler,
	budgetHandler BudgetHandler,
	anomalyHandler AnomalyHandler,
	env string,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "ph-payroll"),
		slog.String("version", "v1.0.0"),
		slog.String("env", env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/periods", func(r chi.Router) {
				r.Get("/", payrollHandler.ListPeriods)
				r.Post("/process", payrollHandler.ProcessBatch)

				r.Route("/{periodID}", func(r chi.Router) {
					r.Get("/", payrollHandler.GetPeriodDetail)
					r.Post("/recalculate", payrollHandler.Recalculate)
					r.Get("/anomalies", anomalyHandler.ScanPeriod)

					r.Route("/budget", func(r chi.Router) {
						r.Post("/", budgetHandler.Create)
						r.Post("/submit", budgetHandler.Submit)
						r.Post("/approve", budgetHandler.Approve)
						r.Post("/reject", budgetHandler.Reject)
						r.Post("/reset", budgetHandler.Reset)
					})
				})
			})
		})
	})
	return r
}
