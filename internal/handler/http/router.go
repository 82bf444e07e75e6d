package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/payslip-ledger-go/internal/config"
	"github.com/cmlabs-hris/payslip-ledger-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/payslip-ledger-go/internal/handler/http/response"
	"github.com/cmlabs-hris/payslip-ledger-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewLogger(cfg *config.Config) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "production")
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       parseLevel(cfg.App.LogLevel),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
		slog.String("env", cfg.App.Env),
	)
}

func parseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}

func NewRouter(
	cfg *config.Config,
	logger *slog.Logger,
	JWTService jwt.Service,
	mappingHandler MappingHandler,
	payslipHandler PayslipHandler,
	ledgerHandler LedgerHandler,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})

	r.Route("/api/v1", func(r chi.Router) {

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			// Admin only
			r.Group(func(r chi.Router) {
				r.Use(middleware.AdminOnly)

				r.Route("/mapping-configs/{kind}", func(r chi.Router) {
					r.Get("/", mappingHandler.GetConfig)
					r.Put("/", mappingHandler.UpsertConfig)
					r.Post("/reset", mappingHandler.ResetConfig)
				})

				r.Route("/integration-config", func(r chi.Router) {
					r.Get("/", mappingHandler.GetIntegration)
					r.Put("/", mappingHandler.UpsertIntegration)
				})
			})

			r.Route("/payslips", func(r chi.Router) {
				r.Get("/", payslipHandler.List)
				r.With(middleware.AdminOnly).Post("/import", payslipHandler.Import)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", payslipHandler.Get)
					r.Get("/pdf", payslipHandler.DownloadPDF)
					r.With(middleware.AdminOnly).Delete("/", payslipHandler.Delete)
				})
			})

			r.Route("/ledgers", func(r chi.Router) {
				r.Get("/", ledgerHandler.Get)
				r.Get("/export", ledgerHandler.Export)
			})
		})
	})
	return r
}
