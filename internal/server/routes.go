package server

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/awesomegusS/agentic-data-explorer/internal/config"
	"github.com/awesomegusS/agentic-data-explorer/internal/handler"
	"github.com/awesomegusS/agentic-data-explorer/internal/llm"
	"github.com/awesomegusS/agentic-data-explorer/internal/middleware"
	"github.com/awesomegusS/agentic-data-explorer/internal/observability"
	"github.com/awesomegusS/agentic-data-explorer/internal/pipeline"
	"github.com/awesomegusS/agentic-data-explorer/internal/security"
	"github.com/awesomegusS/agentic-data-explorer/internal/warehouse"
)

func (s *Server) setupRoutes(ctx context.Context) (http.Handler, io.Closer, error) {
	cfg := s.cfg

	wh, closer, err := openWarehouse(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	if cfg.AnthropicAPIKey == "" {
		return nil, nil, fmt.Errorf("ANTHROPIC_API_KEY not set")
	}
	completer := llm.NewAnthropicCompleter(cfg.AnthropicAPIKey, cfg.ModelName, cfg.AnthropicBaseURL)

	auditLogger := security.NewAuditLogger(cfg.EnableAuditLogging)
	agent := pipeline.NewAgent(wh, completer, auditLogger, int64(cfg.MaxConcurrentCalls))
	if err := agent.Initialize(ctx); err != nil {
		return nil, nil, fmt.Errorf("initialize agent: %w", err)
	}

	log.Info().
		Str("backend", cfg.WarehouseBackend).
		Str("model", completer.Model()).
		Bool("auth_enabled", cfg.EnableAuth && len(cfg.APIKeys) > 0).
		Bool("audit_logging", cfg.EnableAuditLogging).
		Msg("service configuration")
	if cfg.EnableAuth && len(cfg.APIKeys) == 0 {
		log.Warn().Msg("auth enabled but no API keys configured - all API requests will be rejected")
	}

	healthH := handler.NewHealthHandler(agent)
	queryH := handler.NewQueryHandler(agent, cfg.QueryTimeoutSeconds)
	schemaH := handler.NewSchemaHandler(agent)

	r := chi.NewRouter()

	// Core middleware
	r.Use(middleware.Recovery)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.CORSOrigins)))
	r.Use(chiMiddleware.RealIP)
	r.Use(observability.HTTPMetrics)

	// Public routes
	r.Get("/", healthH.Health)
	r.Get("/health", healthH.Health)
	r.Get("/health/detailed", healthH.Detailed)
	r.Get("/ready", healthH.Ready)
	r.Get("/live", healthH.Live)
	r.Method(http.MethodGet, "/metrics", observability.MetricsHandler())

	// Auth + rate limiting for API routes
	apiMiddleware := []func(http.Handler) http.Handler{
		middleware.RateLimit(cfg.RateLimitPerMinute),
	}
	if cfg.EnableAuth && len(cfg.APIKeys) > 0 {
		apiMiddleware = append(apiMiddleware, middleware.Auth(cfg.APIKeys, cfg.APIKeyHeader))
	}

	r.Group(func(r chi.Router) {
		for _, m := range apiMiddleware {
			r.Use(m)
		}

		r.Route(cfg.APIPrefix, func(r chi.Router) {
			r.Post("/query", queryH.Process)
			r.Get("/query/examples", queryH.Examples)
			r.Get("/query/stats", queryH.Stats)
			r.Post("/query/test", queryH.Test)
			r.Get("/schema", schemaH.Get)
		})
	})

	return r, closer, nil
}

func openWarehouse(ctx context.Context, cfg *config.Config) (pipeline.Warehouse, io.Closer, error) {
	switch cfg.WarehouseBackend {
	case "bigquery":
		if cfg.GCPProjectID == "" {
			return nil, nil, fmt.Errorf("GCP_PROJECT_ID not set")
		}
		bq, err := warehouse.OpenBigQuery(ctx, cfg.GCPProjectID, cfg.GoogleApplicationCredentials,
			cfg.BigQueryLocation, cfg.BigQueryDataset)
		if err != nil {
			return nil, nil, err
		}
		return bq, bq, nil
	case "postgres":
		if cfg.WarehouseDSN == "" {
			return nil, nil, fmt.Errorf("WAREHOUSE_DSN not set")
		}
		pg, err := warehouse.OpenPostgres(ctx, cfg.WarehouseDSN, cfg.WarehouseSchema)
		if err != nil {
			return nil, nil, err
		}
		return pg, pg, nil
	default:
		return nil, nil, fmt.Errorf("unknown warehouse backend %q", cfg.WarehouseBackend)
	}
}
