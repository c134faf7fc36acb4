// Package app wires repositories, services, and the HTTP handler from
// the external dependencies main() provides.
package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"

	"fairdata/internal/api"
	"fairdata/internal/config"
	"fairdata/internal/db"
	"fairdata/internal/db/repository"
	"fairdata/internal/middleware"
	"fairdata/internal/service"
)

// Deps holds the external dependencies the app cannot create itself.
type Deps struct {
	Cfg    *config.Config
	Pool   *pgxpool.Pool
	Logger *slog.Logger
}

// App is the fully wired application.
type App struct {
	Handler     *api.Handler
	Provision   *service.ProvisionService
	Isolation   *service.IsolationService
	Dataset     *service.DatasetService
	Consistency *service.ConsistencyService

	cfg    *config.Config
	logger *slog.Logger
}

// New wires all repositories and services from the provided deps.
func New(deps Deps) *App {
	logger := deps.Logger
	runner := db.NewRunner(deps.Pool)

	catalogRepo := repository.NewCatalogRepo(deps.Pool)
	schemaRepo := repository.NewSchemaRepo(deps.Pool)
	rowRepo := repository.NewRowRepo(deps.Pool)
	principalRepo := repository.NewPrincipalRepo(deps.Pool)
	metadataRepo := repository.NewMetadataRepo(deps.Pool)

	provisionSvc := service.NewProvisionService(runner, logger.With("component", "provision"))
	isolationSvc := service.NewIsolationService(runner, schemaRepo, logger.With("component", "isolation"))
	catalogSvc := service.NewCatalogService(catalogRepo)
	datasetSvc := service.NewDatasetService(provisionSvc, isolationSvc, catalogSvc, schemaRepo, runner, logger.With("component", "dataset"))
	gatewaySvc := service.NewGatewayService(schemaRepo, rowRepo, logger.With("component", "gateway"))
	metadataSvc := service.NewMetadataService(metadataRepo, schemaRepo)
	consistencySvc := service.NewConsistencyService(schemaRepo, catalogRepo, logger.With("component", "consistency"))
	principalSvc := service.NewPrincipalService(principalRepo)

	handler := api.NewHandler(datasetSvc, gatewaySvc, catalogSvc, metadataSvc, consistencySvc, principalSvc, logger.With("component", "api"))

	return &App{
		Handler:     handler,
		Provision:   provisionSvc,
		Isolation:   isolationSvc,
		Dataset:     datasetSvc,
		Consistency: consistencySvc,
		cfg:         deps.Cfg,
		logger:      logger,
	}
}

// Router builds the HTTP router with the full middleware chain.
func (a *App) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(a.logger.With("component", "http")))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   a.cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(middleware.Authenticate([]byte(a.cfg.JWTSecret)))
	r.Use(middleware.RateLimiter(middleware.RateLimitConfig{
		RequestsPerSecond: a.cfg.RateLimitRPS,
		Burst:             a.cfg.RateLimitBurst,
	}))

	a.Handler.Routes(r)
	return r
}
