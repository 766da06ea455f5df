package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"go-insurance-admin/internal/config"
	"go-insurance-admin/internal/database"
	"go-insurance-admin/internal/handler"
	"go-insurance-admin/internal/metrics"
	"go-insurance-admin/internal/middleware"
	"go-insurance-admin/internal/receipt"
	"go-insurance-admin/internal/repository"
	"go-insurance-admin/internal/router"
	"go-insurance-admin/internal/service"
)

// Stores groups the persistence contracts the services depend on.
type Stores struct {
	Principals      service.PrincipalStore
	Plans           service.PlanStore
	Schemes         service.SchemeStore
	Policies        service.PolicyStore
	Assignments     service.AssignmentStore
	Payments        service.PaymentStore
	Commissions     service.CommissionStore
	EmployeeSchemes service.EmployeeSchemeStore
	Audit           service.AuditStore
}

func PostgresStores(pool *pgxpool.Pool) Stores {
	return Stores{
		Principals:      repository.NewPrincipalRepository(pool),
		Plans:           repository.NewPlanRepository(pool),
		Schemes:         repository.NewSchemeRepository(pool),
		Policies:        repository.NewPolicyRepository(pool),
		Assignments:     repository.NewAssignmentRepository(pool),
		Payments:        repository.NewPaymentRepository(pool),
		Commissions:     repository.NewCommissionRepository(pool),
		EmployeeSchemes: repository.NewEmployeeSchemeRepository(pool),
		Audit:           repository.NewAuditRepository(pool),
	}
}

// NewHandler builds services, handlers and the route table over stores. db
// may be nil when there is no database to report on.
func NewHandler(cfg *config.Config, stores Stores, db handler.Pinger, m *metrics.Metrics) http.Handler {
	hasher := service.NewPasswordHasher(cfg.BcryptCost)

	authService := service.NewAuthService(stores.Principals, hasher, cfg.JWTSecret, cfg.JWTAlgorithm, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)
	auditService := service.NewAuditService(stores.Audit)
	catalogService := service.NewCatalogService(stores.Plans, stores.Schemes, stores.Policies, auditService)
	principalService := service.NewPrincipalService(stores.Principals, stores.Schemes, stores.EmployeeSchemes, hasher, auditService)
	commissionService := service.NewCommissionService(stores.Principals, stores.Policies, stores.Commissions, auditService)
	policyService := service.NewPolicyService(stores.Policies, stores.Assignments)
	customerService := service.NewCustomerService(stores.Principals, stores.Policies, stores.Assignments, stores.Payments, receipt.NewRenderer(cfg.ReceiptDir))

	return router.New(cfg, middleware.NewAuthMiddleware(authService), m, router.Handlers{
		Health:   handler.NewHealthHandler(db),
		Auth:     handler.NewAuthHandler(authService, m),
		Admin:    handler.NewAdminHandler(catalogService, principalService, commissionService, m),
		Policy:   handler.NewPolicyHandler(policyService, m),
		Customer: handler.NewCustomerHandler(customerService, m),
		Audit:    handler.NewAuditHandler(auditService),
	})
}

type App struct {
	server *http.Server
	db     *database.DB
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	slog.Info("connecting to PostgreSQL")
	db, err := database.New(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}
	slog.Info("database ready")

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           NewHandler(cfg, PostgresStores(db.Pool), db, metrics.New()),
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{server: server, db: db}, nil
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		a.db.Close()
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := a.server.Shutdown(shutdownCtx)
	a.db.Close()
	if err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// Migrate applies the embedded schema and exits.
func Migrate(ctx context.Context, cfg *config.Config) error {
	db, err := database.New(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("failed to ensure database schema: %w", err)
	}
	return nil
}
