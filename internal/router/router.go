package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-insurance-admin/internal/config"
	"go-insurance-admin/internal/handler"
	"go-insurance-admin/internal/metrics"
	"go-insurance-admin/internal/middleware"
	"go-insurance-admin/internal/model"
)

type Handlers struct {
	Health   *handler.HealthHandler
	Auth     *handler.AuthHandler
	Admin    *handler.AdminHandler
	Policy   *handler.PolicyHandler
	Customer *handler.CustomerHandler
	Audit    *handler.AuditHandler
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, m *metrics.Metrics, h Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	if m != nil {
		r.Use(m.Instrument)
	}
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", h.Health.Health)
	if m != nil {
		r.Method(http.MethodGet, "/metrics", m.Handler())
	}

	r.Group(func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Post("/register-user", h.Auth.RegisterUser)
		api.Post("/register-customer", h.Auth.RegisterCustomer)
		api.Post("/login", h.Auth.Login)
		api.Post("/refresh", h.Auth.Refresh)

		api.Route("/admin", func(admin chi.Router) {
			admin.Use(authMiddleware.RequireRole(model.RoleAdmin))

			admin.Post("/insurance-plans", h.Admin.CreatePlan)
			admin.Post("/scheme", h.Admin.CreateScheme)
			admin.Post("/policy", h.Admin.CreatePolicy)

			for _, role := range []model.Role{model.RoleEmployee, model.RoleAgent, model.RoleCustomer} {
				admin.Route("/"+string(role), func(pr chi.Router) {
					pr.Post("/", h.Admin.CreatePrincipal(role))
					pr.Put("/{id}", h.Admin.UpdatePrincipal(role))
					pr.Delete("/{id}", h.Admin.DeletePrincipal(role))

					switch role {
					case model.RoleEmployee:
						pr.Post("/{id}/schemes", h.Admin.AssignEmployeeScheme)
					case model.RoleAgent:
						pr.Get("/{id}/commissions", h.Admin.CommissionLedger)
					}
				})
			}

			admin.Post("/calculate-commission", h.Admin.CalculateCommission)
			admin.Get("/audit", h.Audit.List)
		})

		api.Route("/policies", func(policies chi.Router) {
			policies.With(authMiddleware.RequireUserType(model.RoleAdmin, model.RoleCustomer)).Get("/", h.Policy.List)
			policies.With(authMiddleware.RequireRole(model.RoleCustomer)).Post("/purchase", h.Policy.Purchase)
		})

		api.Route("/customer", func(customer chi.Router) {
			customer.Use(authMiddleware.RequireRole(model.RoleCustomer))

			customer.Post("/calculate-premium", h.Customer.CalculatePremium)
			customer.Post("/calculate-premium-by-policy-ids", h.Customer.CalculatePremiumByPolicyIDs)
			customer.Post("/make_payment", h.Customer.MakePayment)
			customer.Get("/download_receipt/{payment_id}", h.Customer.DownloadReceipt)
		})
	})

	return r
}
