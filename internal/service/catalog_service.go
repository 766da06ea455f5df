package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go-insurance-admin/internal/model"
)

// CatalogService manages insurance plans, their schemes and the policies
// offered under each scheme.
type CatalogService struct {
	plans    PlanStore
	schemes  SchemeStore
	policies PolicyStore
	audit    *AuditService
}

func NewCatalogService(plans PlanStore, schemes SchemeStore, policies PolicyStore, audit *AuditService) *CatalogService {
	return &CatalogService{plans: plans, schemes: schemes, policies: policies, audit: audit}
}

func (s *CatalogService) CreatePlan(ctx context.Context, actor model.AuditActor, req model.InsurancePlanRequest) (model.InsurancePlan, error) {
	plan, err := s.createPlan(ctx, req)
	s.audit.Log(ctx, "create_plan", actor, "insurance_plans/"+strings.TrimSpace(req.PlanName), err)
	return plan, err
}

func (s *CatalogService) createPlan(ctx context.Context, req model.InsurancePlanRequest) (model.InsurancePlan, error) {
	name := strings.TrimSpace(req.PlanName)

	exists, err := s.plans.NameExists(ctx, name)
	if err != nil {
		return model.InsurancePlan{}, err
	}
	if exists {
		return model.InsurancePlan{}, model.ErrPlanNameTaken
	}

	plan, err := s.plans.Create(ctx, model.InsurancePlan{Name: name, Details: strings.TrimSpace(req.PlanDetails)})
	if err != nil {
		return model.InsurancePlan{}, err
	}

	slog.Info("insurance plan created", "plan_id", plan.ID, "plan_name", plan.Name)
	return plan, nil
}

func (s *CatalogService) CreateScheme(ctx context.Context, actor model.AuditActor, req model.SchemeRequest) (model.Scheme, error) {
	scheme, err := s.createScheme(ctx, req)
	s.audit.Log(ctx, "create_scheme", actor, "schemes/"+strings.TrimSpace(req.SchemeName), err)
	return scheme, err
}

func (s *CatalogService) createScheme(ctx context.Context, req model.SchemeRequest) (model.Scheme, error) {
	name := strings.TrimSpace(req.SchemeName)

	exists, err := s.schemes.NameExists(ctx, name)
	if err != nil {
		return model.Scheme{}, err
	}
	if exists {
		return model.Scheme{}, model.ErrSchemeNameTaken
	}

	if _, err := s.plans.FindByID(ctx, req.PlanID); err != nil {
		return model.Scheme{}, err
	}

	scheme, err := s.schemes.Create(ctx, model.Scheme{
		Name:    name,
		Details: strings.TrimSpace(req.SchemeDetails),
		PlanID:  req.PlanID,
	})
	if err != nil {
		return model.Scheme{}, err
	}

	slog.Info("scheme created", "scheme_id", scheme.ID, "plan_id", scheme.PlanID)
	return scheme, nil
}

func (s *CatalogService) CreatePolicy(ctx context.Context, actor model.AuditActor, req model.PolicyRequest) (model.Policy, error) {
	policy, err := s.createPolicy(ctx, req)
	s.audit.Log(ctx, "create_policy", actor, "policies/"+strings.TrimSpace(req.PolicyDetails), err)
	return policy, err
}

func (s *CatalogService) createPolicy(ctx context.Context, req model.PolicyRequest) (model.Policy, error) {
	if req.DateIssued.IsZero() || req.PolicyLapseDate.IsZero() {
		return model.Policy{}, fmt.Errorf("%w: date_issued and policy_lapse_date are required", model.ErrInvalidInput)
	}

	details := strings.TrimSpace(req.PolicyDetails)
	exists, err := s.policies.DetailsExists(ctx, details)
	if err != nil {
		return model.Policy{}, err
	}
	if exists {
		return model.Policy{}, model.ErrPolicyNameTaken
	}

	if _, err := s.schemes.FindByID(ctx, req.SchemeID); err != nil {
		return model.Policy{}, err
	}

	policy, err := s.policies.Create(ctx, model.Policy{
		SchemeID:       req.SchemeID,
		Details:        details,
		Premium:        req.Premium,
		DateIssued:     req.DateIssued,
		MaturityPeriod: req.MaturityPeriod,
		LapseDate:      req.PolicyLapseDate,
	})
	if err != nil {
		return model.Policy{}, err
	}

	slog.Info("policy created", "policy_id", policy.ID, "scheme_id", policy.SchemeID)
	return policy, nil
}
