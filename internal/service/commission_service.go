package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"go-insurance-admin/internal/calc"
	"go-insurance-admin/internal/model"
)

type CommissionService struct {
	principals  PrincipalStore
	policies    PolicyStore
	commissions CommissionStore
	audit       *AuditService
}

func NewCommissionService(principals PrincipalStore, policies PolicyStore, commissions CommissionStore, audit *AuditService) *CommissionService {
	return &CommissionService{principals: principals, policies: policies, commissions: commissions, audit: audit}
}

// Calculate computes the agent's commission over every policy held by the
// agent's customers and appends one ledger row per policy. Re-running the
// calculation appends again.
func (s *CommissionService) Calculate(ctx context.Context, actor model.AuditActor, agentID int64, rate float64) (model.CommissionResult, error) {
	result, err := s.calculate(ctx, agentID, rate)
	s.audit.Log(ctx, "calculate_commission", actor, "insurance_agent/"+strconv.FormatInt(agentID, 10), err)
	return result, err
}

func (s *CommissionService) calculate(ctx context.Context, agentID int64, rate float64) (model.CommissionResult, error) {
	var agent *model.Principal
	found, err := s.principals.FindByID(ctx, model.RoleAgent, agentID)
	switch {
	case errors.Is(err, model.ErrPrincipalNotFound):
	case err != nil:
		return model.CommissionResult{}, err
	default:
		agent = &found
	}

	var customers []model.Principal
	var policies []model.Policy
	if agent != nil {
		if customers, err = s.principals.CustomersByAgent(ctx, agentID); err != nil {
			return model.CommissionResult{}, err
		}

		ids := make([]int64, 0, len(customers))
		for _, c := range customers {
			ids = append(ids, c.ID)
		}
		if policies, err = s.policies.ForCustomers(ctx, ids); err != nil {
			return model.CommissionResult{}, err
		}
	}

	total, details, err := calc.TotalCommission(agent, customers, policies, rate)
	if err != nil {
		return model.CommissionResult{}, err
	}

	rows := make([]model.Commission, 0, len(details))
	for _, d := range details {
		rows = append(rows, model.Commission{AgentID: agentID, PolicyID: d.PolicyID, Amount: calc.Round2(d.Commission)})
	}
	if err := s.commissions.CreateBatch(ctx, rows); err != nil {
		return model.CommissionResult{}, fmt.Errorf("store commissions: %w", err)
	}

	slog.Info("commission calculated", "agent_id", agentID, "rate", rate, "policies", len(details), "total", total)
	return model.CommissionResult{
		AgentID:           agentID,
		TotalCommission:   total,
		CommissionRate:    rate,
		CommissionDetails: details,
	}, nil
}

// Ledger returns every commission row recorded for the agent, oldest first.
func (s *CommissionService) Ledger(ctx context.Context, agentID int64) ([]model.Commission, error) {
	_, err := s.principals.FindByID(ctx, model.RoleAgent, agentID)
	if errors.Is(err, model.ErrPrincipalNotFound) {
		return nil, model.ErrAgentNotFound
	}
	if err != nil {
		return nil, err
	}

	return s.commissions.ListByAgent(ctx, agentID)
}
