package service

import (
	"context"
	"fmt"
	"log/slog"

	"go-insurance-admin/internal/model"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	notAssigned     = "Not Assigned"
)

type PolicyService struct {
	policies    PolicyStore
	assignments AssignmentStore
}

func NewPolicyService(policies PolicyStore, assignments AssignmentStore) *PolicyService {
	return &PolicyService{policies: policies, assignments: assignments}
}

// List pages through policies. Customers see the catalogue; admins see one
// row per assignment (plus unassigned policies) with the owning customer.
func (s *PolicyService) List(ctx context.Context, role model.Role, page int, size int) (model.PolicyPage, error) {
	if page < 1 {
		return model.PolicyPage{}, fmt.Errorf("%w: page must be at least 1", model.ErrInvalidInput)
	}
	if size < 1 || size > MaxPageSize {
		return model.PolicyPage{}, fmt.Errorf("%w: size must be between 1 and %d", model.ErrInvalidInput, MaxPageSize)
	}

	switch role {
	case model.RoleCustomer:
		return s.listCatalogue(ctx, page, size)
	case model.RoleAdmin:
		return s.listAssigned(ctx, page, size)
	default:
		return model.PolicyPage{}, model.ErrInvalidRole
	}
}

func (s *PolicyService) listCatalogue(ctx context.Context, page int, size int) (model.PolicyPage, error) {
	total, err := s.policies.Count(ctx)
	if err != nil {
		return model.PolicyPage{}, err
	}

	policies, err := s.policies.List(ctx, page, size)
	if err != nil {
		return model.PolicyPage{}, err
	}
	if len(policies) == 0 {
		return model.PolicyPage{}, model.ErrEmptyPage
	}

	views := make([]model.PolicyView, 0, len(policies))
	for _, p := range policies {
		views = append(views, model.PolicyView{Policy: p})
	}

	return model.PolicyPage{
		Page:         page,
		Size:         size,
		TotalPages:   model.TotalPages(total, size),
		TotalRecords: total,
		Policies:     views,
	}, nil
}

func (s *PolicyService) listAssigned(ctx context.Context, page int, size int) (model.PolicyPage, error) {
	total, err := s.policies.CountAssigned(ctx)
	if err != nil {
		return model.PolicyPage{}, err
	}

	rows, err := s.policies.ListAssigned(ctx, page, size)
	if err != nil {
		return model.PolicyPage{}, err
	}

	purchased, err := s.assignments.Count(ctx)
	if err != nil {
		return model.PolicyPage{}, err
	}

	views := make([]model.PolicyView, 0, len(rows))
	for _, row := range rows {
		view := model.PolicyView{Policy: row.Policy, CustomerID: notAssigned}
		if row.CustomerID != nil {
			view.CustomerID = *row.CustomerID
		}
		views = append(views, view)
	}

	slog.Debug("admin listed policies", "page", page, "rows", len(views))
	return model.PolicyPage{
		Page:                   page,
		Size:                   size,
		TotalPages:             model.TotalPages(total, size),
		TotalRecords:           total,
		TotalPurchasedPolicies: &purchased,
		Policies:               views,
	}, nil
}

// Purchase assigns policyID to the customer. A second purchase of the same
// policy, including a concurrent one, fails with ErrDuplicateAssignment.
func (s *PolicyService) Purchase(ctx context.Context, customerID int64, policyID int64) (model.Assignment, error) {
	if _, err := s.policies.FindByID(ctx, policyID); err != nil {
		return model.Assignment{}, err
	}

	assignment, err := s.assignments.Assign(ctx, customerID, policyID)
	if err != nil {
		return model.Assignment{}, err
	}

	slog.Info("policy purchased", "customer_id", customerID, "policy_id", policyID)
	return assignment, nil
}
