package service

import (
	"context"

	"go-insurance-admin/internal/model"
)

// The interfaces below are satisfied by the pgx repositories and by the
// in-memory store used in tests.

type PrincipalStore interface {
	FindByEmail(ctx context.Context, role model.Role, email string) (model.Principal, error)
	FindByID(ctx context.Context, role model.Role, id int64) (model.Principal, error)
	EmailExists(ctx context.Context, role model.Role, email string) (bool, error)
	Create(ctx context.Context, p model.Principal) (model.Principal, error)
	Update(ctx context.Context, p model.Principal) error
	Delete(ctx context.Context, role model.Role, id int64) error
	CustomersByAgent(ctx context.Context, agentID int64) ([]model.Principal, error)
}

type PlanStore interface {
	NameExists(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, plan model.InsurancePlan) (model.InsurancePlan, error)
	FindByID(ctx context.Context, id int64) (model.InsurancePlan, error)
}

type SchemeStore interface {
	NameExists(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, scheme model.Scheme) (model.Scheme, error)
	FindByID(ctx context.Context, id int64) (model.Scheme, error)
}

type PolicyStore interface {
	DetailsExists(ctx context.Context, details string) (bool, error)
	Create(ctx context.Context, p model.Policy) (model.Policy, error)
	FindByID(ctx context.Context, id int64) (model.Policy, error)
	Count(ctx context.Context) (int, error)
	List(ctx context.Context, page int, size int) ([]model.Policy, error)
	CountAssigned(ctx context.Context) (int, error)
	ListAssigned(ctx context.Context, page int, size int) ([]model.AssignedPolicy, error)
	ForCustomer(ctx context.Context, customerID int64) ([]model.Policy, error)
	ForCustomers(ctx context.Context, customerIDs []int64) ([]model.Policy, error)
	ByIDs(ctx context.Context, ids []int64) ([]model.Policy, error)
}

type AssignmentStore interface {
	Assign(ctx context.Context, customerID int64, policyID int64) (model.Assignment, error)
	Exists(ctx context.Context, customerID int64, policyID int64) (bool, error)
	Count(ctx context.Context) (int, error)
}

type PaymentStore interface {
	Create(ctx context.Context, p model.Payment) (model.Payment, error)
	FindByID(ctx context.Context, id int64) (model.Payment, error)
}

type CommissionStore interface {
	CreateBatch(ctx context.Context, commissions []model.Commission) error
	ListByAgent(ctx context.Context, agentID int64) ([]model.Commission, error)
}

type EmployeeSchemeStore interface {
	Assign(ctx context.Context, employeeID int64, schemeID int64) (model.EmployeeScheme, error)
}

type AuditStore interface {
	Log(ctx context.Context, entry model.AuditEntry) error
	Query(ctx context.Context, query model.AuditQuery) ([]model.AuditEntry, model.Meta, error)
}
