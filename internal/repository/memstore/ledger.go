package memstore

import (
	"context"
	"slices"
	"strings"
	"time"

	"go-insurance-admin/internal/model"
)

type Assignments struct{ s *Store }

func (a *Assignments) Assign(_ context.Context, customerID int64, policyID int64) (model.Assignment, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	if _, ok := a.s.policies[policyID]; !ok {
		return model.Assignment{}, model.ErrPolicyNotFound
	}
	if _, ok := a.s.principals[model.RoleCustomer][customerID]; !ok {
		return model.Assignment{}, model.ErrPrincipalNotFound
	}
	for _, existing := range a.s.assignments {
		if existing.CustomerID == customerID && existing.PolicyID == policyID {
			return model.Assignment{}, model.ErrDuplicateAssignment
		}
	}

	assignment := model.Assignment{
		ID:           a.s.nextIDLocked(),
		CustomerID:   customerID,
		PolicyID:     policyID,
		DateAssigned: time.Now().UTC(),
	}
	a.s.assignments = append(a.s.assignments, assignment)
	return assignment, nil
}

func (a *Assignments) Exists(_ context.Context, customerID int64, policyID int64) (bool, error) {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()

	return slices.ContainsFunc(a.s.assignments, func(existing model.Assignment) bool {
		return existing.CustomerID == customerID && existing.PolicyID == policyID
	}), nil
}

func (a *Assignments) Count(_ context.Context) (int, error) {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()
	return len(a.s.assignments), nil
}

type Payments struct{ s *Store }

func (p *Payments) Create(_ context.Context, payment model.Payment) (model.Payment, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()

	if _, ok := p.s.policies[payment.PolicyID]; !ok {
		return model.Payment{}, model.ErrPolicyNotFound
	}
	payment.ID = p.s.nextIDLocked()
	payment.CreatedAt = time.Now().UTC()
	p.s.payments[payment.ID] = payment
	return payment, nil
}

func (p *Payments) FindByID(_ context.Context, id int64) (model.Payment, error) {
	p.s.mu.RLock()
	defer p.s.mu.RUnlock()

	payment, ok := p.s.payments[id]
	if !ok {
		return model.Payment{}, model.ErrPaymentNotFound
	}
	return payment, nil
}

type Commissions struct{ s *Store }

func (c *Commissions) CreateBatch(_ context.Context, commissions []model.Commission) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	for _, commission := range commissions {
		if _, ok := c.s.principals[model.RoleAgent][commission.AgentID]; !ok {
			return model.ErrAgentNotFound
		}
	}

	now := time.Now().UTC()
	for _, commission := range commissions {
		commission.ID = c.s.nextIDLocked()
		commission.CreatedAt = now
		c.s.commissions = append(c.s.commissions, commission)
	}
	return nil
}

func (c *Commissions) ListByAgent(_ context.Context, agentID int64) ([]model.Commission, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()

	out := make([]model.Commission, 0)
	for _, commission := range c.s.commissions {
		if commission.AgentID == agentID {
			out = append(out, commission)
		}
	}
	return out, nil
}

type EmployeeSchemes struct{ s *Store }

func (e *EmployeeSchemes) Assign(_ context.Context, employeeID int64, schemeID int64) (model.EmployeeScheme, error) {
	e.s.mu.Lock()
	defer e.s.mu.Unlock()

	if _, ok := e.s.schemes[schemeID]; !ok {
		return model.EmployeeScheme{}, model.ErrSchemeNotFound
	}
	for _, existing := range e.s.employeeSchemes {
		if existing.EmployeeID == employeeID && existing.SchemeID == schemeID {
			return existing, nil
		}
	}

	es := model.EmployeeScheme{ID: e.s.nextIDLocked(), EmployeeID: employeeID, SchemeID: schemeID}
	e.s.employeeSchemes = append(e.s.employeeSchemes, es)
	return es, nil
}

type Audit struct{ s *Store }

func (a *Audit) Log(_ context.Context, entry model.AuditEntry) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	a.s.audit = append(a.s.audit, entry)
	return nil
}

// Query filters like the SQL store and returns newest entries first.
func (a *Audit) Query(_ context.Context, query model.AuditQuery) ([]model.AuditEntry, model.Meta, error) {
	query = query.Normalize()

	a.s.mu.RLock()
	matched := make([]model.AuditEntry, 0, len(a.s.audit))
	for i := len(a.s.audit) - 1; i >= 0; i-- {
		e := a.s.audit[i]
		if query.Action != "" && !strings.EqualFold(e.Action, query.Action) {
			continue
		}
		if query.ActorEmail != "" && !strings.EqualFold(e.Actor.Email, query.ActorEmail) {
			continue
		}
		if query.Status != "" && !strings.EqualFold(e.Status, query.Status) {
			continue
		}
		matched = append(matched, e)
	}
	a.s.mu.RUnlock()

	meta := model.NewMeta(query.Page, query.Limit, len(matched))
	return window(matched, query.Page, query.Limit), meta, nil
}
