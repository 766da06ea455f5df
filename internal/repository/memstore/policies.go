package memstore

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"go-insurance-admin/internal/model"
)

type Policies struct{ s *Store }

func (p *Policies) detailsExistsLocked(details string) bool {
	for _, policy := range p.s.policies {
		if policy.Details == strings.TrimSpace(details) {
			return true
		}
	}
	return false
}

func (p *Policies) DetailsExists(_ context.Context, details string) (bool, error) {
	p.s.mu.RLock()
	defer p.s.mu.RUnlock()
	return p.detailsExistsLocked(details), nil
}

func (p *Policies) Create(_ context.Context, policy model.Policy) (model.Policy, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()

	if p.detailsExistsLocked(policy.Details) {
		return model.Policy{}, model.ErrPolicyNameTaken
	}

	if _, ok := p.s.schemes[policy.SchemeID]; !ok {
		return model.Policy{}, model.ErrSchemeNotFound
	}
	policy.ID = p.s.nextIDLocked()
	policy.CreatedAt = time.Now().UTC()
	p.s.policies[policy.ID] = policy
	return policy, nil
}

func (p *Policies) FindByID(_ context.Context, id int64) (model.Policy, error) {
	p.s.mu.RLock()
	defer p.s.mu.RUnlock()

	policy, ok := p.s.policies[id]
	if !ok {
		return model.Policy{}, model.ErrPolicyNotFound
	}
	return policy, nil
}

func (p *Policies) sortedLocked() []model.Policy {
	all := make([]model.Policy, 0, len(p.s.policies))
	for _, policy := range p.s.policies {
		all = append(all, policy)
	}
	slices.SortFunc(all, func(a, b model.Policy) int { return cmp.Compare(a.ID, b.ID) })
	return all
}

func (p *Policies) Count(_ context.Context) (int, error) {
	p.s.mu.RLock()
	defer p.s.mu.RUnlock()
	return len(p.s.policies), nil
}

func (p *Policies) List(_ context.Context, page int, size int) ([]model.Policy, error) {
	p.s.mu.RLock()
	defer p.s.mu.RUnlock()
	return window(p.sortedLocked(), page, size), nil
}

func (p *Policies) assignedLocked() []model.AssignedPolicy {
	rows := make([]model.AssignedPolicy, 0)
	for _, policy := range p.sortedLocked() {
		matched := false
		for _, a := range p.s.assignments {
			if a.PolicyID == policy.ID {
				customerID := a.CustomerID
				rows = append(rows, model.AssignedPolicy{Policy: policy, CustomerID: &customerID})
				matched = true
			}
		}
		if !matched {
			rows = append(rows, model.AssignedPolicy{Policy: policy})
		}
	}
	return rows
}

func (p *Policies) CountAssigned(_ context.Context) (int, error) {
	p.s.mu.RLock()
	defer p.s.mu.RUnlock()
	return len(p.assignedLocked()), nil
}

func (p *Policies) ListAssigned(_ context.Context, page int, size int) ([]model.AssignedPolicy, error) {
	p.s.mu.RLock()
	defer p.s.mu.RUnlock()
	return window(p.assignedLocked(), page, size), nil
}

func (p *Policies) ForCustomer(ctx context.Context, customerID int64) ([]model.Policy, error) {
	return p.ForCustomers(ctx, []int64{customerID})
}

func (p *Policies) ForCustomers(_ context.Context, customerIDs []int64) ([]model.Policy, error) {
	p.s.mu.RLock()
	defer p.s.mu.RUnlock()

	policies := make([]model.Policy, 0)
	for _, a := range p.s.assignments {
		if slices.Contains(customerIDs, a.CustomerID) {
			if policy, ok := p.s.policies[a.PolicyID]; ok {
				policies = append(policies, policy)
			}
		}
	}
	return policies, nil
}

func (p *Policies) ByIDs(_ context.Context, ids []int64) ([]model.Policy, error) {
	p.s.mu.RLock()
	defer p.s.mu.RUnlock()

	policies := make([]model.Policy, 0, len(ids))
	for _, policy := range p.sortedLocked() {
		if slices.Contains(ids, policy.ID) {
			policies = append(policies, policy)
		}
	}
	return policies, nil
}

func window[T any](items []T, page int, size int) []T {
	if page < 1 {
		page = 1
	}
	start := (page - 1) * size
	if start >= len(items) {
		return []T{}
	}
	end := min(start+size, len(items))
	return items[start:end]
}
