// Package memstore is an in-memory implementation of the repository
// contracts. It is safe for concurrent use and backs the service and router
// tests; it enforces the same uniqueness and not-found rules as the
// PostgreSQL schema.
package memstore

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"go-insurance-admin/internal/model"
)

type Store struct {
	mu sync.RWMutex

	nextID          int64
	principals      map[model.Role]map[int64]model.Principal
	plans           map[int64]model.InsurancePlan
	schemes         map[int64]model.Scheme
	policies        map[int64]model.Policy
	assignments     []model.Assignment
	payments        map[int64]model.Payment
	commissions     []model.Commission
	employeeSchemes []model.EmployeeScheme
	audit           []model.AuditEntry
}

func New() *Store {
	principals := make(map[model.Role]map[int64]model.Principal, len(model.Roles))
	for _, role := range model.Roles {
		principals[role] = make(map[int64]model.Principal)
	}

	return &Store{
		nextID:     1,
		principals: principals,
		plans:      make(map[int64]model.InsurancePlan),
		schemes:    make(map[int64]model.Scheme),
		policies:   make(map[int64]model.Policy),
		payments:   make(map[int64]model.Payment),
	}
}

func (s *Store) nextIDLocked() int64 {
	id := s.nextID
	s.nextID++
	return id
}

func (s *Store) Principals() *Principals           { return &Principals{s} }
func (s *Store) Plans() *Plans                     { return &Plans{s} }
func (s *Store) Schemes() *Schemes                 { return &Schemes{s} }
func (s *Store) Policies() *Policies               { return &Policies{s} }
func (s *Store) Assignments() *Assignments         { return &Assignments{s} }
func (s *Store) Payments() *Payments               { return &Payments{s} }
func (s *Store) Commissions() *Commissions         { return &Commissions{s} }
func (s *Store) EmployeeSchemes() *EmployeeSchemes { return &EmployeeSchemes{s} }
func (s *Store) Audit() *Audit                     { return &Audit{s} }

// Principals -----------------------------------------------------------------

type Principals struct{ s *Store }

func (p *Principals) table(role model.Role) (map[int64]model.Principal, error) {
	table, ok := p.s.principals[role]
	if !ok {
		return nil, model.ErrInvalidRole
	}
	return table, nil
}

func (p *Principals) FindByEmail(_ context.Context, role model.Role, email string) (model.Principal, error) {
	p.s.mu.RLock()
	defer p.s.mu.RUnlock()

	table, err := p.table(role)
	if err != nil {
		return model.Principal{}, err
	}
	for _, principal := range table {
		if strings.EqualFold(principal.Email, strings.TrimSpace(email)) {
			return principal, nil
		}
	}
	return model.Principal{}, model.ErrPrincipalNotFound
}

func (p *Principals) FindByID(_ context.Context, role model.Role, id int64) (model.Principal, error) {
	p.s.mu.RLock()
	defer p.s.mu.RUnlock()

	table, err := p.table(role)
	if err != nil {
		return model.Principal{}, err
	}
	principal, ok := table[id]
	if !ok {
		return model.Principal{}, model.ErrPrincipalNotFound
	}
	return principal, nil
}

func (p *Principals) EmailExists(ctx context.Context, role model.Role, email string) (bool, error) {
	_, err := p.FindByEmail(ctx, role, email)
	switch err {
	case nil:
		return true, nil
	case model.ErrPrincipalNotFound:
		return false, nil
	default:
		return false, err
	}
}

func (p *Principals) emailTakenLocked(table map[int64]model.Principal, email string, exceptID int64) bool {
	for id, existing := range table {
		if id != exceptID && strings.EqualFold(existing.Email, email) {
			return true
		}
	}
	return false
}

func (p *Principals) agentMissingLocked(principal model.Principal) bool {
	if principal.Role != model.RoleCustomer || principal.AgentID == nil {
		return false
	}
	_, ok := p.s.principals[model.RoleAgent][*principal.AgentID]
	return !ok
}

func (p *Principals) Create(_ context.Context, principal model.Principal) (model.Principal, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()

	table, err := p.table(principal.Role)
	if err != nil {
		return model.Principal{}, err
	}
	if p.emailTakenLocked(table, principal.Email, 0) {
		return model.Principal{}, model.ErrEmailTaken
	}
	if p.agentMissingLocked(principal) {
		return model.Principal{}, model.ErrAgentNotFound
	}

	principal.ID = p.s.nextIDLocked()
	principal.CreatedAt = time.Now().UTC()
	table[principal.ID] = principal
	return principal, nil
}

func (p *Principals) Update(_ context.Context, principal model.Principal) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()

	table, err := p.table(principal.Role)
	if err != nil {
		return err
	}
	if _, ok := table[principal.ID]; !ok {
		return model.ErrPrincipalNotFound
	}
	if p.emailTakenLocked(table, principal.Email, principal.ID) {
		return model.ErrEmailTaken
	}
	if p.agentMissingLocked(principal) {
		return model.ErrAgentNotFound
	}

	table[principal.ID] = principal
	return nil
}

func (p *Principals) Delete(_ context.Context, role model.Role, id int64) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()

	table, err := p.table(role)
	if err != nil {
		return err
	}
	if _, ok := table[id]; !ok {
		return model.ErrPrincipalNotFound
	}
	delete(table, id)

	switch role {
	case model.RoleCustomer:
		p.s.assignments = slices.DeleteFunc(p.s.assignments, func(a model.Assignment) bool { return a.CustomerID == id })
		for pid, payment := range p.s.payments {
			if payment.CustomerID == id {
				delete(p.s.payments, pid)
			}
		}
	case model.RoleAgent:
		for cid, customer := range p.s.principals[model.RoleCustomer] {
			if customer.AgentID != nil && *customer.AgentID == id {
				customer.AgentID = nil
				p.s.principals[model.RoleCustomer][cid] = customer
			}
		}
		p.s.commissions = slices.DeleteFunc(p.s.commissions, func(c model.Commission) bool { return c.AgentID == id })
	case model.RoleEmployee:
		p.s.employeeSchemes = slices.DeleteFunc(p.s.employeeSchemes, func(es model.EmployeeScheme) bool { return es.EmployeeID == id })
	}
	return nil
}

func (p *Principals) CustomersByAgent(_ context.Context, agentID int64) ([]model.Principal, error) {
	p.s.mu.RLock()
	defer p.s.mu.RUnlock()

	customers := make([]model.Principal, 0)
	for _, c := range p.s.principals[model.RoleCustomer] {
		if c.AgentID != nil && *c.AgentID == agentID {
			customers = append(customers, c)
		}
	}
	slices.SortFunc(customers, func(a, b model.Principal) int { return cmp.Compare(a.ID, b.ID) })
	return customers, nil
}

// Catalogue --------------------------------------------------------------------

type Plans struct{ s *Store }

func (p *Plans) nameExistsLocked(name string) bool {
	for _, plan := range p.s.plans {
		if plan.Name == strings.TrimSpace(name) {
			return true
		}
	}
	return false
}

func (p *Plans) NameExists(_ context.Context, name string) (bool, error) {
	p.s.mu.RLock()
	defer p.s.mu.RUnlock()
	return p.nameExistsLocked(name), nil
}

func (p *Plans) Create(_ context.Context, plan model.InsurancePlan) (model.InsurancePlan, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()

	if p.nameExistsLocked(plan.Name) {
		return model.InsurancePlan{}, model.ErrPlanNameTaken
	}

	plan.ID = p.s.nextIDLocked()
	plan.CreatedAt = time.Now().UTC()
	p.s.plans[plan.ID] = plan
	return plan, nil
}

func (p *Plans) FindByID(_ context.Context, id int64) (model.InsurancePlan, error) {
	p.s.mu.RLock()
	defer p.s.mu.RUnlock()

	plan, ok := p.s.plans[id]
	if !ok {
		return model.InsurancePlan{}, model.ErrPlanNotFound
	}
	return plan, nil
}

type Schemes struct{ s *Store }

func (sc *Schemes) nameExistsLocked(name string) bool {
	for _, scheme := range sc.s.schemes {
		if scheme.Name == strings.TrimSpace(name) {
			return true
		}
	}
	return false
}

func (sc *Schemes) NameExists(_ context.Context, name string) (bool, error) {
	sc.s.mu.RLock()
	defer sc.s.mu.RUnlock()
	return sc.nameExistsLocked(name), nil
}

func (sc *Schemes) Create(_ context.Context, scheme model.Scheme) (model.Scheme, error) {
	sc.s.mu.Lock()
	defer sc.s.mu.Unlock()

	if sc.nameExistsLocked(scheme.Name) {
		return model.Scheme{}, model.ErrSchemeNameTaken
	}

	if _, ok := sc.s.plans[scheme.PlanID]; !ok {
		return model.Scheme{}, model.ErrPlanNotFound
	}
	scheme.ID = sc.s.nextIDLocked()
	scheme.CreatedAt = time.Now().UTC()
	sc.s.schemes[scheme.ID] = scheme
	return scheme, nil
}

func (sc *Schemes) FindByID(_ context.Context, id int64) (model.Scheme, error) {
	sc.s.mu.RLock()
	defer sc.s.mu.RUnlock()

	scheme, ok := sc.s.schemes[id]
	if !ok {
		return model.Scheme{}, model.ErrSchemeNotFound
	}
	return scheme, nil
}
