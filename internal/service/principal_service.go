package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"go-insurance-admin/internal/model"
)

// PrincipalService is the admin-side management of employees, insurance
// agents and customers.
type PrincipalService struct {
	principals      PrincipalStore
	schemes         SchemeStore
	employeeSchemes EmployeeSchemeStore
	hasher          *PasswordHasher
	audit           *AuditService
}

func NewPrincipalService(principals PrincipalStore, schemes SchemeStore, employeeSchemes EmployeeSchemeStore, hasher *PasswordHasher, audit *AuditService) *PrincipalService {
	return &PrincipalService{
		principals:      principals,
		schemes:         schemes,
		employeeSchemes: employeeSchemes,
		hasher:          hasher,
		audit:           audit,
	}
}

func resourceFor(role model.Role, id int64) string {
	return string(role) + "/" + strconv.FormatInt(id, 10)
}

func (s *PrincipalService) Create(ctx context.Context, actor model.AuditActor, role model.Role, input model.PrincipalInput) (model.Principal, error) {
	p, err := createPrincipal(ctx, s.principals, s.hasher, role, input)
	s.audit.Log(ctx, "create_"+string(role), actor, string(role)+"/"+strings.TrimSpace(input.Email), err)
	if err != nil {
		return model.Principal{}, err
	}

	slog.Info("principal created by admin", "role", role, "id", p.ID, "admin", actor.Email)
	return p, nil
}

// Update replaces the writable fields of an existing principal. The role is
// fixed by the route and cannot change; the password is re-hashed when given.
func (s *PrincipalService) Update(ctx context.Context, actor model.AuditActor, role model.Role, id int64, input model.PrincipalInput) (model.Principal, error) {
	p, err := s.update(ctx, role, id, input)
	s.audit.Log(ctx, "update_"+string(role), actor, resourceFor(role, id), err)
	return p, err
}

func (s *PrincipalService) update(ctx context.Context, role model.Role, id int64, input model.PrincipalInput) (model.Principal, error) {
	current, err := s.principals.FindByID(ctx, role, id)
	if err != nil {
		return model.Principal{}, err
	}

	email := strings.TrimSpace(input.Email)
	if !strings.EqualFold(email, current.Email) {
		exists, err := s.principals.EmailExists(ctx, role, email)
		if err != nil {
			return model.Principal{}, err
		}
		if exists {
			return model.Principal{}, model.ErrEmailTaken
		}
	}

	updated := current
	updated.Email = email
	updated.Username = strings.TrimSpace(input.Username)
	updated.FullName = strings.TrimSpace(input.FullName)

	if input.Password != "" {
		hash, err := s.hasher.Hash(input.Password)
		if err != nil {
			return model.Principal{}, err
		}
		updated.PasswordHash = hash
	}

	if role == model.RoleCustomer {
		if input.DateOfBirth.IsZero() {
			return model.Principal{}, fmt.Errorf("%w: date_of_birth is required", model.ErrInvalidInput)
		}
		updated.DateOfBirth = input.DateOfBirth
		updated.AgentID = input.AgentID
	}

	if err := s.principals.Update(ctx, updated); err != nil {
		return model.Principal{}, err
	}

	slog.Info("principal updated by admin", "role", role, "id", id)
	return updated, nil
}

func (s *PrincipalService) Delete(ctx context.Context, actor model.AuditActor, role model.Role, id int64) error {
	err := s.principals.Delete(ctx, role, id)
	s.audit.Log(ctx, "delete_"+string(role), actor, resourceFor(role, id), err)
	if err != nil {
		return err
	}

	slog.Info("principal deleted by admin", "role", role, "id", id)
	return nil
}

// AssignScheme links an employee to a scheme they administer.
func (s *PrincipalService) AssignScheme(ctx context.Context, actor model.AuditActor, employeeID int64, schemeID int64) (model.EmployeeScheme, error) {
	es, err := s.assignScheme(ctx, employeeID, schemeID)
	s.audit.Log(ctx, "assign_employee_scheme", actor,
		fmt.Sprintf("%s/schemes/%d", resourceFor(model.RoleEmployee, employeeID), schemeID), err)
	return es, err
}

func (s *PrincipalService) assignScheme(ctx context.Context, employeeID int64, schemeID int64) (model.EmployeeScheme, error) {
	if _, err := s.principals.FindByID(ctx, model.RoleEmployee, employeeID); err != nil {
		return model.EmployeeScheme{}, err
	}
	if _, err := s.schemes.FindByID(ctx, schemeID); err != nil {
		return model.EmployeeScheme{}, err
	}
	return s.employeeSchemes.Assign(ctx, employeeID, schemeID)
}
