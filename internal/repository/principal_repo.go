package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-insurance-admin/internal/database"
	"go-insurance-admin/internal/model"
)

type PrincipalRepository struct {
	pool *pgxpool.Pool
}

func NewPrincipalRepository(pool *pgxpool.Pool) *PrincipalRepository {
	return &PrincipalRepository{pool: pool}
}

// tableFor maps each role onto its backing table. Table names are never taken
// from user input.
func tableFor(role model.Role) (string, error) {
	switch role {
	case model.RoleAdmin:
		return "admins", nil
	case model.RoleEmployee:
		return "employees", nil
	case model.RoleAgent:
		return "insurance_agents", nil
	case model.RoleCustomer:
		return "customers", nil
	default:
		return "", model.ErrInvalidRole
	}
}

func selectColumns(role model.Role) string {
	if role == model.RoleCustomer {
		return "id, email, username, full_name, password_hash, date_of_birth, agent_id, created_at"
	}
	return "id, email, username, full_name, password_hash, created_at"
}

func scanPrincipal(row pgx.Row, role model.Role) (model.Principal, error) {
	p := model.Principal{Role: role}
	var err error
	if role == model.RoleCustomer {
		err = row.Scan(&p.ID, &p.Email, &p.Username, &p.FullName, &p.PasswordHash, &p.DateOfBirth, &p.AgentID, &p.CreatedAt)
	} else {
		err = row.Scan(&p.ID, &p.Email, &p.Username, &p.FullName, &p.PasswordHash, &p.CreatedAt)
	}
	return p, err
}

func (r *PrincipalRepository) FindByEmail(ctx context.Context, role model.Role, email string) (model.Principal, error) {
	table, err := tableFor(role)
	if err != nil {
		return model.Principal{}, err
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE lower(email) = lower($1)`, selectColumns(role), table)
	p, err := scanPrincipal(r.pool.QueryRow(ctx, query, strings.TrimSpace(email)), role)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Principal{}, model.ErrPrincipalNotFound
	}
	if err != nil {
		return model.Principal{}, fmt.Errorf("find %s by email: %w", role, err)
	}
	return p, nil
}

func (r *PrincipalRepository) FindByID(ctx context.Context, role model.Role, id int64) (model.Principal, error) {
	table, err := tableFor(role)
	if err != nil {
		return model.Principal{}, err
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, selectColumns(role), table)
	p, err := scanPrincipal(r.pool.QueryRow(ctx, query, id), role)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Principal{}, model.ErrPrincipalNotFound
	}
	if err != nil {
		return model.Principal{}, fmt.Errorf("find %s by id: %w", role, err)
	}
	return p, nil
}

func (r *PrincipalRepository) EmailExists(ctx context.Context, role model.Role, email string) (bool, error) {
	table, err := tableFor(role)
	if err != nil {
		return false, err
	}

	var exists bool
	query := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE lower(email) = lower($1))`, table)
	if err := r.pool.QueryRow(ctx, query, strings.TrimSpace(email)).Scan(&exists); err != nil {
		return false, fmt.Errorf("check %s email exists: %w", role, err)
	}
	return exists, nil
}

func (r *PrincipalRepository) Create(ctx context.Context, p model.Principal) (model.Principal, error) {
	var err error
	if p.Role == model.RoleCustomer {
		err = r.pool.QueryRow(ctx,
			`INSERT INTO customers (email, username, full_name, password_hash, date_of_birth, agent_id)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING id, created_at`,
			p.Email, p.Username, p.FullName, p.PasswordHash, p.DateOfBirth.Time, p.AgentID).
			Scan(&p.ID, &p.CreatedAt)
	} else {
		table, tableErr := tableFor(p.Role)
		if tableErr != nil {
			return model.Principal{}, tableErr
		}
		err = r.pool.QueryRow(ctx, fmt.Sprintf(
			`INSERT INTO %s (email, username, full_name, password_hash)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id, created_at`, table),
			p.Email, p.Username, p.FullName, p.PasswordHash).
			Scan(&p.ID, &p.CreatedAt)
	}

	if isUniqueViolation(err) {
		return model.Principal{}, model.ErrEmailTaken
	}
	if isForeignKeyViolation(err) {
		return model.Principal{}, model.ErrAgentNotFound
	}
	if err != nil {
		return model.Principal{}, fmt.Errorf("create %s: %w", p.Role, err)
	}
	return p, nil
}

func (r *PrincipalRepository) Update(ctx context.Context, p model.Principal) error {
	var (
		tag pgconn.CommandTag
		err error
	)
	if p.Role == model.RoleCustomer {
		tag, err = r.pool.Exec(ctx,
			`UPDATE customers
			 SET email = $2, username = $3, full_name = $4, password_hash = $5, date_of_birth = $6, agent_id = $7
			 WHERE id = $1`,
			p.ID, p.Email, p.Username, p.FullName, p.PasswordHash, p.DateOfBirth.Time, p.AgentID)
	} else {
		table, tableErr := tableFor(p.Role)
		if tableErr != nil {
			return tableErr
		}
		tag, err = r.pool.Exec(ctx, fmt.Sprintf(
			`UPDATE %s SET email = $2, username = $3, full_name = $4, password_hash = $5 WHERE id = $1`, table),
			p.ID, p.Email, p.Username, p.FullName, p.PasswordHash)
	}

	if isUniqueViolation(err) {
		return model.ErrEmailTaken
	}
	if isForeignKeyViolation(err) {
		return model.ErrAgentNotFound
	}
	if err != nil {
		return fmt.Errorf("update %s: %w", p.Role, err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrPrincipalNotFound
	}
	return nil
}

// Delete removes a principal. Customers lose their policy assignments and
// payments in the same transaction.
func (r *PrincipalRepository) Delete(ctx context.Context, role model.Role, id int64) error {
	table, err := tableFor(role)
	if err != nil {
		return err
	}

	return database.InTx(ctx, r.pool, func(tx pgx.Tx) error {
		if role == model.RoleCustomer {
			if _, err := tx.Exec(ctx, `DELETE FROM customer_policies WHERE customer_id = $1`, id); err != nil {
				return fmt.Errorf("delete customer assignments: %w", err)
			}
			if _, err := tx.Exec(ctx, `DELETE FROM payments WHERE customer_id = $1`, id); err != nil {
				return fmt.Errorf("delete customer payments: %w", err)
			}
		}

		tag, err := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table), id)
		if err != nil {
			return fmt.Errorf("delete %s: %w", role, err)
		}
		if tag.RowsAffected() == 0 {
			return model.ErrPrincipalNotFound
		}
		return nil
	})
}

func (r *PrincipalRepository) CustomersByAgent(ctx context.Context, agentID int64) ([]model.Principal, error) {
	rows, err := r.pool.Query(ctx,
		fmt.Sprintf(`SELECT %s FROM customers WHERE agent_id = $1 ORDER BY id`, selectColumns(model.RoleCustomer)),
		agentID)
	if err != nil {
		return nil, fmt.Errorf("list customers by agent: %w", err)
	}
	defer rows.Close()

	customers := make([]model.Principal, 0)
	for rows.Next() {
		p, err := scanPrincipal(rows, model.RoleCustomer)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		customers = append(customers, p)
	}
	return customers, rows.Err()
}
