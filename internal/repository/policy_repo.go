package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-insurance-admin/internal/model"
)

const policyColumns = `p.id, p.scheme_id, p.policy_details, p.premium, p.date_issued,
	p.maturity_period, p.policy_lapse_date, p.created_at`

type PolicyRepository struct {
	pool *pgxpool.Pool
}

func NewPolicyRepository(pool *pgxpool.Pool) *PolicyRepository {
	return &PolicyRepository{pool: pool}
}

func policyDest(p *model.Policy) []any {
	return []any{&p.ID, &p.SchemeID, &p.Details, &p.Premium, &p.DateIssued,
		&p.MaturityPeriod, &p.LapseDate, &p.CreatedAt}
}

func collectPolicies(rows pgx.Rows) ([]model.Policy, error) {
	defer rows.Close()

	policies := make([]model.Policy, 0)
	for rows.Next() {
		var p model.Policy
		if err := rows.Scan(policyDest(&p)...); err != nil {
			return nil, fmt.Errorf("scan policy: %w", err)
		}
		policies = append(policies, p)
	}
	return policies, rows.Err()
}

func (r *PolicyRepository) DetailsExists(ctx context.Context, details string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM policies WHERE policy_details = $1)`,
		strings.TrimSpace(details)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check policy details exists: %w", err)
	}
	return exists, nil
}

func (r *PolicyRepository) Create(ctx context.Context, p model.Policy) (model.Policy, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO policies (scheme_id, policy_details, premium, date_issued, maturity_period, policy_lapse_date)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		p.SchemeID, p.Details, p.Premium, p.DateIssued.Time, p.MaturityPeriod, p.LapseDate.Time).
		Scan(&p.ID, &p.CreatedAt)
	switch {
	case isUniqueViolation(err):
		return model.Policy{}, model.ErrPolicyNameTaken
	case isForeignKeyViolation(err):
		return model.Policy{}, model.ErrSchemeNotFound
	case err != nil:
		return model.Policy{}, fmt.Errorf("create policy: %w", err)
	}
	return p, nil
}

func (r *PolicyRepository) FindByID(ctx context.Context, id int64) (model.Policy, error) {
	var p model.Policy
	err := r.pool.QueryRow(ctx,
		`SELECT `+policyColumns+` FROM policies p WHERE p.id = $1`, id).
		Scan(policyDest(&p)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Policy{}, model.ErrPolicyNotFound
	}
	if err != nil {
		return model.Policy{}, fmt.Errorf("find policy: %w", err)
	}
	return p, nil
}

func (r *PolicyRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM policies`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count policies: %w", err)
	}
	return total, nil
}

func (r *PolicyRepository) List(ctx context.Context, page int, size int) ([]model.Policy, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+policyColumns+` FROM policies p ORDER BY p.id LIMIT $1 OFFSET $2`,
		size, pageOffset(page, size))
	if err != nil {
		return nil, fmt.Errorf("list policies: %w", err)
	}
	return collectPolicies(rows)
}

// CountAssigned counts the rows of the policy/assignment outer join: one row
// per assignment plus one per unassigned policy.
func (r *PolicyRepository) CountAssigned(ctx context.Context) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM policies p LEFT JOIN customer_policies cp ON cp.policy_id = p.id`).
		Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count assigned policies: %w", err)
	}
	return total, nil
}

func (r *PolicyRepository) ListAssigned(ctx context.Context, page int, size int) ([]model.AssignedPolicy, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+policyColumns+`, cp.customer_id
		 FROM policies p
		 LEFT JOIN customer_policies cp ON cp.policy_id = p.id
		 ORDER BY p.id, cp.id
		 LIMIT $1 OFFSET $2`,
		size, pageOffset(page, size))
	if err != nil {
		return nil, fmt.Errorf("list assigned policies: %w", err)
	}
	defer rows.Close()

	policies := make([]model.AssignedPolicy, 0)
	for rows.Next() {
		var ap model.AssignedPolicy
		if err := rows.Scan(append(policyDest(&ap.Policy), &ap.CustomerID)...); err != nil {
			return nil, fmt.Errorf("scan assigned policy: %w", err)
		}
		policies = append(policies, ap)
	}
	return policies, rows.Err()
}

// ForCustomer returns the policies the customer has purchased.
func (r *PolicyRepository) ForCustomer(ctx context.Context, customerID int64) ([]model.Policy, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+policyColumns+`
		 FROM policies p
		 JOIN customer_policies cp ON cp.policy_id = p.id
		 WHERE cp.customer_id = $1
		 ORDER BY cp.id`, customerID)
	if err != nil {
		return nil, fmt.Errorf("list customer policies: %w", err)
	}
	return collectPolicies(rows)
}

// ForCustomers returns one policy row per assignment held by any of the
// customers, so a policy sold twice appears twice.
func (r *PolicyRepository) ForCustomers(ctx context.Context, customerIDs []int64) ([]model.Policy, error) {
	if len(customerIDs) == 0 {
		return []model.Policy{}, nil
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+policyColumns+`
		 FROM policies p
		 JOIN customer_policies cp ON cp.policy_id = p.id
		 WHERE cp.customer_id = ANY($1)
		 ORDER BY cp.id`, customerIDs)
	if err != nil {
		return nil, fmt.Errorf("list policies for customers: %w", err)
	}
	return collectPolicies(rows)
}

// ByIDs returns the policies matching ids, ignoring unknown ids.
func (r *PolicyRepository) ByIDs(ctx context.Context, ids []int64) ([]model.Policy, error) {
	if len(ids) == 0 {
		return []model.Policy{}, nil
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+policyColumns+` FROM policies p WHERE p.id = ANY($1) ORDER BY p.id`, ids)
	if err != nil {
		return nil, fmt.Errorf("list policies by id: %w", err)
	}
	return collectPolicies(rows)
}
