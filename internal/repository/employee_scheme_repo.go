package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"go-insurance-admin/internal/model"
)

type EmployeeSchemeRepository struct {
	pool *pgxpool.Pool
}

func NewEmployeeSchemeRepository(pool *pgxpool.Pool) *EmployeeSchemeRepository {
	return &EmployeeSchemeRepository{pool: pool}
}

// Assign links an employee to a scheme. Repeating an existing link returns
// the stored row unchanged.
func (r *EmployeeSchemeRepository) Assign(ctx context.Context, employeeID int64, schemeID int64) (model.EmployeeScheme, error) {
	es := model.EmployeeScheme{EmployeeID: employeeID, SchemeID: schemeID}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO employee_schemes (employee_id, scheme_id)
		 VALUES ($1, $2)
		 ON CONFLICT (employee_id, scheme_id) DO UPDATE SET scheme_id = EXCLUDED.scheme_id
		 RETURNING id`, employeeID, schemeID).Scan(&es.ID)
	if isForeignKeyViolation(err) {
		return model.EmployeeScheme{}, model.ErrSchemeNotFound
	}
	if err != nil {
		return model.EmployeeScheme{}, fmt.Errorf("assign employee scheme: %w", err)
	}
	return es, nil
}
