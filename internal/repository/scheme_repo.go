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

type SchemeRepository struct {
	pool *pgxpool.Pool
}

func NewSchemeRepository(pool *pgxpool.Pool) *SchemeRepository {
	return &SchemeRepository{pool: pool}
}

func (r *SchemeRepository) NameExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM schemes WHERE scheme_name = $1)`,
		strings.TrimSpace(name)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check scheme name exists: %w", err)
	}
	return exists, nil
}

func (r *SchemeRepository) Create(ctx context.Context, scheme model.Scheme) (model.Scheme, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO schemes (scheme_name, scheme_details, plan_id)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		scheme.Name, scheme.Details, scheme.PlanID).Scan(&scheme.ID, &scheme.CreatedAt)
	switch {
	case isUniqueViolation(err):
		return model.Scheme{}, model.ErrSchemeNameTaken
	case isForeignKeyViolation(err):
		return model.Scheme{}, model.ErrPlanNotFound
	case err != nil:
		return model.Scheme{}, fmt.Errorf("create scheme: %w", err)
	}
	return scheme, nil
}

func (r *SchemeRepository) FindByID(ctx context.Context, id int64) (model.Scheme, error) {
	var scheme model.Scheme
	err := r.pool.QueryRow(ctx,
		`SELECT id, scheme_name, scheme_details, plan_id, created_at FROM schemes WHERE id = $1`, id).
		Scan(&scheme.ID, &scheme.Name, &scheme.Details, &scheme.PlanID, &scheme.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Scheme{}, model.ErrSchemeNotFound
	}
	if err != nil {
		return model.Scheme{}, fmt.Errorf("find scheme: %w", err)
	}
	return scheme, nil
}
