package repository

import (
	"context"
	"fmt"

	"intake-backend/internal/database"
	"intake-backend/internal/models"
)

type SchemeRepo struct {
	db database.DBTX
}

func NewSchemeRepo(db database.DBTX) *SchemeRepo {
	return &SchemeRepo{db: db}
}

func (r *SchemeRepo) List(ctx context.Context) ([]models.Scheme, error) {
	query := `
		SELECT id, name
		FROM schemes
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	schemes := []models.Scheme{}
	for rows.Next() {
		var s models.Scheme
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		schemes = append(schemes, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return schemes, nil
}
