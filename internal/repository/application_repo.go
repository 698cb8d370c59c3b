package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"intake-backend/internal/apperrors"
	"intake-backend/internal/database"
	"intake-backend/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
)

const foreignKeyViolation = "23503"

// ErrUnknownScheme is returned by Create when scheme_id references no scheme.
var ErrUnknownScheme = apperrors.Validation("Unknown scheme")

type ApplicationRepo struct {
	db database.DBTX
}

func NewApplicationRepo(db database.DBTX) *ApplicationRepo {
	return &ApplicationRepo{db: db}
}

func (r *ApplicationRepo) Create(ctx context.Context, app models.NewApplication) (int64, error) {
	query := `
		INSERT INTO applications (scheme_id, name, email, phone)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query, app.SchemeID, app.Name, app.Email, app.Phone).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return 0, ErrUnknownScheme
		}
		return 0, fmt.Errorf("db error: %w", err)
	}
	return id, nil
}

func (r *ApplicationRepo) FindStatus(ctx context.Context, id int64) (*models.ApplicationStatusView, error) {
	query := `
		SELECT a.id, a.status, s.name
		FROM applications a
		JOIN schemes s ON a.scheme_id = s.id
		WHERE a.id = $1
	`
	view := &models.ApplicationStatusView{}
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&view.ID, &view.Status, &view.SchemeName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return view, nil
}

// FindByID returns the full application row joined with its scheme name.
func (r *ApplicationRepo) FindByID(ctx context.Context, id int64) (*models.Application, error) {
	query := `
		SELECT a.id, a.scheme_id, a.name, a.email, a.phone, a.status, a.applied_at, s.name
		FROM applications a
		JOIN schemes s ON a.scheme_id = s.id
		WHERE a.id = $1
	`
	app := &models.Application{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&app.ID, &app.SchemeID, &app.Name, &app.Email, &app.Phone, &app.Status, &app.AppliedAt, &app.SchemeName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return app, nil
}

func (r *ApplicationRepo) List(ctx context.Context, filter models.ApplicationFilter) ([]models.Application, error) {
	query := `
		SELECT a.id, a.scheme_id, a.name, a.email, a.phone, a.status, a.applied_at, s.name
		FROM applications a
		JOIN schemes s ON a.scheme_id = s.id
	`
	var args []any
	if filter.Status != "" {
		query += `WHERE a.status = $1
	`
		args = append(args, filter.Status)
	}
	query += `ORDER BY a.applied_at DESC, a.id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	apps := []models.Application{}
	for rows.Next() {
		var app models.Application
		if err := rows.Scan(
			&app.ID, &app.SchemeID, &app.Name, &app.Email, &app.Phone, &app.Status, &app.AppliedAt, &app.SchemeName,
		); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return apps, nil
}

// UpdateStatus sets the status unconditionally (last writer wins). Callers
// validate the value; the table's CHECK constraint backs that up.
func (r *ApplicationRepo) UpdateStatus(ctx context.Context, id int64, status models.ApplicationStatus) error {
	query := `
		UPDATE applications
		SET status = $1
		WHERE id = $2
	`
	res, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
