package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/abplan/abplan-backend/internal/projects/domain"
)

const publicIDPrefix = "abplan"

// DB is the subset of *pgxpool.Pool used by the repository.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ProjectRepository provides persistence operations for projects
type ProjectRepository struct {
	db DB
}

func NewProjectRepository(db DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create inserts a project under a fresh public ID.
func (r *ProjectRepository) Create(ctx context.Context, name, postalCode string) (*domain.Project, error) {
	for i := 0; i < 5; i++ {
		publicID, err := domain.NewPublicID(publicIDPrefix)
		if err != nil {
			return nil, err
		}

		const q = `
INSERT INTO projects (id, name, postal_code)
VALUES ($1, $2, NULLIF($3, ''))
RETURNING id, name, COALESCE(postal_code, ''), created_at, updated_at;
`
		var p domain.Project
		err = r.db.QueryRow(ctx, q, publicID, name, postalCode).
			Scan(&p.ID, &p.Name, &p.PostalCode, &p.CreatedAt, &p.UpdatedAt)
		if err == nil {
			return &p, nil
		}

		// unique violation on id → retry
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			continue
		}
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return nil, fmt.Errorf("failed to generate unique project id")
}

func (r *ProjectRepository) Get(ctx context.Context, id string) (*domain.Project, error) {
	const q = `
SELECT id, name, COALESCE(postal_code, ''), created_at, updated_at
FROM projects
WHERE id = $1;
`
	var p domain.Project
	err := r.db.QueryRow(ctx, q, id).Scan(&p.ID, &p.Name, &p.PostalCode, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return &p, nil
}
