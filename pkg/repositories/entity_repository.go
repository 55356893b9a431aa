// Package repositories provides PostgreSQL data access for the
// work-tracking domain. Repositories are stateless; they read the
// active querier (pool or transaction) from the request context.
package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/federicoescribanog-oss/WebControlHoras/pkg/apperrors"
	"github.com/federicoescribanog-oss/WebControlHoras/pkg/database"
	"github.com/federicoescribanog-oss/WebControlHoras/pkg/models"
)

// EntityRepository defines data access for the three master tables.
// Every method takes the entity kind explicitly; the kind selects the
// table and is always validated by callers.
type EntityRepository interface {
	Create(ctx context.Context, kind models.EntityKind, entity *models.MasterEntity) error
	Get(ctx context.Context, kind models.EntityKind, id int64) (*models.MasterEntity, error)
	List(ctx context.Context, kind models.EntityKind, includeInactive bool) ([]*models.MasterEntity, error)
	FindByName(ctx context.Context, kind models.EntityKind, name string) (*models.MasterEntity, error)
	SetActive(ctx context.Context, kind models.EntityKind, id int64, active bool) error
}

type entityRepository struct{}

// NewEntityRepository creates a new master-entity repository.
func NewEntityRepository() EntityRepository {
	return &entityRepository{}
}

// extraColumn returns the kind-specific optional column: people carry an
// email, projects and tasks a description.
func extraColumn(kind models.EntityKind) string {
	if kind == models.KindPerson {
		return "email"
	}
	return "description"
}

func extraValue(kind models.EntityKind, e *models.MasterEntity) *string {
	if kind == models.KindPerson {
		return e.Email
	}
	return e.Description
}

func scanEntity(row pgx.Row, kind models.EntityKind) (*models.MasterEntity, error) {
	e := models.MasterEntity{Kind: kind}
	var extra *string
	if err := row.Scan(&e.ID, &e.Name, &extra, &e.Active, &e.CreatedAt); err != nil {
		return nil, err
	}
	if kind == models.KindPerson {
		e.Email = extra
	} else {
		e.Description = extra
	}
	return &e, nil
}

// Create inserts a new master row. Name uniqueness is checked
// case-insensitively first so the existing row can be reported back in
// the conflict, mirroring the unique index on LOWER(name).
func (r *entityRepository) Create(ctx context.Context, kind models.EntityKind, entity *models.MasterEntity) error {
	q, ok := database.GetQuerier(ctx)
	if !ok {
		return fmt.Errorf("no database querier in context")
	}

	existing, err := r.FindByName(ctx, kind, entity.Name)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}
	if existing != nil {
		return &apperrors.DuplicateNameError{ID: existing.ID, Name: existing.Name}
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (name, %s)
		VALUES ($1, $2)
		RETURNING id, active, created_at`,
		kind.Table(), extraColumn(kind))

	err = q.QueryRow(ctx, query, entity.Name, extraValue(kind, entity)).
		Scan(&entity.ID, &entity.Active, &entity.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", kind.Label(), err)
	}
	entity.Kind = kind

	return nil
}

// Get retrieves a master row by id, active or not.
func (r *entityRepository) Get(ctx context.Context, kind models.EntityKind, id int64) (*models.MasterEntity, error) {
	q, ok := database.GetQuerier(ctx)
	if !ok {
		return nil, fmt.Errorf("no database querier in context")
	}

	query := fmt.Sprintf(`
		SELECT id, name, %s, active, created_at
		FROM %s
		WHERE id = $1`,
		extraColumn(kind), kind.Table())

	entity, err := scanEntity(q.QueryRow(ctx, query, id), kind)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get %s: %w", kind.Label(), err)
	}

	return entity, nil
}

// List returns master rows ordered by name. With includeInactive the
// inactive rows are included and sorted after the active ones.
func (r *entityRepository) List(ctx context.Context, kind models.EntityKind, includeInactive bool) ([]*models.MasterEntity, error) {
	q, ok := database.GetQuerier(ctx)
	if !ok {
		return nil, fmt.Errorf("no database querier in context")
	}

	var query string
	if includeInactive {
		query = fmt.Sprintf(`
			SELECT id, name, %s, active, created_at
			FROM %s
			ORDER BY active DESC, name ASC`,
			extraColumn(kind), kind.Table())
	} else {
		query = fmt.Sprintf(`
			SELECT id, name, %s, active, created_at
			FROM %s
			WHERE active = TRUE
			ORDER BY name ASC`,
			extraColumn(kind), kind.Table())
	}

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list %ss: %w", kind.Label(), err)
	}
	defer rows.Close()

	var entities []*models.MasterEntity
	for rows.Next() {
		entity, err := scanEntity(rows, kind)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", kind.Label(), err)
		}
		entities = append(entities, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %ss: %w", kind.Label(), err)
	}

	return entities, nil
}

// FindByName retrieves a master row by case-insensitive name match.
func (r *entityRepository) FindByName(ctx context.Context, kind models.EntityKind, name string) (*models.MasterEntity, error) {
	q, ok := database.GetQuerier(ctx)
	if !ok {
		return nil, fmt.Errorf("no database querier in context")
	}

	query := fmt.Sprintf(`
		SELECT id, name, %s, active, created_at
		FROM %s
		WHERE LOWER(name) = LOWER($1)`,
		extraColumn(kind), kind.Table())

	entity, err := scanEntity(q.QueryRow(ctx, query, name), kind)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find %s by name: %w", kind.Label(), err)
	}

	return entity, nil
}

// SetActive flips the active flag on a master row.
func (r *entityRepository) SetActive(ctx context.Context, kind models.EntityKind, id int64, active bool) error {
	q, ok := database.GetQuerier(ctx)
	if !ok {
		return fmt.Errorf("no database querier in context")
	}

	query := fmt.Sprintf(`UPDATE %s SET active = $2 WHERE id = $1`, kind.Table())

	result, err := q.Exec(ctx, query, id, active)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", kind.Label(), err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// Ensure entityRepository implements EntityRepository at compile time.
var _ EntityRepository = (*entityRepository)(nil)
