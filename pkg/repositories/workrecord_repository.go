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

// WorkRecordRepository defines data access for work records, including
// the dependency index used by the lifecycle engine: FK-scoped counts,
// the cascade sweep, and per-record reference resolution.
type WorkRecordRepository interface {
	Create(ctx context.Context, rec *models.WorkRecord) error
	Get(ctx context.Context, id int64) (*models.WorkRecord, error)
	ListActive(ctx context.Context) ([]*models.WorkRecordDetail, error)
	Update(ctx context.Context, rec *models.WorkRecord) error
	SoftDelete(ctx context.Context, id int64) error

	CountActiveByReference(ctx context.Context, kind models.EntityKind, id int64) (int, error)
	FindCascadeInactiveByReference(ctx context.Context, kind models.EntityKind, id int64) ([]*models.WorkRecord, error)
	DeactivateByReference(ctx context.Context, kind models.EntityKind, id int64) (int, error)
	Reactivate(ctx context.Context, id int64) error
	ReferenceStates(ctx context.Context, rec *models.WorkRecord) (models.ReferenceStates, error)
}

type workRecordRepository struct{}

// NewWorkRecordRepository creates a new work-record repository.
func NewWorkRecordRepository() WorkRecordRepository {
	return &workRecordRepository{}
}

// Create inserts a new work record.
func (r *workRecordRepository) Create(ctx context.Context, rec *models.WorkRecord) error {
	q, ok := database.GetQuerier(ctx)
	if !ok {
		return fmt.Errorf("no database querier in context")
	}

	query := `
		INSERT INTO work_records (person_id, project_id, task_id, milestone, start_date, end_date, completion, dependencies, time_spent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, active, updated_at`

	err := q.QueryRow(ctx, query,
		rec.PersonID,
		rec.ProjectID,
		rec.TaskID,
		rec.Milestone,
		rec.StartDate,
		rec.EndDate,
		rec.Completion,
		rec.Dependencies,
		rec.TimeSpent,
	).Scan(&rec.ID, &rec.Active, &rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create work record: %w", err)
	}

	return nil
}

// Get retrieves a work record by id, active or not.
func (r *workRecordRepository) Get(ctx context.Context, id int64) (*models.WorkRecord, error) {
	q, ok := database.GetQuerier(ctx)
	if !ok {
		return nil, fmt.Errorf("no database querier in context")
	}

	query := `
		SELECT id, person_id, project_id, task_id, milestone, start_date, end_date, completion, dependencies, time_spent, active, deactivation_reason, updated_at
		FROM work_records
		WHERE id = $1`

	var rec models.WorkRecord
	err := q.QueryRow(ctx, query, id).Scan(
		&rec.ID,
		&rec.PersonID,
		&rec.ProjectID,
		&rec.TaskID,
		&rec.Milestone,
		&rec.StartDate,
		&rec.EndDate,
		&rec.Completion,
		&rec.Dependencies,
		&rec.TimeSpent,
		&rec.Active,
		&rec.DeactivationReason,
		&rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get work record: %w", err)
	}

	return &rec, nil
}

// ListActive returns active work records joined with their master
// names, newest first.
func (r *workRecordRepository) ListActive(ctx context.Context) ([]*models.WorkRecordDetail, error) {
	q, ok := database.GetQuerier(ctx)
	if !ok {
		return nil, fmt.Errorf("no database querier in context")
	}

	query := `
		SELECT w.id, w.person_id, w.project_id, w.task_id, w.milestone, w.start_date, w.end_date,
		       w.completion, w.dependencies, w.time_spent, w.active, w.updated_at,
		       per.name, proj.name, t.name
		FROM work_records w
		LEFT JOIN people per ON w.person_id = per.id
		LEFT JOIN projects proj ON w.project_id = proj.id
		LEFT JOIN tasks t ON w.task_id = t.id
		WHERE w.active = TRUE
		ORDER BY w.id DESC`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list work records: %w", err)
	}
	defer rows.Close()

	var records []*models.WorkRecordDetail
	for rows.Next() {
		var d models.WorkRecordDetail
		err := rows.Scan(
			&d.ID,
			&d.PersonID,
			&d.ProjectID,
			&d.TaskID,
			&d.Milestone,
			&d.StartDate,
			&d.EndDate,
			&d.Completion,
			&d.Dependencies,
			&d.TimeSpent,
			&d.Active,
			&d.UpdatedAt,
			&d.PersonName,
			&d.ProjectName,
			&d.TaskName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan work record: %w", err)
		}
		records = append(records, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read work records: %w", err)
	}

	return records, nil
}

// Update writes the full mutable field set of a record and bumps
// updated_at. Callers merge partial changes before calling.
func (r *workRecordRepository) Update(ctx context.Context, rec *models.WorkRecord) error {
	q, ok := database.GetQuerier(ctx)
	if !ok {
		return fmt.Errorf("no database querier in context")
	}

	query := `
		UPDATE work_records
		SET person_id = $2, project_id = $3, task_id = $4, milestone = $5, start_date = $6,
		    end_date = $7, completion = $8, dependencies = $9, time_spent = $10, updated_at = now()
		WHERE id = $1`

	result, err := q.Exec(ctx, query,
		rec.ID,
		rec.PersonID,
		rec.ProjectID,
		rec.TaskID,
		rec.Milestone,
		rec.StartDate,
		rec.EndDate,
		rec.Completion,
		rec.Dependencies,
		rec.TimeSpent,
	)
	if err != nil {
		return fmt.Errorf("failed to update work record: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// SoftDelete marks a record inactive by direct user action. The reason
// tag makes the delete terminal: cascade reactivation skips these rows.
func (r *workRecordRepository) SoftDelete(ctx context.Context, id int64) error {
	q, ok := database.GetQuerier(ctx)
	if !ok {
		return fmt.Errorf("no database querier in context")
	}

	query := `
		UPDATE work_records
		SET active = FALSE, deactivation_reason = $2, updated_at = now()
		WHERE id = $1 AND active = TRUE`

	result, err := q.Exec(ctx, query, id, models.DeactivationUser)
	if err != nil {
		return fmt.Errorf("failed to delete work record: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// CountActiveByReference counts active records whose reference column
// for the given kind equals id. This is the usage-guard query.
func (r *workRecordRepository) CountActiveByReference(ctx context.Context, kind models.EntityKind, id int64) (int, error) {
	q, ok := database.GetQuerier(ctx)
	if !ok {
		return 0, fmt.Errorf("no database querier in context")
	}

	query := fmt.Sprintf(`
		SELECT COUNT(*) FROM work_records
		WHERE %s = $1 AND active = TRUE`,
		kind.RefColumn())

	var count int
	if err := q.QueryRow(ctx, query, id).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count work records: %w", err)
	}

	return count, nil
}

// FindCascadeInactiveByReference returns the cascade-deactivated
// records referencing the given entity through the kind's specific
// column. Directly-deleted records are excluded by the reason tag.
func (r *workRecordRepository) FindCascadeInactiveByReference(ctx context.Context, kind models.EntityKind, id int64) ([]*models.WorkRecord, error) {
	q, ok := database.GetQuerier(ctx)
	if !ok {
		return nil, fmt.Errorf("no database querier in context")
	}

	query := fmt.Sprintf(`
		SELECT id, person_id, project_id, task_id
		FROM work_records
		WHERE %s = $1 AND active = FALSE AND deactivation_reason = $2
		ORDER BY id`,
		kind.RefColumn())

	rows, err := q.Query(ctx, query, id, models.DeactivationCascade)
	if err != nil {
		return nil, fmt.Errorf("failed to find dependent work records: %w", err)
	}
	defer rows.Close()

	var records []*models.WorkRecord
	for rows.Next() {
		var rec models.WorkRecord
		if err := rows.Scan(&rec.ID, &rec.PersonID, &rec.ProjectID, &rec.TaskID); err != nil {
			return nil, fmt.Errorf("failed to scan dependent work record: %w", err)
		}
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read dependent work records: %w", err)
	}

	return records, nil
}

// DeactivateByReference marks every active record referencing the
// entity inactive with the cascade reason, returning rows changed.
// Re-running the sweep finds nothing active and changes zero rows.
func (r *workRecordRepository) DeactivateByReference(ctx context.Context, kind models.EntityKind, id int64) (int, error) {
	q, ok := database.GetQuerier(ctx)
	if !ok {
		return 0, fmt.Errorf("no database querier in context")
	}

	query := fmt.Sprintf(`
		UPDATE work_records
		SET active = FALSE, deactivation_reason = $2, updated_at = now()
		WHERE %s = $1 AND active = TRUE`,
		kind.RefColumn())

	result, err := q.Exec(ctx, query, id, models.DeactivationCascade)
	if err != nil {
		return 0, fmt.Errorf("failed to deactivate work records: %w", err)
	}

	return int(result.RowsAffected()), nil
}

// Reactivate restores a record and clears its deactivation reason.
func (r *workRecordRepository) Reactivate(ctx context.Context, id int64) error {
	q, ok := database.GetQuerier(ctx)
	if !ok {
		return fmt.Errorf("no database querier in context")
	}

	query := `
		UPDATE work_records
		SET active = TRUE, deactivation_reason = NULL, updated_at = now()
		WHERE id = $1`

	result, err := q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to reactivate work record: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// ReferenceStates resolves the current active flag of each of the
// record's three references in one round trip. NULL references and
// dangling ids both come back nil.
func (r *workRecordRepository) ReferenceStates(ctx context.Context, rec *models.WorkRecord) (models.ReferenceStates, error) {
	q, ok := database.GetQuerier(ctx)
	if !ok {
		return models.ReferenceStates{}, fmt.Errorf("no database querier in context")
	}

	query := `
		SELECT
			(SELECT active FROM people WHERE id = $1),
			(SELECT active FROM projects WHERE id = $2),
			(SELECT active FROM tasks WHERE id = $3)`

	var states models.ReferenceStates
	err := q.QueryRow(ctx, query, rec.PersonID, rec.ProjectID, rec.TaskID).Scan(
		&states.PersonActive,
		&states.ProjectActive,
		&states.TaskActive,
	)
	if err != nil {
		return models.ReferenceStates{}, fmt.Errorf("failed to resolve work record references: %w", err)
	}

	return states, nil
}

// Ensure workRecordRepository implements WorkRecordRepository at compile time.
var _ WorkRecordRepository = (*workRecordRepository)(nil)
