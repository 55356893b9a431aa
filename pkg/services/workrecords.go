package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/federicoescribanog-oss/WebControlHoras/pkg/apperrors"
	"github.com/federicoescribanog-oss/WebControlHoras/pkg/models"
	"github.com/federicoescribanog-oss/WebControlHoras/pkg/repositories"
)

// RecordNames carries legacy name-based references on record creation.
// Older clients send assignee/phase/task names instead of ids; each
// name is resolved to its id before insert.
type RecordNames struct {
	Assignee *string
	Phase    *string
	Task     *string
}

// RecordPatch holds a partial work-record update. Nil fields are left
// unchanged; references cannot be cleared through a patch.
type RecordPatch struct {
	PersonID     *int64
	ProjectID    *int64
	TaskID       *int64
	Milestone    *string
	StartDate    *time.Time
	EndDate      *time.Time
	Completion   *int
	Dependencies *string
	TimeSpent    *int
}

// WorkRecordService implements CRUD for work records, including the
// name-to-id compatibility shim on create.
type WorkRecordService interface {
	List(ctx context.Context) ([]*models.WorkRecordDetail, error)
	Create(ctx context.Context, rec *models.WorkRecord, names RecordNames) error
	Update(ctx context.Context, id int64, patch RecordPatch) (*models.WorkRecord, error)
	Delete(ctx context.Context, id int64) error
}

type workRecordService struct {
	records  repositories.WorkRecordRepository
	entities repositories.EntityRepository
	logger   *zap.Logger
}

// NewWorkRecordService creates a new work-record service.
func NewWorkRecordService(
	records repositories.WorkRecordRepository,
	entities repositories.EntityRepository,
	logger *zap.Logger,
) WorkRecordService {
	return &workRecordService{
		records:  records,
		entities: entities,
		logger:   logger,
	}
}

// List returns active work records joined with their master names.
func (s *workRecordService) List(ctx context.Context) ([]*models.WorkRecordDetail, error) {
	return s.records.ListActive(ctx)
}

// Create inserts a work record. Legacy name references are resolved to
// ids first; an unknown name is a validation error.
func (s *workRecordService) Create(ctx context.Context, rec *models.WorkRecord, names RecordNames) error {
	if err := s.resolveNames(ctx, rec, names); err != nil {
		return err
	}

	if rec.Completion < 0 || rec.Completion > 100 {
		return apperrors.NewValidationError("completion must be between 0 and 100")
	}

	if err := s.records.Create(ctx, rec); err != nil {
		return err
	}

	s.logger.Info("Work record created", zap.Int64("id", rec.ID))
	return nil
}

// Update applies a partial patch to an existing record. The record is
// read first and patched fields merged in, so the repository can write
// the full row.
func (s *workRecordService) Update(ctx context.Context, id int64, patch RecordPatch) (*models.WorkRecord, error) {
	rec, err := s.records.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.PersonID != nil {
		rec.PersonID = patch.PersonID
	}
	if patch.ProjectID != nil {
		rec.ProjectID = patch.ProjectID
	}
	if patch.TaskID != nil {
		rec.TaskID = patch.TaskID
	}
	if patch.Milestone != nil {
		rec.Milestone = *patch.Milestone
	}
	if patch.StartDate != nil {
		rec.StartDate = patch.StartDate
	}
	if patch.EndDate != nil {
		rec.EndDate = patch.EndDate
	}
	if patch.Completion != nil {
		if *patch.Completion < 0 || *patch.Completion > 100 {
			return nil, apperrors.NewValidationError("completion must be between 0 and 100")
		}
		rec.Completion = *patch.Completion
	}
	if patch.Dependencies != nil {
		rec.Dependencies = *patch.Dependencies
	}
	if patch.TimeSpent != nil {
		rec.TimeSpent = patch.TimeSpent
	}

	if err := s.records.Update(ctx, rec); err != nil {
		return nil, err
	}

	s.logger.Info("Work record updated", zap.Int64("id", id))
	return rec, nil
}

// Delete soft-deletes a record by direct user action.
func (s *workRecordService) Delete(ctx context.Context, id int64) error {
	if err := s.records.SoftDelete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Work record deleted", zap.Int64("id", id))
	return nil
}

// resolveNames fills missing reference ids from legacy names. Explicit
// ids win over names.
func (s *workRecordService) resolveNames(ctx context.Context, rec *models.WorkRecord, names RecordNames) error {
	lookups := []struct {
		kind models.EntityKind
		name *string
		dest **int64
	}{
		{models.KindPerson, names.Assignee, &rec.PersonID},
		{models.KindProject, names.Phase, &rec.ProjectID},
		{models.KindTask, names.Task, &rec.TaskID},
	}

	for _, l := range lookups {
		if *l.dest != nil || l.name == nil {
			continue
		}
		name := strings.TrimSpace(*l.name)
		if name == "" {
			continue
		}

		entity, err := s.entities.FindByName(ctx, l.kind, name)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return apperrors.NewValidationError(
					fmt.Sprintf("unknown %s %q", l.kind.Label(), name))
			}
			return err
		}
		*l.dest = &entity.ID
	}

	return nil
}

// Ensure workRecordService implements WorkRecordService at compile time.
var _ WorkRecordService = (*workRecordService)(nil)
