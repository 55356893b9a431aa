// Package services contains the business logic between handlers and
// repositories. The lifecycle service owns the soft-delete and
// reactivation semantics shared by the three master catalogs.
package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/federicoescribanog-oss/WebControlHoras/pkg/apperrors"
	"github.com/federicoescribanog-oss/WebControlHoras/pkg/models"
	"github.com/federicoescribanog-oss/WebControlHoras/pkg/repositories"
)

// TxRunner executes a function inside a database transaction. The
// transaction's querier is carried in the context passed to fn.
type TxRunner interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// DeactivateResult reports the outcome of deactivating a master entity.
type DeactivateResult struct {
	RecordsDeactivated int `json:"recordsDeleted"`
}

// ReactivateResult reports the outcome of reactivating a master entity.
// TotalChecked counts every candidate record examined; Reactivated
// counts those whose references were all active again.
type ReactivateResult struct {
	Reactivated  int `json:"recordsReactivated"`
	TotalChecked int `json:"totalRecordsChecked"`
}

// LifecycleService implements deactivation and reactivation of master
// entities together with their dependent work records.
type LifecycleService interface {
	Deactivate(ctx context.Context, kind models.EntityKind, id int64, cascade bool) (*DeactivateResult, error)
	Reactivate(ctx context.Context, kind models.EntityKind, id int64) (*ReactivateResult, error)
}

type lifecycleService struct {
	tx       TxRunner
	entities repositories.EntityRepository
	records  repositories.WorkRecordRepository
	logger   *zap.Logger
}

// NewLifecycleService creates a new lifecycle service.
func NewLifecycleService(
	tx TxRunner,
	entities repositories.EntityRepository,
	records repositories.WorkRecordRepository,
	logger *zap.Logger,
) LifecycleService {
	return &lifecycleService{
		tx:       tx,
		entities: entities,
		records:  records,
		logger:   logger,
	}
}

// Deactivate marks a master entity inactive. Without cascade it is
// blocked while active work records still reference the entity; with
// cascade those records are deactivated in the same transaction. The
// check and the sweep run inside one transaction so a record created
// between them cannot be left dangling.
func (s *lifecycleService) Deactivate(ctx context.Context, kind models.EntityKind, id int64, cascade bool) (*DeactivateResult, error) {
	var result DeactivateResult

	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		entity, err := s.entities.Get(ctx, kind, id)
		if err != nil {
			return err
		}

		if !cascade {
			count, err := s.records.CountActiveByReference(ctx, kind, id)
			if err != nil {
				return err
			}
			if count > 0 {
				return &apperrors.EntityInUseError{Count: count}
			}
		} else {
			deactivated, err := s.records.DeactivateByReference(ctx, kind, id)
			if err != nil {
				return err
			}
			result.RecordsDeactivated = deactivated
		}

		// Idempotent on the entity itself: flipping an already
		// inactive row changes nothing.
		if entity.Active {
			if err := s.entities.SetActive(ctx, kind, id, false); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Entity deactivated",
		zap.String("kind", string(kind)),
		zap.Int64("id", id),
		zap.Bool("cascade", cascade),
		zap.Int("records_deactivated", result.RecordsDeactivated))

	return &result, nil
}

// Reactivate restores a master entity and then re-examines every work
// record that was deactivated by a cascade through this entity. A
// record comes back only if all of its references are active again;
// records deleted directly by a user stay deleted.
func (s *lifecycleService) Reactivate(ctx context.Context, kind models.EntityKind, id int64) (*ReactivateResult, error) {
	var result ReactivateResult

	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		entity, err := s.entities.Get(ctx, kind, id)
		if err != nil {
			return err
		}
		if entity.Active {
			return apperrors.ErrAlreadyActive
		}

		if err := s.entities.SetActive(ctx, kind, id, true); err != nil {
			return err
		}

		candidates, err := s.records.FindCascadeInactiveByReference(ctx, kind, id)
		if err != nil {
			return err
		}
		result.TotalChecked = len(candidates)

		for _, rec := range candidates {
			states, err := s.records.ReferenceStates(ctx, rec)
			if err != nil {
				return err
			}
			// A record with an inactive reference on any of its three
			// columns stays down until that side is reactivated too.
			if !states.AllActive() {
				continue
			}
			if err := s.records.Reactivate(ctx, rec.ID); err != nil {
				return err
			}
			result.Reactivated++
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Entity reactivated",
		zap.String("kind", string(kind)),
		zap.Int64("id", id),
		zap.Int("records_reactivated", result.Reactivated),
		zap.Int("records_checked", result.TotalChecked))

	return &result, nil
}

// Ensure lifecycleService implements LifecycleService at compile time.
var _ LifecycleService = (*lifecycleService)(nil)
