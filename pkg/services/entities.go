package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/federicoescribanog-oss/WebControlHoras/pkg/apperrors"
	"github.com/federicoescribanog-oss/WebControlHoras/pkg/models"
	"github.com/federicoescribanog-oss/WebControlHoras/pkg/repositories"
)

// EntityService implements CRUD over the master catalogs. Deactivation
// and reactivation live in LifecycleService.
type EntityService interface {
	List(ctx context.Context, kind models.EntityKind, includeInactive bool) ([]*models.MasterEntity, error)
	Get(ctx context.Context, kind models.EntityKind, id int64) (*models.MasterEntity, error)
	Create(ctx context.Context, kind models.EntityKind, entity *models.MasterEntity) error
}

type entityService struct {
	repo   repositories.EntityRepository
	logger *zap.Logger
}

// NewEntityService creates a new master-entity service.
func NewEntityService(repo repositories.EntityRepository, logger *zap.Logger) EntityService {
	return &entityService{
		repo:   repo,
		logger: logger,
	}
}

// List returns catalog rows for the given kind.
func (s *entityService) List(ctx context.Context, kind models.EntityKind, includeInactive bool) ([]*models.MasterEntity, error) {
	return s.repo.List(ctx, kind, includeInactive)
}

// Get retrieves a catalog row by id.
func (s *entityService) Get(ctx context.Context, kind models.EntityKind, id int64) (*models.MasterEntity, error) {
	return s.repo.Get(ctx, kind, id)
}

// Create validates and inserts a catalog row. Names are trimmed and
// required; a case-insensitive collision surfaces the existing row.
func (s *entityService) Create(ctx context.Context, kind models.EntityKind, entity *models.MasterEntity) error {
	entity.Name = strings.TrimSpace(entity.Name)
	if entity.Name == "" {
		return apperrors.NewValidationError("name is required")
	}

	if err := s.repo.Create(ctx, kind, entity); err != nil {
		return err
	}

	s.logger.Info("Entity created",
		zap.String("kind", string(kind)),
		zap.Int64("id", entity.ID),
		zap.String("name", entity.Name))

	return nil
}

// Ensure entityService implements EntityService at compile time.
var _ EntityService = (*entityService)(nil)
