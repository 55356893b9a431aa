package handlers

import (
	"context"

	"github.com/federicoescribanog-oss/WebControlHoras/pkg/models"
	"github.com/federicoescribanog-oss/WebControlHoras/pkg/services"
)

// mockEntityService is a configurable mock for handler tests.
type mockEntityService struct {
	entities []*models.MasterEntity
	entity   *models.MasterEntity
	err      error

	lastIncludeInactive bool
}

func (m *mockEntityService) List(ctx context.Context, kind models.EntityKind, includeInactive bool) ([]*models.MasterEntity, error) {
	m.lastIncludeInactive = includeInactive
	if m.err != nil {
		return nil, m.err
	}
	return m.entities, nil
}

func (m *mockEntityService) Get(ctx context.Context, kind models.EntityKind, id int64) (*models.MasterEntity, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.entity, nil
}

func (m *mockEntityService) Create(ctx context.Context, kind models.EntityKind, entity *models.MasterEntity) error {
	if m.err != nil {
		return m.err
	}
	entity.ID = 1
	entity.Active = true
	return nil
}

// mockLifecycleService is a configurable mock for handler tests.
type mockLifecycleService struct {
	deactivateResult *services.DeactivateResult
	reactivateResult *services.ReactivateResult
	err              error

	lastKind    models.EntityKind
	lastCascade bool
}

func (m *mockLifecycleService) Deactivate(ctx context.Context, kind models.EntityKind, id int64, cascade bool) (*services.DeactivateResult, error) {
	m.lastKind = kind
	m.lastCascade = cascade
	if m.err != nil {
		return nil, m.err
	}
	if m.deactivateResult != nil {
		return m.deactivateResult, nil
	}
	return &services.DeactivateResult{}, nil
}

func (m *mockLifecycleService) Reactivate(ctx context.Context, kind models.EntityKind, id int64) (*services.ReactivateResult, error) {
	m.lastKind = kind
	if m.err != nil {
		return nil, m.err
	}
	if m.reactivateResult != nil {
		return m.reactivateResult, nil
	}
	return &services.ReactivateResult{}, nil
}

// mockUserService is a configurable mock for handler tests.
type mockUserService struct {
	loginResult *services.LoginResult
	user        *models.User
	users       []*models.User
	err         error

	lastCreate   services.CreateUserInput
	lastDeleteID int64
	lastCallerID int64
}

func (m *mockUserService) Login(ctx context.Context, email, password string) (*services.LoginResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.loginResult, nil
}

func (m *mockUserService) ChangePasswordFirstLogin(ctx context.Context, email, current, newPassword string) (*services.LoginResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.loginResult, nil
}

func (m *mockUserService) ChangePassword(ctx context.Context, userID int64, current, newPassword string) error {
	return m.err
}

func (m *mockUserService) ResetPassword(ctx context.Context, email string) error {
	return m.err
}

func (m *mockUserService) Create(ctx context.Context, input services.CreateUserInput, createdBy int64) (*models.User, error) {
	m.lastCreate = input
	m.lastCallerID = createdBy
	if m.err != nil {
		return nil, m.err
	}
	if m.user != nil {
		return m.user, nil
	}
	return &models.User{ID: 1, Email: input.Email, Role: input.Role}, nil
}

func (m *mockUserService) Get(ctx context.Context, id int64) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.user, nil
}

func (m *mockUserService) List(ctx context.Context) ([]*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.users, nil
}

func (m *mockUserService) Update(ctx context.Context, id int64, input services.UpdateUserInput) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.user, nil
}

func (m *mockUserService) Delete(ctx context.Context, id, callerID int64) error {
	m.lastDeleteID = id
	m.lastCallerID = callerID
	return m.err
}

// mockWorkRecordService is a configurable mock for handler tests.
type mockWorkRecordService struct {
	details []*models.WorkRecordDetail
	record  *models.WorkRecord
	err     error

	lastNames services.RecordNames
	lastPatch services.RecordPatch
}

func (m *mockWorkRecordService) List(ctx context.Context) ([]*models.WorkRecordDetail, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.details, nil
}

func (m *mockWorkRecordService) Create(ctx context.Context, rec *models.WorkRecord, names services.RecordNames) error {
	m.lastNames = names
	if m.err != nil {
		return m.err
	}
	rec.ID = 1
	return nil
}

func (m *mockWorkRecordService) Update(ctx context.Context, id int64, patch services.RecordPatch) (*models.WorkRecord, error) {
	m.lastPatch = patch
	if m.err != nil {
		return nil, m.err
	}
	if m.record != nil {
		return m.record, nil
	}
	return &models.WorkRecord{ID: id}, nil
}

func (m *mockWorkRecordService) Delete(ctx context.Context, id int64) error {
	return m.err
}
