package services

import (
	"context"
	"strings"
	"time"

	"github.com/federicoescribanog-oss/WebControlHoras/pkg/apperrors"
	"github.com/federicoescribanog-oss/WebControlHoras/pkg/models"
)

// ============================================================================
// Mock Implementations for Service Tests
// ============================================================================

// mockTxRunner runs the function directly; the mock repositories keep
// their state in memory so there is nothing transactional to manage.
type mockTxRunner struct {
	beginErr error
	calls    int
}

func (m *mockTxRunner) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.beginErr != nil {
		return m.beginErr
	}
	m.calls++
	return fn(ctx)
}

type entityKey struct {
	kind models.EntityKind
	id   int64
}

type mockEntityRepo struct {
	entities map[entityKey]*models.MasterEntity
	nextID   int64

	getErr       error
	setActiveErr error
}

func newMockEntityRepo() *mockEntityRepo {
	return &mockEntityRepo{
		entities: make(map[entityKey]*models.MasterEntity),
		nextID:   1,
	}
}

func (m *mockEntityRepo) add(kind models.EntityKind, name string, active bool) *models.MasterEntity {
	e := &models.MasterEntity{
		ID:        m.nextID,
		Kind:      kind,
		Name:      name,
		Active:    active,
		CreatedAt: time.Now(),
	}
	m.entities[entityKey{kind, e.ID}] = e
	m.nextID++
	return e
}

func (m *mockEntityRepo) Create(ctx context.Context, kind models.EntityKind, entity *models.MasterEntity) error {
	for _, e := range m.entities {
		if e.Kind == kind && strings.EqualFold(e.Name, entity.Name) {
			return &apperrors.DuplicateNameError{ID: e.ID, Name: e.Name}
		}
	}
	entity.ID = m.nextID
	entity.Kind = kind
	entity.Active = true
	entity.CreatedAt = time.Now()
	m.entities[entityKey{kind, entity.ID}] = entity
	m.nextID++
	return nil
}

func (m *mockEntityRepo) Get(ctx context.Context, kind models.EntityKind, id int64) (*models.MasterEntity, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	e, ok := m.entities[entityKey{kind, id}]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return e, nil
}

func (m *mockEntityRepo) List(ctx context.Context, kind models.EntityKind, includeInactive bool) ([]*models.MasterEntity, error) {
	var out []*models.MasterEntity
	for _, e := range m.entities {
		if e.Kind != kind {
			continue
		}
		if !e.Active && !includeInactive {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (m *mockEntityRepo) FindByName(ctx context.Context, kind models.EntityKind, name string) (*models.MasterEntity, error) {
	for _, e := range m.entities {
		if e.Kind == kind && strings.EqualFold(e.Name, name) {
			return e, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockEntityRepo) SetActive(ctx context.Context, kind models.EntityKind, id int64, active bool) error {
	if m.setActiveErr != nil {
		return m.setActiveErr
	}
	e, ok := m.entities[entityKey{kind, id}]
	if !ok {
		return apperrors.ErrNotFound
	}
	e.Active = active
	return nil
}

// mockWorkRecordRepo keeps records in memory and resolves reference
// states against the entity mock, mirroring the scalar subqueries the
// real repository runs.
type mockWorkRecordRepo struct {
	records map[int64]*models.WorkRecord
	masters *mockEntityRepo
	nextID  int64

	createErr error
	updateErr error
}

func newMockWorkRecordRepo(masters *mockEntityRepo) *mockWorkRecordRepo {
	return &mockWorkRecordRepo{
		records: make(map[int64]*models.WorkRecord),
		masters: masters,
		nextID:  1,
	}
}

func (m *mockWorkRecordRepo) add(personID, projectID, taskID *int64, active bool, reason *string) *models.WorkRecord {
	rec := &models.WorkRecord{
		ID:                 m.nextID,
		PersonID:           personID,
		ProjectID:          projectID,
		TaskID:             taskID,
		Active:             active,
		DeactivationReason: reason,
		UpdatedAt:          time.Now(),
	}
	m.records[rec.ID] = rec
	m.nextID++
	return rec
}

func (m *mockWorkRecordRepo) Create(ctx context.Context, rec *models.WorkRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	rec.ID = m.nextID
	rec.Active = true
	rec.UpdatedAt = time.Now()
	m.records[rec.ID] = rec
	m.nextID++
	return nil
}

func (m *mockWorkRecordRepo) Get(ctx context.Context, id int64) (*models.WorkRecord, error) {
	rec, ok := m.records[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *rec
	return &copied, nil
}

func (m *mockWorkRecordRepo) ListActive(ctx context.Context) ([]*models.WorkRecordDetail, error) {
	var out []*models.WorkRecordDetail
	for _, rec := range m.records {
		if rec.Active {
			out = append(out, &models.WorkRecordDetail{WorkRecord: *rec})
		}
	}
	return out, nil
}

func (m *mockWorkRecordRepo) Update(ctx context.Context, rec *models.WorkRecord) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.records[rec.ID]; !ok {
		return apperrors.ErrNotFound
	}
	copied := *rec
	copied.UpdatedAt = time.Now()
	m.records[rec.ID] = &copied
	return nil
}

func (m *mockWorkRecordRepo) SoftDelete(ctx context.Context, id int64) error {
	rec, ok := m.records[id]
	if !ok || !rec.Active {
		return apperrors.ErrNotFound
	}
	reason := models.DeactivationUser
	rec.Active = false
	rec.DeactivationReason = &reason
	return nil
}

func (m *mockWorkRecordRepo) CountActiveByReference(ctx context.Context, kind models.EntityKind, id int64) (int, error) {
	count := 0
	for _, rec := range m.records {
		if rec.Active && refMatches(rec, kind, id) {
			count++
		}
	}
	return count, nil
}

func (m *mockWorkRecordRepo) FindCascadeInactiveByReference(ctx context.Context, kind models.EntityKind, id int64) ([]*models.WorkRecord, error) {
	var out []*models.WorkRecord
	for _, rec := range m.records {
		if rec.Active || !refMatches(rec, kind, id) {
			continue
		}
		if rec.DeactivationReason == nil || *rec.DeactivationReason != models.DeactivationCascade {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (m *mockWorkRecordRepo) DeactivateByReference(ctx context.Context, kind models.EntityKind, id int64) (int, error) {
	count := 0
	reason := models.DeactivationCascade
	for _, rec := range m.records {
		if rec.Active && refMatches(rec, kind, id) {
			rec.Active = false
			rec.DeactivationReason = &reason
			count++
		}
	}
	return count, nil
}

func (m *mockWorkRecordRepo) Reactivate(ctx context.Context, id int64) error {
	rec, ok := m.records[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	rec.Active = true
	rec.DeactivationReason = nil
	return nil
}

func (m *mockWorkRecordRepo) ReferenceStates(ctx context.Context, rec *models.WorkRecord) (models.ReferenceStates, error) {
	return models.ReferenceStates{
		PersonActive:  m.masterActive(models.KindPerson, rec.PersonID),
		ProjectActive: m.masterActive(models.KindProject, rec.ProjectID),
		TaskActive:    m.masterActive(models.KindTask, rec.TaskID),
	}, nil
}

func (m *mockWorkRecordRepo) masterActive(kind models.EntityKind, id *int64) *bool {
	if id == nil {
		return nil
	}
	e, ok := m.masters.entities[entityKey{kind, *id}]
	if !ok {
		return nil
	}
	active := e.Active
	return &active
}

func refMatches(rec *models.WorkRecord, kind models.EntityKind, id int64) bool {
	ref := rec.Ref(kind)
	return ref != nil && *ref == id
}
