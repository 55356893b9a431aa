// Package models contains domain types for the work-tracking backend.
package models

import "time"

// EntityKind identifies one of the three master-data tables a work
// record can reference.
type EntityKind string

const (
	KindPerson  EntityKind = "person"
	KindProject EntityKind = "project"
	KindTask    EntityKind = "task"
)

// Kinds lists every master-entity kind, in registration order.
var Kinds = []EntityKind{KindPerson, KindProject, KindTask}

// IsValid reports whether k names a known master table.
func (k EntityKind) IsValid() bool {
	switch k {
	case KindPerson, KindProject, KindTask:
		return true
	}
	return false
}

// Table returns the master table name for the kind. Only ever called on
// validated kinds; identifiers from this closed set are safe to splice
// into SQL text.
func (k EntityKind) Table() string {
	switch k {
	case KindPerson:
		return "people"
	case KindProject:
		return "projects"
	case KindTask:
		return "tasks"
	}
	return ""
}

// RefColumn returns the work_records column that references this kind.
func (k EntityKind) RefColumn() string {
	switch k {
	case KindPerson:
		return "person_id"
	case KindProject:
		return "project_id"
	case KindTask:
		return "task_id"
	}
	return ""
}

// Label returns the singular display name used in API messages.
func (k EntityKind) Label() string {
	switch k {
	case KindPerson:
		return "person"
	case KindProject:
		return "project"
	case KindTask:
		return "task"
	}
	return ""
}

// MasterEntity is a row of one of the master tables. Email is only set
// for people; Description only for projects and tasks.
type MasterEntity struct {
	ID          int64      `json:"id"`
	Kind        EntityKind `json:"-"`
	Name        string     `json:"name"`
	Email       *string    `json:"email,omitempty"`
	Description *string    `json:"description,omitempty"`
	Active      bool       `json:"active"`
	CreatedAt   time.Time  `json:"created_at"`
}
