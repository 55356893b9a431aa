package models

import "time"

// Deactivation reasons stored on inactive work records. Only
// cascade-deactivated records are eligible for automatic reactivation;
// a direct user delete is terminal for this subsystem.
const (
	DeactivationUser    = "user"
	DeactivationCascade = "cascade"
)

// WorkRecord is a fact row representing a unit of tracked work. The
// three references are independent and nullable; the active flag is
// maintained procedurally by the lifecycle service, not by a database
// constraint.
type WorkRecord struct {
	ID                 int64      `json:"id"`
	PersonID           *int64     `json:"person_id"`
	ProjectID          *int64     `json:"project_id"`
	TaskID             *int64     `json:"task_id"`
	Milestone          string     `json:"milestone"`
	StartDate          *time.Time `json:"start_date"`
	EndDate            *time.Time `json:"end_date"`
	Completion         int        `json:"completion"`
	Dependencies       string     `json:"dependencies"`
	TimeSpent          *int       `json:"time_spent"`
	Active             bool       `json:"active"`
	DeactivationReason *string    `json:"-"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// Ref returns the record's reference id for the given kind.
func (r *WorkRecord) Ref(kind EntityKind) *int64 {
	switch kind {
	case KindPerson:
		return r.PersonID
	case KindProject:
		return r.ProjectID
	case KindTask:
		return r.TaskID
	}
	return nil
}

// WorkRecordDetail is a work record joined with its master names, the
// shape returned by record listings.
type WorkRecordDetail struct {
	WorkRecord
	PersonName  *string `json:"assignee"`
	ProjectName *string `json:"phase"`
	TaskName    *string `json:"task"`
}

// ReferenceStates holds the resolved active flags of a record's three
// references. A nil entry means the reference itself is NULL, which is
// vacuously satisfied for reactivation.
type ReferenceStates struct {
	PersonActive  *bool
	ProjectActive *bool
	TaskActive    *bool
}

// AllActive reports whether every non-null reference is active.
func (s ReferenceStates) AllActive() bool {
	for _, f := range []*bool{s.PersonActive, s.ProjectActive, s.TaskActive} {
		if f != nil && !*f {
			return false
		}
	}
	return true
}
