package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ApplicationStatus represents where an application is in the hiring workflow.
type ApplicationStatus string

const (
	ApplicationStatusSubmitted    ApplicationStatus = "Submitted"
	ApplicationStatusViewed       ApplicationStatus = "Viewed"
	ApplicationStatusInterviewing ApplicationStatus = "Interviewing"
	ApplicationStatusOffered      ApplicationStatus = "Offered"
	ApplicationStatusRejected     ApplicationStatus = "Rejected"
)

// ApplicationStatuses lists every status in workflow order.
var ApplicationStatuses = []ApplicationStatus{
	ApplicationStatusSubmitted,
	ApplicationStatusViewed,
	ApplicationStatusInterviewing,
	ApplicationStatusOffered,
	ApplicationStatusRejected,
}

// Valid reports whether s is a recognized status. Any valid status may
// follow any other.
func (s ApplicationStatus) Valid() bool {
	for _, known := range ApplicationStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Application links a student to a job they applied for.
// A student holds at most one application per job.
type Application struct {
	ID          uuid.UUID         `json:"_id" gorm:"type:char(36);primaryKey"`
	StudentID   uuid.UUID         `json:"studentId" gorm:"type:char(36);not null;uniqueIndex:idx_applications_student_job,priority:1"`
	JobID       uuid.UUID         `json:"jobId" gorm:"type:char(36);not null;uniqueIndex:idx_applications_student_job,priority:2;index"`
	ResumeURL   string            `json:"resumeUrl" gorm:"size:1024;not null"`
	Status      ApplicationStatus `json:"status" gorm:"type:varchar(20);not null;default:'Submitted';index"`
	AppliedDate time.Time         `json:"appliedDate"`
	UpdatedAt   time.Time         `json:"updatedAt"`

	// Relations
	Student *User `json:"-" gorm:"foreignKey:StudentID"`
	Job     *Job  `json:"-" gorm:"foreignKey:JobID"`
}

// BeforeCreate sets UUID and applied date before creating the record.
func (a *Application) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.AppliedDate.IsZero() {
		a.AppliedDate = time.Now()
	}
	return nil
}
