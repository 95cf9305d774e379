package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	// Salaries go over the wire as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// JobType represents the employment arrangement of a listing.
type JobType string

const (
	JobTypeFullTime   JobType = "Full-Time"
	JobTypePartTime   JobType = "Part-Time"
	JobTypeContract   JobType = "Contract"
	JobTypeInternship JobType = "Internship"
)

// Valid reports whether t is a recognized job type.
func (t JobType) Valid() bool {
	switch t {
	case JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeInternship:
		return true
	}
	return false
}

// ExperienceLevel represents the seniority a listing asks for.
type ExperienceLevel string

const (
	ExperienceEntry   ExperienceLevel = "Entry-Level"
	ExperienceMid     ExperienceLevel = "Mid-Level"
	ExperienceSenior  ExperienceLevel = "Senior-Level"
	ExperienceManager ExperienceLevel = "Manager"
)

// Valid reports whether l is a recognized experience level.
func (l ExperienceLevel) Valid() bool {
	switch l {
	case ExperienceEntry, ExperienceMid, ExperienceSenior, ExperienceManager:
		return true
	}
	return false
}

// Job represents a listing posted by an employer.
type Job struct {
	ID              uuid.UUID           `json:"_id" gorm:"type:char(36);primaryKey"`
	Title           string              `json:"title" gorm:"size:255;not null;index"`
	CompanyName     string              `json:"companyName" gorm:"size:255;not null"`
	Location        string              `json:"location" gorm:"size:255;not null;index"`
	Description     string              `json:"description" gorm:"type:text;not null"`
	Salary          decimal.NullDecimal `json:"salary" gorm:"type:decimal(12,2)"`
	JobType         JobType             `json:"jobType" gorm:"type:varchar(20);not null;default:'Full-Time';index"`
	ExperienceLevel ExperienceLevel     `json:"experienceLevel" gorm:"type:varchar(20);not null;default:'Mid-Level'"`
	Skills          []string            `json:"skills" gorm:"serializer:json;type:text"`
	PostedBy        uuid.UUID           `json:"postedBy" gorm:"type:char(36);not null;index"`
	CreatedAt       time.Time           `json:"createdAt" gorm:"index"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (j *Job) BeforeCreate(tx *gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return nil
}
