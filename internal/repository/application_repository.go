package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"jobboard/internal/model"
)

// ApplicationRepository defines application persistence operations.
type ApplicationRepository interface {
	Create(ctx context.Context, application *model.Application) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Application, error)
	FindByStudentAndJob(ctx context.Context, studentID, jobID uuid.UUID) (*model.Application, error)
	ListByJob(ctx context.Context, jobID uuid.UUID) ([]model.Application, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]model.Application, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.ApplicationStatus) error
}

type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository creates a new application repository.
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

// Create creates a new application.
func (r *applicationRepository) Create(ctx context.Context, application *model.Application) error {
	return r.db.WithContext(ctx).Create(application).Error
}

// FindByID finds an application by ID.
func (r *applicationRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Application, error) {
	var application model.Application
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&application).Error; err != nil {
		return nil, err
	}
	return &application, nil
}

// FindByStudentAndJob finds the application a student filed for a job.
func (r *applicationRepository) FindByStudentAndJob(ctx context.Context, studentID, jobID uuid.UUID) (*model.Application, error) {
	var application model.Application
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND job_id = ?", studentID, jobID).
		First(&application).Error
	if err != nil {
		return nil, err
	}
	return &application, nil
}

// ListByJob lists applications for a job, oldest first, with applicants loaded.
func (r *applicationRepository) ListByJob(ctx context.Context, jobID uuid.UUID) ([]model.Application, error) {
	applications := []model.Application{}
	err := r.db.WithContext(ctx).
		Preload("Student").
		Where("job_id = ?", jobID).
		Order("applied_date ASC").
		Order("id ASC").
		Find(&applications).Error
	if err != nil {
		return nil, err
	}
	return applications, nil
}

// ListByStudent lists a student's applications, newest first, with jobs loaded.
func (r *applicationRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]model.Application, error) {
	applications := []model.Application{}
	err := r.db.WithContext(ctx).
		Preload("Job").
		Where("student_id = ?", studentID).
		Order("applied_date DESC").
		Order("id DESC").
		Find(&applications).Error
	if err != nil {
		return nil, err
	}
	return applications, nil
}

// UpdateStatus overwrites the status of an application.
func (r *applicationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.ApplicationStatus) error {
	return r.db.WithContext(ctx).Model(&model.Application{}).
		Where("id = ?", id).
		Update("status", status).Error
}
