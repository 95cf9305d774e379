package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "jobboard/internal/errors"
	"jobboard/internal/model"
	"jobboard/internal/repository"
)

// ApplicationService manages job applications.
type ApplicationService interface {
	Apply(ctx context.Context, studentID, jobID uuid.UUID, resumeURL string) (*model.Application, error)
	ListByJob(ctx context.Context, jobID uuid.UUID) ([]model.Application, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]model.Application, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.ApplicationStatus) (*model.Application, error)
	OwnerOf(ctx context.Context, rawID string) (uuid.UUID, error)
}

type applicationService struct {
	repo repository.ApplicationRepository
	jobs JobService
}

// NewApplicationService creates a new application service.
func NewApplicationService(repo repository.ApplicationRepository, jobs JobService) ApplicationService {
	return &applicationService{repo: repo, jobs: jobs}
}

// Apply files an application for the student. A student may apply to a job
// only once.
func (s *applicationService) Apply(ctx context.Context, studentID, jobID uuid.UUID, resumeURL string) (*model.Application, error) {
	resumeURL = strings.TrimSpace(resumeURL)
	if resumeURL == "" {
		return nil, apperrors.NewValidationError("resumeUrl is required")
	}

	if _, err := s.jobs.Get(ctx, jobID); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByStudentAndJob(ctx, studentID, jobID)
	if err == nil && existing != nil {
		return nil, apperrors.ErrDuplicateApplication
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check existing application: %w", err)
	}

	application := &model.Application{
		StudentID: studentID,
		JobID:     jobID,
		ResumeURL: resumeURL,
		Status:    model.ApplicationStatusSubmitted,
	}
	if err := s.repo.Create(ctx, application); err != nil {
		// The unique index on (student_id, job_id) catches concurrent duplicates.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrDuplicateApplication
		}
		return nil, fmt.Errorf("create application: %w", err)
	}
	return application, nil
}

// ListByJob lists every application filed for a job with applicants loaded.
func (s *applicationService) ListByJob(ctx context.Context, jobID uuid.UUID) ([]model.Application, error) {
	applications, err := s.repo.ListByJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("list applications by job: %w", err)
	}
	return applications, nil
}

// ListByStudent lists a student's applications with jobs loaded.
func (s *applicationService) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]model.Application, error) {
	applications, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("list applications by student: %w", err)
	}
	return applications, nil
}

// UpdateStatus overwrites the status of an application. Any status may
// follow any other.
func (s *applicationService) UpdateStatus(ctx context.Context, id uuid.UUID, status model.ApplicationStatus) (*model.Application, error) {
	if !status.Valid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("status %q is not a valid application status", status))
	}

	if _, err := s.find(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("update application status: %w", err)
	}
	return s.find(ctx, id)
}

// OwnerOf resolves the employer that owns the job an application targets.
func (s *applicationService) OwnerOf(ctx context.Context, rawID string) (uuid.UUID, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return uuid.Nil, apperrors.ErrApplicationNotFound
	}
	application, err := s.find(ctx, id)
	if err != nil {
		return uuid.Nil, err
	}
	return s.jobs.OwnerOf(ctx, application.JobID.String())
}

func (s *applicationService) find(ctx context.Context, id uuid.UUID) (*model.Application, error) {
	application, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("find application: %w", err)
	}
	return application, nil
}
