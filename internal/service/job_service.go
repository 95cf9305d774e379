package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"jobboard/internal/cache"
	apperrors "jobboard/internal/errors"
	"jobboard/internal/model"
	"jobboard/internal/repository"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// JobInput is the employer-supplied part of a listing.
type JobInput struct {
	Title           string
	CompanyName     string
	Location        string
	Description     string
	Salary          decimal.NullDecimal
	JobType         model.JobType
	ExperienceLevel model.ExperienceLevel
	Skills          []string
}

// JobQuery selects one page of the public listing.
type JobQuery struct {
	Search   string
	Location string
	JobType  model.JobType
	Page     int
	Limit    int
}

// JobPage is one page of listing results.
type JobPage struct {
	Jobs        []model.Job `json:"jobs"`
	CurrentPage int         `json:"currentPage"`
	TotalPages  int         `json:"totalPages"`
	TotalJobs   int64       `json:"totalJobs"`
}

// JobService manages job listings.
type JobService interface {
	Create(ctx context.Context, ownerID uuid.UUID, input JobInput) (*model.Job, error)
	List(ctx context.Context, query JobQuery) (*JobPage, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Job, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Job, error)
	OwnerOf(ctx context.Context, rawID string) (uuid.UUID, error)
}

type jobService struct {
	repo  repository.JobRepository
	cache *cache.Client
	ttl   time.Duration
}

// NewJobService creates a new job service.
func NewJobService(repo repository.JobRepository, cache *cache.Client, ttl time.Duration) JobService {
	return &jobService{repo: repo, cache: cache, ttl: ttl}
}

func (s *jobService) cacheKey(id uuid.UUID) string {
	return cache.JobPrefix + id.String()
}

// Create stores a listing owned by ownerID. The owner is always the caller,
// never a value from the request body.
func (s *jobService) Create(ctx context.Context, ownerID uuid.UUID, input JobInput) (*model.Job, error) {
	job := &model.Job{
		Title:           strings.TrimSpace(input.Title),
		CompanyName:     strings.TrimSpace(input.CompanyName),
		Location:        strings.TrimSpace(input.Location),
		Description:     strings.TrimSpace(input.Description),
		Salary:          input.Salary,
		JobType:         input.JobType,
		ExperienceLevel: input.ExperienceLevel,
		Skills:          cleanSkills(input.Skills),
		PostedBy:        ownerID,
	}

	switch {
	case job.Title == "":
		return nil, apperrors.NewValidationError("title is required")
	case job.CompanyName == "":
		return nil, apperrors.NewValidationError("companyName is required")
	case job.Location == "":
		return nil, apperrors.NewValidationError("location is required")
	case job.Description == "":
		return nil, apperrors.NewValidationError("description is required")
	}
	if job.Salary.Valid && job.Salary.Decimal.IsNegative() {
		return nil, apperrors.NewValidationError("salary must not be negative")
	}

	if job.JobType == "" {
		job.JobType = model.JobTypeFullTime
	} else if !job.JobType.Valid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("jobType %q is not supported", job.JobType))
	}
	if job.ExperienceLevel == "" {
		job.ExperienceLevel = model.ExperienceMid
	} else if !job.ExperienceLevel.Valid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("experienceLevel %q is not supported", job.ExperienceLevel))
	}

	if err := s.repo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	return job, nil
}

// List returns the requested page of jobs, newest first.
func (s *jobService) List(ctx context.Context, query JobQuery) (*JobPage, error) {
	if query.Page < 1 {
		return nil, apperrors.NewValidationError("page must be a positive integer")
	}
	if query.Limit < 1 {
		return nil, apperrors.NewValidationError("limit must be a positive integer")
	}
	if query.Page-1 > math.MaxInt/query.Limit {
		return nil, apperrors.NewValidationError("page is out of range")
	}

	jobs, total, err := s.repo.List(ctx, repository.JobFilter{
		Search:   strings.TrimSpace(query.Search),
		Location: strings.TrimSpace(query.Location),
		JobType:  query.JobType,
		Offset:   (query.Page - 1) * query.Limit,
		Limit:    query.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}

	return &JobPage{
		Jobs:        jobs,
		CurrentPage: query.Page,
		TotalPages:  pageCount(total, query.Limit),
		TotalJobs:   total,
	}, nil
}

// Get returns a job by id, reading through the cache. Listings are never
// edited, so entries only expire by ttl.
func (s *jobService) Get(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.Job
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	job, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrJobNotFound
		}
		return nil, fmt.Errorf("find job: %w", err)
	}

	if payload, err := json.Marshal(job); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, s.ttl)
	}
	return job, nil
}

func (s *jobService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Job, error) {
	jobs, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list jobs by owner: %w", err)
	}
	return jobs, nil
}

// OwnerOf resolves the employer that posted the job with the given raw id.
// Ids that do not parse are reported as missing jobs.
func (s *jobService) OwnerOf(ctx context.Context, rawID string) (uuid.UUID, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return uuid.Nil, apperrors.ErrJobNotFound
	}
	job, err := s.Get(ctx, id)
	if err != nil {
		return uuid.Nil, err
	}
	return job.PostedBy, nil
}

// pageCount is ceil(total/limit) without the overflow of total+limit-1.
func pageCount(total int64, limit int) int {
	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}
	return int(pages)
}

func cleanSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	for _, skill := range skills {
		if skill = strings.TrimSpace(skill); skill != "" {
			out = append(out, skill)
		}
	}
	return out
}
