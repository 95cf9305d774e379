package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"jobboard/internal/model"
)

// JobFilter narrows a job listing query. Empty fields are ignored.
type JobFilter struct {
	Search   string
	Location string
	JobType  model.JobType
	Offset   int
	Limit    int
}

// JobRepository defines job persistence operations.
type JobRepository interface {
	Create(ctx context.Context, job *model.Job) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Job, error)
	List(ctx context.Context, filter JobFilter) ([]model.Job, int64, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Job, error)
}

type jobRepository struct {
	db *gorm.DB
}

// NewJobRepository creates a new job repository.
func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

// Create creates a new job.
func (r *jobRepository) Create(ctx context.Context, job *model.Job) error {
	return r.db.WithContext(ctx).Create(job).Error
}

// FindByID finds a job by ID.
func (r *jobRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	var job model.Job
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&job).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

// List returns one page of jobs matching filter, newest first, together with
// the total number of matches.
func (r *jobRepository) List(ctx context.Context, filter JobFilter) ([]model.Job, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Job{}).Scopes(filter.scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	jobs := []model.Job{}
	if total == 0 {
		return jobs, 0, nil
	}
	err := r.db.WithContext(ctx).
		Scopes(filter.scope).
		Order("created_at DESC").
		Order("id DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&jobs).Error
	if err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

// ListByOwner lists the jobs an employer posted, newest first.
func (r *jobRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Job, error) {
	jobs := []model.Job{}
	err := r.db.WithContext(ctx).
		Where("posted_by = ?", ownerID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&jobs).Error
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

func (f JobFilter) scope(db *gorm.DB) *gorm.DB {
	if f.Search != "" {
		db = db.Where("LOWER(title) LIKE ? ESCAPE '!'", containsPattern(f.Search))
	}
	if f.Location != "" {
		db = db.Where("LOWER(location) LIKE ? ESCAPE '!'", containsPattern(f.Location))
	}
	if f.JobType != "" {
		db = db.Where("job_type = ?", f.JobType)
	}
	return db
}

var likeEscaper = strings.NewReplacer(`!`, `!!`, `%`, `!%`, `_`, `!_`)

// containsPattern builds a case-insensitive substring pattern, treating LIKE
// wildcards in s as literals. The escape character is '!', which mysql,
// postgres and sqlite all read the same way inside ESCAPE.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}
