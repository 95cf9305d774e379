package router

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"jobboard/internal/model"
	"jobboard/internal/repository"
)

// memStore is an in-memory stand-in for the three gorm repositories. It
// mirrors the unique indexes and orderings the SQL implementations rely on.
type memStore struct {
	mu    sync.Mutex
	now   time.Time
	users map[uuid.UUID]model.User
	jobs  map[uuid.UUID]model.Job
	apps  map[uuid.UUID]model.Application
}

func newMemStore() *memStore {
	return &memStore{
		now:   time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC),
		users: map[uuid.UUID]model.User{},
		jobs:  map[uuid.UUID]model.Job{},
		apps:  map[uuid.UUID]model.Application{},
	}
}

// tick advances the store clock so records get distinct timestamps.
func (s *memStore) tick() time.Time {
	s.now = s.now.Add(time.Second)
	return s.now
}

type memUsers struct{ *memStore }

func (r memUsers) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = r.tick()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = *user
	return nil
}

func (r memUsers) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &user, nil
}

func (r memUsers) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			return &user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type memJobs struct{ *memStore }

func (r memJobs) Create(ctx context.Context, job *model.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	job.CreatedAt = r.tick()
	job.UpdatedAt = job.CreatedAt
	r.jobs[job.ID] = *job
	return nil
}

func (r memJobs) FindByID(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &job, nil
}

func (r memJobs) List(ctx context.Context, filter repository.JobFilter) ([]model.Job, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []model.Job
	for _, job := range r.jobs {
		if filter.Search != "" && !strings.Contains(strings.ToLower(job.Title), strings.ToLower(filter.Search)) {
			continue
		}
		if filter.Location != "" && !strings.Contains(strings.ToLower(job.Location), strings.ToLower(filter.Location)) {
			continue
		}
		if filter.JobType != "" && job.JobType != filter.JobType {
			continue
		}
		matched = append(matched, job)
	}
	sortNewestFirst(matched)

	total := int64(len(matched))
	page := []model.Job{}
	// gorm drops a non-positive OFFSET, so the fake starts from 0 as well.
	for i := max(filter.Offset, 0); i < len(matched) && len(page) < filter.Limit; i++ {
		page = append(page, matched[i])
	}
	return page, total, nil
}

func (r memJobs) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	jobs := []model.Job{}
	for _, job := range r.jobs {
		if job.PostedBy == ownerID {
			jobs = append(jobs, job)
		}
	}
	sortNewestFirst(jobs)
	return jobs, nil
}

func sortNewestFirst(jobs []model.Job) {
	sort.Slice(jobs, func(i, j int) bool {
		if !jobs[i].CreatedAt.Equal(jobs[j].CreatedAt) {
			return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
		}
		return jobs[i].ID.String() > jobs[j].ID.String()
	})
}

type memApplications struct{ *memStore }

func (r memApplications) Create(ctx context.Context, application *model.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.apps {
		if existing.StudentID == application.StudentID && existing.JobID == application.JobID {
			return gorm.ErrDuplicatedKey
		}
	}
	if application.ID == uuid.Nil {
		application.ID = uuid.New()
	}
	application.AppliedDate = r.tick()
	application.UpdatedAt = application.AppliedDate
	r.apps[application.ID] = *application
	return nil
}

func (r memApplications) FindByID(ctx context.Context, id uuid.UUID) (*model.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	application, ok := r.apps[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &application, nil
}

func (r memApplications) FindByStudentAndJob(ctx context.Context, studentID, jobID uuid.UUID) (*model.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, application := range r.apps {
		if application.StudentID == studentID && application.JobID == jobID {
			return &application, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r memApplications) ListByJob(ctx context.Context, jobID uuid.UUID) ([]model.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.Application{}
	for _, application := range r.apps {
		if application.JobID != jobID {
			continue
		}
		if student, ok := r.users[application.StudentID]; ok {
			application.Student = &student
		}
		out = append(out, application)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AppliedDate.Before(out[j].AppliedDate) })
	return out, nil
}

func (r memApplications) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]model.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.Application{}
	for _, application := range r.apps {
		if application.StudentID != studentID {
			continue
		}
		if job, ok := r.jobs[application.JobID]; ok {
			application.Job = &job
		}
		out = append(out, application)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AppliedDate.After(out[j].AppliedDate) })
	return out, nil
}

func (r memApplications) UpdateStatus(ctx context.Context, id uuid.UUID, status model.ApplicationStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	application, ok := r.apps[id]
	if !ok {
		return nil
	}
	application.Status = status
	application.UpdatedAt = r.tick()
	r.apps[id] = application
	return nil
}
