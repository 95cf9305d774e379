package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"jobboard/internal/model"
)

var baseTime = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

// newMockDB returns a gorm mysql session backed by sqlmock, configured the
// way db.Open configures the real one.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gdb, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, mock.ExpectationsWereMet()) })
	return gdb, mock
}

func quoteSQL(query string) string {
	return regexp.QuoteMeta(query)
}

func jobRows(jobs ...model.Job) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "title", "company_name", "location", "job_type", "posted_by", "created_at"})
	for _, job := range jobs {
		rows.AddRow(job.ID.String(), job.Title, job.CompanyName, job.Location, string(job.JobType), job.PostedBy.String(), job.CreatedAt)
	}
	return rows
}

func TestContainsPattern(t *testing.T) {
	tests := map[string]string{
		"Engineer":     "%engineer%",
		"100%":         "%100!%%",
		"data_analyst": "%data!_analyst%",
		"wow!":         "%wow!!%",
		`C:\jobs`:      `%c:\jobs%`,
	}
	for in, want := range tests {
		assert.Equal(t, want, containsPattern(in), in)
	}
}

func TestJobRepository_List(t *testing.T) {
	ownerID := uuid.New()
	newer := model.Job{ID: uuid.New(), Title: "100% Remote Engineer", Location: "Re_mote", JobType: model.JobTypeContract, PostedBy: ownerID, CreatedAt: baseTime.Add(time.Hour)}
	older := model.Job{ID: uuid.New(), Title: "Go Engineer 100%", Location: "re_mote - EU", JobType: model.JobTypeContract, PostedBy: ownerID, CreatedAt: baseTime}

	t.Run("count and page share the filter", func(t *testing.T) {
		gdb, mock := newMockDB(t)
		where := "WHERE LOWER(title) LIKE ? ESCAPE '!' AND LOWER(location) LIKE ? ESCAPE '!' AND job_type = ?"
		mock.ExpectQuery(quoteSQL("SELECT count(*) FROM `jobs` " + where)).
			WithArgs("%100!%%", "%re!_mote%", "Contract").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(23))
		mock.ExpectQuery(quoteSQL("SELECT * FROM `jobs` " + where + " ORDER BY created_at DESC,id DESC LIMIT ? OFFSET ?")).
			WithArgs("%100!%%", "%re!_mote%", "Contract", 10, 20).
			WillReturnRows(jobRows(newer, older))

		jobs, total, err := NewJobRepository(gdb).List(context.Background(), JobFilter{
			Search:   "100%",
			Location: "Re_mote",
			JobType:  model.JobTypeContract,
			Offset:   20,
			Limit:    10,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(23), total)
		require.Len(t, jobs, 2)
		assert.Equal(t, newer.ID, jobs[0].ID)
		assert.Equal(t, older.ID, jobs[1].ID)
		assert.Equal(t, ownerID, jobs[1].PostedBy)
	})

	t.Run("first page has no offset", func(t *testing.T) {
		gdb, mock := newMockDB(t)
		mock.ExpectQuery(quoteSQL("SELECT count(*) FROM `jobs`")).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
		mock.ExpectQuery(quoteSQL("SELECT * FROM `jobs` ORDER BY created_at DESC,id DESC LIMIT ?")).
			WithArgs(10).
			WillReturnRows(jobRows(newer, older))

		jobs, total, err := NewJobRepository(gdb).List(context.Background(), JobFilter{Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, jobs, 2)
	})

	t.Run("no matches skips the page query", func(t *testing.T) {
		gdb, mock := newMockDB(t)
		mock.ExpectQuery(quoteSQL("SELECT count(*) FROM `jobs` WHERE LOWER(title) LIKE ? ESCAPE '!'")).
			WithArgs("%astronaut%").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		jobs, total, err := NewJobRepository(gdb).List(context.Background(), JobFilter{Search: "Astronaut", Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(0), total)
		assert.NotNil(t, jobs)
		assert.Empty(t, jobs)
	})

	t.Run("count failure", func(t *testing.T) {
		gdb, mock := newMockDB(t)
		mock.ExpectQuery(quoteSQL("SELECT count(*) FROM `jobs`")).WillReturnError(errors.New("connection refused"))

		_, _, err := NewJobRepository(gdb).List(context.Background(), JobFilter{Limit: 10})
		assert.ErrorContains(t, err, "connection refused")
	})
}

func TestJobRepository_FindAndListByOwner(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewJobRepository(gdb)
	ownerID := uuid.New()
	job := model.Job{ID: uuid.New(), Title: "Backend Engineer", Location: "Remote", JobType: model.JobTypeFullTime, PostedBy: ownerID, CreatedAt: baseTime}
	missing := uuid.New()

	mock.ExpectQuery(quoteSQL("SELECT * FROM `jobs` WHERE id = ? ORDER BY `jobs`.`id` LIMIT ?")).
		WithArgs(job.ID, 1).
		WillReturnRows(jobRows(job))
	mock.ExpectQuery(quoteSQL("SELECT * FROM `jobs` WHERE id = ? ORDER BY `jobs`.`id` LIMIT ?")).
		WithArgs(missing, 1).
		WillReturnRows(jobRows())
	mock.ExpectQuery(quoteSQL("SELECT * FROM `jobs` WHERE posted_by = ? ORDER BY created_at DESC,id DESC")).
		WithArgs(ownerID).
		WillReturnRows(jobRows(job))

	found, err := repo.FindByID(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, "Backend Engineer", found.Title)

	_, err = repo.FindByID(context.Background(), missing)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	mine, err := repo.ListByOwner(context.Background(), ownerID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, job.ID, mine[0].ID)
}

func TestUserRepository(t *testing.T) {
	gdb, mock := newMockDB(t)
	repo := NewUserRepository(gdb)

	mock.ExpectQuery(quoteSQL("SELECT * FROM `users` WHERE email = ? ORDER BY `users`.`id` LIMIT ?")).
		WithArgs("sam@example.com", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "role"}))
	mock.ExpectBegin()
	mock.ExpectExec(quoteSQL("INSERT INTO `users`")).
		WillReturnError(&mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry 'sam@example.com' for key 'idx_users_email'"})
	mock.ExpectRollback()

	_, err := repo.FindByEmail(context.Background(), "sam@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	err = repo.Create(context.Background(), &model.User{Name: "Sam", Email: "sam@example.com", PasswordHash: "hash", Role: model.RoleStudent})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestApplicationRepository(t *testing.T) {
	jobID := uuid.New()
	otherJobID := uuid.New()
	sam := model.User{ID: uuid.New(), Name: "Sam", Email: "sam@example.com", Role: model.RoleStudent}
	lee := model.User{ID: uuid.New(), Name: "Lee", Email: "lee@example.com", Role: model.RoleStudent}
	applicationColumns := []string{"id", "student_id", "job_id", "resume_url", "status", "applied_date"}

	t.Run("list by job loads applicants oldest first", func(t *testing.T) {
		gdb, mock := newMockDB(t)
		first, second := uuid.New(), uuid.New()
		mock.ExpectQuery(quoteSQL("SELECT * FROM `applications` WHERE job_id = ? ORDER BY applied_date ASC,id ASC")).
			WithArgs(jobID).
			WillReturnRows(sqlmock.NewRows(applicationColumns).
				AddRow(first.String(), sam.ID.String(), jobID.String(), "https://example.com/sam.pdf", "Submitted", baseTime).
				AddRow(second.String(), lee.ID.String(), jobID.String(), "https://example.com/lee.pdf", "Viewed", baseTime.Add(time.Minute)))
		mock.ExpectQuery(quoteSQL("SELECT * FROM `users` WHERE `users`.`id` IN (?,?)")).
			WithArgs(sam.ID, lee.ID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "role"}).
				AddRow(lee.ID.String(), lee.Name, lee.Email, "student").
				AddRow(sam.ID.String(), sam.Name, sam.Email, "student"))

		applications, err := NewApplicationRepository(gdb).ListByJob(context.Background(), jobID)
		require.NoError(t, err)
		require.Len(t, applications, 2)
		assert.Equal(t, first, applications[0].ID)
		require.NotNil(t, applications[0].Student)
		assert.Equal(t, "Sam", applications[0].Student.Name)
		require.NotNil(t, applications[1].Student)
		assert.Equal(t, "lee@example.com", applications[1].Student.Email)
		assert.Equal(t, model.ApplicationStatusViewed, applications[1].Status)
		assert.Nil(t, applications[0].Job)
	})

	t.Run("list by student loads jobs newest first", func(t *testing.T) {
		gdb, mock := newMockDB(t)
		mock.ExpectQuery(quoteSQL("SELECT * FROM `applications` WHERE student_id = ? ORDER BY applied_date DESC,id DESC")).
			WithArgs(sam.ID).
			WillReturnRows(sqlmock.NewRows(applicationColumns).
				AddRow(uuid.NewString(), sam.ID.String(), otherJobID.String(), "https://example.com/sam.pdf", "Submitted", baseTime.Add(time.Hour)).
				AddRow(uuid.NewString(), sam.ID.String(), jobID.String(), "https://example.com/sam.pdf", "Interviewing", baseTime))
		mock.ExpectQuery(quoteSQL("SELECT * FROM `jobs` WHERE `jobs`.`id` IN (?,?)")).
			WithArgs(otherJobID, jobID).
			WillReturnRows(jobRows(
				model.Job{ID: jobID, Title: "Backend Engineer", CompanyName: "Acme"},
				model.Job{ID: otherJobID, Title: "Designer", CompanyName: "Studio"},
			))

		applications, err := NewApplicationRepository(gdb).ListByStudent(context.Background(), sam.ID)
		require.NoError(t, err)
		require.Len(t, applications, 2)
		require.NotNil(t, applications[0].Job)
		assert.Equal(t, "Designer", applications[0].Job.Title)
		require.NotNil(t, applications[1].Job)
		assert.Equal(t, "Acme", applications[1].Job.CompanyName)
		assert.Nil(t, applications[0].Student)
	})

	t.Run("find by student and job", func(t *testing.T) {
		gdb, mock := newMockDB(t)
		mock.ExpectQuery(quoteSQL("SELECT * FROM `applications` WHERE student_id = ? AND job_id = ? ORDER BY `applications`.`id` LIMIT ?")).
			WithArgs(lee.ID, jobID, 1).
			WillReturnRows(sqlmock.NewRows(applicationColumns))

		_, err := NewApplicationRepository(gdb).FindByStudentAndJob(context.Background(), lee.ID, jobID)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("duplicate insert is translated", func(t *testing.T) {
		gdb, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectExec(quoteSQL("INSERT INTO `applications`")).
			WillReturnError(&mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry for key 'idx_applications_student_job'"})
		mock.ExpectRollback()

		err := NewApplicationRepository(gdb).Create(context.Background(), &model.Application{
			StudentID: sam.ID,
			JobID:     jobID,
			ResumeURL: "https://example.com/sam.pdf",
			Status:    model.ApplicationStatusSubmitted,
		})
		assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
	})

	t.Run("update status tolerates unchanged rows", func(t *testing.T) {
		gdb, mock := newMockDB(t)
		id := uuid.New()
		mock.ExpectBegin()
		mock.ExpectExec(quoteSQL("UPDATE `applications` SET `status`=?")).
			WithArgs("Interviewing", sqlmock.AnyArg(), id).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		err := NewApplicationRepository(gdb).UpdateStatus(context.Background(), id, model.ApplicationStatusInterviewing)
		assert.NoError(t, err)
	})
}
