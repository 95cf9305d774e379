package client

import (
	"encoding/json"
	"time"
)

// Roles and statuses as the API spells them.
const (
	RoleStudent  = "student"
	RoleEmployer = "employer"

	StatusSubmitted    = "Submitted"
	StatusViewed       = "Viewed"
	StatusInterviewing = "Interviewing"
	StatusOffered      = "Offered"
	StatusRejected     = "Rejected"
)

// User is an account as the API returns it.
type User struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	UserType  string    `json:"userType"`
	CreatedAt time.Time `json:"createdAt"`
}

// Session is a logged-in user and its bearer token.
type Session struct {
	User  User
	Token string
}

type authResponse struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	UserType string `json:"userType"`
	Token    string `json:"token"`
}

func (r authResponse) session() *Session {
	return &Session{
		User:  User{ID: r.ID, Name: r.Name, Email: r.Email, UserType: r.UserType},
		Token: r.Token,
	}
}

// RegisterInput is the sign-up form.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	UserType string `json:"userType"`
}

// Job is a listing.
type Job struct {
	ID              string       `json:"_id"`
	Title           string       `json:"title"`
	CompanyName     string       `json:"companyName"`
	Location        string       `json:"location"`
	Description     string       `json:"description"`
	Salary          *json.Number `json:"salary"`
	JobType         string       `json:"jobType"`
	ExperienceLevel string       `json:"experienceLevel"`
	Skills          []string     `json:"skills"`
	PostedBy        string       `json:"postedBy"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
}

// JobInput is the post-a-job form. Empty optional fields use server defaults.
type JobInput struct {
	Title           string       `json:"title"`
	CompanyName     string       `json:"companyName"`
	Location        string       `json:"location"`
	Description     string       `json:"description"`
	Salary          *json.Number `json:"salary,omitempty"`
	JobType         string       `json:"jobType,omitempty"`
	ExperienceLevel string       `json:"experienceLevel,omitempty"`
	Skills          []string     `json:"skills,omitempty"`
}

// JobQuery filters the public listing. Zero values are omitted.
type JobQuery struct {
	Search   string
	Location string
	JobType  string
	Page     int
	Limit    int
}

// JobPage is one page of the public listing.
type JobPage struct {
	Jobs        []Job `json:"jobs"`
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalJobs   int64 `json:"totalJobs"`
}

// Applicant is the student embedded in an employer's applicant list.
type Applicant struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// JobRef is the job embedded in a student's application list.
type JobRef struct {
	ID          string `json:"_id"`
	Title       string `json:"title"`
	CompanyName string `json:"companyName"`
}

// Application is an application with whichever side was joined.
type Application struct {
	ID          string     `json:"_id"`
	StudentID   string     `json:"studentId"`
	JobID       string     `json:"jobId"`
	ResumeURL   string     `json:"resumeUrl"`
	Status      string     `json:"status"`
	AppliedDate time.Time  `json:"appliedDate"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	Student     *Applicant `json:"student,omitempty"`
	Job         *JobRef    `json:"job,omitempty"`
}
