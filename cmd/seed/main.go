package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"jobboard/internal/client"
	"jobboard/internal/logging"
)

const defaultAPIURL = "http://localhost:5000"

type demoUser struct {
	name, email, password, role string
}

var (
	demoEmployer = demoUser{"Acme Recruiting", "employer@acme.test", "password123", client.RoleEmployer}
	demoStudent  = demoUser{"Sam Student", "student@campus.test", "password123", client.RoleStudent}
)

func salary(v string) *json.Number {
	n := json.Number(v)
	return &n
}

var sampleJobs = []client.JobInput{
	{
		Title:           "Backend Engineer",
		CompanyName:     "Acme",
		Location:        "Remote",
		Description:     "Build and operate the REST APIs behind our hiring products.",
		Salary:          salary("95000"),
		JobType:         "Full-Time",
		ExperienceLevel: "Mid-Level",
		Skills:          []string{"Go", "SQL", "Redis"},
	},
	{
		Title:           "Frontend Intern",
		CompanyName:     "Acme",
		Location:        "Berlin",
		Description:     "Help us ship the student-facing job search experience.",
		JobType:         "Internship",
		ExperienceLevel: "Entry-Level",
		Skills:          []string{"TypeScript", "React"},
	},
	{
		Title:           "Data Analyst",
		CompanyName:     "Acme",
		Location:        "London",
		Description:     "Turn application funnels into dashboards and insights.",
		Salary:          salary("60000"),
		JobType:         "Contract",
		ExperienceLevel: "Senior-Level",
		Skills:          []string{"SQL", "Python"},
	},
}

func main() {
	_ = godotenv.Load()
	logger := logging.New(os.Getenv("APP_ENV"), os.Stdout)

	apiURL := os.Getenv("SEED_API_URL")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := seed(ctx, apiURL, logger); err != nil {
		logger.Error("seed failed", "error", err)
		os.Exit(1)
	}
	logger.Info("seed completed", "api", apiURL)
}

func seed(ctx context.Context, apiURL string, logger *slog.Logger) error {
	employer := client.New(apiURL)
	if _, err := signIn(ctx, employer, demoEmployer, logger); err != nil {
		return err
	}

	existing, err := employer.MyJobs(ctx)
	if err != nil {
		return err
	}
	jobs := existing
	if len(existing) == 0 {
		for _, in := range sampleJobs {
			job, err := employer.CreateJob(ctx, in)
			if err != nil {
				return err
			}
			logger.Info("job posted", "id", job.ID, "title", job.Title)
			jobs = append(jobs, *job)
		}
	} else {
		logger.Info("demo jobs already posted, skipping", "count", len(existing))
	}

	student := client.New(apiURL)
	if _, err := signIn(ctx, student, demoStudent, logger); err != nil {
		return err
	}

	application, err := student.Apply(ctx, jobs[0].ID, "https://example.com/resumes/sam-student.pdf")
	switch {
	case err == nil:
		logger.Info("application submitted", "id", application.ID, "job", jobs[0].Title)
	case client.IsStatus(err, http.StatusBadRequest):
		logger.Info("demo application already exists", "job", jobs[0].Title)
	default:
		return err
	}
	return nil
}

// signIn registers u, or logs in when the account already exists.
func signIn(ctx context.Context, c *client.Client, u demoUser, logger *slog.Logger) (*client.Session, error) {
	session, err := c.Register(ctx, client.RegisterInput{
		Name:     u.name,
		Email:    u.email,
		Password: u.password,
		UserType: u.role,
	})
	if err == nil {
		logger.Info("user registered", "email", u.email, "role", u.role)
		return session, nil
	}

	var apiErr *client.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadRequest {
		return nil, err
	}
	session, err = c.Login(ctx, u.email, u.password)
	if err != nil {
		return nil, err
	}
	logger.Info("user logged in", "email", u.email, "role", u.role)
	return session, nil
}
