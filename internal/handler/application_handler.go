package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	apperrors "jobboard/internal/errors"
	"jobboard/internal/model"
	"jobboard/internal/policy"
	"jobboard/internal/service"
)

// ApplicationHandler handles job application endpoints.
type ApplicationHandler struct {
	applicationService service.ApplicationService
}

// NewApplicationHandler creates a new application handler.
func NewApplicationHandler(applicationService service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{applicationService: applicationService}
}

// ApplyRequest represents a student's application.
type ApplyRequest struct {
	JobID     string `json:"jobId" validate:"required,uuid"`
	ResumeURL string `json:"resumeUrl" validate:"required"`
}

// UpdateStatusRequest carries the new status of an application.
type UpdateStatusRequest struct {
	Status model.ApplicationStatus `json:"status" validate:"required,oneof=Submitted Viewed Interviewing Offered Rejected" enums:"Submitted,Viewed,Interviewing,Offered,Rejected"`
}

// ApplicantSummary is the applicant embedded in an employer's listing.
type ApplicantSummary struct {
	ID    uuid.UUID `json:"_id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// JobSummary is the job embedded in a student's listing.
type JobSummary struct {
	ID          uuid.UUID `json:"_id"`
	Title       string    `json:"title"`
	CompanyName string    `json:"companyName"`
}

// ApplicationResponse represents an application with optional joined data.
type ApplicationResponse struct {
	ID          uuid.UUID               `json:"_id"`
	StudentID   uuid.UUID               `json:"studentId"`
	JobID       uuid.UUID               `json:"jobId"`
	ResumeURL   string                  `json:"resumeUrl"`
	Status      model.ApplicationStatus `json:"status"`
	AppliedDate time.Time               `json:"appliedDate"`
	UpdatedAt   time.Time               `json:"updatedAt"`
	Student     *ApplicantSummary       `json:"student,omitempty"`
	Job         *JobSummary             `json:"job,omitempty"`
}

func newApplicationResponse(a *model.Application) ApplicationResponse {
	resp := ApplicationResponse{
		ID:          a.ID,
		StudentID:   a.StudentID,
		JobID:       a.JobID,
		ResumeURL:   a.ResumeURL,
		Status:      a.Status,
		AppliedDate: a.AppliedDate,
		UpdatedAt:   a.UpdatedAt,
	}
	if a.Student != nil {
		resp.Student = &ApplicantSummary{ID: a.Student.ID, Name: a.Student.Name, Email: a.Student.Email}
	}
	if a.Job != nil {
		resp.Job = &JobSummary{ID: a.Job.ID, Title: a.Job.Title, CompanyName: a.Job.CompanyName}
	}
	return resp
}

func newApplicationResponses(applications []model.Application) []ApplicationResponse {
	out := make([]ApplicationResponse, 0, len(applications))
	for i := range applications {
		out = append(out, newApplicationResponse(&applications[i]))
	}
	return out
}

// Apply godoc
// @Summary Apply for a job
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ApplyRequest true "Application"
// @Success 201 {object} ApplicationResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /applications [post]
func (h *ApplicationHandler) Apply(c echo.Context) error {
	var req ApplyRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.NewValidationError("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	jobID, err := uuid.Parse(req.JobID)
	if err != nil {
		return apperrors.NewValidationError("jobId must be a valid UUID")
	}

	application, err := h.applicationService.Apply(c.Request().Context(), policy.CallerFrom(c).ID, jobID, req.ResumeURL)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, newApplicationResponse(application))
}

// ListMyApplications godoc
// @Summary List the caller's applications
// @Description Newest first, each with its job.
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Success 200 {array} ApplicationResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /applications/my-applications [get]
func (h *ApplicationHandler) ListMyApplications(c echo.Context) error {
	applications, err := h.applicationService.ListByStudent(c.Request().Context(), policy.CallerFrom(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newApplicationResponses(applications))
}

// ListJobApplications godoc
// @Summary List applications for a job
// @Description Oldest first, each with its applicant. Only the employer who posted the job may call it.
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param jobId path string true "Job ID"
// @Success 200 {array} ApplicationResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /applications/{jobId} [get]
func (h *ApplicationHandler) ListJobApplications(c echo.Context) error {
	jobID, err := uuid.Parse(c.Param("jobId"))
	if err != nil {
		return apperrors.ErrJobNotFound
	}

	applications, err := h.applicationService.ListByJob(c.Request().Context(), jobID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newApplicationResponses(applications))
}

// UpdateStatus godoc
// @Summary Update application status
// @Description Any status may follow any other. Only the employer who posted the job may call it.
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param applicationId path string true "Application ID"
// @Param request body UpdateStatusRequest true "New status"
// @Success 200 {object} ApplicationResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /applications/{applicationId}/status [patch]
func (h *ApplicationHandler) UpdateStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("applicationId"))
	if err != nil {
		return apperrors.ErrApplicationNotFound
	}

	var req UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.NewValidationError("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	application, err := h.applicationService.UpdateStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newApplicationResponse(application))
}
