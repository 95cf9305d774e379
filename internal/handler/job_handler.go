package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	apperrors "jobboard/internal/errors"
	"jobboard/internal/model"
	"jobboard/internal/policy"
	"jobboard/internal/service"
)

// JobHandler handles job listing endpoints.
type JobHandler struct {
	jobService service.JobService
}

// NewJobHandler creates a new job handler.
func NewJobHandler(jobService service.JobService) *JobHandler {
	return &JobHandler{jobService: jobService}
}

// CreateJobRequest represents a new listing. The owner is taken from the
// bearer token.
type CreateJobRequest struct {
	Title           string                `json:"title" validate:"required"`
	CompanyName     string                `json:"companyName" validate:"required"`
	Location        string                `json:"location" validate:"required"`
	Description     string                `json:"description" validate:"required"`
	Salary          decimal.NullDecimal   `json:"salary" swaggertype:"number"`
	JobType         model.JobType         `json:"jobType" validate:"omitempty,oneof=Full-Time Part-Time Contract Internship" enums:"Full-Time,Part-Time,Contract,Internship"`
	ExperienceLevel model.ExperienceLevel `json:"experienceLevel" validate:"omitempty,oneof=Entry-Level Mid-Level Senior-Level Manager" enums:"Entry-Level,Mid-Level,Senior-Level,Manager"`
	Skills          []string              `json:"skills"`
}

// CreateJob godoc
// @Summary Post a job
// @Tags jobs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateJobRequest true "Job listing"
// @Success 201 {object} model.Job
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /jobs [post]
func (h *JobHandler) CreateJob(c echo.Context) error {
	var req CreateJobRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.NewValidationError("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	job, err := h.jobService.Create(c.Request().Context(), policy.CallerFrom(c).ID, service.JobInput{
		Title:           req.Title,
		CompanyName:     req.CompanyName,
		Location:        req.Location,
		Description:     req.Description,
		Salary:          req.Salary,
		JobType:         req.JobType,
		ExperienceLevel: req.ExperienceLevel,
		Skills:          req.Skills,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, job)
}

// ListJobs godoc
// @Summary List jobs
// @Description Newest first. search and location match case-insensitive substrings.
// @Tags jobs
// @Produce json
// @Param search query string false "Title substring"
// @Param location query string false "Location substring"
// @Param jobType query string false "Exact job type" Enums(Full-Time, Part-Time, Contract, Internship)
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} service.JobPage
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /jobs [get]
func (h *JobHandler) ListJobs(c echo.Context) error {
	query := service.JobQuery{
		Search:   c.QueryParam("search"),
		Location: c.QueryParam("location"),
		JobType:  model.JobType(c.QueryParam("jobType")),
		Page:     service.DefaultPage,
		Limit:    service.DefaultLimit,
	}
	err := echo.QueryParamsBinder(c).
		Int("page", &query.Page).
		Int("limit", &query.Limit).
		BindError()
	if err != nil {
		return apperrors.NewValidationError("page and limit must be positive integers")
	}

	page, err := h.jobService.List(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

// GetJob godoc
// @Summary Get job by id
// @Tags jobs
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} model.Job
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /jobs/{id} [get]
func (h *JobHandler) GetJob(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperrors.ErrJobNotFound
	}

	job, err := h.jobService.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, job)
}

// ListMyJobs godoc
// @Summary List the caller's postings
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Job
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /jobs/mine [get]
func (h *JobHandler) ListMyJobs(c echo.Context) error {
	jobs, err := h.jobService.ListByOwner(c.Request().Context(), policy.CallerFrom(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, jobs)
}
