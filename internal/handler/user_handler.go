package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	apperrors "jobboard/internal/errors"
	"jobboard/internal/model"
	"jobboard/internal/policy"
)

// UserHandler serves the authenticated user's profile.
type UserHandler struct{}

// NewUserHandler creates a handler layer.
func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID        uuid.UUID  `json:"_id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	UserType  model.Role `json:"userType"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Me godoc
// @Summary Current user
// @Description Returns the account the bearer token was issued for.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	caller := policy.CallerFrom(c)
	if caller == nil {
		return apperrors.ErrNoToken
	}
	return c.JSON(http.StatusOK, UserResponse{
		ID:        caller.ID,
		Name:      caller.Name,
		Email:     caller.Email,
		UserType:  caller.Role,
		CreatedAt: caller.CreatedAt,
	})
}
