package router

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"jobboard/internal/config"
	apperrors "jobboard/internal/errors"
	"jobboard/internal/handler"
	"jobboard/internal/policy"
	"jobboard/internal/service"
)

// Dependencies are the collaborators routes are wired to.
type Dependencies struct {
	Logger             *slog.Logger
	AuthService        service.AuthService
	Authorizer         *policy.Authorizer
	AuthHandler        *handler.AuthHandler
	UserHandler        *handler.UserHandler
	JobHandler         *handler.JobHandler
	ApplicationHandler *handler.ApplicationHandler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, cfg *config.Config, deps Dependencies) error {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	e.HTTPErrorHandler = NewErrorHandler(logger, !cfg.IsProduction())
	e.Validator = NewValidator()

	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			logger.LogAttrs(context.Background(), level, "request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID),
			)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSAllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	bearer, err := echojwt.Config{
		ContextKey: policy.CallerKey,
		Skipper: func(c echo.Context) bool {
			return !deps.Authorizer.Protected(c.Request().Method, c.Path())
		},
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return deps.AuthService.Authenticate(c.Request().Context(), token)
		},
		ErrorHandler: bearerError,
	}.ToMiddleware()
	if err != nil {
		return err
	}

	// Group middleware runs after routing, so both see the matched route
	// pattern in c.Path().
	api := e.Group("/api", bearer, deps.Authorizer.Middleware())

	api.POST("/users/register", deps.AuthHandler.Register)
	api.POST("/users/login", deps.AuthHandler.Login)
	api.GET("/users/me", deps.UserHandler.Me)

	api.GET("/jobs", deps.JobHandler.ListJobs)
	api.POST("/jobs", deps.JobHandler.CreateJob)
	api.GET("/jobs/mine", deps.JobHandler.ListMyJobs)
	api.GET("/jobs/:id", deps.JobHandler.GetJob)

	api.POST("/applications", deps.ApplicationHandler.Apply)
	api.GET("/applications/my-applications", deps.ApplicationHandler.ListMyApplications)
	api.GET("/applications/:jobId", deps.ApplicationHandler.ListJobApplications)
	api.PATCH("/applications/:applicationId/status", deps.ApplicationHandler.UpdateStatus)

	return nil
}

// bearerError turns token middleware failures into the API's
// unauthenticated errors. Store failures while loading the caller pass
// through unchanged and surface as 500s.
func bearerError(c echo.Context, err error) error {
	var extractErr *echojwt.TokenExtractionError
	if err == nil || errors.As(err, &extractErr) {
		return apperrors.ErrNoToken
	}
	if errors.Is(err, apperrors.ErrInvalidToken) {
		return apperrors.ErrInvalidToken
	}
	var parseErr *echojwt.TokenParsingError
	if errors.As(err, &parseErr) {
		return parseErr.Err
	}
	return err
}
