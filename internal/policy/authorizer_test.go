package policy

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "jobboard/internal/errors"
	"jobboard/internal/model"
)

func newTestAuthorizer(t *testing.T, jobOwner uuid.UUID) *Authorizer {
	t.Helper()
	knownJob := uuid.New().String()
	resolvers := map[Resource]OwnerResolver{
		ResourceJob: func(ctx context.Context, rawID string) (uuid.UUID, error) {
			if rawID != knownJob && rawID != "owned" {
				return uuid.Nil, apperrors.ErrJobNotFound
			}
			return jobOwner, nil
		},
		ResourceApplication: func(ctx context.Context, rawID string) (uuid.UUID, error) {
			return uuid.Nil, apperrors.ErrApplicationNotFound
		},
	}
	a, err := NewAuthorizer(Rules, resolvers)
	require.NoError(t, err)
	return a
}

// serve runs the authorizer for a request matched to pattern.
func serve(a *Authorizer, method, pattern, param string, caller *model.User, header string) error {
	e := echo.New()
	req := httptest.NewRequest(method, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath(pattern)
	if param != "" {
		for _, rule := range Rules {
			if rule.Path == pattern && rule.Param != "" {
				c.SetParamNames(rule.Param)
				c.SetParamValues(param)
			}
		}
	}
	if caller != nil {
		c.Set(CallerKey, caller)
	}
	return a.Middleware()(func(c echo.Context) error { return nil })(c)
}

func TestAuthorizer_Middleware(t *testing.T) {
	owner := &model.User{ID: uuid.New(), Role: model.RoleEmployer}
	otherEmployer := &model.User{ID: uuid.New(), Role: model.RoleEmployer}
	student := &model.User{ID: uuid.New(), Role: model.RoleStudent}
	a := newTestAuthorizer(t, owner.ID)

	tests := []struct {
		name    string
		method  string
		pattern string
		param   string
		caller  *model.User
		header  string
		wantErr error
		wantMsg string
	}{
		{name: "public route", method: http.MethodGet, pattern: "/api/jobs"},
		{name: "no token", method: http.MethodPost, pattern: "/api/jobs", wantErr: apperrors.ErrNoToken},
		{name: "empty bearer", method: http.MethodPost, pattern: "/api/jobs", header: "Bearer ", wantErr: apperrors.ErrNoToken},
		{name: "token that failed", method: http.MethodPost, pattern: "/api/jobs", header: "Bearer abc.def.ghi", wantErr: apperrors.ErrInvalidToken},
		{
			name: "wrong role", method: http.MethodPost, pattern: "/api/jobs", caller: student,
			wantErr: apperrors.ErrForbidden, wantMsg: "User role 'student' is not authorized to access this route",
		},
		{name: "right role", method: http.MethodPost, pattern: "/api/jobs", caller: owner},
		{name: "any role", method: http.MethodGet, pattern: "/api/users/me", caller: student},
		{name: "owner", method: http.MethodGet, pattern: "/api/applications/:jobId", param: "owned", caller: owner},
		{
			name: "not the owner", method: http.MethodGet, pattern: "/api/applications/:jobId", param: "owned", caller: otherEmployer,
			wantErr: apperrors.ErrForbidden, wantMsg: "Not authorized to view these applications",
		},
		{
			name: "missing resource checked before ownership", method: http.MethodGet, pattern: "/api/applications/:jobId",
			param: "missing", caller: otherEmployer, wantErr: apperrors.ErrJobNotFound,
		},
		{
			name: "role checked before ownership", method: http.MethodPatch, pattern: "/api/applications/:applicationId/status",
			param: "x", caller: student, wantErr: apperrors.ErrForbidden,
		},
		{
			name: "missing application", method: http.MethodPatch, pattern: "/api/applications/:applicationId/status",
			param: "x", caller: owner, wantErr: apperrors.ErrApplicationNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := serve(a, tt.method, tt.pattern, tt.param, tt.caller, tt.header)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			if tt.wantMsg != "" {
				assert.EqualError(t, err, tt.wantMsg)
			}
		})
	}
}

func TestNewAuthorizer_RejectsIncompleteTables(t *testing.T) {
	_, err := NewAuthorizer(Rules, map[Resource]OwnerResolver{})
	assert.Error(t, err)

	dup := append(append([]Rule{}, Rules...), Rules[0])
	_, err = NewAuthorizer(dup, map[Resource]OwnerResolver{
		ResourceJob:         func(context.Context, string) (uuid.UUID, error) { return uuid.Nil, nil },
		ResourceApplication: func(context.Context, string) (uuid.UUID, error) { return uuid.Nil, nil },
	})
	assert.ErrorContains(t, err, "duplicate")
}

func TestAuthorizer_Protected(t *testing.T) {
	a := newTestAuthorizer(t, uuid.New())
	assert.True(t, a.Protected(http.MethodPost, "/api/jobs"))
	assert.False(t, a.Protected(http.MethodGet, "/api/jobs"))
	assert.False(t, a.Protected(http.MethodGet, "/api/jobs/:id"))
	assert.True(t, a.Protected(http.MethodPatch, "/api/applications/:applicationId/status"))
}
