// Package policy holds the authorization table for the HTTP API and the echo
// middleware that enforces it.
package policy

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"jobboard/internal/model"
)

// Resource names an owned record an ownership check loads.
type Resource string

const (
	ResourceJob         Resource = "job"
	ResourceApplication Resource = "application"
)

// Rule describes who may call one route. Routes absent from the table are
// public.
type Rule struct {
	Method string
	Path   string
	Roles  []model.Role
	// Owner, when set, requires the caller to own the resource whose id is
	// in path parameter Param. Denial is the message returned otherwise.
	Owner  Resource
	Param  string
	Denial string
}

// Allows reports whether role may call the route.
func (r Rule) Allows(role model.Role) bool {
	for _, allowed := range r.Roles {
		if allowed == role {
			return true
		}
	}
	return false
}

var anyRole = []model.Role{model.RoleStudent, model.RoleEmployer}

// Rules is the complete list of protected routes.
var Rules = []Rule{
	{Method: http.MethodGet, Path: "/api/users/me", Roles: anyRole},
	{Method: http.MethodPost, Path: "/api/jobs", Roles: []model.Role{model.RoleEmployer}},
	{Method: http.MethodGet, Path: "/api/jobs/mine", Roles: []model.Role{model.RoleEmployer}},
	{Method: http.MethodPost, Path: "/api/applications", Roles: []model.Role{model.RoleStudent}},
	{Method: http.MethodGet, Path: "/api/applications/my-applications", Roles: []model.Role{model.RoleStudent}},
	{
		Method: http.MethodGet,
		Path:   "/api/applications/:jobId",
		Roles:  []model.Role{model.RoleEmployer},
		Owner:  ResourceJob,
		Param:  "jobId",
		Denial: "Not authorized to view these applications",
	},
	{
		Method: http.MethodPatch,
		Path:   "/api/applications/:applicationId/status",
		Roles:  []model.Role{model.RoleEmployer},
		Owner:  ResourceApplication,
		Param:  "applicationId",
		Denial: "Not authorized to update this application",
	},
}

// OwnerResolver returns the id of the user owning the resource with the given
// raw id, or the resource's not-found error.
type OwnerResolver func(ctx context.Context, rawID string) (uuid.UUID, error)

func routeKey(method, path string) string {
	return method + " " + path
}

// validate checks that every ownership rule can be resolved.
func validate(rules []Rule, resolvers map[Resource]OwnerResolver) error {
	seen := make(map[string]struct{}, len(rules))
	for _, rule := range rules {
		key := routeKey(rule.Method, rule.Path)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("policy: duplicate rule for %s", key)
		}
		seen[key] = struct{}{}
		if len(rule.Roles) == 0 {
			return fmt.Errorf("policy: rule %s allows no roles", key)
		}
		if rule.Owner == "" {
			continue
		}
		if rule.Param == "" {
			return fmt.Errorf("policy: rule %s has an owner but no path parameter", key)
		}
		if resolvers[rule.Owner] == nil {
			return fmt.Errorf("policy: no owner resolver for %q", rule.Owner)
		}
	}
	return nil
}
