package policy

import (
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"

	apperrors "jobboard/internal/errors"
	"jobboard/internal/model"
)

// CallerKey is the echo context key holding the authenticated *model.User.
const CallerKey = "caller"

// CallerFrom returns the authenticated user stored on the context, or nil.
func CallerFrom(c echo.Context) *model.User {
	caller, _ := c.Get(CallerKey).(*model.User)
	return caller
}

// Authorizer evaluates a rule table against matched routes.
type Authorizer struct {
	rules     map[string]Rule
	resolvers map[Resource]OwnerResolver
}

// NewAuthorizer builds an Authorizer from rules. Every rule with an Owner
// needs a resolver for that resource.
func NewAuthorizer(rules []Rule, resolvers map[Resource]OwnerResolver) (*Authorizer, error) {
	if err := validate(rules, resolvers); err != nil {
		return nil, err
	}
	byRoute := make(map[string]Rule, len(rules))
	for _, rule := range rules {
		byRoute[routeKey(rule.Method, rule.Path)] = rule
	}
	return &Authorizer{rules: byRoute, resolvers: resolvers}, nil
}

// Protected reports whether method and the route pattern path need a caller.
func (a *Authorizer) Protected(method, path string) bool {
	_, ok := a.rules[routeKey(method, path)]
	return ok
}

// Middleware enforces the table. It must run after routing (group or route
// middleware) so that c.Path() holds the matched pattern, and after the
// bearer token middleware has stored the caller under CallerKey.
func (a *Authorizer) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rule, ok := a.rules[routeKey(c.Request().Method, c.Path())]
			if !ok {
				return next(c)
			}

			caller := CallerFrom(c)
			if caller == nil {
				if hasBearerToken(c) {
					return apperrors.ErrInvalidToken
				}
				return apperrors.ErrNoToken
			}

			if !rule.Allows(caller.Role) {
				return apperrors.NewForbiddenError(fmt.Sprintf("User role '%s' is not authorized to access this route", caller.Role))
			}

			if rule.Owner != "" {
				ownerID, err := a.resolvers[rule.Owner](c.Request().Context(), c.Param(rule.Param))
				if err != nil {
					return err
				}
				if ownerID != caller.ID {
					return apperrors.NewForbiddenError(rule.Denial)
				}
			}

			return next(c)
		}
	}
}

func hasBearerToken(c echo.Context) bool {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return false
	}
	return strings.TrimSpace(header[len(prefix):]) != ""
}
