// Package middleware provides shared request processing applied around the
// auth pipeline: role-based authorization and rate limiting.
package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/haneulbooks/storybook-server/internal/response"
)

// RequireRole enforces that the authenticated principal carries one of the
// given roles. It expects the access stage of the pipeline to have stored
// the role under "role"; a request that passed through unauthenticated has
// no role and is rejected.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get("role").(string)
			if !ok || role == "" {
				return response.Error(c, http.StatusUnauthorized, response.CodeInvalidAccessToken, "authentication required")
			}
			if !allowed[role] {
				return response.Error(c, http.StatusForbidden, response.CodeInvalidAccessToken, "forbidden")
			}
			return next(c)
		}
	}
}
