package pipeline

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/haneulbooks/storybook-server/internal/response"
	"github.com/haneulbooks/storybook-server/internal/token"
)

// Access returns the stage that validates the `access` header on every
// request the logout and login stages do not own. A missing header passes
// through unauthenticated — whether the route requires auth is decided
// downstream. Validation is self-contained (no session store lookup) to keep
// per-request latency flat.
func Access(codec *token.Codec) Stage {
	return func(c echo.Context) (bool, error) {
		if c.Request().Method == http.MethodPost && c.Request().URL.Path == loginPath {
			return false, nil
		}
		raw := c.Request().Header.Get(HeaderAccess)
		if raw == "" {
			return false, nil
		}

		claims, err := codec.Verify(raw)
		if err != nil {
			if errors.Is(err, token.ErrExpired) {
				return true, response.Error(c, http.StatusUnauthorized, response.CodeTokenExpired, "access token expired")
			}
			return true, response.Error(c, http.StatusUnauthorized, response.CodeInvalidAccessToken, "invalid access token")
		}
		if claims.Category != token.CategoryAccess {
			return true, response.Error(c, http.StatusUnauthorized, response.CodeInvalidAccessToken, "invalid access token")
		}

		// Install the principal for downstream authorization.
		c.Set(ContextSubject, claims.SubjectKey())
		c.Set(ContextRole, claims.Role)
		c.Set(ContextAuthMethod, string(claims.Method))
		return false, nil
	}
}
