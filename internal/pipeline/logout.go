package pipeline

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/haneulbooks/storybook-server/internal/response"
	"github.com/haneulbooks/storybook-server/internal/service"
	"github.com/haneulbooks/storybook-server/internal/token"
)

const logoutPath = "/logout"

// logoutRequest names the subject being logged out. The token's auth method
// decides which field applies: username for local accounts, accountId for
// social ones.
type logoutRequest struct {
	Username  string `json:"username"`
	AccountID string `json:"accountId"`
}

// Logout returns the stage that intercepts POST /logout before any other
// processing. It requires a refresh token in the `refresh` header, checks
// its expiry and category, confirms a live session record and deletes it. A
// missing record means the session already ended and answers 401 the same
// way an expired token does.
func Logout(codec *token.Codec, svc *service.TokenService) Stage {
	return func(c echo.Context) (bool, error) {
		if c.Request().Method != http.MethodPost || c.Request().URL.Path != logoutPath {
			return false, nil
		}

		raw := c.Request().Header.Get(HeaderRefresh)
		if raw == "" {
			return true, response.Error(c, http.StatusBadRequest, response.CodeTokenMissing, "refresh token header missing")
		}

		// Peek first: any non-refresh token is invalid here, expired or not,
		// so the category check must come before expiry enforcement.
		claims, err := codec.Peek(raw)
		if err != nil {
			return true, response.Error(c, http.StatusUnauthorized, response.CodeInvalidAccessToken, "invalid token")
		}
		if claims.Category != token.CategoryRefresh {
			return true, response.Error(c, http.StatusUnauthorized, response.CodeInvalidAccessToken, "invalid token")
		}
		if _, err := codec.Verify(raw); err != nil {
			if errors.Is(err, token.ErrExpired) {
				return true, response.Error(c, http.StatusUnauthorized, response.CodeTokenExpired, "refresh token expired")
			}
			return true, response.Error(c, http.StatusUnauthorized, response.CodeInvalidAccessToken, "invalid token")
		}

		var req logoutRequest
		_ = c.Bind(&req)
		subjectKey := req.Username
		if claims.Method == token.MethodSocial {
			subjectKey = req.AccountID
		}

		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()

		if err := svc.Logout(ctx, subjectKey, claims.Method); err != nil {
			if errors.Is(err, service.ErrSessionExpired) {
				return true, response.Error(c, http.StatusUnauthorized, response.CodeTokenExpired, "session already expired")
			}
			return true, response.Error(c, http.StatusInternalServerError, response.CodeInternal, "logout failed")
		}
		return true, response.OK(c, "logout success", nil)
	}
}
