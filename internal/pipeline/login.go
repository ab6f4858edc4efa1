package pipeline

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/haneulbooks/storybook-server/internal/response"
	"github.com/haneulbooks/storybook-server/internal/service"
)

const loginPath = "/login"

// loginData is the success payload: the refresh token travels in the body so
// the client can store it, the access token in the `access` response header.
type loginData struct {
	ID           uint64 `json:"id"`
	Username     string `json:"username"`
	Role         string `json:"role"`
	RefreshToken string `json:"refreshToken"`
}

// Login returns the stage that handles POST /login. Credentials arrive
// form-encoded; any authentication failure answers 401 with an empty body so
// usernames cannot be enumerated.
func Login(svc *service.TokenService) Stage {
	return func(c echo.Context) (bool, error) {
		if c.Request().Method != http.MethodPost || c.Request().URL.Path != loginPath {
			return false, nil
		}

		username := c.FormValue("username")
		password := c.FormValue("password")
		if username == "" || password == "" {
			return true, c.NoContent(http.StatusUnauthorized)
		}

		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()

		pair, u, err := svc.Login(ctx, username, password)
		if err != nil {
			if errors.Is(err, service.ErrInvalidCredentials) {
				return true, c.NoContent(http.StatusUnauthorized)
			}
			return true, response.Error(c, http.StatusInternalServerError, response.CodeInternal, "login failed")
		}

		c.Response().Header().Set(HeaderAccess, pair.Access)
		return true, response.OK(c, "login success", loginData{
			ID:           u.ID,
			Username:     u.Username,
			Role:         u.Role,
			RefreshToken: pair.Refresh,
		})
	}
}
