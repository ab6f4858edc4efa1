// Package handler implements the HTTP endpoints that are not pipeline
// stages: registration, token reissue, the OAuth2 handshake and the sample
// protected route.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/haneulbooks/storybook-server/internal/model"
	"github.com/haneulbooks/storybook-server/internal/pipeline"
	"github.com/haneulbooks/storybook-server/internal/repository"
	"github.com/haneulbooks/storybook-server/internal/response"
	"github.com/haneulbooks/storybook-server/internal/service"
	"github.com/haneulbooks/storybook-server/internal/token"
)

// UserRegistry is the slice of the user repository that registration needs.
type UserRegistry interface {
	Create(ctx context.Context, username, password, role string, cost int) (uint64, error)
}

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
	Users      UserRegistry
	Svc        *service.TokenService
	BcryptCost int
}

func NewAuthHandler(users UserRegistry, svc *service.TokenService, bcryptCost int) *AuthHandler {
	return &AuthHandler{Users: users, Svc: svc, BcryptCost: bcryptCost}
}

type joinRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type joinData struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// reissueData is the user-facing DTO returned alongside the rotated pair.
// The new tokens travel in the `access` and `refresh` response headers.
type reissueData struct {
	ID           uint64 `json:"id"`
	Username     string `json:"username"`
	Role         string `json:"role"`
	AuthMethod   string `json:"authMethod"`
	RefreshToken string `json:"refreshToken"`
}

// Join registers a local account. Registration sits outside the token core
// but shares its envelope; a username collision answers 409
// DUPLICATE_USERNAME.
func (h *AuthHandler) Join(c echo.Context) error {
	var req joinRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, response.CodeRequestParsing, "invalid request body")
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return response.Error(c, http.StatusBadRequest, response.CodeRequestParsing, "username and password required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Users.Create(ctx, req.Username, req.Password, model.RoleUser, h.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrUsernameExists) {
			return response.Error(c, http.StatusConflict, response.CodeDuplicateUsername, "username already exists")
		}
		return response.Error(c, http.StatusInternalServerError, response.CodeInternal, "registration failed")
	}
	h.Svc.NotifyRegistered(ctx, req.Username)
	return response.Created(c, "registration success", joinData{ID: id, Username: req.Username, Role: model.RoleUser})
}

// Reissue rotates a refresh token. The token arrives in the `refresh`
// header, or in the `refresh` cookie set by the OAuth2 callback; the body
// names the subject (username for local, accountId for social).
func (h *AuthHandler) Reissue(c echo.Context) error {
	refreshToken := c.Request().Header.Get(pipeline.HeaderRefresh)
	if refreshToken == "" {
		if cookie, err := c.Cookie(pipeline.HeaderRefresh); err == nil {
			refreshToken = cookie.Value
		}
	}

	var req service.ReissueRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, response.CodeRequestParsing, "invalid request body")
	}
	if req.Username == "" && req.AccountID == "" {
		return response.Error(c, http.StatusBadRequest, response.CodeRequestParsing, "username or accountId required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	pair, ident, err := h.Svc.Reissue(ctx, refreshToken, req)
	if err != nil {
		return reissueError(c, err)
	}

	c.Response().Header().Set(pipeline.HeaderAccess, pair.Access)
	c.Response().Header().Set(pipeline.HeaderRefresh, pair.Refresh)
	return response.OK(c, "reissue success", reissueData{
		ID:           ident.ID,
		Username:     ident.DisplayName,
		Role:         ident.Role,
		AuthMethod:   string(ident.Method),
		RefreshToken: pair.Refresh,
	})
}

// reissueError maps every lifecycle failure onto its terminal response.
func reissueError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrMissingRefreshToken), errors.Is(err, service.ErrMissingSubject):
		return response.Error(c, http.StatusBadRequest, response.CodeRequestParsing, "refresh token and subject required")
	case errors.Is(err, token.ErrExpired), errors.Is(err, service.ErrSessionExpired):
		return response.Error(c, http.StatusUnauthorized, response.CodeTokenExpired, "refresh token expired")
	case errors.Is(err, token.ErrMalformed), errors.Is(err, service.ErrWrongCategory):
		return response.Error(c, http.StatusUnauthorized, response.CodeInvalidAccessToken, "invalid token")
	case errors.Is(err, repository.ErrUserNotFound):
		return response.Error(c, http.StatusNotFound, response.CodeUserNotFound, "user not found")
	case errors.Is(err, repository.ErrSocialUserNotFound):
		return response.Error(c, http.StatusNotFound, response.CodeSocialUserNotFound, "social user not found")
	default:
		return response.Error(c, http.StatusInternalServerError, response.CodeInternal, "reissue failed")
	}
}

// Me returns the authenticated principal installed by the access stage.
func (h *AuthHandler) Me(c echo.Context) error {
	return response.OK(c, "me", map[string]interface{}{
		"subject": c.Get(pipeline.ContextSubject),
		"role":    c.Get(pipeline.ContextRole),
		"method":  c.Get(pipeline.ContextAuthMethod),
	})
}
