// Package pipeline implements the ordered request-filtering stages that
// guard every route: logout interception, access-token validation and
// credential login. Each stage either lets the request pass to the next
// stage or writes a terminal response and stops the chain — a plain
// short-circuiting list, not a middleware-per-concern stack.
package pipeline

import "github.com/labstack/echo/v4"

// Header names the clients exchange tokens through.
const (
	HeaderAccess  = "access"
	HeaderRefresh = "refresh"
)

// Context keys under which the access stage installs the authenticated
// principal for downstream authorization.
const (
	ContextSubject    = "subject"
	ContextRole       = "role"
	ContextAuthMethod = "auth_method"
)

// Stage inspects one request. halted=true means a terminal response has been
// written and no further stage or handler runs.
type Stage func(c echo.Context) (halted bool, err error)

// Chain runs the stages in registration order as a single Echo middleware.
func Chain(stages ...Stage) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			for _, stage := range stages {
				halted, err := stage(c)
				if err != nil {
					return err
				}
				if halted {
					return nil
				}
			}
			return next(c)
		}
	}
}

// Terminal is the handler bound to routes the pipeline owns (/login,
// /logout). The matching stage always halts the chain first, so this only
// answers if the pipeline was not installed.
func Terminal(c echo.Context) error {
	return echo.ErrNotFound
}
