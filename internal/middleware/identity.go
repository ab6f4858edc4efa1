package middleware

// identity.go holds helpers shared across middleware files. The auth
// pipeline stores the authenticated principal as plain strings in the Echo
// context; these helpers read them back with a guest fallback.

import "github.com/labstack/echo/v4"

// currentSubject returns the authenticated subject key, or "anon" when the
// request carried no valid access token.
func currentSubject(c echo.Context) string {
	if v := c.Get("subject"); v != nil {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return "anon"
}
