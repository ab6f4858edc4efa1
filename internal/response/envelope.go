// Package response defines the JSON envelope shared by every auth endpoint.
// Successful responses carry a data payload; error responses carry only a
// stable machine-readable code and a human-readable message, never stack
// traces or internal identifiers.
package response

import "github.com/labstack/echo/v4"

// Stable codes returned in the envelope. Clients are expected to switch on
// these rather than on the message text, which may change.
const (
	CodeOK                 = "OK"
	CodeTokenMissing       = "TOKEN_MISSING"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeInvalidAccessToken = "INVALID_ACCESS_TOKEN"
	CodeRequestParsing     = "REQUEST_PARSING"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeSocialUserNotFound = "SOCIAL_USER_NOT_FOUND"
	CodeDuplicateUsername  = "DUPLICATE_USERNAME"
	CodeInternal           = "INTERNAL_ERROR"
)

// Envelope is the body shape of auth responses.
type Envelope struct {
	Status  int         `json:"status"`
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// OK writes a 200 envelope with the given message and payload. Pass nil data
// for message-only responses such as logout.
func OK(c echo.Context, message string, data interface{}) error {
	return c.JSON(200, Envelope{Status: 200, Code: CodeOK, Message: message, Data: data})
}

// Created writes a 201 envelope, used by registration.
func Created(c echo.Context, message string, data interface{}) error {
	return c.JSON(201, Envelope{Status: 201, Code: CodeOK, Message: message, Data: data})
}

// Error writes an error envelope with the given HTTP status and code. The
// data field is always omitted.
func Error(c echo.Context, status int, code, message string) error {
	return c.JSON(status, Envelope{Status: status, Code: code, Message: message})
}
