// Package queue publishes and consumes auth lifecycle events over RabbitMQ.
// Events are informational (audit trail, analytics); nothing in the request
// path depends on them being delivered.
package queue

// Event types carried in AuthEvent.Type.
const (
	EventLogin    = "login"
	EventReissue  = "reissue"
	EventLogout   = "logout"
	EventRegister = "register"
)

// AuthEvent is published on every successful login, reissue, logout and
// registration. It carries enough for downstream consumers to log or count
// without querying the identity store.
type AuthEvent struct {
	Type       string `json:"type"`
	SubjectKey string `json:"subject_key"`
	AuthMethod string `json:"auth_method"`
	OccurredAt string `json:"occurred_at"`
}
