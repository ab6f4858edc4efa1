// Package model declares the identity records persisted in MySQL. The two
// variants share one subject-key space in tokens and session lookups:
// usernames for local accounts, provider-qualified account ids for social
// accounts. Callers always carry the authentication-method tag needed to
// tell them apart, so the two keyspaces never collide.
package model

import "time"

// Role names stored on identity rows and embedded in tokens.
const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

// User is a local (password) account, one row in the `users` table. The
// subject key of a local user is its username.
type User struct {
	ID           uint64    // users.id
	Username     string    // users.username (unique)
	PasswordHash string    // users.password_hash (bcrypt)
	Role         string    // users.role
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// SocialUser is an OAuth2 account, one row in the `social_users` table. The
// subject key is AccountID, built as "<provider>_<provider user id>". The
// row is upserted on every successful handshake: display name and email
// follow the provider, the role is preserved across updates.
type SocialUser struct {
	ID          uint64    // social_users.id
	AccountID   string    // social_users.account_id (unique)
	Provider    string    // social_users.provider
	DisplayName string    // social_users.display_name
	Email       string    // social_users.email
	Role        string    // social_users.role
	CreatedAt   time.Time // social_users.created_at
	UpdatedAt   time.Time // social_users.updated_at
}
