package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/haneulbooks/storybook-server/internal/model"
)

// SocialUserRepo reads and writes OAuth2 accounts in the `social_users`
// table, keyed by the provider-qualified account id.
type SocialUserRepo struct{ DB *sql.DB }

func NewSocialUserRepo(db *sql.DB) *SocialUserRepo { return &SocialUserRepo{DB: db} }

// GetByAccountID fetches a social user by its subject key.
func (r *SocialUserRepo) GetByAccountID(ctx context.Context, accountID string) (model.SocialUser, error) {
	var u model.SocialUser
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,account_id,provider,display_name,email,role,created_at,updated_at FROM social_users WHERE account_id=? LIMIT 1",
		accountID).
		Scan(&u.ID, &u.AccountID, &u.Provider, &u.DisplayName, &u.Email, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.SocialUser{}, ErrSocialUserNotFound
	}
	return u, err
}

// Upsert creates the social user on first login and refreshes display name
// and email on every later one. The role column is deliberately left out of
// the UPDATE so a role change made elsewhere survives repeat logins.
func (r *SocialUserRepo) Upsert(ctx context.Context, provider, accountID, displayName, email string) (model.SocialUser, error) {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO social_users (account_id, provider, display_name, email, role)
		 VALUES (?,?,?,?,?)
		 ON DUPLICATE KEY UPDATE display_name=VALUES(display_name), email=VALUES(email)`,
		accountID, provider, displayName, email, model.RoleUser)
	if err != nil {
		return model.SocialUser{}, err
	}
	return r.GetByAccountID(ctx, accountID)
}
