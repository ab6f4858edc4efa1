// Package repository persists identity records in MySQL and refresh-token
// session state in Redis. The sentinel errors declared here let the service
// and pipeline layers map each failure onto the right terminal HTTP response
// without inspecting driver errors.
package repository

import "errors"

// ErrUsernameExists is returned when registration collides with an existing
// username. Handlers translate it into 409 DUPLICATE_USERNAME.
var ErrUsernameExists = errors.New("username already exists")

// ErrUserNotFound is returned when no local user matches the given username.
var ErrUserNotFound = errors.New("user not found")

// ErrSocialUserNotFound is returned when no social user matches the given
// account id.
var ErrSocialUserNotFound = errors.New("social user not found")

// ErrNoSession is returned when the session store holds no live record for a
// subject key. The pipeline treats it as an already-expired session.
var ErrNoSession = errors.New("no session record")

// ErrNoState is returned when an OAuth2 state parameter is unknown or has
// already been consumed.
var ErrNoState = errors.New("no oauth state record")
