package ports

import (
	"context"
	"time"
)

// LoginResult is returned by a successful admin login.
type LoginResult struct {
	UID       string
	Token     string
	ExpiresAt time.Time
}

// AuthService authenticates operators of the admin panel.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	// Register creates or resets an operator account.
	Register(ctx context.Context, username, password, uid string) error
}

// LoginLimiter throttles repeated failed logins per username.
type LoginLimiter interface {
	Blocked(ctx context.Context, username string) (bool, error)
	RegisterFailure(ctx context.Context, username string) error
	Reset(ctx context.Context, username string) error
}
