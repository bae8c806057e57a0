package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/user-admin/internal/core/domain"
	"github.com/99minutos/user-admin/internal/core/ports"
	"github.com/99minutos/user-admin/internal/metrics"
)

// AuthService implements operator login for the admin panel.
type AuthService struct {
	repo      ports.AdminRepository
	limiter   ports.LoginLimiter
	jwtSecret string
	tokenTTL  time.Duration
	now       Clock
	log       zerolog.Logger
}

func NewAuthService(repo ports.AdminRepository, limiter ports.LoginLimiter, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		repo:      repo,
		limiter:   limiter,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		now:       utcNow,
		log:       log,
	}
}

// Register hashes password and stores the operator account, replacing the
// credentials of an existing account with the same username.
func (s *AuthService) Register(ctx context.Context, username, password, uid string) error {
	if username == "" || password == "" {
		return domain.NewValidationError("Missing username or password")
	}
	if uid == "" {
		uid = username
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	if _, err := s.repo.Save(ctx, &domain.AdminAccount{
		Username:     username,
		PasswordHash: string(hash),
		UID:          uid,
		CreatedAt:    now,
		UpdatedAt:    now,
	}); err != nil {
		return fmt.Errorf("save admin account: %w", err)
	}
	return nil
}

// Login checks the operator credentials and issues a signed token. An unknown
// username and a wrong password produce the same error.
func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	if username == "" || password == "" {
		return nil, domain.NewValidationError("Missing username or password")
	}

	if s.limiter != nil {
		blocked, err := s.limiter.Blocked(ctx, username)
		if err != nil {
			s.log.Warn().Err(err).Str("username", username).Msg("login limiter unavailable, continuing")
		} else if blocked {
			metrics.LoginsTotal.WithLabelValues("throttled").Inc()
			return nil, domain.ErrTooManyAttempts
		}
	}

	account, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.fail(ctx, username)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find admin account: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		s.fail(ctx, username)
		return nil, domain.ErrInvalidCredentials
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, username); err != nil {
			s.log.Warn().Err(err).Str("username", username).Msg("failed to reset login limiter")
		}
	}

	expiresAt := s.now().Add(s.tokenTTL)
	token, err := s.generateToken(account, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.log.Info().Str("username", username).Str("uid", account.UID).Msg("admin logged in")

	return &ports.LoginResult{UID: account.UID, Token: token, ExpiresAt: expiresAt}, nil
}

func (s *AuthService) fail(ctx context.Context, username string) {
	metrics.LoginsTotal.WithLabelValues("rejected").Inc()
	if s.limiter == nil {
		return
	}
	if err := s.limiter.RegisterFailure(ctx, username); err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("failed to record login failure")
	}
}

func (s *AuthService) generateToken(account *domain.AdminAccount, expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":      account.UID,
		"username": account.Username,
		"role":     domain.RoleAdmin,
		"exp":      expiresAt.Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
