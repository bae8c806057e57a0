package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/user-admin/internal/core/domain"
	"github.com/99minutos/user-admin/internal/infrastructure/db/memory"
)

type stubLimiter struct {
	blocked    bool
	blockedErr error
	failures   []string
	resets     []string
}

func (l *stubLimiter) Blocked(_ context.Context, username string) (bool, error) {
	return l.blocked, l.blockedErr
}

func (l *stubLimiter) RegisterFailure(_ context.Context, username string) error {
	l.failures = append(l.failures, username)
	return nil
}

func (l *stubLimiter) Reset(_ context.Context, username string) error {
	l.resets = append(l.resets, username)
	return nil
}

func newAuthSvc(limiter *stubLimiter) (*AuthService, *memory.AdminRepository) {
	repo := memory.NewAdminRepository()
	if limiter == nil {
		return NewAuthService(repo, nil, "secret", time.Hour, zerolog.Nop()), repo
	}
	return NewAuthService(repo, limiter, "secret", time.Hour, zerolog.Nop()), repo
}

func TestAuthService_Register_HashesPassword(t *testing.T) {
	svc, repo := newAuthSvc(nil)

	if err := svc.Register(context.Background(), "alice", "pass123", "uid-alice"); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	acc, err := repo.FindByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("account not stored: %v", err)
	}
	if acc.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if acc.UID != "uid-alice" {
		t.Fatalf("unexpected uid: %s", acc.UID)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc, _ := newAuthSvc(nil)

	if err := svc.Register(context.Background(), "", "pass", ""); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	limiter := &stubLimiter{}
	svc, _ := newAuthSvc(limiter)
	ctx := context.Background()

	if err := svc.Register(ctx, "carol", "s3cret", "uid-carol"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	res, err := svc.Login(ctx, "carol", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if res.UID != "uid-carol" {
		t.Fatalf("unexpected uid: %s", res.UID)
	}
	if res.Token == "" {
		t.Fatalf("expected token, got empty")
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(res.Token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["role"] != domain.RoleAdmin {
		t.Fatalf("expected role %s, got %v", domain.RoleAdmin, claims["role"])
	}
	if claims["sub"] != "uid-carol" {
		t.Fatalf("expected sub uid-carol, got %v", claims["sub"])
	}
	if len(limiter.resets) != 1 {
		t.Fatalf("expected limiter reset after success")
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	limiter := &stubLimiter{}
	svc, _ := newAuthSvc(limiter)

	_ = svc.Register(context.Background(), "dave", "goodpass", "")
	if _, err := svc.Login(context.Background(), "dave", "badpass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if len(limiter.failures) != 1 || limiter.failures[0] != "dave" {
		t.Fatalf("expected failure recorded, got %v", limiter.failures)
	}
}

func TestAuthService_Login_UnknownUserLooksLikeBadPassword(t *testing.T) {
	svc, _ := newAuthSvc(&stubLimiter{})

	if _, err := svc.Login(context.Background(), "ghost", "pass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_MissingFields(t *testing.T) {
	svc, _ := newAuthSvc(nil)

	_, err := svc.Login(context.Background(), "carol", "")
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAuthService_Login_Throttled(t *testing.T) {
	svc, _ := newAuthSvc(&stubLimiter{blocked: true})
	_ = svc.Register(context.Background(), "erin", "pw", "")

	if _, err := svc.Login(context.Background(), "erin", "pw"); err != domain.ErrTooManyAttempts {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
}

func TestAuthService_Login_LimiterDownFailsOpen(t *testing.T) {
	svc, _ := newAuthSvc(&stubLimiter{blockedErr: errors.New("redis down")})
	_ = svc.Register(context.Background(), "frank", "pw", "")

	if _, err := svc.Login(context.Background(), "frank", "pw"); err != nil {
		t.Fatalf("expected login to proceed without limiter, got %v", err)
	}
}
