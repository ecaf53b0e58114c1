package auth

import (
	"context"
	"testing"
	"time"

	pkgAuth "github.com/ecoswap/ecoswap-backend/pkg/auth"
	"github.com/ecoswap/ecoswap-backend/pkg/auth/session"
	"github.com/ecoswap/ecoswap-backend/pkg/config"
	"github.com/ecoswap/ecoswap-backend/pkg/db/models"
	pkgerrors "github.com/ecoswap/ecoswap-backend/pkg/errors"
	"github.com/ecoswap/ecoswap-backend/pkg/security"
	"github.com/google/uuid"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "secret",
		Issuer:            "ecoswap",
		ExpirationMinutes: 30,
	}
}

func TestServiceLoginSuccess(t *testing.T) {
	password := "swap-secret"
	user := &models.User{
		ID:           uuid.New(),
		Name:         "Login User",
		Email:        "login@example.com",
		PasswordHash: mustHashPassword(t, password),
		IsActive:     true,
	}
	cfg := testJWTConfig()

	svc, _, err := buildTestService(user, cfg)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: password,
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(cfg, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("expected user id claim %s, got %s", user.ID, claims.UserID)
	}
	if resp.RefreshToken == "" {
		t.Fatal("expected refresh token to be set")
	}
	if resp.User == nil || resp.User.LastLoginAt == nil {
		t.Fatal("expected last login to be recorded")
	}
}

func TestServiceLoginWrongPassword(t *testing.T) {
	user := &models.User{
		ID:           uuid.New(),
		Name:         "Login User",
		Email:        "login@example.com",
		PasswordHash: mustHashPassword(t, "right-password"),
		IsActive:     true,
	}

	svc, _, err := buildTestService(user, testJWTConfig())
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: "wrong-password",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestServiceLoginInactiveUser(t *testing.T) {
	password := "inactive-secret"
	user := &models.User{
		ID:           uuid.New(),
		Name:         "Dormant User",
		Email:        "dormant@example.com",
		PasswordHash: mustHashPassword(t, password),
		IsActive:     false,
	}

	svc, _, err := buildTestService(user, testJWTConfig())
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: password,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestServiceRefreshRotatesSession(t *testing.T) {
	cfg := testJWTConfig()
	userID := uuid.New()
	oldAccessID := session.NewAccessID()

	oldToken, err := pkgAuth.MintAccessToken(cfg, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: userID,
		JTI:    oldAccessID,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	sessionMgr := &stubSessionManager{
		refreshToken:    "old-refresh",
		rotatedAccessID: "new-access-id",
		rotatedToken:    "new-refresh",
	}
	svc, err := NewService(ServiceParams{
		UserRepo:       stubUserRepo{},
		SessionManager: sessionMgr,
		JWTConfig:      cfg,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	resp, err := svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  oldToken,
		RefreshToken: "old-refresh",
	})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if resp.RefreshToken != "new-refresh" {
		t.Fatalf("expected rotated refresh token, got %q", resp.RefreshToken)
	}
	if sessionMgr.rotatedFrom != oldAccessID {
		t.Fatalf("expected rotation keyed by %s, got %s", oldAccessID, sessionMgr.rotatedFrom)
	}

	claims, err := pkgAuth.ParseAccessToken(cfg, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse rotated token: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("rotated token lost user id")
	}
	if claims.ID != "new-access-id" {
		t.Fatalf("expected new jti, got %s", claims.ID)
	}
}

func TestServiceRefreshInvalidToken(t *testing.T) {
	cfg := testJWTConfig()
	oldToken, err := pkgAuth.MintAccessToken(cfg, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		JTI:    "jti",
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	svc, err := NewService(ServiceParams{
		UserRepo:       stubUserRepo{},
		SessionManager: &stubSessionManager{rotateErr: session.ErrInvalidRefreshToken},
		JWTConfig:      cfg,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  oldToken,
		RefreshToken: "stale",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func buildTestService(user *models.User, jwtCfg config.JWTConfig) (Service, *stubSessionManager, error) {
	sessionMgr := &stubSessionManager{refreshToken: "refresh-token"}
	svc, err := NewService(ServiceParams{
		UserRepo:       stubUserRepo{user: user},
		SessionManager: sessionMgr,
		JWTConfig:      jwtCfg,
	})
	return svc, sessionMgr, err
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

type stubUserRepo struct {
	user *models.User
	err  error
}

func (s stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

func (s stubUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	if s.user != nil && s.user.ID == id {
		s.user.LastLoginAt = &at
	}
	return nil
}

type stubSessionManager struct {
	refreshToken    string
	rotatedAccessID string
	rotatedToken    string
	rotatedFrom     string
	rotateErr       error
	revoked         []string
}

func (s *stubSessionManager) Generate(ctx context.Context, accessID string) (string, error) {
	return s.refreshToken, nil
}

func (s *stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	if s.rotateErr != nil {
		return "", "", s.rotateErr
	}
	s.rotatedFrom = oldAccessID
	return s.rotatedAccessID, s.rotatedToken, nil
}

func (s *stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	return nil
}
