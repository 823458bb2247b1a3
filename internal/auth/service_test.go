package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgauth "github.com/karyatex/konveksi-backend/pkg/auth"
	"github.com/karyatex/konveksi-backend/pkg/auth/session"
	"github.com/karyatex/konveksi-backend/pkg/config"
	"github.com/karyatex/konveksi-backend/pkg/db/models"
	"github.com/karyatex/konveksi-backend/pkg/enums"
	pkgerrors "github.com/karyatex/konveksi-backend/pkg/errors"
	"github.com/karyatex/konveksi-backend/pkg/security"
)

type fakeUserRepo struct {
	byID      map[uuid.UUID]*models.User
	lastLogin map[uuid.UUID]time.Time
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:      make(map[uuid.UUID]*models.User),
		lastLogin: make(map[uuid.UUID]time.Time),
	}
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range f.byID {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := f.byID[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) UpdateLastLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	f.lastLogin[id] = at
	return nil
}

// fakeSessions mirrors the Redis-backed manager: one refresh token per access
// ID, rotation replaces the pair.
type fakeSessions struct {
	tokens map[string]string
	serial int
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{tokens: make(map[string]string)}
}

func (f *fakeSessions) Generate(_ context.Context, accessID string) (string, error) {
	f.serial++
	token := uuid.NewString()
	f.tokens[accessID] = token
	return token, nil
}

func (f *fakeSessions) Rotate(_ context.Context, oldAccessID, provided string) (string, string, error) {
	stored, ok := f.tokens[oldAccessID]
	if !ok || stored != provided {
		return "", "", session.ErrInvalidRefreshToken
	}
	delete(f.tokens, oldAccessID)
	newAccessID := session.NewAccessID()
	newToken := uuid.NewString()
	f.tokens[newAccessID] = newToken
	return newAccessID, newToken, nil
}

func (f *fakeSessions) Revoke(_ context.Context, accessID string) error {
	delete(f.tokens, accessID)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:                 "test-secret",
		Issuer:                 "konveksi-test",
		ExpirationMinutes:      15,
		RefreshTokenTTLMinutes: 60,
	}
}

func seedUser(t *testing.T, repo *fakeUserRepo, email, password string, role enums.StaffRole, active bool) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     8,
		ArgonKeyLen:      16,
	})
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		FullName:     "Test Staff",
		Role:         role,
		IsActive:     active,
	}
	repo.byID[user.ID] = user
	return user
}

func newTestAuthService(t *testing.T) (Service, *fakeUserRepo, *fakeSessions) {
	t.Helper()
	repo := newFakeUserRepo()
	sessions := newFakeSessions()
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: sessions,
		JWTConfig:      testJWTConfig(),
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, repo, sessions
}

func TestLoginIssuesTokenPair(t *testing.T) {
	svc, repo, sessions := newTestAuthService(t)
	user := seedUser(t, repo, "dewi@karyatex.id", "rahasia-123", enums.StaffRoleCS, true)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    " Dewi@Karyatex.ID ",
		Password: "rahasia-123",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.UserID != user.ID || claims.Role != enums.StaffRoleCS {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if stored := sessions.tokens[claims.ID]; stored != resp.RefreshToken {
		t.Fatalf("refresh token not stored under jti %q", claims.ID)
	}
	if _, ok := repo.lastLogin[user.ID]; !ok {
		t.Fatal("last login not stamped")
	}
	if resp.User == nil || resp.User.ID != user.ID {
		t.Fatalf("unexpected user payload %+v", resp.User)
	}
}

func TestLoginRejections(t *testing.T) {
	svc, repo, _ := newTestAuthService(t)
	seedUser(t, repo, "dewi@karyatex.id", "rahasia-123", enums.StaffRoleCS, true)
	seedUser(t, repo, "inactive@karyatex.id", "rahasia-123", enums.StaffRoleCS, false)

	cases := map[string]LoginRequest{
		"unknown email": {Email: "nobody@karyatex.id", Password: "rahasia-123"},
		"bad password":  {Email: "dewi@karyatex.id", Password: "salah"},
		"inactive user": {Email: "inactive@karyatex.id", Password: "rahasia-123"},
		"blank email":   {Password: "rahasia-123"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), req)
			appErr := pkgerrors.As(err)
			if appErr == nil || appErr.Code() != pkgerrors.CodeUnauthorized {
				t.Fatalf("expected unauthorized, got %v", err)
			}
			if appErr.Message() != invalidCredentialsMessage {
				t.Fatalf("message leaks detail: %q", appErr.Message())
			}
		})
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	svc, repo, sessions := newTestAuthService(t)
	user := seedUser(t, repo, "dewi@karyatex.id", "rahasia-123", enums.StaffRoleCS, true)

	login, err := svc.Login(context.Background(), LoginRequest{Email: "dewi@karyatex.id", Password: "rahasia-123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	// Role changes between login and refresh must show up in the new token.
	user.Role = enums.StaffRoleLeader

	refreshed, err := svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), refreshed.AccessToken)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.Role != enums.StaffRoleLeader {
		t.Fatalf("role = %s, want refreshed leader role", claims.Role)
	}
	if sessions.tokens[claims.ID] != refreshed.RefreshToken {
		t.Fatal("new refresh token not stored under new jti")
	}

	// The old pair is spent.
	_, err = svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for spent session, got %v", err)
	}
}

func TestRefreshRejectsDeactivatedUser(t *testing.T) {
	svc, repo, _ := newTestAuthService(t)
	user := seedUser(t, repo, "dewi@karyatex.id", "rahasia-123", enums.StaffRoleCS, true)

	login, err := svc.Login(context.Background(), LoginRequest{Email: "dewi@karyatex.id", Password: "rahasia-123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	user.IsActive = false
	_, err = svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, repo, sessions := newTestAuthService(t)
	seedUser(t, repo, "dewi@karyatex.id", "rahasia-123", enums.StaffRoleCS, true)

	login, err := svc.Login(context.Background(), LoginRequest{Email: "dewi@karyatex.id", Password: "rahasia-123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := svc.Logout(context.Background(), LogoutRequest{AccessToken: login.AccessToken}); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if len(sessions.tokens) != 0 {
		t.Fatal("session not revoked")
	}

	_, err = svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized after logout, got %v", err)
	}
}
