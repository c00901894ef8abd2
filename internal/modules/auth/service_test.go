package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/emberhollow/shop-api/internal/modules/audit"
	"github.com/emberhollow/shop-api/pkg/apperr"
)

type fakeUserRepo struct {
	users      map[string]*AdminUser
	resetToken string
	resetID    string
	lastLoginN int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*AdminUser{}}
}

func (f *fakeUserRepo) addUser(email, password string, role Role, active bool) *AdminUser {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	u := &AdminUser{
		ID:           uuid.New(),
		Email:        strings.ToLower(email),
		PasswordHash: string(hash),
		Name:         "Rowan Teller",
		Role:         role,
		Active:       active,
	}
	f.users[u.ID.String()] = u
	return u
}

func (f *fakeUserRepo) ListUsers(context.Context) ([]AdminUser, error) { return nil, nil }

func (f *fakeUserRepo) GetUserByID(_ context.Context, id string) (*AdminUser, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperr.NotFoundf("user not found")
	}
	return u, nil
}

func (f *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*AdminUser, error) {
	for _, u := range f.users {
		if u.Email == strings.ToLower(email) {
			return u, nil
		}
	}
	return nil, apperr.NotFoundf("user not found")
}

func (f *fakeUserRepo) CountUsers(context.Context) (int, error) { return len(f.users), nil }

func (f *fakeUserRepo) CreateUser(_ context.Context, u *AdminUser) error {
	u.ID = uuid.New()
	f.users[u.ID.String()] = u
	return nil
}

func (f *fakeUserRepo) UpdateUser(_ context.Context, u *AdminUser) error {
	f.users[u.ID.String()] = u
	return nil
}

func (f *fakeUserRepo) TouchLastLogin(_ context.Context, _ string) error {
	f.lastLoginN++
	return nil
}

func (f *fakeUserRepo) SetResetToken(_ context.Context, id, token string, _ time.Time) error {
	f.resetID = id
	f.resetToken = token
	return nil
}

func (f *fakeUserRepo) GetUserByResetToken(_ context.Context, token string) (*AdminUser, error) {
	if token != f.resetToken || f.resetToken == "" {
		return nil, apperr.NotFoundf("invalid or expired reset token")
	}
	return f.users[f.resetID], nil
}

func (f *fakeUserRepo) ClearResetToken(_ context.Context, id, passwordHash string) error {
	f.users[id].PasswordHash = passwordHash
	f.resetToken = ""
	return nil
}

func newAuthService(t *testing.T, repo *fakeUserRepo) *Service {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-signing-key")
	return NewService(repo, audit.Nop(), zap.NewNop())
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	repo := newFakeUserRepo()
	u := repo.addUser("owner@example.com", "hunter22!", RoleAdmin, true)
	svc := newAuthService(t, repo)

	token, got, err := svc.Login(context.Background(), "Owner@Example.com", "hunter22!")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, 1, repo.lastLoginN)

	claims, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID.String(), claims.Subject)
	assert.Equal(t, "Rowan Teller", claims.Name)
	assert.Equal(t, string(RoleAdmin), claims.Role)
	assert.Greater(t, claims.ExpiresAt, time.Now().Unix())
}

func TestLoginRejectsBadPassword(t *testing.T) {
	repo := newFakeUserRepo()
	repo.addUser("owner@example.com", "hunter22!", RoleAdmin, true)
	svc := newAuthService(t, repo)

	_, _, err := svc.Login(context.Background(), "owner@example.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, "invalid credentials", apperr.ClientMessage(err, ""))
}

func TestLoginUnknownEmailLooksLikeBadPassword(t *testing.T) {
	svc := newAuthService(t, newFakeUserRepo())

	_, _, err := svc.Login(context.Background(), "nobody@example.com", "whatever")
	require.Error(t, err)
	assert.Equal(t, "invalid credentials", apperr.ClientMessage(err, ""))
}

func TestLoginRejectsDisabledAccount(t *testing.T) {
	repo := newFakeUserRepo()
	repo.addUser("former@example.com", "hunter22!", RoleStaff, false)
	svc := newAuthService(t, repo)

	_, _, err := svc.Login(context.Background(), "former@example.com", "hunter22!")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disabled")
}

func TestVerifyTokenRejectsTampering(t *testing.T) {
	repo := newFakeUserRepo()
	repo.addUser("owner@example.com", "hunter22!", RoleAdmin, true)
	svc := newAuthService(t, repo)

	token, _, err := svc.Login(context.Background(), "owner@example.com", "hunter22!")
	require.NoError(t, err)

	_, err = svc.VerifyToken(token + "x")
	require.Error(t, err)

	_, err = svc.VerifyToken("not-a-token")
	require.Error(t, err)
}

func TestVerifyTokenRejectsWrongKey(t *testing.T) {
	repo := newFakeUserRepo()
	repo.addUser("owner@example.com", "hunter22!", RoleAdmin, true)

	t.Setenv("JWT_SECRET", "key-one")
	token, _, err := NewService(repo, audit.Nop(), zap.NewNop()).Login(context.Background(), "owner@example.com", "hunter22!")
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "key-two")
	_, err = NewService(repo, audit.Nop(), zap.NewNop()).VerifyToken(token)
	require.Error(t, err)
}

func TestBootstrapCreatesFirstAdmin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(t, repo)
	t.Setenv("ADMIN_EMAIL", "First@Example.com")
	t.Setenv("ADMIN_PASSWORD", "bootstrap-pass")

	require.NoError(t, svc.Bootstrap(context.Background()))

	u, err := repo.GetUserByEmail(context.Background(), "first@example.com")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, u.Role)
	assert.True(t, u.Active)

	// Second run is a no-op once any account exists.
	require.NoError(t, svc.Bootstrap(context.Background()))
	assert.Len(t, repo.users, 1)
}

func TestCreateUserValidation(t *testing.T) {
	svc := newAuthService(t, newFakeUserRepo())

	_, err := svc.CreateUser(context.Background(), UserInput{Email: "nope", Password: "longenough"})
	require.Error(t, err)

	_, err = svc.CreateUser(context.Background(), UserInput{Email: "a@b.com", Password: "short"})
	require.Error(t, err)

	_, err = svc.CreateUser(context.Background(), UserInput{Email: "a@b.com", Password: "longenough", Role: "OVERLORD"})
	require.Error(t, err)

	u, err := svc.CreateUser(context.Background(), UserInput{Email: "A@B.com", Password: "longenough"})
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", u.Email)
	assert.Equal(t, RoleStaff, u.Role)
}

func TestPasswordResetRoundTrip(t *testing.T) {
	repo := newFakeUserRepo()
	repo.addUser("owner@example.com", "hunter22!", RoleAdmin, true)
	svc := newAuthService(t, repo)

	token, err := svc.RequestPasswordReset(context.Background(), "owner@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	require.Error(t, svc.ResetPassword(context.Background(), token, "short"))
	require.Error(t, svc.ResetPassword(context.Background(), "bogus-token", "new-password-1"))

	require.NoError(t, svc.ResetPassword(context.Background(), token, "new-password-1"))

	_, _, err = svc.Login(context.Background(), "owner@example.com", "hunter22!")
	require.Error(t, err)
	_, _, err = svc.Login(context.Background(), "owner@example.com", "new-password-1")
	require.NoError(t, err)
}

func TestRequireAdmin(t *testing.T) {
	repo := newFakeUserRepo()
	repo.addUser("owner@example.com", "hunter22!", RoleAdmin, true)
	svc := newAuthService(t, repo)
	t.Setenv("ADMIN_TOKEN", "static-service-token")

	var author string
	guarded := svc.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		author = audit.Author(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	token, _, err := svc.Login(context.Background(), "owner@example.com", "hunter22!")
	require.NoError(t, err)

	// Bearer token from Login.
	req := httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	guarded.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "Rowan Teller", author)

	// Static service token.
	req = httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)
	req.Header.Set("X-Admin-Token", "static-service-token")
	rec = httptest.NewRecorder()
	guarded.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "Service", author)

	// No credentials.
	req = httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)
	rec = httptest.NewRecorder()
	guarded.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Garbage bearer token.
	req = httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec = httptest.NewRecorder()
	guarded.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
