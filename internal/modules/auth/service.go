package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/emberhollow/shop-api/internal/modules/audit"
	"github.com/emberhollow/shop-api/pkg/apperr"
)

const (
	tokenTTL      = 24 * time.Hour
	resetTokenTTL = time.Hour
)

// Claims are the JWT payload issued at login. Name and Role ride along
// so the admin middleware can attribute actions without a DB read.
type Claims struct {
	Name string `json:"name"`
	Role string `json:"role"`
	jwt.StandardClaims
}

type Service struct {
	repo   Repository
	audit  audit.Recorder
	logger *zap.Logger
	jwtKey []byte
}

func NewService(repo Repository, rec audit.Recorder, logger *zap.Logger) *Service {
	key := os.Getenv("JWT_SECRET")
	if key == "" {
		key = "dev-only-secret"
	}
	return &Service{repo: repo, audit: rec, logger: logger, jwtKey: []byte(key)}
}

// Bootstrap creates the first admin account from ADMIN_EMAIL and
// ADMIN_PASSWORD when the table is empty, so a fresh install can log in.
func (s *Service) Bootstrap(ctx context.Context) error {
	n, err := s.repo.CountUsers(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		s.logger.Warn("no admin users exist and ADMIN_EMAIL/ADMIN_PASSWORD are unset")
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash bootstrap password: %w", err)
	}
	u := &AdminUser{
		Email:        strings.ToLower(email),
		PasswordHash: string(hash),
		Name:         "Admin",
		Role:         RoleAdmin,
		Active:       true,
	}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		return err
	}
	s.logger.Info("bootstrapped initial admin account", zap.String("email", u.Email))
	return nil
}

// Login verifies credentials and issues a signed token.
func (s *Service) Login(ctx context.Context, email, password string) (string, *AdminUser, error) {
	u, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if apperr.IsKind(err, apperr.NotFound) {
			return "", nil, apperr.Validationf("invalid credentials")
		}
		return "", nil, err
	}
	if !u.Active {
		return "", nil, apperr.Validationf("account is disabled")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", nil, apperr.Validationf("invalid credentials")
	}

	claims := &Claims{
		Name: u.Name,
		Role: string(u.Role),
		StandardClaims: jwt.StandardClaims{
			Subject:   u.ID.String(),
			ExpiresAt: time.Now().Add(tokenTTL).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtKey)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}

	if err := s.repo.TouchLastLogin(ctx, u.ID.String()); err != nil {
		s.logger.Warn("failed to record last login", zap.Error(err))
	}
	return signed, u, nil
}

// VerifyToken parses and validates a signed token.
func (s *Service) VerifyToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtKey, nil
	})
	if err != nil || !token.Valid {
		return nil, apperr.Validationf("invalid token")
	}
	return claims, nil
}

func (s *Service) ListUsers(ctx context.Context) ([]AdminUser, error) {
	return s.repo.ListUsers(ctx)
}

func (s *Service) CreateUser(ctx context.Context, in UserInput) (*AdminUser, error) {
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		return nil, apperr.Validationf("a valid email is required")
	}
	if len(in.Password) < 8 {
		return nil, apperr.Validationf("password must be at least 8 characters")
	}
	role := Role(in.Role)
	if in.Role == "" {
		role = RoleStaff
	}
	if !role.Valid() {
		return nil, apperr.Validationf("invalid role %q", in.Role)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &AdminUser{
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: string(hash),
		Name:         in.Name,
		Role:         role,
		Active:       true,
	}
	if in.Active != nil {
		u.Active = *in.Active
	}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, "admin_user", u.ID.String(), "create", "Created admin account "+u.Email, nil, u)
	return u, nil
}

func (s *Service) UpdateUser(ctx context.Context, id string, in UserInput) (*AdminUser, error) {
	u, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	before := *u
	if in.Email != "" {
		u.Email = strings.ToLower(strings.TrimSpace(in.Email))
	}
	if in.Name != "" {
		u.Name = in.Name
	}
	if in.Role != "" {
		role := Role(in.Role)
		if !role.Valid() {
			return nil, apperr.Validationf("invalid role %q", in.Role)
		}
		u.Role = role
	}
	if in.Active != nil {
		u.Active = *in.Active
	}
	if in.Password != "" {
		if len(in.Password) < 8 {
			return nil, apperr.Validationf("password must be at least 8 characters")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = string(hash)
	}
	if err := s.repo.UpdateUser(ctx, u); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, "admin_user", id, "update", "Updated admin account "+u.Email, &before, u)
	return u, nil
}

// RequestPasswordReset mints a short-lived reset token. The token is
// returned to the caller; delivery is out of band.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	u, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}
	token := hex.EncodeToString(buf)
	if err := s.repo.SetResetToken(ctx, u.ID.String(), token, time.Now().Add(resetTokenTTL)); err != nil {
		return "", err
	}
	return token, nil
}

// ResetPassword consumes a valid reset token and sets a new password.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < 8 {
		return apperr.Validationf("password must be at least 8 characters")
	}
	u, err := s.repo.GetUserByResetToken(ctx, token)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.repo.ClearResetToken(ctx, u.ID.String(), string(hash)); err != nil {
		return err
	}
	s.audit.Record(ctx, "admin_user", u.ID.String(), "password_reset", "Password reset for "+u.Email, nil, nil)
	return nil
}
