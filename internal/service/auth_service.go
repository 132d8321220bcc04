package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/edu-archive-api/internal/models"
	"github.com/noah-isme/edu-archive-api/internal/repository"
	appErrors "github.com/noah-isme/edu-archive-api/pkg/errors"
)

const (
	generatedPasswordLength = 16
	passwordAlphabet        = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*"
)

type authAdminRepository interface {
	FindByUsername(ctx context.Context, username string) (*models.Admin, error)
	FindByID(ctx context.Context, id string) (*models.Admin, error)
	Create(ctx context.Context, admin *models.Admin) error
	UpdatePassword(ctx context.Context, id, hash string) error
}

type sessionStore interface {
	Save(ctx context.Context, record *models.SessionRecord) error
	Get(ctx context.Context, id string) (*models.SessionRecord, error)
	Delete(ctx context.Context, adminID, id string) error
	DeleteByAdmin(ctx context.Context, adminID string) error
}

// AuthConfig defines configuration for admin sessions.
type AuthConfig struct {
	Secret     string
	SessionTTL time.Duration
	Issuer     string
	BcryptCost int
}

// AuthService authenticates the archive administrator and manages sessions.
type AuthService struct {
	admins    authAdminRepository
	sessions  sessionStore
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
	config    AuthConfig
	now       func() time.Time

	dummyOnce sync.Once
	dummyHash []byte
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(admins authAdminRepository, sessions sessionStore, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.SessionTTL <= 0 {
		config.SessionTTL = 12 * time.Hour
	}
	if config.BcryptCost == 0 {
		config.BcryptCost = bcrypt.DefaultCost
	}
	if config.Issuer == "" {
		config.Issuer = "edu-archive-api"
	}
	return &AuthService{
		admins:    admins,
		sessions:  sessions,
		validator: validate,
		logger:    logger,
		metrics:   metrics,
		config:    config,
		now:       time.Now,
	}
}

// Login verifies the admin credentials and opens a session.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.Session, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.FromValidation(err, "invalid login payload")
	}

	admin, err := s.admins.FindByUsername(ctx, req.Username)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Internal(err, "failed to fetch admin")
		}
		// Unknown usernames still pay for one bcrypt compare.
		_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(req.Password))
		s.metrics.RecordLogin(false)
		s.logger.Info("admin login rejected", zap.String("username", req.Username), zap.String("ip", req.IP))
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		s.metrics.RecordLogin(false)
		s.logger.Info("admin login rejected", zap.String("username", req.Username), zap.String("ip", req.IP))
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
	}

	issuedAt := s.now().UTC()
	record := &models.SessionRecord{
		ID:        uuid.NewString(),
		AdminID:   admin.ID,
		IP:        req.IP,
		UserAgent: req.UserAgent,
		CreatedAt: issuedAt,
		ExpiresAt: issuedAt.Add(s.config.SessionTTL),
	}

	token, err := s.sign(admin, record)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to sign session token")
	}
	if err := s.sessions.Save(ctx, record); err != nil {
		return nil, appErrors.Internal(err, "failed to persist session")
	}

	s.metrics.RecordLogin(true)
	s.logger.Info("admin logged in", zap.String("admin_id", admin.ID), zap.String("session_id", record.ID))

	return &models.Session{Token: token, ExpiresAt: record.ExpiresAt, Admin: admin.Info()}, nil
}

// Logout revokes the session carried by claims.
func (s *AuthService) Logout(ctx context.Context, claims *models.SessionClaims) error {
	if err := s.RequireAuth(claims); err != nil {
		return err
	}
	if err := s.sessions.Delete(ctx, claims.AdminID, claims.SessionID()); err != nil {
		return appErrors.Internal(err, "failed to revoke session")
	}
	s.logger.Info("admin logged out", zap.String("admin_id", claims.AdminID), zap.String("session_id", claims.SessionID()))
	return nil
}

// ValidateSession checks the token signature and expiry and that the
// session it names is still live.
func (s *AuthService) ValidateSession(ctx context.Context, tokenString string) (*models.SessionClaims, error) {
	if tokenString == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "authentication required")
	}

	token, err := jwt.ParseWithClaims(tokenString, &models.SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	}, jwt.WithIssuer(s.config.Issuer), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid session")
	}

	claims, ok := token.Claims.(*models.SessionClaims)
	if !ok || !token.Valid || claims.SessionID() == "" || claims.AdminID == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid session")
	}

	record, err := s.sessions.Get(ctx, claims.SessionID())
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "session expired or revoked")
		}
		return nil, appErrors.Internal(err, "failed to load session")
	}
	if record.AdminID != claims.AdminID {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid session")
	}

	return claims, nil
}

// RequireAuth gates admin-only operations.
func (s *AuthService) RequireAuth(claims *models.SessionClaims) error {
	if claims == nil || claims.AdminID == "" || claims.SessionID() == "" {
		return appErrors.Clone(appErrors.ErrUnauthorized, "authentication required")
	}
	return nil
}

// Me returns the admin behind the session.
func (s *AuthService) Me(ctx context.Context, claims *models.SessionClaims) (*models.AdminInfo, error) {
	if err := s.RequireAuth(claims); err != nil {
		return nil, err
	}
	admin, err := s.admins.FindByID(ctx, claims.AdminID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "admin no longer exists")
		}
		return nil, appErrors.Internal(err, "failed to load admin")
	}
	info := admin.Info()
	return &info, nil
}

// ChangePassword replaces the admin password and revokes every session.
func (s *AuthService) ChangePassword(ctx context.Context, claims *models.SessionClaims, req models.ChangePasswordRequest) error {
	if err := s.RequireAuth(claims); err != nil {
		return err
	}
	if err := s.validator.Struct(req); err != nil {
		return appErrors.FromValidation(err, "invalid change password payload")
	}

	admin, err := s.admins.FindByID(ctx, claims.AdminID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "admin not found")
		}
		return appErrors.Internal(err, "failed to load admin")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.OldPassword)); err != nil {
		return appErrors.FieldError("old_password", "current password is incorrect")
	}

	if err := s.setPassword(ctx, admin.ID, req.NewPassword); err != nil {
		return err
	}
	s.logger.Info("admin password changed", zap.String("admin_id", admin.ID))
	return nil
}

// EnsureAdmin creates the admin account when it does not exist yet. When
// password is empty a random one is generated and returned so the caller can
// show it once. It returns created=false if the account already exists.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) (generated string, created bool, err error) {
	if _, err := s.admins.FindByUsername(ctx, username); err == nil {
		return "", false, nil
	} else if !errors.Is(err, sql.ErrNoRows) {
		return "", false, appErrors.Internal(err, "failed to fetch admin")
	}

	if password == "" {
		if password, err = GeneratePassword(generatedPasswordLength); err != nil {
			return "", false, appErrors.Internal(err, "failed to generate password")
		}
		generated = password
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.config.BcryptCost)
	if err != nil {
		return "", false, appErrors.Internal(err, "failed to hash password")
	}
	admin := &models.Admin{Username: username, PasswordHash: string(hash)}
	if err := s.admins.Create(ctx, admin); err != nil {
		return "", false, appErrors.Internal(err, "failed to create admin")
	}

	s.logger.Info("admin account created", zap.String("admin_id", admin.ID), zap.String("username", username))
	return generated, true, nil
}

// ResetPassword sets a new password for username and revokes its sessions.
// An empty password is replaced by a generated one which is returned.
func (s *AuthService) ResetPassword(ctx context.Context, username, password string) (string, error) {
	admin, err := s.admins.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("admin %q not found", username))
		}
		return "", appErrors.Internal(err, "failed to fetch admin")
	}

	generated := ""
	if password == "" {
		if password, err = GeneratePassword(generatedPasswordLength); err != nil {
			return "", appErrors.Internal(err, "failed to generate password")
		}
		generated = password
	}

	if err := s.setPassword(ctx, admin.ID, password); err != nil {
		return "", err
	}
	s.logger.Info("admin password reset", zap.String("admin_id", admin.ID))
	return generated, nil
}

func (s *AuthService) setPassword(ctx context.Context, adminID, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.config.BcryptCost)
	if err != nil {
		return appErrors.Internal(err, "failed to hash password")
	}
	if err := s.admins.UpdatePassword(ctx, adminID, string(hash)); err != nil {
		return appErrors.Internal(err, "failed to update password")
	}
	if s.sessions != nil {
		if err := s.sessions.DeleteByAdmin(ctx, adminID); err != nil {
			s.logger.Warn("failed to revoke sessions after password change", zap.String("admin_id", adminID), zap.Error(err))
		}
	}
	return nil
}

func (s *AuthService) sign(admin *models.Admin, record *models.SessionRecord) (string, error) {
	claims := &models.SessionClaims{
		AdminID:  admin.ID,
		Username: admin.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        record.ID,
			Issuer:    s.config.Issuer,
			Subject:   admin.ID,
			ExpiresAt: jwt.NewNumericDate(record.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(record.CreatedAt),
			NotBefore: jwt.NewNumericDate(record.CreatedAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.Secret))
}

func (s *AuthService) dummy() []byte {
	s.dummyOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), s.config.BcryptCost)
		if err == nil {
			s.dummyHash = hash
		}
	})
	return s.dummyHash
}

// GeneratePassword returns a random password drawn from letters, digits and
// a small set of symbols.
func GeneratePassword(length int) (string, error) {
	limit := big.NewInt(int64(len(passwordAlphabet)))
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		out[i] = passwordAlphabet[n.Int64()]
	}
	return string(out), nil
}
