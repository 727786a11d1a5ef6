package service

import (
	"context"
	"fmt"
	"time"

	"shop-service/internal/models"
	"shop-service/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength  = 6
	sessionIdleTimeout = 12 * time.Hour

	defaultAdminUsername = "admin"
	defaultAdminPassword = "admin123"
)

type AuthService interface {
	// Login verifies the credentials and opens a session. The returned
	// token is the only credential the client holds afterwards.
	Login(ctx context.Context, username, password string) (uuid.UUID, *models.Admin, error)
	Logout(ctx context.Context, token uuid.UUID) error
	// Resolve maps a session token to its actor and refreshes the idle
	// timer. Expired and revoked sessions resolve to ErrUnauthorized.
	Resolve(ctx context.Context, token uuid.UUID) (Actor, error)
	ChangePassword(ctx context.Context, current, next string) error
	// EnsureDefaultAdmin seeds the first admin account when the table
	// is empty, so a fresh install is reachable.
	EnsureDefaultAdmin(ctx context.Context) error
}

type authService struct {
	repo *repository.Repository
	log  *zap.Logger
	now  func() time.Time
}

func NewAuthService(repo *repository.Repository, log *zap.Logger) AuthService {
	return &authService{repo: repo, log: log, now: time.Now}
}

func (s *authService) Login(ctx context.Context, username, password string) (uuid.UUID, *models.Admin, error) {
	admin, err := s.repo.Admins.GetByUsername(ctx, username)
	if err != nil {
		return uuid.Nil, nil, err
	}
	if admin == nil {
		// Burn a comparison anyway so a missing user costs the same.
		_ = bcrypt.CompareHashAndPassword([]byte("$2a$10$0000000000000000000000000000000000000000000000000000"), []byte(password))
		return uuid.Nil, nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) != nil {
		return uuid.Nil, nil, ErrInvalidCredentials
	}

	now := s.now()
	session := &models.AdminSession{
		AdminID:    admin.ID,
		CreatedAt:  now,
		LastSeenAt: now,
	}
	if err := s.repo.Sessions.Create(ctx, session); err != nil {
		return uuid.Nil, nil, err
	}

	if err := s.repo.Activity.Append(ctx, &models.ActivityLog{
		Action:    "login",
		Details:   fmt.Sprintf("%s logged in", admin.Username),
		CreatedAt: now,
	}); err != nil {
		s.log.Warn("activity log write failed", zap.Error(err))
	}
	return session.Token, admin, nil
}

func (s *authService) Logout(ctx context.Context, token uuid.UUID) error {
	_, err := s.repo.Sessions.Revoke(ctx, token)
	return err
}

func (s *authService) Resolve(ctx context.Context, token uuid.UUID) (Actor, error) {
	session, err := s.repo.Sessions.GetActive(ctx, token)
	if err != nil {
		return Actor{}, err
	}
	if session == nil {
		return Actor{}, ErrUnauthorized
	}

	now := s.now()
	if now.Sub(session.LastSeenAt) > sessionIdleTimeout {
		if _, err := s.repo.Sessions.Revoke(ctx, token); err != nil {
			s.log.Warn("revoking stale session failed", zap.Error(err))
		}
		return Actor{}, ErrUnauthorized
	}

	admin, err := s.repo.Admins.GetByID(ctx, session.AdminID)
	if err != nil {
		return Actor{}, err
	}
	if admin == nil {
		return Actor{}, ErrUnauthorized
	}

	if err := s.repo.Sessions.Touch(ctx, token, now); err != nil {
		s.log.Warn("session touch failed", zap.Error(err))
	}
	return Actor{Name: admin.Username, Role: admin.Role}, nil
}

func (s *authService) ChangePassword(ctx context.Context, current, next string) error {
	actor, err := requireActor(ctx)
	if err != nil {
		return err
	}
	if len(next) < minPasswordLength {
		return ErrPasswordTooShort
	}

	admin, err := s.repo.Admins.GetByUsername(ctx, actor.Name)
	if err != nil {
		return err
	}
	if admin == nil {
		return ErrUnauthorized
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(current)) != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.repo.Admins.UpdatePassword(ctx, admin.ID, string(hash)); err != nil {
		return err
	}
	return s.repo.Activity.Append(ctx, &models.ActivityLog{
		Action:    "password_change",
		Details:   fmt.Sprintf("%s changed their password", admin.Username),
		CreatedAt: s.now(),
	})
}

func (s *authService) EnsureDefaultAdmin(ctx context.Context) error {
	count, err := s.repo.Admins.CountAll(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(defaultAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := &models.Admin{
		Username:     defaultAdminUsername,
		PasswordHash: string(hash),
		Role:         models.RoleSuperadmin,
		CreatedAt:    s.now(),
	}
	if err := s.repo.Admins.Create(ctx, admin); err != nil {
		return err
	}
	s.log.Warn("seeded default admin account, change its password",
		zap.String("username", defaultAdminUsername))
	return nil
}
