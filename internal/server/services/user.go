// Package services contains server-side business logic. This file implements
// UserService: registration, login, logout and the session guard that turns
// a bearer token into a principal.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/jobassist/internal/common"
	"github.com/dmitrijs2005/jobassist/internal/logging"
	"github.com/dmitrijs2005/jobassist/internal/server/auth"
	"github.com/dmitrijs2005/jobassist/internal/server/config"
	"github.com/dmitrijs2005/jobassist/internal/server/models"
	"github.com/dmitrijs2005/jobassist/internal/server/repositories/repomanager"
)

const (
	minPasswordLength = 8
	minNameLength     = 2
)

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      models.PublicUser
}

type UserService struct {
	repomanager     repomanager.RepositoryManager
	jwtSecret       []byte
	sessionValidity time.Duration
	now             func() time.Time
	logger          logging.Logger
}

func NewUserService(m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) *UserService {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &UserService{
		repomanager:     m,
		jwtSecret:       []byte(cfg.SecretKey),
		sessionValidity: cfg.SessionValidityDuration,
		now:             time.Now,
		logger:          logger.With("module", "users"),
	}
}

func validateCredentials(email, password string) (string, error) {
	email = strings.TrimSpace(email)
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%w: invalid email address", common.ErrorValidation)
	}
	if len(password) < minPasswordLength {
		return "", fmt.Errorf("%w: password must be at least %d characters", common.ErrorValidation, minPasswordLength)
	}
	return email, nil
}

func (s *UserService) Register(ctx context.Context, email, password, name string) (*AuthResult, error) {
	email, err := validateCredentials(email, password)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if len([]rune(name)) < minNameLength {
		return nil, fmt.Errorf("%w: name must be at least %d characters", common.ErrorValidation, minNameLength)
	}

	hash, salt := auth.HashPassword(password)
	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		PasswordSalt: salt,
		CreatedAt:    s.now().UTC(),
	}

	if err := s.repomanager.Users().Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, fmt.Errorf("%w: user %s", common.ErrorAlreadyExists, email)
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID)
	return s.startSession(ctx, user)
}

func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.repomanager.Users().GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthenticated
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	if !auth.VerifyPassword(password, user.PasswordHash, user.PasswordSalt) {
		return nil, common.ErrorUnauthenticated
	}

	return s.startSession(ctx, user)
}

func (s *UserService) startSession(ctx context.Context, user *models.User) (*AuthResult, error) {
	now := s.now().UTC()
	sess := &models.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Email:     user.Email,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionValidity),
	}
	if err := s.repomanager.Sessions().Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("error creating session: %w", err)
	}

	token, err := auth.GenerateToken(sess.ID, user.ID, s.jwtSecret, s.sessionValidity)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &AuthResult{Token: token, ExpiresAt: sess.ExpiresAt, User: user.Public()}, nil
}

// Authenticate resolves a bearer token to the session owner. Any failure,
// including an expired session, is reported as common.ErrorUnauthenticated.
func (s *UserService) Authenticate(ctx context.Context, token string) (*models.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, common.ErrorUnauthenticated
	}

	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return nil, common.ErrorUnauthenticated
	}

	repo := s.repomanager.Sessions()
	sess, err := repo.Get(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthenticated
		}
		return nil, fmt.Errorf("error loading session: %w", err)
	}

	if sess.Expired(s.now()) {
		if err := repo.Delete(ctx, sess.ID); err != nil {
			s.logger.Warn(ctx, "failed to delete expired session", "error", err)
		}
		return nil, common.ErrorUnauthenticated
	}

	if sess.UserID != claims.UserID {
		return nil, common.ErrorUnauthenticated
	}

	return &models.Principal{UserID: sess.UserID, Email: sess.Email}, nil
}

// Logout ends the session behind token. Unknown sessions are not an error.
func (s *UserService) Logout(ctx context.Context, token string) error {
	claims, err := auth.ParseToken(strings.TrimSpace(token), s.jwtSecret)
	if err != nil {
		return common.ErrorUnauthenticated
	}
	if err := s.repomanager.Sessions().Delete(ctx, claims.ID); err != nil {
		return fmt.Errorf("error deleting session: %w", err)
	}
	return nil
}

// User returns the account behind a principal.
func (s *UserService) User(ctx context.Context, p *models.Principal) (*models.User, error) {
	u, err := s.repomanager.Users().GetByEmail(ctx, p.Email)
	if err != nil {
		return nil, err
	}
	if u.ID != p.UserID {
		return nil, common.ErrorNotFound
	}
	return u, nil
}
