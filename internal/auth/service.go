package auth

import (
	"context"
	"strings"
	"time"

	"github.com/plantswapio/plantswap-backend/internal/users"
	pkgauth "github.com/plantswapio/plantswap-backend/pkg/auth"
	"github.com/plantswapio/plantswap-backend/pkg/config"
	"github.com/plantswapio/plantswap-backend/pkg/db"
	"github.com/plantswapio/plantswap-backend/pkg/db/models"
	pkgerrors "github.com/plantswapio/plantswap-backend/pkg/errors"
	"github.com/plantswapio/plantswap-backend/pkg/security"
)

// ServiceParams groups dependencies for the auth service.
type ServiceParams struct {
	UserRepo    *users.Repository
	JWTConfig   config.JWTConfig
	PasswordCfg config.PasswordConfig
}

// Service exposes registration and login.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (SessionDTO, error)
	Login(ctx context.Context, input LoginInput) (SessionDTO, error)
}

type service struct {
	userRepo    *users.Repository
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
	now         func() time.Time
}

// NewService builds an auth service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user repo is required")
	}
	if params.JWTConfig.Secret == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "jwt secret is required")
	}
	return &service{
		userRepo:    params.UserRepo,
		jwtCfg:      params.JWTConfig,
		passwordCfg: params.PasswordCfg,
		now:         time.Now,
	}, nil
}

// Register creates the user and returns a fresh session.
func (s *service) Register(ctx context.Context, input RegisterInput) (SessionDTO, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	username := strings.TrimSpace(input.Username)

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return SessionDTO{}, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	} else if !db.IsNotFound(err) {
		return SessionDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user by email")
	}
	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		return SessionDTO{}, pkgerrors.New(pkgerrors.CodeConflict, "username already taken")
	} else if !db.IsNotFound(err) {
		return SessionDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user by username")
	}

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return SessionDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := &models.User{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if db.IsUniqueViolation(err) {
			return SessionDTO{}, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "email or username already in use")
		}
		return SessionDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}

	return s.mintSession(user)
}

// Login verifies credentials and returns a session.
func (s *service) Login(ctx context.Context, input LoginInput) (SessionDTO, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if db.IsNotFound(err) {
			return SessionDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return SessionDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user by email")
	}
	if !user.IsActive {
		return SessionDTO{}, pkgerrors.New(pkgerrors.CodeForbidden, "account is disabled")
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil {
		return SessionDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return SessionDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	if err := s.userRepo.TouchLastLogin(ctx, user.ID, s.now()); err != nil {
		return SessionDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "stamp last login")
	}

	return s.mintSession(user)
}

func (s *service) mintSession(user *models.User) (SessionDTO, error) {
	token, err := pkgauth.MintAccessToken(s.jwtCfg, s.now(), pkgauth.AccessTokenPayload{
		UserID:   user.ID,
		Username: user.Username,
	})
	if err != nil {
		return SessionDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}
	return SessionDTO{
		AccessToken: token,
		User:        users.ToDTO(user),
	}, nil
}
