package auth

import (
	"context"
	"strings"

	"github.com/angelmondragon/comicstore/internal/profiles"
	"github.com/angelmondragon/comicstore/internal/users"
	"github.com/angelmondragon/comicstore/pkg/config"
	pkgdb "github.com/angelmondragon/comicstore/pkg/db"
	pkgerrors "github.com/angelmondragon/comicstore/pkg/errors"
	"github.com/angelmondragon/comicstore/pkg/security"
	"github.com/angelmondragon/comicstore/pkg/validation"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// RegisterService handles the signup transaction.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) error
}

// RegisterServiceParams packages the dependencies for the registration flow.
type RegisterServiceParams struct {
	DB             txRunner
	PasswordConfig config.PasswordConfig
}

type registerService struct {
	db          txRunner
	passwordCfg config.PasswordConfig
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	return &registerService{
		db:          params.DB,
		passwordCfg: params.PasswordConfig,
	}, nil
}

// Register creates the account and its default profile in one transaction.
func (s *registerService) Register(ctx context.Context, req RegisterRequest) error {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validation.Struct(req); err != nil {
		return err
	}
	if err := security.CheckNewPassword(req.Password1, req.Password2); err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"password2": err.Error()})
	}
	username, email := req.Username, req.Email

	passwordHash, err := security.HashPassword(req.Password1, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := users.NewRepository(tx)

		if taken, err := userRepo.UsernameTaken(ctx, username, uuid.Nil); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check username")
		} else if taken {
			return pkgerrors.New(pkgerrors.CodeConflict, "username already taken").
				WithDetails(map[string]string{"username": "already taken"})
		}
		if taken, err := userRepo.EmailTaken(ctx, email, uuid.Nil); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check email")
		} else if taken {
			return pkgerrors.New(pkgerrors.CodeConflict, "email already registered").
				WithDetails(map[string]string{"email": "already registered"})
		}

		user, err := userRepo.Create(ctx, users.CreateUserDTO{
			Username:     username,
			Email:        email,
			PasswordHash: passwordHash,
			FirstName:    req.FirstName,
			LastName:     req.LastName,
		})
		if err != nil {
			if pkgdb.IsUniqueViolation(err, "") {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "username or email already in use")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}

		if _, err := profiles.NewRepository(tx).Ensure(ctx, user.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create profile")
		}
		return nil
	})
}
