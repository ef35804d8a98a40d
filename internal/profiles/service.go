package profiles

import (
	"context"
	"errors"
	"strings"

	"github.com/angelmondragon/comicstore/internal/users"
	"github.com/angelmondragon/comicstore/pkg/auth"
	pkgdb "github.com/angelmondragon/comicstore/pkg/db"
	"github.com/angelmondragon/comicstore/pkg/db/models"
	pkgerrors "github.com/angelmondragon/comicstore/pkg/errors"
	"github.com/angelmondragon/comicstore/pkg/validation"
	"gorm.io/gorm"
)

const (
	usernameUniqIdx = "ux_users_username"
	emailUniqIdx    = "ux_users_email"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams groups dependencies for the profile service.
type ServiceParams struct {
	DB       txRunner
	Repo     *Repository
	UserRepo *users.Repository
}

// Service reads and edits the account's identity and address block.
type Service interface {
	View(ctx context.Context, account auth.Account) (ViewDTO, error)
	Form(ctx context.Context, account auth.Account) (FormDTO, error)
	Update(ctx context.Context, account auth.Account, input UpdateInput) error
}

type service struct {
	db       txRunner
	repo     *Repository
	userRepo *users.Repository
}

// NewService builds a profile service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction runner is required")
	}
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "profile repo is required")
	}
	if params.UserRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user repo is required")
	}
	return &service{db: params.DB, repo: params.Repo, userRepo: params.UserRepo}, nil
}

func (s *service) View(ctx context.Context, account auth.Account) (ViewDTO, error) {
	form, err := s.Form(ctx, account)
	if err != nil {
		return ViewDTO{}, err
	}
	return ViewDTO{Fields: form.fields()}, nil
}

// Form loads the account and its profile, creating the default profile on
// first access.
func (s *service) Form(ctx context.Context, account auth.Account) (FormDTO, error) {
	if !account.IsAuthenticated() {
		return FormDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "login required")
	}
	var form FormDTO
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		user, err := s.userRepo.WithTx(tx).FindByID(ctx, account.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "account not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load account")
		}
		profile, err := s.repo.WithTx(tx).Ensure(ctx, account.UserID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
		}
		form = newForm(user, profile)
		return nil
	})
	return form, err
}

// Update overwrites the identity columns and the address block in one
// transaction. Username and email must not belong to another account.
func (s *service) Update(ctx context.Context, account auth.Account, input UpdateInput) error {
	if !account.IsAuthenticated() {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "login required")
	}
	input = normalize(input)
	if err := validation.Struct(input); err != nil {
		return err
	}

	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := s.userRepo.WithTx(tx)
		taken, err := userRepo.UsernameTaken(ctx, input.Username, account.UserID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check username")
		}
		if taken {
			return pkgerrors.New(pkgerrors.CodeConflict, "username already taken").
				WithDetails(map[string]string{"username": "already taken"})
		}
		taken, err = userRepo.EmailTaken(ctx, input.Email, account.UserID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check email")
		}
		if taken {
			return pkgerrors.New(pkgerrors.CodeConflict, "email already registered").
				WithDetails(map[string]string{"email": "already registered"})
		}

		err = userRepo.UpdateIdentity(ctx, account.UserID, users.IdentityUpdate{
			FirstName: input.Name,
			LastName:  input.Surname,
			Username:  input.Username,
			Email:     input.Email,
		})
		if err != nil {
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "account not found")
			case pkgdb.IsUniqueViolation(err, usernameUniqIdx), pkgdb.IsUniqueViolation(err, emailUniqIdx):
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "username or email already in use")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update account")
		}

		repo := s.repo.WithTx(tx)
		if _, err := repo.Ensure(ctx, account.UserID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
		}
		if err := repo.Update(ctx, account.UserID, input.AddressInput); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update profile")
		}
		return nil
	})
}

func normalize(in UpdateInput) UpdateInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Surname = strings.TrimSpace(in.Surname)
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.Country = strings.TrimSpace(in.Country)
	in.State = strings.TrimSpace(in.State)
	in.City = strings.TrimSpace(in.City)
	in.PostalCode = strings.TrimSpace(in.PostalCode)
	in.CellPhoneNumber = strings.TrimSpace(in.CellPhoneNumber)
	if in.PostalCode == "" {
		in.PostalCode = models.DefaultPostalCode
	}
	if in.CellPhoneNumber == "" {
		in.CellPhoneNumber = models.DefaultCellPhoneNumber
	}
	return in
}
