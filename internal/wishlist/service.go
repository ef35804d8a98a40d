package wishlist

import (
	"context"
	"errors"

	"github.com/angelmondragon/comicstore/internal/catalog"
	"github.com/angelmondragon/comicstore/internal/users"
	"github.com/angelmondragon/comicstore/pkg/auth"
	"github.com/angelmondragon/comicstore/pkg/enums"
	pkgerrors "github.com/angelmondragon/comicstore/pkg/errors"
	"github.com/angelmondragon/comicstore/pkg/metrics"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams groups dependencies for the wishlist service.
type ServiceParams struct {
	DB          txRunner
	Repo        *Repository
	CatalogRepo *catalog.Repository
	UserRepo    *users.Repository
	Metrics     *metrics.StorefrontMetrics
}

// Service exposes the favorite/cart toggles and the favorites view.
type Service interface {
	Toggle(ctx context.Context, account auth.Account, input ToggleInput) (string, error)
	Favorites(ctx context.Context, account auth.Account) (FavoritesDTO, error)
}

type service struct {
	db          txRunner
	repo        *Repository
	catalogRepo *catalog.Repository
	userRepo    *users.Repository
	metrics     *metrics.StorefrontMetrics
}

// NewService builds a wishlist service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction runner is required")
	}
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wishlist repo is required")
	}
	if params.CatalogRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog repo is required")
	}
	if params.UserRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user repo is required")
	}
	return &service{
		db:          params.DB,
		repo:        params.Repo,
		catalogRepo: params.CatalogRepo,
		userRepo:    params.UserRepo,
		metrics:     params.Metrics,
	}, nil
}

// Toggle flips the favorite or cart flag on the account's entry for the comic,
// creating the entry on first use, and returns the redirect target. Turning
// the cart off clears the desired quantity. Unknown button kinds mutate nothing.
func (s *service) Toggle(ctx context.Context, account auth.Account, input ToggleInput) (string, error) {
	if !account.IsAuthenticated() {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "login required")
	}
	if input.MarvelID <= 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "marvel_id must be a positive integer").
			WithDetails(map[string]string{"marvel_id": "must be a positive integer"})
	}
	redirect := RedirectPath(input.Path, input.MarvelID)
	kind, kindErr := enums.ParseButtonKind(input.Kind)

	var newValue bool
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		user, err := s.userRepo.WithTx(tx).FindByID(ctx, account.UserID)
		if err != nil {
			return notFoundOr(err, "account not found", "load account")
		}
		// the stored username wins over the token claim, which goes stale after a rename
		if input.Username != "" && input.Username != user.Username {
			return pkgerrors.New(pkgerrors.CodeForbidden, "username does not match the signed-in account")
		}
		comic, err := s.catalogRepo.WithTx(tx).FindByMarvelID(ctx, input.MarvelID)
		if err != nil {
			return notFoundOr(err, "comic not found", "load comic")
		}
		if kindErr != nil {
			return nil
		}

		repo := s.repo.WithTx(tx)
		entry, err := repo.EnsureEntry(ctx, account.UserID, comic.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "ensure wishlist entry")
		}

		newValue = !input.ActualValue
		switch kind {
		case enums.ButtonKindCart:
			entry.InCart = newValue
			if !entry.InCart {
				entry.DesiredQty = 0
			}
		case enums.ButtonKindFavorite:
			entry.Favorite = newValue
		}
		if err := repo.Save(ctx, entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save wishlist entry")
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if kindErr == nil {
		s.metrics.IncToggle(kind.String(), newValue)
	}
	return redirect, nil
}

// Favorites lists the comics the account marked as favorite.
func (s *service) Favorites(ctx context.Context, account auth.Account) (FavoritesDTO, error) {
	if !account.IsAuthenticated() {
		return FavoritesDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "login required")
	}
	entries, err := s.repo.ListFavorites(ctx, account.UserID)
	if err != nil {
		return FavoritesDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list favorites")
	}
	items := make([]catalog.ComicDTO, 0, len(entries))
	for _, entry := range entries {
		if entry.Comic == nil {
			continue
		}
		items = append(items, catalog.FromModel(*entry.Comic))
	}
	return FavoritesDTO{Items: items}, nil
}

func notFoundOr(err error, notFoundMsg, failMsg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, notFoundMsg)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, failMsg)
}
