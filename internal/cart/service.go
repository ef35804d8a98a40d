package cart

import (
	"context"
	"errors"

	"github.com/angelmondragon/comicstore/internal/catalog"
	"github.com/angelmondragon/comicstore/internal/wishlist"
	"github.com/angelmondragon/comicstore/pkg/auth"
	"github.com/angelmondragon/comicstore/pkg/enums"
	pkgerrors "github.com/angelmondragon/comicstore/pkg/errors"
	"github.com/angelmondragon/comicstore/pkg/metrics"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams groups dependencies for the cart service.
type ServiceParams struct {
	DB           txRunner
	WishlistRepo *wishlist.Repository
	CatalogRepo  *catalog.Repository
	Metrics      *metrics.StorefrontMetrics
}

// Service exposes the cart page and its quantity updates.
type Service interface {
	Reconcile(ctx context.Context, account auth.Account, input ReconcileInput) (ReconcileResult, error)
	View(ctx context.Context, account auth.Account) (ViewDTO, error)
}

type service struct {
	db           txRunner
	wishlistRepo *wishlist.Repository
	catalogRepo  *catalog.Repository
	metrics      *metrics.StorefrontMetrics
}

// NewService builds a cart service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction runner is required")
	}
	if params.WishlistRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wishlist repo is required")
	}
	if params.CatalogRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog repo is required")
	}
	return &service{
		db:           params.DB,
		wishlistRepo: params.WishlistRepo,
		catalogRepo:  params.CatalogRepo,
		metrics:      params.Metrics,
	}, nil
}

// Reconcile adds the requested quantity to the entry's desired quantity.
// A request larger than the stock on its own counts as zero; a sum that
// would exceed the stock leaves the entry unchanged. The comic and entry rows
// stay locked for the duration so concurrent updates serialize.
func (s *service) Reconcile(ctx context.Context, account auth.Account, input ReconcileInput) (ReconcileResult, error) {
	if !account.IsAuthenticated() {
		return ReconcileResult{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "login required")
	}
	details := map[string]string{}
	if input.ComicID <= 0 {
		details["comic_id"] = "must be a positive integer"
	}
	if input.Quantity < 1 {
		details["quantity"] = "must be at least 1"
	}
	if len(details) > 0 {
		return ReconcileResult{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid quantity update").WithDetails(details)
	}

	result := ReconcileResult{Redirect: RedirectPath}
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		comic, err := s.catalogRepo.WithTx(tx).LockByID(ctx, input.ComicID)
		if err != nil {
			return notFoundOr(err, "comic not found", "lock comic")
		}
		repo := s.wishlistRepo.WithTx(tx)
		entry, err := repo.LockEntry(ctx, account.UserID, comic.ID)
		if err != nil {
			return notFoundOr(err, "cart entry not found", "lock cart entry")
		}
		if !entry.InCart {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "comic is not in the cart")
		}

		qty := input.Quantity
		result.Outcome = enums.ReconcileOutcomeApplied
		if qty > comic.StockQty {
			qty = 0
			result.Outcome = enums.ReconcileOutcomeRejected
		}
		candidate := entry.DesiredQty + qty
		if candidate > comic.StockQty {
			result.Outcome = enums.ReconcileOutcomeCapped
			result.DesiredQty = entry.DesiredQty
			return nil
		}
		result.DesiredQty = candidate
		if candidate == entry.DesiredQty {
			return nil
		}
		entry.DesiredQty = candidate
		if err := repo.Save(ctx, entry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart entry")
		}
		return nil
	})
	if err != nil {
		return ReconcileResult{}, err
	}
	s.metrics.IncReconcile(result.Outcome.String())
	return result, nil
}

// View lists the account's cart with remaining stock per item and the total
// price of the items with a positive quantity, rounded to cents.
func (s *service) View(ctx context.Context, account auth.Account) (ViewDTO, error) {
	if !account.IsAuthenticated() {
		return ViewDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "login required")
	}
	entries, err := s.wishlistRepo.ListCart(ctx, account.UserID)
	if err != nil {
		return ViewDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart")
	}

	total := decimal.Zero
	items := make([]ItemDTO, 0, len(entries))
	for _, entry := range entries {
		if entry.Comic == nil {
			continue
		}
		items = append(items, ItemDTO{
			ComicDTO:       catalog.FromModel(*entry.Comic),
			WishedQty:      entry.DesiredQty,
			RemainingStock: entry.Comic.StockQty - entry.DesiredQty,
		})
		if entry.DesiredQty > 0 {
			total = total.Add(entry.Comic.Price.Mul(decimal.NewFromInt(int64(entry.DesiredQty))))
		}
	}
	return ViewDTO{Items: items, TotalPrice: total.Round(2).StringFixed(2)}, nil
}

func notFoundOr(err error, notFoundMsg, failMsg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, notFoundMsg)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, failMsg)
}
