package checkout

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/angelmondragon/comicstore/internal/catalog"
	"github.com/angelmondragon/comicstore/internal/wishlist"
	"github.com/angelmondragon/comicstore/pkg/auth"
	"github.com/angelmondragon/comicstore/pkg/db/models"
	pkgerrors "github.com/angelmondragon/comicstore/pkg/errors"
	"github.com/angelmondragon/comicstore/pkg/metrics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams groups dependencies for the checkout service.
type ServiceParams struct {
	DB           txRunner
	Repo         *Repository
	WishlistRepo *wishlist.Repository
	CatalogRepo  *catalog.Repository
	Metrics      *metrics.StorefrontMetrics
	Clock        func() time.Time
}

// Service settles carts and serves receipts.
type Service interface {
	Settle(ctx context.Context, account auth.Account) (SettleResult, error)
	Receipt(ctx context.Context, account auth.Account, settlementID string) (ReceiptDTO, error)
}

type service struct {
	db           txRunner
	repo         *Repository
	wishlistRepo *wishlist.Repository
	catalogRepo  *catalog.Repository
	metrics      *metrics.StorefrontMetrics
	now          func() time.Time
}

// NewService builds a checkout service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction runner is required")
	}
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "settlement repo is required")
	}
	if params.WishlistRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wishlist repo is required")
	}
	if params.CatalogRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog repo is required")
	}
	clock := params.Clock
	if clock == nil {
		clock = time.Now
	}
	return &service{
		db:           params.DB,
		repo:         params.Repo,
		wishlistRepo: params.WishlistRepo,
		catalogRepo:  params.CatalogRepo,
		metrics:      params.Metrics,
		now:          clock,
	}, nil
}

type shortage struct {
	ComicID   int64 `json:"comic_id"`
	Requested int   `json:"requested"`
	Available int   `json:"available"`
}

// Settle converts every positive desired quantity in the account's cart into
// a purchase. Stock is checked for all lines before any row changes, so the
// checkout either settles completely or not at all.
func (s *service) Settle(ctx context.Context, account auth.Account) (SettleResult, error) {
	if !account.IsAuthenticated() {
		return SettleResult{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "login required")
	}

	result := SettleResult{Redirect: receiptPath, TotalPrice: decimal.Zero.StringFixed(2)}
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		entryRepo := s.wishlistRepo.WithTx(tx)
		comicRepo := s.catalogRepo.WithTx(tx)

		entries, err := entryRepo.ListSettleable(ctx, account.UserID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock cart entries")
		}
		if len(entries) == 0 {
			return nil
		}

		ids := make([]int64, 0, len(entries))
		for _, entry := range entries {
			ids = append(ids, entry.ComicID)
		}
		comics, err := comicRepo.LockByIDs(ctx, ids)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock comics")
		}

		var short []shortage
		for _, entry := range entries {
			comic, ok := comics[entry.ComicID]
			if !ok {
				return pkgerrors.Newf(pkgerrors.CodeNotFound, "comic %d not found", entry.ComicID)
			}
			if entry.DesiredQty > comic.StockQty {
				short = append(short, shortage{ComicID: comic.ID, Requested: entry.DesiredQty, Available: comic.StockQty})
			}
		}
		if len(short) > 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "insufficient stock").WithDetails(short)
		}

		settlement := &models.Settlement{
			UserID:    account.UserID,
			SettledAt: s.now().UTC(),
		}
		total := decimal.Zero
		for i := range entries {
			entry := &entries[i]
			comic := comics[entry.ComicID]
			qty := entry.DesiredQty

			ok, err := comicRepo.DecrementStock(ctx, comic.ID, qty)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement stock")
			}
			if !ok {
				return pkgerrors.Newf(pkgerrors.CodeStateConflict, "insufficient stock for comic %d", comic.ID)
			}

			entry.PurchasedQty += qty
			entry.DesiredQty = 0
			entry.InCart = false
			if err := entryRepo.Save(ctx, entry); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart entry")
			}

			settlement.Lines = append(settlement.Lines, models.SettlementLine{
				ComicID:   comic.ID,
				MarvelID:  comic.MarvelID,
				Title:     comic.Title,
				Picture:   comic.Picture,
				UnitPrice: comic.Price,
				Quantity:  qty,
			})
			total = total.Add(comic.Price.Mul(decimal.NewFromInt(int64(qty))))
			result.Units += qty
		}
		settlement.TotalPrice = total.Round(2)

		if err := s.repo.WithTx(tx).Create(ctx, settlement); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record settlement")
		}
		id := settlement.ID
		result.SettlementID = &id
		result.TotalPrice = settlement.TotalPrice.StringFixed(2)
		result.Redirect = receiptPath + "?settlement=" + id.String()
		return nil
	})
	if err != nil {
		return SettleResult{}, err
	}
	if result.SettlementID != nil {
		s.metrics.ObserveSettlement(result.Units)
	}
	return result, nil
}

// Receipt returns the settlement owned by the account. An empty id yields an
// empty receipt.
func (s *service) Receipt(ctx context.Context, account auth.Account, settlementID string) (ReceiptDTO, error) {
	if !account.IsAuthenticated() {
		return ReceiptDTO{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "login required")
	}
	settlementID = strings.TrimSpace(settlementID)
	if settlementID == "" {
		return ReceiptDTO{Comics: []ReceiptLineDTO{}}, nil
	}
	id, err := uuid.Parse(settlementID)
	if err != nil {
		return ReceiptDTO{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid settlement id").
			WithDetails(map[string]string{"settlement": "must be a uuid"})
	}
	settlement, err := s.repo.FindForUser(ctx, account.UserID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ReceiptDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "settlement not found")
		}
		return ReceiptDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load settlement")
	}
	return receiptFromModel(settlement), nil
}
