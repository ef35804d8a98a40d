package wishlist

import (
	"context"

	"github.com/angelmondragon/comicstore/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists the per-account wishlist/cart ledger.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the ledger repository to the provided connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindEntry loads the entry for the account and comic.
func (r *Repository) FindEntry(ctx context.Context, userID uuid.UUID, comicID int64) (*models.WishlistEntry, error) {
	var entry models.WishlistEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND comic_id = ?", userID, comicID).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// EnsureEntry creates the zero-state entry when missing and returns the stored row.
func (r *Repository) EnsureEntry(ctx context.Context, userID uuid.UUID, comicID int64) (*models.WishlistEntry, error) {
	entry := &models.WishlistEntry{UserID: userID, ComicID: comicID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "comic_id"}},
			DoNothing: true,
		}).
		Create(entry).Error
	if err != nil {
		return nil, err
	}
	return r.LockEntry(ctx, userID, comicID)
}

// LockEntry loads the entry with a row lock. Must run inside a transaction.
func (r *Repository) LockEntry(ctx context.Context, userID uuid.UUID, comicID int64) (*models.WishlistEntry, error) {
	var entry models.WishlistEntry
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND comic_id = ?", userID, comicID).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListCart returns the account's in-cart entries with their comics, ordered by comic id.
func (r *Repository) ListCart(ctx context.Context, userID uuid.UUID) ([]models.WishlistEntry, error) {
	return r.list(ctx, r.db.WithContext(ctx).Where("user_id = ? AND in_cart = ?", userID, true))
}

// ListFavorites returns the account's favorite entries with their comics.
func (r *Repository) ListFavorites(ctx context.Context, userID uuid.UUID) ([]models.WishlistEntry, error) {
	return r.list(ctx, r.db.WithContext(ctx).Where("user_id = ? AND favorite = ?", userID, true))
}

// ListSettleable locks the in-cart entries with a positive desired quantity.
func (r *Repository) ListSettleable(ctx context.Context, userID uuid.UUID) ([]models.WishlistEntry, error) {
	query := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND in_cart = ? AND desired_qty > 0", userID, true)
	return r.list(ctx, query)
}

func (r *Repository) list(ctx context.Context, query *gorm.DB) ([]models.WishlistEntry, error) {
	var entries []models.WishlistEntry
	err := query.
		Preload("Comic").
		Order("comic_id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Save writes the mutable flags and counters of the entry.
func (r *Repository) Save(ctx context.Context, entry *models.WishlistEntry) error {
	return r.db.WithContext(ctx).
		Model(entry).
		Select("favorite", "in_cart", "desired_qty", "purchased_qty", "updated_at").
		Updates(entry).Error
}
