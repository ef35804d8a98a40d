package catalog

import (
	"context"

	"github.com/angelmondragon/comicstore/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository exposes comic persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repository to the provided connection or transaction.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Count returns the number of comics in the catalog.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Comic{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// ListPage returns one slice of the catalog, newest first.
func (r *Repository) ListPage(ctx context.Context, offset, limit int) ([]models.Comic, error) {
	var comics []models.Comic
	err := r.db.WithContext(ctx).
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&comics).Error
	if err != nil {
		return nil, err
	}
	return comics, nil
}

// FindByMarvelID loads a comic by its external id.
func (r *Repository) FindByMarvelID(ctx context.Context, marvelID int64) (*models.Comic, error) {
	var comic models.Comic
	if err := r.db.WithContext(ctx).Where("marvel_id = ?", marvelID).First(&comic).Error; err != nil {
		return nil, err
	}
	return &comic, nil
}

// FindByID loads a comic by its internal id.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Comic, error) {
	var comic models.Comic
	if err := r.db.WithContext(ctx).First(&comic, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &comic, nil
}

// LockByID loads a comic with a row lock. Must run inside a transaction.
func (r *Repository) LockByID(ctx context.Context, id int64) (*models.Comic, error) {
	var comic models.Comic
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&comic, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &comic, nil
}

// LockByIDs loads and locks several comics in id order so concurrent
// settlements acquire locks in the same sequence.
func (r *Repository) LockByIDs(ctx context.Context, ids []int64) (map[int64]*models.Comic, error) {
	out := make(map[int64]*models.Comic, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var comics []models.Comic
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&comics).Error
	if err != nil {
		return nil, err
	}
	for i := range comics {
		out[comics[i].ID] = &comics[i]
	}
	return out, nil
}

// DecrementStock subtracts qty from the comic's stock. It reports false when
// the stock would go negative.
func (r *Repository) DecrementStock(ctx context.Context, id int64, qty int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Comic{}).
		Where("id = ? AND stock_qty >= ?", id, qty).
		Update("stock_qty", gorm.Expr("stock_qty - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// Upsert inserts new comics and refreshes the descriptive columns of existing
// ones. Stock of an existing comic is never touched.
func (r *Repository) Upsert(ctx context.Context, comics []models.Comic) (int64, error) {
	if len(comics) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "marvel_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "description", "price", "picture", "updated_at"}),
		}).
		Create(&comics)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
