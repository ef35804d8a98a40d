package checkout

import (
	"context"

	"github.com/angelmondragon/comicstore/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists settlements and their lines.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the settlement repository to the provided connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts the settlement together with its lines.
func (r *Repository) Create(ctx context.Context, settlement *models.Settlement) error {
	return r.db.WithContext(ctx).Create(settlement).Error
}

// FindForUser loads a settlement owned by the user, lines ordered by comic id.
func (r *Repository) FindForUser(ctx context.Context, userID, id uuid.UUID) (*models.Settlement, error) {
	var settlement models.Settlement
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("comic_id ASC") }).
		Where("id = ? AND user_id = ?", id, userID).
		First(&settlement).Error
	if err != nil {
		return nil, err
	}
	return &settlement, nil
}
