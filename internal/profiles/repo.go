package profiles

import (
	"context"

	"github.com/angelmondragon/comicstore/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists user profiles.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the profile repository to the provided connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByUserID loads the profile attached to the user.
func (r *Repository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// Ensure creates the default profile when none exists and returns the stored row.
func (r *Repository) Ensure(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	profile := &models.UserProfile{UserID: userID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(profile).Error
	if err != nil {
		return nil, err
	}
	return r.FindByUserID(ctx, userID)
}

// Update overwrites the address block of the user's profile.
func (r *Repository) Update(ctx context.Context, userID uuid.UUID, input AddressInput) error {
	res := r.db.WithContext(ctx).
		Model(&models.UserProfile{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			"country":           input.Country,
			"state":             input.State,
			"city":              input.City,
			"postal_code":       input.PostalCode,
			"cell_phone_number": input.CellPhoneNumber,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
