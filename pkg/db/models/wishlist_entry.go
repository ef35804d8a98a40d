package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WishlistEntry links one account to one comic and carries its favorite,
// cart and purchase state.
type WishlistEntry struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UserID       uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:ux_wishlist_entries_user_comic,priority:1"`
	ComicID      int64     `gorm:"column:comic_id;not null;uniqueIndex:ux_wishlist_entries_user_comic,priority:2;index:idx_wishlist_entries_comic_id"`
	Favorite     bool      `gorm:"column:favorite;not null;default:false"`
	InCart       bool      `gorm:"column:in_cart;not null;default:false;check:chk_wishlist_entries_cart_qty,in_cart OR desired_qty = 0"`
	DesiredQty   int       `gorm:"column:desired_qty;not null;default:0;check:chk_wishlist_entries_desired_qty,desired_qty >= 0"`
	PurchasedQty int       `gorm:"column:purchased_qty;not null;default:0;check:chk_wishlist_entries_purchased_qty,purchased_qty >= 0"`
	Comic        *Comic    `gorm:"foreignKey:ComicID;constraint:OnDelete:CASCADE"`
	User         *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (w *WishlistEntry) BeforeCreate(*gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}
