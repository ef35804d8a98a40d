package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Settlement records one completed checkout.
type Settlement struct {
	ID         uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	UserID     uuid.UUID        `gorm:"column:user_id;type:uuid;not null;index:idx_settlements_user_settled_at,priority:1"`
	SettledAt  time.Time        `gorm:"column:settled_at;not null;index:idx_settlements_user_settled_at,priority:2"`
	TotalPrice decimal.Decimal  `gorm:"column:total_price;type:numeric(12,2);not null;default:0"`
	Lines      []SettlementLine `gorm:"foreignKey:SettlementID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time        `gorm:"column:created_at;autoCreateTime"`
}

func (s *Settlement) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// SettlementLine snapshots one purchased comic inside a Settlement.
type SettlementLine struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	SettlementID uuid.UUID       `gorm:"column:settlement_id;type:uuid;not null;index:idx_settlement_lines_settlement_id"`
	ComicID      int64           `gorm:"column:comic_id;not null"`
	MarvelID     int64           `gorm:"column:marvel_id;not null"`
	Title        string          `gorm:"column:title;type:varchar(120);not null;default:''"`
	Picture      string          `gorm:"column:picture;type:varchar(200);not null;default:''"`
	UnitPrice    decimal.Decimal `gorm:"column:unit_price;type:numeric(10,2);not null"`
	Quantity     int             `gorm:"column:quantity;not null;check:chk_settlement_lines_quantity,quantity > 0"`
}

func (l *SettlementLine) BeforeCreate(*gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
