package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Comic is a catalog entry imported from the Marvel API.
type Comic struct {
	ID          int64           `gorm:"column:id;primaryKey;autoIncrement"`
	MarvelID    int64           `gorm:"column:marvel_id;not null;uniqueIndex:ux_comics_marvel_id"`
	Title       string          `gorm:"column:title;type:varchar(120);not null;default:''"`
	Description string          `gorm:"column:description;type:text;not null;default:''"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null;default:0"`
	StockQty    int             `gorm:"column:stock_qty;not null;default:0;check:chk_comics_stock_qty,stock_qty >= 0"`
	Picture     string          `gorm:"column:picture;type:varchar(200);not null;default:''"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
