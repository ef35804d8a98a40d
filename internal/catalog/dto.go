package catalog

import (
	"strings"

	"github.com/angelmondragon/comicstore/pkg/db/models"
	"github.com/shopspring/decimal"
)

const thumbnailSegment = "/standard_xlarge"

// ComicDTO is the public representation of a catalog entry.
type ComicDTO struct {
	ID          int64  `json:"id"`
	MarvelID    int64  `json:"marvel_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       string `json:"price"`
	StockQty    int    `json:"stock_qty"`
	Picture     string `json:"picture"`
}

// ListPageDTO is one page of the catalog listing.
type ListPageDTO struct {
	Comics      []ComicDTO `json:"comics"`
	Page        int        `json:"page"`
	NumPages    int        `json:"num_pages"`
	Total       int64      `json:"total"`
	HasNext     bool       `json:"has_next"`
	HasPrevious bool       `json:"has_previous"`
}

// ViewerDTO carries the signed-in viewer's state for one comic.
type ViewerDTO struct {
	Favorite  bool `json:"favorite"`
	Cart      bool `json:"cart"`
	WishedQty int  `json:"wished_qty"`
}

// DetailDTO is the comic detail page context. Viewer is nil for anonymous callers.
type DetailDTO struct {
	Comic           ComicDTO   `json:"comic"`
	PictureFull     string     `json:"picture_full"`
	DescriptionText string     `json:"description_text"`
	Viewer          *ViewerDTO `json:"viewer,omitempty"`
}

// ComicInput is one record handed to Upsert. StockQty applies only when the
// comic is inserted.
type ComicInput struct {
	MarvelID    int64
	Title       string
	Description string
	Price       decimal.Decimal
	Picture     string
	StockQty    int
}

func FromModel(c models.Comic) ComicDTO {
	return ComicDTO{
		ID:          c.ID,
		MarvelID:    c.MarvelID,
		Title:       c.Title,
		Description: c.Description,
		Price:       c.Price.StringFixed(2),
		StockQty:    c.StockQty,
		Picture:     c.Picture,
	}
}

func newDetail(c models.Comic) DetailDTO {
	return DetailDTO{
		Comic:           FromModel(c),
		PictureFull:     strings.ReplaceAll(c.Picture, thumbnailSegment, ""),
		DescriptionText: strings.ReplaceAll(c.Description, "<br>", "\n"),
	}
}

func (in ComicInput) toModel() models.Comic {
	stock := in.StockQty
	if stock < 0 {
		stock = 0
	}
	return models.Comic{
		MarvelID:    in.MarvelID,
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price.Round(2),
		Picture:     in.Picture,
		StockQty:    stock,
	}
}
