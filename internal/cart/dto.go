package cart

import (
	"github.com/angelmondragon/comicstore/internal/catalog"
	"github.com/angelmondragon/comicstore/pkg/enums"
)

// RedirectPath is where quantity updates land.
const RedirectPath = "/cart"

// ReconcileInput is the decoded quantity update form.
type ReconcileInput struct {
	ComicID  int64
	Quantity int
}

// ReconcileResult reports how a quantity update was applied.
type ReconcileResult struct {
	Redirect   string
	Outcome    enums.ReconcileOutcome
	DesiredQty int
}

// ItemDTO is one cart line.
type ItemDTO struct {
	catalog.ComicDTO
	WishedQty      int `json:"wished_qty"`
	RemainingStock int `json:"remaining_stock"`
}

// ViewDTO is the cart page context.
type ViewDTO struct {
	Items      []ItemDTO `json:"cart_items"`
	TotalPrice string    `json:"total_price"`
}
