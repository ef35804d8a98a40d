package checkout

import (
	"github.com/angelmondragon/comicstore/pkg/db/models"
	"github.com/google/uuid"
)

const (
	receiptPath = "/thanks"
	dateLayout  = "2006-01-02"
	timeLayout  = "15:04:05"
)

// SettleResult reports the outcome of a checkout.
type SettleResult struct {
	Redirect     string     `json:"redirect"`
	SettlementID *uuid.UUID `json:"settlement_id,omitempty"`
	Units        int        `json:"units"`
	TotalPrice   string     `json:"total_price"`
}

// ReceiptLineDTO is one purchased comic on the receipt.
type ReceiptLineDTO struct {
	ComicID   int64  `json:"id"`
	MarvelID  int64  `json:"marvel_id"`
	Title     string `json:"title"`
	Picture   string `json:"picture"`
	UnitPrice string `json:"price"`
	Quantity  int    `json:"quantity"`
}

// ReceiptDTO is the thank-you page context. Date and time are empty when
// nothing was settled.
type ReceiptDTO struct {
	SettlementID *uuid.UUID       `json:"settlement_id,omitempty"`
	Comics       []ReceiptLineDTO `json:"comics"`
	TotalPrice   string           `json:"total_price,omitempty"`
	Date         string           `json:"date,omitempty"`
	Time         string           `json:"time,omitempty"`
}

func receiptFromModel(s *models.Settlement) ReceiptDTO {
	id := s.ID
	lines := make([]ReceiptLineDTO, 0, len(s.Lines))
	for _, line := range s.Lines {
		lines = append(lines, ReceiptLineDTO{
			ComicID:   line.ComicID,
			MarvelID:  line.MarvelID,
			Title:     line.Title,
			Picture:   line.Picture,
			UnitPrice: line.UnitPrice.StringFixed(2),
			Quantity:  line.Quantity,
		})
	}
	settledAt := s.SettledAt.UTC()
	return ReceiptDTO{
		SettlementID: &id,
		Comics:       lines,
		TotalPrice:   s.TotalPrice.StringFixed(2),
		Date:         settledAt.Format(dateLayout),
		Time:         settledAt.Format(timeLayout),
	}
}
