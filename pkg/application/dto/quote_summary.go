package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/cpq/pkg/domain/entities"
)

// QuoteLineSummary is a priced quote line
type QuoteLineSummary struct {
	LineNumber    int                    `json:"line_number"`
	PartNumber    string                 `json:"part_number"`
	ChassisTypeID entities.ChassisTypeID `json:"chassis_type_id"`
	Quantity      int                    `json:"quantity"`
	UnitPrice     decimal.Decimal        `json:"unit_price"`
	ExtendedPrice decimal.Decimal        `json:"extended_price"`
	ExtendedCost  decimal.Decimal        `json:"extended_cost"`
}

// QuoteSummary holds quote totals. MarginPercent is rounded to two places
// and zero when the quote has no revenue.
type QuoteSummary struct {
	QuoteID       entities.QuoteID     `json:"quote_id"`
	Customer      string               `json:"customer"`
	Status        entities.QuoteStatus `json:"status"`
	Lines         []QuoteLineSummary   `json:"lines"`
	TotalPrice    decimal.Decimal      `json:"total_price"`
	TotalCost     decimal.Decimal      `json:"total_cost"`
	Margin        decimal.Decimal      `json:"margin"`
	MarginPercent decimal.Decimal      `json:"margin_percent"`
	UpdatedAt     time.Time            `json:"updated_at"`
}
