package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// QuoteID identifies a persisted quote
type QuoteID string

// QuoteStatus is the simple approval status of a quote
type QuoteStatus string

const (
	QuoteDraft           QuoteStatus = "draft"
	QuotePendingApproval QuoteStatus = "pending_approval"
	QuoteApproved        QuoteStatus = "approved"
	QuoteRejected        QuoteStatus = "rejected"
)

// ParseQuoteStatus maps a stored or user-supplied string to a QuoteStatus
func ParseQuoteStatus(s string) (QuoteStatus, error) {
	switch QuoteStatus(s) {
	case QuoteDraft, QuotePendingApproval, QuoteApproved, QuoteRejected:
		return QuoteStatus(s), nil
	default:
		return "", fmt.Errorf("unknown quote status %q", s)
	}
}

var quoteTransitions = map[QuoteStatus][]QuoteStatus{
	QuoteDraft:           {QuotePendingApproval},
	QuotePendingApproval: {QuoteApproved, QuoteRejected, QuoteDraft},
	QuoteRejected:        {QuoteDraft},
	QuoteApproved:        {},
}

// CanTransition reports whether a quote may move from s to next
func (s QuoteStatus) CanTransition(next QuoteStatus) bool {
	for _, allowed := range quoteTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// QuoteLine is one configured chassis on a quote
type QuoteLine struct {
	LineNumber    int
	PartNumber    string
	ChassisTypeID ChassisTypeID
	Cards         []CardID
	Quantity      int
	UnitPrice     decimal.Decimal
	UnitCost      decimal.Decimal
}

// NewQuoteLine creates a validated QuoteLine
func NewQuoteLine(partNumber string, chassis ChassisTypeID, cards []CardID, qty int, unitPrice, unitCost decimal.Decimal) (*QuoteLine, error) {
	if partNumber == "" {
		return nil, fmt.Errorf("part number cannot be empty")
	}
	if qty <= 0 {
		return nil, fmt.Errorf("quantity must be positive, got %d", qty)
	}
	if unitPrice.IsNegative() || unitCost.IsNegative() {
		return nil, fmt.Errorf("price and cost cannot be negative")
	}
	return &QuoteLine{
		PartNumber:    partNumber,
		ChassisTypeID: chassis,
		Cards:         append([]CardID(nil), cards...),
		Quantity:      qty,
		UnitPrice:     unitPrice,
		UnitCost:      unitCost,
	}, nil
}

// ExtendedPrice returns UnitPrice * Quantity
func (l QuoteLine) ExtendedPrice() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// ExtendedCost returns UnitCost * Quantity
func (l QuoteLine) ExtendedCost() decimal.Decimal {
	return l.UnitCost.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Quote is a customer quote made of configured chassis lines
type Quote struct {
	ID        QuoteID
	Customer  string
	Status    QuoteStatus
	Lines     []QuoteLine
	CreatedAt time.Time
	UpdatedAt time.Time
}
