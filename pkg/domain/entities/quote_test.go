package entities

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestQuoteStatus_Transitions(t *testing.T) {
	testCases := []struct {
		from QuoteStatus
		to   QuoteStatus
		ok   bool
	}{
		{QuoteDraft, QuotePendingApproval, true},
		{QuoteDraft, QuoteApproved, false},
		{QuotePendingApproval, QuoteApproved, true},
		{QuotePendingApproval, QuoteRejected, true},
		{QuoteRejected, QuoteDraft, true},
		{QuoteApproved, QuoteDraft, false},
	}

	for _, tc := range testCases {
		if got := tc.from.CanTransition(tc.to); got != tc.ok {
			t.Errorf("%s -> %s: expected %v, got %v", tc.from, tc.to, tc.ok, got)
		}
	}

	if _, err := ParseQuoteStatus("shipped"); err == nil {
		t.Errorf("Expected error for unknown status")
	}
}

func TestQuoteLine_Extended(t *testing.T) {
	line, err := NewQuoteLine("STX-00BB-0", "STX", []CardID{"BUSH"}, 3, decimal.RequireFromString("100.50"), decimal.NewFromInt(60))
	if err != nil {
		t.Fatalf("NewQuoteLine failed: %v", err)
	}
	if !line.ExtendedPrice().Equal(decimal.RequireFromString("301.50")) {
		t.Errorf("Expected extended price 301.50, got %s", line.ExtendedPrice())
	}
	if !line.ExtendedCost().Equal(decimal.NewFromInt(180)) {
		t.Errorf("Expected extended cost 180, got %s", line.ExtendedCost())
	}

	if _, err := NewQuoteLine("PN", "STX", nil, 0, decimal.Zero, decimal.Zero); err == nil {
		t.Errorf("Expected error for zero quantity")
	}
	if _, err := NewQuoteLine("PN", "STX", nil, 1, decimal.NewFromInt(-1), decimal.Zero); err == nil {
		t.Errorf("Expected error for negative price")
	}
}
