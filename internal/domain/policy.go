package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Discount types
const (
	DiscountTypePercentage = "percentage"
	DiscountTypeFixed      = "fixed"
)

// DiscountSetting is one flat discount component of a settlement policy.
type DiscountSetting struct {
	Enabled   bool            `json:"enabled"`
	Type      string          `json:"type"` // percentage, fixed
	Value     decimal.Decimal `json:"value"`
	MinAmount decimal.Decimal `json:"min_amount"`
}

// DiscountTier is one bracket of an early-settlement ladder. A tier matches
// when monthsEarly >= MinMonthsEarly and, if MaxMonthsEarly is set,
// monthsEarly <= MaxMonthsEarly. At most one tier applies.
type DiscountTier struct {
	MinMonthsEarly      int             `json:"min_months_early"`
	MaxMonthsEarly      *int            `json:"max_months_early,omitempty"`
	PrincipalDiscount   decimal.Decimal `json:"principal_discount"`
	InterestDiscount    decimal.Decimal `json:"interest_discount"`
	InstallmentDiscount decimal.Decimal `json:"installment_discount"`
	Type                string          `json:"type"` // percentage, fixed
}

// DiscountPolicy configures the settlement discount calculator.
// Zero-valued caps mean uncapped.
type DiscountPolicy struct {
	PrincipalDiscount     DiscountSetting `json:"principal_discount"`
	InterestDiscount      DiscountSetting `json:"interest_discount"`
	TieredDiscounts       []DiscountTier  `json:"tiered_discounts"`
	MaxDiscountAmount     decimal.Decimal `json:"max_discount_amount"`
	MaxDiscountPercentage decimal.Decimal `json:"max_discount_percentage"`
	MinSettlementAmount   decimal.Decimal `json:"min_settlement_amount"`
	MinRemainingPayments  int             `json:"min_remaining_payments"`
}

// SettlementQuote is the read-only result of an early-payoff calculation.
// The caller decides whether to execute it against the schedule.
type SettlementQuote struct {
	FinancingID   string          `json:"financing_id,omitempty"`
	AsOfDate      time.Time       `json:"as_of_date"`
	OriginalTotal decimal.Decimal `json:"original_total"`
	TotalDiscount decimal.Decimal `json:"total_discount"`
	FinalAmount   decimal.Decimal `json:"final_amount"`
	MonthsEarly   int             `json:"months_early"`
}
