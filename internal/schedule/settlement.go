package schedule

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Fares-ag/blox-vercel-sub002/internal/domain"
	customError "github.com/Fares-ag/blox-vercel-sub002/pkg/errors"
	"github.com/Fares-ag/blox-vercel-sub002/pkg/utils"
)

// Quote computes an early-payoff total for the not-yet-paid tail of a
// schedule. A zero discount is a normal quote, not an error: the customer
// simply is not eligible. Discount values are percentage points for the
// percentage type and absolute amounts for the fixed type.
//
// Eligibility floors, in order: the customer must be at least one full
// month ahead of schedule, the remaining entry count must meet
// MinRemainingPayments, and the remaining total must meet
// MinSettlementAmount. Any floor missed returns the undiscounted total.
func Quote(remaining []*domain.PaymentEntry, policy domain.DiscountPolicy, asOfDate time.Time) (*domain.SettlementQuote, error) {
	if len(remaining) == 0 {
		return nil, customError.NewBusinessError(
			customError.ErrCodeEmptySchedule,
			"settlement quote needs at least one remaining entry",
			customError.ErrEmptySchedule,
		)
	}

	var originalTotal, principalTotal, rentTotal decimal.Decimal
	lastDue := remaining[0].DueDate
	for _, entry := range remaining {
		if entry.IsPaid() {
			return nil, customError.WrapEntryAlreadyPaid(utils.TruncateToDay(entry.DueDate).Format("2006-01-02"))
		}
		originalTotal = originalTotal.Add(entry.Amount)
		if entry.Principal.IsZero() && entry.Rent.IsZero() {
			// Manual entries without a component split count as principal.
			principalTotal = principalTotal.Add(entry.Amount)
		} else {
			principalTotal = principalTotal.Add(entry.Principal)
			rentTotal = rentTotal.Add(entry.Rent)
		}
		if entry.DueDate.After(lastDue) {
			lastDue = entry.DueDate
		}
	}

	quote := &domain.SettlementQuote{
		AsOfDate:      utils.TruncateToDay(asOfDate),
		OriginalTotal: originalTotal,
		TotalDiscount: decimal.Zero,
		FinalAmount:   originalTotal,
		MonthsEarly:   utils.WholeMonthsBetween(asOfDate, lastDue),
	}

	// Hard floor: less than one full month ahead never qualifies,
	// regardless of tier boundaries.
	if quote.MonthsEarly < 1 {
		return quote, nil
	}
	if policy.MinRemainingPayments > 0 && len(remaining) < policy.MinRemainingPayments {
		return quote, nil
	}
	if policy.MinSettlementAmount.Sign() > 0 && originalTotal.LessThan(policy.MinSettlementAmount) {
		return quote, nil
	}

	var discount decimal.Decimal
	if tier := selectTier(policy.TieredDiscounts, quote.MonthsEarly); tier != nil {
		discount = applyDiscount(principalTotal, tier.PrincipalDiscount, tier.Type).
			Add(applyDiscount(rentTotal, tier.InterestDiscount, tier.Type)).
			Add(applyDiscount(originalTotal, tier.InstallmentDiscount, tier.Type))
	} else {
		discount = applySetting(principalTotal, policy.PrincipalDiscount).
			Add(applySetting(rentTotal, policy.InterestDiscount))
	}

	// Caps: whichever is tighter wins.
	if policy.MaxDiscountAmount.Sign() > 0 {
		discount = decimal.Min(discount, policy.MaxDiscountAmount)
	}
	if policy.MaxDiscountPercentage.Sign() > 0 {
		discount = decimal.Min(discount, originalTotal.Mul(policy.MaxDiscountPercentage).Div(hundred))
	}
	discount = utils.FloorAmount(discount)

	final := originalTotal.Sub(discount)
	if final.Sign() < 0 {
		final = decimal.Zero
	}
	if policy.MinSettlementAmount.Sign() > 0 && final.LessThan(policy.MinSettlementAmount) {
		final = decimal.Min(policy.MinSettlementAmount, originalTotal)
	}

	quote.TotalDiscount = originalTotal.Sub(final)
	quote.FinalAmount = final
	return quote, nil
}

// selectTier picks the single applicable tier: the one with the largest
// MinMonthsEarly at or below monthsEarly whose MaxMonthsEarly (if present)
// is not exceeded.
func selectTier(tiers []domain.DiscountTier, monthsEarly int) *domain.DiscountTier {
	var selected *domain.DiscountTier
	for i := range tiers {
		tier := &tiers[i]
		if monthsEarly < tier.MinMonthsEarly {
			continue
		}
		if tier.MaxMonthsEarly != nil && monthsEarly > *tier.MaxMonthsEarly {
			continue
		}
		if selected == nil || tier.MinMonthsEarly > selected.MinMonthsEarly {
			selected = tier
		}
	}
	return selected
}

func applySetting(base decimal.Decimal, setting domain.DiscountSetting) decimal.Decimal {
	if !setting.Enabled {
		return decimal.Zero
	}
	if setting.MinAmount.Sign() > 0 && base.LessThan(setting.MinAmount) {
		return decimal.Zero
	}
	return applyDiscount(base, setting.Value, setting.Type)
}

func applyDiscount(base, value decimal.Decimal, discountType string) decimal.Decimal {
	if base.Sign() <= 0 || value.Sign() <= 0 {
		return decimal.Zero
	}
	if discountType == domain.DiscountTypeFixed {
		return decimal.Min(value, base)
	}
	return base.Mul(value).Div(hundred)
}
