package schedule

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fares-ag/blox-vercel-sub002/internal/domain"
)

// remainingEntries builds six unpaid monthly entries of 9000 principal and
// 1000 rent each: originalTotal 60000, principal 54000, rent 6000.
func remainingEntries() []*domain.PaymentEntry {
	entries := make([]*domain.PaymentEntry, 6)
	for i := range entries {
		entries[i] = &domain.PaymentEntry{
			DueDate:   day(2026, time.Month(i+1), 15),
			Amount:    decimal.NewFromInt(10000),
			Principal: decimal.NewFromInt(9000),
			Rent:      decimal.NewFromInt(1000),
			Status:    domain.EntryStatusUpcoming,
		}
	}
	return entries
}

func flatPolicy(principalPct, interestPct int64) domain.DiscountPolicy {
	return domain.DiscountPolicy{
		PrincipalDiscount: domain.DiscountSetting{
			Enabled: true,
			Type:    domain.DiscountTypePercentage,
			Value:   decimal.NewFromInt(principalPct),
		},
		InterestDiscount: domain.DiscountSetting{
			Enabled: true,
			Type:    domain.DiscountTypePercentage,
			Value:   decimal.NewFromInt(interestPct),
		},
	}
}

func TestQuote_FlatPercentageDiscount(t *testing.T) {
	asOf := day(2026, 1, 1) // last due 2026-06-15, five full months ahead

	quote, err := Quote(remainingEntries(), flatPolicy(10, 50), asOf)
	require.NoError(t, err)

	assert.Equal(t, 5, quote.MonthsEarly)
	assert.True(t, quote.OriginalTotal.Equal(decimal.NewFromInt(60000)))
	// 10% of 54000 principal + 50% of 6000 rent = 5400 + 3000.
	assert.True(t, quote.TotalDiscount.Equal(decimal.NewFromInt(8400)), "got %v", quote.TotalDiscount)
	assert.True(t, quote.FinalAmount.Equal(decimal.NewFromInt(51600)))
}

func TestQuote_DiscountFloor(t *testing.T) {
	// Less than one full month ahead never qualifies, for every policy.
	policies := []domain.DiscountPolicy{
		flatPolicy(50, 50),
		{
			TieredDiscounts: []domain.DiscountTier{
				{MinMonthsEarly: 0, PrincipalDiscount: decimal.NewFromInt(90), Type: domain.DiscountTypePercentage},
			},
		},
	}

	asOf := day(2026, 5, 20) // last due 2026-06-15: under a month away

	for _, policy := range policies {
		quote, err := Quote(remainingEntries(), policy, asOf)
		require.NoError(t, err)
		assert.Less(t, quote.MonthsEarly, 1)
		assert.True(t, quote.TotalDiscount.IsZero())
		assert.True(t, quote.FinalAmount.Equal(quote.OriginalTotal))
	}
}

func TestQuote_TierSelection(t *testing.T) {
	three := 3
	policy := domain.DiscountPolicy{
		TieredDiscounts: []domain.DiscountTier{
			{MinMonthsEarly: 1, MaxMonthsEarly: &three, PrincipalDiscount: decimal.NewFromInt(5), InterestDiscount: decimal.NewFromInt(10), Type: domain.DiscountTypePercentage},
			{MinMonthsEarly: 4, PrincipalDiscount: decimal.NewFromInt(10), InterestDiscount: decimal.NewFromInt(20), Type: domain.DiscountTypePercentage},
		},
		// Flat settings present but tiers win when one matches.
		PrincipalDiscount: domain.DiscountSetting{Enabled: true, Type: domain.DiscountTypePercentage, Value: decimal.NewFromInt(1)},
	}

	// 5 months early: the 4+ tier applies (largest matching MinMonthsEarly).
	quote, err := Quote(remainingEntries(), policy, day(2026, 1, 1))
	require.NoError(t, err)
	// 10% of 54000 + 20% of 6000 = 5400 + 1200.
	assert.True(t, quote.TotalDiscount.Equal(decimal.NewFromInt(6600)), "got %v", quote.TotalDiscount)

	// 2 months early: bracketed by the 1..3 tier.
	quote, err = Quote(remainingEntries(), policy, day(2026, 4, 1))
	require.NoError(t, err)
	assert.Equal(t, 2, quote.MonthsEarly)
	// 5% of 54000 + 10% of 6000 = 2700 + 600.
	assert.True(t, quote.TotalDiscount.Equal(decimal.NewFromInt(3300)), "got %v", quote.TotalDiscount)
}

func TestQuote_FixedDiscountType(t *testing.T) {
	policy := domain.DiscountPolicy{
		PrincipalDiscount: domain.DiscountSetting{
			Enabled: true,
			Type:    domain.DiscountTypeFixed,
			Value:   decimal.NewFromInt(2500),
		},
	}

	quote, err := Quote(remainingEntries(), policy, day(2026, 1, 1))
	require.NoError(t, err)
	assert.True(t, quote.TotalDiscount.Equal(decimal.NewFromInt(2500)))
	assert.True(t, quote.FinalAmount.Equal(decimal.NewFromInt(57500)))
}

func TestQuote_CapsClipTheDiscount(t *testing.T) {
	policy := flatPolicy(50, 50)
	policy.MaxDiscountAmount = decimal.NewFromInt(10000)
	policy.MaxDiscountPercentage = decimal.NewFromInt(10) // 10% of 60000 = 6000, tighter

	quote, err := Quote(remainingEntries(), policy, day(2026, 1, 1))
	require.NoError(t, err)
	assert.True(t, quote.TotalDiscount.Equal(decimal.NewFromInt(6000)), "got %v", quote.TotalDiscount)
}

func TestQuote_MinSettlementAmount(t *testing.T) {
	// Below the minimum, no discount applies at all.
	policy := flatPolicy(10, 10)
	policy.MinSettlementAmount = decimal.NewFromInt(70000)

	quote, err := Quote(remainingEntries(), policy, day(2026, 1, 1))
	require.NoError(t, err)
	assert.True(t, quote.TotalDiscount.IsZero())

	// Above it, the final amount never drops below the minimum.
	policy.MinSettlementAmount = decimal.NewFromInt(55000)
	policy.PrincipalDiscount.Value = decimal.NewFromInt(50)
	quote, err = Quote(remainingEntries(), policy, day(2026, 1, 1))
	require.NoError(t, err)
	assert.True(t, quote.FinalAmount.Equal(decimal.NewFromInt(55000)), "got %v", quote.FinalAmount)
	assert.True(t, quote.TotalDiscount.Equal(decimal.NewFromInt(5000)))
}

func TestQuote_MinRemainingPayments(t *testing.T) {
	policy := flatPolicy(10, 10)
	policy.MinRemainingPayments = 10

	quote, err := Quote(remainingEntries(), policy, day(2026, 1, 1))
	require.NoError(t, err)
	assert.True(t, quote.TotalDiscount.IsZero())
}

func TestQuote_ManualEntriesWithoutComponents(t *testing.T) {
	entries := []*domain.PaymentEntry{
		{DueDate: day(2026, 3, 15), Amount: decimal.NewFromInt(20000), Status: domain.EntryStatusUpcoming},
		{DueDate: day(2026, 4, 15), Amount: decimal.NewFromInt(20000), Status: domain.EntryStatusUpcoming},
	}

	// Without a component split the whole amount counts as principal.
	quote, err := Quote(entries, flatPolicy(10, 50), day(2026, 1, 1))
	require.NoError(t, err)
	assert.True(t, quote.TotalDiscount.Equal(decimal.NewFromInt(4000)), "got %v", quote.TotalDiscount)
}

func TestQuote_EmptyRemaining(t *testing.T) {
	quote, err := Quote(nil, flatPolicy(10, 10), day(2026, 1, 1))
	assert.Error(t, err)
	assert.Nil(t, quote)
}

func TestQuote_DisabledSettingsGiveNoDiscount(t *testing.T) {
	quote, err := Quote(remainingEntries(), domain.DiscountPolicy{}, day(2026, 1, 1))
	require.NoError(t, err)
	assert.True(t, quote.TotalDiscount.IsZero())
	assert.True(t, quote.FinalAmount.Equal(quote.OriginalTotal))
}
