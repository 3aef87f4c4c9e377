package schedule

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fares-ag/blox-vercel-sub002/internal/domain"
	"github.com/Fares-ag/blox-vercel-sub002/pkg/utils"
)

func dynamicInput(interval string) domain.FinancingInput {
	return domain.FinancingInput{
		CarValue:    decimal.NewFromInt(100000),
		DownPayment: decimal.NewFromInt(10000),
		TermMonths:  10,
		AnnualRate:  decimal.NewFromFloat(0.12),
		Interval:    interval,
		Mode:        domain.ModeDynamicRent,
		StartDate:   time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestGenerate_DynamicRentMonthly(t *testing.T) {
	now := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC) // before the schedule starts
	entries, err := Generate(dynamicInput(domain.IntervalMonthly), now)
	require.NoError(t, err)
	require.Len(t, entries, 10)

	// First period: 9000 principal + 1% of the financier's 90000 share.
	assert.True(t, entries[0].Amount.Equal(decimal.NewFromInt(9900)), "got %v", entries[0].Amount)
	// Last period: 9000 principal + 1% of the remaining 9000 share.
	assert.True(t, entries[9].Amount.Equal(decimal.NewFromInt(9090)), "got %v", entries[9].Amount)

	assert.Equal(t, time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), entries[0].DueDate)
	assert.Equal(t, time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC), entries[9].DueDate)

	for _, entry := range entries {
		assert.Equal(t, domain.EntryStatusUpcoming, entry.Status)
	}
}

func TestGenerate_PrincipalConservation(t *testing.T) {
	// 80000 over 12 months does not divide evenly; the last period must
	// absorb the remainder so principal is conserved exactly.
	input := dynamicInput(domain.IntervalMonthly)
	input.DownPayment = decimal.NewFromInt(20000)
	input.TermMonths = 12

	entries, err := Generate(input, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	var principalSum decimal.Decimal
	for _, entry := range entries {
		principalSum = principalSum.Add(entry.Principal)
	}
	assert.True(t, principalSum.Equal(decimal.NewFromInt(80000)),
		"principal must be conserved exactly, got %v", principalSum)
}

func TestGenerate_MonotonicDates(t *testing.T) {
	for _, interval := range []string{domain.IntervalMonthly, domain.IntervalDaily} {
		t.Run(interval, func(t *testing.T) {
			entries, err := Generate(dynamicInput(interval), time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC))
			require.NoError(t, err)
			for i := 1; i < len(entries); i++ {
				assert.True(t, entries[i-1].DueDate.Before(entries[i].DueDate),
					"due dates must strictly increase at index %d", i)
			}
		})
	}
}

func TestGenerate_DailyMatchesMonthlyPerMonth(t *testing.T) {
	now := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	monthly, err := Generate(dynamicInput(domain.IntervalMonthly), now)
	require.NoError(t, err)
	daily, err := Generate(dynamicInput(domain.IntervalDaily), now)
	require.NoError(t, err)

	idx := 0
	for m, monthEntry := range monthly {
		days := utils.DaysInMonth(monthEntry.DueDate)
		var monthSum decimal.Decimal
		for d := 0; d < days; d++ {
			monthSum = monthSum.Add(daily[idx].Amount)
			idx++
		}
		assert.True(t, monthSum.Equal(monthEntry.Amount),
			"month %d: daily sum %v != monthly amount %v", m, monthSum, monthEntry.Amount)
	}
	assert.Equal(t, idx, len(daily))
}

func TestGenerate_DailyMonthEndStartDays(t *testing.T) {
	// Start days late in the month are the ones time.AddDate normalizes
	// (Jan 30 + 1 month lands in early March); the month windows must stay
	// contiguous so due dates remain unique and strictly increasing.
	for startDay := 28; startDay <= 31; startDay++ {
		t.Run(time.Date(2026, 1, startDay, 0, 0, 0, 0, time.UTC).Format("2006-01-02"), func(t *testing.T) {
			input := dynamicInput(domain.IntervalDaily)
			input.StartDate = time.Date(2026, 1, startDay, 0, 0, 0, 0, time.UTC)

			entries, err := Generate(input, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC))
			require.NoError(t, err)

			for i := 1; i < len(entries); i++ {
				require.True(t, entries[i-1].DueDate.Before(entries[i].DueDate),
					"due dates must strictly increase at index %d: %s then %s",
					i, entries[i-1].DueDate.Format("2006-01-02"), entries[i].DueDate.Format("2006-01-02"))
			}

			var principalSum decimal.Decimal
			for _, entry := range entries {
				principalSum = principalSum.Add(entry.Principal)
			}
			assert.True(t, principalSum.Equal(decimal.NewFromInt(90000)), "got %v", principalSum)

			report := Validate(entries, Context{})
			assert.True(t, report.IsValid, "errors: %v", report.Errors)
			assert.Empty(t, report.Errors)
		})
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	first, err := Generate(dynamicInput(domain.IntervalMonthly), now)
	require.NoError(t, err)
	second, err := Generate(dynamicInput(domain.IntervalMonthly), now)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestGenerate_AmortizedInterestFree(t *testing.T) {
	input := domain.FinancingInput{
		CarValue:    decimal.NewFromInt(100000),
		DownPayment: decimal.NewFromInt(20000),
		TermMonths:  12,
		AnnualRate:  decimal.Zero,
		Interval:    domain.IntervalMonthly,
		Mode:        domain.ModeAmortizedFixed,
		StartDate:   time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	}

	entries, err := Generate(input, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, entries, 12)

	var total decimal.Decimal
	for _, entry := range entries {
		assert.True(t, entry.Amount.Equal(decimal.NewFromInt(6666)),
			"every installment is floor(80000/12), got %v", entry.Amount)
		total = total.Add(entry.Amount)
	}
	// The 8 units lost to flooring are expected and asserted, not hidden.
	assert.True(t, total.Equal(decimal.NewFromInt(79992)), "got %v", total)
}

func TestGenerate_StatusAssignmentFromPast(t *testing.T) {
	input := dynamicInput(domain.IntervalMonthly)
	input.StartDate = time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)

	entries, err := Generate(input, now)
	require.NoError(t, err)

	// Jan and Feb entries elapsed, March is the current month.
	require.Len(t, entries, 10)
	assert.Equal(t, domain.EntryStatusPaid, entries[0].Status)
	require.NotNil(t, entries[0].PaidDate)
	assert.Equal(t, entries[0].DueDate, *entries[0].PaidDate)
	assert.Equal(t, domain.EntryStatusPaid, entries[1].Status)
	assert.Equal(t, domain.EntryStatusActive, entries[2].Status)
	assert.Equal(t, domain.EntryStatusUpcoming, entries[3].Status)
}

func TestGenerate_DailyStatusComparesDays(t *testing.T) {
	input := dynamicInput(domain.IntervalDaily)
	now := time.Date(2026, 1, 17, 0, 0, 0, 0, time.UTC) // two days into the schedule

	entries, err := Generate(input, now)
	require.NoError(t, err)

	assert.Equal(t, domain.EntryStatusPaid, entries[0].Status)
	assert.Equal(t, domain.EntryStatusPaid, entries[1].Status)
	assert.Equal(t, domain.EntryStatusActive, entries[2].Status)
	assert.Equal(t, domain.EntryStatusUpcoming, entries[3].Status)
}

func TestGenerate_InputErrors(t *testing.T) {
	base := dynamicInput(domain.IntervalMonthly)

	tests := []struct {
		name   string
		mutate func(*domain.FinancingInput)
	}{
		{name: "down payment exceeds car value", mutate: func(in *domain.FinancingInput) {
			in.DownPayment = decimal.NewFromInt(200000)
		}},
		{name: "negative car value", mutate: func(in *domain.FinancingInput) {
			in.CarValue = decimal.NewFromInt(-1)
		}},
		{name: "zero term", mutate: func(in *domain.FinancingInput) {
			in.TermMonths = 0
		}},
		{name: "negative rate", mutate: func(in *domain.FinancingInput) {
			in.AnnualRate = decimal.NewFromFloat(-0.01)
		}},
		{name: "unknown interval", mutate: func(in *domain.FinancingInput) {
			in.Interval = "weekly"
		}},
		{name: "missing start date", mutate: func(in *domain.FinancingInput) {
			in.StartDate = time.Time{}
		}},
		{name: "manual mode is not generated", mutate: func(in *domain.FinancingInput) {
			in.Mode = domain.ModeManual
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := base
			tt.mutate(&input)
			entries, err := Generate(input, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
			assert.Error(t, err)
			assert.Nil(t, entries)
		})
	}
}

func TestGenerate_ZeroRateIsSupported(t *testing.T) {
	input := dynamicInput(domain.IntervalMonthly)
	input.AnnualRate = decimal.Zero

	entries, err := Generate(input, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	for _, entry := range entries {
		assert.True(t, entry.Rent.IsZero())
		assert.True(t, entry.Amount.Equal(entry.Principal))
	}
}

func TestRefreshStatuses(t *testing.T) {
	input := dynamicInput(domain.IntervalMonthly)
	entries, err := Generate(input, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, domain.EntryStatusUpcoming, entries[0].Status)

	refreshed := RefreshStatuses(entries, domain.IntervalMonthly, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))

	// Jan entry is past due but unpaid: it presents as active, never as
	// paid. Feb is current, March onward upcoming.
	assert.Equal(t, domain.EntryStatusActive, refreshed[0].Status)
	assert.Nil(t, refreshed[0].PaidDate)
	assert.Equal(t, domain.EntryStatusActive, refreshed[1].Status)
	assert.Equal(t, domain.EntryStatusUpcoming, refreshed[2].Status)

	// Input untouched.
	assert.Equal(t, domain.EntryStatusUpcoming, entries[0].Status)
}
