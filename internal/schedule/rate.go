// Package schedule is the payment-schedule engine for declining-ownership
// asset financing. Every function is pure: no I/O, no wall-clock reads,
// "now" is always an explicit parameter.
package schedule

import (
	"github.com/shopspring/decimal"
)

// Rent accrues monthly regardless of payment interval; daily entries carry
// the month's rent spread over that month's actual day count.
var periodsPerYear = decimal.NewFromInt(12)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// PrincipalPerPeriod returns the fixed principal share of one period,
// floored to the currency's smallest unit. The last period of a schedule
// absorbs the flooring remainder so principal is conserved exactly.
func PrincipalPerPeriod(loanAmount decimal.Decimal, periods int) decimal.Decimal {
	if periods <= 0 {
		return decimal.Zero
	}
	return loanAmount.Div(decimal.NewFromInt(int64(periods))).Floor()
}

// CustomerOwnership returns the customer's equity after periodIndex periods
// have been paid. periodIndex is 0-based and counted in months even under a
// daily interval.
func CustomerOwnership(downPayment, principalPerPeriod decimal.Decimal, periodIndex int) decimal.Decimal {
	return downPayment.Add(principalPerPeriod.Mul(decimal.NewFromInt(int64(periodIndex))))
}

// Rent returns one month's rent on the financier's remaining share:
// (carValue - ownership) * annualRate / 12. annualRate is a fraction,
// e.g. 0.12.
func Rent(carValue, ownership, annualRate decimal.Decimal) decimal.Decimal {
	return carValue.Sub(ownership).Mul(annualRate).Div(periodsPerYear)
}

// AmortizedPayment returns the classic fixed installment
// P*r*(1+r)^n / ((1+r)^n - 1) with r = annualRate/12, floored to the
// currency's smallest unit. A rate of zero is a first-class input and
// degrades to principal/months.
func AmortizedPayment(principal, annualRate decimal.Decimal, months int) decimal.Decimal {
	if months <= 0 {
		return decimal.Zero
	}
	n := decimal.NewFromInt(int64(months))
	if annualRate.Sign() <= 0 {
		return principal.Div(n).Floor()
	}

	monthlyRate := annualRate.Div(periodsPerYear)
	growth := one.Add(monthlyRate).Pow(n)
	payment := principal.Mul(monthlyRate).Mul(growth).Div(growth.Sub(one))

	return payment.Floor()
}
