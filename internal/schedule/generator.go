package schedule

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Fares-ag/blox-vercel-sub002/internal/domain"
	customError "github.com/Fares-ag/blox-vercel-sub002/pkg/errors"
	"github.com/Fares-ag/blox-vercel-sub002/pkg/utils"
)

// Generate builds the full ordered payment schedule for a financing input.
// "now" drives status assignment only: periods whose due date already
// elapsed come back as paid, the current period as active, the rest as
// upcoming. Two calls with identical input and now yield identical output;
// entry IDs are assigned at persistence time, not here.
//
// Manual-mode schedules are authored by the caller and only pass through
// Validate; asking the generator for one is an input error.
func Generate(input domain.FinancingInput, now time.Time) ([]*domain.PaymentEntry, error) {
	if err := checkInput(input); err != nil {
		return nil, err
	}

	switch input.Mode {
	case domain.ModeDynamicRent:
		if input.Interval == domain.IntervalDaily {
			return generateDynamicDaily(input, now), nil
		}
		return generateDynamicMonthly(input, now), nil
	case domain.ModeAmortizedFixed:
		return generateAmortized(input, now), nil
	case domain.ModeManual:
		return nil, customError.WrapInvalidFinancingInput("manual mode schedules are authored by the caller, not generated")
	default:
		return nil, customError.WrapInvalidFinancingInput("unknown financing mode: " + input.Mode)
	}
}

// checkInput fails fast on malformed input; nothing is ever clamped.
func checkInput(input domain.FinancingInput) error {
	switch {
	case input.CarValue.Sign() < 0:
		return customError.WrapInvalidFinancingInput("car value must not be negative")
	case input.DownPayment.Sign() < 0:
		return customError.WrapInvalidFinancingInput("down payment must not be negative")
	case input.DownPayment.GreaterThan(input.CarValue):
		return customError.WrapInvalidFinancingInput("down payment must not exceed car value")
	case input.TermMonths <= 0:
		return customError.WrapInvalidFinancingInput("term must be at least one month")
	case input.AnnualRate.Sign() < 0:
		return customError.WrapInvalidFinancingInput("annual rate must not be negative")
	case input.Interval != domain.IntervalMonthly && input.Interval != domain.IntervalDaily:
		return customError.WrapInvalidFinancingInput("unknown payment interval: " + input.Interval)
	case input.StartDate.IsZero():
		return customError.WrapInvalidFinancingInput("start date is required")
	}
	return nil
}

func generateDynamicMonthly(input domain.FinancingInput, now time.Time) []*domain.PaymentEntry {
	loan := input.LoanAmount()
	perPeriod := PrincipalPerPeriod(loan, input.TermMonths)
	start := utils.TruncateToDay(input.StartDate)

	entries := make([]*domain.PaymentEntry, 0, input.TermMonths)
	for m := 0; m < input.TermMonths; m++ {
		principal := perPeriod
		if m == input.TermMonths-1 {
			// Last period absorbs the flooring remainder so that the
			// principal components sum to the loan amount exactly.
			principal = loan.Sub(perPeriod.Mul(decimal.NewFromInt(int64(input.TermMonths - 1))))
		}

		ownership := CustomerOwnership(input.DownPayment, perPeriod, m)
		rent := utils.FloorAmount(Rent(input.CarValue, ownership, input.AnnualRate))
		dueDate := utils.AddMonths(start, m)

		entry := &domain.PaymentEntry{
			DueDate:   dueDate,
			Amount:    principal.Add(rent),
			Principal: principal,
			Rent:      rent,
		}
		assignStatus(entry, domain.IntervalMonthly, now)
		entries = append(entries, entry)
	}

	return entries
}

func generateDynamicDaily(input domain.FinancingInput, now time.Time) []*domain.PaymentEntry {
	loan := input.LoanAmount()
	perPeriod := PrincipalPerPeriod(loan, input.TermMonths)
	start := utils.TruncateToDay(input.StartDate)

	var entries []*domain.PaymentEntry
	anchor := start
	for m := 0; m < input.TermMonths; m++ {
		monthPrincipal := perPeriod
		if m == input.TermMonths-1 {
			monthPrincipal = loan.Sub(perPeriod.Mul(decimal.NewFromInt(int64(input.TermMonths - 1))))
		}

		// Ownership is a monthly snapshot: it moves once per month, never
		// per day. Daily rent is that month's rent spread over the month's
		// actual calendar length, not an annualRate/365 split.
		ownership := CustomerOwnership(input.DownPayment, perPeriod, m)
		monthRent := utils.FloorAmount(Rent(input.CarValue, ownership, input.AnnualRate))

		// Each window starts where the previous one ended, so due dates
		// stay unique and strictly increasing even for month-end start
		// days that time.AddDate would normalize onto each other.
		days := utils.DaysInMonth(anchor)
		dayCount := decimal.NewFromInt(int64(days))
		dayPrincipal := monthPrincipal.Div(dayCount).Floor()
		dayRent := monthRent.Div(dayCount).Floor()

		for d := 0; d < days; d++ {
			principal := dayPrincipal
			rent := dayRent
			if d == days-1 {
				// Last day of the month absorbs the remainder, so the
				// month's daily amounts sum to the monthly amount exactly.
				prior := decimal.NewFromInt(int64(days - 1))
				principal = monthPrincipal.Sub(dayPrincipal.Mul(prior))
				rent = monthRent.Sub(dayRent.Mul(prior))
			}

			entry := &domain.PaymentEntry{
				DueDate:   anchor.AddDate(0, 0, d),
				Amount:    principal.Add(rent),
				Principal: principal,
				Rent:      rent,
			}
			assignStatus(entry, domain.IntervalDaily, now)
			entries = append(entries, entry)
		}

		anchor = anchor.AddDate(0, 0, days)
	}

	return entries
}

func generateAmortized(input domain.FinancingInput, now time.Time) []*domain.PaymentEntry {
	loan := input.LoanAmount()
	payment := AmortizedPayment(loan, input.AnnualRate, input.TermMonths)
	monthlyRate := input.AnnualRate.Div(periodsPerYear)
	start := utils.TruncateToDay(input.StartDate)

	balance := loan
	entries := make([]*domain.PaymentEntry, 0, input.TermMonths)
	for m := 0; m < input.TermMonths; m++ {
		interest := utils.FloorAmount(balance.Mul(monthlyRate))
		principal := payment.Sub(interest)
		balance = balance.Sub(principal)

		entry := &domain.PaymentEntry{
			DueDate:   utils.AddMonths(start, m),
			Amount:    payment,
			Principal: principal,
			Rent:      interest,
		}
		assignStatus(entry, domain.IntervalMonthly, now)
		entries = append(entries, entry)
	}

	return entries
}

// assignStatus derives an entry's status from its due date and the injected
// now. Monthly entries compare at calendar-month granularity, daily entries
// at exact days. Already-elapsed periods present as settled, with paidDate
// equal to the due date.
func assignStatus(entry *domain.PaymentEntry, interval string, now time.Time) {
	due := utils.TruncateToDay(entry.DueDate)
	today := utils.TruncateToDay(now)

	var current bool
	if interval == domain.IntervalDaily {
		current = due.Equal(today)
	} else {
		current = utils.SameMonth(due, today)
	}

	switch {
	case current:
		entry.Status = domain.EntryStatusActive
	case due.Before(today):
		paidDate := due
		entry.Status = domain.EntryStatusPaid
		entry.PaidDate = &paidDate
	default:
		entry.Status = domain.EntryStatusUpcoming
	}
}

// RefreshStatuses recomputes active/upcoming against an injected now and
// returns a fresh slice; the input is never mutated. Paid entries are left
// alone: only a recorded payment marks an entry paid, a clock tick never
// does. A past-due unpaid entry presents as active (it is owed now).
func RefreshStatuses(entries []*domain.PaymentEntry, interval string, now time.Time) []*domain.PaymentEntry {
	today := utils.TruncateToDay(now)

	refreshed := make([]*domain.PaymentEntry, len(entries))
	for i, entry := range entries {
		clone := *entry
		if !clone.IsPaid() {
			due := utils.TruncateToDay(clone.DueDate)
			future := due.After(today)
			if interval != domain.IntervalDaily && utils.SameMonth(due, today) {
				future = false
			}
			if future {
				clone.Status = domain.EntryStatusUpcoming
			} else {
				clone.Status = domain.EntryStatusActive
			}
		}
		refreshed[i] = &clone
	}

	return refreshed
}
