package schedule

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Fares-ag/blox-vercel-sub002/internal/domain"
	"github.com/Fares-ag/blox-vercel-sub002/pkg/utils"
)

// Validation thresholds. The gap threshold is 1.5 average months expressed
// in days; the sum tolerance and term drift come straight from the billing
// rules.
const (
	maxGapDays          = 46
	sumTolerancePercent = 5
	termDriftMonths     = 2
)

// Context carries the financing facts a schedule is checked against.
// Zero-valued fields disable their checks (an unknown expected term skips
// the span rule; a zero car value skips the sum rule).
type Context struct {
	Mode               string
	CarValue           decimal.Decimal
	DownPayment        decimal.Decimal
	ExpectedTermMonths int
	Now                time.Time
}

// Validate checks a generated or hand-edited schedule against the
// structural and financial rules. It never panics and never short-circuits:
// every rule runs and contributes to the report. Errors are hard blocks
// (callers must not persist); warnings are advisory and allow saving.
func Validate(entries []*domain.PaymentEntry, vctx Context) *domain.ValidationReport {
	report := &domain.ValidationReport{
		Errors:   []string{},
		Warnings: []string{},
	}

	checkEntryShape(entries, report)
	checkDuplicateDates(entries, report)
	checkDateSequence(entries, report)
	checkAmountSum(entries, vctx, report)
	checkPaidDates(entries, vctx, report)
	checkTermSpan(entries, vctx, report)

	report.IsValid = len(report.Errors) == 0
	return report
}

// Rule 1: every entry needs a positive amount, a due date and a status;
// paid entries need a paid date.
func checkEntryShape(entries []*domain.PaymentEntry, report *domain.ValidationReport) {
	for i, entry := range entries {
		if entry.Amount.Sign() <= 0 {
			report.Errors = append(report.Errors,
				fmt.Sprintf("entry %d: amount must be positive, got %s", i+1, entry.Amount))
		}
		if entry.DueDate.IsZero() {
			report.Errors = append(report.Errors,
				fmt.Sprintf("entry %d: due date is missing", i+1))
		}
		switch entry.Status {
		case domain.EntryStatusPaid:
			if entry.PaidDate == nil {
				report.Errors = append(report.Errors,
					fmt.Sprintf("entry %d: marked paid but has no paid date", i+1))
			}
		case domain.EntryStatusActive, domain.EntryStatusUpcoming:
		default:
			report.Errors = append(report.Errors,
				fmt.Sprintf("entry %d: unknown status %q", i+1, entry.Status))
		}
	}
}

// Rule 2: due dates are unique at day precision.
func checkDuplicateDates(entries []*domain.PaymentEntry, report *domain.ValidationReport) {
	seen := make(map[string]int, len(entries))
	for i, entry := range entries {
		if entry.DueDate.IsZero() {
			continue
		}
		day := utils.TruncateToDay(entry.DueDate).Format("2006-01-02")
		if first, ok := seen[day]; ok {
			report.Errors = append(report.Errors,
				fmt.Sprintf("entries %d and %d share the due date %s", first+1, i+1, day))
			continue
		}
		seen[day] = i
	}
}

// Rule 3: dates must not regress in array order, and consecutive dates
// (sorted) must not gap by more than 1.5 months, which catches accidentally
// skipped periods.
func checkDateSequence(entries []*domain.PaymentEntry, report *domain.ValidationReport) {
	for i := 1; i < len(entries); i++ {
		if entries[i].DueDate.Before(entries[i-1].DueDate) {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("entry %d is due before entry %d: due dates regress", i+1, i))
		}
	}

	sorted := make([]*domain.PaymentEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].DueDate.Before(sorted[j].DueDate)
	})

	for i := 1; i < len(sorted); i++ {
		gap := utils.DaysBetween(sorted[i-1].DueDate, sorted[i].DueDate)
		if gap > maxGapDays {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("gap of %d days between %s and %s looks like a skipped period",
					gap,
					utils.TruncateToDay(sorted[i-1].DueDate).Format("2006-01-02"),
					utils.TruncateToDay(sorted[i].DueDate).Format("2006-01-02")))
		}
	}
}

// Rule 4: outside amortized mode, the schedule total must land within 5% of
// the financed amount. Amortized totals include accrued interest, so the
// check does not apply there.
func checkAmountSum(entries []*domain.PaymentEntry, vctx Context, report *domain.ValidationReport) {
	if vctx.Mode == domain.ModeAmortizedFixed || vctx.CarValue.Sign() <= 0 {
		return
	}

	loanAmount := vctx.CarValue.Sub(vctx.DownPayment)
	if loanAmount.Sign() <= 0 {
		return
	}

	var total decimal.Decimal
	for _, entry := range entries {
		total = total.Add(entry.Amount)
	}

	tolerance := loanAmount.Mul(decimal.NewFromInt(sumTolerancePercent)).Div(hundred)
	diff := total.Sub(loanAmount).Abs()
	if diff.GreaterThan(tolerance) {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("schedule total %s deviates from financed amount %s by more than %d%%",
				total, loanAmount, sumTolerancePercent))
	}
}

// Rule 5: paid dates must not sit in the future and must not precede the
// due date by more than a year. Catches obviously wrong manual data.
func checkPaidDates(entries []*domain.PaymentEntry, vctx Context, report *domain.ValidationReport) {
	for i, entry := range entries {
		if !entry.IsPaid() || entry.PaidDate == nil {
			continue
		}
		paid := utils.TruncateToDay(*entry.PaidDate)
		if !vctx.Now.IsZero() && paid.After(utils.TruncateToDay(vctx.Now)) {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("entry %d: paid date %s is in the future", i+1, paid.Format("2006-01-02")))
		}
		if paid.Before(utils.AddMonths(entry.DueDate, -12)) {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("entry %d: paid date %s precedes the due date by more than a year", i+1, paid.Format("2006-01-02")))
		}
	}
}

// Rule 6: if the expected term is known, the actual span of the schedule
// must be within 2 months of it.
func checkTermSpan(entries []*domain.PaymentEntry, vctx Context, report *domain.ValidationReport) {
	if vctx.ExpectedTermMonths <= 0 || len(entries) < 2 {
		return
	}

	first, last := entries[0].DueDate, entries[0].DueDate
	for _, entry := range entries[1:] {
		if entry.DueDate.Before(first) {
			first = entry.DueDate
		}
		if entry.DueDate.After(last) {
			last = entry.DueDate
		}
	}

	span := utils.WholeMonthsBetween(first, last)
	drift := span - vctx.ExpectedTermMonths
	if drift < 0 {
		drift = -drift
	}
	if drift > termDriftMonths {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("schedule spans %d months but the term expects about %d", span, vctx.ExpectedTermMonths))
	}
}
