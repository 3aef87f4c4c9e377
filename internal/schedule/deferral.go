package schedule

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Fares-ag/blox-vercel-sub002/internal/domain"
	customError "github.com/Fares-ag/blox-vercel-sub002/pkg/errors"
	"github.com/Fares-ag/blox-vercel-sub002/pkg/utils"
)

// DeferralResult is the outcome of a deferral attempt. Updated=false with a
// Reason is a normal business outcome (quota exhausted), not an error; the
// input schedule comes back untouched in that case.
type DeferralResult struct {
	Updated bool
	Reason  string
	Entries []*domain.PaymentEntry
	Ledger  domain.DeferralLedger
	Report  *domain.ValidationReport
}

// Defer moves the entry due on targetDueDate one month out.
//
// A nil amountToDefer, or one at or above the entry amount, defers the whole
// entry: its due date slides one month and every later unpaid entry slides
// with it, extending the term by a month. An amount strictly between zero
// and the entry amount splits the entry: the original keeps the difference
// and a new entry carrying the deferred amount is inserted one month later,
// with the tail sliding the same way. An explicit non-positive amount is
// malformed input and fails fast.
//
// The quota comes from the caller-supplied ledger; on success the returned
// ledger has one more deferral consumed and the caller persists it. The
// input slice is never mutated: the new schedule is built aside and handed
// back whole, so a failure can never leave a half-edited schedule behind.
//
// Deferring is not idempotent: after a deferral the target entry lives at a
// new due date, and a second deferral must name that current date.
func Defer(
	entries []*domain.PaymentEntry,
	targetDueDate time.Time,
	amountToDefer *decimal.Decimal,
	ledger domain.DeferralLedger,
	vctx Context,
) (*DeferralResult, error) {
	if amountToDefer != nil && amountToDefer.Sign() <= 0 {
		return nil, customError.WrapInvalidFinancingInput("deferral amount must be positive")
	}

	if ledger.Remaining() <= 0 {
		return &DeferralResult{
			Updated: false,
			Reason:  fmt.Sprintf("no deferrals remaining for %d", ledger.Year),
			Entries: entries,
			Ledger:  ledger,
		}, nil
	}

	target := utils.TruncateToDay(targetDueDate)
	targetIdx := -1
	for i, entry := range entries {
		if utils.SameDay(entry.DueDate, target) {
			targetIdx = i
			break
		}
	}
	if targetIdx == -1 {
		return nil, customError.WrapEntryNotFound(target.Format("2006-01-02"))
	}
	if entries[targetIdx].IsPaid() {
		return nil, customError.WrapEntryAlreadyPaid(target.Format("2006-01-02"))
	}

	partial := amountToDefer != nil && amountToDefer.LessThan(entries[targetIdx].Amount)

	var updated []*domain.PaymentEntry
	if partial {
		updated = deferPartial(entries, targetIdx, *amountToDefer)
	} else {
		updated = deferFull(entries, targetIdx)
	}

	// Re-validate and report. A deferral that trips a soft warning is not
	// rolled back; the caller sees the report and saves anyway.
	report := Validate(updated, vctx)

	return &DeferralResult{
		Updated: true,
		Entries: updated,
		Ledger:  ledger.Consume(),
		Report:  report,
	}, nil
}

func deferFull(entries []*domain.PaymentEntry, targetIdx int) []*domain.PaymentEntry {
	updated := cloneEntries(entries)

	target := updated[targetIdx]
	originalDue := utils.TruncateToDay(target.DueDate)
	target.DueDate = utils.AddMonths(originalDue, 1)
	target.IsDeferred = true
	target.OriginalDueDate = &originalDue

	shiftTail(updated, targetIdx+1)
	return updated
}

func deferPartial(entries []*domain.PaymentEntry, targetIdx int, amount decimal.Decimal) []*domain.PaymentEntry {
	cloned := cloneEntries(entries)

	target := cloned[targetIdx]
	originalDue := utils.TruncateToDay(target.DueDate)
	originalAmount := target.Amount

	// The deferred amount comes out of principal first; only the overflow
	// touches rent. Component sums stay exact on both halves.
	deferredPrincipal := decimal.Min(amount, target.Principal)
	deferredRent := amount.Sub(deferredPrincipal)

	target.Amount = originalAmount.Sub(amount)
	target.Principal = target.Principal.Sub(deferredPrincipal)
	target.Rent = target.Rent.Sub(deferredRent)
	target.IsPartiallyDeferred = true
	target.DeferredAmount = &amount

	carried := &domain.PaymentEntry{
		FinancingID:     target.FinancingID,
		DueDate:         utils.AddMonths(originalDue, 1),
		Amount:          amount,
		Principal:       deferredPrincipal,
		Rent:            deferredRent,
		Status:          domain.EntryStatusUpcoming,
		IsDeferred:      true,
		OriginalDueDate: &originalDue,
		OriginalAmount:  &originalAmount,
	}

	updated := make([]*domain.PaymentEntry, 0, len(cloned)+1)
	updated = append(updated, cloned[:targetIdx+1]...)
	updated = append(updated, carried)
	updated = append(updated, cloned[targetIdx+1:]...)

	shiftTail(updated, targetIdx+2)
	return updated
}

// shiftTail slides every unpaid entry from index `from` onward one month
// forward. Paid entries keep their dates.
func shiftTail(entries []*domain.PaymentEntry, from int) {
	for i := from; i < len(entries); i++ {
		if entries[i].IsPaid() {
			continue
		}
		entries[i].DueDate = utils.AddMonths(entries[i].DueDate, 1)
	}
}

func cloneEntries(entries []*domain.PaymentEntry) []*domain.PaymentEntry {
	cloned := make([]*domain.PaymentEntry, len(entries))
	for i, entry := range entries {
		clone := *entry
		cloned[i] = &clone
	}
	return cloned
}
