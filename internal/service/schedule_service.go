package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Fares-ag/blox-vercel-sub002/internal/config"
	"github.com/Fares-ag/blox-vercel-sub002/internal/domain"
	"github.com/Fares-ag/blox-vercel-sub002/internal/repository"
	"github.com/Fares-ag/blox-vercel-sub002/internal/schedule"
	customError "github.com/Fares-ag/blox-vercel-sub002/pkg/errors"
	"github.com/Fares-ag/blox-vercel-sub002/pkg/utils"
)

// ScheduleService orchestrates the schedule engine against storage. The
// engine itself is pure; this layer owns clocks, ids and persistence, and
// implements the read-modify-write discipline the engine requires.
type ScheduleService struct {
	FinancingRepo repository.FinancingRepository
	LedgerRepo    repository.DeferralLedgerRepository
	config        *config.Config
	now           func() time.Time
}

func NewScheduleService(
	financingRepo repository.FinancingRepository,
	ledgerRepo repository.DeferralLedgerRepository,
	config *config.Config,
) *ScheduleService {
	return &ScheduleService{
		FinancingRepo: financingRepo,
		LedgerRepo:    ledgerRepo,
		config:        config,
		now:           time.Now,
	}
}

// CreateFinancing generates (or, in manual mode, accepts) a schedule,
// validates it and persists both the financing and its entries. Hard
// validation errors block persistence; warnings are returned alongside the
// saved schedule.
func (s *ScheduleService) CreateFinancing(ctx context.Context, request *domain.CreateFinancingRequest) (*domain.CreateFinancingResponse, error) {
	existing, err := s.FinancingRepo.GetByFinancingID(ctx, request.FinancingID)
	if err == nil && existing != nil {
		return nil, customError.WrapFinancingAlreadyExists(request.FinancingID)
	}
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapDatabaseError(err)
	}

	now := s.now()
	financing := &domain.Financing{
		ID:          uuid.New(),
		FinancingID: request.FinancingID,
		SubjectID:   request.SubjectID,
		CarValue:    request.CarValue,
		DownPayment: request.DownPayment,
		TermMonths:  request.TermMonths,
		AnnualRate:  request.AnnualRate,
		Interval:    request.Interval,
		Mode:        request.Mode,
		StartDate:   utils.TruncateToDay(request.StartDate),
		Status:      domain.FinancingStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var entries []*domain.PaymentEntry
	if request.Mode == domain.ModeManual {
		if len(request.Entries) == 0 {
			return nil, customError.WrapInvalidFinancingInput("manual mode requires a caller-authored schedule")
		}
		entries = request.Entries
	} else {
		entries, err = schedule.Generate(financing.Input(), now)
		if err != nil {
			return nil, err
		}
	}

	report := schedule.Validate(entries, s.validationContext(financing))
	if !report.IsValid {
		return nil, customError.WrapScheduleInvalid(report.Errors)
	}

	for _, entry := range entries {
		entry.FinancingID = financing.FinancingID
	}

	if err = s.FinancingRepo.Create(ctx, financing); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	if err = s.FinancingRepo.CreateSchedule(ctx, entries); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return &domain.CreateFinancingResponse{
		Financing: financing,
		Schedule:  entries,
		Report:    report,
	}, nil
}

// GetSchedule returns the persisted schedule ordered by due date.
func (s *ScheduleService) GetSchedule(ctx context.Context, financingID string) ([]*domain.PaymentEntry, error) {
	if _, err := s.getFinancing(ctx, financingID); err != nil {
		return nil, err
	}

	entries, err := s.FinancingRepo.GetScheduleByFinancingID(ctx, financingID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return entries, nil
}

// RecordPayment marks the entry due on dueDate as paid. When the last open
// entry settles, the financing itself moves to settled.
func (s *ScheduleService) RecordPayment(ctx context.Context, financingID string, dueDate, paidDate time.Time) error {
	entries, err := s.GetSchedule(ctx, financingID)
	if err != nil {
		return err
	}

	due := utils.TruncateToDay(dueDate)
	openCount := 0
	var target *domain.PaymentEntry
	for _, entry := range entries {
		if !entry.IsPaid() {
			openCount++
		}
		if utils.SameDay(entry.DueDate, due) {
			target = entry
		}
	}

	if target == nil {
		return customError.WrapEntryNotFound(due.Format("2006-01-02"))
	}
	if target.IsPaid() {
		return customError.WrapEntryAlreadyPaid(due.Format("2006-01-02"))
	}

	if err = s.FinancingRepo.MarkEntryPaid(ctx, financingID, target.DueDate, utils.TruncateToDay(paidDate)); err != nil {
		return customError.WrapDatabaseError(err)
	}

	if openCount == 1 {
		if err = s.FinancingRepo.UpdateStatus(ctx, financingID, domain.FinancingStatusSettled); err != nil {
			return customError.WrapDatabaseError(err)
		}
	}

	return nil
}

// DeferPayment runs one deferral against the persisted schedule. The
// deferral quota lives in the ledger repository keyed by subject and the
// current calendar year; the engine only ever sees it as a value.
func (s *ScheduleService) DeferPayment(ctx context.Context, financingID string, request *domain.DeferPaymentRequest) (*domain.DeferPaymentResponse, error) {
	financing, err := s.getFinancing(ctx, financingID)
	if err != nil {
		return nil, err
	}

	entries, err := s.FinancingRepo.GetScheduleByFinancingID(ctx, financingID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	year := s.now().Year()
	ledger, err := s.LedgerRepo.Get(ctx, financing.SubjectID, year, s.config.Business.DeferralQuotaPerYear)
	if err != nil {
		return nil, customError.WrapCacheError(err)
	}

	result, err := schedule.Defer(entries, request.TargetDueDate, request.Amount, ledger, s.validationContext(financing))
	if err != nil {
		return nil, err
	}

	if !result.Updated {
		return &domain.DeferPaymentResponse{
			Updated:  false,
			Reason:   result.Reason,
			Schedule: entries,
		}, nil
	}

	if err = s.FinancingRepo.ReplaceSchedule(ctx, financingID, result.Entries); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	if err = s.LedgerRepo.Increment(ctx, financing.SubjectID, year); err != nil {
		return nil, customError.WrapCacheError(err)
	}

	return &domain.DeferPaymentResponse{
		Updated:  true,
		Schedule: result.Entries,
		Report:   result.Report,
	}, nil
}

// SettlementQuote prices an early payoff of all unpaid entries as of a
// date. The quote is read-only; nothing is persisted.
func (s *ScheduleService) SettlementQuote(ctx context.Context, financingID string, asOfDate time.Time) (*domain.SettlementQuote, error) {
	entries, err := s.GetSchedule(ctx, financingID)
	if err != nil {
		return nil, err
	}

	var remaining []*domain.PaymentEntry
	for _, entry := range entries {
		if !entry.IsPaid() {
			remaining = append(remaining, entry)
		}
	}

	quote, err := schedule.Quote(remaining, s.config.SettlementPolicy(), asOfDate)
	if err != nil {
		return nil, err
	}

	quote.FinancingID = financingID
	return quote, nil
}

// ApplyManualEdit replaces the schedule with a hand-edited one. Hard
// validation errors block the save; warnings are reported but the edit
// persists anyway.
func (s *ScheduleService) ApplyManualEdit(ctx context.Context, financingID string, entries []*domain.PaymentEntry) (*domain.ValidationReport, error) {
	financing, err := s.getFinancing(ctx, financingID)
	if err != nil {
		return nil, err
	}

	report := schedule.Validate(entries, s.validationContext(financing))
	if !report.IsValid {
		return report, customError.WrapScheduleInvalid(report.Errors)
	}

	for _, entry := range entries {
		entry.FinancingID = financingID
	}
	if err = s.FinancingRepo.ReplaceSchedule(ctx, financingID, entries); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return report, nil
}

// RefreshAllStatuses recomputes active/upcoming for every open financing.
// Run by the scheduler binary once a day.
func (s *ScheduleService) RefreshAllStatuses(ctx context.Context, now time.Time) (int, error) {
	financings, err := s.FinancingRepo.ListActive(ctx)
	if err != nil {
		return 0, customError.WrapDatabaseError(err)
	}

	refreshed := 0
	for _, financing := range financings {
		entries, err := s.FinancingRepo.GetScheduleByFinancingID(ctx, financing.FinancingID)
		if err != nil {
			return refreshed, customError.WrapDatabaseError(err)
		}

		updated := schedule.RefreshStatuses(entries, financing.Interval, now)
		if err = s.FinancingRepo.ReplaceSchedule(ctx, financing.FinancingID, updated); err != nil {
			return refreshed, customError.WrapDatabaseError(err)
		}
		refreshed++
	}

	return refreshed, nil
}

func (s *ScheduleService) getFinancing(ctx context.Context, financingID string) (*domain.Financing, error) {
	financing, err := s.FinancingRepo.GetByFinancingID(ctx, financingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapFinancingNotFound(financingID)
		}
		return nil, customError.WrapDatabaseError(err)
	}
	return financing, nil
}

func (s *ScheduleService) validationContext(financing *domain.Financing) schedule.Context {
	return schedule.Context{
		Mode:               financing.Mode,
		CarValue:           financing.CarValue,
		DownPayment:        financing.DownPayment,
		ExpectedTermMonths: financing.TermMonths,
		Now:                s.now(),
	}
}
