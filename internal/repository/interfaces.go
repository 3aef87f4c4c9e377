package repository

import (
	"context"
	"time"

	"github.com/Fares-ag/blox-vercel-sub002/internal/domain"
)

// FinancingRepository defines the interface for financing data operations
type FinancingRepository interface {
	// Create creates a new financing record
	Create(ctx context.Context, financing *domain.Financing) error

	// GetByFinancingID retrieves a financing by its financing ID
	GetByFinancingID(ctx context.Context, financingID string) (*domain.Financing, error)

	// ListActive retrieves all financings still carrying open schedules
	ListActive(ctx context.Context) ([]*domain.Financing, error)

	// UpdateStatus updates the financing status
	UpdateStatus(ctx context.Context, financingID string, status string) error

	// CreateSchedule persists the schedule entries of a financing
	CreateSchedule(ctx context.Context, entries []*domain.PaymentEntry) error

	// GetScheduleByFinancingID retrieves the schedule ordered by due date
	GetScheduleByFinancingID(ctx context.Context, financingID string) ([]*domain.PaymentEntry, error)

	// ReplaceSchedule swaps the whole schedule in one transaction, so a
	// mutation is never half-persisted
	ReplaceSchedule(ctx context.Context, financingID string, entries []*domain.PaymentEntry) error

	// MarkEntryPaid marks the entry due on dueDate as paid
	MarkEntryPaid(ctx context.Context, financingID string, dueDate, paidDate time.Time) error
}

// DeferralLedgerRepository tracks deferral usage per subject and calendar
// year. The engine consumes the ledger as a value; this repository is only
// its persistence.
type DeferralLedgerRepository interface {
	// Get returns the ledger for a subject and year
	Get(ctx context.Context, subjectID string, year int, quota int) (domain.DeferralLedger, error)

	// Increment records one more used deferral
	Increment(ctx context.Context, subjectID string, year int) error
}
