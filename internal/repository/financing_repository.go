package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Fares-ag/blox-vercel-sub002/internal/domain"
)

type financingRepository struct {
	db *sqlx.DB
}

func NewFinancingRepository(db *sqlx.DB) FinancingRepository {
	return &financingRepository{db: db}
}

func (r *financingRepository) Create(ctx context.Context, financing *domain.Financing) error {
	query := `
		INSERT INTO financings (id, financing_id, subject_id, car_value, down_payment, term_months, annual_rate, interval, mode, start_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.ExecContext(ctx, query,
		financing.ID,
		financing.FinancingID,
		financing.SubjectID,
		financing.CarValue,
		financing.DownPayment,
		financing.TermMonths,
		financing.AnnualRate,
		financing.Interval,
		financing.Mode,
		financing.StartDate,
		financing.Status,
		financing.CreatedAt,
		financing.UpdatedAt,
	)

	return err
}

func (r *financingRepository) GetByFinancingID(ctx context.Context, financingID string) (*domain.Financing, error) {
	query := `
		SELECT id, financing_id, subject_id, car_value, down_payment, term_months, annual_rate, interval, mode, start_date, status, created_at, updated_at
		FROM financings
		WHERE financing_id = $1
	`

	var financing domain.Financing
	err := r.db.GetContext(ctx, &financing, query, financingID)
	if err != nil {
		return nil, err
	}

	return &financing, nil
}

func (r *financingRepository) ListActive(ctx context.Context) ([]*domain.Financing, error) {
	query := `
		SELECT id, financing_id, subject_id, car_value, down_payment, term_months, annual_rate, interval, mode, start_date, status, created_at, updated_at
		FROM financings
		WHERE status = $1
		ORDER BY created_at
	`

	var financings []*domain.Financing
	err := r.db.SelectContext(ctx, &financings, query, domain.FinancingStatusActive)
	if err != nil {
		return nil, err
	}

	return financings, nil
}

func (r *financingRepository) UpdateStatus(ctx context.Context, financingID string, status string) error {
	query := `
		UPDATE financings
		SET status = $2, updated_at = $3
		WHERE financing_id = $1
	`

	_, err := r.db.ExecContext(ctx, query, financingID, status, time.Now())
	return err
}

const insertEntryQuery = `
	INSERT INTO payment_entries (id, financing_id, due_date, amount, principal, rent, status, paid_date, is_deferred, is_partially_deferred, original_due_date, original_amount, deferred_amount, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
`

func (r *financingRepository) CreateSchedule(ctx context.Context, entries []*domain.PaymentEntry) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err = insertEntries(ctx, tx, entries); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *financingRepository) GetScheduleByFinancingID(ctx context.Context, financingID string) ([]*domain.PaymentEntry, error) {
	query := `
		SELECT id, financing_id, due_date, amount, principal, rent, status, paid_date, is_deferred, is_partially_deferred, original_due_date, original_amount, deferred_amount, created_at
		FROM payment_entries
		WHERE financing_id = $1
		ORDER BY due_date
	`

	var entries []*domain.PaymentEntry
	err := r.db.SelectContext(ctx, &entries, query, financingID)
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// ReplaceSchedule swaps the persisted schedule for a fresh one in a single
// transaction. Deferrals and manual edits go through here so a failure can
// never leave a partially-mutated schedule behind.
func (r *financingRepository) ReplaceSchedule(ctx context.Context, financingID string, entries []*domain.PaymentEntry) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, `DELETE FROM payment_entries WHERE financing_id = $1`, financingID); err != nil {
		return err
	}

	if err = insertEntries(ctx, tx, entries); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *financingRepository) MarkEntryPaid(ctx context.Context, financingID string, dueDate, paidDate time.Time) error {
	query := `
		UPDATE payment_entries
		SET status = $3, paid_date = $4
		WHERE financing_id = $1 AND due_date = $2
	`

	_, err := r.db.ExecContext(ctx, query, financingID, dueDate, domain.EntryStatusPaid, paidDate)
	return err
}

func insertEntries(ctx context.Context, tx *sqlx.Tx, entries []*domain.PaymentEntry) error {
	for _, entry := range entries {
		if entry.ID == uuid.Nil {
			entry.ID = uuid.New()
		}
		if entry.CreatedAt.IsZero() {
			entry.CreatedAt = time.Now()
		}

		_, err := tx.ExecContext(ctx, insertEntryQuery,
			entry.ID,
			entry.FinancingID,
			entry.DueDate,
			entry.Amount,
			entry.Principal,
			entry.Rent,
			entry.Status,
			entry.PaidDate,
			entry.IsDeferred,
			entry.IsPartiallyDeferred,
			entry.OriginalDueDate,
			entry.OriginalAmount,
			entry.DeferredAmount,
			entry.CreatedAt,
		)
		if err != nil {
			return err
		}
	}

	return nil
}
