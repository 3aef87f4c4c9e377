package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Entry status constants
const (
	EntryStatusPaid     = "paid"
	EntryStatusActive   = "active"
	EntryStatusUpcoming = "upcoming"
)

// Financing modes
const (
	ModeDynamicRent    = "dynamic_rent"
	ModeAmortizedFixed = "amortized_fixed"
	ModeManual         = "manual"
)

// Payment intervals
const (
	IntervalMonthly = "monthly"
	IntervalDaily   = "daily"
)

// PaymentEntry is one obligation in a payment schedule. Principal and Rent
// are the components of Amount; the settlement calculator discounts them
// independently. Provenance fields are only populated on deferred entries.
type PaymentEntry struct {
	ID                  uuid.UUID        `json:"id" db:"id"`
	FinancingID         string           `json:"financing_id" db:"financing_id"`
	DueDate             time.Time        `json:"due_date" db:"due_date"`
	Amount              decimal.Decimal  `json:"amount" db:"amount"`
	Principal           decimal.Decimal  `json:"principal" db:"principal"`
	Rent                decimal.Decimal  `json:"rent" db:"rent"`
	Status              string           `json:"status" db:"status"` // paid, active, upcoming
	PaidDate            *time.Time       `json:"paid_date,omitempty" db:"paid_date"`
	IsDeferred          bool             `json:"is_deferred" db:"is_deferred"`
	IsPartiallyDeferred bool             `json:"is_partially_deferred" db:"is_partially_deferred"`
	OriginalDueDate     *time.Time       `json:"original_due_date,omitempty" db:"original_due_date"`
	OriginalAmount      *decimal.Decimal `json:"original_amount,omitempty" db:"original_amount"`
	DeferredAmount      *decimal.Decimal `json:"deferred_amount,omitempty" db:"deferred_amount"`
	CreatedAt           time.Time        `json:"created_at" db:"created_at"`
}

// IsPaid reports whether the entry has been settled.
func (e *PaymentEntry) IsPaid() bool {
	return e.Status == EntryStatusPaid
}

// FinancingInput seeds schedule generation.
type FinancingInput struct {
	CarValue    decimal.Decimal `json:"car_value"`
	DownPayment decimal.Decimal `json:"down_payment"`
	TermMonths  int             `json:"term_months"`
	AnnualRate  decimal.Decimal `json:"annual_rate"` // fraction, e.g. 0.12
	Interval    string          `json:"interval"`    // monthly, daily
	Mode        string          `json:"mode"`        // dynamic_rent, amortized_fixed, manual
	StartDate   time.Time       `json:"start_date"`
}

// LoanAmount is the financed principal. Derived, never stored independently.
func (in *FinancingInput) LoanAmount() decimal.Decimal {
	return in.CarValue.Sub(in.DownPayment)
}

// Financing statuses
const (
	FinancingStatusActive  = "active"
	FinancingStatusSettled = "settled"
	FinancingStatusClosed  = "closed"
)

// Financing is the persisted aggregate owning a payment schedule.
type Financing struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	FinancingID string          `json:"financing_id" db:"financing_id"`
	SubjectID   string          `json:"subject_id" db:"subject_id"`
	CarValue    decimal.Decimal `json:"car_value" db:"car_value"`
	DownPayment decimal.Decimal `json:"down_payment" db:"down_payment"`
	TermMonths  int             `json:"term_months" db:"term_months"`
	AnnualRate  decimal.Decimal `json:"annual_rate" db:"annual_rate"`
	Interval    string          `json:"interval" db:"interval"`
	Mode        string          `json:"mode" db:"mode"`
	StartDate   time.Time       `json:"start_date" db:"start_date"`
	Status      string          `json:"status" db:"status"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// Input rebuilds the generation input from the persisted aggregate.
func (f *Financing) Input() FinancingInput {
	return FinancingInput{
		CarValue:    f.CarValue,
		DownPayment: f.DownPayment,
		TermMonths:  f.TermMonths,
		AnnualRate:  f.AnnualRate,
		Interval:    f.Interval,
		Mode:        f.Mode,
		StartDate:   f.StartDate,
	}
}

// DTOs for requests and responses

type CreateFinancingRequest struct {
	FinancingID string          `json:"financing_id" validate:"required"`
	SubjectID   string          `json:"subject_id" validate:"required"`
	CarValue    decimal.Decimal `json:"car_value" validate:"required"`
	DownPayment decimal.Decimal `json:"down_payment"`
	TermMonths  int             `json:"term_months" validate:"required,gt=0"`
	AnnualRate  decimal.Decimal `json:"annual_rate"`
	Interval    string          `json:"interval" validate:"required,oneof=monthly daily"`
	Mode        string          `json:"mode" validate:"required,oneof=dynamic_rent amortized_fixed manual"`
	StartDate   time.Time       `json:"start_date" validate:"required"`
	Entries     []*PaymentEntry `json:"entries,omitempty"` // manual mode only
}

type CreateFinancingResponse struct {
	Financing *Financing        `json:"financing"`
	Schedule  []*PaymentEntry   `json:"schedule"`
	Report    *ValidationReport `json:"report"`
}

type ScheduleResponse struct {
	FinancingID string          `json:"financing_id"`
	Schedule    []*PaymentEntry `json:"schedule"`
}

type DeferPaymentRequest struct {
	TargetDueDate time.Time        `json:"target_due_date" validate:"required"`
	Amount        *decimal.Decimal `json:"amount,omitempty"` // nil or >= entry amount means full deferral
}

type DeferPaymentResponse struct {
	Updated  bool              `json:"updated"`
	Reason   string            `json:"reason,omitempty"`
	Schedule []*PaymentEntry   `json:"schedule"`
	Report   *ValidationReport `json:"report,omitempty"`
}

type RecordPaymentRequest struct {
	DueDate  time.Time `json:"due_date" validate:"required"`
	PaidDate time.Time `json:"paid_date" validate:"required"`
}

// ValidationReport is the validator's structured result. Errors block
// persistence; warnings are reported but a caller may save anyway.
type ValidationReport struct {
	IsValid  bool     `json:"is_valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}
