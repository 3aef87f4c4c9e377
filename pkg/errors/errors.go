package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrFinancingNotFound     = errors.New("financing not found")
	ErrFinancingAlreadyExist = errors.New("financing already exists")
	ErrInvalidFinancingInput = errors.New("invalid financing input")
	ErrEntryNotFound         = errors.New("schedule entry not found")
	ErrEntryAlreadyPaid      = errors.New("schedule entry is already paid")
	ErrScheduleInvalid       = errors.New("schedule failed validation")
	ErrEmptySchedule         = errors.New("schedule has no entries")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeFinancingNotFound     = "FINANCING_NOT_FOUND"
	ErrCodeFinancingAlreadyExist = "FINANCING_ALREADY_EXISTS"
	ErrCodeInvalidFinancingInput = "INVALID_FINANCING_INPUT"
	ErrCodeEntryNotFound         = "ENTRY_NOT_FOUND"
	ErrCodeEntryAlreadyPaid      = "ENTRY_ALREADY_PAID"
	ErrCodeScheduleInvalid       = "SCHEDULE_INVALID"
	ErrCodeEmptySchedule         = "EMPTY_SCHEDULE"
	ErrCodeDatabaseError         = "DATABASE_ERROR"
	ErrCodeCacheError            = "CACHE_ERROR"
)

// Wrap common errors with business context
func WrapFinancingNotFound(financingID string) *BusinessError {
	return NewBusinessError(
		ErrCodeFinancingNotFound,
		fmt.Sprintf("Financing with ID %s not found", financingID),
		ErrFinancingNotFound,
	)
}

func WrapFinancingAlreadyExists(financingID string) *BusinessError {
	return NewBusinessError(
		ErrCodeFinancingAlreadyExist,
		fmt.Sprintf("Financing with ID %s already exists", financingID),
		ErrFinancingAlreadyExist,
	)
}

func WrapInvalidFinancingInput(reason string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidFinancingInput,
		reason,
		ErrInvalidFinancingInput,
	)
}

func WrapEntryNotFound(dueDate string) *BusinessError {
	return NewBusinessError(
		ErrCodeEntryNotFound,
		fmt.Sprintf("No schedule entry due on %s", dueDate),
		ErrEntryNotFound,
	)
}

func WrapEntryAlreadyPaid(dueDate string) *BusinessError {
	return NewBusinessError(
		ErrCodeEntryAlreadyPaid,
		fmt.Sprintf("Schedule entry due on %s is already paid", dueDate),
		ErrEntryAlreadyPaid,
	)
}

func WrapScheduleInvalid(reasons []string) *BusinessError {
	return NewBusinessError(
		ErrCodeScheduleInvalid,
		fmt.Sprintf("Schedule failed validation: %v", reasons),
		ErrScheduleInvalid,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"Cache operation failed",
		err,
	)
}
