package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/Fares-ag/blox-vercel-sub002/internal/domain"
)

// MockFinancingRepository is a mock implementation of repository.FinancingRepository
type MockFinancingRepository struct {
	mock.Mock
}

func (m *MockFinancingRepository) Create(ctx context.Context, financing *domain.Financing) error {
	args := m.Called(ctx, financing)
	return args.Error(0)
}

func (m *MockFinancingRepository) GetByFinancingID(ctx context.Context, financingID string) (*domain.Financing, error) {
	args := m.Called(ctx, financingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Financing), args.Error(1)
}

func (m *MockFinancingRepository) ListActive(ctx context.Context) ([]*domain.Financing, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Financing), args.Error(1)
}

func (m *MockFinancingRepository) UpdateStatus(ctx context.Context, financingID string, status string) error {
	args := m.Called(ctx, financingID, status)
	return args.Error(0)
}

func (m *MockFinancingRepository) CreateSchedule(ctx context.Context, entries []*domain.PaymentEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockFinancingRepository) GetScheduleByFinancingID(ctx context.Context, financingID string) ([]*domain.PaymentEntry, error) {
	args := m.Called(ctx, financingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.PaymentEntry), args.Error(1)
}

func (m *MockFinancingRepository) ReplaceSchedule(ctx context.Context, financingID string, entries []*domain.PaymentEntry) error {
	args := m.Called(ctx, financingID, entries)
	return args.Error(0)
}

func (m *MockFinancingRepository) MarkEntryPaid(ctx context.Context, financingID string, dueDate, paidDate time.Time) error {
	args := m.Called(ctx, financingID, dueDate, paidDate)
	return args.Error(0)
}

// MockDeferralLedgerRepository is a mock implementation of repository.DeferralLedgerRepository
type MockDeferralLedgerRepository struct {
	mock.Mock
}

func (m *MockDeferralLedgerRepository) Get(ctx context.Context, subjectID string, year int, quota int) (domain.DeferralLedger, error) {
	args := m.Called(ctx, subjectID, year, quota)
	return args.Get(0).(domain.DeferralLedger), args.Error(1)
}

func (m *MockDeferralLedgerRepository) Increment(ctx context.Context, subjectID string, year int) error {
	args := m.Called(ctx, subjectID, year)
	return args.Error(0)
}
