package utils

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAddMonths(t *testing.T) {
	tests := []struct {
		name     string
		start    time.Time
		months   int
		expected time.Time
	}{
		{
			name:     "plain month advance",
			start:    time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			months:   1,
			expected: time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "year rollover",
			start:    time.Date(2024, 11, 10, 0, 0, 0, 0, time.UTC),
			months:   3,
			expected: time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "drops time of day",
			start:    time.Date(2024, 1, 15, 13, 45, 0, 0, time.UTC),
			months:   1,
			expected: time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, AddMonths(tt.start, tt.months))
		})
	}
}

func TestDaysInMonth(t *testing.T) {
	assert.Equal(t, 31, DaysInMonth(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 29, DaysInMonth(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))) // leap year
	assert.Equal(t, 28, DaysInMonth(time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 30, DaysInMonth(time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC)))
}

func TestWholeMonthsBetween(t *testing.T) {
	tests := []struct {
		name     string
		from     time.Time
		to       time.Time
		expected int
	}{
		{
			name:     "exact months",
			from:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			to:       time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
			expected: 3,
		},
		{
			name:     "partial month does not count",
			from:     time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			to:       time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC),
			expected: 1,
		},
		{
			name:     "same day",
			from:     time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			to:       time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			expected: 0,
		},
		{
			name:     "reversed is negative",
			from:     time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
			to:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			expected: -3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, WholeMonthsBetween(tt.from, tt.to))
		})
	}
}

func TestFloorAmount(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{name: "whole value untouched", in: "6666", expected: "6666"},
		{name: "fraction floored down", in: "6666.67", expected: "6666"},
		{name: "never rounds up", in: "6666.999", expected: "6666"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := decimal.NewFromString(tt.in)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, FloorAmount(in).String())
		})
	}
}
