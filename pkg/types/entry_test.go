package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateDate(t *testing.T) {
	tests := []struct {
		date  string
		valid bool
	}{
		{"2024-01-15", true},
		{"2024-02-29", true},
		{"2023-02-29", false},
		{"2024-1-15", false},
		{"15/01/2024", false},
		{"2024-01-15T00:00:00Z", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			err := ValidateDate(tt.date)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidDate)
			}
		})
	}
}

func TestMonthRange(t *testing.T) {
	tests := []struct {
		name      string
		year      int
		month     int
		wantStart string
		wantEnd   string
		wantErr   error
	}{
		{
			name:      "mid year",
			year:      2024,
			month:     6,
			wantStart: "2024-06-01",
			wantEnd:   "2024-07-01",
		},
		{
			name:      "december rolls into next year",
			year:      2024,
			month:     12,
			wantStart: "2024-12-01",
			wantEnd:   "2025-01-01",
		},
		{
			name:      "january",
			year:      2025,
			month:     1,
			wantStart: "2025-01-01",
			wantEnd:   "2025-02-01",
		},
		{
			name:    "month zero",
			year:    2024,
			month:   0,
			wantErr: ErrInvalidMonth,
		},
		{
			name:    "month thirteen",
			year:    2024,
			month:   13,
			wantErr: ErrInvalidMonth,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := MonthRange(tt.year, tt.month)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}
