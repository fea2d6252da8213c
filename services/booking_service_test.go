package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr error
	}{
		{
			name:  "plain date",
			input: "2025-03-10",
			want:  date(2025, time.March, 10),
		},
		{
			name:  "plain date with surrounding spaces",
			input: "  2025-03-10  ",
			want:  date(2025, time.March, 10),
		},
		{
			name:  "rfc3339 timestamp truncates to midnight utc",
			input: "2025-03-10T15:04:05Z",
			want:  date(2025, time.March, 10),
		},
		{
			name:    "garbage",
			input:   "not-a-date",
			wantErr: ErrInvalidDate,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: ErrInvalidDate,
		},
		{
			name:    "day and month swapped",
			input:   "10-03-2025",
			wantErr: ErrInvalidDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v want %v", got, tt.want)
		})
	}
}

func TestNights(t *testing.T) {
	tests := []struct {
		name     string
		checkIn  time.Time
		checkOut time.Time
		want     int
	}{
		{
			name:     "four full nights",
			checkIn:  date(2025, time.March, 10),
			checkOut: date(2025, time.March, 14),
			want:     4,
		},
		{
			name:     "single night",
			checkIn:  date(2025, time.March, 10),
			checkOut: date(2025, time.March, 11),
			want:     1,
		},
		{
			name:     "partial day rounds up",
			checkIn:  date(2025, time.March, 10),
			checkOut: time.Date(2025, time.March, 11, 6, 0, 0, 0, time.UTC),
			want:     2,
		},
		{
			name:     "same instant",
			checkIn:  date(2025, time.March, 10),
			checkOut: date(2025, time.March, 10),
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Nights(tt.checkIn, tt.checkOut))
		})
	}
}
