package month

import (
	"testing"
	"time"
)

func TestAdd_TableTests(t *testing.T) {
	tests := []struct {
		name   string
		start  time.Time
		months int
		want   time.Time
	}{
		{
			name:   "simple month add",
			start:  time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
			months: 1,
			want:   time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "jan 31 clamps to feb 29 in leap year",
			start:  time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
			months: 1,
			want:   time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "jan 31 clamps to feb 28 in common year",
			start:  time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
			months: 1,
			want:   time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "may 31 clamps to jun 30",
			start:  time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC),
			months: 1,
			want:   time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "year rollover",
			start:  time.Date(2024, 11, 15, 0, 0, 0, 0, time.UTC),
			months: 3,
			want:   time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "twelve months keeps day",
			start:  time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
			months: 12,
			want:   time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "zero months is identity",
			start:  time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
			months: 0,
			want:   time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "time of day is preserved",
			start:  time.Date(2024, 1, 31, 13, 45, 7, 0, time.UTC),
			months: 1,
			want:   time.Date(2024, 2, 29, 13, 45, 7, 0, time.UTC),
		},
		{
			name:   "negative months",
			start:  time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
			months: -1,
			want:   time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Add(tt.start, tt.months)
			if !got.Equal(tt.want) {
				t.Errorf("Add(%v, %d) = %v, want %v", tt.start, tt.months, got, tt.want)
			}
		})
	}
}

func TestDaysIn(t *testing.T) {
	if got := DaysIn(2024, time.February); got != 29 {
		t.Errorf("DaysIn(2024, February) = %d, want 29", got)
	}
	if got := DaysIn(2025, time.February); got != 28 {
		t.Errorf("DaysIn(2025, February) = %d, want 28", got)
	}
	if got := DaysIn(2024, time.December); got != 31 {
		t.Errorf("DaysIn(2024, December) = %d, want 31", got)
	}
}
