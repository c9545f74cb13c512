package calendar

import (
	"testing"

	"bilancio/internal/core"
)

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		year, month, want int
	}{
		{2024, 1, 31},
		{2024, 2, 29}, // leap
		{2023, 2, 28},
		{2024, 4, 30},
		{2024, 12, 31},
	}

	for _, tt := range tests {
		if got := DaysInMonth(tt.year, tt.month); got != tt.want {
			t.Errorf("DaysInMonth(%d, %d) = %d, want %d", tt.year, tt.month, got, tt.want)
		}
	}
}

func TestDaysUntilEndOfMonth(t *testing.T) {
	tests := []struct {
		name string
		date core.Date
		want int
	}{
		{"first of january", core.NewDate(2024, 1, 1), 30},
		{"last of january", core.NewDate(2024, 1, 31), 0},
		{"five before end", core.NewDate(2024, 1, 26), 5},
		{"six before end", core.NewDate(2024, 1, 25), 6},
		{"feb 27 non-leap", core.NewDate(2023, 2, 27), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysUntilEndOfMonth(tt.date); got != tt.want {
				t.Errorf("DaysUntilEndOfMonth(%s) = %d, want %d", tt.date.ISO(), got, tt.want)
			}
		})
	}
}

func TestNextMonth(t *testing.T) {
	y, m := NextMonth(2024, 12)
	if y != 2025 || m != 1 {
		t.Errorf("NextMonth(2024, 12) = %d, %d, want 2025, 1", y, m)
	}
	y, m = NextMonth(2024, 6)
	if y != 2024 || m != 7 {
		t.Errorf("NextMonth(2024, 6) = %d, %d, want 2024, 7", y, m)
	}
}

func TestClampDay(t *testing.T) {
	tests := []struct {
		year, month, day, want int
	}{
		{2024, 4, 31, 30},
		{2023, 2, 31, 28},
		{2024, 2, 31, 29},
		{2024, 1, 31, 31},
		{2024, 4, 15, 15},
		{2024, 4, 0, 0}, // below 1 passes through for the caller to reject
	}

	for _, tt := range tests {
		if got := ClampDay(tt.year, tt.month, tt.day); got != tt.want {
			t.Errorf("ClampDay(%d, %d, %d) = %d, want %d", tt.year, tt.month, tt.day, got, tt.want)
		}
	}
}

func TestISOWeekdayMatches(t *testing.T) {
	// 2024-03-03 is a Sunday, 2024-03-04 a Monday.
	sunday := core.NewDate(2024, 3, 3)
	monday := core.NewDate(2024, 3, 4)

	if !ISOWeekdayMatches(sunday, 7) {
		t.Error("ISO weekday 7 should match Sunday")
	}
	if ISOWeekdayMatches(monday, 7) {
		t.Error("ISO weekday 7 should not match Monday")
	}
	if !ISOWeekdayMatches(monday, 1) {
		t.Error("ISO weekday 1 should match Monday")
	}
}
