package calendar

import (
	"testing"
	"time"
)

func TestIsValidDate(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"2024-02-29", true},
		{"2023-02-29", false},
		{"2024-13-01", false},
		{"2024-04-31", false},
		{"2024-04-30", true},
		{"2100-12-31", true},
		{"1899-12-31", false},
		{"2101-01-01", false},
		{"2000-02-29", true},
		{"1900-02-29", false},
		{"2024-1-01", false},
		{"2024/01/01", false},
		{"2024-01-1a", false},
		{"", false},
		{" 2024-01-01", false},
	}
	for _, tt := range tests {
		if got := IsValidDate(tt.in); got != tt.want {
			t.Errorf("IsValidDate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestToday(t *testing.T) {
	now := time.Date(2024, 7, 1, 12, 0, 0, 0, time.Local)
	if got := Today(now); got != "2024-07-01" {
		t.Errorf("Today() = %q, want 2024-07-01", got)
	}
}
