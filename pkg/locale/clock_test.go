package locale

import (
	"testing"
	"time"
)

func TestParseLocal(t *testing.T) {
	loc := LoadLocation(DefaultTimezone)

	tests := []struct {
		name      string
		date      string
		clock     string
		wantError bool
	}{
		{name: "date and time", date: "2026-03-01", clock: "09:30"},
		{name: "date only", date: "2026-03-01"},
		{name: "bad date", date: "01/03/2026", clock: "09:30", wantError: true},
		{name: "bad time", date: "2026-03-01", clock: "9.30", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLocal(tt.date, tt.clock, loc)
			if (err != nil) != tt.wantError {
				t.Fatalf("ParseLocal() error = %v, wantError %v", err, tt.wantError)
			}
			if err == nil && got.Location() != loc {
				t.Errorf("expected location %v, got %v", loc, got.Location())
			}
		})
	}
}

func TestIsPast(t *testing.T) {
	loc := time.UTC
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, loc)

	tests := []struct {
		date  string
		clock string
		want  bool
	}{
		{"2026-05-10", "11:59", true},
		{"2026-05-10", "12:00", false},
		{"2026-05-11", "08:00", false},
		{"2025-12-31", "", true},
	}

	for _, tt := range tests {
		got, err := IsPast(tt.date, tt.clock, loc, now)
		if err != nil {
			t.Fatalf("IsPast(%s %s) unexpected error: %v", tt.date, tt.clock, err)
		}
		if got != tt.want {
			t.Errorf("IsPast(%s %s) = %v, want %v", tt.date, tt.clock, got, tt.want)
		}
	}
}

func TestLoadLocation_Fallback(t *testing.T) {
	if got := LoadLocation("Not/AZone"); got != time.UTC {
		t.Errorf("expected UTC fallback, got %v", got)
	}
}
