package util

import (
	"testing"
	"time"
)

func TestParseBirthDate(t *testing.T) {
	got, err := ParseBirthDate("1990-07-14")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Year() != 1990 || got.Month() != time.July || got.Day() != 14 {
		t.Fatalf("unexpected date %v", got)
	}
	if _, err := ParseBirthDate("14/07/1990"); err == nil {
		t.Fatalf("expected error for non ISO date")
	}
	if _, err := ParseBirthDate("1990-02-30"); err == nil {
		t.Fatalf("expected error for impossible date")
	}
}

func TestParseClockTime(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
		ok   bool
	}{
		{"00:00", 0, true},
		{"13:45", 13*time.Hour + 45*time.Minute, true},
		{"07:05:30", 7*time.Hour + 5*time.Minute + 30*time.Second, true},
		{"24:00", 0, false},
		{"7pm", 0, false},
	}
	for _, tt := range tests {
		got, err := ParseClockTime(tt.in)
		if tt.ok && err != nil {
			t.Fatalf("%q: unexpected error %v", tt.in, err)
		}
		if !tt.ok && err == nil {
			t.Fatalf("%q: expected error", tt.in)
		}
		if tt.ok && got != tt.want {
			t.Fatalf("%q: got %v want %v", tt.in, got, tt.want)
		}
	}
}

func TestBirthMoment(t *testing.T) {
	got, err := BirthMoment("1990-07-14", "13:45")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(1990, 7, 14, 13, 45, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v want %v", got, want)
	}
}
