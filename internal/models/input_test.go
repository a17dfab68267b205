package models

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestDateRange_Contains(t *testing.T) {
	d1 := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	r := NewDateRange(d1, d2)

	tests := []struct {
		name     string
		date     time.Time
		expected bool
	}{
		{"First day", d1, true},
		{"Last day at midnight", d2, true},
		{"Last day late evening", d2.Add(23*time.Hour + 59*time.Minute), true},
		{"Day after last day", d2.AddDate(0, 0, 1), false},
		{"Day before first day", d1.Add(-time.Minute), false},
		{"Middle of range", d1.AddDate(0, 0, 4).Add(12 * time.Hour), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.date); got != tt.expected {
				t.Errorf("Contains(%v) = %v, want %v", tt.date, got, tt.expected)
			}
		})
	}
}

func TestDateRange_Bounds(t *testing.T) {
	r := NewDateRange(
		time.Date(2025, time.March, 1, 15, 4, 5, 0, time.UTC),
		time.Date(2025, time.March, 31, 9, 0, 0, 0, time.UTC),
	)

	if want := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC); !r.Since().Equal(want) {
		t.Errorf("Since() = %v, want %v", r.Since(), want)
	}
	if want := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC); !r.Before().Equal(want) {
		t.Errorf("Before() = %v, want %v", r.Before(), want)
	}
}

func TestDateRange_Validate(t *testing.T) {
	d := time.Date(2025, time.May, 5, 0, 0, 0, 0, time.UTC)

	if err := NewDateRange(d, d).Validate(); err != nil {
		t.Errorf("single-day range should be valid, got %v", err)
	}
	if err := NewDateRange(d, d.AddDate(0, 0, -1)).Validate(); err == nil {
		t.Error("expected error for reversed range")
	}
	if err := (DateRange{To: d}).Validate(); err == nil {
		t.Error("expected error for missing start date")
	}
}

func TestDefaultDateRange(t *testing.T) {
	now := time.Date(2025, time.June, 30, 18, 0, 0, 0, time.UTC)
	r := DefaultDateRange(now)

	if want := time.Date(2025, time.May, 31, 0, 0, 0, 0, time.UTC); !r.From.Equal(want) {
		t.Errorf("From = %v, want %v", r.From, want)
	}
	if !r.Contains(now) {
		t.Error("default range should contain today")
	}
}

func TestRunInput_Validate(t *testing.T) {
	r := DefaultDateRange(time.Now())

	tests := []struct {
		name    string
		input   RunInput
		wantErr bool
	}{
		{"Complete input", RunInput{Address: "buyer@example.com", Credential: "secret", Range: r}, false},
		{"Missing address", RunInput{Credential: "secret", Range: r}, true},
		{"Blank address", RunInput{Address: "   ", Credential: "secret", Range: r}, true},
		{"Missing credential", RunInput{Address: "buyer@example.com", Range: r}, true},
		{"Missing dates", RunInput{Address: "buyer@example.com", Credential: "secret"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSecret_NeverPrinted(t *testing.T) {
	in := RunInput{Address: "buyer@example.com", Credential: "hunter2"}

	for _, format := range []string{"%v", "%+v", "%#v", "%s"} {
		out := fmt.Sprintf(format, in)
		if format == "%s" {
			out = fmt.Sprintf(format, in.Credential)
		}
		if strings.Contains(out, "hunter2") {
			t.Errorf("format %s leaked credential: %s", format, out)
		}
	}

	if in.Credential.Reveal() != "hunter2" {
		t.Error("Reveal() should return the raw credential")
	}
}
