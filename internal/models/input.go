package models

import (
	"errors"
	"strings"
	"time"
)

// Secret holds a credential. It never prints its value.
type Secret string

func (s Secret) String() string {
	if s == "" {
		return ""
	}
	return "******"
}

// GoString keeps the credential out of %#v output
func (s Secret) GoString() string {
	return s.String()
}

// Reveal returns the raw credential for the login call
func (s Secret) Reveal() string {
	return string(s)
}

// RunInput is everything a user supplies for one extraction run
type RunInput struct {
	Address    string
	Credential Secret
	Range      DateRange
}

// Validate rejects input that must not reach the network
func (in RunInput) Validate() error {
	if strings.TrimSpace(in.Address) == "" || in.Credential == "" {
		return errors.New("please enter both email address and app password")
	}
	return in.Range.Validate()
}

// DateRange is an inclusive range of calendar days
type DateRange struct {
	From time.Time
	To   time.Time
}

// NewDateRange builds a range from two calendar days in the local time zone
func NewDateRange(from, to time.Time) DateRange {
	return DateRange{From: day(from), To: day(to)}
}

// DefaultDateRange covers the last thirty days, today included
func DefaultDateRange(now time.Time) DateRange {
	return NewDateRange(now.AddDate(0, 0, -30), now)
}

// Since is the first day included in the range
func (r DateRange) Since() time.Time {
	return day(r.From)
}

// Before is the first day after the range. IMAP BEFORE is exclusive, so the
// upper bound is widened by one day to keep the last day included.
func (r DateRange) Before() time.Time {
	return day(r.To).AddDate(0, 0, 1)
}

// Contains reports whether t falls on one of the range days
func (r DateRange) Contains(t time.Time) bool {
	d := day(t.In(r.From.Location()))
	return !d.Before(r.Since()) && d.Before(r.Before())
}

// Validate checks that both ends are set and ordered
func (r DateRange) Validate() error {
	if r.From.IsZero() || r.To.IsZero() {
		return errors.New("both start and end dates are required")
	}
	if day(r.To).Before(day(r.From)) {
		return errors.New("end date is before start date")
	}
	return nil
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
