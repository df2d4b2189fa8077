// Package status decides when an asset's operational status must be forced to
// "expiring soon" because its replacement is due within the next six months.
package status

import (
	"strings"
	"time"

	"inventory-backend/internal/pkg/validation"
)

const (
	ExpiringSoon = "expiring soon"
	Dead         = "dead"
	Surplus      = "surplus"

	// WindowMonths is the look-ahead horizon in calendar months.
	WindowMonths = 6
)

// Engine applies the expiring-soon rule against a clock.
type Engine struct {
	Now func() time.Time
}

func NewEngine() *Engine {
	return &Engine{Now: time.Now}
}

// Window is the inclusive date range that triggers an override.
type Window struct {
	From time.Time
	To   time.Time
}

// FromString and ToString render the bounds as YYYY-MM-DD.
func (w Window) FromString() string { return w.From.Format(validation.DateLayout) }
func (w Window) ToString() string   { return w.To.Format(validation.DateLayout) }

func (w Window) Contains(d time.Time) bool {
	return !d.Before(w.From) && !d.After(w.To)
}

// Window returns [today, today+6 months] as calendar dates.
func (e *Engine) Window() Window {
	now := time.Now
	if e != nil && e.Now != nil {
		now = e.Now
	}
	t := now()
	today := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return Window{From: today, To: AddMonths(today, WindowMonths)}
}

// AddMonths adds n calendar months, clamping the day to the target month's
// last day (Aug 31 + 6 months = Feb 28/29).
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	last := first.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// IsExempt reports whether status is never overridden.
func IsExempt(status string) bool {
	s := strings.ToLower(strings.TrimSpace(status))
	return s == Dead || s == Surplus
}

// ShouldOverride reports whether an asset due on dueDate with the given
// effective status must be forced to ExpiringSoon. A missing or unparseable
// date never triggers.
func (e *Engine) ShouldOverride(dueDate *string, effective string) bool {
	if dueDate == nil || strings.TrimSpace(*dueDate) == "" {
		return false
	}
	due, err := validation.ParseDate(*dueDate)
	if err != nil {
		return false
	}
	return e.Window().Contains(due) && !IsExempt(effective)
}

// Decide returns the status to persist and whether the override replaced the
// supplied value.
func (e *Engine) Decide(dueDate *string, effective string) (string, bool) {
	if !e.ShouldOverride(dueDate, effective) {
		return effective, false
	}
	return ExpiringSoon, effective != ExpiringSoon
}
