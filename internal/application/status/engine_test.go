package status

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fixed(y int, m time.Month, d int) *Engine {
	return &Engine{Now: func() time.Time { return time.Date(y, m, d, 15, 30, 0, 0, time.UTC) }}
}

func ptr(s string) *string { return &s }

func TestAddMonths(t *testing.T) {
	cases := []struct {
		in   time.Time
		want string
	}{
		{time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), "2025-07-15"},
		{time.Date(2025, 8, 31, 0, 0, 0, 0, time.UTC), "2026-02-28"},
		{time.Date(2023, 8, 31, 0, 0, 0, 0, time.UTC), "2024-02-29"},
		{time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), "2026-06-30"},
		{time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), "2026-01-01"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, AddMonths(tc.in, 6).Format("2006-01-02"), tc.in.String())
	}
}

func TestWindow(t *testing.T) {
	w := fixed(2025, 3, 10).Window()
	assert.Equal(t, "2025-03-10", w.FromString())
	assert.Equal(t, "2025-09-10", w.ToString())
}

func TestShouldOverride_Boundaries(t *testing.T) {
	e := fixed(2025, 3, 10)

	assert.True(t, e.ShouldOverride(ptr("2025-03-10"), "active"), "today is inside")
	assert.True(t, e.ShouldOverride(ptr("2025-09-10"), "active"), "today+6mo is inside")
	assert.True(t, e.ShouldOverride(ptr("2025-06-10"), "in use"))

	assert.False(t, e.ShouldOverride(ptr("2025-09-11"), "active"), "one day past horizon")
	assert.False(t, e.ShouldOverride(ptr("2025-03-09"), "active"), "one day before today")
}

func TestShouldOverride_MonthEnd(t *testing.T) {
	e := fixed(2025, 8, 31)
	assert.True(t, e.ShouldOverride(ptr("2026-02-28"), "active"))
	assert.False(t, e.ShouldOverride(ptr("2026-03-01"), "active"))
}

func TestShouldOverride_ExemptStatuses(t *testing.T) {
	e := fixed(2025, 3, 10)
	for _, s := range []string{"dead", "Dead", "DEAD", "surplus", "Surplus", " SURPLUS "} {
		assert.False(t, e.ShouldOverride(ptr("2025-04-01"), s), s)
	}
	assert.True(t, e.ShouldOverride(ptr("2025-04-01"), "retired"))
}

func TestShouldOverride_MissingOrBadDate(t *testing.T) {
	e := fixed(2025, 3, 10)
	assert.False(t, e.ShouldOverride(nil, "active"))
	assert.False(t, e.ShouldOverride(ptr(""), "active"))
	assert.False(t, e.ShouldOverride(ptr("soon"), "active"))
}

func TestShouldOverride_AcceptsTimestamps(t *testing.T) {
	e := fixed(2025, 3, 10)
	assert.True(t, e.ShouldOverride(ptr("2025-05-01T00:00:00Z"), "active"))
}

func TestDecide(t *testing.T) {
	e := fixed(2025, 3, 10)

	got, applied := e.Decide(ptr("2025-06-10"), "active")
	assert.Equal(t, ExpiringSoon, got)
	assert.True(t, applied)

	got, applied = e.Decide(ptr("2025-06-10"), ExpiringSoon)
	assert.Equal(t, ExpiringSoon, got)
	assert.False(t, applied)

	got, applied = e.Decide(nil, "active")
	assert.Equal(t, "active", got)
	assert.False(t, applied)

	got, applied = e.Decide(ptr("2025-06-10"), "Surplus")
	assert.Equal(t, "Surplus", got)
	assert.False(t, applied)
}
