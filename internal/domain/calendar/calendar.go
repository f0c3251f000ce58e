// Package calendar holds the pure date arithmetic used by recurring schedules
// and credit card billing. All values are calendar days (civil.Date), never instants.
package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// Cadence is the unit a recurring schedule repeats on.
type Cadence string

const (
	Daily   Cadence = "DAILY"
	Weekly  Cadence = "WEEKLY"
	Monthly Cadence = "MONTHLY"
)

var ErrInvalidCadence = errors.New("invalid cadence")

// ParseCadence accepts DAILY, WEEKLY or MONTHLY (case-insensitive).
func ParseCadence(s string) (Cadence, error) {
	c := Cadence(strings.ToUpper(strings.TrimSpace(s)))
	if err := c.Validate(); err != nil {
		return "", err
	}
	return c, nil
}

// Validate reports whether c is one of the known cadences.
func (c Cadence) Validate() error {
	switch c {
	case Daily, Weekly, Monthly:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidCadence, string(c))
}

func (c Cadence) String() string {
	return string(c)
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	// Day 0 of the following month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ClampToMonthEnd returns min(day, DaysInMonth(year, month)).
func ClampToMonthEnd(year int, month time.Month, day int) int {
	if last := DaysInMonth(year, month); day > last {
		return last
	}
	return day
}

// DateInMonth builds a date in the given month, carrying month overflow into
// the year and clamping day to the month's last day.
func DateInMonth(year int, month time.Month, day int) civil.Date {
	first := civil.DateOf(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC))
	return civil.Date{
		Year:  first.Year,
		Month: first.Month,
		Day:   ClampToMonthEnd(first.Year, first.Month, day),
	}
}

// AddMonths moves d forward n calendar months and lands on day (clamped).
func AddMonths(d civil.Date, n int, day int) civil.Date {
	return DateInMonth(d.Year, d.Month+time.Month(n), day)
}

// Advance returns the next occurrence after d for the cadence.
// MONTHLY keeps the day of month, clamped to the end of the following month
// (Jan 31 -> Feb 28/29, never Mar 3).
func Advance(d civil.Date, c Cadence) civil.Date {
	return AdvanceKeepingDay(d, c, d.Day)
}

// AdvanceKeepingDay is Advance with an explicit target day of month for
// MONTHLY. DAILY and WEEKLY ignore day.
func AdvanceKeepingDay(d civil.Date, c Cadence, day int) civil.Date {
	switch c {
	case Daily:
		return d.AddDays(1)
	case Weekly:
		return d.AddDays(7)
	case Monthly:
		return AddMonths(d, 1, day)
	}
	panic(fmt.Sprintf("calendar: unknown cadence %q", string(c)))
}

// FirstBillingDate returns the closing date of the billing cycle a purchase
// made on today falls into: this month's closing day, or next month's when
// today is already past it.
func FirstBillingDate(today civil.Date, closingDay int) civil.Date {
	if today.Day > closingDay {
		return AddMonths(today, 1, closingDay)
	}
	return DateInMonth(today.Year, today.Month, closingDay)
}

// NextDayOfMonth returns the first date strictly after d whose day of month is
// day (clamped for short months).
func NextDayOfMonth(d civil.Date, day int) civil.Date {
	candidate := DateInMonth(d.Year, d.Month, day)
	if candidate.After(d) {
		return candidate
	}
	return AddMonths(d, 1, day)
}

// Max returns the later of a and b.
func Max(a, b civil.Date) civil.Date {
	if a.After(b) {
		return a
	}
	return b
}

// Today returns the calendar day of now in loc.
func Today(now time.Time, loc *time.Location) civil.Date {
	if loc == nil {
		loc = time.UTC
	}
	return civil.DateOf(now.In(loc))
}
