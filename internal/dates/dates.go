// Package dates provides the calendar Date value and the resolution of
// period keywords ("this week", "last quarter", ...) into half-open
// [since, until) windows with a human-readable label.
package dates

import (
	"fmt"
	"strings"
	"time"

	"did/internal/errs"
)

// ISO is the date layout used everywhere on the CLI surface.
const ISO = "2006-01-02"

// EarlySentinel is the default lower bound when only --until is given.
var EarlySentinel = New(1970, time.January, 1)

// Date is a calendar day. It carries no time of day; arithmetic,
// ordering, and formatting operate on whole days.
type Date struct {
	t time.Time
}

// New builds a Date from year, month, and day.
func New(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// FromTime truncates a time.Time to its calendar day.
func FromTime(t time.Time) Date {
	return New(t.Year(), t.Month(), t.Day())
}

// Today returns the current local calendar day.
func Today() Date {
	return FromTime(time.Now())
}

// Parse reads an ISO date. Invalid input is a usage error.
func Parse(s string) (Date, error) {
	t, err := time.Parse(ISO, s)
	if err != nil {
		return Date{}, errs.Usagef("invalid date %q, expected YYYY-MM-DD", s)
	}
	return FromTime(t), nil
}

// Add returns the date shifted by the given number of days.
func (d Date) Add(days int) Date {
	return Date{t: d.t.AddDate(0, 0, days)}
}

// Before reports whether d falls strictly before o.
func (d Date) Before(o Date) bool { return d.t.Before(o.t) }

// Equal reports whether d and o are the same day.
func (d Date) Equal(o Date) bool { return d.t.Equal(o.t) }

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool { return d.t.IsZero() }

// String formats as ISO YYYY-MM-DD.
func (d Date) String() string { return d.t.Format(ISO) }

// Time exposes the underlying midnight timestamp (UTC).
func (d Date) Time() time.Time { return d.t }

// Weekday returns the day of week.
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }

// Year returns the calendar year.
func (d Date) Year() int { return d.t.Year() }

// Month returns the calendar month.
func (d Date) Month() time.Month { return d.t.Month() }

// ISOWeek returns the ISO 8601 week number.
func (d Date) ISOWeek() int {
	_, week := d.t.ISOWeek()
	return week
}

// Window is a half-open [Since, Until) interval with a display label.
type Window struct {
	Since Date
	Until Date
	Label string
}

// Display returns the inclusive bounds shown to the user: the upper
// bound is Until minus one day.
func (w Window) Display() (string, string) {
	return w.Since.String(), w.Until.Add(-1).String()
}

// Contains reports whether the day falls inside the window.
func (w Window) Contains(d Date) bool {
	return !d.Before(w.Since) && d.Before(w.Until)
}

func (w Window) String() string {
	since, until := w.Display()
	return fmt.Sprintf("%s (%s to %s)", w.Label, since, until)
}

// monday returns the Monday of the week containing d. Weeks start Monday.
func monday(d Date) Date {
	offset := (int(d.Weekday()) + 6) % 7
	return d.Add(-offset)
}

// quarterStart returns the first day of the calendar quarter containing d.
func quarterStart(d Date) Date {
	m := (int(d.Month())-1)/3*3 + 1
	return New(d.Year(), time.Month(m), 1)
}

// Resolve computes the report window from the positional period keywords
// and the explicit --since/--until values. Explicit bounds win over
// keywords; a missing lower bound falls back to the early sentinel, a
// missing upper bound to today. The explicit upper bound is inclusive,
// so one day is added to it.
func Resolve(words []string, since, until string, today Date) (Window, error) {
	if since != "" || until != "" {
		return resolveRange(since, until, today)
	}
	return ResolvePeriod(words, today)
}

func resolveRange(since, until string, today Date) (Window, error) {
	lo := EarlySentinel
	hi := today
	var err error
	if since != "" {
		if lo, err = Parse(since); err != nil {
			return Window{}, err
		}
	}
	if until != "" {
		if hi, err = Parse(until); err != nil {
			return Window{}, err
		}
	}
	if !lo.Before(hi) {
		return Window{}, errs.Usagef("invalid date range: %s is not before %s", lo, hi)
	}
	// User-supplied range is inclusive.
	return Window{Since: lo, Until: hi.Add(1), Label: "given date range"}, nil
}

// ResolvePeriod maps the keyword phrase onto a window. The empty phrase
// means "this week". Keywords are case-insensitive and accepted in one-
// and two-word forms ("month" and "this month" are the same period).
func ResolvePeriod(words []string, today Date) (Window, error) {
	phrase, err := parsePhrase(words)
	if err != nil {
		return Window{}, err
	}

	var w Window
	switch phrase.unit {
	case "today":
		w = Window{Since: today, Until: today.Add(1), Label: "today"}
	case "yesterday":
		w = Window{Since: today.Add(-1), Until: today, Label: "yesterday"}
	case "friday":
		offset := (int(today.Weekday()) - int(time.Friday) + 7) % 7
		fri := today.Add(-offset)
		w = Window{Since: fri, Until: fri.Add(1), Label: "the last friday"}
	case "week":
		start := monday(today)
		if phrase.last {
			start = start.Add(-7)
		}
		w = Window{
			Since: start,
			Until: start.Add(7),
			Label: fmt.Sprintf("the week %02d", start.ISOWeek()),
		}
	case "month":
		start := New(today.Year(), today.Month(), 1)
		if phrase.last {
			start = New(start.Add(-1).Year(), start.Add(-1).Month(), 1)
		}
		w = Window{
			Since: start,
			Until: New(start.Year(), start.Month(), 1).addMonths(1),
			Label: start.Month().String(),
		}
	case "quarter":
		start := quarterStart(today)
		if phrase.last {
			start = quarterStart(start.Add(-1))
		}
		label := "this quarter"
		if phrase.last {
			label = "the last quarter"
		}
		w = Window{Since: start, Until: start.addMonths(3), Label: label}
	case "year":
		year := today.Year()
		if phrase.last {
			year--
		}
		label := "this year"
		if phrase.last {
			label = "the last year"
		}
		w = Window{Since: New(year, time.January, 1), Until: New(year+1, time.January, 1), Label: label}
	}

	if !w.Since.Before(w.Until) {
		return Window{}, errs.Usagef("invalid date range: %s is not before %s", w.Since, w.Until)
	}
	return w, nil
}

// addMonths shifts by whole months from the first of the month, avoiding
// time.AddDate's day-of-month normalization.
func (d Date) addMonths(n int) Date {
	y, m := d.Year(), int(d.Month())+n
	for m > 12 {
		m -= 12
		y++
	}
	return New(y, time.Month(m), d.t.Day())
}

type phrase struct {
	unit string // today, yesterday, friday, week, month, quarter, year
	last bool
}

// Keywords is the closed set of accepted positional tokens.
var Keywords = []string{
	"today", "yesterday", "friday",
	"this", "last",
	"week", "month", "quarter", "year",
}

// IsKeyword reports whether the token belongs to the closed keyword set.
func IsKeyword(word string) bool {
	lw := strings.ToLower(word)
	for _, k := range Keywords {
		if lw == k {
			return true
		}
	}
	return false
}

func parsePhrase(words []string) (phrase, error) {
	switch len(words) {
	case 0:
		return phrase{unit: "week"}, nil
	case 1:
		w := strings.ToLower(words[0])
		switch w {
		case "today", "yesterday", "friday":
			return phrase{unit: w}, nil
		case "week", "month", "quarter", "year":
			return phrase{unit: w}, nil
		}
		return phrase{}, errs.Usagef("unknown period keyword %q", words[0])
	case 2:
		qual, unit := strings.ToLower(words[0]), strings.ToLower(words[1])
		if qual != "this" && qual != "last" {
			return phrase{}, errs.Usagef("unknown period keyword %q", words[0])
		}
		switch unit {
		case "week", "month", "quarter", "year":
			return phrase{unit: unit, last: qual == "last"}, nil
		}
		return phrase{}, errs.Usagef("unknown period keyword %q", words[1])
	}
	return phrase{}, errs.Usagef("too many period keywords: %v", words)
}
