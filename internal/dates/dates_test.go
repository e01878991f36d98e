package dates

import (
	"testing"
	"time"

	"did/internal/errs"
)

func mustParse(t *testing.T, s string) Date {
	t.Helper()
	d, err := Parse(s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func TestParseRoundTrip(t *testing.T) {
	for _, s := range []string{"2023-01-01", "2024-02-29", "1999-12-31"} {
		d := mustParse(t, s)
		if d.String() != s {
			t.Errorf("round trip %q = %q", s, d.String())
		}
	}
}

func TestParseInvalid(t *testing.T) {
	for _, s := range []string{"2023-13-01", "yesterday", "2023/01/01", ""} {
		if _, err := Parse(s); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", s)
		} else if !errs.IsUsage(err) {
			t.Errorf("Parse(%q) error is not a usage error: %v", s, err)
		}
	}
}

func TestDateArithmetic(t *testing.T) {
	d := mustParse(t, "2023-02-28")
	if got := d.Add(1).String(); got != "2023-03-01" {
		t.Errorf("Add(1) = %s, want 2023-03-01", got)
	}
	if got := d.Add(-28).String(); got != "2023-01-31" {
		t.Errorf("Add(-28) = %s, want 2023-01-31", got)
	}
	if !d.Before(d.Add(1)) || d.Add(1).Before(d) {
		t.Error("Before ordering broken")
	}
}

// Wednesday 2023-10-04 sits inside ISO week 40.
var wednesday = New(2023, time.October, 4)

func TestResolvePeriod(t *testing.T) {
	tests := []struct {
		words []string
		since string
		until string
		label string
	}{
		{nil, "2023-10-02", "2023-10-09", "the week 40"},
		{[]string{"week"}, "2023-10-02", "2023-10-09", "the week 40"},
		{[]string{"This", "Week"}, "2023-10-02", "2023-10-09", "the week 40"},
		{[]string{"last", "week"}, "2023-09-25", "2023-10-02", "the week 39"},
		{[]string{"month"}, "2023-10-01", "2023-11-01", "October"},
		{[]string{"last", "month"}, "2023-09-01", "2023-10-01", "September"},
		{[]string{"quarter"}, "2023-10-01", "2024-01-01", "this quarter"},
		{[]string{"last", "quarter"}, "2023-07-01", "2023-10-01", "the last quarter"},
		{[]string{"year"}, "2023-01-01", "2024-01-01", "this year"},
		{[]string{"last", "year"}, "2022-01-01", "2023-01-01", "the last year"},
		{[]string{"today"}, "2023-10-04", "2023-10-05", "today"},
		{[]string{"yesterday"}, "2023-10-03", "2023-10-04", "yesterday"},
		{[]string{"friday"}, "2023-09-29", "2023-09-30", "the last friday"},
	}
	for _, tt := range tests {
		w, err := ResolvePeriod(tt.words, wednesday)
		if err != nil {
			t.Errorf("ResolvePeriod(%v): %v", tt.words, err)
			continue
		}
		if w.Since.String() != tt.since || w.Until.String() != tt.until {
			t.Errorf("ResolvePeriod(%v) = [%s, %s), want [%s, %s)",
				tt.words, w.Since, w.Until, tt.since, tt.until)
		}
		if w.Label != tt.label {
			t.Errorf("ResolvePeriod(%v) label = %q, want %q", tt.words, w.Label, tt.label)
		}
	}
}

func TestResolvePeriodOnFriday(t *testing.T) {
	friday := New(2023, time.October, 6)
	w, err := ResolvePeriod([]string{"friday"}, friday)
	if err != nil {
		t.Fatal(err)
	}
	if w.Since.String() != "2023-10-06" {
		t.Errorf("friday on a Friday = %s, want 2023-10-06", w.Since)
	}
}

func TestResolvePeriodUnknown(t *testing.T) {
	for _, words := range [][]string{
		{"fortnight"},
		{"next", "week"},
		{"this", "sprint"},
		{"this", "last", "week"},
	} {
		if _, err := ResolvePeriod(words, wednesday); !errs.IsUsage(err) {
			t.Errorf("ResolvePeriod(%v) = %v, want usage error", words, err)
		}
	}
}

func TestResolveExplicitRange(t *testing.T) {
	w, err := Resolve([]string{"last", "year"}, "2023-01-01", "2023-01-02", wednesday)
	if err != nil {
		t.Fatal(err)
	}
	// Keywords are ignored; the upper bound is inclusive on input.
	if w.Since.String() != "2023-01-01" || w.Until.String() != "2023-01-03" {
		t.Errorf("Resolve = [%s, %s), want [2023-01-01, 2023-01-03)", w.Since, w.Until)
	}
	since, until := w.Display()
	if since != "2023-01-01" || until != "2023-01-02" {
		t.Errorf("Display = (%s, %s), want the inclusive range back", since, until)
	}
}

func TestResolveDefaultBounds(t *testing.T) {
	w, err := Resolve(nil, "", "2023-10-01", wednesday)
	if err != nil {
		t.Fatal(err)
	}
	if !w.Since.Equal(EarlySentinel) {
		t.Errorf("missing --since should fall back to the sentinel, got %s", w.Since)
	}

	w, err = Resolve(nil, "2023-10-01", "", wednesday)
	if err != nil {
		t.Fatal(err)
	}
	if !w.Until.Equal(wednesday.Add(1)) {
		t.Errorf("missing --until should fall back to today, got %s", w.Until)
	}
}

func TestResolveInvertedRange(t *testing.T) {
	for _, until := range []string{"2024-05-10", "2024-05-09"} {
		if _, err := Resolve(nil, "2024-05-10", until, wednesday); !errs.IsUsage(err) {
			t.Errorf("range ending %s error = %v, want usage error", until, err)
		}
	}
}

func TestWindowContains(t *testing.T) {
	w, _ := ResolvePeriod([]string{"week"}, wednesday)
	if !w.Contains(wednesday) {
		t.Error("window should contain its reference day")
	}
	if w.Contains(w.Until) {
		t.Error("window must be half-open")
	}
}
