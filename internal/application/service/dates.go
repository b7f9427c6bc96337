package service

import (
	"strings"
	"time"
)

// DateInputLayout is the value format of an HTML date input.
const DateInputLayout = "2006-01-02"

// acceptedDateLayouts covers what the ledger sheet returns in its first
// column: serialized Date values and plain dates typed into the sheet.
var acceptedDateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	DateInputLayout,
	"Mon Jan 02 2006 15:04:05 GMT-0700",
}

// DateFormatter renders ledger dates for people.
type DateFormatter struct {
	layout string
	loc    *time.Location
}

// NewDateFormatter creates a formatter writing layout in loc.
func NewDateFormatter(layout string, loc *time.Location) *DateFormatter {
	if layout == "" {
		layout = "1/2/2006"
	}
	if loc == nil {
		loc = time.UTC
	}
	return &DateFormatter{layout: layout, loc: loc}
}

// Format renders a ledger date cell. Empty cells stay empty and values that
// are not recognisable dates are returned unchanged.
func (f *DateFormatter) Format(cell string) string {
	v := strings.TrimSpace(cell)
	if v == "" {
		return ""
	}
	t, ok := ParseLedgerDate(v)
	if !ok {
		return cell
	}
	return t.In(f.loc).Format(f.layout)
}

// ParseLedgerDate parses a date the way the ledger writes them. Values
// without an offset are taken as UTC.
func ParseLedgerDate(v string) (time.Time, bool) {
	// JavaScript's Date.toString appends " (Zone Name)".
	if i := strings.Index(v, " ("); i > 0 {
		v = v[:i]
	}
	for _, layout := range acceptedDateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Today returns the current UTC date in date-input format.
func Today(now time.Time) string {
	return now.UTC().Format(DateInputLayout)
}

// ValidDateInput reports whether v is a calendar date in date-input format.
func ValidDateInput(v string) bool {
	_, err := time.Parse(DateInputLayout, v)
	return err == nil
}
