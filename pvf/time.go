package pvf

import (
	"math"
	"strings"
	"time"
)

// =============================================================================
// CLOCK - Source of the as-of date
// =============================================================================

// Clock supplies the as-of date. Every derived field depends on it, so
// tests pin it with FixedClock.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns At.
type FixedClock struct {
	At time.Time
}

func (c FixedClock) Now() time.Time { return c.At }

// Date builds a UTC midnight time, mirroring the D/M/YYYY feed order.
func Date(day int, month time.Month, year int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// =============================================================================
// DATE PARTS - D/M/YYYY strings
// =============================================================================

// DateParts holds the day, month and year tokens of a feed date.
// A missing or unparseable token is NaN.
type DateParts struct {
	Day   float64
	Month float64
	Year  float64
}

// IsValid reports whether all three tokens parsed.
func (p DateParts) IsValid() bool {
	return !math.IsNaN(p.Day) && !math.IsNaN(p.Month) && !math.IsNaN(p.Year)
}

// ParseStartDate splits s on "/" into day, month and year.
// It never fails: an empty string yields three NaN parts.
func ParseStartDate(s string) DateParts {
	var tokens []string
	if s != "" {
		tokens = strings.Split(s, "/")
	}
	return DateParts{
		Day:   parseToken(tokens, 0),
		Month: parseToken(tokens, 1),
		Year:  parseToken(tokens, 2),
	}
}

func parseToken(tokens []string, i int) float64 {
	if i >= len(tokens) {
		return math.NaN()
	}
	return parseIntPrefix(tokens[i])
}

// parseIntPrefix reads a leading base-10 integer, ignoring leading
// whitespace and any trailing garbage ("12abc" is 12). No digits is NaN.
func parseIntPrefix(s string) float64 {
	s = strings.TrimLeft(s, " \t\n\r\v\f")
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}

	value, digits := 0.0, 0
	for digits < len(s) && s[digits] >= '0' && s[digits] <= '9' {
		value = value*10 + float64(s[digits]-'0')
		digits++
	}
	if digits == 0 {
		return math.NaN()
	}
	if neg {
		return -value
	}
	return value
}
