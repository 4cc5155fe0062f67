// Package salary interprets the free-form salary_range text stored on job
// postings, e.g. "$50k - $70k" or "$136457".
package salary

import (
	"strconv"
	"strings"
)

var stripper = strings.NewReplacer("$", "", ",", "")

// Filter bounds a posting's salary. A nil bound is not applied.
type Filter struct {
	Min *float64
	Max *float64
}

func (f Filter) IsZero() bool {
	return f.Min == nil && f.Max == nil
}

// Range is the parsed form of a salary string. Single values have Min == Max.
type Range struct {
	Min float64
	Max float64
}

// ParseAmount parses one salary fragment. A trailing k/K multiplies the
// numeric prefix by 1000. Anything unparseable is 0.
func ParseAmount(raw string) float64 {
	s := strings.TrimSpace(stripper.Replace(raw))
	mult := 1.0
	if strings.HasSuffix(s, "k") || strings.HasSuffix(s, "K") {
		mult = 1000
		s = strings.TrimSpace(s[:len(s)-1])
	}
	return leadingNumber(s) * mult
}

// ParseRange splits on the first "-" when present; each side is parsed with
// ParseAmount.
func ParseRange(raw string) Range {
	if lo, hi, ok := strings.Cut(raw, "-"); ok {
		return Range{Min: ParseAmount(lo), Max: ParseAmount(hi)}
	}
	v := ParseAmount(raw)
	return Range{Min: v, Max: v}
}

// Matches reports whether a posting with the given salary text passes f.
// The range minimum is checked against f.Min and the range maximum against
// f.Max.
func (f Filter) Matches(raw string) bool {
	if f.IsZero() {
		return true
	}
	r := ParseRange(raw)
	if f.Min != nil && r.Min < *f.Min {
		return false
	}
	if f.Max != nil && r.Max > *f.Max {
		return false
	}
	return true
}

// leadingNumber parses the longest numeric prefix of s, so "70/yr" is 70.
func leadingNumber(s string) float64 {
	end := 0
	seenDigit := false
	seenDot := false
scan:
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			seenDigit = true
			end = i + 1
		case r == '.' && !seenDot:
			seenDot = true
		case (r == '+' || r == '-') && i == 0:
		default:
			break scan
		}
	}
	if !seenDigit {
		return 0
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	return v
}
