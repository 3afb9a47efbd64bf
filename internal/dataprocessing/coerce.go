package dataprocessing

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// nullTokens are the cell values read as missing, on top of the empty cell
var nullTokens = map[string]struct{}{
	"#N/A":     {},
	"#N/A N/A": {},
	"#NA":      {},
	"-1.#IND":  {},
	"-1.#QNAN": {},
	"-NaN":     {},
	"-nan":     {},
	"1.#IND":   {},
	"1.#QNAN":  {},
	"<NA>":     {},
	"N/A":      {},
	"NA":       {},
	"NULL":     {},
	"NaN":      {},
	"None":     {},
	"n/a":      {},
	"nan":      {},
	"null":     {},
}

// dateLayouts are tried in order by ParseSignupDate
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
	"2006/01/02",
	"01/02/2006",
	"2006-01-02 15:04",
}

// IsNull reports whether a raw cell counts as missing
func IsNull(cell string) bool {
	s := strings.TrimSpace(cell)
	if s == "" {
		return true
	}
	_, ok := nullTokens[s]
	return ok
}

// NormalizeState uppercases a state code as written; surrounding spaces are kept,
// so a padded code never matches an allowed one. Missing cells become "".
func NormalizeState(cell string) string {
	if IsNull(cell) {
		return ""
	}
	return strings.ToUpper(cell)
}

// AllowedStateSet builds the lookup set for configured state codes. The empty
// code is never allowed, so missing states cannot match.
func AllowedStateSet(states []string) map[string]struct{} {
	allowed := make(map[string]struct{}, len(states))
	for _, state := range states {
		code := strings.ToUpper(state)
		if code == "" {
			continue
		}
		allowed[code] = struct{}{}
	}
	return allowed
}

// ParseCustomerID parses an integer-like id. Integral floats such as "3.0" are
// accepted; anything else is reported as missing.
func ParseCustomerID(cell string) (int64, bool) {
	if IsNull(cell) {
		return 0, false
	}
	s := strings.TrimSpace(cell)

	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		return id, true
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// ParseSignupDate parses a date or timestamp cell. Unparseable cells are missing.
// Zone-qualified timestamps keep their wall clock time.
func ParseSignupDate(cell string) (time.Time, bool) {
	if IsNull(cell) {
		return time.Time{}, false
	}
	s := strings.TrimSpace(cell)

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseSpending parses a spending amount. NaN and infinities are missing.
func ParseSpending(cell string) (float64, bool) {
	if IsNull(cell) {
		return 0, false
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
