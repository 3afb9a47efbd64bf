package exporter

import (
	"strconv"
	"strings"
	"time"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

// formatFloat writes the shortest decimal that round-trips, always with a
// decimal point: 120 -> "120.0", 250.5 -> "250.5"
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}

// formatInt formats an int64 value for CSV output
func formatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}

// dateLayoutFor picks the date-only layout when every value is at midnight
func dateLayoutFor(times []time.Time) string {
	for _, t := range times {
		h, m, s := t.Clock()
		if h != 0 || m != 0 || s != 0 || t.Nanosecond() != 0 {
			return dateTimeLayout
		}
	}
	return dateLayout
}
