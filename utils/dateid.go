package utils

import (
	"regexp"
	"strconv"
	"time"
)

// BuildDateID builds the calendar key the clients use: day of month
// concatenated with the zero-based month index ("15"+"0" for January
// 15th). The key carries no year and is ambiguous for some day/month
// pairs ("111" is both Dec 1 and Feb 11); Task.DueDate holds the
// unambiguous timestamp.
func BuildDateID(day, month int) string {
	return strconv.Itoa(day) + strconv.Itoa(month)
}

// DateIDForTime builds the key for a concrete date.
func DateIDForTime(t time.Time) string {
	return BuildDateID(t.Day(), int(t.Month())-1)
}

// MonthPattern matches every dateId whose month suffix equals the
// given zero-based month, independent of year.
func MonthPattern(month int) *regexp.Regexp {
	return regexp.MustCompile(`\d+` + strconv.Itoa(month) + `$`)
}
