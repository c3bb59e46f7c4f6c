package core

import (
	"strconv"
	"strings"
	"time"
)

const secondsPerHour = 3600

// SecondsToHours converts a duration in seconds to hours rounded half-up to
// two decimals. Rounding works on the integer second count so that exact
// .005 boundaries always round up.
//
// Examples:
//
//	SecondsToHours(3600) -> 1.00
//	SecondsToHours(18)   -> 0.01 (0.005 rounds up)
//	SecondsToHours(17)   -> 0.00
func SecondsToHours(seconds int64) float64 {
	if seconds < 0 {
		return -SecondsToHours(-seconds)
	}
	// one hundredth of an hour is 36 seconds
	hundredths := (seconds + 18) / 36
	return float64(hundredths) / 100
}

// FormatHours renders hours with two decimals.
func FormatHours(hours float64) string {
	return strconv.FormatFloat(hours, 'f', 2, 64)
}

// ParseGoalHours parses a goal entered as text. Both dot and comma decimal
// separators are accepted.
func ParseGoalHours(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, NewValidationError("goal_hours", "please enter goal study hours")
	}
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &ValidationError{Field: "goal_hours", Message: "invalid number", Err: err}
	}
	return v, nil
}

// IsCurrentOrFutureDate reports whether millis falls on today or later in
// now's location. Task due dates are limited to such days.
func IsCurrentOrFutureDate(millis int64, now time.Time) bool {
	y, m, d := now.Date()
	startOfDay := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return millis >= startOfDay.UnixMilli()
}
