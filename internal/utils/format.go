package utils

import "time"

// DisplayDateLayout is the date format used across the dashboard.
const DisplayDateLayout = "02 Jan 2006"

// FormatDate renders t as "14 Mar 2026", or "-" for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(DisplayDateLayout)
}
