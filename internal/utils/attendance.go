package utils

import "math"

// Attendance display classes.
const (
	AttendanceGood    = "text-green-600"
	AttendanceWarning = "text-yellow-600"
	AttendancePoor    = "text-red-600"
)

// AttendanceColor maps an attendance percentage to its display class:
// 85 and above is good, 75 and above is a warning, anything lower is poor.
func AttendanceColor(percentage float64) string {
	switch {
	case percentage >= 85:
		return AttendanceGood
	case percentage >= 75:
		return AttendanceWarning
	default:
		return AttendancePoor
	}
}

// AttendancePercentage returns present/total as a percentage rounded to one
// decimal place. A zero or negative total yields 0.
func AttendancePercentage(present, total int) float64 {
	if total <= 0 {
		return 0
	}
	pct := float64(present) * 100 / float64(total)
	return math.Round(pct*10) / 10
}
