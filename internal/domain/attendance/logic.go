package attendance

import (
	"errors"
	"math"
	"time"
)

const clockLayout = "15:04:05"

// ParseClock validates an HH:MM:SS wall-clock value.
func ParseClock(value string) (time.Time, error) {
	return time.Parse(clockLayout, value)
}

// ShiftHours returns the worked hours between two wall-clock times, rounded
// to 2 decimals. A clock-out earlier than the clock-in is read as a shift
// crossing midnight.
func ShiftHours(clockIn, clockOut string) (float64, error) {
	start, err := ParseClock(clockIn)
	if err != nil {
		return 0, errors.New("invalid clock-in time")
	}
	end, err := ParseClock(clockOut)
	if err != nil {
		return 0, errors.New("invalid clock-out time")
	}

	duration := end.Sub(start)
	if duration < 0 {
		duration += 24 * time.Hour
	}
	return math.Round(duration.Hours()*100) / 100, nil
}

// CanReview reports whether a decision may be recorded for the timesheet.
func CanReview(status string) bool {
	return status == StatusPending
}
