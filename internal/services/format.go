package services

import (
	"fmt"
	"time"
)

// FormatDuration formats a duration as "2h 5m" or "5m"
func FormatDuration(duration time.Duration) string {
	if duration < 0 {
		return "0m"
	}

	hours := int(duration.Hours())
	minutes := int(duration.Minutes()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// FormatHoursMinutes formats a duration as zero-padded "HH:MM"
func FormatHoursMinutes(duration time.Duration) string {
	if duration < 0 {
		duration = 0
	}
	minutes := int64(duration / time.Minute)
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// FormatStopwatch formats a duration as "HH:MM:SS.cc"
func FormatStopwatch(duration time.Duration) string {
	if duration < 0 {
		duration = 0
	}
	centis := int64(duration / (10 * time.Millisecond))
	hours := centis / 360000
	minutes := centis / 6000 % 60
	seconds := centis / 100 % 60
	return fmt.Sprintf("%02d:%02d:%02d.%02d", hours, minutes, seconds, centis%100)
}
