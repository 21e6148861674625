package patient

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// ageAt decomposes the calendar difference between dob and now into whole
// years, months and days. A day deficit borrows the length of the month
// preceding now; a month deficit borrows twelve months from the years.
func ageAt(dob, now time.Time) string {
	years := now.Year() - dob.Year()
	months := int(now.Month()) - int(dob.Month())
	days := now.Day() - dob.Day()

	if days < 0 {
		months--
		days += daysInPreviousMonth(now)
	}
	if months < 0 {
		years--
		months += 12
	}

	return fmt.Sprintf("%dy %dm %dd", years, months, days)
}

// daysInPreviousMonth returns the number of days in the month before now.
// Day zero of the current month normalizes to the last day of the previous one.
func daysInPreviousMonth(now time.Time) int {
	return time.Date(now.Year(), now.Month(), 0, 0, 0, 0, 0, now.Location()).Day()
}
