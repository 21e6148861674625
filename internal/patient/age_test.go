package patient

import (
	"strings"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAgeAt(t *testing.T) {
	cases := []struct {
		name string
		dob  time.Time
		now  time.Time
		want string
	}{
		{
			name: "exact years",
			dob:  date(2020, time.March, 15),
			now:  date(2024, time.March, 15),
			want: "4y 0m 0d",
		},
		{
			name: "same day",
			dob:  date(2024, time.June, 1),
			now:  date(2024, time.June, 1),
			want: "0y 0m 0d",
		},
		{
			name: "plain difference",
			dob:  date(2020, time.January, 10),
			now:  date(2023, time.May, 25),
			want: "3y 4m 15d",
		},
		{
			name: "borrow days from previous month",
			dob:  date(2024, time.January, 25),
			now:  date(2024, time.March, 10),
			// day deficit borrows February's 29 days (2024 is a leap year)
			want: "0y 1m 14d",
		},
		{
			name: "borrow days then months",
			dob:  date(2023, time.December, 25),
			now:  date(2024, time.January, 10),
			want: "0y 0m 16d",
		},
		{
			name: "borrow months from years",
			dob:  date(2022, time.October, 5),
			now:  date(2024, time.March, 5),
			want: "1y 5m 0d",
		},
		{
			name: "day before first birthday",
			dob:  date(2023, time.July, 2),
			now:  date(2024, time.July, 1),
			want: "0y 11m 29d",
		},
		{
			name: "infant weeks old",
			dob:  date(2024, time.May, 20),
			now:  date(2024, time.June, 3),
			want: "0y 0m 14d",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ageAt(tc.dob, tc.now)
			if got != tc.want {
				t.Errorf("ageAt(%s, %s) = %q, want %q",
					tc.dob.Format(dateLayout), tc.now.Format(dateLayout), got, tc.want)
			}
		})
	}
}

func TestAgeAt_NoNegativeComponents(t *testing.T) {
	// Sweep a range of dob/now pairs and assert no component ever goes negative
	start := date(2015, time.January, 1)
	for dayOffset := 0; dayOffset < 800; dayOffset += 13 {
		dob := start.AddDate(0, 0, dayOffset)
		for ahead := 0; ahead < 1500; ahead += 37 {
			now := dob.AddDate(0, 0, ahead)
			got := ageAt(dob, now)
			if strings.Contains(got, "-") {
				t.Fatalf("ageAt(%s, %s) = %q contains a negative component",
					dob.Format(dateLayout), now.Format(dateLayout), got)
			}
		}
	}
}

func TestDaysInPreviousMonth(t *testing.T) {
	cases := []struct {
		now  time.Time
		want int
	}{
		{date(2024, time.March, 10), 29},  // February, leap year
		{date(2023, time.March, 10), 28},  // February
		{date(2024, time.January, 5), 31}, // December
		{date(2024, time.July, 1), 30},    // June
	}

	for _, tc := range cases {
		if got := daysInPreviousMonth(tc.now); got != tc.want {
			t.Errorf("daysInPreviousMonth(%s) = %d, want %d", tc.now.Format(dateLayout), got, tc.want)
		}
	}
}
