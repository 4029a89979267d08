package scheduler

import "github.com/christo725/family-bank-app/internal/dateutils"

// Upcoming describes the next allowance and interest days after today.
type Upcoming struct {
	NextSaturday      dateutils.Date `json:"next_saturday"`
	NextSunday        dateutils.Date `json:"next_sunday"`
	DaysUntilSaturday int            `json:"days_until_saturday"`
	DaysUntilSunday   int            `json:"days_until_sunday"`
	IsSaturday        bool           `json:"is_saturday"`
	IsSunday          bool           `json:"is_sunday"`
}

// NextDeposits returns the upcoming deposit days. On a Saturday the next
// allowance is a week away because today's has already been booked.
func NextDeposits(today dateutils.Date) Upcoming {
	sat := dateutils.NextOccurrence(today, AllowanceDay)
	sun := dateutils.NextOccurrence(today, InterestDay)
	return Upcoming{
		NextSaturday:      sat,
		NextSunday:        sun,
		DaysUntilSaturday: today.DaysUntil(sat),
		DaysUntilSunday:   today.DaysUntil(sun),
		IsSaturday:        today.Weekday() == AllowanceDay,
		IsSunday:          today.Weekday() == InterestDay,
	}
}
