package dateutils

import "time"

// NextOccurrence returns the nearest day strictly after d that falls on wd.
// When d itself is a wd the result is one week later.
func NextOccurrence(d Date, wd time.Weekday) Date {
	days := (int(wd) - int(d.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	return d.AddDays(days)
}

// OccurrencesBetween lists every wd in [NextOccurrence(start, wd), end],
// oldest first. The result is empty when end is before the first occurrence.
func OccurrencesBetween(start, end Date, wd time.Weekday) []Date {
	var out []Date
	for cur := NextOccurrence(start, wd); !cur.After(end); cur = cur.AddDays(7) {
		out = append(out, cur)
	}
	return out
}

// LastOccurrenceBefore returns the latest day strictly before d that falls on wd.
func LastOccurrenceBefore(d Date, wd time.Weekday) Date {
	days := (int(d.Weekday()) - int(wd) + 7) % 7
	if days == 0 {
		days = 7
	}
	return d.AddDays(-days)
}

// FirstEligible is the first wd a schedule starting on start can produce.
// A schedule never fires on its own start day.
func FirstEligible(start Date, wd time.Weekday) Date {
	return NextOccurrence(start, wd)
}
