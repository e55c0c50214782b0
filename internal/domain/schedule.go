package domain

import "time"

const dateLayout = "2006-01-02"

// DaysCount returns the number of trip days for day-tab rendering.
//
// When both Start and End parse and the inclusive span is positive, the span wins.
// Otherwise it falls back to the number of distinct day indices present, floored at 3.
// The floor of 3 is deliberately different from Nights' floor of 1; both constants
// are load-bearing for existing screens and must not be unified.
func DaysCount(it Itinerary) int {
	if start, end, ok := parseDates(it); ok {
		span := daysBetween(start, end) + 1
		if span >= 1 {
			return span
		}
	}
	if n := len(it.Days); n > 3 {
		return n
	}
	return 3
}

// Nights returns the number of billable nights: the exclusive day span when both
// dates parse (arrival day excluded), floored at 1; otherwise 1.
func Nights(it Itinerary) int {
	if start, end, ok := parseDates(it); ok {
		if n := daysBetween(start, end); n >= 1 {
			return n
		}
	}
	return 1
}

func parseDates(it Itinerary) (start, end time.Time, ok bool) {
	start, err := time.Parse(dateLayout, it.Start)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	end, err = time.Parse(dateLayout, it.End)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

func daysBetween(start, end time.Time) int {
	return int(end.Sub(start).Hours() / 24)
}
