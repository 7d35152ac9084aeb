package calendar

import "time"

// adHocClosures are full-day closures outside the regular holiday rules.
var adHocClosures = map[string]string{
	"2012-10-29": "hurricane sandy",
	"2012-10-30": "hurricane sandy",
	"2018-12-05": "national day of mourning (G.H.W. Bush)",
	"2025-01-09": "national day of mourning (J. Carter)",
}

// yearHolidays returns the set of non-trading weekdays for one year,
// keyed by ISO date. Weekend-only holidays are omitted (they are already
// excluded by the weekday check).
func yearHolidays(year int) map[string]bool {
	set := map[string]bool{}
	add := func(d time.Time, ok bool) {
		if ok {
			set[d.Format("2006-01-02")] = true
		}
	}

	// New Year's Day: Sunday rolls to Monday; a Saturday Jan 1 is not
	// observed (the exchange trades the preceding Dec 31).
	ny := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	switch ny.Weekday() {
	case time.Saturday:
	case time.Sunday:
		add(ny.AddDate(0, 0, 1), true)
	default:
		add(ny, true)
	}

	add(nthWeekday(year, time.January, time.Monday, 3), true)  // MLK Day
	add(nthWeekday(year, time.February, time.Monday, 3), true) // Washington's Birthday
	add(easter(year).AddDate(0, 0, -2), true)                  // Good Friday
	add(lastWeekday(year, time.May, time.Monday), true)        // Memorial Day
	add(observed(year, time.June, 19), year >= 2022)           // Juneteenth
	add(observed(year, time.July, 4), true)                    // Independence Day
	add(nthWeekday(year, time.September, time.Monday, 1), true) // Labor Day
	add(nthWeekday(year, time.November, time.Thursday, 4), true) // Thanksgiving
	add(observed(year, time.December, 25), true)               // Christmas

	for iso := range adHocClosures {
		d, _ := time.Parse("2006-01-02", iso)
		if d.Year() == year {
			set[iso] = true
		}
	}

	return set
}

// observed shifts a fixed-date holiday off the weekend: Saturday is
// observed the Friday before, Sunday the Monday after.
func observed(year int, month time.Month, day int) time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	switch d.Weekday() {
	case time.Saturday:
		return d.AddDate(0, 0, -1)
	case time.Sunday:
		return d.AddDate(0, 0, 1)
	}
	return d
}

// nthWeekday returns the nth occurrence of a weekday within a month.
func nthWeekday(year int, month time.Month, weekday time.Weekday, n int) time.Time {
	d := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(weekday) - int(d.Weekday()) + 7) % 7
	return d.AddDate(0, 0, offset+(n-1)*7)
}

// lastWeekday returns the final occurrence of a weekday within a month.
func lastWeekday(year int, month time.Month, weekday time.Weekday) time.Time {
	d := time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	offset := (int(d.Weekday()) - int(weekday) + 7) % 7
	return d.AddDate(0, 0, -offset)
}

// easter computes Easter Sunday (Gregorian, anonymous computus).
func easter(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}
