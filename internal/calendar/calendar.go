package calendar

import (
	"fmt"
	"time"
)

// canonical maps accepted market identifiers onto the shared US-equity schedule.
var canonical = map[string]string{
	"XNYS":   "us_equity",
	"NYSE":   "us_equity",
	"XNAS":   "us_equity",
	"NASDAQ": "us_equity",
}

// TradingDays returns every valid trading day for market between start and
// end, inclusive, in ascending order. Dates are civil dates (UTC midnight).
// An unknown market identifier is a configuration error.
func TradingDays(market string, start, end time.Time) ([]time.Time, error) {
	if _, ok := canonical[market]; !ok {
		return nil, fmt.Errorf("unknown market calendar %q", market)
	}

	first := Date(start)
	last := Date(end)
	if last.Before(first) {
		return nil, nil
	}

	var days []time.Time
	holidays := map[int]map[string]bool{}

	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		switch d.Weekday() {
		case time.Saturday, time.Sunday:
			continue
		}

		y := d.Year()
		if _, ok := holidays[y]; !ok {
			holidays[y] = yearHolidays(y)
		}
		if holidays[y][d.Format("2006-01-02")] {
			continue
		}

		days = append(days, d)
	}

	return days, nil
}

// IsTradingDay reports whether the given date is a valid trading day.
func IsTradingDay(market string, day time.Time) (bool, error) {
	days, err := TradingDays(market, day, day)
	if err != nil {
		return false, err
	}
	return len(days) == 1, nil
}

// Date truncates t to its civil date at UTC midnight.
func Date(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
