// Package segment implements the rule-based customer segmentation engine:
// three independent classifiers over a shared transaction table and the
// combiner that merges their per-customer labels.
package segment

import "time"

// FestivePeriod is a closed (month, day) interval. Periods whose start month
// is later than their end month wrap the year boundary, like Dec 15 - Jan 15.
type FestivePeriod struct {
	Name       string `mapstructure:"name"`
	StartMonth int    `mapstructure:"start_month"`
	StartDay   int    `mapstructure:"start_day"`
	EndMonth   int    `mapstructure:"end_month"`
	EndDay     int    `mapstructure:"end_day"`
}

// Wraps reports whether the period spans the year boundary.
func (p FestivePeriod) Wraps() bool {
	return p.StartMonth > p.EndMonth
}

// Contains reports whether the month and day of t fall inside the period.
func (p FestivePeriod) Contains(t time.Time) bool {
	month := int(t.Month())
	day := t.Day()

	if p.Wraps() {
		switch {
		case month == p.StartMonth && day >= p.StartDay:
			return true
		case month == p.EndMonth && day <= p.EndDay:
			return true
		case month > p.StartMonth || month < p.EndMonth:
			return true
		}
		return false
	}

	if p.StartMonth == p.EndMonth {
		return month == p.StartMonth && day >= p.StartDay && day <= p.EndDay
	}
	switch {
	case month == p.StartMonth:
		return day >= p.StartDay
	case month == p.EndMonth:
		return day <= p.EndDay
	default:
		return month > p.StartMonth && month < p.EndMonth
	}
}

// FestiveCalendar is the set of shopping seasons used to detect seasonal
// customers. A date is festive when it falls in at least one period.
type FestiveCalendar []FestivePeriod

// Contains reports whether t falls in any period of the calendar.
func (c FestiveCalendar) Contains(t time.Time) bool {
	for _, p := range c {
		if p.Contains(t) {
			return true
		}
	}
	return false
}

// DefaultCalendar returns the Sri Lankan retail shopping seasons. The
// calendar is configuration so it can be swapped per locale.
func DefaultCalendar() FestiveCalendar {
	return FestiveCalendar{
		{Name: "christmas_new_year", StartMonth: 12, StartDay: 15, EndMonth: 1, EndDay: 15},
		{Name: "sinhala_tamil_new_year", StartMonth: 4, StartDay: 1, EndMonth: 4, EndDay: 30},
		{Name: "back_to_school", StartMonth: 1, StartDay: 1, EndMonth: 2, EndDay: 15},
		{Name: "vesak", StartMonth: 5, StartDay: 1, EndMonth: 5, EndDay: 31},
		{Name: "mid_year_sales", StartMonth: 6, StartDay: 15, EndMonth: 7, EndDay: 15},
	}
}
