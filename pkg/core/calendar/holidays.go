package calendar

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/teambition/rrule-go"
)

// DateLayout is the ISO calendar-date format exchanged with the event store
const DateLayout = "2006-01-02"

// HolidayRule is a recurring holiday expressed as an RFC 5545 recurrence rule
// e.g. "FREQ=YEARLY;BYMONTH=12;BYMONTHDAY=25" or "FREQ=YEARLY;BYEASTER=-2"
type HolidayRule struct {
	Name  string
	RRule string
}

// Holiday is a single non-business date
type Holiday struct {
	Date string
	Name string
}

// ParseRule parses a holiday recurrence rule.
// A yearly rule must name its day with BYMONTHDAY, BYDAY, BYYEARDAY, BYWEEKNO or BYEASTER,
// otherwise the date would fall back to the start of the expanded year.
func ParseRule(s string) (*rrule.RRule, error) {
	rule, err := rrule.StrToRRule(s)
	if err != nil {
		return nil, err
	}

	keys := make(map[string]bool)
	for _, part := range strings.Split(strings.ToUpper(s), ";") {
		key, value, _ := strings.Cut(part, "=")
		keys[strings.TrimSpace(key)] = strings.TrimSpace(value) != ""
	}

	if rule.OrigOptions.Freq == rrule.YEARLY {
		for _, anchor := range []string{"BYMONTHDAY", "BYDAY", "BYYEARDAY", "BYWEEKNO", "BYEASTER"} {
			if keys[anchor] {
				return rule, nil
			}
		}
		return nil, fmt.Errorf("yearly rule %q has no day selector", s)
	}

	return rule, nil
}

type namedRule struct {
	name string
	rule *rrule.RRule
}

// Calendar decides which dates are business days.
// It combines one-off holiday dates with recurring rules expanded per year.
type Calendar struct {
	fixed map[string]string
	rules []namedRule

	mu     sync.Mutex
	byYear map[int]map[string]string
}

// New builds a calendar from one-off dates (YYYY-MM-DD) and recurring rules
func New(dates []string, rules []HolidayRule) (*Calendar, error) {
	c := &Calendar{
		fixed:  make(map[string]string, len(dates)),
		byYear: make(map[int]map[string]string),
	}

	for _, d := range dates {
		parsed, err := time.Parse(DateLayout, d)
		if err != nil {
			return nil, fmt.Errorf("invalid holiday date %q: %w", d, err)
		}
		c.fixed[parsed.Format(DateLayout)] = "Holiday"
	}

	for i, r := range rules {
		rule, err := ParseRule(r.RRule)
		if err != nil {
			return nil, fmt.Errorf("failed to parse holiday rule %d (%s): %w", i, r.Name, err)
		}
		name := r.Name
		if name == "" {
			name = "Holiday"
		}
		c.rules = append(c.rules, namedRule{name: name, rule: rule})
	}

	return c, nil
}

// yearHolidays returns the date -> name map for the given year, expanding rules once
func (c *Calendar) yearHolidays(year int) map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cached, ok := c.byYear[year]; ok {
		return cached
	}

	holidays := make(map[string]string)
	for date, name := range c.fixed {
		if date[:4] == fmt.Sprintf("%04d", year) {
			holidays[date] = name
		}
	}

	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	for _, nr := range c.rules {
		// Anchor the rule at the start of the year being expanded
		nr.rule.DTStart(yearStart)
		for _, occurrence := range nr.rule.Between(yearStart, yearEnd, true) {
			date := occurrence.Format(DateLayout)
			if _, exists := holidays[date]; !exists {
				holidays[date] = nr.name
			}
		}
	}

	c.byYear[year] = holidays
	return holidays
}

// IsHoliday returns true if the date is in the holiday set
func (c *Calendar) IsHoliday(day time.Time) bool {
	_, ok := c.yearHolidays(day.Year())[day.Format(DateLayout)]
	return ok
}

// IsBusinessDay returns true for weekdays that are not holidays
func (c *Calendar) IsBusinessDay(day time.Time) bool {
	if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
		return false
	}
	return !c.IsHoliday(day)
}

// Holidays returns the holidays of a year in date order
func (c *Calendar) Holidays(year int) []Holiday {
	yearMap := c.yearHolidays(year)

	holidays := make([]Holiday, 0, len(yearMap))
	for date, name := range yearMap {
		holidays = append(holidays, Holiday{Date: date, Name: name})
	}
	sort.Slice(holidays, func(i, j int) bool {
		return holidays[i].Date < holidays[j].Date
	})

	return holidays
}

// BusinessDays returns the business days of a month in ascending order
func (c *Calendar) BusinessDays(year int, month time.Month) []time.Time {
	first, last := MonthBounds(year, month)

	var days []time.Time
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		if c.IsBusinessDay(day) {
			days = append(days, day)
		}
	}
	return days
}

// MonthBounds returns the first and last day of a month (UTC midnight)
func MonthBounds(year int, month time.Month) (time.Time, time.Time) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first, last
}

// ParseDate parses an ISO calendar date into UTC midnight
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// SameWeek returns true if both days fall in the same ISO week
func SameWeek(a, b time.Time) bool {
	ay, aw := a.ISOWeek()
	by, bw := b.ISOWeek()
	return ay == by && aw == bw
}
