package services

import (
	"github.com/asanahu/Calendario/internal/config"
	"github.com/asanahu/Calendario/pkg/core/calendar"
)

// ListHolidays returns the configured holidays of a year in date order
func ListHolidays(cfg *config.Config, year int) ([]calendar.Holiday, error) {
	cal, err := BuildCalendar(cfg)
	if err != nil {
		return nil, err
	}
	return cal.Holidays(year), nil
}
