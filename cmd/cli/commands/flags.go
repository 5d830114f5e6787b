package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/pflag"
)

// optionalInt returns the flag value only when the flag was set on the command line
func optionalInt(flags *pflag.FlagSet, name string) (*int, error) {
	if !flags.Changed(name) {
		return nil, nil
	}
	value, err := flags.GetInt(name)
	if err != nil {
		return nil, err
	}
	if value < 0 {
		return nil, fmt.Errorf("--%s must not be negative, got %d", name, value)
	}
	return &value, nil
}

// parseSeed parses the --seed flag. An empty string means a random seed.
func parseSeed(raw string) (*uint64, error) {
	if raw == "" {
		return nil, nil
	}
	seed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("seed must be a non-negative integer: %w", err)
	}
	return &seed, nil
}

// nextMonth returns the year and month after now
func nextMonth(now time.Time) (int, time.Month) {
	next := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return next.Year(), next.Month()
}
