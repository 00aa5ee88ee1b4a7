package utils

import (
	"time"

	"github.com/pkg/errors"
)

// DateLayout is the yyyy-MM-dd format the platform uses everywhere.
const DateLayout = "2006-01-02"

// ParseDate parses a yyyy-MM-dd date. Empty input is an error so callers do
// not silently get the zero time.
func ParseDate(dateStr string) (time.Time, error) {
	if dateStr == "" {
		return time.Time{}, errors.New("empty date")
	}
	return time.Parse(DateLayout, dateStr)
}
