package sheet

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	secondsInMinute = 60
	secondsInHour   = 60 * secondsInMinute
	secondsInDay    = 8 * secondsInHour // one working day
	secondsInWeek   = 5 * secondsInDay  // one working week
)

// TimeToSeconds converts a schedule duration string to seconds. Durations
// carry a unit suffix (s, m, h, d, w) where days and weeks are working
// units of 8 and 40 hours; a bare number is seconds and blank is zero.
func TimeToSeconds(value string) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}

	unit := int64(1)
	number := value
	switch value[len(value)-1] {
	case 's':
		number = value[:len(value)-1]
	case 'm':
		unit = secondsInMinute
		number = value[:len(value)-1]
	case 'h':
		unit = secondsInHour
		number = value[:len(value)-1]
	case 'd':
		unit = secondsInDay
		number = value[:len(value)-1]
	case 'w':
		unit = secondsInWeek
		number = value[:len(value)-1]
	}

	n, err := strconv.ParseInt(strings.TrimSpace(number), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", value, err)
	}
	return n * unit, nil
}
