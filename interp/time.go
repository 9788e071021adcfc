package interp

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// TimestampLayout is the format produced by "time".
const TimestampLayout = "2006-01-02T15:04:05Z"

// ParseTimeOfDay resolves "HH:MM" or "HH:MM:SS" to that time on day's
// date in UTC.
func ParseTimeOfDay(s string, day time.Time) (time.Time, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	limits := []int{23, 59, 59}
	fields := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > limits[i] {
			return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
		}
		fields[i] = n
	}
	y, m, d := day.UTC().Date()
	return time.Date(y, m, d, fields[0], fields[1], fields[2], 0, time.UTC), nil
}

// FormatTimestamp renders Unix seconds as TimestampLayout in UTC.
func FormatTimestamp(seconds float64) string {
	whole, frac := math.Modf(seconds)
	return time.Unix(int64(whole), int64(math.Round(frac*1e9))).UTC().Format(TimestampLayout)
}

func unixSeconds(t time.Time) Number {
	return Number(float64(t.Unix()) + float64(t.Nanosecond())/1e9)
}
