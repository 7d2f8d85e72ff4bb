// Package timex extends time.Duration parsing with day counts ("7d") and
// provides a JSON-friendly Duration wrapper for configuration files.
package timex

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const Day = 24 * time.Hour

var ErrInvalidDayCount = errors.New(`invalid day count, want "<N>d"`)

// ParseDays parses the "<N>d" form, e.g. "7d". N must be a positive integer.
func ParseDays(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if !strings.HasSuffix(s, "d") {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDayCount, s)
	}
	n, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDayCount, s)
	}
	return time.Duration(n) * Day, nil
}

// ParseDuration accepts everything time.ParseDuration does plus the "<N>d" form.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "d") {
		return ParseDays(s)
	}
	return time.ParseDuration(s)
}

// Duration unmarshals from either a duration string ("15m", "7d") or an
// integer number of nanoseconds.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		parsed, err := ParseDuration(value)
		if err != nil {
			return err
		}
		d.Duration = parsed
		return nil
	default:
		return fmt.Errorf("invalid duration: %s", string(b))
	}
}
