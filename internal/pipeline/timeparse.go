package pipeline

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseTimeToSeconds accepts HH:MM:SS.mmm, MM:SS, or bare seconds and
// returns float seconds.
func ParseTimeToSeconds(value string) (float64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, fmt.Errorf("empty time value")
	}
	if !strings.Contains(trimmed, ":") {
		seconds, err := strconv.ParseFloat(trimmed, 64)
		if err != nil || seconds < 0 {
			return 0, fmt.Errorf("invalid time %q", value)
		}
		return seconds, nil
	}

	parts := strings.Split(trimmed, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("invalid time format %q", value)
	}
	total := 0.0
	for i, part := range parts {
		last := i == len(parts)-1
		if last {
			seconds, err := strconv.ParseFloat(part, 64)
			if err != nil || seconds < 0 {
				return 0, fmt.Errorf("invalid time format %q", value)
			}
			total = total*60 + seconds
			continue
		}
		unit, err := strconv.Atoi(part)
		if err != nil || unit < 0 {
			return 0, fmt.Errorf("invalid time format %q", value)
		}
		total = total*60 + float64(unit)
	}
	return total, nil
}
