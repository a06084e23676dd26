package interview

import (
	"fmt"
	"time"
)

// DateTimeLocalLayout is the HTML datetime-local input format.
const DateTimeLocalLayout = "2006-01-02T15:04"

// ToDateTimeLocal renders t with the wall-clock fields of loc at minute resolution.
func ToDateTimeLocal(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DateTimeLocalLayout)
}

// FromDateTimeLocal reads a datetime-local value as wall-clock time in loc.
func FromDateTimeLocal(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(DateTimeLocalLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid datetime-local value %q: %w", value, err)
	}
	return t, nil
}

// FormatDateTimeLocal converts an ISO-8601 storage value to datetime-local.
func FormatDateTimeLocal(iso string, loc *time.Location) (string, error) {
	t, ok := ParseTimestamp(iso, loc)
	if !ok {
		return "", fmt.Errorf("invalid ISO-8601 value %q", iso)
	}
	return ToDateTimeLocal(t, loc), nil
}

// ParseDateTimeLocal converts a datetime-local value to the ISO-8601 storage form (UTC).
func ParseDateTimeLocal(value string, loc *time.Location) (string, error) {
	t, err := FromDateTimeLocal(value, loc)
	if err != nil {
		return "", err
	}
	return t.UTC().Format(time.RFC3339), nil
}
