package util

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the accepted birth date format.
const DateLayout = "2006-01-02"

var clockLayouts = []string{"15:04", "15:04:05"}

// ParseBirthDate parses a calendar date in YYYY-MM-DD form.
func ParseBirthDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("birth date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

// ParseClockTime parses HH:MM or HH:MM:SS and returns the offset from
// midnight.
func ParseClockTime(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Duration(t.Hour())*time.Hour +
				time.Duration(t.Minute())*time.Minute +
				time.Duration(t.Second())*time.Second, nil
		}
	}
	return 0, fmt.Errorf("birth time %q: expected HH:MM or HH:MM:SS", s)
}

// BirthMoment combines a date and a clock time into one wall-clock instant.
// The result carries no zone; the ephemeris provider interprets it.
func BirthMoment(date, clock string) (time.Time, error) {
	d, err := ParseBirthDate(date)
	if err != nil {
		return time.Time{}, err
	}
	offset, err := ParseClockTime(clock)
	if err != nil {
		return time.Time{}, err
	}
	return d.Add(offset), nil
}

// IsBirthDate reports whether s parses as a birth date.
func IsBirthDate(s string) bool {
	_, err := ParseBirthDate(s)
	return err == nil
}

// IsClockTime reports whether s parses as a birth time.
func IsClockTime(s string) bool {
	_, err := ParseClockTime(s)
	return err == nil
}
