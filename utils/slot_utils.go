package utils

import (
    "fmt"
    "strings"
    "time"
)

// Time slots travel over the wire as "HH:MM-HH:MM" but are stored and
// compared as structured start/end times, never as free text.

// ParseTimeSlot validates a "HH:MM-HH:MM" display string and returns
// the normalized start and end components.
func ParseTimeSlot(s string) (start, end string, err error) {
    parts := strings.SplitN(strings.TrimSpace(s), "-", 2)
    if len(parts) != 2 {
        return "", "", fmt.Errorf("invalid time slot %q: expected HH:MM-HH:MM", s)
    }

    startT, err := time.Parse("15:04", strings.TrimSpace(parts[0]))
    if err != nil {
        return "", "", fmt.Errorf("invalid time slot %q: bad start time", s)
    }
    endT, err := time.Parse("15:04", strings.TrimSpace(parts[1]))
    if err != nil {
        return "", "", fmt.Errorf("invalid time slot %q: bad end time", s)
    }
    if !endT.After(startT) {
        return "", "", fmt.Errorf("invalid time slot %q: end must be after start", s)
    }

    return startT.Format("15:04"), endT.Format("15:04"), nil
}

// FormatTimeSlot builds the display form from start and end times.
func FormatTimeSlot(start, end string) string {
    return start + "-" + end
}

// ParseDate validates a calendar date in YYYY-MM-DD form.
func ParseDate(s string) (time.Time, error) {
    return time.Parse("2006-01-02", s)
}

// DayOfWeekName returns the weekday name stored alongside a booking.
// It is display-only; slots are bookable on any date.
func DayOfWeekName(date time.Time) string {
    return date.Weekday().String()
}
