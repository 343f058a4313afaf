package utils

import (
    "testing"
    "time"
)

func TestParseTimeSlot(t *testing.T) {
    start, end, err := ParseTimeSlot("09:00-10:30")
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    if start != "09:00" || end != "10:30" {
        t.Errorf("got %s-%s, want 09:00-10:30", start, end)
    }
}

func TestParseTimeSlotTrimsWhitespace(t *testing.T) {
    start, end, err := ParseTimeSlot(" 14:00 - 15:00 ")
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    if start != "14:00" || end != "15:00" {
        t.Errorf("got %s-%s, want 14:00-15:00", start, end)
    }
}

func TestParseTimeSlotRejectsBadInput(t *testing.T) {
    bad := []string{
        "",
        "0900-1000",
        "09:00",
        "09:00-09:00",
        "10:00-09:00",
        "25:00-26:00",
        "abc-def",
    }
    for _, s := range bad {
        if _, _, err := ParseTimeSlot(s); err == nil {
            t.Errorf("ParseTimeSlot(%q) succeeded, want error", s)
        }
    }
}

func TestFormatTimeSlot(t *testing.T) {
    if got := FormatTimeSlot("09:00", "10:00"); got != "09:00-10:00" {
        t.Errorf("got %q, want 09:00-10:00", got)
    }
}

func TestParseDate(t *testing.T) {
    d, err := ParseDate("2025-03-14")
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    if d.Year() != 2025 || d.Month() != time.March || d.Day() != 14 {
        t.Errorf("got %v, want 2025-03-14", d)
    }

    if _, err := ParseDate("14-03-2025"); err == nil {
        t.Error("expected error for non ISO date")
    }
}

func TestDayOfWeekName(t *testing.T) {
    d, _ := ParseDate("2025-03-14")
    if got := DayOfWeekName(d); got != "Friday" {
        t.Errorf("got %q, want Friday", got)
    }
}
