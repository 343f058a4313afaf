package models

import "strings"

// Booking statuses. A booking is never deleted; cancellation is a
// status transition only.
const (
    StatusScheduled = "Scheduled"
    StatusConfirmed = "Confirmed"
    StatusCompleted = "Completed"
    StatusCancelled = "Cancelled"
)

// NormalizeStatus maps a caller-supplied status onto the stored
// capitalization. Returns false for anything outside the vocabulary.
func NormalizeStatus(s string) (string, bool) {
    switch strings.ToLower(strings.TrimSpace(s)) {
    case "scheduled", "pending":
        return StatusScheduled, true
    case "confirmed":
        return StatusConfirmed, true
    case "completed":
        return StatusCompleted, true
    case "cancelled":
        return StatusCancelled, true
    }
    return "", false
}
