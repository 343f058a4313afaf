package controllers

import (
    "database/sql"
    "net/http"

    "github.com/gin-gonic/gin"
    "github.com/lib/pq"
    "github.com/rs/zerolog/log"

    "github.com/Mibrahim0941/DB-Project-Schedulify/config"
    "github.com/Mibrahim0941/DB-Project-Schedulify/metrics"
    "github.com/Mibrahim0941/DB-Project-Schedulify/models"
    "github.com/Mibrahim0941/DB-Project-Schedulify/security"
    "github.com/Mibrahim0941/DB-Project-Schedulify/utils"
)

type BookAppointmentInput struct {
    PtID     int64  `json:"PtID" binding:"required"`
    DocID    int64  `json:"DocID" binding:"required"`
    TimeSlot string `json:"TimeSlot" binding:"required"`
    AptDate  string `json:"AptDate" binding:"required"`
}

type CancelAppointmentInput struct {
    AppointmentID int64 `json:"appointmentID" binding:"required"`
}

type UpdateAppointmentStatusInput struct {
    AptID  int64  `json:"AptID" binding:"required"`
    Status string `json:"Status" binding:"required"`
}

// isUniqueViolation reports whether err is the partial unique index on
// (doc_id/test_id, slot_id, apt_date) rejecting a concurrent double
// booking, or a serialization failure from two racing transactions.
func isUniqueViolation(err error) bool {
    if pqErr, ok := err.(*pq.Error); ok {
        return pqErr.Code == "23505" || pqErr.Code == "40001"
    }
    return false
}

// BookAppointment reserves a (doctor, slot, date) triple for a patient.
// The conflict check, insert, and counter increment run in one
// serializable transaction; the partial unique index on appointments
// backstops concurrent attempts the check cannot see.
func BookAppointment(c *gin.Context) {
    var input BookAppointmentInput
    if err := c.ShouldBindJSON(&input); err != nil {
        security.SendValidationError(c, "Missing required fields (PtID, DocID, TimeSlot, AptDate)", err.Error())
        return
    }

    aptDate, err := utils.ParseDate(input.AptDate)
    if err != nil {
        security.SendValidationError(c, "Invalid appointment date format", "Use YYYY-MM-DD format")
        return
    }
    aptDay := utils.DayOfWeekName(aptDate)

    startTime, endTime, err := utils.ParseTimeSlot(input.TimeSlot)
    if err != nil {
        security.SendValidationError(c, "Invalid time slot format", "Use HH:MM-HH:MM format")
        return
    }

    tx, err := config.DB.BeginTx(c.Request.Context(), &sql.TxOptions{Isolation: sql.LevelSerializable})
    if err != nil {
        security.SendDatabaseError(c, "Failed to start transaction")
        return
    }
    defer tx.Rollback()

    var patientExists bool
    err = tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM patients WHERE pt_id = $1)`, input.PtID).Scan(&patientExists)
    if err != nil {
        security.SendDatabaseError(c, "Database error while checking patient")
        return
    }
    if !patientExists {
        security.SendNotFoundError(c, "patient")
        return
    }

    // Resolve the display slot against the doctor's structured slots
    var slotID int64
    err = tx.QueryRow(`
        SELECT slot_id FROM time_slots
        WHERE doc_id = $1 AND start_time = $2::time AND end_time = $3::time
    `, input.DocID, startTime, endTime).Scan(&slotID)
    if err == sql.ErrNoRows {
        metrics.RecordBooking("appointment", "invalid_slot")
        security.SendValidationError(c, "Invalid time slot for this doctor", "No such time slot exists for the selected doctor")
        return
    }
    if err != nil {
        security.SendDatabaseError(c, "Database error while resolving time slot")
        return
    }

    var alreadyBooked bool
    err = tx.QueryRow(`
        SELECT EXISTS(
            SELECT 1 FROM appointments
            WHERE doc_id = $1 AND slot_id = $2 AND apt_date = $3 AND status <> 'Cancelled'
        )
    `, input.DocID, slotID, input.AptDate).Scan(&alreadyBooked)
    if err != nil {
        security.SendDatabaseError(c, "Database error while checking slot availability")
        return
    }
    if alreadyBooked {
        metrics.RecordBooking("appointment", "conflict")
        security.SendValidationError(c, "This time slot is already booked for the selected date", nil)
        return
    }

    var aptID int64
    err = tx.QueryRow(`
        INSERT INTO appointments (pt_id, doc_id, slot_id, apt_date, apt_day, status)
        VALUES ($1, $2, $3, $4, $5, 'Scheduled')
        RETURNING apt_id
    `, input.PtID, input.DocID, slotID, input.AptDate, aptDay).Scan(&aptID)
    if err != nil {
        if isUniqueViolation(err) {
            metrics.RecordBooking("appointment", "conflict")
            security.SendValidationError(c, "This time slot is already booked for the selected date", nil)
            return
        }
        security.SendDatabaseError(c, "Failed to book appointment")
        return
    }

    _, err = tx.Exec(`UPDATE patients SET booked_apts = booked_apts + 1 WHERE pt_id = $1`, input.PtID)
    if err != nil {
        security.SendDatabaseError(c, "Failed to update patient booking count")
        return
    }

    if err = tx.Commit(); err != nil {
        if isUniqueViolation(err) {
            metrics.RecordBooking("appointment", "conflict")
            security.SendValidationError(c, "This time slot is already booked for the selected date", nil)
            return
        }
        security.SendDatabaseError(c, "Failed to commit booking")
        return
    }

    metrics.RecordBooking("appointment", "success")
    log.Info().Int64("apt_id", aptID).Int64("pt_id", input.PtID).Int64("doc_id", input.DocID).
        Str("apt_date", input.AptDate).Msg("appointment booked")

    c.JSON(http.StatusOK, gin.H{"message": "Appointment booked successfully!"})
}

// cancelAppointmentTx flips the appointment to Cancelled and reverses
// its resource consumption on the same transaction handle. Returns the
// HTTP status to send, or 0 on success.
func cancelAppointmentTx(tx *sql.Tx, aptID int64) (int, string) {
    var ptID int64
    var status string
    err := tx.QueryRow(`SELECT pt_id, status FROM appointments WHERE apt_id = $1 FOR UPDATE`, aptID).
        Scan(&ptID, &status)
    if err == sql.ErrNoRows {
        return http.StatusNotFound, "Appointment not found"
    }
    if err != nil {
        return http.StatusInternalServerError, "Database error while fetching appointment"
    }
    if status == models.StatusCancelled {
        return http.StatusBadRequest, "Appointment already cancelled"
    }

    if _, err = tx.Exec(`UPDATE appointments SET status = 'Cancelled' WHERE apt_id = $1`, aptID); err != nil {
        return http.StatusInternalServerError, "Failed to cancel appointment"
    }

    // Clamped at zero; the counter never goes negative
    if _, err = tx.Exec(`
        UPDATE patients SET booked_apts = booked_apts - 1
        WHERE pt_id = $1 AND booked_apts > 0
    `, ptID); err != nil {
        return http.StatusInternalServerError, "Failed to update patient booking count"
    }

    // Slot occupancy is derived from non-cancelled bookings, so the
    // status flip alone frees the slot for this date.
    return 0, ""
}

// CancelAppointment soft-cancels a booking. Status update and counter
// decrement are one atomic unit.
func CancelAppointment(c *gin.Context) {
    var input CancelAppointmentInput
    if err := c.ShouldBindJSON(&input); err != nil {
        security.SendValidationError(c, "Appointment ID is required", err.Error())
        return
    }

    tx, err := config.DB.BeginTx(c.Request.Context(), nil)
    if err != nil {
        security.SendDatabaseError(c, "Failed to start transaction")
        return
    }
    defer tx.Rollback()

    if status, msg := cancelAppointmentTx(tx, input.AppointmentID); status != 0 {
        metrics.RecordCancellation("appointment", "error")
        switch status {
        case http.StatusNotFound:
            security.SendNotFoundError(c, "appointment")
        case http.StatusBadRequest:
            security.SendValidationError(c, msg, nil)
        default:
            security.SendDatabaseError(c, msg)
        }
        return
    }

    if err = tx.Commit(); err != nil {
        metrics.RecordCancellation("appointment", "error")
        security.SendDatabaseError(c, "Failed to commit cancellation")
        return
    }

    metrics.RecordCancellation("appointment", "success")
    c.JSON(http.StatusOK, gin.H{"message": "Appointment cancelled successfully"})
}

// UpdateAppointmentStatus transitions a booking's status. A transition
// to Cancelled runs the full cancellation unit.
func UpdateAppointmentStatus(c *gin.Context) {
    var input UpdateAppointmentStatusInput
    if err := c.ShouldBindJSON(&input); err != nil {
        security.SendValidationError(c, "Appointment ID and Status are required", err.Error())
        return
    }

    status, ok := models.NormalizeStatus(input.Status)
    if !ok {
        security.SendValidationError(c, "Invalid status", "Status must be one of: pending, confirmed, completed, cancelled")
        return
    }

    tx, err := config.DB.BeginTx(c.Request.Context(), nil)
    if err != nil {
        security.SendDatabaseError(c, "Failed to start transaction")
        return
    }
    defer tx.Rollback()

    if status == models.StatusCancelled {
        if httpStatus, msg := cancelAppointmentTx(tx, input.AptID); httpStatus != 0 {
            switch httpStatus {
            case http.StatusNotFound:
                security.SendNotFoundError(c, "appointment")
            case http.StatusBadRequest:
                security.SendValidationError(c, msg, nil)
            default:
                security.SendDatabaseError(c, msg)
            }
            return
        }
    } else {
        // Cancelled is terminal. Reviving a booking would need the full
        // conflict check and counter increment of a fresh booking.
        var current string
        err := tx.QueryRow(`SELECT status FROM appointments WHERE apt_id = $1 FOR UPDATE`, input.AptID).
            Scan(&current)
        if err == sql.ErrNoRows {
            security.SendNotFoundError(c, "appointment")
            return
        }
        if err != nil {
            security.SendDatabaseError(c, "Database error while fetching appointment")
            return
        }
        if current == models.StatusCancelled {
            security.SendValidationError(c, "Appointment already cancelled", nil)
            return
        }

        if _, err := tx.Exec(`UPDATE appointments SET status = $1 WHERE apt_id = $2`, status, input.AptID); err != nil {
            security.SendDatabaseError(c, "Failed to update appointment status")
            return
        }
    }

    if err = tx.Commit(); err != nil {
        security.SendDatabaseError(c, "Failed to commit status update")
        return
    }

    c.JSON(http.StatusOK, gin.H{"message": "Appointment status updated successfully"})
}

// listSlots returns every slot of the doctor annotated with its derived
// booked state. With a date the annotation is date-scoped; without one
// it means "booked on any date".
func listSlots(c *gin.Context, dateScoped bool) {
    docID := c.Query("DocID")
    selectedDate := c.Query("selectedDate")

    if docID == "" {
        security.SendValidationError(c, "Doctor ID is required", nil)
        return
    }

    query := `
        SELECT ts.slot_id, ts.doc_id,
               to_char(ts.start_time, 'HH24:MI') || '-' || to_char(ts.end_time, 'HH24:MI') AS time_slot,
               CASE WHEN EXISTS (
                   SELECT 1 FROM appointments a
                   WHERE a.slot_id = ts.slot_id AND a.status <> 'Cancelled'
               ) THEN 1 ELSE 0 END AS is_booked
        FROM time_slots ts
        WHERE ts.doc_id = $1
        ORDER BY ts.start_time
    `
    args := []interface{}{docID}

    if dateScoped && selectedDate != "" {
        if _, err := utils.ParseDate(selectedDate); err != nil {
            security.SendValidationError(c, "Invalid date format", "Use YYYY-MM-DD format")
            return
        }
        query = `
            SELECT ts.slot_id, ts.doc_id,
                   to_char(ts.start_time, 'HH24:MI') || '-' || to_char(ts.end_time, 'HH24:MI') AS time_slot,
                   CASE WHEN EXISTS (
                       SELECT 1 FROM appointments a
                       WHERE a.slot_id = ts.slot_id AND a.apt_date = $2 AND a.status <> 'Cancelled'
                   ) THEN 1 ELSE 0 END AS is_booked
            FROM time_slots ts
            WHERE ts.doc_id = $1
            ORDER BY ts.start_time
        `
        args = append(args, selectedDate)
    }

    rows, err := config.DB.Query(query, args...)
    if err != nil {
        security.SendDatabaseError(c, "Database error")
        return
    }
    defer rows.Close()

    slots := []models.SlotAvailability{}
    for rows.Next() {
        var slot models.SlotAvailability
        if err := rows.Scan(&slot.SlotID, &slot.DocID, &slot.TimeSlot, &slot.IsBooked); err != nil {
            security.SendDatabaseError(c, "Database error")
            return
        }
        slots = append(slots, slot)
    }

    // Unknown doctor yields an empty list, not a 404
    c.JSON(http.StatusOK, slots)
}

// GetAvailableSlots lists a doctor's slots with per-date availability.
func GetAvailableSlots(c *gin.Context) {
    listSlots(c, true)
}

// GetAllSlots lists a doctor's slots annotated against any date.
func GetAllSlots(c *gin.Context) {
    listSlots(c, false)
}

// CalculatePayment sums fees owed across a patient's active bookings,
// appends a ledger row, and returns the breakdown. Repeated calls
// append repeated rows by design.
func CalculatePayment(c *gin.Context) {
    ptID := c.Query("PtID")
    if ptID == "" {
        security.SendValidationError(c, "Patient ID is required", nil)
        return
    }

    tx, err := config.DB.BeginTx(c.Request.Context(), nil)
    if err != nil {
        security.SendDatabaseError(c, "Failed to start transaction")
        return
    }
    defer tx.Rollback()

    var totalDoctorFees float64
    err = tx.QueryRow(`
        SELECT COALESCE(SUM(d.fees), 0)
        FROM appointments a
        JOIN doctors d ON a.doc_id = d.doc_id
        WHERE a.pt_id = $1 AND a.status IN ('Scheduled', 'Confirmed')
    `, ptID).Scan(&totalDoctorFees)
    if err != nil {
        security.SendDatabaseError(c, "Failed to calculate doctor fees")
        return
    }

    var totalLabTestFees float64
    err = tx.QueryRow(`
        SELECT COALESCE(SUM(ltr.actual_price), 0)
        FROM lab_test_revenue ltr
        JOIN test_appointments ta ON ta.test_apt_id = ltr.test_apt_id
        WHERE ta.pt_id = $1 AND ta.status IN ('Scheduled', 'Confirmed')
    `, ptID).Scan(&totalLabTestFees)
    if err != nil {
        security.SendDatabaseError(c, "Failed to calculate lab test fees")
        return
    }

    totalAmount := totalDoctorFees + totalLabTestFees

    _, err = tx.Exec(`
        INSERT INTO payments (pt_id, amount, status)
        VALUES ($1, $2, 'Completed')
    `, ptID, totalAmount)
    if err != nil {
        security.SendDatabaseError(c, "Failed to record payment")
        return
    }

    if err = tx.Commit(); err != nil {
        security.SendDatabaseError(c, "Failed to commit payment")
        return
    }

    metrics.PaymentsRecordedTotal.Inc()

    c.JSON(http.StatusOK, models.PaymentBreakdown{
        TotalDoctorFees:  totalDoctorFees,
        TotalLabTestFees: totalLabTestFees,
        TotalAmount:      totalAmount,
    })
}

// GetPaymentsHistory lists a patient's payment ledger, newest first.
func GetPaymentsHistory(c *gin.Context) {
    ptID := c.Query("PtID")
    if ptID == "" {
        security.SendValidationError(c, "Patient ID is required", nil)
        return
    }

    rows, err := config.DB.Query(`
        SELECT payment_id, amount, status
        FROM payments
        WHERE pt_id = $1
        ORDER BY payment_id DESC
    `, ptID)
    if err != nil {
        security.SendDatabaseError(c, "Database error")
        return
    }
    defer rows.Close()

    payments := []models.Payment{}
    for rows.Next() {
        var p models.Payment
        if err := rows.Scan(&p.PaymentID, &p.Amount, &p.Status); err != nil {
            security.SendDatabaseError(c, "Database error")
            return
        }
        payments = append(payments, p)
    }

    c.JSON(http.StatusOK, payments)
}
