package controllers

import (
    "database/sql"
    "net/http"

    "github.com/gin-gonic/gin"
    "golang.org/x/crypto/bcrypt"

    "github.com/Mibrahim0941/DB-Project-Schedulify/config"
    "github.com/Mibrahim0941/DB-Project-Schedulify/models"
    "github.com/Mibrahim0941/DB-Project-Schedulify/security"
    "github.com/Mibrahim0941/DB-Project-Schedulify/utils"
)

type RegisterPatientInput struct {
    PtName   string  `json:"PtName" binding:"required,max=255"`
    PHeight  float64 `json:"PHeight" binding:"required"`
    PWeight  float64 `json:"PWeight" binding:"required"`
    DOB      string  `json:"DOB" binding:"required"`
    PtEmail  string  `json:"PtEmail" binding:"required,email"`
    PhoneNum string  `json:"PhoneNum" binding:"required,max=20"`
    Password string  `json:"Password" binding:"required,min=8"`
    PtPFP    *string `json:"PtPFP"`
    City     string  `json:"City" binding:"required,max=100"`
    Country  string  `json:"Country" binding:"required,max=100"`
}

type UpdatePatientInput struct {
    PtID      int64    `json:"PtID" binding:"required"`
    PtName    *string  `json:"PtName"`
    PHeight   *float64 `json:"PHeight"`
    PWeight   *float64 `json:"PWeight"`
    DOB       *string  `json:"DOB"`
    PhoneNum  *string  `json:"PhoneNum"`
    PtPFP     *string  `json:"PtPFP"`
    PtCity    *string  `json:"PtCity"`
    PtCountry *string  `json:"PtCountry"`
}

// RegisterPatient creates a patient account with a bcrypt-hashed
// password.
func RegisterPatient(c *gin.Context) {
    var input RegisterPatientInput
    if err := c.ShouldBindJSON(&input); err != nil {
        security.SendValidationError(c, "Missing required fields", err.Error())
        return
    }

    if _, err := utils.ParseDate(input.DOB); err != nil {
        security.SendValidationError(c, "Invalid date of birth format", "Use YYYY-MM-DD format")
        return
    }

    var exists bool
    err := config.DB.QueryRow(`SELECT EXISTS(SELECT 1 FROM patients WHERE pt_email = $1)`, input.PtEmail).Scan(&exists)
    if err != nil {
        security.SendDatabaseError(c, "Database error while checking email")
        return
    }
    if exists {
        security.SendConflictError(c, "A patient with this email already exists")
        return
    }

    passHash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
    if err != nil {
        security.SendDatabaseError(c, "Failed to hash password")
        return
    }

    var ptID int64
    err = config.DB.QueryRow(`
        INSERT INTO patients (pt_name, p_height, p_weight, dob, pt_email, phone_num, pt_pfp, pt_city, pt_country, password_hash)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING pt_id
    `, input.PtName, input.PHeight, input.PWeight, input.DOB, input.PtEmail,
        input.PhoneNum, input.PtPFP, input.City, input.Country, string(passHash)).Scan(&ptID)
    if err != nil {
        security.SendDatabaseError(c, "Failed to register patient")
        return
    }

    c.JSON(http.StatusCreated, gin.H{"message": "Patient registered successfully", "PtID": ptID})
}

// GetPatientDetails returns a patient's profile.
func GetPatientDetails(c *gin.Context) {
    ptID := c.Query("PtID")
    if ptID == "" {
        security.SendValidationError(c, "Patient ID is required", nil)
        return
    }

    var p models.Patient
    err := config.DB.QueryRow(`
        SELECT pt_id, pt_name, p_height, p_weight, to_char(dob, 'YYYY-MM-DD'), pt_email,
               phone_num, pt_pfp, pt_city, pt_country, booked_apts
        FROM patients
        WHERE pt_id = $1
    `, ptID).Scan(&p.PtID, &p.PtName, &p.PHeight, &p.PWeight, &p.DOB, &p.PtEmail,
        &p.PhoneNum, &p.PtPFP, &p.PtCity, &p.PtCountry, &p.BookedApts)
    if err == sql.ErrNoRows {
        security.SendNotFoundError(c, "patient")
        return
    }
    if err != nil {
        security.SendDatabaseError(c, "Database error")
        return
    }

    c.JSON(http.StatusOK, p)
}

// GetPatientAppointments lists a patient's appointments with doctor and
// slot details.
func GetPatientAppointments(c *gin.Context) {
    ptID := c.Query("PtID")
    if ptID == "" {
        security.SendValidationError(c, "Patient ID is required", nil)
        return
    }

    rows, err := config.DB.Query(`
        SELECT a.apt_id, a.pt_id, p.pt_name, a.doc_id, d.doc_name,
               to_char(ts.start_time, 'HH24:MI') || '-' || to_char(ts.end_time, 'HH24:MI') AS time_slot,
               to_char(a.apt_date, 'YYYY-MM-DD'), a.apt_day, a.status, a.created_at
        FROM appointments a
        JOIN patients p ON p.pt_id = a.pt_id
        JOIN doctors d ON d.doc_id = a.doc_id
        JOIN time_slots ts ON ts.slot_id = a.slot_id
        WHERE a.pt_id = $1
        ORDER BY a.apt_date DESC
    `, ptID)
    if err != nil {
        security.SendDatabaseError(c, "Database error")
        return
    }
    defer rows.Close()

    appointments := []models.AppointmentDetail{}
    for rows.Next() {
        var apt models.AppointmentDetail
        if err := rows.Scan(&apt.AptID, &apt.PtID, &apt.PtName, &apt.DocID, &apt.DocName,
            &apt.TimeSlot, &apt.AptDate, &apt.AptDay, &apt.Status, &apt.BookedAt); err != nil {
            security.SendDatabaseError(c, "Database error")
            return
        }
        appointments = append(appointments, apt)
    }

    c.JSON(http.StatusOK, appointments)
}

// UpdatePatientInfo applies the supplied profile fields. The update
// statement contains only the assignments that were present in the
// request body.
func UpdatePatientInfo(c *gin.Context) {
    var input UpdatePatientInput
    if err := c.ShouldBindJSON(&input); err != nil {
        security.SendValidationError(c, "Patient ID is required", err.Error())
        return
    }

    if input.DOB != nil {
        if _, err := utils.ParseDate(*input.DOB); err != nil {
            security.SendValidationError(c, "Invalid date of birth format", "Use YYYY-MM-DD format")
            return
        }
    }

    var b utils.UpdateBuilder
    b.SetIfString("pt_name", input.PtName)
    b.SetIfFloat("p_height", input.PHeight)
    b.SetIfFloat("p_weight", input.PWeight)
    b.SetIfString("dob", input.DOB)
    b.SetIfString("phone_num", input.PhoneNum)
    b.SetIfString("pt_pfp", input.PtPFP)
    b.SetIfString("pt_city", input.PtCity)
    b.SetIfString("pt_country", input.PtCountry)

    if b.Empty() {
        security.SendValidationError(c, "No fields to update", nil)
        return
    }

    query, args := b.Build("patients", "pt_id", input.PtID)
    result, err := config.DB.Exec(query, args...)
    if err != nil {
        security.SendDatabaseError(c, "Failed to update patient info")
        return
    }

    rowsAffected, err := result.RowsAffected()
    if err != nil {
        security.SendDatabaseError(c, "Database error")
        return
    }
    if rowsAffected == 0 {
        security.SendNotFoundError(c, "patient")
        return
    }

    c.JSON(http.StatusOK, gin.H{"message": "Patient info updated successfully"})
}

// GetPatientHistory returns the combined appointment and lab test
// history of a patient, newest first.
func GetPatientHistory(c *gin.Context) {
    ptID := c.Query("PtID")
    if ptID == "" {
        security.SendValidationError(c, "Patient ID is required", nil)
        return
    }

    rows, err := config.DB.Query(`
        SELECT 'Appointment' AS type,
               to_char(a.apt_date, 'YYYY-MM-DD') AS date,
               a.apt_id AS ref_id,
               d.doc_name AS served_by,
               to_char(ts.start_time, 'HH24:MI') || '-' || to_char(ts.end_time, 'HH24:MI') AS time_slot,
               a.status
        FROM appointments a
        JOIN doctors d ON a.doc_id = d.doc_id
        JOIN time_slots ts ON a.slot_id = ts.slot_id
        WHERE a.pt_id = $1

        UNION ALL

        SELECT 'Lab Test' AS type,
               to_char(ta.apt_date, 'YYYY-MM-DD') AS date,
               ta.test_apt_id AS ref_id,
               lt.test_name AS served_by,
               to_char(tts.start_time, 'HH24:MI') || '-' || to_char(tts.end_time, 'HH24:MI') AS time_slot,
               ta.status
        FROM test_appointments ta
        JOIN lab_tests lt ON ta.test_id = lt.test_id
        JOIN test_time_slots tts ON ta.slot_id = tts.slot_id
        WHERE ta.pt_id = $1

        ORDER BY date DESC
    `, ptID)
    if err != nil {
        security.SendDatabaseError(c, "Database error")
        return
    }
    defer rows.Close()

    history := []models.HistoryEntry{}
    for rows.Next() {
        var h models.HistoryEntry
        if err := rows.Scan(&h.Type, &h.Date, &h.RefID, &h.ServedBy, &h.TimeSlot, &h.Status); err != nil {
            security.SendDatabaseError(c, "Database error")
            return
        }
        history = append(history, h)
    }

    c.JSON(http.StatusOK, history)
}

// GetPatientAppointmentsByDate lists a patient's appointments ordered
// by date and slot start.
func GetPatientAppointmentsByDate(c *gin.Context) {
    ptID := c.Query("PtID")
    if ptID == "" {
        security.SendValidationError(c, "Patient ID (PtID) is required as a query parameter", nil)
        return
    }

    rows, err := config.DB.Query(`
        SELECT p.pt_name,
               to_char(a.apt_date, 'YYYY-MM-DD'),
               to_char(ts.start_time, 'HH24:MI') || '-' || to_char(ts.end_time, 'HH24:MI') AS time_slot,
               d.doc_name,
               a.status
        FROM appointments a
        JOIN patients p ON a.pt_id = p.pt_id
        JOIN time_slots ts ON a.slot_id = ts.slot_id
        JOIN doctors d ON a.doc_id = d.doc_id
        WHERE a.pt_id = $1
        ORDER BY a.apt_date, ts.start_time
    `, ptID)
    if err != nil {
        security.SendDatabaseError(c, "Database error")
        return
    }
    defer rows.Close()

    appointments := []models.PatientAppointmentRow{}
    for rows.Next() {
        var row models.PatientAppointmentRow
        if err := rows.Scan(&row.PtName, &row.AptDate, &row.TimeSlot, &row.DocName, &row.Status); err != nil {
            security.SendDatabaseError(c, "Database error")
            return
        }
        appointments = append(appointments, row)
    }

    if len(appointments) == 0 {
        c.JSON(http.StatusNotFound, gin.H{"message": "No appointments found for this patient"})
        return
    }

    c.JSON(http.StatusOK, appointments)
}

// GetPatientLabTests lists a patient's lab test appointments.
func GetPatientLabTests(c *gin.Context) {
    ptID := c.Query("PtID")
    if ptID == "" {
        security.SendValidationError(c, "Patient ID is required", nil)
        return
    }

    rows, err := config.DB.Query(`
        SELECT ta.test_apt_id, to_char(ta.apt_date, 'YYYY-MM-DD'),
               lt.test_name, lt.test_category,
               to_char(tts.start_time, 'HH24:MI') || '-' || to_char(tts.end_time, 'HH24:MI') AS time_slot,
               ta.status
        FROM test_appointments ta
        JOIN lab_tests lt ON ta.test_id = lt.test_id
        JOIN test_time_slots tts ON ta.slot_id = tts.slot_id
        WHERE ta.pt_id = $1
        ORDER BY ta.apt_date DESC
    `, ptID)
    if err != nil {
        security.SendDatabaseError(c, "Database error")
        return
    }
    defer rows.Close()

    tests := []models.PatientLabTestRow{}
    for rows.Next() {
        var row models.PatientLabTestRow
        if err := rows.Scan(&row.TestAptID, &row.AptDate, &row.TestName, &row.TestCategory,
            &row.TimeSlot, &row.Status); err != nil {
            security.SendDatabaseError(c, "Database error")
            return
        }
        tests = append(tests, row)
    }

    c.JSON(http.StatusOK, tests)
}

// GetPatientSummary aggregates per-patient appointment counts and
// completed payment totals.
func GetPatientSummary(c *gin.Context) {
    rows, err := config.DB.Query(`
        SELECT p.pt_name AS patient_name,
               p.pt_email AS email,
               (SELECT COUNT(*) FROM appointments a
                WHERE a.pt_id = p.pt_id AND a.status <> 'Cancelled') AS appointments_count,
               COALESCE((SELECT SUM(pay.amount) FROM payments pay
                WHERE pay.pt_id = p.pt_id AND pay.status = 'Completed'), 0) AS total_payments
        FROM patients p
        ORDER BY p.pt_name
    `)
    if err != nil {
        security.SendDatabaseError(c, "Failed to fetch patient summary")
        return
    }
    defer rows.Close()

    summaries := []models.PatientSummary{}
    for rows.Next() {
        var s models.PatientSummary
        if err := rows.Scan(&s.PatientName, &s.Email, &s.AppointmentsCount, &s.TotalPayments); err != nil {
            security.SendDatabaseError(c, "Failed to fetch patient summary")
            return
        }
        summaries = append(summaries, s)
    }

    c.JSON(http.StatusOK, summaries)
}
