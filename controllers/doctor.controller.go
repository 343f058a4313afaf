package controllers

import (
    "database/sql"
    "net/http"
    "strings"

    "github.com/gin-gonic/gin"
    "golang.org/x/crypto/bcrypt"

    "github.com/Mibrahim0941/DB-Project-Schedulify/config"
    "github.com/Mibrahim0941/DB-Project-Schedulify/models"
    "github.com/Mibrahim0941/DB-Project-Schedulify/security"
    "github.com/Mibrahim0941/DB-Project-Schedulify/utils"
)

type RegisterDoctorInput struct {
    DocName        string   `json:"DocName" binding:"required,max=255"`
    DocEmail       string   `json:"DocEmail" binding:"required,email"`
    Degree         string   `json:"Degree" binding:"required,max=255"`
    Specialization string   `json:"Specialization" binding:"required,max=255"`
    Rating         *float64 `json:"Rating"`
    Fees           float64  `json:"Fees" binding:"required"`
    Utilities      *string  `json:"Utilities"`
    Experience     *float64 `json:"Experience"`
    Presence       *bool    `json:"Presence" binding:"required"`
    Password       string   `json:"Password" binding:"required,min=8"`
    DocPFP         *string  `json:"DocPFP"`
    DeptID         int64    `json:"DeptID" binding:"required"`
    City           string   `json:"City" binding:"required,max=100"`
    Country        string   `json:"Country" binding:"required,max=100"`
}

type UpdateDoctorInput struct {
    DocID          int64    `json:"DocID" binding:"required"`
    DocName        *string  `json:"DocName"`
    Degree         *string  `json:"Degree"`
    Specialization *string  `json:"Specialization"`
    Rating         *float64 `json:"Rating"`
    Fees           *float64 `json:"Fees"`
    Utilities      *string  `json:"Utilities"`
    Experience     *float64 `json:"Experience"`
    Presence       *bool    `json:"Presence"`
    DocPFP         *string  `json:"DocPFP"`
    DeptID         *int64   `json:"DeptID"`
    DocCity        *string  `json:"DocCity"`
    DocCountry     *string  `json:"DocCountry"`
}

type AddTimeSlotInput struct {
    DocID    int64  `json:"DocID" binding:"required"`
    TimeSlot string `json:"TimeSlot" binding:"required"`
}

type DeleteTimeSlotInput struct {
    DocID  int64 `json:"DocID" binding:"required"`
    SlotID int64 `json:"SlotID" binding:"required"`
}

// RegisterDoctor creates a doctor account and bumps the department's
// doctor count in the same transaction.
func RegisterDoctor(c *gin.Context) {
    var input RegisterDoctorInput
    if err := c.ShouldBindJSON(&input); err != nil {
        security.SendValidationError(c, "Missing required fields", err.Error())
        return
    }

    rating := 0.0
    if input.Rating != nil {
        rating = *input.Rating
    }

    tx, err := config.DB.BeginTx(c.Request.Context(), nil)
    if err != nil {
        security.SendDatabaseError(c, "Failed to start transaction")
        return
    }
    defer tx.Rollback()

    var deptExists bool
    err = tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM departments WHERE dept_id = $1)`, input.DeptID).Scan(&deptExists)
    if err != nil {
        security.SendDatabaseError(c, "Database error while checking department")
        return
    }
    if !deptExists {
        security.SendNotFoundError(c, "department")
        return
    }

    var emailTaken bool
    err = tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM doctors WHERE doc_email = $1)`, input.DocEmail).Scan(&emailTaken)
    if err != nil {
        security.SendDatabaseError(c, "Database error while checking email")
        return
    }
    if emailTaken {
        security.SendConflictError(c, "A doctor with this email already exists")
        return
    }

    passHash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
    if err != nil {
        security.SendDatabaseError(c, "Failed to hash password")
        return
    }

    var docID int64
    err = tx.QueryRow(`
        INSERT INTO doctors (doc_name, doc_email, degree, specialization, rating, fees, utilities,
                             experience, presence, doc_pfp, dept_id, doc_city, doc_country, password_hash)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
        RETURNING doc_id
    `, input.DocName, input.DocEmail, input.Degree, input.Specialization, rating, input.Fees,
        input.Utilities, input.Experience, *input.Presence, input.DocPFP, input.DeptID,
        input.City, input.Country, string(passHash)).Scan(&docID)
    if err != nil {
        security.SendDatabaseError(c, "Failed to register doctor")
        return
    }

    _, err = tx.Exec(`UPDATE departments SET doc_count = doc_count + 1 WHERE dept_id = $1`, input.DeptID)
    if err != nil {
        security.SendDatabaseError(c, "Failed to update department doctor count")
        return
    }

    if err = tx.Commit(); err != nil {
        security.SendDatabaseError(c, "Failed to commit registration")
        return
    }

    c.JSON(http.StatusCreated, gin.H{"message": "Doctor registered successfully", "DocID": docID})
}

func scanDoctorSummaries(rows *sql.Rows) ([]models.DoctorSummary, error) {
    doctors := []models.DoctorSummary{}
    for rows.Next() {
        var d models.DoctorSummary
        if err := rows.Scan(&d.DocID, &d.DocName, &d.Specialization, &d.Rating, &d.Fees); err != nil {
            return nil, err
        }
        doctors = append(doctors, d)
    }
    return doctors, nil
}

// GetDoctorsByRating lists doctors ordered by rating, best first.
func GetDoctorsByRating(c *gin.Context) {
    rows, err := config.DB.Query(`
        SELECT doc_id, doc_name, specialization, rating, fees
        FROM doctors
        ORDER BY rating DESC
    `)
    if err != nil {
        security.SendDatabaseError(c, "Database error")
        return
    }
    defer rows.Close()

    doctors, err := scanDoctorSummaries(rows)
    if err != nil {
        security.SendDatabaseError(c, "Database error")
        return
    }

    c.JSON(http.StatusOK, doctors)
}

// GetDoctorsByFee lists doctors ordered by fee. The sort direction is
// validated against a fixed vocabulary, never interpolated from input.
func GetDoctorsByFee(c *gin.Context) {
    order := "ASC"
    if strings.EqualFold(c.Query("type"), "desc") {
        order = "DESC"
    }

    rows, err := config.DB.Query(`
        SELECT doc_id, doc_name, specialization, rating, fees
        FROM doctors
        ORDER BY fees ` + order)
    if err != nil {
        security.SendDatabaseError(c, "Database error")
        return
    }
    defer rows.Close()

    doctors, err := scanDoctorSummaries(rows)
    if err != nil {
        security.SendDatabaseError(c, "Database error")
        return
    }

    c.JSON(http.StatusOK, doctors)
}

// GetDoctorsByName lists doctors alphabetically.
func GetDoctorsByName(c *gin.Context) {
    rows, err := config.DB.Query(`
        SELECT doc_id, doc_name, specialization, rating, fees
        FROM doctors
        ORDER BY doc_name
    `)
    if err != nil {
        security.SendDatabaseError(c, "Database error")
        return
    }
    defer rows.Close()

    doctors, err := scanDoctorSummaries(rows)
    if err != nil {
        security.SendDatabaseError(c, "Database error")
        return
    }

    c.JSON(http.StatusOK, doctors)
}

// GetTopRatedDoctors returns the best-rated doctor of each department.
func GetTopRatedDoctors(c *gin.Context) {
    rows, err := config.DB.Query(`
        SELECT doc_id, doc_name, specialization, rating, dept_id, dept_name
        FROM (
            SELECT d.doc_id, d.doc_name, d.specialization, d.rating, d.dept_id, dept.dept_name,
                   RANK() OVER (PARTITION BY d.dept_id ORDER BY d.rating DESC) AS rank
            FROM doctors d
            JOIN departments dept ON d.dept_id = dept.dept_id
        ) ranked
        WHERE rank = 1
    `)
    if err != nil {
        security.SendDatabaseError(c, "Database error")
        return
    }
    defer rows.Close()

    doctors := []models.RankedDoctor{}
    for rows.Next() {
        var d models.RankedDoctor
        if err := rows.Scan(&d.DocID, &d.DocName, &d.Specialization, &d.Rating, &d.DeptID, &d.DeptName); err != nil {
            security.SendDatabaseError(c, "Database error")
            return
        }
        doctors = append(doctors, d)
    }

    c.JSON(http.StatusOK, doctors)
}

// GetMostPopularDoctor returns the doctor with the most non-cancelled
// bookings.
func GetMostPopularDoctor(c *gin.Context) {
    var d models.PopularDoctor
    err := config.DB.QueryRow(`
        SELECT d.doc_id, d.doc_name, d.specialization, d.rating, COUNT(a.apt_id) AS appointment_count
        FROM doctors d
        JOIN appointments a ON a.doc_id = d.doc_id AND a.status <> 'Cancelled'
        GROUP BY d.doc_id, d.doc_name, d.specialization, d.rating
        ORDER BY appointment_count DESC
        LIMIT 1
    `).Scan(&d.DocID, &d.DocName, &d.Specialization, &d.Rating, &d.AppointmentCount)
    if err == sql.ErrNoRows {
        c.JSON(http.StatusOK, gin.H{})
        return
    }
    if err != nil {
        security.SendDatabaseError(c, "Database error")
        return
    }

    c.JSON(http.StatusOK, d)
}

// SearchDoctors matches the search term against doctor names and
// department names.
func SearchDoctors(c *gin.Context) {
    searchTerm := c.Query("searchTerm")
    if searchTerm == "" {
        security.SendValidationError(c, "Search term is required", nil)
        return
    }

    rows, err := config.DB.Query(`
        SELECT d.doc_id, d.doc_name, d.specialization, d.rating, dept.dept_name
        FROM doctors d
        JOIN departments dept ON d.dept_id = dept.dept_id
        WHERE d.doc_name ILIKE '%' || $1 || '%'
           OR dept.dept_name ILIKE '%' || $1 || '%'
    `, searchTerm)
    if err != nil {
        security.SendDatabaseError(c, "Database error")
        return
    }
    defer rows.Close()

    results := []models.DoctorSearchResult{}
    for rows.Next() {
        var r models.DoctorSearchResult
        if err := rows.Scan(&r.DocID, &r.DocName, &r.Specialization, &r.Rating, &r.DeptName); err != nil {
            security.SendDatabaseError(c, "Database error")
            return
        }
        results = append(results, r)
    }

    c.JSON(http.StatusOK, results)
}

// GetDoctorInfo returns a doctor's full profile with its department.
func GetDoctorInfo(c *gin.Context) {
    docID := c.Query("DocID")
    if docID == "" {
        security.SendValidationError(c, "Doctor ID is required", nil)
        return
    }

    var d models.DoctorWithDepartment
    err := config.DB.QueryRow(`
        SELECT d.doc_id, d.doc_name, d.doc_email, d.degree, d.specialization, d.rating, d.fees,
               d.utilities, d.experience, d.presence, d.doc_pfp, d.dept_id, d.doc_city, d.doc_country,
               dept.dept_name
        FROM doctors d
        JOIN departments dept ON d.dept_id = dept.dept_id
        WHERE d.doc_id = $1
    `, docID).Scan(&d.DocID, &d.DocName, &d.DocEmail, &d.Degree, &d.Specialization, &d.Rating,
        &d.Fees, &d.Utilities, &d.Experience, &d.Presence, &d.DocPFP, &d.DeptID,
        &d.DocCity, &d.DocCountry, &d.DeptName)
    if err == sql.ErrNoRows {
        security.SendNotFoundError(c, "doctor")
        return
    }
    if err != nil {
        security.SendDatabaseError(c, "Failed to fetch doctor information")
        return
    }

    c.JSON(http.StatusOK, d)
}

// UpdateDoctorInfo applies the supplied profile fields only.
func UpdateDoctorInfo(c *gin.Context) {
    var input UpdateDoctorInput
    if err := c.ShouldBindJSON(&input); err != nil {
        security.SendValidationError(c, "Doctor ID is required", err.Error())
        return
    }

    var b utils.UpdateBuilder
    b.SetIfString("doc_name", input.DocName)
    b.SetIfString("degree", input.Degree)
    b.SetIfString("specialization", input.Specialization)
    b.SetIfFloat("rating", input.Rating)
    b.SetIfFloat("fees", input.Fees)
    b.SetIfString("utilities", input.Utilities)
    b.SetIfFloat("experience", input.Experience)
    b.SetIfBool("presence", input.Presence)
    b.SetIfString("doc_pfp", input.DocPFP)
    b.SetIfInt("dept_id", input.DeptID)
    b.SetIfString("doc_city", input.DocCity)
    b.SetIfString("doc_country", input.DocCountry)

    if b.Empty() {
        security.SendValidationError(c, "No fields to update", nil)
        return
    }

    query, args := b.Build("doctors", "doc_id", input.DocID)
    result, err := config.DB.Exec(query, args...)
    if err != nil {
        security.SendDatabaseError(c, "Failed to update doctor info")
        return
    }

    rowsAffected, err := result.RowsAffected()
    if err != nil {
        security.SendDatabaseError(c, "Database error")
        return
    }
    if rowsAffected == 0 {
        security.SendNotFoundError(c, "doctor")
        return
    }

    c.JSON(http.StatusOK, gin.H{"message": "Doctor info updated successfully"})
}

// GetBookedDocApts lists a doctor's appointments with patient and slot
// details.
func GetBookedDocApts(c *gin.Context) {
    docID := c.Query("DocID")
    if docID == "" {
        security.SendValidationError(c, "Doctor ID is required", nil)
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
        WHERE a.doc_id = $1
        ORDER BY a.apt_date DESC
    `, docID)
    if err != nil {
        security.SendDatabaseError(c, "Error fetching data from database")
        return
    }
    defer rows.Close()

    appointments := []models.AppointmentDetail{}
    for rows.Next() {
        var apt models.AppointmentDetail
        if err := rows.Scan(&apt.AptID, &apt.PtID, &apt.PtName, &apt.DocID, &apt.DocName,
            &apt.TimeSlot, &apt.AptDate, &apt.AptDay, &apt.Status, &apt.BookedAt); err != nil {
            security.SendDatabaseError(c, "Error fetching data from database")
            return
        }
        appointments = append(appointments, apt)
    }

    c.JSON(http.StatusOK, appointments)
}

// AddTimeSlot creates a new bookable window for a doctor.
func AddTimeSlot(c *gin.Context) {
    var input AddTimeSlotInput
    if err := c.ShouldBindJSON(&input); err != nil {
        security.SendValidationError(c, "Missing required fields (DocID, TimeSlot)", err.Error())
        return
    }

    startTime, endTime, err := utils.ParseTimeSlot(input.TimeSlot)
    if err != nil {
        security.SendValidationError(c, "Invalid time slot format", "Use HH:MM-HH:MM format")
        return
    }

    var docExists bool
    err = config.DB.QueryRow(`SELECT EXISTS(SELECT 1 FROM doctors WHERE doc_id = $1)`, input.DocID).Scan(&docExists)
    if err != nil {
        security.SendDatabaseError(c, "Database error while checking doctor")
        return
    }
    if !docExists {
        security.SendNotFoundError(c, "doctor")
        return
    }

    _, err = config.DB.Exec(`
        INSERT INTO time_slots (doc_id, start_time, end_time)
        VALUES ($1, $2::time, $3::time)
    `, input.DocID, startTime, endTime)
    if err != nil {
        if isUniqueViolation(err) {
            security.SendConflictError(c, "This time slot already exists for the doctor")
            return
        }
        security.SendDatabaseError(c, "Failed to add time slot")
        return
    }

    c.JSON(http.StatusOK, gin.H{"message": "Time slot added successfully!"})
}

// DeleteTimeSlot removes a doctor's slot. Slots referenced by historic
// bookings are kept so history stays resolvable.
func DeleteTimeSlot(c *gin.Context) {
    var input DeleteTimeSlotInput
    if err := c.ShouldBindJSON(&input); err != nil {
        security.SendValidationError(c, "Missing required fields (DocID, SlotID)", err.Error())
        return
    }

    var referenced bool
    err := config.DB.QueryRow(`
        SELECT EXISTS(SELECT 1 FROM appointments WHERE slot_id = $1)
    `, input.SlotID).Scan(&referenced)
    if err != nil {
        security.SendDatabaseError(c, "Database error while checking slot usage")
        return
    }
    if referenced {
        security.SendConflictError(c, "Time slot has existing appointments and cannot be deleted")
        return
    }

    result, err := config.DB.Exec(`
        DELETE FROM time_slots
        WHERE slot_id = $1 AND doc_id = $2
    `, input.SlotID, input.DocID)
    if err != nil {
        security.SendDatabaseError(c, "Failed to delete time slot")
        return
    }

    rowsAffected, err := result.RowsAffected()
    if err != nil {
        security.SendDatabaseError(c, "Database error")
        return
    }
    if rowsAffected == 0 {
        security.SendError(c, http.StatusNotFound, security.CodeResourceNotFound, "Resource not found",
            "Time slot not found or does not belong to the specified doctor", nil)
        return
    }

    c.JSON(http.StatusOK, gin.H{"message": "Time slot deleted successfully!"})
}
