package controllers

import (
    "database/sql"
    "fmt"
    "net/http"

    "github.com/gin-gonic/gin"
    "github.com/rs/zerolog/log"

    "github.com/Mibrahim0941/DB-Project-Schedulify/config"
    "github.com/Mibrahim0941/DB-Project-Schedulify/metrics"
    "github.com/Mibrahim0941/DB-Project-Schedulify/models"
    "github.com/Mibrahim0941/DB-Project-Schedulify/security"
    "github.com/Mibrahim0941/DB-Project-Schedulify/utils"
)

type BookLabTestInput struct {
    PtID     int64  `json:"PtID" binding:"required"`
    TestID   int64  `json:"TestID" binding:"required"`
    TimeSlot string `json:"TimeSlot" binding:"required"`
    AptDate  string `json:"AptDate" binding:"required"`
}

type CancelLabTestInput struct {
    TestAptID int64 `json:"TestAptID" binding:"required"`
}

// BookLabTest reserves a (test, slot, date) triple for a patient and
// returns the price breakdown. The booking, counter increment, and
// revenue audit row are one serializable transaction; the price itself
// is a pure function of the test's base price and the surcharge matched
// on the patient's city.
func BookLabTest(c *gin.Context) {
    var input BookLabTestInput
    if err := c.ShouldBindJSON(&input); err != nil {
        security.SendValidationError(c, "Missing required fields (PtID, TestID, TimeSlot, AptDate)", err.Error())
        return
    }

    if _, err := utils.ParseDate(input.AptDate); err != nil {
        security.SendValidationError(c, "Invalid appointment date format", "Use YYYY-MM-DD format")
        return
    }

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

    var patientCity string
    err = tx.QueryRow(`SELECT pt_city FROM patients WHERE pt_id = $1`, input.PtID).Scan(&patientCity)
    if err == sql.ErrNoRows {
        security.SendNotFoundError(c, "patient")
        return
    }
    if err != nil {
        security.SendDatabaseError(c, "Database error while checking patient")
        return
    }

    var basePrice float64
    err = tx.QueryRow(`SELECT base_price FROM lab_tests WHERE test_id = $1`, input.TestID).Scan(&basePrice)
    if err == sql.ErrNoRows {
        security.SendNotFoundError(c, "lab test")
        return
    }
    if err != nil {
        security.SendDatabaseError(c, "Database error while checking lab test")
        return
    }

    var slotID int64
    err = tx.QueryRow(`
        SELECT slot_id FROM test_time_slots
        WHERE test_id = $1 AND start_time = $2::time AND end_time = $3::time
    `, input.TestID, startTime, endTime).Scan(&slotID)
    if err == sql.ErrNoRows {
        metrics.RecordBooking("lab_test", "invalid_slot")
        security.SendValidationError(c, "Invalid time slot for this test", "No such time slot exists for the selected test")
        return
    }
    if err != nil {
        security.SendDatabaseError(c, "Database error while resolving time slot")
        return
    }

    var alreadyBooked bool
    err = tx.QueryRow(`
        SELECT EXISTS(
            SELECT 1 FROM test_appointments
            WHERE test_id = $1 AND slot_id = $2 AND apt_date = $3 AND status <> 'Cancelled'
        )
    `, input.TestID, slotID, input.AptDate).Scan(&alreadyBooked)
    if err != nil {
        security.SendDatabaseError(c, "Database error while checking slot availability")
        return
    }
    if alreadyBooked {
        metrics.RecordBooking("lab_test", "conflict")
        security.SendValidationError(c, "This time slot is already booked for the selected date", nil)
        return
    }

    var testAptID int64
    err = tx.QueryRow(`
        INSERT INTO test_appointments (pt_id, test_id, slot_id, apt_date, status)
        VALUES ($1, $2, $3, $4, 'Scheduled')
        RETURNING test_apt_id
    `, input.PtID, input.TestID, slotID, input.AptDate).Scan(&testAptID)
    if err != nil {
        if isUniqueViolation(err) {
            metrics.RecordBooking("lab_test", "conflict")
            security.SendValidationError(c, "This time slot is already booked for the selected date", nil)
            return
        }
        security.SendDatabaseError(c, "Failed to book lab test")
        return
    }

    _, err = tx.Exec(`UPDATE patients SET booked_apts = booked_apts + 1 WHERE pt_id = $1`, input.PtID)
    if err != nil {
        security.SendDatabaseError(c, "Failed to update patient booking count")
        return
    }

    var surcharge float64
    err = tx.QueryRow(`
        SELECT COALESCE((SELECT surcharge FROM test_locations WHERE city = $1), 0)
    `, patientCity).Scan(&surcharge)
    if err != nil {
        security.SendDatabaseError(c, "Failed to resolve location surcharge")
        return
    }

    priceDetails := utils.ComputeLabTestPrice(basePrice, surcharge)

    _, err = tx.Exec(`
        INSERT INTO lab_test_revenue (test_apt_id, test_id, pt_id, test_date, base_price, location_surcharge, actual_price)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `, testAptID, input.TestID, input.PtID, input.AptDate,
        priceDetails.BasePrice, priceDetails.LocationSurcharge, priceDetails.ActualPrice)
    if err != nil {
        security.SendDatabaseError(c, "Failed to record lab test revenue")
        return
    }

    if err = tx.Commit(); err != nil {
        if isUniqueViolation(err) {
            metrics.RecordBooking("lab_test", "conflict")
            security.SendValidationError(c, "This time slot is already booked for the selected date", nil)
            return
        }
        security.SendDatabaseError(c, "Failed to commit booking")
        return
    }

    metrics.RecordBooking("lab_test", "success")
    log.Info().Int64("test_apt_id", testAptID).Int64("pt_id", input.PtID).Int64("test_id", input.TestID).
        Str("apt_date", input.AptDate).Msg("lab test booked")

    c.JSON(http.StatusOK, gin.H{
        "message":      "Lab test booked successfully!",
        "priceDetails": priceDetails,
    })
}

// CancelLabTest soft-cancels a test appointment and reverses the
// patient's booking counter in one atomic unit.
func CancelLabTest(c *gin.Context) {
    var input CancelLabTestInput
    if err := c.ShouldBindJSON(&input); err != nil {
        security.SendValidationError(c, "Test appointment ID is required", err.Error())
        return
    }

    tx, err := config.DB.BeginTx(c.Request.Context(), nil)
    if err != nil {
        security.SendDatabaseError(c, "Failed to start transaction")
        return
    }
    defer tx.Rollback()

    var ptID int64
    var status string
    err = tx.QueryRow(`SELECT pt_id, status FROM test_appointments WHERE test_apt_id = $1 FOR UPDATE`, input.TestAptID).
        Scan(&ptID, &status)
    if err == sql.ErrNoRows {
        metrics.RecordCancellation("lab_test", "error")
        security.SendNotFoundError(c, "test appointment")
        return
    }
    if err != nil {
        security.SendDatabaseError(c, "Database error while fetching test appointment")
        return
    }
    if status == models.StatusCancelled {
        metrics.RecordCancellation("lab_test", "error")
        security.SendValidationError(c, "Test already cancelled", nil)
        return
    }

    if _, err = tx.Exec(`UPDATE test_appointments SET status = 'Cancelled' WHERE test_apt_id = $1`, input.TestAptID); err != nil {
        security.SendDatabaseError(c, "Failed to cancel lab test")
        return
    }

    if _, err = tx.Exec(`
        UPDATE patients SET booked_apts = booked_apts - 1
        WHERE pt_id = $1 AND booked_apts > 0
    `, ptID); err != nil {
        security.SendDatabaseError(c, "Failed to update patient booking count")
        return
    }

    if err = tx.Commit(); err != nil {
        security.SendDatabaseError(c, "Failed to commit cancellation")
        return
    }

    metrics.RecordCancellation("lab_test", "success")
    c.JSON(http.StatusOK, gin.H{
        "message":     "Lab test appointment cancelled successfully",
        "cancelledID": input.TestAptID,
    })
}

// GetAllLabTests lists the lab test catalog.
func GetAllLabTests(c *gin.Context) {
    rows, err := config.DB.Query(`
        SELECT test_id, test_name, test_category, base_price, city
        FROM lab_tests
        ORDER BY test_name
    `)
    if err != nil {
        security.SendDatabaseError(c, "Database error")
        return
    }
    defer rows.Close()

    tests := []models.LabTest{}
    for rows.Next() {
        var t models.LabTest
        if err := rows.Scan(&t.TestID, &t.TestName, &t.TestCategory, &t.BasePrice, &t.City); err != nil {
            security.SendDatabaseError(c, "Database error")
            return
        }
        tests = append(tests, t)
    }

    c.JSON(http.StatusOK, tests)
}

// GetTestSlots lists the bookable time windows of a lab test.
func GetTestSlots(c *gin.Context) {
    testID := c.Query("TestID")
    if testID == "" {
        security.SendValidationError(c, "Test ID is required", nil)
        return
    }

    rows, err := config.DB.Query(`
        SELECT slot_id, test_id,
               to_char(start_time, 'HH24:MI') || '-' || to_char(end_time, 'HH24:MI') AS time_slot
        FROM test_time_slots
        WHERE test_id = $1
        ORDER BY start_time
    `, testID)
    if err != nil {
        security.SendDatabaseError(c, "Database error")
        return
    }
    defer rows.Close()

    slots := []models.TestSlot{}
    for rows.Next() {
        var s models.TestSlot
        if err := rows.Scan(&s.SlotID, &s.TestID, &s.TimeSlot); err != nil {
            security.SendDatabaseError(c, "Database error")
            return
        }
        slots = append(slots, s)
    }

    c.JSON(http.StatusOK, slots)
}

// GetLabTestRevenueAnalysis summarizes revenue per lab test.
func GetLabTestRevenueAnalysis(c *gin.Context) {
    rows, err := config.DB.Query(`
        SELECT lt.test_id, lt.test_name, lt.test_category,
               COUNT(ltr.revenue_id) AS test_count,
               COALESCE(SUM(ltr.actual_price), 0) AS total_revenue
        FROM lab_tests lt
        LEFT JOIN lab_test_revenue ltr ON ltr.test_id = lt.test_id
        GROUP BY lt.test_id, lt.test_name, lt.test_category
        ORDER BY total_revenue DESC
    `)
    if err != nil {
        security.SendDatabaseError(c, "Database error")
        return
    }
    defer rows.Close()

    analysis := []models.TestRevenueAnalysis{}
    for rows.Next() {
        var a models.TestRevenueAnalysis
        if err := rows.Scan(&a.TestID, &a.TestName, &a.TestCategory, &a.TestCount, &a.TotalRevenue); err != nil {
            security.SendDatabaseError(c, "Database error")
            return
        }
        analysis = append(analysis, a)
    }

    c.JSON(http.StatusOK, analysis)
}

// GetLabTestRevenueByLocation summarizes revenue grouped by patient
// city, with optional city and date-range filters.
func GetLabTestRevenueByLocation(c *gin.Context) {
    city := c.Query("city")
    startDate := c.Query("startDate")
    endDate := c.Query("endDate")

    query := `
        SELECT p.pt_city,
               COUNT(ltr.revenue_id) AS test_count,
               COALESCE(SUM(ltr.actual_price), 0) AS total_revenue
        FROM lab_test_revenue ltr
        JOIN patients p ON p.pt_id = ltr.pt_id
        WHERE 1=1
    `
    args := []interface{}{}
    argIndex := 1

    if city != "" {
        query += fmt.Sprintf(" AND p.pt_city = $%d", argIndex)
        args = append(args, city)
        argIndex++
    }
    if startDate != "" {
        query += fmt.Sprintf(" AND ltr.test_date >= $%d", argIndex)
        args = append(args, startDate)
        argIndex++
    }
    if endDate != "" {
        query += fmt.Sprintf(" AND ltr.test_date <= $%d", argIndex)
        args = append(args, endDate)
        argIndex++
    }

    query += " GROUP BY p.pt_city ORDER BY total_revenue DESC"

    rows, err := config.DB.Query(query, args...)
    if err != nil {
        security.SendDatabaseError(c, "Database error")
        return
    }
    defer rows.Close()

    revenue := []models.LocationRevenue{}
    for rows.Next() {
        var r models.LocationRevenue
        if err := rows.Scan(&r.City, &r.TestCount, &r.TotalRevenue); err != nil {
            security.SendDatabaseError(c, "Database error")
            return
        }
        revenue = append(revenue, r)
    }

    c.JSON(http.StatusOK, revenue)
}

// GetLabTestRevenue summarizes revenue for a single lab test.
func GetLabTestRevenue(c *gin.Context) {
    testID := c.Query("TestID")
    if testID == "" {
        security.SendValidationError(c, "Test ID is required", nil)
        return
    }

    var a models.TestRevenueAnalysis
    err := config.DB.QueryRow(`
        SELECT lt.test_id, lt.test_name, lt.test_category,
               COUNT(ltr.revenue_id) AS test_count,
               COALESCE(SUM(ltr.actual_price), 0) AS total_revenue
        FROM lab_tests lt
        LEFT JOIN lab_test_revenue ltr ON ltr.test_id = lt.test_id
        WHERE lt.test_id = $1
        GROUP BY lt.test_id, lt.test_name, lt.test_category
    `, testID).Scan(&a.TestID, &a.TestName, &a.TestCategory, &a.TestCount, &a.TotalRevenue)
    if err == sql.ErrNoRows {
        c.JSON(http.StatusOK, gin.H{})
        return
    }
    if err != nil {
        security.SendDatabaseError(c, "Database error")
        return
    }

    c.JSON(http.StatusOK, a)
}
