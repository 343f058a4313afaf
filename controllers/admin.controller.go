package controllers

import (
    "database/sql"
    "net/http"

    "github.com/gin-gonic/gin"

    "github.com/Mibrahim0941/DB-Project-Schedulify/config"
    "github.com/Mibrahim0941/DB-Project-Schedulify/models"
    "github.com/Mibrahim0941/DB-Project-Schedulify/security"
)

type AddLabTestInput struct {
    TestName     string  `json:"TestName" binding:"required,max=255"`
    TestCategory string  `json:"TestCategory" binding:"required,max=255"`
    BasePrice    float64 `json:"BasePrice" binding:"required,gt=0"`
    City         string  `json:"City" binding:"required,max=100"`
    Surcharge    float64 `json:"Surcharge"`
}

type RemoveLabTestInput struct {
    TestID int64 `json:"TestID" binding:"required"`
}

// defaultTestSlots are created for every new lab test so it is
// bookable immediately.
var defaultTestSlots = [][2]string{
    {"09:00", "10:00"},
    {"10:00", "11:00"},
    {"11:00", "12:00"},
    {"14:00", "15:00"},
    {"15:00", "16:00"},
}

// GetAdminProfile returns the authenticated admin's profile.
func GetAdminProfile(c *gin.Context) {
    adminID := c.GetInt64("user_id")

    var a models.Admin
    err := config.DB.QueryRow(`
        SELECT admin_id, admin_name, admin_email, phone_num, admin_pfp, is_super_admin, is_active
        FROM admins
        WHERE admin_id = $1
    `, adminID).Scan(&a.AdminID, &a.AdminName, &a.AdminEmail, &a.PhoneNum, &a.AdminPFP,
        &a.IsSuperAdmin, &a.IsActive)
    if err == sql.ErrNoRows {
        security.SendNotFoundError(c, "admin")
        return
    }
    if err != nil {
        security.SendDatabaseError(c, "Failed to fetch admin profile")
        return
    }

    c.JSON(http.StatusOK, a)
}

// AddLabTest creates a lab test, its default bookable slots, and the
// city surcharge row if one does not exist yet, all in one transaction.
func AddLabTest(c *gin.Context) {
    var input AddLabTestInput
    if err := c.ShouldBindJSON(&input); err != nil {
        security.SendValidationError(c, "Missing required fields", err.Error())
        return
    }

    tx, err := config.DB.BeginTx(c.Request.Context(), nil)
    if err != nil {
        security.SendDatabaseError(c, "Failed to start transaction")
        return
    }
    defer tx.Rollback()

    var testID int64
    err = tx.QueryRow(`
        INSERT INTO lab_tests (test_name, test_category, base_price, city)
        VALUES ($1, $2, $3, $4)
        RETURNING test_id
    `, input.TestName, input.TestCategory, input.BasePrice, input.City).Scan(&testID)
    if err != nil {
        if isUniqueViolation(err) {
            security.SendConflictError(c, "A lab test with this name already exists in this city")
            return
        }
        security.SendDatabaseError(c, "Failed to add lab test")
        return
    }

    for _, slot := range defaultTestSlots {
        _, err = tx.Exec(`
            INSERT INTO test_time_slots (test_id, start_time, end_time)
            VALUES ($1, $2::time, $3::time)
        `, testID, slot[0], slot[1])
        if err != nil {
            security.SendDatabaseError(c, "Failed to create test time slots")
            return
        }
    }

    _, err = tx.Exec(`
        INSERT INTO test_locations (city, surcharge)
        VALUES ($1, $2)
        ON CONFLICT (city) DO NOTHING
    `, input.City, input.Surcharge)
    if err != nil {
        security.SendDatabaseError(c, "Failed to record test location")
        return
    }

    if err = tx.Commit(); err != nil {
        security.SendDatabaseError(c, "Failed to commit lab test")
        return
    }

    c.JSON(http.StatusCreated, gin.H{"message": "Lab test added successfully", "TestID": testID})
}

// RemoveLabTest deletes a lab test and its slots. Tests with
// non-cancelled bookings are protected.
func RemoveLabTest(c *gin.Context) {
    var input RemoveLabTestInput
    if err := c.ShouldBindJSON(&input); err != nil {
        security.SendValidationError(c, "Test ID is required", err.Error())
        return
    }

    tx, err := config.DB.BeginTx(c.Request.Context(), nil)
    if err != nil {
        security.SendDatabaseError(c, "Failed to start transaction")
        return
    }
    defer tx.Rollback()

    var activeBookings bool
    err = tx.QueryRow(`
        SELECT EXISTS(
            SELECT 1 FROM test_appointments
            WHERE test_id = $1 AND status <> 'Cancelled'
        )
    `, input.TestID).Scan(&activeBookings)
    if err != nil {
        security.SendDatabaseError(c, "Database error while checking bookings")
        return
    }
    if activeBookings {
        security.SendConflictError(c, "Lab test has active bookings and cannot be removed")
        return
    }

    _, err = tx.Exec(`DELETE FROM test_time_slots WHERE test_id = $1`, input.TestID)
    if err != nil {
        security.SendDatabaseError(c, "Failed to remove test time slots")
        return
    }

    result, err := tx.Exec(`DELETE FROM lab_tests WHERE test_id = $1`, input.TestID)
    if err != nil {
        security.SendDatabaseError(c, "Failed to remove lab test")
        return
    }

    rowsAffected, err := result.RowsAffected()
    if err != nil {
        security.SendDatabaseError(c, "Database error")
        return
    }
    if rowsAffected == 0 {
        security.SendNotFoundError(c, "lab test")
        return
    }

    if err = tx.Commit(); err != nil {
        security.SendDatabaseError(c, "Failed to commit removal")
        return
    }

    c.JSON(http.StatusOK, gin.H{"message": "Lab test removed successfully"})
}
