package controllers

import (
    "net/http"
    "strings"

    "github.com/gin-gonic/gin"

    "github.com/Mibrahim0941/DB-Project-Schedulify/config"
    "github.com/Mibrahim0941/DB-Project-Schedulify/models"
    "github.com/Mibrahim0941/DB-Project-Schedulify/security"
)

type AddDepartmentInput struct {
    DeptName string `json:"DeptName" binding:"required,max=255"`
}

// GetAllDepartments lists every department with its doctor count.
func GetAllDepartments(c *gin.Context) {
    rows, err := config.DB.Query(`
        SELECT dept_id, dept_name, doc_count
        FROM departments
        ORDER BY dept_name
    `)
    if err != nil {
        security.SendDatabaseError(c, "Database error")
        return
    }
    defer rows.Close()

    departments := []models.Department{}
    for rows.Next() {
        var d models.Department
        if err := rows.Scan(&d.DeptID, &d.DeptName, &d.DocCount); err != nil {
            security.SendDatabaseError(c, "Database error")
            return
        }
        departments = append(departments, d)
    }

    c.JSON(http.StatusOK, departments)
}

// AddDepartment creates a new department with zero doctors.
func AddDepartment(c *gin.Context) {
    var input AddDepartmentInput
    if err := c.ShouldBindJSON(&input); err != nil {
        security.SendValidationError(c, "Department name is required", err.Error())
        return
    }

    var deptID int64
    err := config.DB.QueryRow(`
        INSERT INTO departments (dept_name, doc_count)
        VALUES ($1, 0)
        RETURNING dept_id
    `, input.DeptName).Scan(&deptID)
    if err != nil {
        if isUniqueViolation(err) {
            security.SendConflictError(c, "A department with this name already exists")
            return
        }
        security.SendDatabaseError(c, "Failed to add department")
        return
    }

    c.JSON(http.StatusCreated, gin.H{"message": "Department added successfully", "DeptID": deptID})
}

// GetDepartmentStats aggregates booking activity per department.
func GetDepartmentStats(c *gin.Context) {
    rows, err := config.DB.Query(`
        SELECT dept.dept_id, dept.dept_name, dept.doc_count,
               AVG(d.rating) AS avg_rating,
               COUNT(a.apt_id) AS appointment_count
        FROM departments dept
        LEFT JOIN doctors d ON d.dept_id = dept.dept_id
        LEFT JOIN appointments a ON a.doc_id = d.doc_id AND a.status <> 'Cancelled'
        GROUP BY dept.dept_id, dept.dept_name, dept.doc_count
        ORDER BY appointment_count DESC
    `)
    if err != nil {
        security.SendDatabaseError(c, "Database error")
        return
    }
    defer rows.Close()

    stats := []models.DepartmentStats{}
    for rows.Next() {
        var s models.DepartmentStats
        if err := rows.Scan(&s.DeptID, &s.DeptName, &s.DoctorCount, &s.AverageRating, &s.TotalAppointments); err != nil {
            security.SendDatabaseError(c, "Database error")
            return
        }
        stats = append(stats, s)
    }

    c.JSON(http.StatusOK, stats)
}

// GetDoctorsByDepartment lists a department's doctors.
func GetDoctorsByDepartment(c *gin.Context) {
    deptID := c.Query("DeptID")
    if deptID == "" {
        security.SendValidationError(c, "Department ID is required", nil)
        return
    }

    rows, err := config.DB.Query(`
        SELECT doc_id, doc_name, specialization, rating, fees
        FROM doctors
        WHERE dept_id = $1
        ORDER BY doc_name
    `, deptID)
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

// GetDoctorsInDeptByFee lists a department's doctors ordered by fee.
func GetDoctorsInDeptByFee(c *gin.Context) {
    deptID := c.Query("DeptID")
    if deptID == "" {
        security.SendValidationError(c, "Department ID is required", nil)
        return
    }

    order := "ASC"
    if strings.EqualFold(c.Query("type"), "desc") {
        order = "DESC"
    }

    rows, err := config.DB.Query(`
        SELECT doc_id, doc_name, specialization, rating, fees
        FROM doctors
        WHERE dept_id = $1
        ORDER BY fees `+order, deptID)
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

// GetDoctorsInDeptByRating lists a department's doctors, best rated first.
func GetDoctorsInDeptByRating(c *gin.Context) {
    deptID := c.Query("DeptID")
    if deptID == "" {
        security.SendValidationError(c, "Department ID is required", nil)
        return
    }

    rows, err := config.DB.Query(`
        SELECT doc_id, doc_name, specialization, rating, fees
        FROM doctors
        WHERE dept_id = $1
        ORDER BY rating DESC
    `, deptID)
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
