package controllers

import (
    "database/sql"
    "net/http"
    "strconv"

    "github.com/gin-gonic/gin"
    "golang.org/x/crypto/bcrypt"

    "github.com/Mibrahim0941/DB-Project-Schedulify/config"
    "github.com/Mibrahim0941/DB-Project-Schedulify/security"
)

type LoginInput struct {
    UserType string `json:"userType" binding:"required,oneof=patient doctor admin"`
    Email    string `json:"email" binding:"required,email"`
    Password string `json:"password" binding:"required"`
}

type RefreshInput struct {
    RefreshToken string `json:"refreshToken" binding:"required"`
}

type DeleteUserInput struct {
    UserType string `json:"userType" binding:"required,oneof=patient doctor admin"`
    UserID   int64  `json:"userID" binding:"required"`
}

// credentialQuery returns the id and password hash lookup for a user type.
func credentialQuery(userType string) string {
    switch userType {
    case security.UserTypePatient:
        return `SELECT pt_id, password_hash FROM patients WHERE pt_email = $1`
    case security.UserTypeDoctor:
        return `SELECT doc_id, password_hash FROM doctors WHERE doc_email = $1`
    default:
        return `SELECT admin_id, password_hash FROM admins WHERE admin_email = $1`
    }
}

// Login verifies credentials against the account table for the given
// user type and issues an access/refresh token pair.
func Login(c *gin.Context) {
    var input LoginInput
    if err := c.ShouldBindJSON(&input); err != nil {
        security.SendValidationError(c, "userType, email and password are required", err.Error())
        return
    }

    var userID int64
    var passwordHash string
    err := config.DB.QueryRow(credentialQuery(input.UserType), input.Email).Scan(&userID, &passwordHash)
    if err == sql.ErrNoRows {
        security.SendError(c, http.StatusUnauthorized, security.CodeInvalidCredentials,
            "Invalid credentials", "Email or password is incorrect", nil)
        return
    }
    if err != nil {
        security.SendDatabaseError(c, "Database error during login")
        return
    }

    if bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(input.Password)) != nil {
        security.SendError(c, http.StatusUnauthorized, security.CodeInvalidCredentials,
            "Invalid credentials", "Email or password is incorrect", nil)
        return
    }

    accessToken, err := security.SignAccessToken(userID, input.UserType)
    if err != nil {
        security.SendDatabaseError(c, "Failed to issue access token")
        return
    }
    refreshToken, err := security.SignRefreshToken(userID, input.UserType)
    if err != nil {
        security.SendDatabaseError(c, "Failed to issue refresh token")
        return
    }

    c.JSON(http.StatusOK, gin.H{
        "accessToken":  accessToken,
        "refreshToken": refreshToken,
        "userID":       userID,
        "userType":     input.UserType,
    })
}

// RefreshToken exchanges a valid refresh token for a new token pair.
func RefreshToken(c *gin.Context) {
    var input RefreshInput
    if err := c.ShouldBindJSON(&input); err != nil {
        security.SendValidationError(c, "refreshToken is required", err.Error())
        return
    }

    claims, err := security.VerifyRefreshToken(input.RefreshToken)
    if err != nil {
        security.SendError(c, http.StatusUnauthorized, security.CodeInvalidToken,
            "Invalid or expired token", "The refresh token is invalid or expired. Please login again", nil)
        return
    }

    sub, subOK := claims["sub"].(string)
    userType, typeOK := claims["utype"].(string)
    if !subOK || !typeOK {
        security.SendError(c, http.StatusUnauthorized, security.CodeInvalidUserInfo,
            "Invalid user information", "The token does not contain valid user information", nil)
        return
    }
    userID, err := strconv.ParseInt(sub, 10, 64)
    if err != nil {
        security.SendError(c, http.StatusUnauthorized, security.CodeInvalidUserInfo,
            "Invalid user information", "The token does not contain valid user information", nil)
        return
    }

    accessToken, err := security.SignAccessToken(userID, userType)
    if err != nil {
        security.SendDatabaseError(c, "Failed to issue access token")
        return
    }
    refreshToken, err := security.SignRefreshToken(userID, userType)
    if err != nil {
        security.SendDatabaseError(c, "Failed to issue refresh token")
        return
    }

    c.JSON(http.StatusOK, gin.H{
        "accessToken":  accessToken,
        "refreshToken": refreshToken,
    })
}

// DeleteUser removes an account. Deleting a doctor also releases its
// department slot count inside the same transaction.
func DeleteUser(c *gin.Context) {
    var input DeleteUserInput
    if err := c.ShouldBindJSON(&input); err != nil {
        security.SendValidationError(c, "userType and userID are required", err.Error())
        return
    }

    tx, err := config.DB.BeginTx(c.Request.Context(), nil)
    if err != nil {
        security.SendDatabaseError(c, "Failed to start transaction")
        return
    }
    defer tx.Rollback()

    var result sql.Result
    switch input.UserType {
    case security.UserTypeDoctor:
        var deptID int64
        err = tx.QueryRow(`SELECT dept_id FROM doctors WHERE doc_id = $1`, input.UserID).Scan(&deptID)
        if err == sql.ErrNoRows {
            security.SendNotFoundError(c, "doctor")
            return
        }
        if err != nil {
            security.SendDatabaseError(c, "Database error")
            return
        }

        result, err = tx.Exec(`DELETE FROM doctors WHERE doc_id = $1`, input.UserID)
        if err == nil {
            _, err = tx.Exec(`
                UPDATE departments SET doc_count = doc_count - 1
                WHERE dept_id = $1 AND doc_count > 0
            `, deptID)
        }
    case security.UserTypePatient:
        result, err = tx.Exec(`DELETE FROM patients WHERE pt_id = $1`, input.UserID)
    default:
        result, err = tx.Exec(`DELETE FROM admins WHERE admin_id = $1`, input.UserID)
    }
    if err != nil {
        security.SendDatabaseError(c, "Failed to delete user")
        return
    }

    rowsAffected, err := result.RowsAffected()
    if err != nil {
        security.SendDatabaseError(c, "Database error")
        return
    }
    if rowsAffected == 0 {
        security.SendNotFoundError(c, "user")
        return
    }

    if err = tx.Commit(); err != nil {
        security.SendDatabaseError(c, "Failed to commit deletion")
        return
    }

    c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

// HealthCheck reports process and database liveness.
func HealthCheck(c *gin.Context) {
    if err := config.DB.PingContext(c.Request.Context()); err != nil {
        c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "database": "down"})
        return
    }
    c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "up"})
}
