package security

import (
    "database/sql"
    "errors"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/gin-gonic/gin"
    "github.com/golang-jwt/jwt/v5"

    "github.com/Mibrahim0941/DB-Project-Schedulify/config"
)

// Database interface for dependency injection
type Database interface {
    QueryRow(query string, args ...interface{}) *sql.Row
    Query(query string, args ...interface{}) (*sql.Rows, error)
}

// User types carried in token claims. There is no shared "current user"
// anywhere in the process; identity travels with each request's token.
const (
    UserTypePatient = "patient"
    UserTypeDoctor  = "doctor"
    UserTypeAdmin   = "admin"
)

// JWT utilities
func SignAccessToken(userID int64, userType string) (string, error) {
    secret := config.Cfg.JWTAccessSecret
    if secret == "" {
        return "", errors.New("JWT_ACCESS_SECRET not set")
    }

    token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
        "sub":   strconv.FormatInt(userID, 10),
        "utype": userType,
        "exp":   time.Now().Add(15 * time.Minute).Unix(),
        "iat":   time.Now().Unix(),
        "type":  "access",
    })
    return token.SignedString([]byte(secret))
}

func SignRefreshToken(userID int64, userType string) (string, error) {
    secret := config.Cfg.JWTRefreshSecret
    if secret == "" {
        return "", errors.New("JWT_REFRESH_SECRET not set")
    }

    token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
        "sub":   strconv.FormatInt(userID, 10),
        "utype": userType,
        "exp":   time.Now().Add(7 * 24 * time.Hour).Unix(),
        "iat":   time.Now().Unix(),
        "type":  "refresh",
    })
    return token.SignedString([]byte(secret))
}

func parseToken(tokenStr, secret string) (jwt.MapClaims, error) {
    token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
        if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, errors.New("unexpected signing method")
        }
        return []byte(secret), nil
    })
    if err != nil {
        return nil, err
    }
    if !token.Valid {
        return nil, errors.New("invalid token")
    }
    claims, ok := token.Claims.(jwt.MapClaims)
    if !ok {
        return nil, errors.New("invalid token claims")
    }
    return claims, nil
}

// VerifyRefreshToken validates a refresh token and returns its claims.
func VerifyRefreshToken(tokenStr string) (jwt.MapClaims, error) {
    secret := config.Cfg.JWTRefreshSecret
    if secret == "" {
        return nil, errors.New("JWT_REFRESH_SECRET not set")
    }

    claims, err := parseToken(tokenStr, secret)
    if err != nil {
        return nil, err
    }

    tokenType, ok := claims["type"].(string)
    if !ok || tokenType != "refresh" {
        return nil, errors.New("invalid token type")
    }
    return claims, nil
}

// accountTable maps a user type to the table and id column that back it.
func accountTable(userType string) (table, idColumn string, ok bool) {
    switch userType {
    case UserTypePatient:
        return "patients", "pt_id", true
    case UserTypeDoctor:
        return "doctors", "doc_id", true
    case UserTypeAdmin:
        return "admins", "admin_id", true
    }
    return "", "", false
}

// AuthMiddleware creates a Gin middleware for JWT authentication
func AuthMiddleware(db Database) gin.HandlerFunc {
    return func(c *gin.Context) {
        tokenStr := c.GetHeader("Authorization")
        if tokenStr == "" {
            SendError(c, http.StatusUnauthorized, CodeMissingToken, "Authentication required",
                "Please provide a valid authorization token in the request header", nil)
            c.Abort()
            return
        }

        // Remove "Bearer " prefix if present
        tokenStr = strings.TrimPrefix(tokenStr, "Bearer ")

        secret := config.Cfg.JWTAccessSecret
        if secret == "" {
            SendError(c, http.StatusInternalServerError, CodeAuthVerificationError, "JWT configuration error",
                "Server configuration error. Please try again later", nil)
            c.Abort()
            return
        }

        claims, err := parseToken(tokenStr, secret)
        if err != nil {
            SendError(c, http.StatusUnauthorized, CodeInvalidToken, "Invalid or expired token",
                "The provided token is invalid, expired, or malformed. Please login again to get a new token", nil)
            c.Abort()
            return
        }

        sub, subOK := claims["sub"].(string)
        userType, typeOK := claims["utype"].(string)
        if !subOK || !typeOK {
            SendError(c, http.StatusUnauthorized, CodeInvalidUserInfo, "Invalid user information",
                "The token does not contain valid user information. Please login again", nil)
            c.Abort()
            return
        }
        userID, err := strconv.ParseInt(sub, 10, 64)
        if err != nil {
            SendError(c, http.StatusUnauthorized, CodeInvalidUserInfo, "Invalid user information",
                "The token does not contain valid user information. Please login again", nil)
            c.Abort()
            return
        }

        table, idColumn, ok := accountTable(userType)
        if !ok {
            SendError(c, http.StatusUnauthorized, CodeInvalidUserInfo, "Invalid user information",
                "The token does not contain a valid user type. Please login again", nil)
            c.Abort()
            return
        }

        var exists bool
        err = db.QueryRow(`SELECT EXISTS(SELECT 1 FROM `+table+` WHERE `+idColumn+` = $1)`, userID).Scan(&exists)
        if err != nil {
            SendError(c, http.StatusInternalServerError, CodeAuthVerificationError, "Authentication verification failed",
                "Unable to verify user status. Please try again later", nil)
            c.Abort()
            return
        }
        if !exists {
            SendError(c, http.StatusUnauthorized, CodeUserNotFoundOrInactive, "User account not found or inactive",
                "Your account is not found or has been deactivated. Please contact support", nil)
            c.Abort()
            return
        }

        c.Set("user_id", userID)
        c.Set("user_type", userType)
        c.Next()
    }
}

// RequireUserType creates a Gin middleware for role-based access control
func RequireUserType(expectedTypes ...string) gin.HandlerFunc {
    return func(c *gin.Context) {
        userType := c.GetString("user_type")

        if userType == "" {
            SendError(c, http.StatusUnauthorized, CodeUserNotAuthenticated, "User not authenticated",
                "User authentication is required to access this resource", nil)
            c.Abort()
            return
        }

        for _, expected := range expectedTypes {
            if userType == expected {
                c.Next()
                return
            }
        }

        var typeList string
        if len(expectedTypes) == 1 {
            typeList = expectedTypes[0]
        } else {
            typeList = strings.Join(expectedTypes[:len(expectedTypes)-1], ", ") + " or " + expectedTypes[len(expectedTypes)-1]
        }

        SendError(c, http.StatusForbidden, CodeInsufficientPermissions, "Insufficient permissions",
            "Access denied. This resource requires "+typeList+" access. Your account type: "+userType,
            gin.H{
                "required_types": expectedTypes,
                "user_type":      userType,
            })
        c.Abort()
    }
}

func CORSMiddleware() gin.HandlerFunc {
    return func(c *gin.Context) {
        origin := c.Request.Header.Get("Origin")

        allowOrigin := "*"
        if origin != "" {
            allowOrigin = origin
        }

        c.Header("Access-Control-Allow-Origin", allowOrigin)
        c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
        c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With, Accept, Origin, Cache-Control, X-File-Name")
        c.Header("Access-Control-Allow-Credentials", "true")
        c.Header("Access-Control-Max-Age", "86400")

        if c.Request.Method == http.MethodOptions {
            c.AbortWithStatus(204)
            return
        }

        c.Next()
    }
}
