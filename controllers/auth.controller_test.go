package controllers

import (
    "net/http"
    "regexp"
    "testing"

    "github.com/DATA-DOG/go-sqlmock"
    "golang.org/x/crypto/bcrypt"

    "github.com/Mibrahim0941/DB-Project-Schedulify/config"
)

func withTestSecrets(t *testing.T) {
    t.Helper()
    config.Cfg.JWTAccessSecret = "test-access-secret"
    config.Cfg.JWTRefreshSecret = "test-refresh-secret"
    t.Cleanup(func() {
        config.Cfg.JWTAccessSecret = ""
        config.Cfg.JWTRefreshSecret = ""
    })
}

func TestLoginSuccess(t *testing.T) {
    withTestSecrets(t)
    mock := newMockDB(t)

    hash, err := bcrypt.GenerateFromPassword([]byte("supersecret1"), bcrypt.MinCost)
    if err != nil {
        t.Fatalf("bcrypt: %v", err)
    }

    mock.ExpectQuery(regexp.QuoteMeta(`SELECT pt_id, password_hash FROM patients WHERE pt_email = $1`)).
        WithArgs("hassan@example.com").
        WillReturnRows(sqlmock.NewRows([]string{"pt_id", "password_hash"}).AddRow(int64(1), string(hash)))

    w := performJSON(Login, http.MethodPost, "/api/auth/login", map[string]interface{}{
        "userType": "patient",
        "email":    "hassan@example.com",
        "password": "supersecret1",
    })

    if w.Code != http.StatusOK {
        t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
    }
    body := decodeBody(t, w)
    if body["accessToken"] == "" || body["refreshToken"] == "" {
        t.Error("expected both tokens in response")
    }
    if body["userType"] != "patient" {
        t.Errorf("userType = %v", body["userType"])
    }
    expectationsMet(t, mock)
}

func TestLoginWrongPassword(t *testing.T) {
    withTestSecrets(t)
    mock := newMockDB(t)

    hash, _ := bcrypt.GenerateFromPassword([]byte("rightpassword"), bcrypt.MinCost)
    mock.ExpectQuery(regexp.QuoteMeta(`SELECT pt_id, password_hash FROM patients WHERE pt_email = $1`)).
        WithArgs("hassan@example.com").
        WillReturnRows(sqlmock.NewRows([]string{"pt_id", "password_hash"}).AddRow(int64(1), string(hash)))

    w := performJSON(Login, http.MethodPost, "/api/auth/login", map[string]interface{}{
        "userType": "patient",
        "email":    "hassan@example.com",
        "password": "wrongpassword",
    })

    if w.Code != http.StatusUnauthorized {
        t.Fatalf("status = %d, want 401", w.Code)
    }
    expectationsMet(t, mock)
}

// An unknown email and a wrong password must be indistinguishable.
func TestLoginUnknownEmail(t *testing.T) {
    withTestSecrets(t)
    mock := newMockDB(t)

    mock.ExpectQuery(regexp.QuoteMeta(`SELECT doc_id, password_hash FROM doctors WHERE doc_email = $1`)).
        WithArgs("nobody@example.com").
        WillReturnRows(sqlmock.NewRows([]string{"doc_id", "password_hash"}))

    w := performJSON(Login, http.MethodPost, "/api/auth/login", map[string]interface{}{
        "userType": "doctor",
        "email":    "nobody@example.com",
        "password": "whatever123",
    })

    if w.Code != http.StatusUnauthorized {
        t.Fatalf("status = %d, want 401", w.Code)
    }
    expectationsMet(t, mock)
}

func TestLoginRejectsBadUserType(t *testing.T) {
    w := performJSON(Login, http.MethodPost, "/api/auth/login", map[string]interface{}{
        "userType": "superuser",
        "email":    "x@example.com",
        "password": "whatever123",
    })
    if w.Code != http.StatusBadRequest {
        t.Errorf("status = %d, want 400", w.Code)
    }
}

func TestRefreshTokenRejectsGarbage(t *testing.T) {
    withTestSecrets(t)

    w := performJSON(RefreshToken, http.MethodPost, "/api/auth/refresh",
        map[string]interface{}{"refreshToken": "not.a.token"})
    if w.Code != http.StatusUnauthorized {
        t.Errorf("status = %d, want 401", w.Code)
    }
}

func TestDeleteUserDoctorReleasesDepartmentCount(t *testing.T) {
    mock := newMockDB(t)

    mock.ExpectBegin()
    mock.ExpectQuery(regexp.QuoteMeta(`SELECT dept_id FROM doctors WHERE doc_id = $1`)).
        WithArgs(int64(8)).
        WillReturnRows(sqlmock.NewRows([]string{"dept_id"}).AddRow(int64(4)))
    mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM doctors WHERE doc_id = $1`)).
        WithArgs(int64(8)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectExec(`UPDATE departments SET doc_count = doc_count - 1`).
        WithArgs(int64(4)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectCommit()

    w := performJSON(DeleteUser, http.MethodDelete, "/api/auth/user",
        map[string]interface{}{"userType": "doctor", "userID": 8})

    if w.Code != http.StatusOK {
        t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
    }
    expectationsMet(t, mock)
}

func TestDeleteUserPatientNotFound(t *testing.T) {
    mock := newMockDB(t)

    mock.ExpectBegin()
    mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM patients WHERE pt_id = $1`)).
        WithArgs(int64(99)).
        WillReturnResult(sqlmock.NewResult(0, 0))
    mock.ExpectRollback()

    w := performJSON(DeleteUser, http.MethodDelete, "/api/auth/user",
        map[string]interface{}{"userType": "patient", "userID": 99})

    if w.Code != http.StatusNotFound {
        t.Fatalf("status = %d, want 404", w.Code)
    }
    expectationsMet(t, mock)
}

func TestHealthCheck(t *testing.T) {
    db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
    if err != nil {
        t.Fatalf("sqlmock: %v", err)
    }
    prev := config.DB
    config.DB = db
    t.Cleanup(func() {
        config.DB = prev
        db.Close()
    })

    mock.ExpectPing()

    w := performGET(HealthCheck, "/api/health")

    if w.Code != http.StatusOK {
        t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
    }
    if got := decodeBody(t, w)["status"]; got != "ok" {
        t.Errorf("status field = %v, want ok", got)
    }
    expectationsMet(t, mock)
}
