package controllers

import (
    "net/http"
    "regexp"
    "testing"

    "github.com/DATA-DOG/go-sqlmock"
)

func registerDoctorBody() map[string]interface{} {
    return map[string]interface{}{
        "DocName":        "Dr. Ayesha Khan",
        "DocEmail":       "ayesha@example.com",
        "Degree":         "MBBS, FCPS",
        "Specialization": "Cardiology",
        "Fees":           2500.0,
        "Presence":       true,
        "Password":       "supersecret1",
        "DeptID":         4,
        "City":           "Lahore",
        "Country":        "Pakistan",
    }
}

func TestRegisterDoctorSuccess(t *testing.T) {
    mock := newMockDB(t)

    mock.ExpectBegin()
    mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM departments WHERE dept_id = $1)`)).
        WithArgs(int64(4)).
        WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
    mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM doctors WHERE doc_email = $1)`)).
        WithArgs("ayesha@example.com").
        WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
    mock.ExpectQuery(`INSERT INTO doctors`).
        WillReturnRows(sqlmock.NewRows([]string{"doc_id"}).AddRow(int64(8)))
    mock.ExpectExec(regexp.QuoteMeta(`UPDATE departments SET doc_count = doc_count + 1 WHERE dept_id = $1`)).
        WithArgs(int64(4)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectCommit()

    w := performJSON(RegisterDoctor, http.MethodPost, "/api/doctors/registerDoc", registerDoctorBody())

    if w.Code != http.StatusCreated {
        t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
    }
    if got := decodeBody(t, w)["DocID"]; got != 8.0 {
        t.Errorf("DocID = %v, want 8", got)
    }
    expectationsMet(t, mock)
}

func TestRegisterDoctorUnknownDepartment(t *testing.T) {
    mock := newMockDB(t)

    mock.ExpectBegin()
    mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM departments WHERE dept_id = $1)`)).
        WithArgs(int64(4)).
        WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
    mock.ExpectRollback()

    w := performJSON(RegisterDoctor, http.MethodPost, "/api/doctors/registerDoc", registerDoctorBody())

    if w.Code != http.StatusNotFound {
        t.Fatalf("status = %d, want 404", w.Code)
    }
    expectationsMet(t, mock)
}

func TestRegisterDoctorDuplicateEmail(t *testing.T) {
    mock := newMockDB(t)

    mock.ExpectBegin()
    mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM departments WHERE dept_id = $1)`)).
        WithArgs(int64(4)).
        WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
    mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM doctors WHERE doc_email = $1)`)).
        WithArgs("ayesha@example.com").
        WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
    mock.ExpectRollback()

    w := performJSON(RegisterDoctor, http.MethodPost, "/api/doctors/registerDoc", registerDoctorBody())

    if w.Code != http.StatusConflict {
        t.Fatalf("status = %d, want 409", w.Code)
    }
    expectationsMet(t, mock)
}

func TestGetDoctorsByFeeDescending(t *testing.T) {
    mock := newMockDB(t)

    mock.ExpectQuery(`ORDER BY fees DESC`).
        WillReturnRows(sqlmock.NewRows([]string{"doc_id", "doc_name", "specialization", "rating", "fees"}).
            AddRow(int64(1), "Dr. A", "Cardiology", 4.8, 3000.0).
            AddRow(int64(2), "Dr. B", "Neurology", 4.5, 2000.0))

    w := performGET(GetDoctorsByFee, "/api/doctors/docsByFee?type=desc")

    if w.Code != http.StatusOK {
        t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
    }
    expectationsMet(t, mock)
}

// Anything other than "desc" sorts ascending; the direction is never
// taken verbatim from the query string.
func TestGetDoctorsByFeeDefaultsAscending(t *testing.T) {
    mock := newMockDB(t)

    mock.ExpectQuery(`ORDER BY fees ASC`).
        WillReturnRows(sqlmock.NewRows([]string{"doc_id", "doc_name", "specialization", "rating", "fees"}))

    w := performGET(GetDoctorsByFee, "/api/doctors/docsByFee?type=desc%3B%20DROP%20TABLE%20doctors")

    if w.Code != http.StatusOK {
        t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
    }
    expectationsMet(t, mock)
}

func TestSearchDoctorsRequiresTerm(t *testing.T) {
    w := performGET(SearchDoctors, "/api/doctors/searchDoctors")
    if w.Code != http.StatusBadRequest {
        t.Errorf("status = %d, want 400", w.Code)
    }
}

func TestSearchDoctorsParameterized(t *testing.T) {
    mock := newMockDB(t)

    mock.ExpectQuery(`ILIKE '%' \|\| \$1 \|\| '%'`).
        WithArgs("cardio").
        WillReturnRows(sqlmock.NewRows([]string{"doc_id", "doc_name", "specialization", "rating", "dept_name"}).
            AddRow(int64(1), "Dr. A", "Cardiology", 4.8, "Cardiology"))

    w := performGET(SearchDoctors, "/api/doctors/searchDoctors?searchTerm=cardio")

    if w.Code != http.StatusOK {
        t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
    }
    expectationsMet(t, mock)
}

func TestUpdateDoctorInfoPartial(t *testing.T) {
    mock := newMockDB(t)

    mock.ExpectExec(regexp.QuoteMeta(`UPDATE doctors SET fees = $1, presence = $2 WHERE doc_id = $3`)).
        WithArgs(2800.0, false, int64(8)).
        WillReturnResult(sqlmock.NewResult(0, 1))

    w := performJSON(UpdateDoctorInfo, http.MethodPut, "/api/doctors/updateDocInfo",
        map[string]interface{}{"DocID": 8, "Fees": 2800.0, "Presence": false})

    if w.Code != http.StatusOK {
        t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
    }
    expectationsMet(t, mock)
}

func TestAddTimeSlotSuccess(t *testing.T) {
    mock := newMockDB(t)

    mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM doctors WHERE doc_id = $1)`)).
        WithArgs(int64(8)).
        WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
    mock.ExpectExec(`INSERT INTO time_slots`).
        WithArgs(int64(8), "09:00", "10:00").
        WillReturnResult(sqlmock.NewResult(1, 1))

    w := performJSON(AddTimeSlot, http.MethodPost, "/api/doctors/addTimeSlot",
        map[string]interface{}{"DocID": 8, "TimeSlot": "09:00-10:00"})

    if w.Code != http.StatusOK {
        t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
    }
    expectationsMet(t, mock)
}

func TestAddTimeSlotBadFormat(t *testing.T) {
    w := performJSON(AddTimeSlot, http.MethodPost, "/api/doctors/addTimeSlot",
        map[string]interface{}{"DocID": 8, "TimeSlot": "10:00-09:00"})
    if w.Code != http.StatusBadRequest {
        t.Errorf("status = %d, want 400", w.Code)
    }
}

func TestDeleteTimeSlotNotOwned(t *testing.T) {
    mock := newMockDB(t)

    mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM appointments WHERE slot_id = \$1\)`).
        WithArgs(int64(5)).
        WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
    mock.ExpectExec(`DELETE FROM time_slots`).
        WithArgs(int64(5), int64(8)).
        WillReturnResult(sqlmock.NewResult(0, 0))

    w := performJSON(DeleteTimeSlot, http.MethodDelete, "/api/doctors/deleteTimeSlot",
        map[string]interface{}{"DocID": 8, "SlotID": 5})

    if w.Code != http.StatusNotFound {
        t.Fatalf("status = %d, want 404", w.Code)
    }
    expectationsMet(t, mock)
}

func TestDeleteTimeSlotWithBookings(t *testing.T) {
    mock := newMockDB(t)

    mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM appointments WHERE slot_id = \$1\)`).
        WithArgs(int64(5)).
        WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

    w := performJSON(DeleteTimeSlot, http.MethodDelete, "/api/doctors/deleteTimeSlot",
        map[string]interface{}{"DocID": 8, "SlotID": 5})

    if w.Code != http.StatusConflict {
        t.Fatalf("status = %d, want 409", w.Code)
    }
    expectationsMet(t, mock)
}

func TestGetTopRatedDoctors(t *testing.T) {
    mock := newMockDB(t)

    mock.ExpectQuery(`RANK\(\) OVER`).
        WillReturnRows(sqlmock.NewRows([]string{"doc_id", "doc_name", "specialization", "rating", "dept_id", "dept_name"}).
            AddRow(int64(1), "Dr. A", "Cardiology", 4.9, int64(4), "Cardiology").
            AddRow(int64(3), "Dr. C", "Neurology", 4.7, int64(5), "Neurology"))

    w := performGET(GetTopRatedDoctors, "/api/doctors/topRatedDocs")

    if w.Code != http.StatusOK {
        t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
    }
    expectationsMet(t, mock)
}
