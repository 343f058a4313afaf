package models

type Patient struct {
    PtID       int64   `json:"PtID" db:"pt_id"`
    PtName     string  `json:"PtName" db:"pt_name"`
    PHeight    float64 `json:"PHeight" db:"p_height"`
    PWeight    float64 `json:"PWeight" db:"p_weight"`
    DOB        string  `json:"DOB" db:"dob"`
    PtEmail    string  `json:"PtEmail" db:"pt_email"`
    PhoneNum   string  `json:"PhoneNum" db:"phone_num"`
    PtPFP      *string `json:"PtPFP" db:"pt_pfp"`
    PtCity     string  `json:"PtCity" db:"pt_city"`
    PtCountry  string  `json:"PtCountry" db:"pt_country"`
    BookedApts int     `json:"BookedApts" db:"booked_apts"`
}

// HistoryEntry is one row of a patient's combined appointment and lab
// test history.
type HistoryEntry struct {
    Type     string `json:"Type"`
    Date     string `json:"Date"`
    RefID    int64  `json:"RefID"`
    ServedBy string `json:"Doctor/Test"`
    TimeSlot string `json:"Time"`
    Status   string `json:"Status"`
}

type PatientAppointmentRow struct {
    PtName   string `json:"PtName"`
    AptDate  string `json:"AptDate"`
    TimeSlot string `json:"TimeSlot"`
    DocName  string `json:"DocName"`
    Status   string `json:"Status"`
}

type PatientLabTestRow struct {
    TestAptID    int64  `json:"TestAptID"`
    AptDate      string `json:"AptDate"`
    TestName     string `json:"TestName"`
    TestCategory string `json:"TestCategory"`
    TimeSlot     string `json:"TimeSlot"`
    Status       string `json:"Status"`
}

// PatientSummary aggregates a patient's activity for the admin view.
type PatientSummary struct {
    PatientName       string  `json:"patientName"`
    Email             string  `json:"email"`
    AppointmentsCount int     `json:"appointmentsCount"`
    TotalPayments     float64 `json:"totalPayments"`
}
