package models

import (
    "time"
)

type Doctor struct {
    DocID          int64    `json:"DocID" db:"doc_id"`
    DocName        string   `json:"DocName" db:"doc_name"`
    DocEmail       string   `json:"DocEmail" db:"doc_email"`
    Degree         string   `json:"Degree" db:"degree"`
    Specialization string   `json:"Specialization" db:"specialization"`
    Rating         float64  `json:"Rating" db:"rating"`
    Fees           float64  `json:"Fees" db:"fees"`
    Utilities      *string  `json:"Utilities" db:"utilities"`
    Experience     *float64 `json:"Experience" db:"experience"`
    Presence       bool     `json:"Presence" db:"presence"`
    DocPFP         *string  `json:"DocPFP" db:"doc_pfp"`
    DeptID         int64    `json:"DeptID" db:"dept_id"`
    DocCity        string   `json:"DocCity" db:"doc_city"`
    DocCountry     string   `json:"DocCountry" db:"doc_country"`
}

// DoctorSummary is the trimmed listing shape used by the sort and
// search endpoints.
type DoctorSummary struct {
    DocID          int64   `json:"DocID"`
    DocName        string  `json:"DocName"`
    Specialization string  `json:"Specialization"`
    Rating         float64 `json:"Rating"`
    Fees           float64 `json:"Fees"`
}

type DoctorSearchResult struct {
    DocID          int64   `json:"DocID"`
    DocName        string  `json:"DocName"`
    Specialization string  `json:"Specialization"`
    Rating         float64 `json:"Rating"`
    DeptName       string  `json:"DeptName"`
}

type DoctorWithDepartment struct {
    Doctor
    DeptName string `json:"DeptName"`
}

// RankedDoctor is a top-rated doctor within its department.
type RankedDoctor struct {
    DocID          int64   `json:"DocID"`
    DocName        string  `json:"DocName"`
    Specialization string  `json:"Specialization"`
    Rating         float64 `json:"Rating"`
    DeptID         int64   `json:"DeptID"`
    DeptName       string  `json:"DeptName"`
}

type PopularDoctor struct {
    DocID            int64   `json:"DocID"`
    DocName          string  `json:"DocName"`
    Specialization   string  `json:"Specialization"`
    Rating           float64 `json:"Rating"`
    AppointmentCount int     `json:"AppointmentCount"`
}

// TimeSlot is a reusable named time window belonging to one doctor.
// Start and end are structured times; the display form is "HH:MM-HH:MM".
type TimeSlot struct {
    SlotID    int64  `json:"SlotID" db:"slot_id"`
    DocID     int64  `json:"DocID" db:"doc_id"`
    TimeSlot  string `json:"TimeSlot"`
    StartTime string `json:"-" db:"start_time"`
    EndTime   string `json:"-" db:"end_time"`
}

// SlotAvailability annotates a slot with its derived booked state for
// a given date (or any date, when no date is supplied).
type SlotAvailability struct {
    SlotID   int64  `json:"SlotID"`
    DocID    int64  `json:"DocID"`
    TimeSlot string `json:"TimeSlot"`
    IsBooked int    `json:"isBooked"`
}

// AppointmentDetail is the joined appointment view returned to doctors
// and patients.
type AppointmentDetail struct {
    AptID    int64     `json:"AptID"`
    PtID     int64     `json:"PtID"`
    PtName   string    `json:"PtName"`
    DocID    int64     `json:"DocID"`
    DocName  string    `json:"DocName"`
    TimeSlot string    `json:"TimeSlot"`
    AptDate  string    `json:"AptDate"`
    AptDay   string    `json:"AptDay"`
    Status   string    `json:"Status"`
    BookedAt time.Time `json:"BookedAt"`
}
