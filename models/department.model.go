package models

type Department struct {
    DeptID   int64  `json:"DeptID" db:"dept_id"`
    DeptName string `json:"DeptName" db:"dept_name"`
    DocCount int    `json:"Doc_Count" db:"doc_count"`
}

type DepartmentStats struct {
    DeptID            int64    `json:"DeptID"`
    DeptName          string   `json:"DeptName"`
    DoctorCount       int      `json:"DoctorCount"`
    AverageRating     *float64 `json:"AverageRating"`
    TotalAppointments int      `json:"TotalAppointments"`
}
