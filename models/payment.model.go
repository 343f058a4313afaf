package models

type Payment struct {
    PaymentID int64   `json:"PaymentID" db:"payment_id"`
    Amount    float64 `json:"Amount" db:"amount"`
    Status    string  `json:"Status" db:"status"`
}

// PaymentBreakdown is the response of the payment calculation endpoint.
type PaymentBreakdown struct {
    TotalDoctorFees  float64 `json:"TotalDoctorFees"`
    TotalLabTestFees float64 `json:"TotalLabTestFees"`
    TotalAmount      float64 `json:"TotalAmount"`
}
