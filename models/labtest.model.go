package models

type LabTest struct {
    TestID       int64   `json:"TestID" db:"test_id"`
    TestName     string  `json:"TestName" db:"test_name"`
    TestCategory string  `json:"TestCategory" db:"test_category"`
    BasePrice    float64 `json:"BasePrice" db:"base_price"`
    City         string  `json:"City" db:"city"`
}

// TestSlot is a bookable time window for a lab test.
type TestSlot struct {
    SlotID   int64  `json:"SlotID"`
    TestID   int64  `json:"TestID"`
    TimeSlot string `json:"TimeSlot"`
}

// PriceDetails is the price breakdown returned after booking a lab test.
type PriceDetails struct {
    BasePrice         float64 `json:"basePrice"`
    LocationSurcharge float64 `json:"locationSurcharge"`
    ActualPrice       float64 `json:"actualPrice"`
}

// TestRevenueAnalysis is the per-test revenue summary.
type TestRevenueAnalysis struct {
    TestID       int64   `json:"TestID"`
    TestName     string  `json:"TestName"`
    TestCategory string  `json:"TestCategory"`
    TestCount    int     `json:"TestCount"`
    TotalRevenue float64 `json:"TotalRevenue"`
}

// LocationRevenue is the revenue summary grouped by patient city.
type LocationRevenue struct {
    City         string  `json:"City"`
    TestCount    int     `json:"TestCount"`
    TotalRevenue float64 `json:"TotalRevenue"`
}
