package utils

import (
    "github.com/Mibrahim0941/DB-Project-Schedulify/models"
)

// ComputeLabTestPrice builds the price breakdown for a lab test booking.
// The surcharge is the price-table entry matched on the patient's city,
// zero when the city has no entry.
func ComputeLabTestPrice(basePrice, locationSurcharge float64) models.PriceDetails {
    return models.PriceDetails{
        BasePrice:         basePrice,
        LocationSurcharge: locationSurcharge,
        ActualPrice:       basePrice + locationSurcharge,
    }
}
