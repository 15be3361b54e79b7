package models

import (
	"time"

	"nightcity/internal/utils"
)

// Pricing is a per-traveler price for a district over an inclusive date window.
// DefaultPrice is the district fallback, repeated on every row.
type Pricing struct {
	ID             int64
	DistrictID     int64
	PricePerPerson utils.Money
	StartDate      time.Time
	EndDate        time.Time
	Description    string
	DefaultPrice   utils.Money
}

// Covers reports whether the whole trip lies inside the window.
func (p Pricing) Covers(tripStart, tripEnd time.Time) bool {
	return !p.StartDate.After(tripStart) && !p.EndDate.Before(tripEnd)
}

// Quote is a price computed without creating a booking.
type Quote struct {
	DistrictID        int64       `json:"district_id"`
	PricePerTraveler  utils.Money `json:"price_per_traveler"`
	NumberOfTravelers int         `json:"number_of_travelers"`
	TotalPrice        utils.Money `json:"total_price"`
}
