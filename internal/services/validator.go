package services

import (
	"time"

	"nightcity/internal/domain"
)

const (
	MinTravelers = 1
	MaxTravelers = 10
)

// ValidateTrip checks the booking input before any pricing or storage work.
// Date order is reported first when both checks fail.
func ValidateTrip(tripStart, tripEnd time.Time, travelers int) error {
	if !tripStart.Before(tripEnd) {
		return domain.DateOrderError{Start: tripStart, End: tripEnd}
	}
	if travelers < MinTravelers || travelers > MaxTravelers {
		return domain.TravelerCountError{Count: travelers, Min: MinTravelers, Max: MaxTravelers}
	}
	return nil
}
