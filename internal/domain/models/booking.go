package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"nightcity/internal/utils"
)

// BookingStatus is stored as its ordinal; the order must never change.
type BookingStatus int

const (
	BookingConfirmed BookingStatus = iota
	BookingBookedIn
	BookingCompleted
	BookingCancelled
)

var bookingStatusNames = [...]string{
	BookingConfirmed: "Confirmed",
	BookingBookedIn:  "BookedIn",
	BookingCompleted: "Completed",
	BookingCancelled: "Cancelled",
}

func (s BookingStatus) Valid() bool {
	return s >= BookingConfirmed && s <= BookingCancelled
}

func (s BookingStatus) String() string {
	if !s.Valid() {
		return fmt.Sprintf("BookingStatus(%d)", int(s))
	}
	return bookingStatusNames[s]
}

// Ordinal is the value written to the status column.
func (s BookingStatus) Ordinal() int { return int(s) }

// BookingStatusFromOrdinal maps a stored value back to the closed set.
func BookingStatusFromOrdinal(v int) (BookingStatus, error) {
	s := BookingStatus(v)
	if !s.Valid() {
		return 0, fmt.Errorf("unknown booking status %d", v)
	}
	return s, nil
}

// ParseBookingStatus accepts the status name, case-insensitively.
func ParseBookingStatus(name string) (BookingStatus, error) {
	for i, n := range bookingStatusNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return BookingStatus(i), nil
		}
	}
	return 0, fmt.Errorf("unknown booking status %q", name)
}

func (s BookingStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *BookingStatus) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return err
	}
	parsed, err := ParseBookingStatus(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Booking is a confirmed reservation of a district for a date range.
type Booking struct {
	ID                int64         `json:"id"`
	UserID            int64         `json:"user_id"`
	DistrictID        int64         `json:"district_id"`
	DistrictName      string        `json:"district_name,omitempty"`
	BookingDate       time.Time     `json:"booking_date"`
	TripStartDate     time.Time     `json:"-"`
	TripEndDate       time.Time     `json:"-"`
	NumberOfTravelers int           `json:"number_of_travelers"`
	Status            BookingStatus `json:"status"`
	TotalPrice        utils.Money   `json:"total_price"`
}

// MarshalJSON renders trip dates as calendar dates.
func (b Booking) MarshalJSON() ([]byte, error) {
	type plain Booking
	return json.Marshal(struct {
		plain
		TripStartDate string `json:"trip_start_date"`
		TripEndDate   string `json:"trip_end_date"`
	}{
		plain:         plain(b),
		TripStartDate: utils.FormatDate(b.TripStartDate),
		TripEndDate:   utils.FormatDate(b.TripEndDate),
	})
}

// Nights is the number of nights between trip start and end.
func (b Booking) Nights() int {
	return int(b.TripEndDate.Sub(b.TripStartDate).Hours() / 24)
}
