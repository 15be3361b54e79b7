package models

import "time"

// DefaultSecurityLevel is assigned to every self-registered account.
const DefaultSecurityLevel = -1

type User struct {
	ID            int64     `json:"id"`
	FullName      string    `json:"full_name"`
	Email         string    `json:"email"`
	PhoneNumber   string    `json:"phone_number"`
	Country       string    `json:"country"`
	DateOfBirth   time.Time `json:"date_of_birth"`
	PasswordHash  string    `json:"-"` // never sent to clients
	SecurityLevel int       `json:"security_level"`
}

type PublicUser struct {
	ID            int64  `json:"id"`
	FullName      string `json:"full_name"`
	Email         string `json:"email"`
	PhoneNumber   string `json:"phone_number"`
	Country       string `json:"country"`
	DateOfBirth   string `json:"date_of_birth"`
	SecurityLevel int    `json:"security_level"`
}

func (u *User) ToPublic() PublicUser {
	return PublicUser{
		ID:            u.ID,
		FullName:      u.FullName,
		Email:         u.Email,
		PhoneNumber:   u.PhoneNumber,
		Country:       u.Country,
		DateOfBirth:   u.DateOfBirth.UTC().Format("2006-01-02"),
		SecurityLevel: u.SecurityLevel,
	}
}

// Profile is a user with their bookings split around "now".
type Profile struct {
	User     PublicUser `json:"user"`
	Upcoming []Booking  `json:"upcoming_bookings"`
	Past     []Booking  `json:"past_bookings"`
}
