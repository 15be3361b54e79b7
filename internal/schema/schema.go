package schema

import (
	"database/sql"
	"fmt"
	"time"

	"nightcity/internal/utils"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// User mirrors the users table.
type User struct {
	ID            int64     `gorm:"primaryKey;autoIncrement"`
	FullName      string    `gorm:"size:100;not null"`
	Email         string    `gorm:"size:100;not null;uniqueIndex"`
	PhoneNumber   string    `gorm:"size:20;not null"`
	Country       string    `gorm:"size:50;not null"`
	DateOfBirth   time.Time `gorm:"type:date;not null"`
	PasswordHash  string    `gorm:"size:100;not null"`
	SecurityLevel int       `gorm:"not null;default:-1;check:chk_users_security_level,security_level >= -1"`
}

func (User) TableName() string { return "users" }

type District struct {
	ID               int64  `gorm:"primaryKey;autoIncrement"`
	DistrictName     string `gorm:"size:100;not null"`
	Description      string `gorm:"type:text"`
	ShortDescription string `gorm:"size:500"`
	ImageOne         string `gorm:"size:255"`
	ImageTwo         string `gorm:"size:255"`
	BackImage        string `gorm:"size:255"`
	ImageMap         string `gorm:"size:255"`
	TotalStars       *int
	TotalVotes       *int
}

func (District) TableName() string { return "districts" }

// Pricing windows may overlap; the resolver picks between them.
type Pricing struct {
	ID             int64       `gorm:"primaryKey;autoIncrement"`
	DistrictID     int64       `gorm:"not null;index:idx_pricing_window,priority:1"`
	District       *District   `gorm:"foreignKey:DistrictID;constraint:OnDelete:CASCADE"`
	PricePerPerson utils.Money `gorm:"type:decimal(18,2);not null;default:0"`
	StartDate      time.Time   `gorm:"type:date;not null;index:idx_pricing_window,priority:2"`
	EndDate        time.Time   `gorm:"type:date;not null"`
	Description    *string     `gorm:"size:255"`
	DefaultPrice   utils.Money `gorm:"type:decimal(18,2);not null;default:0"`
}

func (Pricing) TableName() string { return "pricing" }

type Booking struct {
	ID                int64       `gorm:"primaryKey;autoIncrement"`
	UserID            int64       `gorm:"not null;index"`
	User              *User       `gorm:"foreignKey:UserID"`
	DistrictID        int64       `gorm:"not null;index"`
	District          *District   `gorm:"foreignKey:DistrictID"`
	BookingDate       time.Time   `gorm:"not null"`
	TripStartDate     time.Time   `gorm:"type:date;not null"`
	TripEndDate       time.Time   `gorm:"type:date;not null"`
	NumberOfTravelers int         `gorm:"not null;check:chk_bookings_travelers,number_of_travelers BETWEEN 1 AND 10"`
	Status            int         `gorm:"not null;default:0;check:chk_bookings_status,status BETWEEN 0 AND 3"`
	TotalPrice        utils.Money `gorm:"type:decimal(18,2);not null;check:chk_bookings_total,total_price >= 0"`
}

func (Booking) TableName() string { return "bookings" }

// Models lists every table in creation order.
func Models() []any {
	return []any{&User{}, &District{}, &Pricing{}, &Booking{}}
}

// OpenMySQL wraps an existing connection pool in GORM.
func OpenMySQL(conn *sql.DB) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.New(mysql.Config{Conn: conn}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open gorm: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the tables, indexes and checks.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
