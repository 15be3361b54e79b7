package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	intdb "nightcity/internal/db"
	"nightcity/internal/domain/models"
)

type BookingRepository struct {
	DB *sql.DB
}

const bookingColumns = `
	b.id, b.user_id, b.district_id, COALESCE(d.district_name, ''),
	b.booking_date, b.trip_start_date, b.trip_end_date,
	b.number_of_travelers, b.status, b.total_price`

// Insert stores a booking in a single transaction and sets its ID.
func (r BookingRepository) Insert(ctx context.Context, b *models.Booking) error {
	if b == nil {
		return fmt.Errorf("insert booking: nil booking")
	}
	var id int64
	err := intdb.WithinTx(ctx, r.DB, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO bookings (
				user_id, district_id, booking_date,
				trip_start_date, trip_end_date,
				number_of_travelers, status, total_price
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`,
			b.UserID, b.DistrictID, b.BookingDate,
			b.TripStartDate, b.TripEndDate,
			b.NumberOfTravelers, b.Status.Ordinal(), b.TotalPrice,
		)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	b.ID = id
	return nil
}

func (r BookingRepository) GetByID(ctx context.Context, id int64) (models.Booking, error) {
	if id <= 0 {
		return models.Booking{}, ErrNotFound
	}
	row := r.DB.QueryRowContext(ctx, `
		SELECT`+bookingColumns+`
		FROM bookings b
		LEFT JOIN districts d ON d.id = b.district_id
		WHERE b.id = ?
		LIMIT 1
	`, id)
	b, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Booking{}, ErrNotFound
	}
	if err != nil {
		return models.Booking{}, fmt.Errorf("get booking: %w", err)
	}
	return b, nil
}

// ListByUser returns the user's bookings ordered by trip start.
func (r BookingRepository) ListByUser(ctx context.Context, userID int64) ([]models.Booking, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT`+bookingColumns+`
		FROM bookings b
		LEFT JOIN districts d ON d.id = b.district_id
		WHERE b.user_id = ?
		ORDER BY b.trip_start_date ASC, b.id ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list user bookings: %w", err)
	}
	return collectBookings(rows)
}

// ListAll returns every booking, newest first.
func (r BookingRepository) ListAll(ctx context.Context) ([]models.Booking, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT`+bookingColumns+`
		FROM bookings b
		LEFT JOIN districts d ON d.id = b.district_id
		ORDER BY b.booking_date DESC, b.id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return collectBookings(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (models.Booking, error) {
	var (
		b      models.Booking
		status int
	)
	if err := row.Scan(
		&b.ID,
		&b.UserID,
		&b.DistrictID,
		&b.DistrictName,
		&b.BookingDate,
		&b.TripStartDate,
		&b.TripEndDate,
		&b.NumberOfTravelers,
		&status,
		&b.TotalPrice,
	); err != nil {
		return models.Booking{}, err
	}
	s, err := models.BookingStatusFromOrdinal(status)
	if err != nil {
		return models.Booking{}, err
	}
	b.Status = s
	return b, nil
}

func collectBookings(rows *sql.Rows) ([]models.Booking, error) {
	defer rows.Close()
	out := []models.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}
	return out, nil
}
