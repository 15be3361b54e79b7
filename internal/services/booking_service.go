package services

import (
	"context"
	"errors"
	"time"

	"nightcity/internal/domain"
	"nightcity/internal/domain/models"
	"nightcity/internal/metrics"
	"nightcity/internal/repositories"
	"nightcity/internal/utils"

	"go.uber.org/zap"
)

// BookingInserter persists a new booking and assigns its id.
type BookingInserter interface {
	Insert(ctx context.Context, b *models.Booking) error
}

type BookingStore interface {
	BookingInserter
	GetByID(ctx context.Context, id int64) (models.Booking, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Booking, error)
	ListAll(ctx context.Context) ([]models.Booking, error)
}

// BookingWriter assembles the final booking record and stores it.
type BookingWriter struct {
	Store     BookingInserter
	Now       domain.Clock
	RequestID string
}

func (w BookingWriter) now() time.Time {
	if w.Now != nil {
		return w.Now().UTC()
	}
	return utils.NowUTC()
}

// Create stores a Confirmed booking whose total is travelers × pricePerTraveler.
func (w BookingWriter) Create(ctx context.Context, userID, districtID int64, tripStart, tripEnd time.Time, travelers int, pricePerTraveler utils.Money) (models.Booking, error) {
	b := models.Booking{
		UserID:            userID,
		DistrictID:        districtID,
		BookingDate:       w.now(),
		TripStartDate:     tripStart,
		TripEndDate:       tripEnd,
		NumberOfTravelers: travelers,
		Status:            models.BookingConfirmed,
		TotalPrice:        pricePerTraveler.Times(travelers),
	}
	if err := w.Store.Insert(ctx, &b); err != nil {
		utils.LogError(w.RequestID, "booking", "insert", "booking insert failed", err,
			zap.Int64("user_id", userID), zap.Int64("district_id", districtID))
		return models.Booking{}, domain.PersistenceError{Op: "create booking", Err: err}
	}
	return b, nil
}

type BookingService struct {
	Bookings  BookingStore
	Pricing   PricingStore
	Now       domain.Clock
	RequestID string
}

func (s BookingService) resolver() PriceResolver {
	return PriceResolver{Store: s.Pricing, RequestID: s.RequestID}
}

func (s BookingService) writer() BookingWriter {
	return BookingWriter{Store: s.Bookings, Now: s.Now, RequestID: s.RequestID}
}

// CreatePricedBooking validates the trip, resolves the price and stores the
// booking for the caller. Identical calls create separate bookings.
func (s BookingService) CreatePricedBooking(ctx context.Context, caller domain.Identity, districtID int64, tripStart, tripEnd time.Time, travelers int) (models.Booking, error) {
	if caller.UserID <= 0 {
		return models.Booking{}, domain.UnauthenticatedError{}
	}
	tripStart, tripEnd = calendarDay(tripStart), calendarDay(tripEnd)

	if err := ValidateTrip(tripStart, tripEnd, travelers); err != nil {
		metrics.RecordBooking(metrics.OutcomeRejected)
		return models.Booking{}, err
	}

	price, err := s.resolver().Resolve(ctx, districtID, tripStart, tripEnd)
	if err != nil {
		metrics.RecordBooking(outcomeFor(err))
		return models.Booking{}, err
	}

	b, err := s.writer().Create(ctx, caller.UserID, districtID, tripStart, tripEnd, travelers, price)
	if err != nil {
		metrics.RecordBooking(metrics.OutcomeFailed)
		return models.Booking{}, err
	}

	metrics.RecordBooking(metrics.OutcomeCreated)
	utils.LogEvent(s.RequestID, "booking", "create", "booking created",
		zap.Int64("booking_id", b.ID),
		zap.Int64("user_id", b.UserID),
		zap.Int64("district_id", b.DistrictID),
		zap.String("total_price", b.TotalPrice.String()),
	)
	return b, nil
}

// Quote prices a trip without storing anything.
func (s BookingService) Quote(ctx context.Context, districtID int64, tripStart, tripEnd time.Time, travelers int) (models.Quote, error) {
	tripStart, tripEnd = calendarDay(tripStart), calendarDay(tripEnd)
	if err := ValidateTrip(tripStart, tripEnd, travelers); err != nil {
		return models.Quote{}, err
	}
	price, err := s.resolver().Resolve(ctx, districtID, tripStart, tripEnd)
	if err != nil {
		return models.Quote{}, err
	}
	return models.Quote{
		DistrictID:        districtID,
		PricePerTraveler:  price,
		NumberOfTravelers: travelers,
		TotalPrice:        price.Times(travelers),
	}, nil
}

func (s BookingService) ListUserBookings(ctx context.Context, userID int64) ([]models.Booking, error) {
	out, err := s.Bookings.ListByUser(ctx, userID)
	if err != nil {
		return nil, domain.PersistenceError{Op: "list bookings", Err: err}
	}
	return out, nil
}

// ListAllBookings is restricted to administrators.
func (s BookingService) ListAllBookings(ctx context.Context, caller domain.Identity) ([]models.Booking, error) {
	if !caller.IsAdmin() {
		return nil, domain.ForbiddenError{Msg: "administrator access required"}
	}
	out, err := s.Bookings.ListAll(ctx)
	if err != nil {
		return nil, domain.PersistenceError{Op: "list bookings", Err: err}
	}
	return out, nil
}

// GetBooking returns a booking the caller owns, or any booking for administrators.
func (s BookingService) GetBooking(ctx context.Context, caller domain.Identity, id int64) (models.Booking, error) {
	b, err := s.Bookings.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return models.Booking{}, domain.NotFoundError{Resource: "booking", Err: err}
	}
	if err != nil {
		return models.Booking{}, domain.PersistenceError{Op: "get booking", Err: err}
	}
	if !caller.CanAccess(b.UserID) {
		return models.Booking{}, domain.ForbiddenError{Msg: "booking belongs to another user"}
	}
	return b, nil
}

func outcomeFor(err error) string {
	switch {
	case domain.IsValidation(err):
		return metrics.OutcomeRejected
	case domain.IsNoPricing(err):
		return metrics.OutcomeNoPricing
	default:
		return metrics.OutcomeFailed
	}
}

// calendarDay drops the time of day, in UTC.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
