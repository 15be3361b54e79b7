package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"nightcity/internal/domain"
	"nightcity/internal/domain/models"
	"nightcity/internal/repositories"
	"nightcity/internal/utils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(m time.Month, d int) time.Time {
	return time.Date(2024, m, d, 0, 0, 0, 0, time.UTC)
}

type fakePricing struct {
	rows       []models.Pricing
	def        utils.Money
	hasDefault bool
	err        error
	defaultErr error
	calls      int
}

func (f *fakePricing) FindCovering(_ context.Context, districtID int64, tripStart, tripEnd time.Time) ([]models.Pricing, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Pricing
	for _, p := range f.rows {
		if p.DistrictID == districtID && p.Covers(tripStart, tripEnd) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePricing) FindDefaultPrice(context.Context, int64) (utils.Money, bool, error) {
	return f.def, f.hasDefault, f.defaultErr
}

type fakeBookings struct {
	stored []models.Booking
	err    error
	nextID int64
}

func (f *fakeBookings) Insert(_ context.Context, b *models.Booking) error {
	if f.err != nil {
		return f.err
	}
	f.nextID++
	b.ID = f.nextID
	f.stored = append(f.stored, *b)
	return nil
}

func (f *fakeBookings) GetByID(_ context.Context, id int64) (models.Booking, error) {
	for _, b := range f.stored {
		if b.ID == id {
			return b, nil
		}
	}
	return models.Booking{}, repositories.ErrNotFound
}

func (f *fakeBookings) ListByUser(_ context.Context, userID int64) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range f.stored {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookings) ListAll(context.Context) ([]models.Booking, error) {
	return f.stored, nil
}

func summerPricing() *fakePricing {
	return &fakePricing{
		rows: []models.Pricing{{
			ID:             1,
			DistrictID:     3,
			PricePerPerson: utils.MoneyFromUnits(100),
			StartDate:      date(6, 1),
			EndDate:        date(6, 10),
			DefaultPrice:   utils.MoneyFromUnits(50),
		}},
		def:        utils.MoneyFromUnits(50),
		hasDefault: true,
	}
}

var fixedNow = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func TestValidateTrip(t *testing.T) {
	cases := []struct {
		name      string
		start     time.Time
		end       time.Time
		travelers int
		check     func(error) bool
	}{
		{"same day", date(6, 5), date(6, 5), 2, domain.IsDateOrder},
		{"end before start", date(6, 5), date(6, 2), 2, domain.IsDateOrder},
		{"order wins over count", date(6, 5), date(6, 2), 0, domain.IsDateOrder},
		{"zero travelers", date(6, 2), date(6, 5), 0, domain.IsTravelerCount},
		{"eleven travelers", date(6, 2), date(6, 5), 11, domain.IsTravelerCount},
		{"negative travelers", date(6, 2), date(6, 5), -1, domain.IsTravelerCount},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateTrip(tc.start, tc.end, tc.travelers)
			require.Error(t, err)
			assert.True(t, tc.check(err), "unexpected error %T", err)
		})
	}

	for n := MinTravelers; n <= MaxTravelers; n++ {
		assert.NoError(t, ValidateTrip(date(6, 2), date(6, 3), n))
	}
}

func TestResolvePrice(t *testing.T) {
	ctx := context.Background()

	t.Run("covering window", func(t *testing.T) {
		price, err := PriceResolver{Store: summerPricing()}.Resolve(ctx, 3, date(6, 2), date(6, 5))
		require.NoError(t, err)
		assert.Equal(t, utils.MoneyFromUnits(100), price)
	})

	t.Run("outside window uses default", func(t *testing.T) {
		price, err := PriceResolver{Store: summerPricing()}.Resolve(ctx, 3, date(7, 1), date(7, 5))
		require.NoError(t, err)
		assert.Equal(t, utils.MoneyFromUnits(50), price)
	})

	t.Run("partially covered trip uses default", func(t *testing.T) {
		price, err := PriceResolver{Store: summerPricing()}.Resolve(ctx, 3, date(6, 8), date(6, 12))
		require.NoError(t, err)
		assert.Equal(t, utils.MoneyFromUnits(50), price)
	})

	t.Run("zero window price falls back", func(t *testing.T) {
		store := summerPricing()
		store.rows[0].PricePerPerson = 0
		price, err := PriceResolver{Store: store}.Resolve(ctx, 3, date(6, 2), date(6, 5))
		require.NoError(t, err)
		assert.Equal(t, utils.MoneyFromUnits(50), price)
	})

	t.Run("nothing available", func(t *testing.T) {
		_, err := PriceResolver{Store: &fakePricing{}}.Resolve(ctx, 3, date(7, 1), date(7, 5))
		assert.True(t, domain.IsNoPricing(err))
	})

	t.Run("zero default is unavailable", func(t *testing.T) {
		store := &fakePricing{hasDefault: true}
		_, err := PriceResolver{Store: store}.Resolve(ctx, 3, date(7, 1), date(7, 5))
		assert.True(t, domain.IsNoPricing(err))
	})

	t.Run("query failure", func(t *testing.T) {
		cause := errors.New("db down")
		_, err := PriceResolver{Store: &fakePricing{err: cause}}.Resolve(ctx, 3, date(6, 2), date(6, 5))
		assert.True(t, domain.IsPersistence(err))
		assert.ErrorIs(t, err, cause)
		assert.NotContains(t, err.Error(), "db down")
	})

	t.Run("default query failure", func(t *testing.T) {
		store := &fakePricing{defaultErr: errors.New("timeout")}
		_, err := PriceResolver{Store: store}.Resolve(ctx, 3, date(7, 1), date(7, 5))
		assert.True(t, domain.IsPersistence(err))
	})
}

func TestPickWindowDeterministic(t *testing.T) {
	rows := []models.Pricing{
		{ID: 9, StartDate: date(6, 1), EndDate: date(6, 30), PricePerPerson: 300},
		{ID: 4, StartDate: date(5, 20), EndDate: date(6, 30), PricePerPerson: 200},
		{ID: 2, StartDate: date(5, 20), EndDate: date(6, 15), PricePerPerson: 100},
		{ID: 1, StartDate: date(6, 3), EndDate: date(6, 30), PricePerPerson: 50},
	}
	got, ok := pickWindow(rows, date(6, 2), date(6, 5))
	require.True(t, ok)
	assert.Equal(t, int64(2), got.ID)

	reversed := []models.Pricing{rows[3], rows[2], rows[1], rows[0]}
	got, ok = pickWindow(reversed, date(6, 2), date(6, 5))
	require.True(t, ok)
	assert.Equal(t, int64(2), got.ID)

	_, ok = pickWindow(rows[3:], date(6, 2), date(6, 5))
	assert.False(t, ok)
}

func TestCreatePricedBooking(t *testing.T) {
	store := &fakeBookings{}
	svc := BookingService{Bookings: store, Pricing: summerPricing(), Now: fixedClock}

	b, err := svc.CreatePricedBooking(context.Background(), domain.Identity{UserID: 7}, 3, date(6, 2), date(6, 5), 2)
	require.NoError(t, err)

	assert.Equal(t, int64(1), b.ID)
	assert.Equal(t, int64(7), b.UserID)
	assert.Equal(t, int64(3), b.DistrictID)
	assert.Equal(t, utils.MoneyFromUnits(200), b.TotalPrice)
	assert.Equal(t, models.BookingConfirmed, b.Status)
	assert.Equal(t, fixedNow, b.BookingDate)
	assert.Equal(t, date(6, 2), b.TripStartDate)
	assert.Equal(t, date(6, 5), b.TripEndDate)
	require.Len(t, store.stored, 1)
}

func TestCreatePricedBookingTwiceCreatesTwo(t *testing.T) {
	store := &fakeBookings{}
	svc := BookingService{Bookings: store, Pricing: summerPricing(), Now: fixedClock}
	caller := domain.Identity{UserID: 7}

	first, err := svc.CreatePricedBooking(context.Background(), caller, 3, date(6, 2), date(6, 5), 2)
	require.NoError(t, err)
	second, err := svc.CreatePricedBooking(context.Background(), caller, 3, date(6, 2), date(6, 5), 2)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Len(t, store.stored, 2)
}

func TestCreatePricedBookingValidatesBeforePricing(t *testing.T) {
	pricing := summerPricing()
	store := &fakeBookings{}
	svc := BookingService{Bookings: store, Pricing: pricing, Now: fixedClock}

	_, err := svc.CreatePricedBooking(context.Background(), domain.Identity{UserID: 7}, 3, date(6, 5), date(6, 2), 2)
	assert.True(t, domain.IsDateOrder(err))
	assert.Zero(t, pricing.calls)
	assert.Empty(t, store.stored)
}

func TestCreatePricedBookingNoPricingStoresNothing(t *testing.T) {
	store := &fakeBookings{}
	svc := BookingService{Bookings: store, Pricing: &fakePricing{}, Now: fixedClock}

	_, err := svc.CreatePricedBooking(context.Background(), domain.Identity{UserID: 7}, 3, date(6, 2), date(6, 5), 2)
	assert.True(t, domain.IsNoPricing(err))
	assert.Empty(t, store.stored)
}

func TestCreatePricedBookingRequiresIdentity(t *testing.T) {
	svc := BookingService{Bookings: &fakeBookings{}, Pricing: summerPricing(), Now: fixedClock}
	_, err := svc.CreatePricedBooking(context.Background(), domain.Identity{}, 3, date(6, 2), date(6, 5), 2)
	assert.True(t, domain.IsUnauthenticated(err))
}

func TestCreatePricedBookingNormalizesToUTCDay(t *testing.T) {
	store := &fakeBookings{}
	svc := BookingService{Bookings: store, Pricing: summerPricing(), Now: fixedClock}
	jakarta := time.FixedZone("WIB", 7*3600)

	b, err := svc.CreatePricedBooking(context.Background(), domain.Identity{UserID: 7}, 3,
		time.Date(2024, 6, 2, 15, 0, 0, 0, time.UTC).In(jakarta),
		time.Date(2024, 6, 5, 1, 0, 0, 0, time.UTC), 1)
	require.NoError(t, err)
	assert.Equal(t, date(6, 2), b.TripStartDate)
	assert.Equal(t, date(6, 5), b.TripEndDate)
}

// Insert failure through the real repository: the transaction is rolled back
// and the caller gets a PersistenceError.
func TestCreatePricedBookingInsertFailureRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO bookings").WillReturnError(errors.New("lock wait timeout"))
	mock.ExpectRollback()

	svc := BookingService{
		Bookings: repositories.BookingRepository{DB: db},
		Pricing:  summerPricing(),
		Now:      fixedClock,
	}
	b, err := svc.CreatePricedBooking(context.Background(), domain.Identity{UserID: 7}, 3, date(6, 2), date(6, 5), 2)
	assert.True(t, domain.IsPersistence(err))
	assert.Zero(t, b.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQuote(t *testing.T) {
	store := &fakeBookings{}
	svc := BookingService{Bookings: store, Pricing: summerPricing()}

	q, err := svc.Quote(context.Background(), 3, date(6, 2), date(6, 5), 3)
	require.NoError(t, err)
	assert.Equal(t, utils.MoneyFromUnits(100), q.PricePerTraveler)
	assert.Equal(t, utils.MoneyFromUnits(300), q.TotalPrice)
	assert.Empty(t, store.stored)

	_, err = svc.Quote(context.Background(), 3, date(6, 2), date(6, 5), 12)
	assert.True(t, domain.IsTravelerCount(err))
}

func TestBookingAccess(t *testing.T) {
	store := &fakeBookings{}
	svc := BookingService{Bookings: store, Pricing: summerPricing(), Now: fixedClock}
	ctx := context.Background()

	b, err := svc.CreatePricedBooking(ctx, domain.Identity{UserID: 7}, 3, date(6, 2), date(6, 5), 2)
	require.NoError(t, err)

	_, err = svc.GetBooking(ctx, domain.Identity{UserID: 8, SecurityLevel: -1}, b.ID)
	assert.True(t, domain.IsForbidden(err))

	got, err := svc.GetBooking(ctx, domain.Identity{UserID: 1, SecurityLevel: 1}, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	_, err = svc.GetBooking(ctx, domain.Identity{UserID: 7}, 99)
	assert.True(t, domain.IsNotFound(err))

	_, err = svc.ListAllBookings(ctx, domain.Identity{UserID: 7, SecurityLevel: 0})
	assert.True(t, domain.IsForbidden(err))

	all, err := svc.ListAllBookings(ctx, domain.Identity{UserID: 1, SecurityLevel: 2})
	require.NoError(t, err)
	assert.Len(t, all, 1)

	mine, err := svc.ListUserBookings(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}
