package repositories

import (
	"context"
	"errors"
	"testing"

	"nightcity/internal/utils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPricingFindCovering(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM pricing").
		WithArgs(int64(3), day(6, 2), day(6, 5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "district_id", "price_per_person", "start_date", "end_date", "description", "default_price"}).
			AddRow(10, 3, []byte("100.00"), day(6, 1), day(6, 10), "summer", []byte("50.00")))

	got, err := PricingRepository{DB: db}.FindCovering(context.Background(), 3, day(6, 2), day(6, 5))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, utils.MoneyFromUnits(100), got[0].PricePerPerson)
	assert.Equal(t, utils.MoneyFromUnits(50), got[0].DefaultPrice)
	assert.Equal(t, "summer", got[0].Description)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPricingFindCoveringQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cause := errors.New("connection reset")
	mock.ExpectQuery("FROM pricing").WillReturnError(cause)

	_, err = PricingRepository{DB: db}.FindCovering(context.Background(), 3, day(6, 2), day(6, 5))
	assert.ErrorIs(t, err, cause)
}

func TestPricingFindDefaultPrice(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT default_price").WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"default_price"}).AddRow([]byte("50.00")))
	mock.ExpectQuery("SELECT default_price").WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"default_price"}))

	repo := PricingRepository{DB: db}

	price, found, err := repo.FindDefaultPrice(context.Background(), 3)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, utils.MoneyFromUnits(50), price)

	price, found, err = repo.FindDefaultPrice(context.Background(), 4)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Zero(t, price)
	require.NoError(t, mock.ExpectationsWereMet())
}
