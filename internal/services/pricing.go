package services

import (
	"context"
	"sort"
	"time"

	"nightcity/internal/domain"
	"nightcity/internal/domain/models"
	"nightcity/internal/utils"

	"go.uber.org/zap"
)

// PricingStore is the read side of the pricing table.
type PricingStore interface {
	FindCovering(ctx context.Context, districtID int64, tripStart, tripEnd time.Time) ([]models.Pricing, error)
	FindDefaultPrice(ctx context.Context, districtID int64) (utils.Money, bool, error)
}

// PriceResolver picks the per-traveler price for a trip.
type PriceResolver struct {
	Store     PricingStore
	RequestID string
}

// Resolve returns the covering window price, or the district default when no
// window applies or the window price is disabled.
func (r PriceResolver) Resolve(ctx context.Context, districtID int64, tripStart, tripEnd time.Time) (utils.Money, error) {
	rows, err := r.Store.FindCovering(ctx, districtID, tripStart, tripEnd)
	if err != nil {
		utils.LogError(r.RequestID, "pricing", "find_covering", "pricing query failed", err, zap.Int64("district_id", districtID))
		return 0, domain.PersistenceError{Op: "resolve price", Err: err}
	}

	if window, ok := pickWindow(rows, tripStart, tripEnd); ok && isEffectivePrice(window.PricePerPerson) {
		return window.PricePerPerson, nil
	}

	price, found, err := r.Store.FindDefaultPrice(ctx, districtID)
	if err != nil {
		utils.LogError(r.RequestID, "pricing", "find_default", "default price query failed", err, zap.Int64("district_id", districtID))
		return 0, domain.PersistenceError{Op: "resolve price", Err: err}
	}
	if found && isEffectivePrice(price) {
		return price, nil
	}
	return 0, domain.NoPricingAvailableError{DistrictID: districtID}
}

// isEffectivePrice reports whether a stored price applies. A zero price on a
// window means the override is switched off.
func isEffectivePrice(p utils.Money) bool {
	return p.IsPositive()
}

// pickWindow chooses the earliest-starting covering window, lowest id on ties.
// Rows that do not cover the trip are ignored whatever the store returned.
func pickWindow(rows []models.Pricing, tripStart, tripEnd time.Time) (models.Pricing, bool) {
	covering := make([]models.Pricing, 0, len(rows))
	for _, p := range rows {
		if p.Covers(tripStart, tripEnd) {
			covering = append(covering, p)
		}
	}
	if len(covering) == 0 {
		return models.Pricing{}, false
	}
	sort.SliceStable(covering, func(i, j int) bool {
		if !covering[i].StartDate.Equal(covering[j].StartDate) {
			return covering[i].StartDate.Before(covering[j].StartDate)
		}
		return covering[i].ID < covering[j].ID
	})
	return covering[0], true
}
