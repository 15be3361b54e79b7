package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"nightcity/internal/domain/models"
	"nightcity/internal/utils"
)

type PricingRepository struct {
	DB *sql.DB
}

// FindCovering returns the district's pricing windows that contain the whole trip,
// earliest window first.
func (r PricingRepository) FindCovering(ctx context.Context, districtID int64, tripStart, tripEnd time.Time) ([]models.Pricing, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, district_id, price_per_person, start_date, end_date,
		       COALESCE(description, ''), default_price
		FROM pricing
		WHERE district_id = ?
		  AND start_date <= ?
		  AND end_date >= ?
		ORDER BY start_date ASC, id ASC
	`, districtID, tripStart, tripEnd)
	if err != nil {
		return nil, fmt.Errorf("query covering pricing: %w", err)
	}
	defer rows.Close()

	out := []models.Pricing{}
	for rows.Next() {
		var p models.Pricing
		if err := rows.Scan(
			&p.ID,
			&p.DistrictID,
			&p.PricePerPerson,
			&p.StartDate,
			&p.EndDate,
			&p.Description,
			&p.DefaultPrice,
		); err != nil {
			return nil, fmt.Errorf("scan pricing: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pricing: %w", err)
	}
	return out, nil
}

// FindDefaultPrice reads the district default from its first pricing row.
// found is false when the district has no pricing rows at all.
func (r PricingRepository) FindDefaultPrice(ctx context.Context, districtID int64) (price utils.Money, found bool, err error) {
	err = r.DB.QueryRowContext(ctx, `
		SELECT default_price
		FROM pricing
		WHERE district_id = ?
		ORDER BY id ASC
		LIMIT 1
	`, districtID).Scan(&price)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("query default price: %w", err)
	}
	return price, true, nil
}
