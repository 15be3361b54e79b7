package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"nightcity/internal/domain/models"
)

type DistrictRepository struct {
	DB *sql.DB
}

const districtColumns = `
	id,
	COALESCE(district_name, ''),
	COALESCE(description, ''),
	COALESCE(short_description, ''),
	COALESCE(image_one, ''),
	COALESCE(image_two, ''),
	COALESCE(back_image, ''),
	COALESCE(image_map, ''),
	total_stars,
	total_votes`

// List returns every district ordered by id.
func (r DistrictRepository) List(ctx context.Context) ([]models.District, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT`+districtColumns+` FROM districts ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list districts: %w", err)
	}
	defer rows.Close()

	out := []models.District{}
	for rows.Next() {
		d, err := scanDistrict(rows)
		if err != nil {
			return nil, fmt.Errorf("scan district: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate districts: %w", err)
	}
	return out, nil
}

func (r DistrictRepository) GetByID(ctx context.Context, id int64) (models.District, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT`+districtColumns+` FROM districts WHERE id = ? LIMIT 1`, id)
	d, err := scanDistrict(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.District{}, ErrNotFound
	}
	if err != nil {
		return models.District{}, fmt.Errorf("get district: %w", err)
	}
	return d, nil
}

func scanDistrict(row rowScanner) (models.District, error) {
	var (
		d            models.District
		stars, votes sql.NullInt64
	)
	if err := row.Scan(
		&d.ID,
		&d.Name,
		&d.Description,
		&d.ShortDescription,
		&d.ImageOne,
		&d.ImageTwo,
		&d.BackImage,
		&d.ImageMap,
		&stars,
		&votes,
	); err != nil {
		return models.District{}, err
	}
	if stars.Valid {
		v := int(stars.Int64)
		d.TotalStars = &v
	}
	if votes.Valid {
		v := int(votes.Int64)
		d.TotalVotes = &v
	}
	return d, nil
}
