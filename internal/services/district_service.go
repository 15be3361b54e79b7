package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"nightcity/internal/domain"
	"nightcity/internal/domain/models"
	"nightcity/internal/metrics"
	"nightcity/internal/repositories"
	"nightcity/internal/utils"
)

type DistrictStore interface {
	List(ctx context.Context) ([]models.District, error)
	GetByID(ctx context.Context, id int64) (models.District, error)
}

// DistrictCache is optional; failures are logged and the store is used instead.
type DistrictCache interface {
	LoadDistricts(ctx context.Context) ([]models.District, bool, error)
	StoreDistricts(ctx context.Context, list []models.District) error
}

type DistrictService struct {
	Store      DistrictStore
	Cache      DistrictCache
	StaticRoot string
	RequestID  string
}

var districtImageNames = []string{"One", "Two"}

// ListDistricts returns every district ordered by id.
func (s DistrictService) ListDistricts(ctx context.Context) ([]models.District, error) {
	if s.Cache != nil {
		list, hit, err := s.Cache.LoadDistricts(ctx)
		switch {
		case err != nil:
			metrics.RecordCache("error")
			utils.LogError(s.RequestID, "district", "cache_load", "district cache unavailable", err)
		case hit:
			metrics.RecordCache("hit")
			return list, nil
		default:
			metrics.RecordCache("miss")
		}
	}

	list, err := s.Store.List(ctx)
	if err != nil {
		return nil, domain.PersistenceError{Op: "list districts", Err: err}
	}

	if s.Cache != nil {
		if err := s.Cache.StoreDistricts(ctx, list); err != nil {
			utils.LogError(s.RequestID, "district", "cache_store", "district cache write failed", err)
		}
	}
	return list, nil
}

// DistrictDetails returns the district with its rating, existing pictures and
// the ids of its neighbours. Paging wraps around at both ends.
func (s DistrictService) DistrictDetails(ctx context.Context, id int64) (models.DistrictDetails, error) {
	d, err := s.Store.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return models.DistrictDetails{}, domain.NotFoundError{Resource: "district", Err: err}
	}
	if err != nil {
		return models.DistrictDetails{}, domain.PersistenceError{Op: "get district", Err: err}
	}

	d.ImageURLs = s.existingImages(d.Name)

	all, err := s.ListDistricts(ctx)
	if err != nil {
		return models.DistrictDetails{}, err
	}
	prev, next := neighbours(all, id)

	out := models.DistrictDetails{District: d, PrevID: prev, NextID: next}
	if r, ok := d.AverageRating(); ok {
		out.Rating = &r
	}
	return out, nil
}

// DistrictImageURL is the public path of a district picture.
func DistrictImageURL(districtName, image string) string {
	return fmt.Sprintf("/Pictures/District/%s/%s_Image_%s.jpg", districtName, utils.StripSpaces(districtName), image)
}

func (s DistrictService) existingImages(name string) []string {
	out := []string{}
	if strings.TrimSpace(name) == "" {
		return out
	}
	for _, img := range districtImageNames {
		url := DistrictImageURL(name, img)
		path := filepath.Join(s.StaticRoot, filepath.FromSlash(strings.TrimPrefix(url, "/")))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			out = append(out, url)
		}
	}
	return out
}

// neighbours finds the previous and next district ids around id in an
// id-ordered list.
func neighbours(list []models.District, id int64) (prev, next int64) {
	idx := -1
	for i, d := range list {
		if d.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 || len(list) == 0 {
		return id, id
	}
	n := len(list)
	return list[(idx-1+n)%n].ID, list[(idx+1)%n].ID
}
