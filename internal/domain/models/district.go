package models

import "math"

// District is a bookable destination.
type District struct {
	ID               int64    `json:"id"`
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	ShortDescription string   `json:"short_description"`
	ImageOne         string   `json:"image_one"`
	ImageTwo         string   `json:"image_two"`
	BackImage        string   `json:"back_image"`
	ImageMap         string   `json:"image_map"`
	TotalStars       *int     `json:"total_stars,omitempty"`
	TotalVotes       *int     `json:"total_votes,omitempty"`
	ImageURLs        []string `json:"image_urls,omitempty"`
}

// AverageRating is stars/votes rounded to two decimals; ok is false without votes.
func (d District) AverageRating() (rating float64, ok bool) {
	if d.TotalVotes == nil || *d.TotalVotes <= 0 {
		return 0, false
	}
	stars := 0
	if d.TotalStars != nil {
		stars = *d.TotalStars
	}
	return math.Round(float64(stars)/float64(*d.TotalVotes)*100) / 100, true
}

// DistrictDetails is a district with its rating and neighbours for paging.
type DistrictDetails struct {
	District
	Rating *float64 `json:"average_rating"`
	PrevID int64    `json:"prev_id"`
	NextID int64    `json:"next_id"`
}
