package services

import (
	"context"
	"errors"

	"nightcity/internal/domain"
	"nightcity/internal/domain/models"
	"nightcity/internal/repositories"
	"nightcity/internal/utils"
)

type ProfileService struct {
	Users    UserStore
	Bookings BookingStore
	Now      domain.Clock
}

// Profile returns the user's public data with bookings split around now.
// Viewers other than the owner need administrator access.
func (s ProfileService) Profile(ctx context.Context, viewer domain.Identity, userID int64) (models.Profile, error) {
	if viewer.UserID <= 0 {
		return models.Profile{}, domain.UnauthenticatedError{}
	}
	if userID <= 0 {
		userID = viewer.UserID
	}
	if !viewer.CanAccess(userID) {
		return models.Profile{}, domain.ForbiddenError{Msg: "cannot view another user's profile"}
	}

	u, err := s.Users.GetByID(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return models.Profile{}, domain.NotFoundError{Resource: "user", Err: err}
	}
	if err != nil {
		return models.Profile{}, domain.PersistenceError{Op: "get profile", Err: err}
	}

	bookings, err := s.Bookings.ListByUser(ctx, userID)
	if err != nil {
		return models.Profile{}, domain.PersistenceError{Op: "get profile", Err: err}
	}

	now := utils.NowUTC()
	if s.Now != nil {
		now = s.Now().UTC()
	}
	out := models.Profile{
		User:     u.ToPublic(),
		Upcoming: []models.Booking{},
		Past:     []models.Booking{},
	}
	for _, b := range bookings {
		if b.TripStartDate.Before(now) {
			out.Past = append(out.Past, b)
		} else {
			out.Upcoming = append(out.Upcoming, b)
		}
	}
	return out, nil
}
