package handlers

import (
	"database/sql"

	"nightcity/internal/domain"
	"nightcity/internal/http/middleware"
	"nightcity/internal/services"

	"github.com/gin-gonic/gin"
)

// Handler carries the dependencies shared by every route.
type Handler struct {
	DB            *sql.DB
	Tokens        services.TokenService
	Users         services.UserStore
	Bookings      services.BookingStore
	Pricing       services.PricingStore
	Districts     services.DistrictStore
	DistrictCache services.DistrictCache
	StaticRoot    string
	CookieSecure  bool
	Now           domain.Clock
}

func (h Handler) bookingService(c *gin.Context) services.BookingService {
	return services.BookingService{
		Bookings:  h.Bookings,
		Pricing:   h.Pricing,
		Now:       h.Now,
		RequestID: middleware.GetRequestID(c),
	}
}

func (h Handler) authService(c *gin.Context) services.AuthService {
	return services.AuthService{
		Users:     h.Users,
		Tokens:    h.Tokens,
		RequestID: middleware.GetRequestID(c),
	}
}

func (h Handler) profileService() services.ProfileService {
	return services.ProfileService{Users: h.Users, Bookings: h.Bookings, Now: h.Now}
}

func (h Handler) districtService(c *gin.Context) services.DistrictService {
	return services.DistrictService{
		Store:      h.Districts,
		Cache:      h.DistrictCache,
		StaticRoot: h.StaticRoot,
		RequestID:  middleware.GetRequestID(c),
	}
}

func (h Handler) receiptService(c *gin.Context) services.ReceiptService {
	return services.ReceiptService{
		Bookings:  h.bookingService(c),
		Now:       h.Now,
		RequestID: middleware.GetRequestID(c),
	}
}
