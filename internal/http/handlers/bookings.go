package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type bookingRequest struct {
	DistrictID        int64  `json:"district_id" binding:"required"`
	TripStartDate     string `json:"trip_start_date" binding:"required"`
	TripEndDate       string `json:"trip_end_date" binding:"required"`
	NumberOfTravelers int    `json:"number_of_travelers"`
}

type tripInput struct {
	districtID int64
	start      time.Time
	end        time.Time
	travelers  int
}

func bindTrip(c *gin.Context) (tripInput, bool) {
	var req bookingRequest
	if !BindJSONOrError(c, &req) {
		return tripInput{}, false
	}
	start, ok := parseDateField(c, "trip_start_date", req.TripStartDate)
	if !ok {
		return tripInput{}, false
	}
	end, ok := parseDateField(c, "trip_end_date", req.TripEndDate)
	if !ok {
		return tripInput{}, false
	}
	return tripInput{
		districtID: req.DistrictID,
		start:      start,
		end:        end,
		travelers:  req.NumberOfTravelers,
	}, true
}

// POST /api/bookings/quote
func (h Handler) QuoteBooking(c *gin.Context) {
	in, ok := bindTrip(c)
	if !ok {
		return
	}
	q, err := h.bookingService(c).Quote(c.Request.Context(), in.districtID, in.start, in.end, in.travelers)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

// POST /api/bookings
func (h Handler) CreateBooking(c *gin.Context) {
	caller, ok := callerIdentity(c)
	if !ok {
		return
	}
	in, ok := bindTrip(c)
	if !ok {
		return
	}
	b, err := h.bookingService(c).CreatePricedBooking(c.Request.Context(), caller, in.districtID, in.start, in.end, in.travelers)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// GET /api/bookings/mine
func (h Handler) MyBookings(c *gin.Context) {
	caller, ok := callerIdentity(c)
	if !ok {
		return
	}
	list, err := h.bookingService(c).ListUserBookings(c.Request.Context(), caller.UserID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list})
}

// GET /api/bookings
func (h Handler) AllBookings(c *gin.Context) {
	caller, ok := callerIdentity(c)
	if !ok {
		return
	}
	list, err := h.bookingService(c).ListAllBookings(c.Request.Context(), caller)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list})
}

// GET /api/bookings/:id/receipt
func (h Handler) BookingReceipt(c *gin.Context) {
	caller, ok := callerIdentity(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	pdf, filename, err := h.receiptService(c).Receipt(c.Request.Context(), caller, id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
