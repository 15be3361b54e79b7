package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"nightcity/internal/domain"
	"nightcity/internal/domain/models"
	"nightcity/internal/utils"

	"github.com/phpdave11/gofpdf"
	"go.uber.org/zap"
)

// ReceiptService renders a one-page PDF receipt for a booking.
type ReceiptService struct {
	Bookings BookingService
	Now      domain.Clock
	// Loader replaces the booking lookup in tests.
	Loader    func(ctx context.Context, caller domain.Identity, id int64) (models.Booking, error)
	RequestID string
}

// Receipt returns the PDF bytes and a download file name.
func (s ReceiptService) Receipt(ctx context.Context, caller domain.Identity, bookingID int64) ([]byte, string, error) {
	load := s.Loader
	if load == nil {
		load = s.Bookings.GetBooking
	}
	b, err := load(ctx, caller, bookingID)
	if err != nil {
		return nil, "", err
	}

	issued := utils.NowUTC()
	if s.Now != nil {
		issued = s.Now().UTC()
	}
	pdf, name, err := buildReceiptPDF(b, issued)
	if err != nil {
		return nil, "", domain.InternalError{Msg: "failed to render receipt", Err: err}
	}
	utils.LogEvent(s.RequestID, "receipt", "generate", "receipt rendered", zap.Int64("booking_id", bookingID))
	return pdf, name, nil
}

func buildReceiptPDF(b models.Booking, issued time.Time) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Booking Receipt", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "NIGHT CITY TOURS - RECEIPT")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, "Receipt No : "+receiptNumber(b.ID))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Issued     : "+utils.FormatDateTime(issued)+" UTC")
	pdf.Ln(10)

	perTraveler := utils.Money(0)
	if b.NumberOfTravelers > 0 {
		perTraveler = utils.MoneyFromCents(b.TotalPrice.Cents() / int64(b.NumberOfTravelers))
	}

	lines := []string{
		fmt.Sprintf("Booking    : #%d", b.ID),
		fmt.Sprintf("District   : %s", safe(b.DistrictName, fmt.Sprintf("District %d", b.DistrictID))),
		fmt.Sprintf("Trip       : %s to %s (%d nights)", utils.FormatDate(b.TripStartDate), utils.FormatDate(b.TripEndDate), b.Nights()),
		fmt.Sprintf("Travelers  : %d", b.NumberOfTravelers),
		fmt.Sprintf("Booked on  : %s UTC", utils.FormatDateTime(b.BookingDate)),
		fmt.Sprintf("Status     : %s", b.Status),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.Cell(0, 7, "Price per traveler: "+utils.FormatMoney(perTraveler))
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Total: "+utils.FormatMoney(b.TotalPrice))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "This receipt confirms the reservation only. No payment has been taken.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("RECEIPT_%d_%s.pdf", b.ID, safeFilenamePart(b.DistrictName))
	return buf.Bytes(), filename, nil
}

func receiptNumber(id int64) string {
	return fmt.Sprintf("NC-%06d", id)
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
