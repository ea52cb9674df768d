// Package qr renders the scannable ticket image for an issued booking.
package qr

import (
	"encoding/json"
	"fmt"

	"github.com/skip2/go-qrcode"

	"booking-assistant/internal/models"
)

// Payload is the document encoded into the ticket's QR image.
type Payload struct {
	TicketID   string `json:"ticketId"`
	Experience string `json:"experience"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Visitor    string `json:"visitor"`
	Tickets    int    `json:"tickets"`
}

func PayloadFor(b *models.Booking) Payload {
	return Payload{
		TicketID:   b.TicketID,
		Experience: b.Experience.Name,
		Date:       b.Date,
		Time:       b.Time.Time,
		Visitor:    b.VisitorDetails.FirstName + " " + b.VisitorDetails.LastName,
		Tickets:    b.Tickets,
	}
}

// Encode renders the booking's payload as a 256px PNG.
func Encode(b *models.Booking) ([]byte, error) {
	data, err := json.Marshal(PayloadFor(b))
	if err != nil {
		return nil, fmt.Errorf("encode qr payload: %w", err)
	}
	png, err := qrcode.Encode(string(data), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("render qr: %w", err)
	}
	return png, nil
}
