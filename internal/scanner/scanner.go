// Package scanner validates scanned ticket identifiers against the ledger.
// A scan is valid only when the ticket belongs to an active booking.
package scanner

import (
	"errors"

	"booking-assistant/internal/ledger"
	"booking-assistant/internal/models"
)

var (
	ErrUnknownTicket = errors.New("scanner: ticket not found")
	ErrCancelled     = errors.New("scanner: booking has been cancelled")
)

type Scanner struct {
	Ledger *ledger.Ledger
}

func New(led *ledger.Ledger) *Scanner {
	return &Scanner{Ledger: led}
}

// Validate resolves a scanned ticket id. Unknown ids and cancelled
// bookings are both rejected, with distinct errors.
func (s *Scanner) Validate(ticketID string) (*models.Booking, error) {
	b, ok := s.Ledger.FindByTicketID(ticketID)
	if !ok {
		return nil, ErrUnknownTicket
	}
	if b.Status == models.StatusCancelled {
		return nil, ErrCancelled
	}
	return b, nil
}
