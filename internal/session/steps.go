package session

import (
	"context"
	"errors"
	"fmt"

	"booking-assistant/internal/ledger"
	"booking-assistant/internal/models"
	"booking-assistant/internal/monitoring"
	"booking-assistant/internal/payment"
	"booking-assistant/internal/pricing"
	"booking-assistant/internal/utils"
)

func (s *Session) Experiences() []models.Experience {
	return s.catalog.Experiences()
}

func (s *Session) Dates() []string {
	return s.catalog.NextDays(7)
}

// Slots lists the time slots for the chosen date. Valid once a date has
// been picked.
func (s *Session) Slots() ([]models.TimeSlot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft.Date == "" {
		return nil, ErrInvalidTransition
	}
	return s.catalog.TimeSlots(s.draft.Date), nil
}

func (s *Session) ChooseExperience(id string) (Reply, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StatePickingExperience {
		return Reply{}, ErrInvalidTransition
	}
	exp, ok := s.catalog.ExperienceByID(id)
	if !ok {
		return Reply{}, ErrUnknownExperience
	}

	s.draft.Experience = &exp
	s.state = StatePickingDate
	s.log.LogSession(string(s.state), "experience chosen: "+exp.Name)
	return Reply{
		Message:      fmt.Sprintf("Great choice! When would you like to visit the %s?", exp.Name),
		QuickReplies: s.catalog.NextDays(4),
		State:        s.state,
	}, nil
}

func (s *Session) ChooseDate(date string) (Reply, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StatePickingDate {
		return Reply{}, ErrInvalidTransition
	}
	offered := false
	for _, d := range s.catalog.NextDays(7) {
		if d == date {
			offered = true
			break
		}
	}
	if !offered {
		return Reply{}, ErrUnknownDate
	}

	s.draft.Date = date
	s.state = StatePickingTime
	s.log.LogSession(string(s.state), "date chosen: "+date)
	return Reply{
		Message: fmt.Sprintf("Here are the available times for %s. Slots marked as fully booked can't be selected.", date),
		State:   s.state,
	}, nil
}

// ChooseSlot picks a time slot. A slot with no remaining availability is
// not selectable.
func (s *Session) ChooseSlot(slotID string) (Reply, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StatePickingTime {
		return Reply{}, ErrInvalidTransition
	}
	slot, ok := s.catalog.SlotByID(s.draft.Date, slotID)
	if !ok {
		return Reply{}, ErrUnknownSlot
	}
	if slot.Available == 0 {
		return Reply{}, ErrSlotFull
	}

	s.draft.Slot = &slot
	if s.draft.Tickets < 1 || s.draft.Tickets > slot.Available {
		s.draft.Tickets = 1
	}
	s.state = StatePickingTickets
	s.log.LogSession(string(s.state), "slot chosen: "+slot.ID)
	return Reply{
		Message: fmt.Sprintf("The %s slot has %d spots left. How many tickets would you like? (1-%d)",
			slot.Time, slot.Available, slot.Available),
		State: s.state,
	}, nil
}

// SetTickets sets the ticket count, bounded by the slot's remaining
// availability.
func (s *Session) SetTickets(n int) (Reply, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StatePickingTickets {
		return Reply{}, ErrInvalidTransition
	}
	if n < 1 || n > s.draft.Slot.Available {
		return Reply{}, ErrTicketCount
	}

	s.draft.Tickets = n
	quote := s.quote()
	return Reply{
		Message: fmt.Sprintf("%d ticket%s at $%s each comes to $%s. Ready to continue?",
			n, plural(n), quote.UnitPrice.StringFixed(2), quote.DisplaySubtotal()),
		QuickReplies: []string{"Continue", "Change Tickets", "Start Over"},
		State:        s.state,
	}, nil
}

// ConfirmTickets locks the ticket count in and moves on to visitor details.
func (s *Session) ConfirmTickets() (Reply, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StatePickingTickets {
		return Reply{}, ErrInvalidTransition
	}

	s.state = StateCollectingVisitor
	s.log.LogSession(string(s.state), fmt.Sprintf("%d tickets confirmed", s.draft.Tickets))
	return Reply{
		Message: fmt.Sprintf("Almost there! Please provide details for the primary visitor (%d ticket%s).",
			s.draft.Tickets, plural(s.draft.Tickets)),
		State: s.state,
	}, nil
}

// SubmitVisitorDetails validates the visitor fields. On failure the
// machine stays put and the reply carries per-field reasons; on success it
// advances to the payment step.
func (s *Session) SubmitVisitorDetails(v models.VisitorDetails) (Reply, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateCollectingVisitor {
		return Reply{}, ErrInvalidTransition
	}
	if fields := ValidateVisitorDetails(v); len(fields) > 0 {
		return Reply{
			Message:     "Some details need another look before we can continue.",
			FieldErrors: fields,
			State:       s.state,
		}, &ValidationError{Fields: fields}
	}

	s.draft.Visitor = &v
	s.state = StateAwaitingPayment
	quote := s.quote()
	s.log.LogSession(string(s.state), "visitor details collected")
	return Reply{
		Message: fmt.Sprintf("Great! I've collected all your details. You're booking %d ticket%s for %s on %s. "+
			"The total is $%s. Let's proceed to payment.",
			s.draft.Tickets, plural(s.draft.Tickets), s.draft.Experience.Name, s.draft.Date, quote.DisplayTotal()),
		QuickReplies: []string{"Proceed to Payment", "Review Details", "Start Over"},
		State:        s.state,
	}, nil
}

// Quote returns the price breakdown for the current draft. Valid once a
// slot and ticket count are set.
func (s *Session) Quote() (pricing.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft.Slot == nil || s.draft.Tickets < 1 {
		return pricing.Quote{}, ErrInvalidTransition
	}
	return s.quote(), nil
}

func (s *Session) quote() pricing.Quote {
	return pricing.NewQuote(s.draft.Slot.Price, s.draft.Tickets)
}

// SubmitPayment validates the card fields, runs the simulated charge and,
// on success, records the booking in the ledger and issues the ticket.
// Nothing reaches the ledger before the processor reports success. While a
// charge is in flight a second submission is rejected.
func (s *Session) SubmitPayment(ctx context.Context, card models.CardDetails) (Reply, error) {
	s.mu.Lock()
	if s.state != StateAwaitingPayment {
		s.mu.Unlock()
		return Reply{}, ErrInvalidTransition
	}
	if s.processing {
		s.mu.Unlock()
		return Reply{}, ErrPaymentInFlight
	}
	if fields := ValidateCardDetails(card); len(fields) > 0 {
		reply := Reply{
			Message:     "Some payment details need another look.",
			FieldErrors: fields,
			State:       s.state,
		}
		s.mu.Unlock()
		return reply, &ValidationError{Fields: fields}
	}

	// Snapshot the draft before releasing the lock: the charge settles
	// outside the critical section and must not observe later mutations.
	quote := s.quote()
	draft := s.draft
	experience := *draft.Experience
	slot := *draft.Slot
	visitor := *draft.Visitor
	s.processing = true
	s.mu.Unlock()

	result, err := s.processor.Charge(ctx, card, quote.ChargeAmount())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.processing = false

	if s.state != StateAwaitingPayment {
		return Reply{}, ErrInvalidTransition
	}

	if errors.Is(err, payment.ErrDeclined) {
		s.log.LogSession(string(s.state), "payment declined")
		return Reply{
			Message: "Your card was declined. Please check the details or try a different card.",
			State:   s.state,
		}, err
	}
	if err != nil {
		return Reply{}, err
	}

	booking := models.Booking{
		ID:             utils.GenerateBookingID(),
		TicketID:       utils.GenerateTicketID(),
		Experience:     experience,
		Date:           draft.Date,
		Time:           slot,
		Tickets:        draft.Tickets,
		VisitorDetails: visitor,
		PaymentData:    result,
		QRCode:         utils.GenerateQRToken(),
		CreatedAt:      s.now(),
	}

	entry, err := s.ledger.Record(booking)
	if err != nil {
		return Reply{}, fmt.Errorf("record booking: %w", err)
	}

	monitoring.BookingsIssued.Inc()
	monitoring.ChargedAmount.Observe(result.Amount)
	if pubErr := s.events.PublishBookingCreated(entry); pubErr != nil {
		s.log.Error("KAFKA", "publish booking created: "+pubErr.Error())
	}

	s.draft = Draft{}
	s.state = StateTicketIssued
	s.log.LogSession(string(s.state), "ticket issued: "+entry.TicketID)
	return Reply{
		Message: fmt.Sprintf("Perfect! Your booking is confirmed and saved. Your digital ticket with QR code is ready. "+
			"Transaction ID: %s", result.TransactionID),
		QuickReplies: []string{"Download Ticket", "Book Another", "View All Tickets"},
		State:        s.state,
		Booking:      entry,
	}, nil
}

// Bookings lists the active ledger entries.
func (s *Session) Bookings() []*models.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.ListActive()
}

// CancelBooking transitions a ledger entry to cancelled and returns the
// machine to idle.
func (s *Session) CancelBooking(bookingID string) (Reply, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.ledger.Cancel(bookingID)
	if errors.Is(err, ledger.ErrNotFound) {
		return Reply{}, err
	}
	if err != nil {
		return Reply{}, fmt.Errorf("cancel booking: %w", err)
	}

	monitoring.BookingsCancelled.Inc()
	if pubErr := s.events.PublishBookingCancelled(b); pubErr != nil {
		s.log.Error("KAFKA", "publish booking cancelled: "+pubErr.Error())
	}

	s.state = StateIdle
	return Reply{
		Message: "Your booking has been cancelled successfully. If you paid online, your refund will be " +
			"processed within 3-5 business days. Is there anything else I can help you with?",
		QuickReplies: []string{"Book New Tickets", "View Remaining Tickets", "Contact Support", "Back to Chat"},
		State:        s.state,
	}, nil
}
