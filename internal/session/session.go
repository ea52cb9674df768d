// Package session drives the conversational booking workflow: one active
// session, one state, one accumulating draft. All mutations go through the
// Session's methods; access is strictly sequential.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"booking-assistant/internal/events"
	"booking-assistant/internal/intent"
	"booking-assistant/internal/ledger"
	"booking-assistant/internal/logger"
	"booking-assistant/internal/models"
	"booking-assistant/internal/monitoring"
	"booking-assistant/internal/payment"
)

type State string

const (
	StateIdle              State = "idle"
	StatePickingExperience State = "picking-experience"
	StatePickingDate       State = "picking-date"
	StatePickingTime       State = "picking-time"
	StatePickingTickets    State = "picking-tickets"
	StateCollectingVisitor State = "collecting-visitor-details"
	StateAwaitingPayment   State = "awaiting-payment"
	StateTicketIssued      State = "ticket-issued"
	StateViewingBookings   State = "viewing-bookings"
)

var (
	ErrInvalidTransition = errors.New("session: operation not valid in current state")
	ErrPaymentInFlight   = errors.New("session: a payment is already being processed")
	ErrUnknownExperience = errors.New("session: unknown experience")
	ErrUnknownDate       = errors.New("session: date not offered")
	ErrUnknownSlot       = errors.New("session: unknown time slot")
	ErrSlotFull          = errors.New("session: time slot is fully booked")
	ErrTicketCount       = errors.New("session: ticket count out of range")
)

// ValidationError carries per-field failure reasons. The machine stays in
// its current state when one is returned.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("session: %d field(s) failed validation", len(e.Fields))
}

// Draft accumulates booking choices until payment succeeds. It is
// discarded on completion or restart and never persisted.
type Draft struct {
	Experience *models.Experience
	Date       string
	Slot       *models.TimeSlot
	Tickets    int
	Visitor    *models.VisitorDetails
}

// Reply is what the view layer renders after each operation.
type Reply struct {
	Message      string            `json:"message"`
	QuickReplies []string          `json:"quickReplies,omitempty"`
	State        State             `json:"state"`
	FieldErrors  map[string]string `json:"fieldErrors,omitempty"`
	Booking      *models.Booking   `json:"booking,omitempty"`
}

// Catalog is the reference-data source the session books against.
type Catalog interface {
	Experiences() []models.Experience
	ExperienceByID(id string) (models.Experience, bool)
	ExperienceByName(name string) (models.Experience, bool)
	NextDays(count int) []string
	TimeSlots(date string) []models.TimeSlot
	SlotByID(date, slotID string) (models.TimeSlot, bool)
}

type Session struct {
	mu         sync.Mutex
	state      State
	draft      Draft
	processing bool

	catalog   Catalog
	ledger    *ledger.Ledger
	processor payment.Processor
	events    events.Publisher
	log       *logger.Logger
	now       func() time.Time
}

func New(cat Catalog, led *ledger.Ledger, proc payment.Processor, pub events.Publisher, log *logger.Logger) *Session {
	return &Session{
		state:     StateIdle,
		catalog:   cat,
		ledger:    led,
		processor: proc,
		events:    pub,
		log:       log,
		now:       time.Now,
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

var initialQuickReplies = []string{"Book Tickets", "My Tickets", "How to Book", "Cancel Booking", "Help"}

// Greeting is the opening assistant message for a fresh session.
func (s *Session) Greeting() Reply {
	return Reply{
		Message: "Hi there! I'm your personal booking assistant. I can help you book tickets, " +
			"check your existing bookings, or cancel reservations. What would you like to do today?",
		QuickReplies: initialQuickReplies,
		State:        StateIdle,
	}
}

// HandleMessage classifies one utterance and applies at most one state
// transition. Exactly one intent is ever acted upon per message.
func (s *Session) HandleMessage(text string) Reply {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.processing {
		return s.reply(paymentInFlightMessage, nil)
	}

	parsed := intent.Parse(text)
	s.log.LogIntent(string(parsed.Kind), text)
	monitoring.MessagesHandled.WithLabelValues(string(parsed.Kind)).Inc()

	switch parsed.Kind {
	case intent.BookPrefilled:
		return s.beginBooking(parsed)
	case intent.Book:
		return s.beginBooking(intent.Result{Kind: intent.Book})
	case intent.ViewBookings:
		return s.enterViewing(false)
	case intent.CancelBooking:
		return s.enterViewing(true)
	case intent.HowToBook:
		return s.reply(howToBookMessage, []string{"Start Booking", "See Pricing", "More Info", "Contact Support"})
	case intent.ProceedPayment:
		return s.proceedToPayment()
	case intent.Hours:
		return s.reply(hoursMessage, []string{"Today", "Tomorrow", "This Weekend", "Next Week"})
	case intent.Help:
		return s.reply(helpMessage, []string{"How to Book", "Payment Methods", "Cancellation", "Contact Support"})
	case intent.Pricing:
		return s.reply(pricingMessage, defaultQuickReplies)
	case intent.ExperienceInfo:
		return s.reply(experienceInfoMessage(parsed.Experience), defaultQuickReplies)
	case intent.FAQ:
		return s.reply(faqMessage, []string{"Booking Questions", "Payment Info", "Cancellation Policy", "Accessibility"})
	default:
		return s.reply(fallbackMessage, defaultQuickReplies)
	}
}

func (s *Session) beginBooking(parsed intent.Result) Reply {
	s.draft = Draft{}
	if parsed.TicketCount > 0 {
		s.draft.Tickets = parsed.TicketCount
	}

	if parsed.Experience != "" {
		if exp, ok := s.catalog.ExperienceByName(parsed.Experience); ok {
			s.draft.Experience = &exp
			s.state = StatePickingDate
			s.log.LogSession(string(s.state), "booking flow started with "+exp.Name)
			return Reply{
				Message:      prefilledBookingMessage(parsed),
				QuickReplies: s.catalog.NextDays(4),
				State:        s.state,
			}
		}
	}

	s.state = StatePickingExperience
	s.log.LogSession(string(s.state), "booking flow started")
	msg := "I'll help you find the perfect experience. Let me show you what's available and you can pick your preferred date and time."
	if parsed.Kind == intent.BookPrefilled {
		msg = prefilledBookingMessage(parsed)
	}
	return Reply{
		Message:      msg,
		QuickReplies: []string{"Museum Tour", "Art Exhibition", "Science Show", "History Walk"},
		State:        s.state,
	}
}

func (s *Session) enterViewing(cancelling bool) Reply {
	active := s.ledger.ListActive()
	if len(active) == 0 {
		msg := "You don't have any active bookings yet. Would you like to book some tickets? I can help you find great experiences!"
		if cancelling {
			msg = "You don't have any active bookings to cancel. If you need help with something else, just let me know!"
		}
		return s.reply(msg, initialQuickReplies)
	}

	s.state = StateViewingBookings
	msg := fmt.Sprintf("You have %d active booking%s. Let me show you all your tickets with QR codes and details.",
		len(active), plural(len(active)))
	if cancelling {
		msg = "I can help you cancel your booking. Let me show you your active tickets so you can choose which one to cancel."
	}
	return Reply{
		Message:      msg,
		QuickReplies: []string{"View All Tickets", "Download Tickets", "Cancel Booking", "Book More"},
		State:        s.state,
	}
}

func (s *Session) proceedToPayment() Reply {
	if s.state != StateAwaitingPayment || s.draft.Visitor == nil {
		return s.reply("There's nothing to pay for yet. Let's pick an experience first!", defaultQuickReplies)
	}
	quote := s.quote()
	return Reply{
		Message: fmt.Sprintf("Great! Let's get your payment sorted. The total due is $%s. "+
			"I'll open our secure payment form - it only takes a minute to complete.", quote.DisplayTotal()),
		State: s.state,
	}
}

// reply answers without changing state.
func (s *Session) reply(msg string, quickReplies []string) Reply {
	return Reply{Message: msg, QuickReplies: quickReplies, State: s.state}
}

// Reset returns the machine to idle from any state, discarding the draft.
func (s *Session) Reset() Reply {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.processing {
		return s.reply(paymentInFlightMessage, nil)
	}
	s.draft = Draft{}
	s.state = StateIdle
	s.log.LogSession(string(s.state), "session reset")
	return Reply{
		Message:      "I'd be happy to help you book another experience! What would you like to do?",
		QuickReplies: initialQuickReplies,
		State:        s.state,
	}
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
