// Package ledger keeps the durable record of issued bookings. Entries are
// appended on payment success and only ever mutated by cancellation, which
// flips status; nothing is physically deleted.
package ledger

import (
	"encoding/json"
	"errors"
	"fmt"

	"booking-assistant/internal/logger"
	"booking-assistant/internal/models"
)

var (
	// ErrNotFound reports a cancel against an unknown booking id.
	ErrNotFound = errors.New("ledger: booking not found")

	// ErrIncompleteDraft reports a Record call with missing draft fields.
	// The session state machine guarantees completeness before recording,
	// so hitting this is a programming error, not user input.
	ErrIncompleteDraft = errors.New("ledger: incomplete booking draft")
)

type Ledger struct {
	store    Store
	log      *logger.Logger
	bookings []*models.Booking
}

// Open loads the ledger from the store. A missing key yields an empty
// ledger; a corrupt payload is logged and likewise yields an empty ledger
// rather than failing startup.
func Open(store Store, log *logger.Logger) (*Ledger, error) {
	l := &Ledger{store: store, log: log}

	raw, err := store.Get(StorageKey)
	if errors.Is(err, ErrKeyNotFound) {
		return l, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}

	var bookings []*models.Booking
	if err := json.Unmarshal(raw, &bookings); err != nil {
		log.Error("LEDGER", fmt.Sprintf("stored bookings unreadable, starting empty: %v", err))
		return l, nil
	}

	l.bookings = bookings
	log.LogLedger("OPEN", StorageKey, fmt.Sprintf("loaded %d bookings", len(bookings)))
	return l, nil
}

// Record appends a new active booking. The booking must arrive fully
// populated; the full ledger is persisted before Record returns.
func (l *Ledger) Record(b models.Booking) (*models.Booking, error) {
	if b.Experience.ID == "" || b.Time.ID == "" || b.Date == "" ||
		b.VisitorDetails.FirstName == "" || b.PaymentData.TransactionID == "" {
		return nil, ErrIncompleteDraft
	}

	b.Status = models.StatusActive
	entry := &b
	l.bookings = append(l.bookings, entry)

	if err := l.persist(); err != nil {
		l.bookings = l.bookings[:len(l.bookings)-1]
		return nil, err
	}

	l.log.LogLedger("RECORD", b.ID, fmt.Sprintf("ticket %s, %d tickets", b.TicketID, b.Tickets))
	return entry, nil
}

// ListActive returns the active bookings in creation order.
func (l *Ledger) ListActive() []*models.Booking {
	var active []*models.Booking
	for _, b := range l.bookings {
		if b.Status == models.StatusActive {
			active = append(active, b)
		}
	}
	return active
}

// ListAll returns every booking, cancelled ones included.
func (l *Ledger) ListAll() []*models.Booking {
	out := make([]*models.Booking, len(l.bookings))
	copy(out, l.bookings)
	return out
}

// Cancel flips the booking's status to cancelled. Cancelling an already
// cancelled booking is a no-op success.
func (l *Ledger) Cancel(bookingID string) (*models.Booking, error) {
	for _, b := range l.bookings {
		if b.ID != bookingID {
			continue
		}
		if b.Status == models.StatusCancelled {
			return b, nil
		}
		b.Status = models.StatusCancelled
		if err := l.persist(); err != nil {
			b.Status = models.StatusActive
			return nil, err
		}
		l.log.LogLedger("CANCEL", bookingID, "status set to cancelled")
		return b, nil
	}
	return nil, ErrNotFound
}

// FindByTicketID looks a booking up by its ticket id.
func (l *Ledger) FindByTicketID(ticketID string) (*models.Booking, bool) {
	for _, b := range l.bookings {
		if b.TicketID == ticketID {
			return b, true
		}
	}
	return nil, false
}

func (l *Ledger) persist() error {
	raw, err := json.Marshal(l.bookings)
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}
	if err := l.store.Put(StorageKey, raw); err != nil {
		return fmt.Errorf("persist ledger: %w", err)
	}
	return nil
}
