// Package payment simulates a card processor. There is no network call;
// a charge waits a configured processing delay and then settles.
package payment

import (
	"context"
	"errors"
	"strings"
	"time"

	"booking-assistant/internal/logger"
	"booking-assistant/internal/models"
	"booking-assistant/internal/utils"
)

// ErrDeclined reports a declined charge. Card numbers ending in 0002
// decline; everything else settles.
var ErrDeclined = errors.New("payment: card declined")

type Processor interface {
	Charge(ctx context.Context, card models.CardDetails, amount float64) (models.PaymentResult, error)
}

type Simulator struct {
	Delay time.Duration
	Log   *logger.Logger
	now   func() time.Time
}

func NewSimulator(delay time.Duration, log *logger.Logger) *Simulator {
	return &Simulator{Delay: delay, Log: log, now: time.Now}
}

// Charge waits the processing delay, then returns the settled result.
// Cancelling the context aborts the wait.
func (s *Simulator) Charge(ctx context.Context, card models.CardDetails, amount float64) (models.PaymentResult, error) {
	select {
	case <-time.After(s.Delay):
	case <-ctx.Done():
		return models.PaymentResult{}, ctx.Err()
	}

	digits := stripSeparators(card.CardNumber)
	txnID := utils.GenerateTransactionID()

	if strings.HasSuffix(digits, "0002") {
		s.Log.LogPayment("DECLINE", txnID, "card declined by issuer")
		return models.PaymentResult{
			TransactionID: txnID,
			Amount:        amount,
			Currency:      "USD",
			PaymentMethod: maskCard(digits),
			Status:        models.PaymentDeclined,
			Timestamp:     s.now(),
		}, ErrDeclined
	}

	result := models.PaymentResult{
		TransactionID: txnID,
		Amount:        amount,
		Currency:      "USD",
		PaymentMethod: maskCard(digits),
		Status:        models.PaymentCompleted,
		Timestamp:     s.now(),
	}
	s.Log.LogPayment("CHARGE", txnID, "payment completed")
	return result, nil
}

func maskCard(digits string) string {
	if len(digits) < 4 {
		return "****"
	}
	return "****" + digits[len(digits)-4:]
}

func stripSeparators(number string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)
}
