package payment_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"booking-assistant/internal/logger"
	"booking-assistant/internal/models"
	"booking-assistant/internal/payment"
)

func validCard(number string) models.CardDetails {
	return models.CardDetails{
		CardNumber:     number,
		ExpiryMonth:    "12",
		ExpiryYear:     "2028",
		CVV:            "123",
		CardholderName: "Ada Lovelace",
		BillingAddress: "12 Analytical Way",
		City:           "London",
		ZipCode:        "NW1",
		Country:        "GB",
	}
}

func TestChargeSettles(t *testing.T) {
	sim := payment.NewSimulator(0, logger.NewNopLogger())

	result, err := sim.Charge(context.Background(), validCard("4111 1111 1111 1111"), 56.99)
	assert.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, result.Status)
	assert.Equal(t, 56.99, result.Amount)
	assert.Equal(t, "USD", result.Currency)
	assert.Equal(t, "****1111", result.PaymentMethod)
	assert.NotEmpty(t, result.TransactionID)
	assert.False(t, result.Timestamp.IsZero())
}

func TestChargeDeclinesTestCard(t *testing.T) {
	sim := payment.NewSimulator(0, logger.NewNopLogger())

	result, err := sim.Charge(context.Background(), validCard("4000 0000 0000 0002"), 29.99)
	assert.ErrorIs(t, err, payment.ErrDeclined)
	assert.Equal(t, models.PaymentDeclined, result.Status)
	assert.Equal(t, "****0002", result.PaymentMethod)
}

func TestChargeMasksSeparators(t *testing.T) {
	sim := payment.NewSimulator(0, logger.NewNopLogger())

	result, err := sim.Charge(context.Background(), validCard("4111-1111-1111-9424"), 10)
	assert.NoError(t, err)
	assert.Equal(t, "****9424", result.PaymentMethod)
}

func TestChargeAbortsOnCancelledContext(t *testing.T) {
	sim := payment.NewSimulator(time.Hour, logger.NewNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := sim.Charge(ctx, validCard("4111 1111 1111 1111"), 56.99)
	assert.ErrorIs(t, err, context.Canceled)
}
