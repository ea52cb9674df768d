package pricing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"booking-assistant/internal/pricing"
)

func TestQuoteBreakdown(t *testing.T) {
	// 2 tickets at $25: subtotal 50.00, tax 4.00, fee 2.99
	quote := pricing.NewQuote(25, 2)

	assert.Equal(t, "50.00", quote.DisplaySubtotal())
	assert.Equal(t, "4.00", quote.DisplayTax())
	assert.Equal(t, "2.99", quote.DisplayFee())
	assert.Equal(t, "56.99", quote.DisplayTotal())
	assert.Equal(t, 56.99, quote.ChargeAmount())
}

func TestQuoteKeepsPrecisionUntilDisplay(t *testing.T) {
	// 3 tickets at $19.99: tax is 4.7976, which must not be rounded
	// before it reaches the total.
	quote := pricing.NewQuote(19.99, 3)

	assert.Equal(t, "4.7976", quote.Tax.String())
	assert.Equal(t, "67.7576", quote.Total.String())
	assert.Equal(t, "67.76", quote.DisplayTotal())
	assert.Equal(t, 67.76, quote.ChargeAmount())
}

func TestQuoteSingleTicket(t *testing.T) {
	quote := pricing.NewQuote(25, 1)

	assert.Equal(t, "25.00", quote.DisplaySubtotal())
	assert.Equal(t, "29.99", quote.DisplayTotal())
}

func TestQuoteIsPure(t *testing.T) {
	a := pricing.NewQuote(25, 4)
	b := pricing.NewQuote(25, 4)

	assert.True(t, a.Total.Equal(b.Total))
	assert.True(t, a.Tax.Equal(b.Tax))
	assert.Equal(t, a.ChargeAmount(), b.ChargeAmount())
}
