// Package pricing computes the amount due for a booking. All arithmetic is
// decimal; rounding to cents happens only when a figure is displayed or
// charged.
package pricing

import "github.com/shopspring/decimal"

var (
	taxRate       = decimal.NewFromFloat(0.08)
	processingFee = decimal.NewFromFloat(2.99)
)

// Quote is the price breakdown for unit price x ticket count.
type Quote struct {
	UnitPrice decimal.Decimal
	Tickets   int
	Subtotal  decimal.Decimal
	Tax       decimal.Decimal
	Fee       decimal.Decimal
	Total     decimal.Decimal
}

// NewQuote derives subtotal, tax and total. Pure: the same inputs always
// produce the same quote.
func NewQuote(unitPrice float64, tickets int) Quote {
	unit := decimal.NewFromFloat(unitPrice)
	subtotal := unit.Mul(decimal.NewFromInt(int64(tickets)))
	tax := subtotal.Mul(taxRate)
	return Quote{
		UnitPrice: unit,
		Tickets:   tickets,
		Subtotal:  subtotal,
		Tax:       tax,
		Fee:       processingFee,
		Total:     subtotal.Add(tax).Add(processingFee),
	}
}

// ChargeAmount is the total rounded to cents, as charged by the processor.
func (q Quote) ChargeAmount() float64 {
	f, _ := q.Total.Round(2).Float64()
	return f
}

func (q Quote) DisplayTotal() string {
	return q.Total.StringFixed(2)
}

func (q Quote) DisplaySubtotal() string {
	return q.Subtotal.StringFixed(2)
}

func (q Quote) DisplayTax() string {
	return q.Tax.StringFixed(2)
}

func (q Quote) DisplayFee() string {
	return q.Fee.StringFixed(2)
}
