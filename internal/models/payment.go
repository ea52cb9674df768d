package models

// CardDetails carries the fields collected by the payment step. The card
// number may contain spaces or dashes; validation strips separators first.
type CardDetails struct {
	CardNumber     string `json:"cardNumber"`
	ExpiryMonth    string `json:"expiryMonth"`
	ExpiryYear     string `json:"expiryYear"`
	CVV            string `json:"cvv"`
	CardholderName string `json:"cardholderName"`
	BillingAddress string `json:"billingAddress"`
	City           string `json:"city"`
	ZipCode        string `json:"zipCode"`
	Country        string `json:"country"`
}

const (
	PaymentCompleted = "completed"
	PaymentDeclined  = "declined"
)
