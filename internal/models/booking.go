package models

import "time"

type BookingStatus string

const (
	StatusActive    BookingStatus = "active"
	StatusCancelled BookingStatus = "cancelled"
)

// Experience is reference data for a bookable offering. Instances are
// copied into bookings at issue time, never referenced.
type Experience struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// TimeSlot is one bookable hour of an experience on one day.
// Available never exceeds Total.
type TimeSlot struct {
	ID        string  `json:"id"`
	Time      string  `json:"time"`
	Available int     `json:"available"`
	Total     int     `json:"total"`
	Price     float64 `json:"price"`
}

type VisitorDetails struct {
	FirstName           string `json:"firstName"`
	LastName            string `json:"lastName"`
	Email               string `json:"email"`
	Phone               string `json:"phone"`
	Age                 string `json:"age"`
	SpecialRequirements string `json:"specialRequirements"`
}

// PaymentResult is the outcome of a (simulated) charge. Immutable once created.
type PaymentResult struct {
	TransactionID string    `json:"transactionId"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	PaymentMethod string    `json:"paymentMethod"`
	Status        string    `json:"status"`
	Timestamp     time.Time `json:"timestamp"`
}

// Booking is the durable ledger entry created once per successful payment.
// It embeds copies of the experience, slot and visitor data valid at booking
// time. The only mutation it ever sees is the active -> cancelled transition.
type Booking struct {
	ID             string         `json:"id"`
	TicketID       string         `json:"ticketId"`
	Experience     Experience     `json:"experience"`
	Date           string         `json:"date"`
	Time           TimeSlot       `json:"time"`
	Tickets        int            `json:"tickets"`
	VisitorDetails VisitorDetails `json:"visitorDetails"`
	PaymentData    PaymentResult  `json:"paymentData"`
	QRCode         string         `json:"qrCode"`
	Status         BookingStatus  `json:"status"`
	CreatedAt      time.Time      `json:"createdAt"`
}
