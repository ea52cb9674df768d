package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

func randomSuffix(max int64) int64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(max))
	return n.Int64()
}

func GenerateBookingID() string {
	return fmt.Sprintf("booking-%d%04d", time.Now().UnixMilli(), randomSuffix(9999))
}

func GenerateTicketID() string {
	return fmt.Sprintf("TM-%d%04d", time.Now().UnixMilli(), randomSuffix(9999))
}

func GenerateTransactionID() string {
	return fmt.Sprintf("TXN-%d%06d", time.Now().UnixMilli(), randomSuffix(999999))
}

// GenerateQRToken produces the opaque token stored alongside a booking.
// The scannable image itself is rendered from the ticket payload, not
// from this token.
func GenerateQRToken() string {
	return fmt.Sprintf("QR-%d%04d", time.Now().UnixMilli(), randomSuffix(9999))
}
