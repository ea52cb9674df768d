package session

import (
	"regexp"
	"strings"

	"booking-assistant/internal/models"
)

var emailRe = regexp.MustCompile(`^\S+@\S+\.\S+$`)

var ageGroups = map[string]bool{
	"child":   true,
	"student": true,
	"adult":   true,
	"senior":  true,
}

// ValidateVisitorDetails checks the required visitor fields and returns
// per-field failure reasons, empty when everything passes.
func ValidateVisitorDetails(v models.VisitorDetails) map[string]string {
	fields := map[string]string{}

	if strings.TrimSpace(v.FirstName) == "" {
		fields["firstName"] = "First name is required"
	}
	if strings.TrimSpace(v.LastName) == "" {
		fields["lastName"] = "Last name is required"
	}
	if strings.TrimSpace(v.Email) == "" {
		fields["email"] = "Email is required"
	} else if !emailRe.MatchString(v.Email) {
		fields["email"] = "Please enter a valid email"
	}
	if strings.TrimSpace(v.Phone) == "" {
		fields["phone"] = "Phone number is required"
	}
	if !ageGroups[v.Age] {
		fields["age"] = "Age group is required"
	}

	return fields
}

// ValidateCardDetails checks the payment form fields. The card number is
// validated on its digits only; spaces and dashes are ignored.
func ValidateCardDetails(c models.CardDetails) map[string]string {
	fields := map[string]string{}

	digits := cardDigits(c.CardNumber)
	if digits == "" {
		fields["cardNumber"] = "Card number is required"
	} else if len(digits) < 13 {
		fields["cardNumber"] = "Please enter a valid card number"
	}

	if c.ExpiryMonth == "" {
		fields["expiryMonth"] = "Month is required"
	}
	if c.ExpiryYear == "" {
		fields["expiryYear"] = "Year is required"
	}

	cvv := cardDigits(c.CVV)
	if cvv == "" {
		fields["cvv"] = "CVV is required"
	} else if len(cvv) < 3 || len(cvv) > 4 {
		fields["cvv"] = "Please enter a valid CVV"
	}

	if strings.TrimSpace(c.CardholderName) == "" {
		fields["cardholderName"] = "Cardholder name is required"
	}
	if strings.TrimSpace(c.BillingAddress) == "" {
		fields["billingAddress"] = "Billing address is required"
	}
	if strings.TrimSpace(c.City) == "" {
		fields["city"] = "City is required"
	}
	if strings.TrimSpace(c.ZipCode) == "" {
		fields["zipCode"] = "ZIP code is required"
	}
	if c.Country == "" {
		fields["country"] = "Country is required"
	}

	return fields
}

func cardDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}
