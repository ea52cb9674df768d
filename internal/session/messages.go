package session

import (
	"fmt"
	"strings"

	"booking-assistant/internal/intent"
)

var defaultQuickReplies = []string{"Book Now", "My Tickets", "Get Help", "See Pricing"}

const howToBookMessage = `Here's how easy it is to book with me:

1. Choose Your Experience - Tell me what interests you (museum, art, science, history)
2. Pick Date & Time - Select when you'd like to visit
3. Enter Details - Just your name, email, and party size
4. Pay Securely - Quick payment right here in chat
5. Get Your Ticket - Instant QR code ticket ready to use!

The whole process takes less than 2 minutes. Would you like to start booking now?`

const hoursMessage = "We're open daily from 9:00 AM to 6:00 PM with experiences starting every hour. " +
	"Most popular times are 10 AM, 2 PM, and 4 PM. What time works best for you?"

const helpMessage = "I'm here to help! I can book tickets, show your existing bookings, handle cancellations, " +
	"or answer questions about pricing and policies. What do you need assistance with?"

const pricingMessage = "Our ticket prices are: Adults $25, Students $15, Children (under 12) $10, Seniors $20. " +
	"Groups of 10+ get a 15% discount! Ready to book?"

const faqMessage = "I'll open our help center where you can find detailed answers to common questions " +
	"about booking, payments, and policies."

const paymentInFlightMessage = "Hang tight - I'm still processing your payment. This will only take a moment."

const fallbackMessage = "I'd be happy to help you with that! I specialize in booking tickets, managing your " +
	"reservations, and answering questions. What would you like to do today?"

func experienceInfoMessage(experience string) string {
	switch experience {
	case "Museum Tour":
		return "The Museum Tour is fantastic! It's our most comprehensive 90-minute journey through all exhibits. " +
			"Available every hour from 9 AM to 4 PM. Shall I check today's availability for you?"
	case "Art Exhibition":
		return "Our 'Modern Masterpieces' exhibition is absolutely stunning! It's a 60-minute guided tour of " +
			"contemporary works. Very popular, so I'd recommend booking soon. How many tickets do you need?"
	case "Science Show":
		return "The Science Show packs interactive demonstrations and hands-on experiments into 45 minutes. " +
			"It's a favorite with families. Want me to check availability?"
	case "History Walk":
		return "The History Walk is a 75-minute journey through time with historical artifacts and stories. " +
			"Shall I check today's availability for you?"
	default:
		return fallbackMessage
	}
}

func prefilledBookingMessage(parsed intent.Result) string {
	var b strings.Builder
	b.WriteString("Perfect! I'd love to help you book ")
	if parsed.TicketCount > 0 {
		fmt.Fprintf(&b, "%d ticket%s ", parsed.TicketCount, plural(parsed.TicketCount))
	}
	if parsed.Experience != "" {
		fmt.Fprintf(&b, "for the %s ", parsed.Experience)
	}
	if parsed.TimePreference != "" {
		fmt.Fprintf(&b, "around %s ", parsed.TimePreference)
	}
	b.WriteString("Let me open our booking system to get you set up right away.")
	return b.String()
}
