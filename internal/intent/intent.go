// Package intent classifies free-text utterances into booking intents and
// pulls out any slot values they carry. Matching is a fixed, ordered rule
// table; the first matching rule wins and exactly one intent is returned.
package intent

import (
	"regexp"
	"strconv"
	"strings"
)

type Kind string

const (
	BookPrefilled  Kind = "book-prefilled"
	Book           Kind = "book"
	ViewBookings   Kind = "view-bookings"
	CancelBooking  Kind = "cancel-booking"
	HowToBook      Kind = "how-to-book"
	ProceedPayment Kind = "proceed-payment"
	Hours          Kind = "hours"
	Help           Kind = "help"
	Pricing        Kind = "pricing"
	ExperienceInfo Kind = "experience-info"
	FAQ            Kind = "faq"
	Unknown        Kind = "unknown"
)

// Result is a classified utterance. TicketCount is 0 when no count was
// mentioned; Experience and TimePreference are empty when absent.
type Result struct {
	Kind           Kind
	TicketCount    int
	Experience     string
	TimePreference string
}

var ticketCountRe = regexp.MustCompile(`(\d+)\s*tickets?`)

// experienceKeywords maps utterance substrings to experience display
// names. Order matters: the first hit wins.
var experienceKeywords = []struct{ keyword, name string }{
	{"museum", "Museum Tour"},
	{"art", "Art Exhibition"},
	{"science", "Science Show"},
	{"history", "History Walk"},
	{"concert", "Art Exhibition"},
	{"singing", "Art Exhibition"},
}

var timeKeywords = []struct{ keyword, preference string }{
	{"10am", "10:00"},
	{"10:00", "10:00"},
	{"5pm", "17:00"},
	{"17:00", "17:00"},
	{"morning", "morning"},
	{"afternoon", "afternoon"},
	{"evening", "evening"},
}

type rule struct {
	kind  Kind
	match func(msg string, r Result) bool
}

// The table runs most-specific first so that phrases like "cancel my
// booking" or "how to book" are not swallowed by the generic booking rule
// even though they contain "book".
var rules = []rule{
	{HowToBook, func(m string, _ Result) bool {
		return strings.Contains(m, "how to book")
	}},
	{ViewBookings, func(m string, _ Result) bool {
		return strings.Contains(m, "my tickets") ||
			strings.Contains(m, "show me my") ||
			strings.Contains(m, "show my") ||
			strings.Contains(m, "view my") ||
			strings.Contains(m, "review my booking")
	}},
	{CancelBooking, func(m string, _ Result) bool {
		return strings.Contains(m, "cancel")
	}},
	{ProceedPayment, func(m string, _ Result) bool {
		return strings.Contains(m, "proceed to payment")
	}},
	{BookPrefilled, func(m string, r Result) bool {
		return strings.Contains(m, "book") && (r.TicketCount > 0 || r.Experience != "")
	}},
	{Book, func(m string, _ Result) bool {
		return strings.Contains(m, "book") || strings.Contains(m, "ticket")
	}},
	{Hours, func(m string, _ Result) bool {
		return strings.Contains(m, "timing") || strings.Contains(m, "schedule") ||
			strings.Contains(m, "hours")
	}},
	{Help, func(m string, _ Result) bool {
		return strings.Contains(m, "help") || strings.Contains(m, "support")
	}},
	{Pricing, func(m string, _ Result) bool {
		return strings.Contains(m, "price") || strings.Contains(m, "cost") ||
			strings.Contains(m, "pricing")
	}},
	{ExperienceInfo, func(m string, _ Result) bool {
		return strings.Contains(m, "museum tour") || strings.Contains(m, "art exhibition") ||
			strings.Contains(m, "science show") || strings.Contains(m, "history walk")
	}},
	{FAQ, func(m string, _ Result) bool {
		return strings.Contains(m, "faq") || strings.Contains(m, "frequently asked")
	}},
}

// Parse classifies one utterance. Matching is case-insensitive and each
// extraction category resolves independently, first match wins.
func Parse(utterance string) Result {
	msg := strings.ToLower(utterance)

	result := Result{Kind: Unknown}

	if m := ticketCountRe.FindStringSubmatch(msg); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			result.TicketCount = n
		}
	}
	for _, e := range experienceKeywords {
		if strings.Contains(msg, e.keyword) {
			result.Experience = e.name
			break
		}
	}
	for _, t := range timeKeywords {
		if strings.Contains(msg, t.keyword) {
			result.TimePreference = t.preference
			break
		}
	}

	for _, r := range rules {
		if r.match(msg, result) {
			result.Kind = r.kind
			return result
		}
	}
	return result
}
