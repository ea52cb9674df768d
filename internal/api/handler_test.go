package api_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"booking-assistant/internal/api"
	"booking-assistant/internal/catalog"
	"booking-assistant/internal/events"
	"booking-assistant/internal/ledger"
	"booking-assistant/internal/logger"
	"booking-assistant/internal/payment"
	"booking-assistant/internal/scanner"
	"booking-assistant/internal/session"
)

func setupRouter(t *testing.T) *chi.Mux {
	sqldb, err := sql.Open(sqliteshim.ShimName, "file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	bunDB := bun.NewDB(sqldb, sqlitedialect.New())
	if err := bunDB.ResetModel(context.Background(), (*ledger.Record)(nil)); err != nil {
		t.Fatalf("Failed to reset kv table: %v", err)
	}

	nop := logger.NewNopLogger()
	led, err := ledger.Open(&ledger.DB{Bun: bunDB}, nop)
	if err != nil {
		t.Fatalf("Failed to open ledger: %v", err)
	}

	sess := session.New(
		catalog.New(),
		led,
		payment.NewSimulator(0, nop),
		&events.MockPublisher{Log: nop},
		nop,
	)
	handler := api.NewHandler(sess, scanner.New(led), nop)

	r := chi.NewRouter()
	r.Group(handler.Routes)
	return r
}

func doJSON(t *testing.T, router *chi.Mux, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return resp
}

func TestGreetingEndpoint(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(t, router, "GET", "/chat/greeting", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	assert.Equal(t, true, resp["success"])

	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "idle", data["state"])
}

func TestMessageEndpointRequiresMessage(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(t, router, "POST", "/chat/message", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, "POST", "/chat/message", map[string]string{"message": "help"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestExperiencesEndpoint(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(t, router, "GET", "/booking/experiences", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	data := resp["data"].([]interface{})
	assert.Len(t, data, 4)
}

func TestStepOutOfOrderReturnsConflict(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(t, router, "POST", "/booking/experience", map[string]string{"experienceId": "museum-tour"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCancelUnknownBookingReturns404(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(t, router, "POST", "/bookings/booking-missing/cancel", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestScanUnknownTicket(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(t, router, "POST", "/scan", map[string]string{"ticketId": "TM-unknown"})
	assert.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, false, data["valid"])
	assert.NotEmpty(t, data["reason"])
}

func TestVisitorValidationReturns422(t *testing.T) {
	router := setupRouter(t)
	advanceToVisitorStep(t, router)

	w := doJSON(t, router, "POST", "/booking/visitor", map[string]string{
		"firstName": "Ada",
		"lastName":  "Lovelace",
		"email":     "not-an-email",
		"phone":     "555-0100",
		"age":       "adult",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	resp := decodeResponse(t, w)
	data := resp["data"].(map[string]interface{})
	fieldErrors := data["fieldErrors"].(map[string]interface{})
	assert.Equal(t, "Please enter a valid email", fieldErrors["email"])
}

// advanceToVisitorStep drives the booking flow over HTTP up to the
// visitor-details step.
func advanceToVisitorStep(t *testing.T, router *chi.Mux) {
	w := doJSON(t, router, "POST", "/chat/message", map[string]string{"message": "book the museum tour"})
	assert.Equal(t, http.StatusOK, w.Code)

	date := catalog.New().NextDays(1)[0]
	w = doJSON(t, router, "POST", "/booking/date", map[string]string{"date": date})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, "POST", "/booking/slot", map[string]string{"slotId": date + "-10"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, "POST", "/booking/tickets", map[string]int{"tickets": 2})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, "POST", "/booking/tickets/confirm", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestFullBookingFlowOverHTTP(t *testing.T) {
	router := setupRouter(t)
	advanceToVisitorStep(t, router)

	w := doJSON(t, router, "POST", "/booking/visitor", map[string]string{
		"firstName": "Ada",
		"lastName":  "Lovelace",
		"email":     "ada@example.com",
		"phone":     "555-0100",
		"age":       "adult",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, "POST", "/booking/payment", map[string]string{
		"cardNumber":     "4111 1111 1111 1111",
		"expiryMonth":    "12",
		"expiryYear":     "2028",
		"cvv":            "123",
		"cardholderName": "Ada Lovelace",
		"billingAddress": "12 Analytical Way",
		"city":           "London",
		"zipCode":        "NW1",
		"country":        "GB",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "ticket-issued", data["state"])

	booking := data["booking"].(map[string]interface{})
	bookingID := booking["id"].(string)
	ticketID := booking["ticketId"].(string)
	assert.NotEmpty(t, bookingID)
	assert.NotEmpty(t, ticketID)

	// The booking is listed as active.
	w = doJSON(t, router, "GET", "/bookings/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	resp = decodeResponse(t, w)
	assert.Len(t, resp["data"].([]interface{}), 1)

	// Its QR ticket renders.
	w = doJSON(t, router, "GET", "/tickets/"+ticketID+"/qr", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

	// Scanning it validates.
	w = doJSON(t, router, "POST", "/scan", map[string]string{"ticketId": ticketID})
	assert.Equal(t, http.StatusOK, w.Code)
	resp = decodeResponse(t, w)
	assert.Equal(t, true, resp["data"].(map[string]interface{})["valid"])

	// Cancelling flips the booking and retires the ticket.
	w = doJSON(t, router, "POST", "/bookings/"+bookingID+"/cancel", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, "GET", "/tickets/"+ticketID+"/qr", nil)
	assert.Equal(t, http.StatusGone, w.Code)

	w = doJSON(t, router, "POST", "/scan", map[string]string{"ticketId": ticketID})
	resp = decodeResponse(t, w)
	assert.Equal(t, false, resp["data"].(map[string]interface{})["valid"])
}

func TestDeclinedPaymentOverHTTP(t *testing.T) {
	router := setupRouter(t)
	advanceToVisitorStep(t, router)

	w := doJSON(t, router, "POST", "/booking/visitor", map[string]string{
		"firstName": "Ada",
		"lastName":  "Lovelace",
		"email":     "ada@example.com",
		"phone":     "555-0100",
		"age":       "adult",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, "POST", "/booking/payment", map[string]string{
		"cardNumber":     "4000 0000 0000 0002",
		"expiryMonth":    "12",
		"expiryYear":     "2028",
		"cvv":            "123",
		"cardholderName": "Ada Lovelace",
		"billingAddress": "12 Analytical Way",
		"city":           "London",
		"zipCode":        "NW1",
		"country":        "GB",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// No booking was issued.
	w = doJSON(t, router, "GET", "/bookings/", nil)
	resp := decodeResponse(t, w)
	assert.Nil(t, resp["data"])
}
