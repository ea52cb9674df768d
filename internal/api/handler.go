// Package api exposes the booking session over HTTP. It is the boundary
// the view layer talks to; all workflow rules live in the session package.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"booking-assistant/internal/ledger"
	"booking-assistant/internal/logger"
	"booking-assistant/internal/models"
	"booking-assistant/internal/qr"
	"booking-assistant/internal/scanner"
	"booking-assistant/internal/session"
	"booking-assistant/internal/utils"
)

type Handler struct {
	Session *session.Session
	Scanner *scanner.Scanner
	Logger  *logger.Logger
}

func NewHandler(s *session.Session, sc *scanner.Scanner, log *logger.Logger) *Handler {
	return &Handler{Session: s, Scanner: sc, Logger: log}
}

func (h *Handler) Routes(r chi.Router) {
	r.Route("/chat", func(r chi.Router) {
		r.Get("/greeting", h.Greeting)
		r.Post("/message", h.Message)
		r.Post("/reset", h.ResetSession)
	})
	r.Route("/booking", func(r chi.Router) {
		r.Get("/experiences", h.Experiences)
		r.Get("/dates", h.Dates)
		r.Get("/slots", h.Slots)
		r.Post("/experience", h.ChooseExperience)
		r.Post("/date", h.ChooseDate)
		r.Post("/slot", h.ChooseSlot)
		r.Post("/tickets", h.SetTickets)
		r.Post("/tickets/confirm", h.ConfirmTickets)
		r.Post("/visitor", h.SubmitVisitorDetails)
		r.Post("/payment", h.SubmitPayment)
	})
	r.Route("/bookings", func(r chi.Router) {
		r.Get("/", h.ListBookings)
		r.Post("/{bookingID}/cancel", h.CancelBooking)
	})
	r.Get("/tickets/{ticketID}/qr", h.TicketQR)
	r.Post("/scan", h.Scan)
}

func (h *Handler) Greeting(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, utils.SuccessResponse("greeting", h.Session.Greeting()))
}

func (h *Handler) Message(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		writeJSON(w, http.StatusBadRequest, utils.ErrorResponse("invalid request", "message is required"))
		return
	}
	writeJSON(w, http.StatusOK, utils.SuccessResponse("reply", h.Session.HandleMessage(req.Message)))
}

func (h *Handler) ResetSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, utils.SuccessResponse("session reset", h.Session.Reset()))
}

func (h *Handler) Experiences(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, utils.SuccessResponse("experiences", h.Session.Experiences()))
}

func (h *Handler) Dates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, utils.SuccessResponse("dates", h.Session.Dates()))
}

func (h *Handler) Slots(w http.ResponseWriter, r *http.Request) {
	slots, err := h.Session.Slots()
	if err != nil {
		h.writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, utils.SuccessResponse("slots", slots))
}

func (h *Handler) ChooseExperience(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ExperienceID string `json:"experienceId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, utils.ErrorResponse("invalid request", err.Error()))
		return
	}
	h.writeReply(w)(h.Session.ChooseExperience(req.ExperienceID))
}

func (h *Handler) ChooseDate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date string `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, utils.ErrorResponse("invalid request", err.Error()))
		return
	}
	h.writeReply(w)(h.Session.ChooseDate(req.Date))
}

func (h *Handler) ChooseSlot(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SlotID string `json:"slotId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, utils.ErrorResponse("invalid request", err.Error()))
		return
	}
	h.writeReply(w)(h.Session.ChooseSlot(req.SlotID))
}

func (h *Handler) SetTickets(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Tickets int `json:"tickets"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, utils.ErrorResponse("invalid request", err.Error()))
		return
	}
	h.writeReply(w)(h.Session.SetTickets(req.Tickets))
}

func (h *Handler) ConfirmTickets(w http.ResponseWriter, r *http.Request) {
	h.writeReply(w)(h.Session.ConfirmTickets())
}

func (h *Handler) SubmitVisitorDetails(w http.ResponseWriter, r *http.Request) {
	var details models.VisitorDetails
	if err := json.NewDecoder(r.Body).Decode(&details); err != nil {
		writeJSON(w, http.StatusBadRequest, utils.ErrorResponse("invalid request", err.Error()))
		return
	}
	h.writeReply(w)(h.Session.SubmitVisitorDetails(details))
}

func (h *Handler) SubmitPayment(w http.ResponseWriter, r *http.Request) {
	var card models.CardDetails
	if err := json.NewDecoder(r.Body).Decode(&card); err != nil {
		writeJSON(w, http.StatusBadRequest, utils.ErrorResponse("invalid request", err.Error()))
		return
	}
	h.writeReply(w)(h.Session.SubmitPayment(r.Context(), card))
}

func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, utils.SuccessResponse("active bookings", h.Session.Bookings()))
}

func (h *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingID")
	h.writeReply(w)(h.Session.CancelBooking(bookingID))
}

func (h *Handler) TicketQR(w http.ResponseWriter, r *http.Request) {
	ticketID := chi.URLParam(r, "ticketID")
	b, err := h.Scanner.Validate(ticketID)
	if err != nil {
		h.writeSessionError(w, err)
		return
	}
	png, err := qr.Encode(b)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, utils.ErrorResponse("qr generation failed", err.Error()))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

func (h *Handler) Scan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TicketID string `json:"ticketId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TicketID == "" {
		writeJSON(w, http.StatusBadRequest, utils.ErrorResponse("invalid request", "ticketId is required"))
		return
	}

	b, err := h.Scanner.Validate(req.TicketID)
	if err != nil {
		writeJSON(w, http.StatusOK, utils.SuccessResponse("scan result", map[string]interface{}{
			"valid":  false,
			"reason": err.Error(),
		}))
		return
	}
	writeJSON(w, http.StatusOK, utils.SuccessResponse("scan result", map[string]interface{}{
		"valid":   true,
		"booking": b,
	}))
}

// writeReply renders a session (Reply, error) pair with the right status
// code: validation problems come back 422 with field errors attached,
// workflow misuse 409, unknown ids 404.
func (h *Handler) writeReply(w http.ResponseWriter) func(session.Reply, error) {
	return func(reply session.Reply, err error) {
		var vErr *session.ValidationError
		switch {
		case err == nil:
			writeJSON(w, http.StatusOK, utils.SuccessResponse("ok", reply))
		case errors.As(err, &vErr):
			writeJSON(w, http.StatusUnprocessableEntity, utils.ErrorResponse("validation failed", err.Error()).WithData(reply))
		default:
			h.writeSessionError(w, err)
		}
	}
}

func (h *Handler) writeSessionError(w http.ResponseWriter, err error) {
	status := http.StatusConflict
	switch {
	case errors.Is(err, ledger.ErrNotFound),
		errors.Is(err, scanner.ErrUnknownTicket),
		errors.Is(err, session.ErrUnknownExperience),
		errors.Is(err, session.ErrUnknownDate),
		errors.Is(err, session.ErrUnknownSlot):
		status = http.StatusNotFound
	case errors.Is(err, scanner.ErrCancelled):
		status = http.StatusGone
	case errors.Is(err, session.ErrSlotFull),
		errors.Is(err, session.ErrTicketCount):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, session.ErrPaymentInFlight):
		status = http.StatusTooManyRequests
	}
	writeJSON(w, status, utils.ErrorResponse("request failed", err.Error()))
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
