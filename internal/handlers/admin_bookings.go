package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/csrf"

	"github.com/fMoyano90/universonomada-web/internal/booking"
	"github.com/fMoyano90/universonomada-web/internal/listing"
	"github.com/fMoyano90/universonomada-web/internal/models"
)

const bookingsPageSize = 10

// bookingRow pairs a booking with its parsed breakdown and the transitions
// its current (status, type) pair allows. Only those get buttons.
type bookingRow struct {
	Booking     models.Booking
	Breakdown   booking.RequestBreakdown
	StatusLabel string
	Transitions []statusOption
	CanConvert  bool
}

type statusOption struct {
	Value string
	Label string
}

func (h *AdminHandler) ListAdminBookings(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	bookings, total, err := h.API.ListBookings(r.Context(), token(r), page, bookingsPageSize)
	if err != nil {
		slog.Error("Failed to fetch bookings", "error", err)
		bookings = nil
	}
	totalPages := listing.Pages(total, bookingsPageSize)

	rows := make([]bookingRow, 0, len(bookings))
	for _, b := range bookings {
		var transitions []statusOption
		for _, target := range booking.AvailableTransitions(b.Status, b.BookingType) {
			transitions = append(transitions, statusOption{Value: target, Label: booking.StatusLabel(target)})
		}
		rows = append(rows, bookingRow{
			Booking:     b,
			Breakdown:   booking.ParseRequests(b.SpecialRequests),
			StatusLabel: booking.StatusLabel(b.Status),
			Transitions: transitions,
			CanConvert:  booking.CanConvert(&b),
		})
	}

	tmpl := h.Templates.Get("admin_bookings.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	cookie, _ := h.SessionStore.Get(r, "admin-session")
	data := map[string]interface{}{
		"Rows":        rows,
		"CurrentPage": listing.ClampPage(page, totalPages),
		"TotalPages":  totalPages,
		"PageNumbers": listing.PageNumbers(totalPages),
		"CsrfField":   csrf.TemplateField(r),
		"Flashes":     GetFlash(cookie),
	}
	cookie.Save(r, w)
	tmpl.Execute(w, data)
}

// UpdateBookingStatus applies one transition after re-checking it against
// the transition table; the buttons are state-gated but the POST is not
// trusted.
func (h *AdminHandler) UpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	cookie, _ := h.SessionStore.Get(r, "admin-session")
	defer cookie.Save(r, w)

	id, err := strconv.Atoi(r.FormValue("id"))
	if err != nil {
		cookie.AddFlash(FlashMessage{Type: "error", Message: "ID inválido."})
		http.Redirect(w, r, "/admin/reservas", http.StatusSeeOther)
		return
	}
	current := r.FormValue("current_status")
	bookingType := r.FormValue("booking_type")
	target := r.FormValue("status")

	if !booking.CanTransition(current, bookingType, target) {
		cookie.AddFlash(FlashMessage{Type: "error", Message: "Transición de estado no permitida."})
		http.Redirect(w, r, "/admin/reservas", http.StatusSeeOther)
		return
	}

	if err := h.API.UpdateBookingStatus(r.Context(), token(r), id, target); err != nil {
		slog.Error("Failed to update booking status", "id", id, "error", err)
		cookie.AddFlash(FlashMessage{Type: "error", Message: apiErrorMessage(err, "Error al actualizar el estado.")})
		http.Redirect(w, r, "/admin/reservas", http.StatusSeeOther)
		return
	}

	cookie.AddFlash(FlashMessage{Type: "success", Message: "Estado actualizado a " + booking.StatusLabel(target) + "."})
	http.Redirect(w, r, "/admin/reservas", http.StatusSeeOther)
}

// ConvertBooking turns a quote into a booking; its status restarts at
// pending under the booking transition rules.
func (h *AdminHandler) ConvertBooking(w http.ResponseWriter, r *http.Request) {
	cookie, _ := h.SessionStore.Get(r, "admin-session")
	defer cookie.Save(r, w)

	id, err := strconv.Atoi(r.FormValue("id"))
	if err != nil {
		cookie.AddFlash(FlashMessage{Type: "error", Message: "ID inválido."})
		http.Redirect(w, r, "/admin/reservas", http.StatusSeeOther)
		return
	}

	if err := h.API.ConvertQuoteToBooking(r.Context(), token(r), id); err != nil {
		slog.Error("Failed to convert quote", "id", id, "error", err)
		cookie.AddFlash(FlashMessage{Type: "error", Message: apiErrorMessage(err, "Error al convertir la cotización.")})
		http.Redirect(w, r, "/admin/reservas", http.StatusSeeOther)
		return
	}

	cookie.AddFlash(FlashMessage{Type: "success", Message: "Cotización convertida en reserva."})
	http.Redirect(w, r, "/admin/reservas", http.StatusSeeOther)
}

func (h *AdminHandler) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	cookie, _ := h.SessionStore.Get(r, "admin-session")
	defer cookie.Save(r, w)

	id, err := strconv.Atoi(r.FormValue("id"))
	if err != nil {
		cookie.AddFlash(FlashMessage{Type: "error", Message: "ID inválido."})
		http.Redirect(w, r, "/admin/reservas", http.StatusSeeOther)
		return
	}

	if err := h.API.DeleteBooking(r.Context(), token(r), id); err != nil {
		slog.Error("Failed to delete booking", "id", id, "error", err)
		cookie.AddFlash(FlashMessage{Type: "error", Message: apiErrorMessage(err, "Error al eliminar la reserva.")})
		http.Redirect(w, r, "/admin/reservas", http.StatusSeeOther)
		return
	}

	cookie.AddFlash(FlashMessage{Type: "success", Message: "Reserva eliminada."})
	http.Redirect(w, r, "/admin/reservas", http.StatusSeeOther)
}
