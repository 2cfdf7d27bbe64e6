package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"

	"github.com/fMoyano90/universonomada-web/internal/api"
	"github.com/fMoyano90/universonomada-web/internal/booking"
)

// QuoteHandler drives the personalize-tour form. Validation errors render
// inline with the entered values kept; only a successful submission resets
// the form.
type QuoteHandler struct {
	API          *api.Client
	Templates    *TemplateCache
	SessionStore *sessions.CookieStore
}

func (h *QuoteHandler) Form(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, booking.NewQuoteForm(), nil, "")
}

func (h *QuoteHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	form := parseQuoteForm(r)
	form.ClampCounts()
	form.ApplyFlexibleDates()

	// Accumulate every field error; nothing goes to the network while any
	// field is invalid.
	if errs := form.Validate(); len(errs) > 0 {
		h.render(w, r, form, errs, "")
		return
	}

	if err := h.API.CreateBooking(r.Context(), form.ToBooking()); err != nil {
		slog.Error("Quote submission failed", "error", err)
		// Keep the entered values so the visitor can retry.
		h.render(w, r, form, nil, apiErrorMessage(err, "No pudimos enviar tu solicitud. Intenta nuevamente."))
		return
	}

	tmpl := h.Templates.Get("quote_confirmation.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	tmpl.Execute(w, map[string]interface{}{
		"ContactName": form.ContactName,
	})
}

func (h *QuoteHandler) render(w http.ResponseWriter, r *http.Request, form *booking.QuoteForm, errs map[string]string, overlayError string) {
	destinations, _, err := h.API.ListDestinations(r.Context(), "", 1, 100)
	if err != nil {
		slog.Warn("Destination list unavailable for quote form", "error", err)
		destinations = nil
	}

	tmpl := h.Templates.Get("quote_form.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	session, _ := h.SessionStore.Get(r, "public-session")
	data := map[string]interface{}{
		"Form":         form,
		"Errors":       errs,
		"OverlayError": overlayError,
		"Destinations": destinations,
		"AdultsMax":    booking.AdultsMax,
		"ChildrenMax":  booking.ChildrenMax,
		"InfantsMax":   booking.InfantsMax,
		"SeniorsMax":   booking.SeniorsMax,
		"CsrfField":    csrf.TemplateField(r),
		"Flashes":      GetFlash(session),
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

func parseQuoteForm(r *http.Request) *booking.QuoteForm {
	form := booking.NewQuoteForm()
	form.DestinationID, _ = strconv.Atoi(r.FormValue("destination_id"))
	form.StartDate = r.FormValue("start_date")
	form.EndDate = r.FormValue("end_date")
	form.FlexibleDates = r.FormValue("flexible_dates") == "on"
	form.Adults = formCount(r, "adults", booking.AdultsMin)
	form.Children = formCount(r, "children", 0)
	form.Infants = formCount(r, "infants", 0)
	form.Seniors = formCount(r, "seniors", 0)
	form.Accommodation = r.FormValue("accommodation")
	form.SpecialRequests = r.FormValue("special_requests")
	form.ContactName = r.FormValue("name")
	form.ContactEmail = r.FormValue("email")
	form.ContactPhone = r.FormValue("phone")
	return form
}

func formCount(r *http.Request, field string, fallback int) int {
	n, err := strconv.Atoi(r.FormValue(field))
	if err != nil {
		return fallback
	}
	return n
}
