package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/csrf"

	"github.com/fMoyano90/universonomada-web/internal/listing"
)

const subscriptionsPageSize = 20

func (h *AdminHandler) ListAdminSubscriptions(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	subscriptions, total, err := h.API.ListSubscriptions(r.Context(), token(r), page, subscriptionsPageSize)
	if err != nil {
		slog.Error("Failed to fetch subscriptions", "error", err)
		subscriptions = nil
	}
	totalPages := listing.Pages(total, subscriptionsPageSize)

	tmpl := h.Templates.Get("admin_subscriptions.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	cookie, _ := h.SessionStore.Get(r, "admin-session")
	data := map[string]interface{}{
		"Subscriptions": subscriptions,
		"CurrentPage":   listing.ClampPage(page, totalPages),
		"TotalPages":    totalPages,
		"PageNumbers":   listing.PageNumbers(totalPages),
		"CsrfField":     csrf.TemplateField(r),
		"Flashes":       GetFlash(cookie),
	}
	cookie.Save(r, w)
	tmpl.Execute(w, data)
}

func (h *AdminHandler) ToggleSubscription(w http.ResponseWriter, r *http.Request) {
	cookie, _ := h.SessionStore.Get(r, "admin-session")
	defer cookie.Save(r, w)

	id, err := strconv.Atoi(r.FormValue("id"))
	if err != nil {
		cookie.AddFlash(FlashMessage{Type: "error", Message: "ID inválido."})
		http.Redirect(w, r, "/admin/suscripciones", http.StatusSeeOther)
		return
	}
	active := r.FormValue("active") == "1"

	if err := h.API.ToggleSubscription(r.Context(), token(r), id, active); err != nil {
		slog.Error("Failed to toggle subscription", "id", id, "error", err)
		cookie.AddFlash(FlashMessage{Type: "error", Message: apiErrorMessage(err, "Error al actualizar la suscripción.")})
		http.Redirect(w, r, "/admin/suscripciones", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/admin/suscripciones", http.StatusSeeOther)
}

func (h *AdminHandler) DeleteSubscription(w http.ResponseWriter, r *http.Request) {
	cookie, _ := h.SessionStore.Get(r, "admin-session")
	defer cookie.Save(r, w)

	id, err := strconv.Atoi(r.FormValue("id"))
	if err != nil {
		cookie.AddFlash(FlashMessage{Type: "error", Message: "ID inválido."})
		http.Redirect(w, r, "/admin/suscripciones", http.StatusSeeOther)
		return
	}

	if err := h.API.DeleteSubscription(r.Context(), token(r), id); err != nil {
		slog.Error("Failed to delete subscription", "id", id, "error", err)
		cookie.AddFlash(FlashMessage{Type: "error", Message: apiErrorMessage(err, "Error al eliminar la suscripción.")})
		http.Redirect(w, r, "/admin/suscripciones", http.StatusSeeOther)
		return
	}

	cookie.AddFlash(FlashMessage{Type: "success", Message: "Suscripción eliminada."})
	http.Redirect(w, r, "/admin/suscripciones", http.StatusSeeOther)
}
