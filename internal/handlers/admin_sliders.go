package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/csrf"

	"github.com/fMoyano90/universonomada-web/internal/models"
)

func (h *AdminHandler) ListAdminSliders(w http.ResponseWriter, r *http.Request) {
	sliders, err := h.API.ListSliders(r.Context(), token(r))
	if err != nil {
		slog.Error("Failed to fetch sliders", "error", err)
		sliders = nil
	}

	tmpl := h.Templates.Get("admin_sliders.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	cookie, _ := h.SessionStore.Get(r, "admin-session")
	data := map[string]interface{}{
		"Sliders":   sliders,
		"CsrfField": csrf.TemplateField(r),
		"Flashes":   GetFlash(cookie),
	}
	cookie.Save(r, w)
	tmpl.Execute(w, data)
}

func sliderFromForm(r *http.Request) *models.Slider {
	order, _ := strconv.Atoi(r.FormValue("display_order"))
	return &models.Slider{
		Title:      r.FormValue("title"),
		Subtitle:   r.FormValue("subtitle"),
		Location:   r.FormValue("location"),
		ImageURL:   r.FormValue("image_url"),
		ButtonText: r.FormValue("button_text"),
		ButtonURL:  r.FormValue("button_url"),
		IsActive:   r.FormValue("is_active") == "on",
		SortOrder:  order,
	}
}

func (h *AdminHandler) CreateSlider(w http.ResponseWriter, r *http.Request) {
	cookie, _ := h.SessionStore.Get(r, "admin-session")
	defer cookie.Save(r, w)

	slider := sliderFromForm(r)
	if slider.Title == "" || slider.ImageURL == "" {
		cookie.AddFlash(FlashMessage{Type: "error", Message: "Título e imagen son obligatorios."})
		http.Redirect(w, r, "/admin/sliders", http.StatusSeeOther)
		return
	}

	if err := h.API.CreateSlider(r.Context(), token(r), slider); err != nil {
		slog.Error("Failed to create slider", "error", err)
		cookie.AddFlash(FlashMessage{Type: "error", Message: apiErrorMessage(err, "Error al crear el slider.")})
		http.Redirect(w, r, "/admin/sliders", http.StatusSeeOther)
		return
	}

	cookie.AddFlash(FlashMessage{Type: "success", Message: "Slider creado."})
	http.Redirect(w, r, "/admin/sliders", http.StatusSeeOther)
}

func (h *AdminHandler) UpdateSlider(w http.ResponseWriter, r *http.Request) {
	cookie, _ := h.SessionStore.Get(r, "admin-session")
	defer cookie.Save(r, w)

	id, err := strconv.Atoi(r.FormValue("id"))
	if err != nil {
		cookie.AddFlash(FlashMessage{Type: "error", Message: "ID inválido."})
		http.Redirect(w, r, "/admin/sliders", http.StatusSeeOther)
		return
	}

	slider := sliderFromForm(r)
	slider.ID = id
	if err := h.API.UpdateSlider(r.Context(), token(r), slider); err != nil {
		slog.Error("Failed to update slider", "id", id, "error", err)
		cookie.AddFlash(FlashMessage{Type: "error", Message: apiErrorMessage(err, "Error al actualizar el slider.")})
		http.Redirect(w, r, "/admin/sliders", http.StatusSeeOther)
		return
	}

	cookie.AddFlash(FlashMessage{Type: "success", Message: "Slider actualizado."})
	http.Redirect(w, r, "/admin/sliders", http.StatusSeeOther)
}

// MoveSlider reorders by swapping display order with the neighbor in the
// given direction. At the first/last position the move is a no-op.
func (h *AdminHandler) MoveSlider(w http.ResponseWriter, r *http.Request) {
	cookie, _ := h.SessionStore.Get(r, "admin-session")
	defer cookie.Save(r, w)

	id, err := strconv.Atoi(r.FormValue("id"))
	if err != nil {
		cookie.AddFlash(FlashMessage{Type: "error", Message: "ID inválido."})
		http.Redirect(w, r, "/admin/sliders", http.StatusSeeOther)
		return
	}
	direction := r.FormValue("direction") // "up" or "down"

	sliders, err := h.API.ListSliders(r.Context(), token(r))
	if err != nil {
		slog.Error("Failed to fetch sliders for reorder", "error", err)
		http.Redirect(w, r, "/admin/sliders", http.StatusSeeOther)
		return
	}

	pos := -1
	for i, s := range sliders {
		if s.ID == id {
			pos = i
			break
		}
	}
	if pos == -1 {
		http.Redirect(w, r, "/admin/sliders", http.StatusSeeOther)
		return
	}

	neighbor := pos - 1
	if direction == "down" {
		neighbor = pos + 1
	}
	if neighbor < 0 || neighbor >= len(sliders) {
		// Already at the boundary.
		http.Redirect(w, r, "/admin/sliders", http.StatusSeeOther)
		return
	}

	a, b := sliders[pos], sliders[neighbor]
	if err := h.API.UpdateSliderOrder(r.Context(), token(r), a.ID, b.SortOrder); err != nil {
		slog.Error("Failed to reorder slider", "id", a.ID, "error", err)
		cookie.AddFlash(FlashMessage{Type: "error", Message: "Error al reordenar."})
		http.Redirect(w, r, "/admin/sliders", http.StatusSeeOther)
		return
	}
	if err := h.API.UpdateSliderOrder(r.Context(), token(r), b.ID, a.SortOrder); err != nil {
		slog.Error("Failed to reorder neighbor", "id", b.ID, "error", err)
		cookie.AddFlash(FlashMessage{Type: "error", Message: "Error al reordenar."})
		http.Redirect(w, r, "/admin/sliders", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/admin/sliders", http.StatusSeeOther)
}

func (h *AdminHandler) DeleteSlider(w http.ResponseWriter, r *http.Request) {
	cookie, _ := h.SessionStore.Get(r, "admin-session")
	defer cookie.Save(r, w)

	id, err := strconv.Atoi(r.FormValue("id"))
	if err != nil {
		cookie.AddFlash(FlashMessage{Type: "error", Message: "ID inválido."})
		http.Redirect(w, r, "/admin/sliders", http.StatusSeeOther)
		return
	}

	if err := h.API.DeleteSlider(r.Context(), token(r), id); err != nil {
		slog.Error("Failed to delete slider", "id", id, "error", err)
		cookie.AddFlash(FlashMessage{Type: "error", Message: apiErrorMessage(err, "Error al eliminar el slider.")})
		http.Redirect(w, r, "/admin/sliders", http.StatusSeeOther)
		return
	}

	cookie.AddFlash(FlashMessage{Type: "success", Message: "Slider eliminado."})
	http.Redirect(w, r, "/admin/sliders", http.StatusSeeOther)
}
