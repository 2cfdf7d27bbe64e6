package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"

	"github.com/fMoyano90/universonomada-web/internal/listing"
	"github.com/fMoyano90/universonomada-web/internal/session"
	"github.com/fMoyano90/universonomada-web/internal/wizard"
)

const adminDestinationsPageSize = 10

func (h *AdminHandler) ListAdminDestinations(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	items, total, err := h.API.ListDestinations(r.Context(), "", page, adminDestinationsPageSize)
	if err != nil {
		slog.Error("Failed to fetch destinations", "error", err)
		items = nil
	}
	totalPages := listing.Pages(total, adminDestinationsPageSize)

	tmpl := h.Templates.Get("admin_destinations.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	cookie, _ := h.SessionStore.Get(r, "admin-session")
	data := map[string]interface{}{
		"Items":       items,
		"CurrentPage": listing.ClampPage(page, totalPages),
		"TotalPages":  totalPages,
		"PageNumbers": listing.PageNumbers(totalPages),
		"CsrfField":   csrf.TemplateField(r),
		"Flashes":     GetFlash(cookie),
	}
	cookie.Save(r, w)
	tmpl.Execute(w, data)
}

// NewDestination starts a fresh draft and enters the wizard at step one.
func (h *AdminHandler) NewDestination(w http.ResponseWriter, r *http.Request) {
	draft := wizard.NewDraft()
	h.openDraft(w, r, draft)
}

// EditDestination seeds the draft from the existing record.
func (h *AdminHandler) EditDestination(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	destination, err := h.API.GetDestination(r.Context(), id)
	if err != nil {
		http.Error(w, "Destino no encontrado", http.StatusNotFound)
		return
	}

	h.openDraft(w, r, wizard.FromDestination(destination))
}

func (h *AdminHandler) openDraft(w http.ResponseWriter, r *http.Request, draft *wizard.Draft) {
	if err := h.Sessions.SaveDraft(r.Context(), draft.ID, draft); err != nil {
		slog.Error("Failed to save draft", "error", err)
		http.Error(w, "Failed to start form", http.StatusInternalServerError)
		return
	}

	cookie, _ := h.SessionStore.Get(r, "admin-session")
	cookie.Values["draft_id"] = draft.ID
	cookie.Save(r, w)
	http.Redirect(w, r, "/admin/destinos/wizard", http.StatusSeeOther)
}

func (h *AdminHandler) loadDraft(w http.ResponseWriter, r *http.Request) *wizard.Draft {
	cookie, _ := h.SessionStore.Get(r, "admin-session")
	draftID, _ := cookie.Values["draft_id"].(string)
	if draftID == "" {
		http.Redirect(w, r, "/admin/destinos", http.StatusSeeOther)
		return nil
	}

	var draft wizard.Draft
	if err := h.Sessions.GetDraft(r.Context(), draftID, &draft); err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			slog.Error("Failed to load draft", "error", err)
		}
		cookie.AddFlash(FlashMessage{Type: "error", Message: "El borrador expiró. Comienza de nuevo."})
		cookie.Save(r, w)
		http.Redirect(w, r, "/admin/destinos", http.StatusSeeOther)
		return nil
	}
	return &draft
}

// DestinationWizard renders the current step of the draft.
func (h *AdminHandler) DestinationWizard(w http.ResponseWriter, r *http.Request) {
	draft := h.loadDraft(w, r)
	if draft == nil {
		return
	}

	tmpl := h.Templates.Get("admin_destination_form.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	cookie, _ := h.SessionStore.Get(r, "admin-session")
	data := map[string]interface{}{
		"Draft":     draft,
		"CsrfField": csrf.TemplateField(r),
		"Flashes":   GetFlash(cookie),
	}
	cookie.Save(r, w)
	tmpl.Execute(w, data)
}

// DestinationWizardPost applies the posted step fields to the draft and then
// dispatches on the pressed button. Step navigation saves without
// validating; validation runs only on the final submit.
func (h *AdminHandler) DestinationWizardPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "File too large. Max 32MB.", http.StatusBadRequest)
		return
	}

	draft := h.loadDraft(w, r)
	if draft == nil {
		return
	}

	cookie, _ := h.SessionStore.Get(r, "admin-session")
	h.applyStep(r, draft)

	action := r.FormValue("action")
	idx, _ := strconv.Atoi(r.FormValue("index"))

	switch action {
	case "next":
		draft.NextStep()
	case "prev":
		draft.PrevStep()
	case "add_itinerary":
		draft.AddItinerary()
	case "remove_itinerary":
		draft.RemoveItinerary(idx)
	case "add_include":
		draft.AddInclude()
	case "remove_include":
		draft.RemoveInclude(idx)
	case "add_exclude":
		draft.AddExclude()
	case "remove_exclude":
		draft.RemoveExclude(idx)
	case "add_tip":
		draft.AddTip()
	case "remove_tip":
		draft.RemoveTip(idx)
	case "add_faq":
		draft.AddFaq()
	case "remove_faq":
		draft.RemoveFaq(idx)
	case "remove_main_image":
		h.discardStaged(draft.RemoveMainImage())
	case "add_gallery_url":
		if u := r.FormValue("gallery_url"); u != "" {
			draft.AddGalleryURL(u)
		}
	case "remove_gallery":
		h.discardStaged(draft.RemoveGalleryItem(idx))
	case "submit":
		h.submitDraft(w, r, cookie, draft)
		return
	}

	if err := h.Sessions.SaveDraft(r.Context(), draft.ID, draft); err != nil {
		slog.Error("Failed to save draft", "error", err)
	}
	http.Redirect(w, r, "/admin/destinos/wizard", http.StatusSeeOther)
}

func (h *AdminHandler) submitDraft(w http.ResponseWriter, r *http.Request, cookie *sessions.Session, draft *wizard.Draft) {
	// Ref-style submit lock: a draft mid-submission rejects a second post.
	if !draft.BeginSubmit() {
		cookie.AddFlash(FlashMessage{Type: "error", Message: "Ya hay un envío en curso."})
		cookie.Save(r, w)
		http.Redirect(w, r, "/admin/destinos/wizard", http.StatusSeeOther)
		return
	}

	if errs := draft.Validate(); len(errs) > 0 {
		draft.EndSubmit()
		for _, msg := range errs {
			cookie.AddFlash(FlashMessage{Type: "error", Message: msg})
		}
		h.Sessions.SaveDraft(r.Context(), draft.ID, draft)
		cookie.Save(r, w)
		http.Redirect(w, r, "/admin/destinos/wizard", http.StatusSeeOther)
		return
	}

	// Persist the held lock before calling the API, so a concurrent post
	// loads Submitting=true and is rejected above.
	if err := h.Sessions.SaveDraft(r.Context(), draft.ID, draft); err != nil {
		slog.Error("Failed to save draft", "error", err)
	}

	payload := draft.Payload()
	var err error
	if draft.IsEditing() {
		err = h.API.UpdateDestination(r.Context(), token(r), draft.EditID, payload)
	} else {
		err = h.API.CreateDestination(r.Context(), token(r), payload)
	}

	if err != nil {
		// A rejected submission re-enables the form and keeps the values.
		slog.Error("Destination submission failed", "error", err)
		draft.EndSubmit()
		h.Sessions.SaveDraft(r.Context(), draft.ID, draft)
		cookie.AddFlash(FlashMessage{Type: "error", Message: apiErrorMessage(err, "Error al guardar el destino.")})
		cookie.Save(r, w)
		http.Redirect(w, r, "/admin/destinos/wizard", http.StatusSeeOther)
		return
	}

	// Staged files were consumed by the upload; remove them from disk.
	h.discardStaged(draft.MainImage.FilePath)
	for _, slot := range draft.Gallery {
		h.discardStaged(slot.FilePath)
	}

	if draft.IsEditing() {
		draft.EndSubmit()
		if err := h.Sessions.SaveDraft(r.Context(), draft.ID, draft); err != nil {
			slog.Warn("Failed to release draft lock", "error", err)
		}
		cookie.AddFlash(FlashMessage{Type: "success", Message: "Destino actualizado."})
	} else {
		// Creating clears the form.
		if err := h.Sessions.DeleteDraft(r.Context(), draft.ID); err != nil {
			slog.Warn("Failed to delete draft", "error", err)
		}
		delete(cookie.Values, "draft_id")
		cookie.AddFlash(FlashMessage{Type: "success", Message: "Destino creado exitosamente."})
	}
	cookie.Save(r, w)
	http.Redirect(w, r, "/admin/destinos", http.StatusSeeOther)
}

// applyStep copies the posted fields of the current step into the draft.
func (h *AdminHandler) applyStep(r *http.Request, draft *wizard.Draft) {
	switch draft.Step {
	case wizard.StepBasic:
		draft.Title = r.FormValue("title")
		draft.Slug = r.FormValue("slug")
		draft.Type = r.FormValue("type")
		draft.Location = r.FormValue("location")
		draft.PriceText = r.FormValue("price")
		draft.Duration = r.FormValue("duration")
		draft.GroupSize = r.FormValue("group_size")
		draft.ActivityLevel = r.FormValue("activity_level")
		draft.ActivityType = r.Form["activity_type"]
	case wizard.StepContent:
		draft.Description = r.FormValue("description")
		for i := range draft.Itinerary {
			draft.SetItinerary(i,
				r.FormValue(fmt.Sprintf("itinerary_day_%d", i)),
				r.FormValue(fmt.Sprintf("itinerary_title_%d", i)),
				r.FormValue(fmt.Sprintf("itinerary_details_%d", i)),
			)
		}
		for i := range draft.Includes {
			draft.SetInclude(i, r.FormValue(fmt.Sprintf("include_%d", i)))
		}
		for i := range draft.Excludes {
			draft.SetExclude(i, r.FormValue(fmt.Sprintf("exclude_%d", i)))
		}
		for i := range draft.Tips {
			draft.SetTip(i, r.FormValue(fmt.Sprintf("tip_%d", i)))
		}
	case wizard.StepAdvanced:
		for i := range draft.Faqs {
			draft.SetFaq(i,
				r.FormValue(fmt.Sprintf("faq_question_%d", i)),
				r.FormValue(fmt.Sprintf("faq_answer_%d", i)),
			)
		}
		draft.IsRecommended = r.FormValue("is_recommended") == "on"
		draft.IsSpecial = r.FormValue("is_special") == "on"
		draft.SetMainImageURL(r.FormValue("main_image_url"))

		if path, ok := h.stageUpload(r, "main_image"); ok {
			h.discardStaged(draft.SetMainImageFile(path))
		}
		if path, ok := h.stageUpload(r, "gallery_file"); ok {
			draft.AddGalleryFile(path)
		}
	}
}

// stageUpload copies an uploaded file into the draft staging area and
// returns its path. The staged file is the local preview slot; it is
// removed exactly once, on replace/remove or after a successful submit.
func (h *AdminHandler) stageUpload(r *http.Request, field string) (string, bool) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return "", false
	}
	defer file.Close()

	dir := filepath.Join(h.UploadDir, "drafts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		slog.Error("Failed to create staging dir", "error", err)
		return "", false
	}

	path := filepath.Join(dir, uuid.New().String()+filepath.Ext(header.Filename))
	out, err := os.Create(path)
	if err != nil {
		slog.Error("Failed to stage upload", "error", err)
		return "", false
	}
	defer out.Close()

	if _, err := io.Copy(out, file); err != nil {
		slog.Error("Failed to write staged upload", "error", err)
		os.Remove(path)
		return "", false
	}
	return path, true
}

func (h *AdminHandler) discardStaged(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		slog.Warn("Failed to remove staged file", "path", path, "error", err)
	}
}

func (h *AdminHandler) DeleteDestination(w http.ResponseWriter, r *http.Request) {
	cookie, _ := h.SessionStore.Get(r, "admin-session")
	defer cookie.Save(r, w)

	id, err := strconv.Atoi(r.FormValue("id"))
	if err != nil {
		cookie.AddFlash(FlashMessage{Type: "error", Message: "ID inválido."})
		http.Redirect(w, r, "/admin/destinos", http.StatusSeeOther)
		return
	}

	if err := h.API.DeleteDestination(r.Context(), token(r), id); err != nil {
		slog.Error("Failed to delete destination", "id", id, "error", err)
		cookie.AddFlash(FlashMessage{Type: "error", Message: apiErrorMessage(err, "Error al eliminar el destino.")})
		http.Redirect(w, r, "/admin/destinos", http.StatusSeeOther)
		return
	}

	cookie.AddFlash(FlashMessage{Type: "success", Message: "Destino eliminado."})
	http.Redirect(w, r, "/admin/destinos", http.StatusSeeOther)
}
