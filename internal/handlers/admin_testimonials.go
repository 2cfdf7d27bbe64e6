package handlers

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
	"github.com/nfnt/resize"

	"github.com/fMoyano90/universonomada-web/internal/models"
)

func (h *AdminHandler) ListAdminTestimonials(w http.ResponseWriter, r *http.Request) {
	testimonials, err := h.API.ListTestimonials(r.Context())
	if err != nil {
		slog.Error("Failed to fetch testimonials", "error", err)
		testimonials = nil
	}

	var average float64
	if len(testimonials) > 0 {
		sum := 0
		for _, t := range testimonials {
			sum += t.Rating
		}
		average = float64(sum) / float64(len(testimonials))
	}

	tmpl := h.Templates.Get("admin_testimonials.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	cookie, _ := h.SessionStore.Get(r, "admin-session")
	data := map[string]interface{}{
		"Testimonials":  testimonials,
		"AverageRating": average,
		"CsrfField":     csrf.TemplateField(r),
		"Flashes":       GetFlash(cookie),
	}
	cookie.Save(r, w)
	tmpl.Execute(w, data)
}

func (h *AdminHandler) CreateTestimonial(w http.ResponseWriter, r *http.Request) {
	cookie, _ := h.SessionStore.Get(r, "admin-session")
	defer cookie.Save(r, w)

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		cookie.AddFlash(FlashMessage{Type: "error", Message: "File too large. Max 10MB."})
		http.Redirect(w, r, "/admin/testimonios", http.StatusSeeOther)
		return
	}

	name := r.FormValue("name")
	text := r.FormValue("text")
	rating, err := strconv.Atoi(r.FormValue("rating"))
	if err != nil || rating < 1 || rating > 5 {
		cookie.AddFlash(FlashMessage{Type: "error", Message: "La calificación debe ser un entero entre 1 y 5."})
		http.Redirect(w, r, "/admin/testimonios", http.StatusSeeOther)
		return
	}
	if name == "" || text == "" {
		cookie.AddFlash(FlashMessage{Type: "error", Message: "Nombre y texto son obligatorios."})
		http.Redirect(w, r, "/admin/testimonios", http.StatusSeeOther)
		return
	}

	// Image is optional; an uploaded file wins over a pasted URL.
	imageURL := r.FormValue("image_url")
	if uploaded, ok := h.processTestimonialImage(r, cookie); ok {
		imageURL = uploaded
	}

	testimonial := &models.Testimonial{
		Name:     name,
		Rating:   rating,
		Text:     text,
		ImageURL: imageURL,
	}
	if err := h.API.CreateTestimonial(r.Context(), token(r), testimonial); err != nil {
		slog.Error("Failed to create testimonial", "error", err)
		cookie.AddFlash(FlashMessage{Type: "error", Message: apiErrorMessage(err, "Error al guardar el testimonio.")})
		http.Redirect(w, r, "/admin/testimonios", http.StatusSeeOther)
		return
	}

	cookie.AddFlash(FlashMessage{Type: "success", Message: "Testimonio agregado."})
	http.Redirect(w, r, "/admin/testimonios", http.StatusSeeOther)
}

// processTestimonialImage decodes, resizes and re-encodes the uploaded image
// before handing it to the backend's upload endpoint. ok means an image was
// uploaded and a hosted URL came back.
func (h *AdminHandler) processTestimonialImage(r *http.Request, cookie *sessions.Session) (string, bool) {
	file, header, err := r.FormFile("image")
	if err != nil {
		return "", false
	}
	defer file.Close()

	var img image.Image
	switch filepath.Ext(header.Filename) {
	case ".png":
		img, err = png.Decode(file)
	case ".jpg", ".jpeg":
		img, err = jpeg.Decode(file)
	default:
		cookie.AddFlash(FlashMessage{Type: "error", Message: "Formato no soportado. Solo PNG, JPG, JPEG."})
		return "", false
	}
	if err != nil {
		cookie.AddFlash(FlashMessage{Type: "error", Message: "No se pudo decodificar la imagen."})
		return "", false
	}

	// Max width 800px, preserve aspect ratio.
	resized := resize.Resize(800, 0, img, resize.Lanczos3)
	buf := &bytes.Buffer{}
	if err := jpeg.Encode(buf, resized, &jpeg.Options{Quality: 80}); err != nil {
		cookie.AddFlash(FlashMessage{Type: "error", Message: "Error al procesar la imagen."})
		return "", false
	}

	url, err := h.API.UploadTestimonialImage(r.Context(), token(r), uuid.New().String()+".jpg", buf)
	if err != nil {
		slog.Error("Testimonial image upload failed", "error", err)
		cookie.AddFlash(FlashMessage{Type: "error", Message: apiErrorMessage(err, "Error al subir la imagen.")})
		return "", false
	}
	return url, true
}

func (h *AdminHandler) UpdateTestimonial(w http.ResponseWriter, r *http.Request) {
	cookie, _ := h.SessionStore.Get(r, "admin-session")
	defer cookie.Save(r, w)

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		cookie.AddFlash(FlashMessage{Type: "error", Message: "File too large. Max 10MB."})
		http.Redirect(w, r, "/admin/testimonios", http.StatusSeeOther)
		return
	}

	id, err := strconv.Atoi(r.FormValue("id"))
	if err != nil {
		cookie.AddFlash(FlashMessage{Type: "error", Message: "ID inválido."})
		http.Redirect(w, r, "/admin/testimonios", http.StatusSeeOther)
		return
	}
	rating, _ := strconv.Atoi(r.FormValue("rating"))
	if rating < 1 {
		rating = 1
	}
	if rating > 5 {
		rating = 5
	}

	imageURL := r.FormValue("image_url")
	if uploaded, ok := h.processTestimonialImage(r, cookie); ok {
		imageURL = uploaded
	}

	testimonial := &models.Testimonial{
		ID:       id,
		Name:     r.FormValue("name"),
		Rating:   rating,
		Text:     r.FormValue("text"),
		ImageURL: imageURL,
	}
	if err := h.API.UpdateTestimonial(r.Context(), token(r), testimonial); err != nil {
		slog.Error("Failed to update testimonial", "id", id, "error", err)
		cookie.AddFlash(FlashMessage{Type: "error", Message: apiErrorMessage(err, "Error al actualizar el testimonio.")})
		http.Redirect(w, r, "/admin/testimonios", http.StatusSeeOther)
		return
	}

	cookie.AddFlash(FlashMessage{Type: "success", Message: "Testimonio actualizado."})
	http.Redirect(w, r, "/admin/testimonios", http.StatusSeeOther)
}

func (h *AdminHandler) DeleteTestimonial(w http.ResponseWriter, r *http.Request) {
	cookie, _ := h.SessionStore.Get(r, "admin-session")
	defer cookie.Save(r, w)

	id, err := strconv.Atoi(r.FormValue("id"))
	if err != nil {
		cookie.AddFlash(FlashMessage{Type: "error", Message: "ID inválido."})
		http.Redirect(w, r, "/admin/testimonios", http.StatusSeeOther)
		return
	}

	if err := h.API.DeleteTestimonial(r.Context(), token(r), id); err != nil {
		slog.Error("Failed to delete testimonial", "id", id, "error", err)
		cookie.AddFlash(FlashMessage{Type: "error", Message: apiErrorMessage(err, "Error al eliminar el testimonio.")})
		http.Redirect(w, r, "/admin/testimonios", http.StatusSeeOther)
		return
	}

	cookie.AddFlash(FlashMessage{Type: "success", Message: "Testimonio eliminado."})
	http.Redirect(w, r, "/admin/testimonios", http.StatusSeeOther)
}
