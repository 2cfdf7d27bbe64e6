package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"

	"github.com/fMoyano90/universonomada-web/internal/api"
	"github.com/fMoyano90/universonomada-web/internal/listing"
	"github.com/fMoyano90/universonomada-web/internal/models"
)

const destinationsPageSize = 6

type DestinationHandler struct {
	API          *api.Client
	Templates    *TemplateCache
	SessionStore *sessions.CookieStore
}

// National and International render the server-paginated grids. The page
// parameter is clamped against the total-derived page count, so requesting
// past the last page is a no-op on the boundary.
func (h *DestinationHandler) National(w http.ResponseWriter, r *http.Request) {
	h.renderGrid(w, r, models.DestinationNational, "destinations_national.html", "Destinos Nacionales")
}

func (h *DestinationHandler) International(w http.ResponseWriter, r *http.Request) {
	h.renderGrid(w, r, models.DestinationInternational, "destinations_international.html", "Destinos Internacionales")
}

func (h *DestinationHandler) renderGrid(w http.ResponseWriter, r *http.Request, destType, templateName, title string) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	items, total, err := h.API.ListDestinations(r.Context(), destType, page, destinationsPageSize)
	if err != nil {
		slog.Error("Failed to fetch destinations", "type", destType, "error", err)
		items = nil
		total = 0
	}

	totalPages := listing.Pages(total, destinationsPageSize)
	clamped := listing.ClampPage(page, totalPages)
	if clamped != page {
		// The requested page does not exist; re-fetch the boundary page.
		page = clamped
		items, _, err = h.API.ListDestinations(r.Context(), destType, page, destinationsPageSize)
		if err != nil {
			items = nil
		}
	}

	tmpl := h.Templates.Get(templateName)
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	session, _ := h.SessionStore.Get(r, "public-session")
	data := map[string]interface{}{
		"Title":       title,
		"Items":       items,
		"CurrentPage": page,
		"TotalPages":  totalPages,
		"PageNumbers": listing.PageNumbers(totalPages),
		"Flashes":     GetFlash(session),
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

// Catalog is the filterable international listing: the full list is fetched
// once per request and filtered/sorted in-process, recomputed on every
// change of the query parameters.
func (h *DestinationHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	priceBracket := r.URL.Query().Get("price")
	availability := r.URL.Query().Get("tag")
	sortBy := r.URL.Query().Get("sort")

	items, _, err := h.API.ListDestinations(r.Context(), models.DestinationInternational, 1, 100)
	if err != nil {
		slog.Error("Failed to fetch catalog", "error", err)
		items = nil
	}

	filtered := listing.FilterSort(items, priceBracket, availability, sortBy)

	tmpl := h.Templates.Get("catalog.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	session, _ := h.SessionStore.Get(r, "public-session")
	data := map[string]interface{}{
		"Items":        filtered,
		"PriceBracket": priceBracket,
		"Availability": availability,
		"SortBy":       sortBy,
		"Flashes":      GetFlash(session),
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

// Detail renders one destination by slug: itinerary, includes/excludes,
// FAQs and gallery.
func (h *DestinationHandler) Detail(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		http.Error(w, "Destino no encontrado", http.StatusNotFound)
		return
	}

	destination, err := h.API.GetDestinationBySlug(r.Context(), slug)
	if err != nil {
		slog.Warn("Destination lookup failed", "slug", slug, "error", err)
		http.Error(w, "Destino no encontrado", http.StatusNotFound)
		return
	}

	tmpl := h.Templates.Get("destination_detail.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	session, _ := h.SessionStore.Get(r, "public-session")
	data := map[string]interface{}{
		"Destination": destination,
		"CsrfField":   csrf.TemplateField(r),
		"Flashes":     GetFlash(session),
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}
