package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"

	"github.com/fMoyano90/universonomada-web/internal/api"
	"github.com/fMoyano90/universonomada-web/internal/carousel"
	"github.com/fMoyano90/universonomada-web/internal/models"
)

const (
	heroInterval        = 6 * time.Second
	testimonialInterval = 5 * time.Second
	testimonialsPerPage = 3
)

// defaultSlides is the fixed fallback when the slider fetch fails or comes
// back empty. The hero must never render blank; testimonials may.
var defaultSlides = []models.Slider{
	{Title: "Torres del Paine", Subtitle: "Trekking por la Patagonia chilena", Location: "Magallanes, Chile", ImageURL: "/static/img/hero-torres.jpg"},
	{Title: "San Pedro de Atacama", Subtitle: "El desierto más árido del mundo", Location: "Antofagasta, Chile", ImageURL: "/static/img/hero-atacama.jpg"},
	{Title: "Isla de Pascua", Subtitle: "El ombligo del mundo te espera", Location: "Valparaíso, Chile", ImageURL: "/static/img/hero-rapanui.jpg"},
}

type HomeHandler struct {
	API          *api.Client
	Templates    *TemplateCache
	SessionStore *sessions.CookieStore

	mu           sync.RWMutex
	slides       []models.Slider
	testimonials []models.Testimonial

	hero             *carousel.Carousel
	testimonialPages *carousel.Carousel

	done     chan struct{}
	stopOnce sync.Once
}

func NewHomeHandler(apiClient *api.Client, templates *TemplateCache, sessionStore *sessions.CookieStore) *HomeHandler {
	return &HomeHandler{
		API:              apiClient,
		Templates:        templates,
		SessionStore:     sessionStore,
		hero:             carousel.New(0, heroInterval),
		testimonialPages: carousel.New(0, testimonialInterval),
		done:             make(chan struct{}),
	}
}

// RefreshContent fetches the hero sliders and testimonials and resizes both
// carousels. A failed or empty slider fetch falls back to the built-in
// slides; failed testimonials degrade to an empty section.
func (h *HomeHandler) RefreshContent(ctx context.Context) {
	slides, err := h.API.ListActiveSliders(ctx)
	if err != nil {
		slog.Warn("Falling back to built-in hero slides", "error", err)
		slides = defaultSlides
	}
	if len(slides) == 0 {
		slides = defaultSlides
	}

	testimonials, err := h.API.ListTestimonials(ctx)
	if err != nil {
		slog.Warn("Testimonials unavailable", "error", err)
		testimonials = nil
	}

	h.mu.Lock()
	h.slides = slides
	h.testimonials = testimonials
	h.mu.Unlock()

	h.hero.SetCount(len(slides))
	h.testimonialPages.SetCount(carousel.PageCount(len(testimonials), testimonialsPerPage))
}

// StartRefresh re-fetches the home content on a fixed interval, so slider
// and testimonial edits in the admin reach the public page without a
// restart. Stop ends the loop.
func (h *HomeHandler) StartRefresh(interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-h.done:
				return
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				h.RefreshContent(ctx)
				cancel()
			}
		}
	}()
}

// Stop ends the refresh loop and releases both autoplay timers on shutdown.
func (h *HomeHandler) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
	h.hero.Stop()
	h.testimonialPages.Stop()
}

func (h *HomeHandler) Index(w http.ResponseWriter, r *http.Request) {
	tmpl := h.Templates.Get("home.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	h.mu.RLock()
	slides := h.slides
	testimonials := h.testimonials
	h.mu.RUnlock()

	page := h.testimonialPages.Index()
	start := page * testimonialsPerPage
	end := start + testimonialsPerPage
	if start > len(testimonials) {
		start = len(testimonials)
	}
	if end > len(testimonials) {
		end = len(testimonials)
	}

	session, _ := h.SessionStore.Get(r, "public-session")
	data := map[string]interface{}{
		"Slides":           slides,
		"SlideIndex":       h.hero.Index(),
		"SlideDirection":   h.hero.Direction(),
		"Testimonials":     testimonials[start:end],
		"TestimonialPage":  page,
		"TestimonialPages": carousel.PageCount(len(testimonials), testimonialsPerPage),
		"CsrfField":        csrf.TemplateField(r),
		"Flashes":          GetFlash(session),
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

func (h *HomeHandler) HeroNext(w http.ResponseWriter, r *http.Request) {
	h.hero.Next()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *HomeHandler) HeroPrev(w http.ResponseWriter, r *http.Request) {
	h.hero.Prev()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *HomeHandler) HeroGoTo(w http.ResponseWriter, r *http.Request) {
	if i, err := strconv.Atoi(r.URL.Query().Get("i")); err == nil {
		h.hero.GoTo(i)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *HomeHandler) TestimonialsNext(w http.ResponseWriter, r *http.Request) {
	h.testimonialPages.Next()
	http.Redirect(w, r, "/#testimonios", http.StatusSeeOther)
}

func (h *HomeHandler) TestimonialsPrev(w http.ResponseWriter, r *http.Request) {
	h.testimonialPages.Prev()
	http.Redirect(w, r, "/#testimonios", http.StatusSeeOther)
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func isValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// Subscribe handles the newsletter form in the footer.
func (h *HomeHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, "public-session")
	defer session.Save(r, w)

	email := r.FormValue("email")
	name := r.FormValue("name")

	if !isValidEmail(email) {
		session.AddFlash(FlashMessage{Type: "error", Message: "Ingresa un email válido para suscribirte."})
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if err := h.API.Subscribe(r.Context(), email, name); err != nil {
		slog.Error("Subscription failed", "error", err)
		session.AddFlash(FlashMessage{Type: "error", Message: apiErrorMessage(err, "No pudimos registrar tu suscripción. Intenta nuevamente.")})
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	session.AddFlash(FlashMessage{Type: "success", Message: "¡Gracias por suscribirte!"})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// apiErrorMessage prefers the backend's message when the error carries one.
func apiErrorMessage(err error, fallback string) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
