package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/fMoyano90/universonomada-web/internal/api"
	"github.com/fMoyano90/universonomada-web/internal/models"
)

// contentBackend serves the two home-page endpoints with a mutable slider
// count, so tests can change the content between fetches.
type contentBackend struct {
	mu      sync.Mutex
	sliders int
}

func (b *contentBackend) setSliders(n int) {
	b.mu.Lock()
	b.sliders = n
	b.mu.Unlock()
}

func (b *contentBackend) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/sliders/active":
			b.mu.Lock()
			n := b.sliders
			b.mu.Unlock()
			sliders := make([]models.Slider, n)
			for i := range sliders {
				sliders[i] = models.Slider{ID: i + 1, Title: "Slide", ImageURL: "/img.jpg"}
			}
			json.NewEncoder(w).Encode(sliders)
		case "/testimonials":
			w.Write([]byte(`[]`))
		default:
			http.NotFound(w, r)
		}
	})
}

func TestRefreshContentResizesCarousels(t *testing.T) {
	backend := &contentBackend{sliders: 4}
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	h := NewHomeHandler(api.NewClient(srv.URL), NewTemplateCache(), nil)
	defer h.Stop()

	h.RefreshContent(context.Background())
	if got := len(h.slides); got != 4 {
		t.Fatalf("slides after refresh = %d, want 4", got)
	}

	backend.setSliders(2)
	h.RefreshContent(context.Background())
	if got := len(h.slides); got != 2 {
		t.Fatalf("slides after second refresh = %d, want 2", got)
	}
}

func TestPeriodicRefreshPicksUpContentChanges(t *testing.T) {
	backend := &contentBackend{sliders: 1}
	srv := httptest.NewServer(backend.handler())
	defer srv.Close()

	h := NewHomeHandler(api.NewClient(srv.URL), NewTemplateCache(), nil)
	defer h.Stop()

	h.RefreshContent(context.Background())
	h.StartRefresh(10 * time.Millisecond)

	backend.setSliders(3)
	deadline := time.Now().Add(2 * time.Second)
	for {
		h.mu.RLock()
		n := len(h.slides)
		h.mu.RUnlock()
		if n == 3 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("refresh loop never saw the new sliders, still %d", n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}
