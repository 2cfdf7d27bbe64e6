package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func TestSecurityHeaders(t *testing.T) {
	handler := SecurityHeadersMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q", got)
	}
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
}

func TestRateLimiterPerIP(t *testing.T) {
	// Burst of 2 with no refill during the test.
	rl := NewRateLimiter(rate.Every(time.Hour), 2)
	handler := rl.Middleware(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	request := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/suscripcion", nil)
		req.RemoteAddr = ip
		rec := httptest.NewRecorder()
		handler(rec, req)
		return rec.Code
	}

	if got := request("10.0.0.1:1234"); got != http.StatusOK {
		t.Fatalf("first request rejected with %d", got)
	}
	if got := request("10.0.0.1:1234"); got != http.StatusOK {
		t.Fatalf("second request rejected with %d", got)
	}
	if got := request("10.0.0.1:1234"); got != http.StatusTooManyRequests {
		t.Fatalf("third request passed with %d", got)
	}

	// A different IP gets its own bucket.
	if got := request("10.0.0.2:1234"); got != http.StatusOK {
		t.Fatalf("other visitor throttled with %d", got)
	}
}

func TestStarGlyphs(t *testing.T) {
	cases := []struct {
		rating interface{}
		want   [5]string
	}{
		{5, [5]string{"filled", "filled", "filled", "filled", "filled"}},
		{3, [5]string{"filled", "filled", "filled", "empty", "empty"}},
		{1, [5]string{"filled", "empty", "empty", "empty", "empty"}},
		{4.5, [5]string{"filled", "filled", "filled", "filled", "half"}},
		{3.2, [5]string{"filled", "filled", "filled", "empty", "empty"}},
		{0, [5]string{"empty", "empty", "empty", "empty", "empty"}},
	}
	for _, tc := range cases {
		got := StarGlyphs(tc.rating)
		for i, want := range tc.want {
			if got[i] != want {
				t.Errorf("StarGlyphs(%v)[%d] = %q, want %q", tc.rating, i, got[i], want)
			}
		}
	}
}
