package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
	"golang.org/x/time/rate"

	"github.com/fMoyano90/universonomada-web/internal/api"
	"github.com/fMoyano90/universonomada-web/internal/config"
	"github.com/fMoyano90/universonomada-web/internal/handlers"
	"github.com/fMoyano90/universonomada-web/internal/session"
)

func main() {
	handlerOpts := &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, handlerOpts))
	slog.SetDefault(logger)

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. API client and Redis-backed session/draft store
	apiClient := api.NewClient(cfg.APIBaseURL)

	sessionRecords := session.NewStore(cfg.RedisAddr, cfg.RedisPass)
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	if err := sessionRecords.Ping(pingCtx); err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		cancelPing()
		os.Exit(1)
	}
	cancelPing()

	// 3. Cookie Session Setup
	sessionStore := sessions.NewCookieStore(cfg.SessionKey)
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.Secure = cfg.CookieSecure
	sessionStore.Options.SameSite = http.SameSiteLaxMode
	sessionStore.Options.Path = "/"
	if cfg.CookieDomain != "" {
		sessionStore.Options.Domain = cfg.CookieDomain
	}

	// 4. Init Templates
	templates := handlers.NewTemplateCache()
	if err := templates.Load("templates"); err != nil {
		slog.Error("Failed to load templates", "error", err)
		os.Exit(1)
	}

	// 5. Setup Handlers
	homeHandler := handlers.NewHomeHandler(apiClient, templates, sessionStore)
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 10*time.Second)
	homeHandler.RefreshContent(startupCtx)
	cancelStartup()
	homeHandler.StartRefresh(time.Minute)
	defer homeHandler.Stop()

	destinationHandler := &handlers.DestinationHandler{
		API:          apiClient,
		Templates:    templates,
		SessionStore: sessionStore,
	}
	quoteHandler := &handlers.QuoteHandler{
		API:          apiClient,
		Templates:    templates,
		SessionStore: sessionStore,
	}
	adminHandler := &handlers.AdminHandler{
		API:          apiClient,
		Sessions:     sessionRecords,
		SessionStore: sessionStore,
		Templates:    templates,
		UploadDir:    cfg.UploadDir,
	}

	mux := http.NewServeMux()

	// Static Files
	fileServer := http.FileServer(http.Dir("./static"))
	mux.Handle("/static/", http.StripPrefix("/static", fileServer))

	// Rate limiter for the public POST endpoints (1 req/10s, burst 3)
	rateLimiter := handlers.NewRateLimiter(rate.Every(10*time.Second), 3)

	// Public Routes
	mux.HandleFunc("/{$}", homeHandler.Index)
	mux.HandleFunc("/hero/next", homeHandler.HeroNext)
	mux.HandleFunc("/hero/prev", homeHandler.HeroPrev)
	mux.HandleFunc("/hero/goto", homeHandler.HeroGoTo)
	mux.HandleFunc("/testimonios/next", homeHandler.TestimonialsNext)
	mux.HandleFunc("/testimonios/prev", homeHandler.TestimonialsPrev)

	mux.HandleFunc("/destinos/nacionales", destinationHandler.National)
	mux.HandleFunc("/destinos/internacionales", destinationHandler.International)
	mux.HandleFunc("/internacionales", destinationHandler.Catalog)
	mux.HandleFunc("/destinos/{slug}", destinationHandler.Detail)

	mux.HandleFunc("/personaliza", quoteHandler.Form)
	mux.HandleFunc("POST /personaliza", rateLimiter.Middleware(quoteHandler.Submit))
	mux.HandleFunc("POST /suscripcion", rateLimiter.Middleware(homeHandler.Subscribe))

	mux.HandleFunc("/login", adminHandler.LoginGet)
	mux.HandleFunc("POST /login", adminHandler.LoginPost)
	mux.HandleFunc("/logout", adminHandler.Logout)

	// Protected Routes
	mux.HandleFunc("/admin", adminHandler.AuthMiddleware(adminHandler.Dashboard))
	mux.HandleFunc("POST /admin/session/refresh", adminHandler.AuthMiddleware(adminHandler.RefreshSession))

	mux.HandleFunc("/admin/destinos", adminHandler.AuthMiddleware(adminHandler.ListAdminDestinations))
	mux.HandleFunc("/admin/destinos/new", adminHandler.AuthMiddleware(adminHandler.NewDestination))
	mux.HandleFunc("/admin/destinos/edit", adminHandler.AuthMiddleware(adminHandler.EditDestination))
	mux.HandleFunc("/admin/destinos/wizard", adminHandler.AuthMiddleware(adminHandler.DestinationWizard))
	mux.HandleFunc("POST /admin/destinos/wizard", adminHandler.AuthMiddleware(adminHandler.DestinationWizardPost))
	mux.HandleFunc("POST /admin/destinos/delete", adminHandler.AuthMiddleware(adminHandler.DeleteDestination))

	mux.HandleFunc("/admin/sliders", adminHandler.AuthMiddleware(adminHandler.ListAdminSliders))
	mux.HandleFunc("POST /admin/sliders", adminHandler.AuthMiddleware(adminHandler.CreateSlider))
	mux.HandleFunc("POST /admin/sliders/update", adminHandler.AuthMiddleware(adminHandler.UpdateSlider))
	mux.HandleFunc("POST /admin/sliders/move", adminHandler.AuthMiddleware(adminHandler.MoveSlider))
	mux.HandleFunc("POST /admin/sliders/delete", adminHandler.AuthMiddleware(adminHandler.DeleteSlider))

	mux.HandleFunc("/admin/testimonios", adminHandler.AuthMiddleware(adminHandler.ListAdminTestimonials))
	mux.HandleFunc("POST /admin/testimonios", adminHandler.AuthMiddleware(adminHandler.CreateTestimonial))
	mux.HandleFunc("POST /admin/testimonios/update", adminHandler.AuthMiddleware(adminHandler.UpdateTestimonial))
	mux.HandleFunc("POST /admin/testimonios/delete", adminHandler.AuthMiddleware(adminHandler.DeleteTestimonial))

	mux.HandleFunc("/admin/suscripciones", adminHandler.AuthMiddleware(adminHandler.ListAdminSubscriptions))
	mux.HandleFunc("POST /admin/suscripciones/toggle", adminHandler.AuthMiddleware(adminHandler.ToggleSubscription))
	mux.HandleFunc("POST /admin/suscripciones/delete", adminHandler.AuthMiddleware(adminHandler.DeleteSubscription))

	mux.HandleFunc("/admin/reservas", adminHandler.AuthMiddleware(adminHandler.ListAdminBookings))
	mux.HandleFunc("POST /admin/reservas/status", adminHandler.AuthMiddleware(adminHandler.UpdateBookingStatus))
	mux.HandleFunc("POST /admin/reservas/convert", adminHandler.AuthMiddleware(adminHandler.ConvertBooking))
	mux.HandleFunc("POST /admin/reservas/delete", adminHandler.AuthMiddleware(adminHandler.DeleteBooking))

	// 6. Middleware Setup
	CSRF := csrf.Protect(
		cfg.CSRFKey,
		csrf.Secure(cfg.CookieSecure),
		csrf.TrustedOrigins([]string{"localhost:" + cfg.Port, "127.0.0.1:" + cfg.Port, "localhost", "127.0.0.1"}),
	)

	// Chain: Logger -> Security Headers -> CSRF -> Mux
	handler := handlers.LoggingMiddleware(
		handlers.SecurityHeadersMiddleware(
			CSRF(mux),
		),
	)

	// 7. Start Server with Graceful Shutdown
	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to listen and serve", "error", err)
			os.Exit(1)
		}
	}()

	<-stop

	slog.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited gracefully.")
}
