package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"

	"github.com/fMoyano90/universonomada-web/internal/api"
	"github.com/fMoyano90/universonomada-web/internal/models"
	"github.com/fMoyano90/universonomada-web/internal/session"
)

type AdminHandler struct {
	API          *api.Client
	Sessions     *session.Store
	SessionStore *sessions.CookieStore
	Templates    *TemplateCache
	UploadDir    string
}

type ctxKey string

const sessionCtxKey ctxKey = "adminSession"

func (h *AdminHandler) LoginGet(w http.ResponseWriter, r *http.Request) {
	tmpl := h.Templates.Get("login.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	cookie, _ := h.SessionStore.Get(r, "admin-session")
	data := map[string]interface{}{
		"CsrfField": csrf.TemplateField(r),
		"Flashes":   GetFlash(cookie),
	}
	cookie.Save(r, w)
	tmpl.Execute(w, data)
}

// LoginPost delegates credential verification to the remote auth endpoint.
// Only users whose role comes back as "admin" get a session.
func (h *AdminHandler) LoginPost(w http.ResponseWriter, r *http.Request) {
	cookie, _ := h.SessionStore.Get(r, "admin-session")

	email := r.FormValue("email")
	password := r.FormValue("password")

	sess, err := h.API.Login(r.Context(), email, password)
	if err != nil {
		slog.Warn("Login rejected", "email", email, "error", err)
		cookie.AddFlash(FlashMessage{Type: "error", Message: "Email o contraseña incorrectos"})
		cookie.Save(r, w)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if sess.User.Role != "admin" {
		cookie.AddFlash(FlashMessage{Type: "error", Message: "Tu cuenta no tiene acceso al panel de administración"})
		cookie.Save(r, w)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	sid := uuid.New().String()
	if err := h.Sessions.SaveSession(r.Context(), sid, sess); err != nil {
		slog.Error("Failed to persist session", "error", err)
		http.Error(w, "Failed to save session", http.StatusInternalServerError)
		return
	}

	cookie.Values["sid"] = sid
	cookie.Options.Path = "/"
	cookie.AddFlash(FlashMessage{Type: "success", Message: "Bienvenido, " + sess.User.Name + "!"})
	if err := cookie.Save(r, w); err != nil {
		slog.Error("Failed to save session cookie", "error", err)
		http.Error(w, "Failed to save session", http.StatusInternalServerError)
		return
	}

	slog.Info("Login successful", "user_id", sess.User.ID)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// Logout clears the Redis record and the cookie together.
func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, _ := h.SessionStore.Get(r, "admin-session")
	if sid, ok := cookie.Values["sid"].(string); ok && sid != "" {
		if err := h.Sessions.DeleteSession(r.Context(), sid); err != nil {
			slog.Warn("Failed to delete session record", "error", err)
		}
	}
	cookie.Values["sid"] = ""
	cookie.Options.MaxAge = -1
	cookie.Save(r, w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// RefreshSession manually trades the refresh token for a new pair. There is
// no automatic refresh scheduling.
func (h *AdminHandler) RefreshSession(w http.ResponseWriter, r *http.Request) {
	cookie, _ := h.SessionStore.Get(r, "admin-session")
	defer cookie.Save(r, w)

	sess := adminSession(r)
	sid, _ := cookie.Values["sid"].(string)
	if sess == nil || sid == "" {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	refreshed, err := h.API.Refresh(r.Context(), sess.RefreshToken)
	if err != nil {
		slog.Warn("Token refresh failed", "error", err)
		cookie.AddFlash(FlashMessage{Type: "error", Message: "No se pudo renovar la sesión. Vuelve a iniciar sesión."})
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}
	if refreshed.User.ID == 0 {
		refreshed.User = sess.User
	}

	if err := h.Sessions.SaveSession(r.Context(), sid, refreshed); err != nil {
		slog.Error("Failed to persist refreshed session", "error", err)
	}
	cookie.AddFlash(FlashMessage{Type: "success", Message: "Sesión renovada"})
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// AuthMiddleware resolves the cookie-held session ID against Redis and
// stashes the record in the request context.
func (h *AdminHandler) AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, _ := h.SessionStore.Get(r, "admin-session")
		sid, _ := cookie.Values["sid"].(string)
		if sid == "" {
			h.rejectUnauthenticated(w, r, cookie)
			return
		}

		sess, err := h.Sessions.GetSession(r.Context(), sid)
		if err != nil {
			if !errors.Is(err, session.ErrNotFound) {
				slog.Error("Session lookup failed", "error", err)
			}
			h.rejectUnauthenticated(w, r, cookie)
			return
		}

		ctx := context.WithValue(r.Context(), sessionCtxKey, sess)
		next(w, r.WithContext(ctx))
	}
}

func (h *AdminHandler) rejectUnauthenticated(w http.ResponseWriter, r *http.Request, cookie *sessions.Session) {
	cookie.AddFlash(FlashMessage{Type: "error", Message: "Debes iniciar sesión para acceder a esta página."})
	cookie.Save(r, w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// adminSession returns the record placed by AuthMiddleware, or nil.
func adminSession(r *http.Request) *models.Session {
	sess, _ := r.Context().Value(sessionCtxKey).(*models.Session)
	return sess
}

// token is a convenience for handlers issuing authenticated API calls.
func token(r *http.Request) string {
	if sess := adminSession(r); sess != nil {
		return sess.AccessToken
	}
	return ""
}

func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	_, totalDestinations, err := h.API.ListDestinations(ctx, "", 1, 1)
	if err != nil {
		slog.Warn("Dashboard destination count unavailable", "error", err)
	}
	_, totalBookings, err := h.API.ListBookings(ctx, token(r), 1, 1)
	if err != nil {
		slog.Warn("Dashboard booking count unavailable", "error", err)
	}
	_, totalSubscriptions, err := h.API.ListSubscriptions(ctx, token(r), 1, 1)
	if err != nil {
		slog.Warn("Dashboard subscription count unavailable", "error", err)
	}

	tmpl := h.Templates.Get("admin.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	cookie, _ := h.SessionStore.Get(r, "admin-session")
	data := map[string]interface{}{
		"User":               adminSession(r).User,
		"TotalDestinations":  totalDestinations,
		"TotalBookings":      totalBookings,
		"TotalSubscriptions": totalSubscriptions,
		"CsrfField":          csrf.TemplateField(r),
		"Flashes":            GetFlash(cookie),
	}
	cookie.Save(r, w)
	tmpl.Execute(w, data)
}
