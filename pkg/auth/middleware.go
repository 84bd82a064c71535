package auth

import (
	"context"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"

	"gorm.io/gorm"

	"github.com/tracklog/api/pkg/database"
)

type ctxKey string

const (
	ctxSessionID ctxKey = "session_id"
	ctxSession   ctxKey = "session"
	ctxUser      ctxKey = "user"
)

// LoginPath is where unauthenticated browser navigations are sent.
const LoginPath = "/login"

// Authenticated resolves the session cookie to a user and injects both into
// the request context. API callers get a 401; browser navigations get a
// redirect to the login page carrying the originally requested path.
func (m *Manager) Authenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(SessionCookie)
		if err != nil {
			if err == http.ErrNoCookie {
				m.reject(w, r)
				return
			}

			w.WriteHeader(http.StatusBadRequest)
			return
		}

		sessionID := c.Value

		session, err := m.Store.Get(r.Context(), sessionID)
		if err != nil {
			log.Printf("failed to get session: %v\n", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		if session == nil {
			m.reject(w, r)
			return
		}

		user, err := database.FindUserByID(m.DB.WithContext(r.Context()), session.UserID)
		if err != nil {
			// User row gone but session survived; kill the session.
			if errors.Is(err, gorm.ErrRecordNotFound) {
				m.Store.Delete(r.Context(), sessionID)
				m.reject(w, r)
				return
			}

			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		ctx := r.Context()
		ctx = context.WithValue(ctx, ctxSessionID, sessionID)
		ctx = context.WithValue(ctx, ctxSession, session)
		ctx = context.WithValue(ctx, ctxUser, user)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *Manager) reject(w http.ResponseWriter, r *http.Request) {
	if wantsJSON(r) {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	next := r.URL.Path
	if r.URL.RawQuery != "" {
		next += "?" + r.URL.RawQuery
	}

	http.Redirect(w, r, LoginPath+"?next="+url.QueryEscape(next), http.StatusFound)
}

func wantsJSON(r *http.Request) bool {
	if r.Header.Get("X-Requested-With") == "XMLHttpRequest" {
		return true
	}

	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// CurrentUser returns the user injected by Authenticated, or nil.
func CurrentUser(r *http.Request) *database.User {
	u, _ := r.Context().Value(ctxUser).(*database.User)
	return u
}

// CurrentSession returns the session injected by Authenticated, or nil.
func CurrentSession(r *http.Request) *Session {
	s, _ := r.Context().Value(ctxSession).(*Session)
	return s
}

// SafeRedirectTarget reports whether next is safe to redirect to after
// login: a relative path on this origin. Protocol-relative ("//evil.com")
// and backslash forms are rejected along with absolute URLs.
func SafeRedirectTarget(next string) bool {
	if next == "" {
		return false
	}

	if !strings.HasPrefix(next, "/") {
		return false
	}

	if strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return false
	}

	u, err := url.Parse(next)
	if err != nil {
		return false
	}

	return u.Scheme == "" && u.Host == ""
}
