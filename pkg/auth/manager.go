package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/tracklog/api/pkg/database"
	tlerrors "github.com/tracklog/api/pkg/errors"
)

// dummyDigest is compared against when the username doesn't exist, so a
// failed lookup costs the same as a failed password. It matches no password.
const dummyDigest = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Manager authenticates users and manages their sessions. All dependencies
// are injected; there is no process-wide instance.
type Manager struct {
	DB           *gorm.DB
	Store        SessionStore
	BcryptCost   int
	SecureCookie bool
}

// Authenticate resolves a username (case-insensitive) and verifies the
// password. Unknown user and wrong password are indistinguishable to the
// caller, and both take one bcrypt comparison.
func (m *Manager) Authenticate(ctx context.Context, username, password string) (*database.User, error) {
	user, err := database.FindUserByUsername(m.DB.WithContext(ctx), username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			CheckPassword(password, dummyDigest)
			return nil, tlerrors.ErrInvalidCredentials
		}

		return nil, err
	}

	if !CheckPassword(password, user.PasswordHash) {
		return nil, tlerrors.ErrInvalidCredentials
	}

	return user, nil
}

// IssueSession creates a server-side session and sets the cookie. The
// cookie only carries an expiry when remember is set, so default sessions
// die with the browser.
func (m *Manager) IssueSession(ctx context.Context, w http.ResponseWriter, userID uint, remember bool) error {
	sess := Session{UserID: userID, Remember: remember}

	sessionID, err := m.Store.Create(ctx, sess)
	if err != nil {
		return err
	}

	c := &http.Cookie{
		Name:     SessionCookie,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   m.SecureCookie,
	}
	if remember {
		c.Expires = time.Now().Add(sess.TTL())
	}

	http.SetCookie(w, c)
	return nil
}

// ClearSession deletes the server-side session (if any) and expires the
// cookie.
func (m *Manager) ClearSession(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   m.SecureCookie,
		MaxAge:   -1,
	})

	c, err := r.Cookie(SessionCookie)
	if err != nil || len(c.Value) == 0 {
		return
	}

	m.Store.Delete(ctx, c.Value)
}
