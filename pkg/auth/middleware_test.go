package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authedRequest(t *testing.T, m *Manager, userID uint, target string) *http.Request {
	t.Helper()

	id, err := m.Store.Create(context.Background(), Session{UserID: userID})
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, target, nil)
	r.AddCookie(&http.Cookie{Name: SessionCookie, Value: id})

	return r
}

func TestAuthenticatedInjectsUser(t *testing.T) {
	m := newTestManager(t)
	u := createTestUser(t, m, "Ann", "pw")

	var seen bool
	h := m.Authenticated(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = true
		cur := CurrentUser(r)
		require.NotNil(t, cur)
		assert.Equal(t, u.ID, cur.ID)
		require.NotNil(t, CurrentSession(r))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, authedRequest(t, m, u.ID, "/api/lists/backlog"))

	assert.True(t, seen)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticatedMissingCookieJSON(t *testing.T) {
	m := newTestManager(t)

	h := m.Authenticated(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	r := httptest.NewRequest(http.MethodGet, "/api/lists/backlog", nil)
	r.Header.Set("Accept", "application/json")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticatedRedirectsBrowsersWithNext(t *testing.T) {
	m := newTestManager(t)

	h := m.Authenticated(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	r := httptest.NewRequest(http.MethodGet, "/lists/backlog?sort=name", nil)
	r.Header.Set("Accept", "text/html")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login?next=%2Flists%2Fbacklog%3Fsort%3Dname", rec.Header().Get("Location"))
}

func TestAuthenticatedUnknownSession(t *testing.T) {
	m := newTestManager(t)

	h := m.Authenticated(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Accept", "application/json")
	r.AddCookie(&http.Cookie{Name: SessionCookie, Value: "gone"})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticatedDeletedUserKillsSession(t *testing.T) {
	m := newTestManager(t)
	u := createTestUser(t, m, "Ann", "pw")
	r := authedRequest(t, m, u.ID, "/")
	r.Header.Set("Accept", "application/json")

	require.NoError(t, m.DB.Unscoped().Delete(u).Error)

	h := m.Authenticated(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	c, _ := r.Cookie(SessionCookie)
	sess, err := m.Store.Get(context.Background(), c.Value)
	require.NoError(t, err)
	assert.Nil(t, sess, "orphaned session must be deleted")
}

func TestClearSession(t *testing.T) {
	m := newTestManager(t)
	u := createTestUser(t, m, "Ann", "pw")
	r := authedRequest(t, m, u.ID, "/")

	rec := httptest.NewRecorder()
	m.ClearSession(context.Background(), rec, r)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)

	c, _ := r.Cookie(SessionCookie)
	sess, err := m.Store.Get(context.Background(), c.Value)
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestSafeRedirectTarget(t *testing.T) {
	safe := []string{"/", "/lists/backlog", "/search?q=portal"}
	for _, s := range safe {
		assert.True(t, SafeRedirectTarget(s), s)
	}

	unsafe := []string{
		"",
		"//evil.com/phish",
		"/\\evil.com",
		"https://evil.com",
		"javascript:alert(1)",
		"lists/backlog",
	}
	for _, s := range unsafe {
		assert.False(t, SafeRedirectTarget(s), s)
	}
}
