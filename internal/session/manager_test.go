package session

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type fixedClock struct {
	current time.Time
}

func (c *fixedClock) Now() time.Time {
	return c.current
}

func newTestManager(t *testing.T) (*Manager, *fixedClock) {
	t.Helper()

	hashKey := []byte("12345678901234567890123456789012")
	blockKey := []byte("abcdefghijklmnopqrstuv0123456789")
	clock := &fixedClock{current: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	mgr, err := NewManager(Config{
		CookieName:  "test_session",
		HashKey:     hashKey,
		BlockKey:    blockKey,
		CookiePath:  "/",
		IdleTimeout: 2 * time.Hour,
		Now:         clock.Now,
	})
	if err != nil {
		t.Fatalf("NewManager error: %v", err)
	}
	return mgr, clock
}

func saveSession(t *testing.T, mgr *Manager, sess *Session) *http.Cookie {
	t.Helper()

	rec := httptest.NewRecorder()
	if err := mgr.Save(rec, sess); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	cookie := findCookie(rec.Result().Cookies(), "test_session")
	if cookie == nil {
		t.Fatalf("expected session cookie to be set")
	}
	return cookie
}

func TestManager_LoginPersistsIdentity(t *testing.T) {
	mgr, clock := newTestManager(t)

	req := httptest.NewRequest("GET", "/", nil)
	sess, err := mgr.Load(req)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if sess.Authenticated() {
		t.Fatalf("fresh session must be anonymous")
	}

	sess.SetIdentity(Identity{UserID: "alice"})
	cookie := saveSession(t, mgr, sess)

	clock.current = clock.current.Add(30 * time.Minute)
	req2 := httptest.NewRequest("GET", "/", nil)
	req2.AddCookie(cookie)
	sess2, err := mgr.Load(req2)
	if err != nil {
		t.Fatalf("Load existing error: %v", err)
	}
	if !sess2.Authenticated() || sess2.Identity().UserID != "alice" {
		t.Fatalf("expected identity to persist, got %+v", sess2.Identity())
	}
	deadline := sess2.IdleDeadline()
	if deadline.IsZero() {
		t.Fatalf("authenticated session must have an idle deadline")
	}
}

func TestManager_ActivityExtendsDeadline(t *testing.T) {
	mgr, clock := newTestManager(t)

	sess := mgr.New()
	sess.SetIdentity(Identity{UserID: "alice"})
	cookie := saveSession(t, mgr, sess)

	// 90 minutes of silence, then a request: still inside the window, and
	// saving pushes the deadline forward.
	clock.current = clock.current.Add(90 * time.Minute)
	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(cookie)
	sess2, err := mgr.Load(req)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	cookie = saveSession(t, mgr, sess2)

	// Another 90 minutes: total 3h since login but only 90m idle.
	clock.current = clock.current.Add(90 * time.Minute)
	req2 := httptest.NewRequest("GET", "/", nil)
	req2.AddCookie(cookie)
	sess3, err := mgr.Load(req2)
	if err != nil {
		t.Fatalf("expected activity to keep the session alive: %v", err)
	}
	if sess3.Identity().UserID != "alice" {
		t.Fatalf("identity must survive activity renewals")
	}
}

func TestManager_IdleTimeout(t *testing.T) {
	mgr, clock := newTestManager(t)

	sess := mgr.New()
	sess.SetIdentity(Identity{UserID: "alice"})
	cookie := saveSession(t, mgr, sess)

	clock.current = clock.current.Add(2*time.Hour + time.Minute)
	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(cookie)
	if _, err := mgr.Load(req); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}

func TestManager_AnonymousSessionNeverIdlesOut(t *testing.T) {
	mgr, clock := newTestManager(t)

	sess := mgr.New()
	cookie := saveSession(t, mgr, sess)

	clock.current = clock.current.Add(48 * time.Hour)
	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(cookie)
	sess2, err := mgr.Load(req)
	if err != nil {
		t.Fatalf("anonymous session must not expire: %v", err)
	}
	if sess2.Authenticated() {
		t.Fatalf("expected anonymous session")
	}
	if !sess2.IdleDeadline().IsZero() {
		t.Fatalf("anonymous session must not carry an idle deadline")
	}
}

func TestManager_TimeoutNoticeShownOnce(t *testing.T) {
	mgr, _ := newTestManager(t)

	sess := mgr.NewTimedOut()
	if !sess.TakeTimeoutNotice() {
		t.Fatalf("expected timeout notice on first take")
	}
	if sess.TakeTimeoutNotice() {
		t.Fatalf("timeout notice must be consumed after first take")
	}

	cookie := saveSession(t, mgr, sess)
	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(cookie)
	sess2, err := mgr.Load(req)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if sess2.TakeTimeoutNotice() {
		t.Fatalf("consumed notice must not resurface after a round trip")
	}
}

func TestManager_LogoutClearsSlot(t *testing.T) {
	mgr, _ := newTestManager(t)

	sess := mgr.New()
	sess.SetIdentity(Identity{UserID: "alice"})
	sess.Destroy()

	rec := httptest.NewRecorder()
	if err := mgr.Save(rec, sess); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	cookie := findCookie(rec.Result().Cookies(), "test_session")
	if cookie == nil || cookie.MaxAge != -1 {
		t.Fatalf("expected session cookie cleared")
	}
}

func TestManager_MalformedCookieTreatedAsAbsent(t *testing.T) {
	mgr, _ := newTestManager(t)

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: "test_session", Value: "garbage"})
	sess, err := mgr.Load(req)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if sess.Authenticated() {
		t.Fatalf("malformed cookie must yield an anonymous session")
	}
}

func findCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}
