// Package session persists the signed-in identity across requests in a
// signed and encrypted cookie, and ends sessions that stay idle too long.
package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
)

const (
	defaultCookieName  = "animefinder_session"
	defaultCookiePath  = "/"
	defaultIdleTimeout = 2 * time.Hour
)

// ErrExpired indicates the stored session is no longer valid because the
// idle window elapsed without activity.
var ErrExpired = errors.New("session expired")

// ErrInvalidConfig indicates the manager was initialised with missing or invalid options.
var ErrInvalidConfig = errors.New("session: invalid config")

// Identity is the authenticated user persisted in the session. It is the
// only durable state this application owns.
type Identity struct {
	UserID string `json:"userid"`
}

// Data represents the full persisted session payload.
type Data struct {
	Identity   *Identity `json:"identity,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	LastActive time.Time `json:"lastActive"`
	TimedOut   bool      `json:"timedOut,omitempty"`
}

// Session holds mutable state for the current request lifecycle.
type Session struct {
	data      Data
	dirty     bool
	destroyed bool
	cfg       *Config
}

// Config controls cookie encoding and the idle window for the manager.
type Config struct {
	CookieName     string
	HashKey        []byte
	BlockKey       []byte
	CookiePath     string
	CookieDomain   string
	CookieSecure   bool
	CookieSameSite http.SameSite

	IdleTimeout time.Duration
	Now         func() time.Time
}

// Manager decodes and persists session state via signed (and optionally
// encrypted) cookies.
type Manager struct {
	cfg   Config
	codec *securecookie.SecureCookie
	now   func() time.Time
}

// NewManager constructs a Manager using the provided configuration.
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.HashKey) == 0 {
		return nil, fmt.Errorf("%w: hash key is required", ErrInvalidConfig)
	}

	if cfg.CookieName == "" {
		cfg.CookieName = defaultCookieName
	}
	if cfg.CookiePath == "" {
		cfg.CookiePath = defaultCookiePath
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = defaultIdleTimeout
	}
	if cfg.CookieSameSite == http.SameSiteDefaultMode {
		cfg.CookieSameSite = http.SameSiteLaxMode
	}
	nowFn := cfg.Now
	if nowFn == nil {
		nowFn = time.Now
	}

	codec := securecookie.New(cfg.HashKey, cfg.BlockKey)
	codec.SetSerializer(securecookie.JSONEncoder{})

	return &Manager{
		cfg:   cfg,
		codec: codec,
		now:   nowFn,
	}, nil
}

// Load retrieves the session from the incoming request. A missing or
// malformed cookie yields a fresh anonymous session; an authenticated
// session whose idle window has elapsed yields ErrExpired.
func (m *Manager) Load(r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(m.cfg.CookieName)
	if err != nil {
		return m.newSession(m.now()), nil
	}

	var stored Data
	if err := m.codec.Decode(m.cfg.CookieName, cookie.Value, &stored); err != nil {
		return m.newSession(m.now()), nil
	}

	sess := m.sessionFromData(stored)
	if m.isExpired(sess, m.now()) {
		return nil, ErrExpired
	}
	return sess, nil
}

// Save writes the session back to the response as a cookie, extending the
// idle deadline. Destroyed sessions clear the cookie.
func (m *Manager) Save(w http.ResponseWriter, sess *Session) error {
	if sess == nil {
		return errors.New("session: nil session")
	}

	if sess.destroyed {
		http.SetCookie(w, m.expiredCookie())
		return nil
	}

	// Any request that reaches Save counts as activity.
	sess.Touch(m.now())

	encoded, err := m.codec.Encode(m.cfg.CookieName, sess.data)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    encoded,
		Path:     m.cfg.CookiePath,
		Domain:   m.cfg.CookieDomain,
		Secure:   m.cfg.CookieSecure,
		HttpOnly: true,
		SameSite: m.cfg.CookieSameSite,
	})
	return nil
}

// Destroy invalidates the session cookie immediately.
func (m *Manager) Destroy(w http.ResponseWriter) {
	http.SetCookie(w, m.expiredCookie())
}

// New returns a fresh anonymous session.
func (m *Manager) New() *Session {
	return m.newSession(m.now())
}

// NewTimedOut returns a fresh anonymous session carrying the one-time
// idle-timeout notice for the next render.
func (m *Manager) NewTimedOut() *Session {
	sess := m.newSession(m.now())
	sess.data.TimedOut = true
	return sess
}

// IdleTimeout reports the configured idle window.
func (m *Manager) IdleTimeout() time.Duration {
	return m.cfg.IdleTimeout
}

func (m *Manager) newSession(now time.Time) *Session {
	now = now.UTC()
	return &Session{
		data:  Data{CreatedAt: now, LastActive: now},
		dirty: true,
		cfg:   &m.cfg,
	}
}

func (m *Manager) sessionFromData(d Data) *Session {
	return &Session{data: d, cfg: &m.cfg}
}

// isExpired applies the idle window to authenticated sessions only; an
// anonymous session has no idle deadline.
func (m *Manager) isExpired(sess *Session, now time.Time) bool {
	if sess == nil {
		return true
	}
	if sess.data.Identity == nil {
		return false
	}

	last := sess.data.LastActive
	if last.IsZero() {
		last = sess.data.CreatedAt
	}
	return !last.IsZero() && now.UTC().Sub(last.UTC()) > m.cfg.IdleTimeout
}

func (m *Manager) expiredCookie() *http.Cookie {
	return &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    "",
		Path:     m.cfg.CookiePath,
		Domain:   m.cfg.CookieDomain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   m.cfg.CookieSecure,
		HttpOnly: true,
		SameSite: m.cfg.CookieSameSite,
	}
}

// Identity returns the signed-in identity, or nil for anonymous sessions.
func (s *Session) Identity() *Identity {
	return s.data.Identity
}

// Authenticated reports whether an identity is present.
func (s *Session) Authenticated() bool {
	return s.data.Identity != nil
}

// SetIdentity installs the identity after a successful login or signup.
func (s *Session) SetIdentity(identity Identity) {
	if s.data.Identity != nil && *s.data.Identity == identity {
		return
	}
	copied := identity
	s.data.Identity = &copied
	s.data.TimedOut = false
	s.dirty = true
}

// ClearIdentity removes the identity, returning the session to anonymous.
func (s *Session) ClearIdentity() {
	if s.data.Identity == nil {
		return
	}
	s.data.Identity = nil
	s.dirty = true
}

// CreatedAt returns the session creation timestamp.
func (s *Session) CreatedAt() time.Time {
	return s.data.CreatedAt
}

// LastActive returns the last activity timestamp.
func (s *Session) LastActive() time.Time {
	return s.data.LastActive
}

// IdleDeadline returns the moment the session will expire without further
// activity. The zero time is returned for anonymous sessions.
func (s *Session) IdleDeadline() time.Time {
	if s.data.Identity == nil {
		return time.Time{}
	}
	last := s.data.LastActive
	if last.IsZero() {
		last = s.data.CreatedAt
	}
	return last.Add(s.cfg.IdleTimeout)
}

// TakeTimeoutNotice reports whether this session replaced one that idled
// out, and consumes the notice so it renders exactly once.
func (s *Session) TakeTimeoutNotice() bool {
	if !s.data.TimedOut {
		return false
	}
	s.data.TimedOut = false
	s.dirty = true
	return true
}

// Destroy marks the session for deletion at the end of the request.
func (s *Session) Destroy() {
	s.destroyed = true
	s.dirty = true
}

// Destroyed exposes the destroy marker.
func (s *Session) Destroyed() bool {
	return s.destroyed
}

// Touch updates the last activity timestamp, pushing the idle deadline forward.
func (s *Session) Touch(now time.Time) {
	now = now.UTC()
	if now.After(s.data.LastActive) {
		s.data.LastActive = now
		s.dirty = true
	}
}

// Dirty indicates whether the session contents have changed during this request.
func (s *Session) Dirty() bool {
	return s.dirty
}
