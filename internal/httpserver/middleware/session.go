package middleware

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	appsession "animefinder.org/animefinder/internal/session"
)

type sessionContextKey string

const requestSessionKey sessionContextKey = "animefinder.session"

// SessionStore abstracts the session manager for middleware integration.
type SessionStore interface {
	Load(*http.Request) (*appsession.Session, error)
	New() *appsession.Session
	NewTimedOut() *appsession.Session
	Save(http.ResponseWriter, *appsession.Session) error
	Destroy(http.ResponseWriter)
}

// Session attaches the decoded session to the request context and persists
// changes back to the client cookie. Saving on the way out counts the
// request as activity, which is what keeps an active user signed in. An
// idle-expired session is replaced by an anonymous one carrying the
// one-time timeout notice.
func Session(store SessionStore, logger *zap.Logger) func(http.Handler) http.Handler {
	if store == nil {
		panic("session store is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := store.Load(r)
			if errors.Is(err, appsession.ErrExpired) {
				logger.Info("session idled out; signing user out")
				store.Destroy(w)
				sess = store.NewTimedOut()
			} else if err != nil || sess == nil {
				if err != nil {
					logger.Warn("session load failed", zap.Error(err))
				}
				sess = store.New()
			}

			// The cookie must go out with the response headers, so the save
			// happens right before the first write rather than after the
			// handler returns.
			sw := &savingWriter{ResponseWriter: w, store: store, sess: sess, logger: logger}

			ctx := context.WithValue(r.Context(), requestSessionKey, sess)
			next.ServeHTTP(sw, r.WithContext(ctx))

			sw.saveOnce()
		})
	}
}

type savingWriter struct {
	http.ResponseWriter
	store  SessionStore
	sess   *appsession.Session
	logger *zap.Logger
	saved  bool
}

func (w *savingWriter) saveOnce() {
	if w.saved {
		return
	}
	w.saved = true
	if err := w.store.Save(w.ResponseWriter, w.sess); err != nil {
		w.logger.Warn("session save failed", zap.Error(err))
	}
}

func (w *savingWriter) WriteHeader(status int) {
	w.saveOnce()
	w.ResponseWriter.WriteHeader(status)
}

func (w *savingWriter) Write(p []byte) (int, error) {
	w.saveOnce()
	return w.ResponseWriter.Write(p)
}

// SessionFromContext retrieves the session attached to this request.
func SessionFromContext(ctx context.Context) (*appsession.Session, bool) {
	if ctx == nil {
		return nil, false
	}
	sess, ok := ctx.Value(requestSessionKey).(*appsession.Session)
	return sess, ok && sess != nil
}
