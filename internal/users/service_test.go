package users_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"animefinder.org/animefinder/internal/users"
)

type fakeUserStore struct {
	users   []users.User
	fail    bool
	created atomic.Int32
}

func newFakeUserStore(t *testing.T, seed ...users.User) (*fakeUserStore, *users.HTTPStore) {
	t.Helper()

	fake := &fakeUserStore{users: seed}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fake.fail {
			http.Error(w, "down", http.StatusServiceUnavailable)
			return
		}
		switch r.Method {
		case http.MethodGet:
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(fake.users)
		case http.MethodPost:
			var user users.User
			require.NoError(t, json.NewDecoder(r.Body).Decode(&user))
			fake.created.Add(1)
			user.ID = "generated"
			fake.users = append(fake.users, user)
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(user)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}))
	t.Cleanup(ts.Close)

	store, err := users.NewHTTPStore(ts.URL, ts.Client())
	require.NoError(t, err)
	return fake, store
}

func TestLoginMatchesExactCredentials(t *testing.T) {
	t.Parallel()

	_, store := newFakeUserStore(t,
		users.User{ID: "1", UserID: "alice", Password: "secret"},
		users.User{ID: "2", UserID: "bob", Password: "hunter2"},
	)
	svc := users.NewService(store, nil)

	user, err := svc.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)
	require.Equal(t, "alice", user.UserID)
}

func TestLoginIsCaseSensitive(t *testing.T) {
	t.Parallel()

	_, store := newFakeUserStore(t, users.User{UserID: "alice", Password: "secret"})
	svc := users.NewService(store, nil)

	_, err := svc.Login(context.Background(), "Alice", "secret")
	require.ErrorIs(t, err, users.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "alice", "Secret")
	require.ErrorIs(t, err, users.ErrInvalidCredentials)
}

func TestLoginNetworkFailure(t *testing.T) {
	t.Parallel()

	fake, store := newFakeUserStore(t)
	fake.fail = true
	svc := users.NewService(store, nil)

	_, err := svc.Login(context.Background(), "alice", "secret")
	require.Error(t, err)
	require.NotErrorIs(t, err, users.ErrInvalidCredentials)
}

func TestSignupRejectsDuplicateWithoutPost(t *testing.T) {
	t.Parallel()

	fake, store := newFakeUserStore(t, users.User{UserID: "alice", Password: "old"})
	svc := users.NewService(store, nil)

	err := svc.Signup(context.Background(), "alice", "new")
	require.ErrorIs(t, err, users.ErrDuplicateUser)
	require.Zero(t, fake.created.Load(), "duplicate signup must not POST")
}

func TestSignupCreatesNewUser(t *testing.T) {
	t.Parallel()

	fake, store := newFakeUserStore(t, users.User{UserID: "alice", Password: "secret"})
	svc := users.NewService(store, nil)

	require.NoError(t, svc.Signup(context.Background(), "carol", "pw"))
	require.Equal(t, int32(1), fake.created.Load())

	user, err := svc.Login(context.Background(), "carol", "pw")
	require.NoError(t, err)
	require.Equal(t, "carol", user.UserID)
}

func TestSignupValidatesInput(t *testing.T) {
	t.Parallel()

	_, store := newFakeUserStore(t)
	svc := users.NewService(store, nil)

	require.ErrorIs(t, svc.Signup(context.Background(), "  ", "pw"), users.ErrInvalidInput)
	require.ErrorIs(t, svc.Signup(context.Background(), "dave", ""), users.ErrInvalidInput)

	_, err := svc.Login(context.Background(), "", "pw")
	require.ErrorIs(t, err, users.ErrInvalidInput)
}
