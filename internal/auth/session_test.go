package auth

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"duetrack/internal/api"
)

const userJSON = `{"id": 1, "email": "alice@example.com", "username": "alice", "is_active": true, "created_at": "2026-01-02T00:00:00Z"}`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// backend is a minimal fake of the auth endpoints.
func backend(t *testing.T, acceptToken string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/users/login":
			require.NoError(t, r.ParseForm())
			if r.PostFormValue("password") != "correct horse" {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"detail": "Incorrect email or password"}`))
				return
			}
			_, _ = w.Write([]byte(`{"access_token": "` + acceptToken + `", "token_type": "bearer"}`))
		case "/users/register":
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(userJSON))
		case "/users/me":
			if r.Header.Get("Authorization") != "Bearer "+acceptToken {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"detail": "Could not validate credentials"}`))
				return
			}
			_, _ = w.Write([]byte(userJSON))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSession_LoginSuccess(t *testing.T) {
	srv := backend(t, "good-token")
	client := api.NewClient(srv.URL, time.Second, testLogger(), nil)
	session := NewSession(client, testLogger())

	assert.Equal(t, Unauthenticated, session.State())

	err := session.Login(context.Background(), "alice@example.com", "correct horse")
	require.NoError(t, err)

	assert.Equal(t, Authenticated, session.State())
	require.NotNil(t, session.User())
	assert.Equal(t, "alice", session.User().Username)
}

func TestSession_LoginFailure(t *testing.T) {
	srv := backend(t, "good-token")
	client := api.NewClient(srv.URL, time.Second, testLogger(), nil)
	session := NewSession(client, testLogger())

	err := session.Login(context.Background(), "alice@example.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Incorrect email or password", err.Error())
	assert.Equal(t, Unauthenticated, session.State())
	assert.Nil(t, session.User())
}

func TestSession_InitWithValidToken(t *testing.T) {
	srv := backend(t, "stored-token")
	tokens := &memTokenStore{token: "stored-token"}
	client := api.NewClient(srv.URL, time.Second, testLogger(), tokens)
	session := NewSession(client, testLogger())

	session.Init(context.Background())

	assert.Equal(t, Authenticated, session.State())
	require.NotNil(t, session.User())
}

func TestSession_InitWithRejectedTokenClearsIt(t *testing.T) {
	srv := backend(t, "good-token")
	tokens := &memTokenStore{token: "stale-token"}
	client := api.NewClient(srv.URL, time.Second, testLogger(), tokens)
	session := NewSession(client, testLogger())

	session.Init(context.Background())

	assert.Equal(t, Unauthenticated, session.State())
	assert.Nil(t, session.User())
	assert.Empty(t, tokens.token, "rejected token must be cleared from storage")
	assert.False(t, client.IsAuthenticated())
}

func TestSession_InitWithoutToken(t *testing.T) {
	srv := backend(t, "good-token")
	client := api.NewClient(srv.URL, time.Second, testLogger(), nil)
	session := NewSession(client, testLogger())

	session.Init(context.Background())
	assert.Equal(t, Unauthenticated, session.State())
}

func TestSession_RegisterLogsIn(t *testing.T) {
	srv := backend(t, "good-token")
	client := api.NewClient(srv.URL, time.Second, testLogger(), nil)
	session := NewSession(client, testLogger())

	err := session.Register(context.Background(), "alice@example.com", "alice", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, Authenticated, session.State())
}

func TestSession_SubscribersNotifiedOnTransitions(t *testing.T) {
	srv := backend(t, "good-token")
	client := api.NewClient(srv.URL, time.Second, testLogger(), nil)
	session := NewSession(client, testLogger())

	var events []bool
	unsubscribe := session.Subscribe(func(authenticated bool) {
		events = append(events, authenticated)
	})

	require.NoError(t, session.Login(context.Background(), "alice@example.com", "correct horse"))
	session.Logout()
	assert.Equal(t, []bool{true, false}, events)

	// Logout while already unauthenticated does not notify again.
	session.Logout()
	assert.Len(t, events, 2)

	unsubscribe()
	require.NoError(t, session.Login(context.Background(), "alice@example.com", "correct horse"))
	assert.Len(t, events, 2, "unsubscribed listener must not fire")
}

type memTokenStore struct {
	token string
}

func (m *memTokenStore) Load() (string, error)   { return m.token, nil }
func (m *memTokenStore) Save(token string) error { m.token = token; return nil }
func (m *memTokenStore) Clear() error            { m.token = ""; return nil }
