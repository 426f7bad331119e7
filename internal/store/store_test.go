package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"duetrack/internal/api"
	"duetrack/internal/auth"
	"duetrack/internal/models"
)

// fakeBackend is an in-memory deadline service good enough for the cache
// contract: login, current user and deadline CRUD.
type fakeBackend struct {
	mu        sync.Mutex
	nextID    int
	deadlines []models.Deadline
	requests  int
	failNext  string // endpoint prefix that fails once with 500
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{nextID: 1}
}

func (f *fakeBackend) ids() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]int, len(f.deadlines))
	for i, d := range f.deadlines {
		out[i] = d.ID
	}
	return out
}

func (f *fakeBackend) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.requests++
		w.Header().Set("Content-Type", "application/json")

		if f.failNext != "" && strings.HasPrefix(r.URL.Path, f.failNext) {
			f.failNext = ""
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"detail": "injected failure"}`))
			return
		}

		switch {
		case r.URL.Path == "/users/login":
			_, _ = w.Write([]byte(`{"access_token": "tok", "token_type": "bearer"}`))
		case r.URL.Path == "/users/me":
			_, _ = w.Write([]byte(`{"id": 1, "email": "a@example.com", "username": "a", "is_active": true, "created_at": "2026-01-01T00:00:00Z"}`))
		case r.URL.Path == "/deadlines/" && r.Method == http.MethodGet:
			require.NoError(t, json.NewEncoder(w).Encode(f.deadlines))
		case r.URL.Path == "/deadlines/scan-document":
			// Candidates only: nothing is persisted until saved explicitly.
			_, _ = w.Write([]byte(`[
				{"id": 0, "title": "Midterm", "date": "2026-10-15T09:00:00Z", "priority": "high", "completed": false, "user_id": 1, "created_at": "2026-09-01T00:00:00Z"},
				{"id": 0, "title": "Problem set 4", "date": "2026-10-02T23:59:00Z", "priority": "medium", "completed": false, "user_id": 1, "created_at": "2026-09-01T00:00:00Z"}
			]`))
		case r.URL.Path == "/deadlines/create":
			var req api.CreateDeadlineRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			d := models.Deadline{
				ID: f.nextID, Title: req.Title, Description: req.Description,
				Course: req.Course, Date: req.Date, Priority: req.Priority,
				EstimatedHours: req.EstimatedHours, UserID: 1, CreatedAt: time.Now().UTC(),
			}
			f.nextID++
			f.deadlines = append(f.deadlines, d)
			w.WriteHeader(http.StatusCreated)
			require.NoError(t, json.NewEncoder(w).Encode(d))
		case strings.HasPrefix(r.URL.Path, "/deadlines/") && r.Method == http.MethodPut:
			id, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/deadlines/"))
			require.NoError(t, err)
			var req api.UpdateDeadlineRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			for i := range f.deadlines {
				if f.deadlines[i].ID == id {
					if req.Title != nil {
						f.deadlines[i].Title = *req.Title
					}
					if req.Completed != nil {
						f.deadlines[i].Completed = *req.Completed
					}
					if req.Priority != nil {
						f.deadlines[i].Priority = *req.Priority
					}
					require.NoError(t, json.NewEncoder(w).Encode(f.deadlines[i]))
					return
				}
			}
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(fmt.Sprintf(`{"detail": "Deadline with id %d not found"}`, id)))
		case strings.HasPrefix(r.URL.Path, "/deadlines/") && r.Method == http.MethodDelete:
			id, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/deadlines/"))
			require.NoError(t, err)
			for i := range f.deadlines {
				if f.deadlines[i].ID == id {
					f.deadlines = append(f.deadlines[:i], f.deadlines[i+1:]...)
					w.WriteHeader(http.StatusNoContent)
					return
				}
			}
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(fmt.Sprintf(`{"detail": "Deadline with id %d not found"}`, id)))
		default:
			http.NotFound(w, r)
		}
	})
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fixture struct {
	backend *fakeBackend
	client  *api.Client
	session *auth.Session
	store   *Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	backend := newFakeBackend()
	srv := httptest.NewServer(backend.handler(t))
	t.Cleanup(srv.Close)

	client := api.NewClient(srv.URL, 5*time.Second, testLogger(), nil)
	session := auth.NewSession(client, testLogger())
	s := New(client, session, testLogger())
	t.Cleanup(s.Close)

	return &fixture{backend: backend, client: client, session: session, store: s}
}

func (fx *fixture) login(t *testing.T) {
	t.Helper()
	require.NoError(t, fx.session.Login(context.Background(), "a@example.com", "pw"))
}

func cacheIDs(s *Store) []int {
	deadlines := s.Deadlines()
	out := make([]int, len(deadlines))
	for i, d := range deadlines {
		out[i] = d.ID
	}
	return out
}

func TestStore_FetchUnauthenticatedIsNoop(t *testing.T) {
	fx := newFixture(t)

	before := fx.backend.requests
	require.NoError(t, fx.store.Fetch(context.Background()))
	assert.Equal(t, before, fx.backend.requests, "no request may be issued while unauthenticated")
	assert.Empty(t, fx.store.Deadlines())
}

func TestStore_RefetchOnAuthChange(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	fx.login(t)
	_, err := fx.store.Create(ctx, api.CreateDeadlineRequest{
		Title: "Lab report", Date: time.Now().Add(24 * time.Hour), Priority: "medium",
	})
	require.NoError(t, err)

	// A fresh login replaces the cache with the server list.
	fx.session.Logout()
	assert.Empty(t, fx.store.Deadlines(), "logout clears the cache")

	fx.login(t)
	assert.Equal(t, fx.backend.ids(), cacheIDs(fx.store))
}

func TestStore_CRUDSequenceMatchesBackend(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	fx.login(t)

	due := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)
	first, err := fx.store.Create(ctx, api.CreateDeadlineRequest{Title: "One", Date: due, Priority: "low"})
	require.NoError(t, err)
	second, err := fx.store.Create(ctx, api.CreateDeadlineRequest{Title: "Two", Date: due, Priority: "high"})
	require.NoError(t, err)
	third, err := fx.store.Create(ctx, api.CreateDeadlineRequest{Title: "Three", Date: due, Priority: "medium"})
	require.NoError(t, err)

	// Creates prepend.
	assert.Equal(t, []int{third.ID, second.ID, first.ID}, cacheIDs(fx.store))

	newTitle := "Two (revised)"
	updated, err := fx.store.Update(ctx, second.ID, api.UpdateDeadlineRequest{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, newTitle, updated.Title)

	require.NoError(t, fx.store.Delete(ctx, first.ID))

	// After settling, the cache holds exactly the backend's ids, no
	// duplicates, and the update landed in place.
	assert.ElementsMatch(t, fx.backend.ids(), cacheIDs(fx.store))
	seen := map[int]bool{}
	for _, id := range cacheIDs(fx.store) {
		assert.False(t, seen[id], "duplicate id %d in cache", id)
		seen[id] = true
	}
	for _, d := range fx.store.Deadlines() {
		if d.ID == second.ID {
			assert.Equal(t, newTitle, d.Title)
		}
	}
}

func TestStore_DeleteFailureLeavesCache(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	fx.login(t)

	d, err := fx.store.Create(ctx, api.CreateDeadlineRequest{
		Title: "Keep me", Date: time.Now().Add(time.Hour), Priority: "low",
	})
	require.NoError(t, err)

	fx.backend.failNext = "/deadlines/"
	err = fx.store.Delete(ctx, d.ID)
	require.Error(t, err)

	assert.Equal(t, []int{d.ID}, cacheIDs(fx.store), "no local removal before backend confirms")
	assert.Equal(t, "injected failure", fx.store.Err())
}

func TestStore_ToggleCompleteAlternates(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	fx.login(t)

	d, err := fx.store.Create(ctx, api.CreateDeadlineRequest{
		Title: "Flip me", Date: time.Now().Add(time.Hour), Priority: "medium",
	})
	require.NoError(t, err)
	require.False(t, d.Completed)

	toggled, err := fx.store.ToggleComplete(ctx, d.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)

	toggled, err = fx.store.ToggleComplete(ctx, d.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Completed, "each call flips state; toggling is not idempotent")
}

func TestStore_ToggleCompleteRacesWithCreate(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	fx.login(t)

	d, err := fx.store.Create(ctx, api.CreateDeadlineRequest{
		Title: "Contended", Date: time.Now().Add(time.Hour), Priority: "low",
	})
	require.NoError(t, err)

	// Concurrent creates reallocate the cache slice while toggles read the
	// completed flag. The race detector flags any access outside the lock.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if n%2 == 0 {
				_, _ = fx.store.ToggleComplete(ctx, d.ID)
				return
			}
			_, err := fx.store.Create(ctx, api.CreateDeadlineRequest{
				Title: fmt.Sprintf("Filler %d", n), Date: time.Now().Add(time.Hour), Priority: "low",
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.ElementsMatch(t, fx.backend.ids(), cacheIDs(fx.store))
}

func TestStore_ToggleCompleteUnknownID(t *testing.T) {
	fx := newFixture(t)
	fx.login(t)

	_, err := fx.store.ToggleComplete(context.Background(), 404)
	require.Error(t, err)
	assert.Contains(t, fx.store.Err(), "not in the local cache")
}

func TestStore_RapidDuplicateCreates(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	fx.login(t)

	req := api.CreateDeadlineRequest{Title: "Same", Date: time.Now().Add(time.Hour), Priority: "low"}
	a, err := fx.store.Create(ctx, req)
	require.NoError(t, err)
	b, err := fx.store.Create(ctx, req)
	require.NoError(t, err)

	// No dedup: identical payloads become two distinct records.
	assert.NotEqual(t, a.ID, b.ID)
	assert.Len(t, fx.backend.ids(), 2)
}

func TestStore_ErrorRecordedAndReturned(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	fx.login(t)

	_, err := fx.store.Update(ctx, 999, api.UpdateDeadlineRequest{})
	require.Error(t, err)
	assert.Equal(t, "Deadline with id 999 not found", err.Error())
	assert.Equal(t, err.Error(), fx.store.Err(), "the same message is recorded for views")

	// The next successful operation clears the recorded error.
	require.NoError(t, fx.store.Fetch(ctx))
	assert.Empty(t, fx.store.Err())
}
