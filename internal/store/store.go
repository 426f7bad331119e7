// Package store holds the client-side deadline cache, a projection of
// server state kept in sync through the API: full refetch on auth changes
// and in-place patches after each confirmed mutation.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"duetrack/internal/api"
	"duetrack/internal/auth"
	"duetrack/internal/models"
)

// Store is the view-model over the deadline collection. Every method
// returns its error to the caller and records the latest message for view
// rendering; no method swallows failures.
type Store struct {
	client  *api.Client
	session *auth.Session
	logger  *slog.Logger

	mu        sync.RWMutex
	deadlines []models.Deadline
	loading   bool
	lastErr   string

	unsubscribe func()
}

// New creates a Store and subscribes it to session auth transitions: login
// triggers a fetch, logout clears the cache.
func New(client *api.Client, session *auth.Session, logger *slog.Logger) *Store {
	s := &Store{
		client:  client,
		session: session,
		logger:  logger,
	}
	s.unsubscribe = session.Subscribe(func(authenticated bool) {
		if authenticated {
			if err := s.Fetch(context.Background()); err != nil {
				logger.Error("Fetch after login failed", "error", err)
			}
		} else {
			s.clear()
		}
	})
	return s
}

// Close detaches the store from session notifications.
func (s *Store) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

// Fetch replaces the cache with the service's full deadline list. It is a
// no-op when unauthenticated.
func (s *Store) Fetch(ctx context.Context) error {
	if !s.session.Authenticated() {
		return nil
	}

	s.mu.Lock()
	s.loading = true
	s.lastErr = ""
	s.mu.Unlock()

	deadlines, err := s.client.Deadlines(ctx, 0, 0)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.lastErr = err.Error()
		return err
	}
	s.deadlines = deadlines
	s.logger.Debug("Deadline cache replaced", "count", len(deadlines))
	return nil
}

// Create posts a new deadline and prepends the stored record to the cache.
func (s *Store) Create(ctx context.Context, req api.CreateDeadlineRequest) (*models.Deadline, error) {
	deadline, err := s.client.CreateDeadline(ctx, req)
	if err != nil {
		s.recordErr(err)
		return nil, err
	}
	s.mu.Lock()
	s.deadlines = append([]models.Deadline{*deadline}, s.deadlines...)
	s.lastErr = ""
	s.mu.Unlock()
	return deadline, nil
}

// Update patches a deadline and replaces the cached entry by id, only after
// the service confirms.
func (s *Store) Update(ctx context.Context, id int, req api.UpdateDeadlineRequest) (*models.Deadline, error) {
	deadline, err := s.client.UpdateDeadline(ctx, id, req)
	if err != nil {
		s.recordErr(err)
		return nil, err
	}
	s.mu.Lock()
	for i := range s.deadlines {
		if s.deadlines[i].ID == id {
			s.deadlines[i] = *deadline
			break
		}
	}
	s.lastErr = ""
	s.mu.Unlock()
	return deadline, nil
}

// Delete removes a deadline. The cached entry is dropped only after the
// service confirms; on failure the cache is untouched.
func (s *Store) Delete(ctx context.Context, id int) error {
	if err := s.client.DeleteDeadline(ctx, id); err != nil {
		s.recordErr(err)
		return err
	}
	s.mu.Lock()
	kept := s.deadlines[:0]
	for _, d := range s.deadlines {
		if d.ID != id {
			kept = append(kept, d)
		}
	}
	s.deadlines = kept
	s.lastErr = ""
	s.mu.Unlock()
	return nil
}

// ToggleComplete flips a deadline's completed flag through Update. Each
// call alternates the state; it is not idempotent.
func (s *Store) ToggleComplete(ctx context.Context, id int) (*models.Deadline, error) {
	// Read the flag while still under the lock; the slice may be
	// reallocated by a concurrent Fetch or Create.
	s.mu.RLock()
	found := false
	completed := false
	for i := range s.deadlines {
		if s.deadlines[i].ID == id {
			found = true
			completed = !s.deadlines[i].Completed
			break
		}
	}
	s.mu.RUnlock()
	if !found {
		err := fmt.Errorf("deadline %d is not in the local cache", id)
		s.recordErr(err)
		return nil, err
	}

	return s.Update(ctx, id, api.UpdateDeadlineRequest{Completed: &completed})
}

// Deadlines returns a copy of the cached list in cache order.
func (s *Store) Deadlines() []models.Deadline {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Deadline, len(s.deadlines))
	copy(out, s.deadlines)
	return out
}

// Loading reports whether a fetch is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the most recent error message, or "" when the last
// operation succeeded.
func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// ClearErr resets the recorded error message.
func (s *Store) ClearErr() {
	s.mu.Lock()
	s.lastErr = ""
	s.mu.Unlock()
}

func (s *Store) clear() {
	s.mu.Lock()
	s.deadlines = nil
	s.lastErr = ""
	s.loading = false
	s.mu.Unlock()
}

func (s *Store) recordErr(err error) {
	s.mu.Lock()
	s.lastErr = err.Error()
	s.mu.Unlock()
}
