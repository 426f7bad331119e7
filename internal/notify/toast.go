// Package notify implements transient user-facing messages with auto-expiry.
// The Center is an explicit, injectable service; every subscriber receives
// the full toast list on each mutation.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultDuration is the auto-expiry used by the Info and Error helpers.
const DefaultDuration = 3 * time.Second

// Variant styles a toast.
type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

// Toast is a transient notification. A positive Duration auto-dismisses the
// toast after it elapses; Duration 0 keeps it until dismissed explicitly.
type Toast struct {
	ID          string
	Title       string
	Description string
	Variant     Variant
	Duration    time.Duration
}

// Center holds the live toast list. Identical toasts stack; no duplicate
// suppression is performed.
type Center struct {
	mu     sync.Mutex
	toasts []Toast
	subs   map[int]func([]Toast)
	nextID int
	timers map[string]*time.Timer
}

// NewCenter creates an empty Center.
func NewCenter() *Center {
	return &Center{
		subs:   make(map[int]func([]Toast)),
		timers: make(map[string]*time.Timer),
	}
}

// Push enqueues a toast, assigning it a generated id, and schedules expiry
// when its Duration is positive.
func (c *Center) Push(t Toast) string {
	t.ID = uuid.New().String()
	if t.Variant == "" {
		t.Variant = VariantDefault
	}

	c.mu.Lock()
	c.toasts = append(c.toasts, t)
	if t.Duration > 0 {
		id := t.ID
		c.timers[id] = time.AfterFunc(t.Duration, func() {
			c.Dismiss(id)
		})
	}
	c.mu.Unlock()

	c.broadcast()
	return t.ID
}

// Info enqueues a default-variant toast with the default expiry.
func (c *Center) Info(title, description string) string {
	return c.Push(Toast{Title: title, Description: description, Duration: DefaultDuration})
}

// Error enqueues a destructive-variant toast with the default expiry.
func (c *Center) Error(title, description string) string {
	return c.Push(Toast{Title: title, Description: description, Variant: VariantDestructive, Duration: DefaultDuration})
}

// Dismiss removes one toast by id. Unknown ids are ignored.
func (c *Center) Dismiss(id string) {
	c.mu.Lock()
	kept := c.toasts[:0]
	removed := false
	for _, t := range c.toasts {
		if t.ID == id {
			removed = true
			continue
		}
		kept = append(kept, t)
	}
	c.toasts = kept
	if timer, ok := c.timers[id]; ok {
		timer.Stop()
		delete(c.timers, id)
	}
	c.mu.Unlock()

	if removed {
		c.broadcast()
	}
}

// ClearAll empties the list.
func (c *Center) ClearAll() {
	c.mu.Lock()
	c.toasts = nil
	for id, timer := range c.timers {
		timer.Stop()
		delete(c.timers, id)
	}
	c.mu.Unlock()

	c.broadcast()
}

// Toasts returns a snapshot of the current list in insertion order.
func (c *Center) Toasts() []Toast {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Subscribe registers fn to receive the full list on every mutation. The
// returned function unsubscribes.
func (c *Center) Subscribe(fn func([]Toast)) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

func (c *Center) broadcast() {
	c.mu.Lock()
	snapshot := c.snapshotLocked()
	subs := make([]func([]Toast), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
}

func (c *Center) snapshotLocked() []Toast {
	out := make([]Toast, len(c.toasts))
	copy(out, c.toasts)
	return out
}
