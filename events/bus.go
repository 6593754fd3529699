package events

import (
	"fmt"
	"log"
	"sync"

	gkerr "github.com/KirkDiggler/gameobject-toolkit/internal/errors"
)

// Listener processes published payloads. Identity is Go interface equality,
// so the same listener value must be passed to Subscribe and Unsubscribe.
type Listener interface {
	HandleEvent(payload any) error
}

// registration ties a key and listener back to the owner that subscribed,
// for owner-scoped mass unsubscription.
type registration struct {
	key      *Key
	listener Listener
}

// Bus routes published payloads to listeners registered under a key.
//
// Publish is snapshot-then-invoke: the listener list is copied before the
// pass, so a listener subscribed during a publish is not invoked in that
// pass, and a listener unsubscribed during a publish is still invoked in
// that pass. Listener errors propagate to the Publish caller and stop the
// pass; the bus does not isolate listeners from each other.
type Bus struct {
	mu        sync.RWMutex
	listeners map[*Key][]Listener
	owners    map[string][]registration
}

// NewBus creates an empty event bus.
func NewBus() *Bus {
	return &Bus{
		listeners: make(map[*Key][]Listener),
		owners:    make(map[string][]registration),
	}
}

// Subscribe registers listener under key on behalf of owner.
// Subscribing an already-registered (key, listener) pair is a logged no-op,
// so subscribe is idempotent. Empty owner, nil key, or nil listener is a
// wiring bug and fails immediately.
func (b *Bus) Subscribe(owner string, key *Key, listener Listener) error {
	if owner == "" {
		return gkerr.New(gkerr.CodeInvalidArgument, "owner is required")
	}
	if key == nil {
		return gkerr.New(gkerr.CodeInvalidArgument, "key is required")
	}
	if listener == nil {
		return gkerr.New(gkerr.CodeInvalidArgument, "listener is required")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, l := range b.listeners[key] {
		if l == listener {
			log.Printf("EventBus: duplicate subscribe for %s by owner %s ignored, already registered by owner %s",
				key, owner, b.ownerOf(key, listener))
			return nil
		}
	}

	b.listeners[key] = append(b.listeners[key], listener)
	b.owners[owner] = append(b.owners[owner], registration{key: key, listener: listener})
	return nil
}

// Unsubscribe removes the exact (key, listener) registration made by owner.
// Removing an absent registration is a logged no-op.
func (b *Bus) Unsubscribe(owner string, key *Key, listener Listener) error {
	if owner == "" {
		return gkerr.New(gkerr.CodeInvalidArgument, "owner is required")
	}
	if key == nil {
		return gkerr.New(gkerr.CodeInvalidArgument, "key is required")
	}
	if listener == nil {
		return gkerr.New(gkerr.CodeInvalidArgument, "listener is required")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	// The owner index is the source of truth for who made the
	// registration; removing through it keeps the index and the per-key
	// lists from diverging.
	if !b.removeOwnerRegistration(owner, key, listener) {
		log.Printf("EventBus: unsubscribe for %s ignored, not registered for owner %s", key, owner)
		return nil
	}
	b.removeListener(key, listener)
	return nil
}

// UnsubscribeAllForOwner removes every registration the owner has made,
// across all keys. Callers invoke this once at the owner's end-of-life; the
// bus performs no automatic lifetime tracking.
func (b *Bus) UnsubscribeAllForOwner(owner string) {
	if owner == "" {
		log.Printf("EventBus: unsubscribe-all with empty owner ignored")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, reg := range b.owners[owner] {
		b.removeListener(reg.key, reg.listener)
	}
	delete(b.owners, owner)
}

// Publish invokes every listener currently registered under key, in
// registration order, passing each the same payload. Publishing on a key
// with no listeners is a no-op. A listener error stops the pass and is
// returned to the caller wrapped with the key label.
func (b *Bus) Publish(key *Key, payload any) error {
	if key == nil {
		return gkerr.New(gkerr.CodeInvalidArgument, "key is required")
	}

	listeners := b.snapshot(key)
	for _, l := range listeners {
		if err := l.HandleEvent(payload); err != nil {
			return fmt.Errorf("publishing %s: %w", key, err)
		}
	}
	return nil
}

// ListenerCount returns the number of listeners registered under key.
func (b *Bus) ListenerCount(key *Key) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners[key])
}

// OwnerRegistrationCount returns the number of registrations held by owner.
func (b *Bus) OwnerRegistrationCount(owner string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.owners[owner])
}

// Clear removes all listeners and all owner bookkeeping.
func (b *Bus) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.listeners = make(map[*Key][]Listener)
	b.owners = make(map[string][]registration)
}

// snapshot returns a copy of the listener slice for key.
func (b *Bus) snapshot(key *Key) []Listener {
	b.mu.RLock()
	defer b.mu.RUnlock()

	original := b.listeners[key]
	if len(original) == 0 {
		return nil
	}
	listeners := make([]Listener, len(original))
	copy(listeners, original)
	return listeners
}

// removeListener deletes listener from the key's list preserving order.
// Caller holds the write lock. Returns false if not registered.
func (b *Bus) removeListener(key *Key, listener Listener) bool {
	listeners := b.listeners[key]
	for i, l := range listeners {
		if l == listener {
			b.listeners[key] = append(listeners[:i], listeners[i+1:]...)
			if len(b.listeners[key]) == 0 {
				delete(b.listeners, key)
			}
			return true
		}
	}
	return false
}

// ownerOf reports which owner holds the (key, listener) registration.
// Caller holds the lock.
func (b *Bus) ownerOf(key *Key, listener Listener) string {
	for owner, regs := range b.owners {
		for _, reg := range regs {
			if reg.key == key && reg.listener == listener {
				return owner
			}
		}
	}
	return "unknown"
}

// removeOwnerRegistration evicts one (key, listener) entry from the owner
// index. Caller holds the write lock. Returns false if the owner never
// made that registration.
func (b *Bus) removeOwnerRegistration(owner string, key *Key, listener Listener) bool {
	regs := b.owners[owner]
	for i, reg := range regs {
		if reg.key == key && reg.listener == listener {
			b.owners[owner] = append(regs[:i], regs[i+1:]...)
			if len(b.owners[owner]) == 0 {
				delete(b.owners, owner)
			}
			return true
		}
	}
	return false
}
