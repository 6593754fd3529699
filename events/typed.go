package events

import (
	"log"
	"sync"

	gkerr "github.com/KirkDiggler/gameobject-toolkit/internal/errors"
)

// typedListener is the erased wrapper bridging a strongly-typed handler to
// the bus's any-payload listener contract. Payloads of a foreign type are
// skipped, not errors; they only occur when a caller publishes the wrong
// payload type on the adapter's key directly through the bus.
type typedListener[T any] struct {
	fn func(T) error
}

func (tl *typedListener[T]) HandleEvent(payload any) error {
	evt, ok := payload.(T)
	if !ok {
		return nil
	}
	return tl.fn(evt)
}

// Subscription is the opaque handle returned by Typed.Subscribe. The
// caller retains it and passes it back to Unsubscribe; no func identity
// is involved, so method values from different receivers are distinct
// registrations.
type Subscription[T any] struct {
	owner   string
	wrapper *typedListener[T]
}

// Owner returns the owner the subscription was made for.
func (s *Subscription[T]) Owner() string {
	return s.owner
}

// Typed narrows the bus to a single key and a single payload type T.
//
// Every Subscribe mints a fresh erased wrapper and hands back a
// Subscription handle for removal. Handles make removal unambiguous where
// func identity is not: subscribing the same function twice yields two
// independent registrations, each cancelled by its own handle.
//
// If an owner is torn down with Bus.UnsubscribeAllForOwner directly, the
// adapter's handle bookkeeping for that owner goes stale. That is
// harmless: a later Unsubscribe with a stale handle no-ops against the
// bus and still evicts the entry, and never double-removes. PruneOwner
// evicts an owner's entries without touching the bus, for callers that
// pair it with bus-level teardown.
type Typed[T any] struct {
	bus *Bus
	key *Key

	mu   sync.Mutex
	subs map[*Subscription[T]]struct{}
}

// NewTyped creates a typed adapter over one key of the given bus.
func NewTyped[T any](bus *Bus, key *Key) *Typed[T] {
	return &Typed[T]{
		bus:  bus,
		key:  key,
		subs: make(map[*Subscription[T]]struct{}),
	}
}

// Key returns the key this adapter publishes and subscribes on.
func (t *Typed[T]) Key() *Key {
	return t.key
}

// Publish forwards evt to every listener on the adapter's key.
func (t *Typed[T]) Publish(evt T) error {
	return t.bus.Publish(t.key, evt)
}

// Subscribe registers fn for payloads of type T on behalf of owner and
// returns the handle that removes the registration.
func (t *Typed[T]) Subscribe(owner string, fn func(T) error) (*Subscription[T], error) {
	if fn == nil {
		return nil, gkerr.New(gkerr.CodeInvalidArgument, "handler is required")
	}

	wrapper := &typedListener[T]{fn: fn}
	if err := t.bus.Subscribe(owner, t.key, wrapper); err != nil {
		return nil, err
	}

	sub := &Subscription[T]{owner: owner, wrapper: wrapper}
	t.mu.Lock()
	t.subs[sub] = struct{}{}
	t.mu.Unlock()
	return sub, nil
}

// Unsubscribe removes the registration behind sub. An already-cancelled
// or foreign handle is a logged no-op. The handle entry is evicted even
// if the bus-side registration was already gone.
func (t *Typed[T]) Unsubscribe(sub *Subscription[T]) error {
	if sub == nil {
		return gkerr.New(gkerr.CodeInvalidArgument, "subscription is required")
	}

	t.mu.Lock()
	if _, ok := t.subs[sub]; !ok {
		t.mu.Unlock()
		log.Printf("EventBus: typed unsubscribe for %s ignored, subscription not active", t.key)
		return nil
	}
	delete(t.subs, sub)
	t.mu.Unlock()

	return t.bus.Unsubscribe(sub.owner, t.key, sub.wrapper)
}

// PruneOwner evicts every handle subscribed by owner without touching
// the bus. Used alongside Bus.UnsubscribeAllForOwner so the adapter's
// bookkeeping does not outlive the owner.
func (t *Typed[T]) PruneOwner(owner string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for sub := range t.subs {
		if sub.owner == owner {
			delete(t.subs, sub)
		}
	}
}

// SubscriptionCount returns the number of active handles, for tests.
func (t *Typed[T]) SubscriptionCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.subs)
}
