// Package services provides the runtime registry the host uses to hand
// subsystems to game code: register an instance under a name once at
// startup, resolve it by name and type anywhere after.
package services

import (
	"sync"

	gkerr "github.com/KirkDiggler/gameobject-toolkit/internal/errors"
)

// Locator holds named service instances. Registration happens during host
// bootstrap; lookups happen from the frame thread afterwards. The locator
// imposes no lifecycle on services, it only stores and resolves them.
type Locator struct {
	mu       sync.RWMutex
	services map[string]any
}

// NewLocator creates an empty locator.
func NewLocator() *Locator {
	return &Locator{
		services: make(map[string]any),
	}
}

// Register adds a service instance under name. Registering a name twice is
// a wiring bug and fails with CodeAlreadyExists.
func (l *Locator) Register(name string, svc any) error {
	if name == "" {
		return gkerr.New(gkerr.CodeInvalidArgument, "service name is required")
	}
	if svc == nil {
		return gkerr.New(gkerr.CodeInvalidArgument, "service instance is required")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.services[name]; exists {
		return gkerr.Newf(gkerr.CodeAlreadyExists, "service already registered: %s", name)
	}
	l.services[name] = svc
	return nil
}

// Lookup retrieves a service by name.
func (l *Locator) Lookup(name string) (any, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	svc, ok := l.services[name]
	return svc, ok
}

// Names returns all registered service names (unordered).
func (l *Locator) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	names := make([]string, 0, len(l.services))
	for name := range l.services {
		names = append(names, name)
	}
	return names
}

// Get retrieves the service registered under name and asserts it to T.
func Get[T any](l *Locator, name string) (T, error) {
	var zero T

	svc, ok := l.Lookup(name)
	if !ok {
		return zero, gkerr.Newf(gkerr.CodeNotFound, "service not found: %s", name)
	}

	typed, ok := svc.(T)
	if !ok {
		return zero, gkerr.Newf(gkerr.CodeInternal, "service %s: type mismatch, got %T", name, svc)
	}
	return typed, nil
}

// MustGet is Get for bootstrap and test code where a missing service is a
// programming error. Panics on failure.
func MustGet[T any](l *Locator, name string) T {
	svc, err := Get[T](l, name)
	if err != nil {
		panic(err)
	}
	return svc
}
