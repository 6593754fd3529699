package pool

import (
	"context"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"

	gkerr "github.com/KirkDiggler/gameobject-toolkit/internal/errors"
	"github.com/KirkDiggler/gameobject-toolkit/internal/uuid"
)

// Instance pairs a constructed object with the ID minted for it at
// construction time. The ID follows the object through park and reuse,
// so log lines and stats can trace an individual instance's lifecycle.
type Instance struct {
	// ID is minted once, when the factory constructs the object
	ID string

	// Object is the pooled value, opaque to the pool
	Object any
}

// Stats reports per-key pool counters.
type Stats struct {
	// Constructed is the number of factory constructions
	Constructed int

	// Reused is the number of Gets served from the free list
	Reused int

	// Free is the current free-list size
	Free int

	// FreeIDs lists the IDs of the currently parked instances, most
	// recently parked last
	FreeIDs []string
}

// Pool keeps per-key free lists of constructed instances in front of a
// Factory. Get pops a parked instance or constructs a new one; Put parks
// an instance for reuse. Objects are opaque to the pool; callers reset
// their state before or after Put.
type Pool struct {
	factory  Factory
	capacity int
	ids      uuid.Generator

	mu    sync.Mutex
	free  map[string][]*Instance
	stats map[string]*Stats
}

// Config holds construction options for a Pool.
type Config struct {
	// Factory constructs objects on pool miss. Required.
	Factory Factory

	// Capacity bounds each per-key free list. Zero means 16.
	Capacity int

	// IDGenerator mints instance IDs. Defaults to google/uuid.
	IDGenerator uuid.Generator
}

// NewPool creates a pool over the given factory.
func NewPool(cfg *Config) (*Pool, error) {
	if cfg == nil || cfg.Factory == nil {
		return nil, gkerr.New(gkerr.CodeInvalidArgument, "factory is required")
	}

	capacity := cfg.Capacity
	if capacity <= 0 {
		capacity = 16
	}
	ids := cfg.IDGenerator
	if ids == nil {
		ids = uuid.NewGoogleUUIDGenerator()
	}

	return &Pool{
		factory:  cfg.Factory,
		capacity: capacity,
		ids:      ids,
		free:     make(map[string][]*Instance),
		stats:    make(map[string]*Stats),
	}, nil
}

// Get returns an instance for key, reusing a parked one when available.
// A miss constructs through the factory and mints a fresh instance ID.
func (p *Pool) Get(ctx context.Context, key string) (*Instance, error) {
	if key == "" {
		return nil, gkerr.New(gkerr.CodeInvalidArgument, "key is required")
	}

	p.mu.Lock()
	list := p.free[key]
	if n := len(list); n > 0 {
		inst := list[n-1]
		p.free[key] = list[:n-1]
		p.statsFor(key).Reused++
		p.mu.Unlock()
		log.Printf("Pool: reusing %q instance %s", key, inst.ID)
		return inst, nil
	}
	p.mu.Unlock()

	obj, err := p.factory.Construct(ctx, key)
	if err != nil {
		return nil, gkerr.Wrapf(err, "constructing %q", key)
	}
	inst := &Instance{ID: p.ids.New(), Object: obj}

	p.mu.Lock()
	p.statsFor(key).Constructed++
	p.mu.Unlock()

	log.Printf("Pool: constructed %q instance %s", key, inst.ID)
	return inst, nil
}

// Put parks inst for reuse under key. When the free list is at capacity
// the instance is dropped with a log, not an error.
func (p *Pool) Put(key string, inst *Instance) {
	if key == "" || inst == nil {
		log.Printf("Pool: put with empty key or nil instance ignored")
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.free[key]) >= p.capacity {
		log.Printf("Pool: free list for %q full, dropping instance %s", key, inst.ID)
		return
	}
	p.free[key] = append(p.free[key], inst)
}

// Warm constructs n instances for key concurrently and parks them, up to
// the free-list capacity. Each gets its own minted ID.
func (p *Pool) Warm(ctx context.Context, key string, n int) error {
	if key == "" {
		return gkerr.New(gkerr.CodeInvalidArgument, "key is required")
	}

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			obj, err := p.factory.Construct(ctx, key)
			if err != nil {
				return err
			}
			inst := &Instance{ID: p.ids.New(), Object: obj}
			p.mu.Lock()
			p.statsFor(key).Constructed++
			full := len(p.free[key]) >= p.capacity
			if !full {
				p.free[key] = append(p.free[key], inst)
			}
			p.mu.Unlock()
			if full {
				log.Printf("Pool: free list for %q full during warm, dropping instance %s", key, inst.ID)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return gkerr.Wrapf(err, "warming %q", key)
	}
	return nil
}

// StatsFor returns a copy of the counters for key, including the IDs of
// the parked instances.
func (p *Pool) StatsFor(key string) Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	stats := Stats{}
	if s, ok := p.stats[key]; ok {
		stats = *s
	}
	list := p.free[key]
	stats.Free = len(list)
	if len(list) > 0 {
		stats.FreeIDs = make([]string, len(list))
		for i, inst := range list {
			stats.FreeIDs[i] = inst.ID
		}
	}
	return stats
}

// statsFor returns the mutable counters for key. Caller holds the lock.
func (p *Pool) statsFor(key string) *Stats {
	s, ok := p.stats[key]
	if !ok {
		s = &Stats{}
		p.stats[key] = s
	}
	return s
}
