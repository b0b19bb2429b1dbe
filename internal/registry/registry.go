// Package registry holds the live set of cosmic calculators, caches their
// readings per declared recalc interval, and fans out "calculate all"
// requests across every calculator concurrently.
package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"cosmic/internal/logging"
	"cosmic/internal/types"

	"golang.org/x/sync/errgroup"
)

// cacheEntry is a reading plus the window it stays valid for.
type cacheEntry struct {
	reading   *types.Reading
	birthKey  string
	at        time.Time
	ttl       time.Duration
	expiresAt time.Time
	gen       uint64
}

// Registry holds calculators keyed by identifier. It is safe for concurrent use.
type Registry struct {
	mu          sync.RWMutex
	calculators map[string]types.Calculator
	gens        map[string]uint64

	cacheMu sync.Mutex
	cache   map[string]cacheEntry

	now func() time.Time
}

// Option configures a Registry.
type Option func(*Registry)

// WithClock replaces time.Now for expiry checks and default reference times.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		calculators: make(map[string]types.Calculator),
		gens:        make(map[string]uint64),
		cache:       make(map[string]cacheEntry),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a calculator. Registering an identifier again replaces the
// previous calculator and drops its cached reading.
func (r *Registry) Register(c types.Calculator) error {
	if c == nil {
		return ErrNilCalculator
	}
	id := c.ID()
	if id == "" {
		return ErrEmptyID
	}

	r.mu.Lock()
	_, replaced := r.calculators[id]
	r.calculators[id] = c
	r.gens[id]++
	r.mu.Unlock()

	r.Invalidate(id)
	if replaced {
		logging.Registry("Replaced calculator: %s (%s)", id, c.Name())
	} else {
		logging.RegistryDebug("Registered calculator: %s (%s, interval=%s)", id, c.Name(), c.Interval())
	}
	return nil
}

// MustRegister registers a calculator and panics on error.
func (r *Registry) MustRegister(c types.Calculator) {
	if err := r.Register(c); err != nil {
		panic(fmt.Sprintf("failed to register calculator: %v", err))
	}
}

// Unregister removes a calculator and its cached reading. It reports
// whether the identifier was registered.
func (r *Registry) Unregister(id string) bool {
	r.mu.Lock()
	_, ok := r.calculators[id]
	delete(r.calculators, id)
	r.gens[id]++
	r.mu.Unlock()

	r.Invalidate(id)
	if ok {
		logging.RegistryDebug("Unregistered calculator: %s", id)
	}
	return ok
}

// Get returns a calculator by identifier, or nil.
func (r *Registry) Get(id string) types.Calculator {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.calculators[id]
}

// Has reports whether id is registered.
func (r *Registry) Has(id string) bool {
	return r.Get(id) != nil
}

// IDs returns the registered identifiers, sorted.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.calculators))
	for id := range r.calculators {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Calculators returns the registered calculators sorted by identifier.
func (r *Registry) Calculators() []types.Calculator {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]types.Calculator, 0, len(r.calculators))
	for _, c := range r.calculators {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// Count returns the number of registered calculators.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.calculators)
}

// =============================================================================
// CALCULATION
// =============================================================================

// Calculate runs one calculator through the cache. A zero reference time
// means now. It returns (nil, nil) when the calculator has no reading.
func (r *Registry) Calculate(ctx context.Context, id string, birth *types.BirthMoment, at time.Time) (*types.Reading, error) {
	r.mu.RLock()
	c, ok := r.calculators[id]
	gen := r.gens[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCalculatorNotFound, id)
	}
	if at.IsZero() {
		at = r.now()
	}
	return r.calculate(ctx, c, gen, birth, at)
}

// CalculateAll runs every registered calculator concurrently. Calculators
// that return no reading, fail or panic are left out of the result.
func (r *Registry) CalculateAll(ctx context.Context, birth *types.BirthMoment, at time.Time) map[string]*types.Reading {
	if at.IsZero() {
		at = r.now()
	}

	r.mu.RLock()
	calcs := make(map[string]types.Calculator, len(r.calculators))
	gens := make(map[string]uint64, len(r.calculators))
	for id, c := range r.calculators {
		calcs[id] = c
		gens[id] = r.gens[id]
	}
	r.mu.RUnlock()

	timer := logging.StartTimer(logging.CategoryRegistry, "calculate_all")
	defer timer.StopWithThreshold(2 * time.Second)

	var mu sync.Mutex
	results := make(map[string]*types.Reading, len(calcs))

	eg, egCtx := errgroup.WithContext(ctx)
	for id, c := range calcs {
		id, c := id, c
		eg.Go(func() error {
			reading, err := r.calculate(egCtx, c, gens[id], birth, at)
			if err != nil {
				logging.RegistryWarn("calculator %s failed: %v", id, err)
				return nil
			}
			if reading == nil {
				logging.RegistryDebug("calculator %s returned no reading", id)
				return nil
			}
			mu.Lock()
			results[id] = reading
			mu.Unlock()
			return nil
		})
	}
	_ = eg.Wait()

	logging.RegistryDebug("calculate_all: %d/%d calculators reported", len(results), len(calcs))
	return results
}

// CosmicTimestamp runs CalculateAll and packages it with the reference time.
func (r *Registry) CosmicTimestamp(ctx context.Context, birth *types.BirthMoment, at time.Time) *types.CosmicBundle {
	if at.IsZero() {
		at = r.now()
	}
	return &types.CosmicBundle{
		Timestamp: at,
		States:    r.CalculateAll(ctx, birth, at),
	}
}

// Archetypes maps every reading in the bundle through its calculator,
// sorted by system. Readings whose calculator is no longer registered are
// skipped.
func (r *Registry) Archetypes(bundle *types.CosmicBundle) []types.ArchetypeMapping {
	if bundle == nil {
		return nil
	}
	out := make([]types.ArchetypeMapping, 0, len(bundle.States))
	for id, reading := range bundle.States {
		c := r.Get(id)
		if c == nil || reading == nil {
			continue
		}
		out = append(out, archetypesOf(c, reading))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].System < out[j].System })
	return out
}

func archetypesOf(c types.Calculator, reading *types.Reading) (m types.ArchetypeMapping) {
	defer func() {
		if rec := recover(); rec != nil {
			logging.RegistryWarn("archetypes for %s panicked: %v", c.ID(), rec)
			m = types.ArchetypeMapping{System: c.ID()}
		}
	}()
	m = c.Archetypes(reading)
	m.System = c.ID()
	return m
}

func (r *Registry) calculate(ctx context.Context, c types.Calculator, gen uint64, birth *types.BirthMoment, at time.Time) (*types.Reading, error) {
	id := c.ID()
	key := types.BirthKey(birth)

	if reading, ok := r.lookup(id, key, at); ok {
		logging.RegistryDebug("cache hit: %s", id)
		return reading, nil
	}

	reading, err := invoke(ctx, c, birth, at)
	if err != nil || reading == nil {
		return nil, err
	}
	if reading.System != id {
		return nil, fmt.Errorf("%w: %s returned %q", ErrSystemMismatch, id, reading.System)
	}

	ttl := c.Interval().TTL()
	r.store(id, gen, cacheEntry{
		reading:   reading,
		birthKey:  key,
		at:        at,
		ttl:       ttl,
		expiresAt: r.now().Add(ttl),
		gen:       gen,
	})
	return reading, nil
}

func invoke(ctx context.Context, c types.Calculator, birth *types.BirthMoment, at time.Time) (reading *types.Reading, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			reading, err = nil, fmt.Errorf("%w: %s: %v", ErrCalculatorPanic, c.ID(), rec)
		}
	}()
	if birth == nil && c.RequiresBirth() {
		return nil, nil
	}
	return c.Calculate(ctx, birth, at)
}

// =============================================================================
// CACHE
// =============================================================================

// lookup returns a cached reading that is unexpired, was computed for the
// same birth moment, and whose validity window covers at.
func (r *Registry) lookup(id, birthKey string, at time.Time) (*types.Reading, bool) {
	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()

	e, ok := r.cache[id]
	if !ok {
		return nil, false
	}
	if !r.now().Before(e.expiresAt) || e.birthKey != birthKey {
		return nil, false
	}
	if at.Before(e.at) || !at.Before(e.at.Add(e.ttl)) {
		return nil, false
	}
	return e.reading, true
}

// store keeps e unless the calculator was replaced while it was computing.
// The read lock is held across the write so a concurrent Register cannot
// bump the generation between the check and the store.
func (r *Registry) store(id string, gen uint64, e cacheEntry) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.gens[id] != gen {
		return
	}

	r.cacheMu.Lock()
	r.cache[id] = e
	r.cacheMu.Unlock()
}

// Invalidate drops the cached reading for id.
func (r *Registry) Invalidate(id string) {
	r.cacheMu.Lock()
	delete(r.cache, id)
	r.cacheMu.Unlock()
}

// InvalidateAll drops every cached reading.
func (r *Registry) InvalidateAll() {
	r.cacheMu.Lock()
	r.cache = make(map[string]cacheEntry)
	r.cacheMu.Unlock()
	logging.RegistryDebug("cache flushed")
}

// Cached reports whether id currently has an unexpired cache entry.
func (r *Registry) Cached(id string) bool {
	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()
	e, ok := r.cache[id]
	return ok && r.now().Before(e.expiresAt)
}

// =============================================================================
// GLOBAL REGISTRY
// =============================================================================

var (
	globalOnce sync.Once
	global     *Registry
)

// Global returns the process-wide registry, created empty on first use.
func Global() *Registry {
	globalOnce.Do(func() {
		global = New()
	})
	return global
}
