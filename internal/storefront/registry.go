package storefront

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// DefaultIdleTTL is how long a scope stays open without requests.
const DefaultIdleTTL = 30 * time.Minute

type RegistryOptions struct {
	// IdleTTL drops scopes unused for longer. Zero means DefaultIdleTTL.
	IdleTTL time.Duration
	Now     func() time.Time
}

type entry struct {
	scope    *Scope
	lastUsed time.Time
}

// Registry hands out one Scope per browser id, creating it on first use and
// dropping it once idle. A dropped scope is rebuilt from the store.
type Registry struct {
	mu      sync.Mutex
	scopes  map[string]*entry
	deps    Deps
	idleTTL time.Duration
	now     func() time.Time
}

func NewRegistry(d Deps, opts RegistryOptions) *Registry {
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = DefaultIdleTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Registry{
		scopes:  make(map[string]*entry),
		deps:    d,
		idleTTL: opts.IdleTTL,
		now:     opts.Now,
	}
}

func (r *Registry) Scope(ctx context.Context, browserID string) (*Scope, error) {
	if browserID == "" {
		return nil, fmt.Errorf("storefront: empty browser id")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.scopes[browserID]; ok {
		e.lastUsed = r.now()
		return e.scope, nil
	}
	s, err := NewScope(ctx, browserID, r.deps)
	if err != nil {
		return nil, fmt.Errorf("storefront: open scope: %w", err)
	}
	r.scopes[browserID] = &entry{scope: s, lastUsed: r.now()}
	slog.DebugContext(ctx, "scope opened", "browser_id", browserID)
	return s, nil
}

// Sweep drops scopes idle for longer than the TTL and reports how many.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.idleTTL)
	dropped := 0
	for id, e := range r.scopes {
		if e.lastUsed.Before(cutoff) {
			e.scope.Notifications.Clear()
			delete(r.scopes, id)
			dropped++
		}
	}
	return dropped
}

// Run sweeps every interval until ctx is done. A non-positive interval
// sweeps once per TTL.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = r.idleTTL
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				slog.DebugContext(ctx, "idle scopes dropped", "count", n)
			}
		}
	}
}

// Len is the number of open scopes.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.scopes)
}

// Close drops every scope and its pending toasts. Persisted state is kept.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, e := range r.scopes {
		e.scope.Notifications.Clear()
		delete(r.scopes, id)
	}
}
