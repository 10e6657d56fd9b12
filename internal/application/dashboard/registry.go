package dashboard

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/eshaffer321/orders-dashboard/internal/domain/orders"
	"github.com/eshaffer321/orders-dashboard/internal/infrastructure/storage"
)

// Registry lazily creates one Controller per profile. Controllers idle for
// longer than Options.IdleTTL are dropped, and beyond Options.MaxProfiles
// the least recently used one is dropped. A dropped profile is restored
// from the preference store on its next request.
type Registry struct {
	records []orders.Order
	prefs   storage.PreferenceRepository
	opts    Options

	mu          sync.Mutex
	controllers map[string]*registryEntry
	lastSweep   time.Time
	now         func() time.Time
}

type registryEntry struct {
	ctrl     *Controller
	lastSeen time.Time
}

// NewRegistry creates a registry over a fixed record set.
func NewRegistry(records []orders.Order, prefs storage.PreferenceRepository, opts Options) *Registry {
	if records == nil {
		records = []orders.Order{}
	}
	return &Registry{
		records:     records,
		prefs:       prefs,
		opts:        opts.withDefaults(),
		controllers: make(map[string]*registryEntry),
		now:         time.Now,
	}
}

// LoadRegistry reads the record set from repo and creates a registry.
func LoadRegistry(ctx context.Context, repo storage.Repository, opts Options) (*Registry, error) {
	records, err := repo.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	return NewRegistry(records, repo, opts), nil
}

// Get returns the profile's controller, restoring it from the preference
// store the first time the profile is seen or after it was dropped.
func (r *Registry) Get(ctx context.Context, profileID string) *Controller {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.sweepLocked(now)

	if e, ok := r.controllers[profileID]; ok {
		e.lastSeen = now
		return e.ctrl
	}

	for len(r.controllers) >= r.opts.MaxProfiles {
		r.evictOldestLocked()
	}

	c := NewController(ctx, profileID, r.records, r.prefs, r.opts)
	r.controllers[profileID] = &registryEntry{ctrl: c, lastSeen: now}
	r.setActiveLocked()
	return c
}

// Forget drops a profile's controller. Its stored preferences remain.
func (r *Registry) Forget(profileID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.forgetLocked(profileID)
}

// Len returns the number of live controllers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.controllers)
}

// Records returns a copy of the record set.
func (r *Registry) Records() []orders.Order {
	return slices.Clone(r.records)
}

// sweepLocked drops idle controllers, at most once per IdleTTL.
func (r *Registry) sweepLocked(now time.Time) {
	if now.Sub(r.lastSweep) <= r.opts.IdleTTL {
		return
	}
	cutoff := now.Add(-r.opts.IdleTTL)
	for id, e := range r.controllers {
		if e.lastSeen.Before(cutoff) {
			r.forgetLocked(id)
		}
	}
	r.lastSweep = now
}

func (r *Registry) evictOldestLocked() {
	var oldest string
	var oldestSeen time.Time
	first := true
	for id, e := range r.controllers {
		if first || e.lastSeen.Before(oldestSeen) {
			oldest, oldestSeen, first = id, e.lastSeen, false
		}
	}
	if !first {
		r.forgetLocked(oldest)
	}
}

func (r *Registry) forgetLocked(profileID string) {
	if _, ok := r.controllers[profileID]; !ok {
		return
	}
	delete(r.controllers, profileID)
	r.opts.Logger.Debug("profile dropped", "profile", profileID)
	r.setActiveLocked()
}

func (r *Registry) setActiveLocked() {
	if r.opts.Metrics != nil {
		r.opts.Metrics.ActiveProfiles.Set(float64(len(r.controllers)))
	}
}
