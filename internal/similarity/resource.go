package similarity

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// State is the lifecycle of a semantic backend.
type State int

const (
	StateUnloaded State = iota
	StateLoaded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	default:
		return "unloaded"
	}
}

// Loader builds a semantic backend. It may do network I/O.
type Loader func(ctx context.Context) (Backend, error)

// Resource owns a lazily loaded semantic backend. Only successful loads
// are memoized: a failed load leaves the resource in StateFailed and the
// next Get tries again. Concurrent first loads share one attempt, and a
// single Get never attempts more than one load.
type Resource struct {
	name string
	load Loader

	mu      sync.RWMutex
	state   State
	backend Backend
	lastErr error

	group singleflight.Group
}

func NewResource(name string, load Loader) *Resource {
	return &Resource{name: name, load: load}
}

// Name is the configured backend name ("embedding", "judge").
func (r *Resource) Name() string {
	return r.name
}

// Get returns the loaded backend, loading it first if needed.
func (r *Resource) Get(ctx context.Context) (Backend, error) {
	if b := r.loaded(); b != nil {
		return b, nil
	}

	v, err, _ := r.group.Do("load", func() (any, error) {
		if b := r.loaded(); b != nil {
			return b, nil
		}
		b, err := r.load(ctx)

		r.mu.Lock()
		defer r.mu.Unlock()
		if err != nil {
			r.state = StateFailed
			r.lastErr = err
			return nil, err
		}
		r.state = StateLoaded
		r.backend = b
		r.lastErr = nil
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Backend), nil
}

func (r *Resource) loaded() Backend {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.state == StateLoaded {
		return r.backend
	}
	return nil
}

// State returns the current state and the last load error, if any.
func (r *Resource) State() (State, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state, r.lastErr
}

// ModelID reports the loaded backend's model, or "".
func (r *Resource) ModelID() string {
	if b := r.loaded(); b != nil {
		return b.ModelID()
	}
	return ""
}
