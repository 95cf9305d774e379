package client

import (
	"context"
	"sync"
)

// View holds the load state of one screen's data: loading, failed, or
// loaded.
type View[T any] struct {
	mu      sync.RWMutex
	loading bool
	err     error
	data    T
}

// Load runs fetch and records its outcome. Data from an earlier successful
// load is kept when fetch fails.
func (v *View[T]) Load(ctx context.Context, fetch func(context.Context) (T, error)) error {
	v.mu.Lock()
	v.loading = true
	v.err = nil
	v.mu.Unlock()

	data, err := fetch(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.loading = false
	if err != nil {
		v.err = err
		return err
	}
	v.data = data
	return nil
}

// State returns a snapshot of the view.
func (v *View[T]) State() (data T, loading bool, err error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.data, v.loading, v.err
}
