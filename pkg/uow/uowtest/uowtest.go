// Package uowtest provides an in-memory UnitOfWork for service tests.
package uowtest

import (
	"context"
	"sync"
)

// Snapshotter is implemented by in-memory stores taking part in a unit of
// work. Snapshot captures the current state and returns a function restoring it.
type Snapshotter interface {
	Snapshot() (restore func())
}

type activeKey struct{}

// UnitOfWork serializes every unit of work behind one mutex, which stands in
// for row locks, and restores all registered stores when fn fails or panics.
type UnitOfWork struct {
	mu     sync.Mutex
	stores []Snapshotter

	statsMu   sync.Mutex
	commits   int
	rollbacks int
}

func New(stores ...Snapshotter) *UnitOfWork {
	return &UnitOfWork{stores: stores}
}

func (u *UnitOfWork) Do(ctx context.Context, name string, fn func(txCtx context.Context) error) (err error) {
	if ctx.Value(activeKey{}) != nil {
		return fn(ctx)
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	restores := make([]func(), 0, len(u.stores))
	for _, s := range u.stores {
		restores = append(restores, s.Snapshot())
	}
	rollback := func() {
		for i := len(restores) - 1; i >= 0; i-- {
			restores[i]()
		}
		u.count(false)
	}

	defer func() {
		if r := recover(); r != nil {
			rollback()
			panic(r)
		}
	}()

	if err = fn(context.WithValue(ctx, activeKey{}, name)); err != nil {
		rollback()
		return err
	}
	u.count(true)
	return nil
}

func (u *UnitOfWork) count(committed bool) {
	u.statsMu.Lock()
	defer u.statsMu.Unlock()
	if committed {
		u.commits++
	} else {
		u.rollbacks++
	}
}

func (u *UnitOfWork) Commits() int {
	u.statsMu.Lock()
	defer u.statsMu.Unlock()
	return u.commits
}

func (u *UnitOfWork) Rollbacks() int {
	u.statsMu.Lock()
	defer u.statsMu.Unlock()
	return u.rollbacks
}

// InUnitOfWork reports whether ctx was handed out by Do.
func InUnitOfWork(ctx context.Context) bool {
	return ctx.Value(activeKey{}) != nil
}
