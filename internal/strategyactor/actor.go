// Package strategyactor serializes all mutating access to a single
// strategy's session state behind a single worker goroutine per
// strategy: one goroutine per strategy drains a channel of closures
// against that strategy's SessionContext, giving every RPC handler a
// serialized critical section without a single global lock across all
// strategies.
package strategyactor

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

type job struct {
	ctx context.Context
	fn  func(ctx context.Context)
	done chan struct{}
}

// Actor runs arbitrary critical sections against one strategy's state,
// one at a time, in submission order.
type Actor struct {
	strategyID uuid.UUID

	// dieMu guards sending to reqs against a concurrent Stop, so Do never
	// sends on a channel that is in the middle of being closed.
	dieMu sync.RWMutex
	reqs  chan job
	dead  int32
}

// New starts an Actor for strategyID. The caller must call Stop once the
// strategy has no more subscribers, or the worker goroutine leaks.
func New(strategyID uuid.UUID) *Actor {
	a := &Actor{
		strategyID: strategyID,
		reqs:       make(chan job),
	}
	go a.run()
	return a
}

// Do submits fn to run serialized against every other submission to this
// Actor, blocking until fn returns. It returns ErrDead if the actor has
// already been stopped.
func (a *Actor) Do(ctx context.Context, fn func(ctx context.Context)) error {
	dead := false

	a.dieMu.RLock()
	if atomic.LoadInt32(&a.dead) == 1 {
		dead = true
	}
	if dead {
		a.dieMu.RUnlock()
		return ErrDead
	}

	done := make(chan struct{})
	select {
	case a.reqs <- job{ctx: ctx, fn: fn, done: done}:
		a.dieMu.RUnlock()
	case <-ctx.Done():
		a.dieMu.RUnlock()
		return ctx.Err()
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *Actor) run() {
	for j := range a.reqs {
		j.fn(j.ctx)
		close(j.done)
	}
}

// Stop permanently disables the Actor. Any request already queued
// completes; requests submitted afterward fail immediately with ErrDead.
func (a *Actor) Stop() {
	if atomic.SwapInt32(&a.dead, 1) == 1 {
		return
	}
	a.dieMu.Lock()
	a.dieMu.Unlock()
	close(a.reqs)
}

// ErrDead is returned by Do once Stop has been called.
var ErrDead = errDead{}

type errDead struct{}

func (errDead) Error() string { return "strategyactor: actor stopped" }
