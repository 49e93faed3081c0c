// Package bcryptpool offloads bcrypt hashing and comparison onto a bounded
// set of worker goroutines rather than letting callers block an RPC
// handler's goroutine on CPU-expensive crypto inline.
package bcryptpool

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

type job struct {
	fn   func() (string, error)
	done chan result
}

type result struct {
	hash string
	err  error
}

// Pool bounds the number of concurrent bcrypt operations in flight, since
// bcrypt is deliberately CPU-expensive and unbounded concurrency here would
// let a handful of slow clients starve the rest of the process.
type Pool struct {
	work chan job
	stop chan struct{}
}

// New starts a Pool with the given number of workers.
func New(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	p := &Pool{
		work: make(chan job),
		stop: make(chan struct{}),
	}
	for i := 0; i < workers; i++ {
		go p.loop()
	}
	return p
}

func (p *Pool) loop() {
	for {
		select {
		case j := <-p.work:
			hash, err := j.fn()
			j.done <- result{hash: hash, err: err}
		case <-p.stop:
			return
		}
	}
}

// Close stops all workers. In-flight submissions still complete or
// observe ctx cancellation; no new work is accepted after Close returns.
func (p *Pool) Close() {
	close(p.stop)
}

func (p *Pool) submit(ctx context.Context, fn func() (string, error)) (string, error) {
	done := make(chan result, 1)
	select {
	case p.work <- job{fn: fn, done: done}:
	case <-ctx.Done():
		return "", ctx.Err()
	case <-p.stop:
		return "", fmt.Errorf("bcryptpool: closed")
	}
	select {
	case r := <-done:
		return r.hash, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Hash computes a bcrypt hash of password on a worker goroutine.
func (p *Pool) Hash(ctx context.Context, password string) (string, error) {
	return p.submit(ctx, func() (string, error) {
		b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return "", err
		}
		return string(b), nil
	})
}

// Compare checks password against hash on a worker goroutine, returning
// nil if they match.
func (p *Pool) Compare(ctx context.Context, hash, password string) error {
	_, err := p.submit(ctx, func() (string, error) {
		return "", bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	})
	return err
}
