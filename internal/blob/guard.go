package blob

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"
)

// ErrUnavailable is returned while the guard is rejecting calls after
// repeated object store failures.
var ErrUnavailable = errors.New("photo storage unavailable")

type breakerState int

const (
	stateClosed breakerState = iota
	stateOpen
	stateHalfOpen
)

// breaker trips after maxFailures consecutive errors and allows a probe call
// through after resetTimeout.
type breaker struct {
	mu          sync.Mutex
	state       breakerState
	failures    int
	maxFailures int
	resetAfter  time.Duration
	lastFailure time.Time
}

func newBreaker(maxFailures int, resetAfter time.Duration) *breaker {
	return &breaker{maxFailures: maxFailures, resetAfter: resetAfter}
}

func (b *breaker) execute(fn func() error) error {
	b.mu.Lock()
	if b.state == stateOpen {
		if time.Since(b.lastFailure) > b.resetAfter {
			b.state = stateHalfOpen
		} else {
			b.mu.Unlock()
			return ErrUnavailable
		}
	}
	b.mu.Unlock()

	err := fn()

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.failures++
		b.lastFailure = time.Now()
		if b.failures >= b.maxFailures {
			b.state = stateOpen
		}
		return err
	}
	b.failures = 0
	b.state = stateClosed
	return nil
}

// Guarded wraps an object store behind a circuit breaker so a misbehaving
// S3 endpoint fails fast instead of stalling every photo request.
type Guarded struct {
	inner   ObjectStore
	breaker *breaker
}

// ObjectStore is the surface Guarded wraps. Satisfied by *S3Store.
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, opts PutOptions) (Info, error)
	Delete(ctx context.Context, bucket, key string) (bool, error)
	Resolve(raw string) (bucket, key string)
	Bucket() string
}

// NewGuarded wraps store with a breaker that opens after maxFailures
// consecutive errors and probes again after resetAfter.
func NewGuarded(store ObjectStore, maxFailures int, resetAfter time.Duration) *Guarded {
	return &Guarded{inner: store, breaker: newBreaker(maxFailures, resetAfter)}
}

func (g *Guarded) Put(ctx context.Context, key string, r io.Reader, opts PutOptions) (Info, error) {
	var info Info
	err := g.breaker.execute(func() error {
		var err error
		info, err = g.inner.Put(ctx, key, r, opts)
		return err
	})
	return info, err
}

func (g *Guarded) Delete(ctx context.Context, bucket, key string) (bool, error) {
	var deleted bool
	err := g.breaker.execute(func() error {
		var err error
		deleted, err = g.inner.Delete(ctx, bucket, key)
		return err
	})
	return deleted, err
}

// Resolve is pure URL arithmetic and bypasses the breaker.
func (g *Guarded) Resolve(raw string) (bucket, key string) { return g.inner.Resolve(raw) }

func (g *Guarded) Bucket() string { return g.inner.Bucket() }
