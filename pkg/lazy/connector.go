// Package lazy holds connections that are established on first use and then
// shared for the lifetime of the process.
package lazy

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	defaultTimeout = 10 * time.Second
	dialKey        = "dial"
)

var ErrClosed = errors.New("connector closed")

type DialFunc[T any] func(ctx context.Context) (T, error)

type ReleaseFunc[T any] func(ctx context.Context, conn T) error

// Connector dials at most once at a time. A successful dial is cached until
// Close; a failed one is not, so the next Get dials again.
type Connector[T any] struct {
	dial    DialFunc[T]
	release ReleaseFunc[T]
	timeout time.Duration

	group singleflight.Group

	mu     sync.RWMutex
	conn   T
	ready  bool
	closed bool
}

// New returns a connector. release may be nil. A zero timeout defaults to 10s.
func New[T any](dial DialFunc[T], release ReleaseFunc[T], timeout time.Duration) *Connector[T] {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Connector[T]{
		dial:    dial,
		release: release,
		timeout: timeout,
	}
}

// Get returns the shared connection, dialing it if needed. Concurrent callers
// wait on the same dial. The dial itself is detached from ctx so that one
// caller giving up does not fail the others; ctx only bounds this caller's wait.
func (c *Connector[T]) Get(ctx context.Context) (T, error) {
	if conn, ok, err := c.cached(); ok || err != nil {
		return conn, err
	}

	ch := c.group.DoChan(dialKey, func() (any, error) {
		if conn, ok, err := c.cached(); ok || err != nil {
			return conn, err
		}

		dialCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()

		conn, err := c.dial(dialCtx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.closed {
			if c.release != nil {
				_ = c.release(dialCtx, conn)
			}
			return nil, ErrClosed
		}
		c.conn = conn
		c.ready = true
		return conn, nil
	})

	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}

// Ready reports whether a connection is currently cached.
func (c *Connector[T]) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ready
}

// Close releases the cached connection, if any. Later calls to Get fail with ErrClosed.
func (c *Connector[T]) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	if !c.ready {
		return nil
	}
	c.ready = false
	conn := c.conn
	var zero T
	c.conn = zero
	if c.release == nil {
		return nil
	}
	return c.release(ctx, conn)
}

func (c *Connector[T]) cached() (T, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var zero T
	if c.closed {
		return zero, false, ErrClosed
	}
	if c.ready {
		return c.conn, true, nil
	}
	return zero, false, nil
}
