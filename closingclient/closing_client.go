// Package closingclient wraps an HTTP client so that closing it cancels
// all requests in flight. Use it with restbind.CustomClient to make
// Client.Close interrupt pending calls.
package closingclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
)

// ErrClosed is the cause of requests cancelled by Close and the error of
// requests started after Close.
var ErrClosed = errors.New("restbind client is closed")

type HttpClient interface {
	Do(req *http.Request) (*http.Response, error)
	CloseIdleConnections()
}

type ClosingClient struct {
	impl HttpClient

	mu      sync.Mutex
	closed  bool
	nextID  uint64
	pending map[uint64]context.CancelCauseFunc

	wg sync.WaitGroup
}

func New(impl HttpClient) (*ClosingClient, error) {
	if impl == nil {
		return nil, errors.New("closingclient: nil HTTP client")
	}
	return &ClosingClient{
		impl:    impl,
		pending: make(map[uint64]context.CancelCauseFunc),
	}, nil
}

// begin registers a request. It returns false if the client is closed.
func (c *ClosingClient) begin(cancel context.CancelCauseFunc) (uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return 0, false
	}
	// wg.Add must not race with wg.Wait in Close, so it is called
	// under the mutex protecting closed.
	c.wg.Add(1)
	id := c.nextID
	c.nextID++
	c.pending[id] = cancel
	return id, true
}

func (c *ClosingClient) end(id uint64) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
	c.wg.Done()
}

func (c *ClosingClient) Do(req *http.Request) (*http.Response, error) {
	ctx, cancel := context.WithCancelCause(req.Context())
	id, ok := c.begin(cancel)
	if !ok {
		cancel(ErrClosed)
		return nil, ErrClosed
	}
	defer c.end(id)

	res, err := c.impl.Do(req.Clone(ctx))
	if err != nil && context.Cause(ctx) == ErrClosed {
		return nil, errors.Join(ErrClosed, err)
	}
	return res, err
}

// Pending returns the number of requests in flight.
func (c *ClosingClient) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

func (c *ClosingClient) CloseIdleConnections() {
	c.impl.CloseIdleConnections()
}

// Close cancels requests in flight, waits for them to return and closes
// the underlying client if it implements io.Closer.
func (c *ClosingClient) Close() error {
	c.mu.Lock()
	if !c.closed {
		c.closed = true
		for _, cancel := range c.pending {
			cancel(ErrClosed)
		}
	}
	c.mu.Unlock()

	c.impl.CloseIdleConnections()

	// No wg.Add can happen after closed was set.
	c.wg.Wait()

	if closer, ok := c.impl.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
