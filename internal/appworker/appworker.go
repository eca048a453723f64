// Package appworker implements the reactor's side of the app worker
// request/response protocol: one goroutine-backed handle per running
// application, reachable through the same request-in/response-out
// shape as the teacher's internal/client.Client, generalized here from
// a Unix-socket RPC round trip (method, params, uuid-correlated
// response) to an in-process channel carrying windowstate.Request and
// windowstate.Response directly, with the same context-deadline
// timeout discipline as the teacher's Connection.SendRequest.
package appworker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ryanthedev/reactor/internal/windowstate"
)

// DefaultTimeout matches the teacher's client.DefaultTimeout; an app
// worker that fails to answer within this window is treated as hung
// rather than blocking the reactor goroutine indefinitely.
const DefaultTimeout = 2 * time.Second

type call struct {
	req   windowstate.Request
	reply chan windowstate.Response
}

// Handle is a windowstate.SendHandle backed by a single goroutine that
// serializes every request to one application's worker process.
// SendContext enforces a deadline the way the teacher's
// Connection.SendRequest enforces its configured timeout.
type Handle struct {
	calls    chan call
	done     chan struct{}
	stopOnce sync.Once
	timeout  time.Duration
}

// Worker is the function that actually performs one request against
// the application (AX calls, window moves, and so on). serve runs it
// on its own goroutine so calls to one app never block on another.
type Worker func(windowstate.Request) windowstate.Response

// NewHandle starts a worker goroutine around fn and returns the handle
// the reactor uses to reach it. Call Stop to shut the goroutine down;
// calls made after Stop receive an error response instead of blocking
// forever.
func NewHandle(fn Worker, timeout time.Duration) *Handle {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	h := &Handle{
		calls:   make(chan call),
		done:    make(chan struct{}),
		timeout: timeout,
	}
	go h.serve(fn)
	return h
}

func (h *Handle) serve(fn Worker) {
	for {
		select {
		case c := <-h.calls:
			c.reply <- fn(c.req)
		case <-h.done:
			return
		}
	}
}

// Send implements windowstate.SendHandle using the handle's configured
// default timeout.
func (h *Handle) Send(req windowstate.Request) windowstate.Response {
	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()
	return h.SendContext(ctx, req)
}

// SendContext sends req and waits for a reply, an error response if
// ctx is cancelled first, or an error response if the worker has been
// stopped.
func (h *Handle) SendContext(ctx context.Context, req windowstate.Request) windowstate.Response {
	reply := make(chan windowstate.Response, 1)
	select {
	case h.calls <- call{req: req, reply: reply}:
	case <-h.done:
		return windowstate.Response{Err: fmt.Errorf("appworker: handle stopped")}
	case <-ctx.Done():
		return windowstate.Response{Err: ctx.Err()}
	}

	select {
	case resp := <-reply:
		return resp
	case <-ctx.Done():
		return windowstate.Response{Err: ctx.Err()}
	}
}

// Stop shuts down the worker goroutine. Idempotent and safe to call
// from multiple goroutines.
func (h *Handle) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}
