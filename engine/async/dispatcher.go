package async

import (
	"context"
	"sync"
)

// dispatcher is the implementation of the Dispatcher interface.
type dispatcher struct {
	mu     sync.Mutex
	queue  []func()
	wake   chan struct{}
	closed bool
}

// Dispatcher is a single turn-taking event queue. Tasks posted from any goroutine are
// executed one at a time, in FIFO order, by whichever goroutine drives the queue via Run
// or RunPending. Everything that mutates the scene graph or the surface registry is
// funneled through one Dispatcher so no two handlers ever run concurrently.
type Dispatcher interface {
	// Post enqueues fn for execution on the dispatcher's turn. It never blocks.
	//
	// Parameters:
	//   - fn: the task to run
	//
	// Returns:
	//   - bool: false if the dispatcher has been closed and fn was dropped
	Post(fn func()) bool

	// Run executes tasks on the calling goroutine until ctx is done or Close is called.
	// Tasks still queued when Run returns are discarded.
	//
	// Parameters:
	//   - ctx: context whose cancellation stops the loop
	//
	// Returns:
	//   - error: ctx.Err() on cancellation, nil after Close
	Run(ctx context.Context) error

	// RunPending executes every queued task, including tasks posted by those tasks,
	// and returns once the queue is empty.
	//
	// Returns:
	//   - int: the number of tasks executed
	RunPending() int

	// Pending returns the number of queued tasks.
	//
	// Returns:
	//   - int: the queue length
	Pending() int

	// Close stops Run and rejects further posts. Safe to call multiple times.
	Close()
}

var _ Dispatcher = &dispatcher{}

// NewDispatcher creates an empty, open Dispatcher.
//
// Returns:
//   - Dispatcher: the new dispatcher
func NewDispatcher() Dispatcher {
	return &dispatcher{
		wake: make(chan struct{}, 1),
	}
}

func (d *dispatcher) Post(fn func()) bool {
	if fn == nil {
		return false
	}
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return false
	}
	d.queue = append(d.queue, fn)
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
	return true
}

func (d *dispatcher) Run(ctx context.Context) error {
	for {
		if fn, ok := d.pop(); ok {
			fn()
			continue
		}

		d.mu.Lock()
		closed := d.closed
		d.mu.Unlock()
		if closed {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-d.wake:
		}
	}
}

func (d *dispatcher) RunPending() int {
	n := 0
	for {
		fn, ok := d.pop()
		if !ok {
			return n
		}
		fn()
		n++
	}
}

func (d *dispatcher) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queue)
}

func (d *dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.queue = nil
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
}

// pop removes the head of the queue.
func (d *dispatcher) pop() (func(), bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.queue) == 0 {
		return nil, false
	}
	fn := d.queue[0]
	d.queue[0] = nil
	d.queue = d.queue[1:]
	return fn, true
}
