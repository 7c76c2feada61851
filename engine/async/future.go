package async

import (
	"context"
	"sync"
)

// Future is a single-assignment result that eventually holds either a value or an error.
// Continuations registered with Then are delivered on a Dispatcher, never on the
// goroutine that settled the future.
type Future[T any] struct {
	mu      sync.Mutex
	done    chan struct{}
	settled bool
	value   T
	err     error
	waiters []func()
}

// Promise is the write side of a Future. Only the first Resolve or Reject takes effect.
type Promise[T any] struct {
	f *Future[T]
}

// NewPromise creates an unsettled Future together with the Promise that settles it.
//
// Returns:
//   - *Future[T]: the read side
//   - Promise[T]: the write side
func NewPromise[T any]() (*Future[T], Promise[T]) {
	f := &Future[T]{done: make(chan struct{})}
	return f, Promise[T]{f: f}
}

// Resolved returns a Future already settled with v.
//
// Parameters:
//   - v: the value
//
// Returns:
//   - *Future[T]: the settled future
func Resolved[T any](v T) *Future[T] {
	f, p := NewPromise[T]()
	p.Resolve(v)
	return f
}

// Rejected returns a Future already settled with err.
//
// Parameters:
//   - err: the failure
//
// Returns:
//   - *Future[T]: the settled future
func Rejected[T any](err error) *Future[T] {
	f, p := NewPromise[T]()
	p.Reject(err)
	return f
}

// Resolve settles the future with v.
//
// Parameters:
//   - v: the value
//
// Returns:
//   - bool: false if the future was already settled
func (p Promise[T]) Resolve(v T) bool {
	return p.f.settle(v, nil)
}

// Reject settles the future with err. A nil err is treated as a resolution with the zero value.
//
// Parameters:
//   - err: the failure
//
// Returns:
//   - bool: false if the future was already settled
func (p Promise[T]) Reject(err error) bool {
	var zero T
	return p.f.settle(zero, err)
}

func (f *Future[T]) settle(v T, err error) bool {
	f.mu.Lock()
	if f.settled {
		f.mu.Unlock()
		return false
	}
	f.settled = true
	f.value = v
	f.err = err
	waiters := f.waiters
	f.waiters = nil
	close(f.done)
	f.mu.Unlock()

	for _, w := range waiters {
		w()
	}
	return true
}

// Done returns a channel closed once the future settles.
//
// Returns:
//   - <-chan struct{}: the completion channel
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Result returns the settled outcome. ok is false while the future is still pending.
//
// Returns:
//   - T: the value (zero on failure or while pending)
//   - bool: whether the future has settled
//   - error: the failure, if any
func (f *Future[T]) Result() (T, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value, f.settled, f.err
}

// Await blocks until the future settles or ctx is done. It must not be called from a
// dispatcher task that the future depends on.
//
// Parameters:
//   - ctx: bounds the wait
//
// Returns:
//   - T: the value
//   - error: the failure or ctx.Err()
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		v, _, err := f.Result()
		return v, err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Then schedules onOK or onErr on d once the future settles. Either callback may be nil.
// Nothing runs if d is closed by then; use ThenOrDropped to observe that.
//
// Parameters:
//   - d: the dispatcher the callback runs on
//   - onOK: called with the value on success
//   - onErr: called with the error on failure
func (f *Future[T]) Then(d Dispatcher, onOK func(T), onErr func(error)) {
	f.ThenOrDropped(d, onOK, onErr, nil)
}

// ThenOrDropped is Then with a fallback: when d refuses the post because it is closed,
// onDropped runs on the goroutine that settled the future instead.
//
// Parameters:
//   - d: the dispatcher the callback runs on
//   - onOK: called with the value on success
//   - onErr: called with the error on failure
//   - onDropped: called when d is closed; may be nil
func (f *Future[T]) ThenOrDropped(d Dispatcher, onOK func(T), onErr func(error), onDropped func()) {
	f.onSettled(func() {
		v, _, err := f.Result()
		posted := d.Post(func() {
			if err != nil {
				if onErr != nil {
					onErr(err)
				}
				return
			}
			if onOK != nil {
				onOK(v)
			}
		})
		if !posted && onDropped != nil {
			onDropped()
		}
	})
}

// onSettled runs fn synchronously on the settling goroutine, or immediately if already settled.
func (f *Future[T]) onSettled(fn func()) {
	f.mu.Lock()
	if !f.settled {
		f.waiters = append(f.waiters, fn)
		f.mu.Unlock()
		return
	}
	f.mu.Unlock()
	fn()
}

// Map derives a future whose value is fn applied to f's value. Failures pass through
// unchanged and fn is not called. fn runs on the goroutine that settles f.
//
// Parameters:
//   - f: the source future
//   - fn: the transformation
//
// Returns:
//   - *Future[U]: the derived future
func Map[T, U any](f *Future[T], fn func(T) (U, error)) *Future[U] {
	out, p := NewPromise[U]()
	f.onSettled(func() {
		v, _, err := f.Result()
		if err != nil {
			p.Reject(err)
			return
		}
		u, err := fn(v)
		if err != nil {
			p.Reject(err)
			return
		}
		p.Resolve(u)
	})
	return out
}

// Settled is anything that can report completion; every *Future[T] satisfies it.
type Settled interface {
	Done() <-chan struct{}
}

// Settle returns a future that resolves once every input has settled, regardless of
// whether each one succeeded. It never rejects.
//
// Parameters:
//   - fs: the futures to wait on
//
// Returns:
//   - *Future[struct{}]: resolves after all inputs settle
func Settle(fs ...Settled) *Future[struct{}] {
	out, p := NewPromise[struct{}]()
	if len(fs) == 0 {
		p.Resolve(struct{}{})
		return out
	}
	var wg sync.WaitGroup
	wg.Add(len(fs))
	for _, f := range fs {
		go func() {
			<-f.Done()
			wg.Done()
		}()
	}
	go func() {
		wg.Wait()
		p.Resolve(struct{}{})
	}()
	return out
}
