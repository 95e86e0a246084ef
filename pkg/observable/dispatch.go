package observable

import (
	"context"
	"sync"
)

// Dispatcher schedules state mutations onto the goroutine that owns
// presentation state.
type Dispatcher interface {
	Dispatch(fn func())
}

type DispatcherFunc func(fn func())

func (f DispatcherFunc) Dispatch(fn func()) { f(fn) }

// Immediate runs every function on the caller's goroutine. It's intended
// for tests and for single-goroutine programs.
var Immediate Dispatcher = DispatcherFunc(func(fn func()) { fn() })

// MainLoop is a Dispatcher backed by a single goroutine: the one that calls
// Run. Dispatch never blocks; functions run in the order they were
// dispatched.
type MainLoop struct {
	lock    sync.Mutex
	queue   []func()
	wake    chan struct{}
	once    sync.Once
	stopped bool
}

var _ Dispatcher = (*MainLoop)(nil)

func (loop *MainLoop) init() {
	loop.once.Do(func() { loop.wake = make(chan struct{}, 1) })
}

func (loop *MainLoop) Dispatch(fn func()) {
	loop.init()

	loop.lock.Lock()
	if loop.stopped {
		loop.lock.Unlock()
		return
	}
	loop.queue = append(loop.queue, fn)
	loop.lock.Unlock()

	select {
	case loop.wake <- struct{}{}:
	default:
	}
}

// Run executes dispatched functions until ctx is done. Functions dispatched
// after Run returns are dropped.
func (loop *MainLoop) Run(ctx context.Context) error {
	loop.init()
	defer func() {
		loop.lock.Lock()
		loop.stopped = true
		loop.queue = nil
		loop.lock.Unlock()
	}()

	for {
		for _, fn := range loop.drain() {
			fn()
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-loop.wake:
		}
	}
}

func (loop *MainLoop) drain() []func() {
	loop.lock.Lock()
	defer loop.lock.Unlock()
	queue := loop.queue
	loop.queue = nil
	return queue
}
