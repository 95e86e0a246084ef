package observable

import "sync"

// Value is a published piece of state. Reads may happen from any
// goroutine; writes are handed to the Dispatcher so that subscribers only
// ever observe mutations on the dispatcher's goroutine.
type Value[T any] struct {
	dispatcher  Dispatcher
	lock        sync.RWMutex
	value       T
	subscribers map[uint64]func(T)
	next        uint64
}

// NewValue returns a Value holding initial. A nil dispatcher means
// Immediate.
func NewValue[T any](dispatcher Dispatcher, initial T) *Value[T] {
	if dispatcher == nil {
		dispatcher = Immediate
	}
	return &Value[T]{
		dispatcher:  dispatcher,
		value:       initial,
		subscribers: make(map[uint64]func(T)),
	}
}

func (v *Value[T]) Get() T {
	v.lock.RLock()
	defer v.lock.RUnlock()
	return v.value
}

func (v *Value[T]) Set(value T) {
	v.Update(func(T) T { return value })
}

// Update applies fn to the current value on the dispatcher's goroutine and
// notifies subscribers with the result.
func (v *Value[T]) Update(fn func(T) T) {
	v.dispatcher.Dispatch(func() {
		v.lock.Lock()
		v.value = fn(v.value)
		value := v.value
		subscribers := make([]func(T), 0, len(v.subscribers))
		for _, subscriber := range v.subscribers {
			subscribers = append(subscribers, subscriber)
		}
		v.lock.Unlock()

		for _, subscriber := range subscribers {
			subscriber(value)
		}
	})
}

// Subscribe registers fn for every subsequent change. The returned function
// removes the subscription and is safe to call more than once.
func (v *Value[T]) Subscribe(fn func(T)) (cancel func()) {
	v.lock.Lock()
	id := v.next
	v.next++
	v.subscribers[id] = fn
	v.lock.Unlock()

	return func() {
		v.lock.Lock()
		delete(v.subscribers, id)
		v.lock.Unlock()
	}
}

func (v *Value[T]) Subscribers() int {
	v.lock.RLock()
	defer v.lock.RUnlock()
	return len(v.subscribers)
}
