package observable

// Collection is an insertion-ordered published list. Every published slice
// is a fresh copy, so subscribers may keep it without synchronization.
type Collection[T any] struct {
	*Value[[]T]
}

func NewCollection[T any](dispatcher Dispatcher) Collection[T] {
	return Collection[T]{NewValue[[]T](dispatcher, nil)}
}

func (c Collection[T]) Clear() {
	c.Update(func([]T) []T { return nil })
}

func (c Collection[T]) Append(item T) {
	c.Update(func(old []T) []T {
		items := make([]T, len(old), len(old)+1)
		copy(items, old)
		return append(items, item)
	})
}

func (c Collection[T]) Len() int { return len(c.Get()) }

// Snapshot returns a copy of the current items.
func (c Collection[T]) Snapshot() []T {
	items := c.Get()
	out := make([]T, len(items))
	copy(out, items)
	return out
}
