package binding

import "sync"

// Observable holds a value and notifies listeners when it changes.
// It is thread-safe and can be shared across goroutines.
type Observable[T any] struct {
	mu        sync.RWMutex
	value     T
	equals    func(a, b T) bool
	listeners map[int]func(T)
	nextID    int
}

// NewObservable creates an observable with the given initial value.
// Every Set notifies listeners, even if the new value equals the old one.
// Use NewObservableWithEquality to suppress redundant notifications.
func NewObservable[T any](initial T) *Observable[T] {
	return &Observable[T]{
		value:     initial,
		listeners: make(map[int]func(T)),
	}
}

// NewObservableWithEquality creates an observable that only notifies
// listeners when equals reports the new value as different from the
// current one.
func NewObservableWithEquality[T any](initial T, equals func(a, b T) bool) *Observable[T] {
	return &Observable[T]{
		value:     initial,
		equals:    equals,
		listeners: make(map[int]func(T)),
	}
}

// Value returns the current value.
func (o *Observable[T]) Value() T {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.value
}

// Set updates the value and notifies listeners.
// If an equality function is configured and reports the values equal,
// listeners are not notified.
func (o *Observable[T]) Set(value T) {
	o.mu.Lock()
	if o.equals != nil && o.equals(o.value, value) {
		o.mu.Unlock()
		return
	}
	o.value = value
	listeners := o.snapshotLocked()
	o.mu.Unlock()

	for _, fn := range listeners {
		fn(value)
	}
}

// Update applies a transformation to the current value and notifies
// listeners with the result.
func (o *Observable[T]) Update(transform func(T) T) {
	o.mu.Lock()
	next := transform(o.value)
	if o.equals != nil && o.equals(o.value, next) {
		o.mu.Unlock()
		return
	}
	o.value = next
	listeners := o.snapshotLocked()
	o.mu.Unlock()

	for _, fn := range listeners {
		fn(next)
	}
}

// AddListener registers a callback that receives each new value.
// Returns an unsubscribe function.
func (o *Observable[T]) AddListener(fn func(T)) func() {
	if fn == nil {
		return func() {}
	}
	o.mu.Lock()
	id := o.nextID
	o.nextID++
	o.listeners[id] = fn
	o.mu.Unlock()

	return func() {
		o.mu.Lock()
		delete(o.listeners, id)
		o.mu.Unlock()
	}
}

// ListenerCount returns the number of registered listeners.
func (o *Observable[T]) ListenerCount() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.listeners)
}

func (o *Observable[T]) snapshotLocked() []func(T) {
	listeners := make([]func(T), 0, len(o.listeners))
	for _, fn := range o.listeners {
		listeners = append(listeners, fn)
	}
	return listeners
}
