package binding

import "sync"

// PropertyChange describes a single property-change notification.
type PropertyChange struct {
	// Name is the property that changed.
	Name string
	// Value is the new value, if the source chose to include it.
	// Sources that only signal "something changed" leave it nil.
	Value any
}

// ObservableObject is an embeddable property-change source. Types that
// raise property-change notifications embed it and call
// NotifyPropertyChanged (or NotifyChange) after mutating a property:
//
//	type Person struct {
//	    binding.ObservableObject
//	    name string
//	}
//
//	func (p *Person) SetName(name string) {
//	    p.name = name
//	    p.NotifyPropertyChanged("Name")
//	}
//
// The zero value is ready to use. ObservableObject is thread-safe.
type ObservableObject struct {
	mu        sync.RWMutex
	listeners map[int]func(PropertyChange)
	nextID    int
}

// AddPropertyListener registers a callback that receives every property
// change raised on this object. Returns an unsubscribe function.
func (o *ObservableObject) AddPropertyListener(fn func(PropertyChange)) func() {
	if fn == nil {
		return func() {}
	}
	id := o.subscribe(fn)
	return func() {
		o.unsubscribe(id)
	}
}

// NotifyPropertyChanged raises a change for the named property without
// carrying the new value.
func (o *ObservableObject) NotifyPropertyChanged(name string) {
	o.NotifyChange(PropertyChange{Name: name})
}

// NotifyChange raises the given change to all subscribers.
// Subscribers are snapshot before invocation, so a callback may safely
// subscribe or unsubscribe during delivery.
func (o *ObservableObject) NotifyChange(change PropertyChange) {
	o.mu.RLock()
	listeners := make([]func(PropertyChange), 0, len(o.listeners))
	for _, fn := range o.listeners {
		listeners = append(listeners, fn)
	}
	o.mu.RUnlock()

	for _, fn := range listeners {
		fn(change)
	}
}

// PropertyListenerCount returns the number of registered subscribers.
func (o *ObservableObject) PropertyListenerCount() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.listeners)
}

// subscribe registers a callback and returns a handle for unsubscribe.
// The manager uses the handle form so its bookkeeping never holds a
// closure over the source.
func (o *ObservableObject) subscribe(fn func(PropertyChange)) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.listeners == nil {
		o.listeners = make(map[int]func(PropertyChange))
	}
	id := o.nextID
	o.nextID++
	o.listeners[id] = fn
	return id
}

func (o *ObservableObject) unsubscribe(id int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.listeners, id)
}

// Property is a named, typed value attached to an ObservableObject.
// Setting it raises a PropertyChange carrying the property name and the
// new value. Property is thread-safe.
//
// Example:
//
//	type Person struct {
//	    binding.ObservableObject
//	    Name *binding.Property[string]
//	}
//
//	p := &Person{}
//	p.Name = binding.NewProperty(&p.ObservableObject, "Name", "Alice")
type Property[T any] struct {
	object *ObservableObject
	name   string
	mu     sync.RWMutex
	value  T
}

// NewProperty creates a property on the given object with an initial
// value. Creating the property does not raise a change.
func NewProperty[T any](object *ObservableObject, name string, initial T) *Property[T] {
	return &Property[T]{
		object: object,
		name:   name,
		value:  initial,
	}
}

// Name returns the property name used in change notifications.
func (p *Property[T]) Name() string {
	return p.name
}

// Value returns the current value.
func (p *Property[T]) Value() T {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.value
}

// Set stores the value and raises a change on the owning object.
func (p *Property[T]) Set(value T) {
	p.mu.Lock()
	p.value = value
	p.mu.Unlock()
	p.object.NotifyChange(PropertyChange{Name: p.name, Value: value})
}

// Update applies a transformation to the current value and raises a
// change with the result.
func (p *Property[T]) Update(transform func(T) T) {
	p.mu.Lock()
	next := transform(p.value)
	p.value = next
	p.mu.Unlock()
	p.object.NotifyChange(PropertyChange{Name: p.name, Value: next})
}
