package binding

import "sync"

// Listenable is anything that can notify listeners of changes.
// AddListener returns an unsubscribe function.
type Listenable interface {
	AddListener(fn func()) func()
}

// Notifier broadcasts a value-less change signal to registered listeners.
// Unlike Observable, it does not hold a value. Notifier is thread-safe.
//
// The zero value is not usable; create one with NewNotifier.
type Notifier struct {
	mu        sync.RWMutex
	listeners map[int]func()
	nextID    int
}

// NewNotifier creates a new notifier with no listeners.
func NewNotifier() *Notifier {
	return &Notifier{
		listeners: make(map[int]func()),
	}
}

// AddListener registers a callback that fires on every Notify.
// Returns an unsubscribe function.
func (n *Notifier) AddListener(fn func()) func() {
	if fn == nil {
		return func() {}
	}
	n.mu.Lock()
	id := n.nextID
	n.nextID++
	n.listeners[id] = fn
	n.mu.Unlock()

	return func() {
		n.mu.Lock()
		delete(n.listeners, id)
		n.mu.Unlock()
	}
}

// Notify invokes all registered listeners.
// Listeners are snapshot before invocation, so a listener may safely
// subscribe or unsubscribe during the callback.
func (n *Notifier) Notify() {
	n.mu.RLock()
	listeners := make([]func(), 0, len(n.listeners))
	for _, fn := range n.listeners {
		listeners = append(listeners, fn)
	}
	n.mu.RUnlock()

	for _, fn := range listeners {
		fn()
	}
}

// ListenerCount returns the number of registered listeners.
func (n *Notifier) ListenerCount() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.listeners)
}
