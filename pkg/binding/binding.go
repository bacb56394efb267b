package binding

// ListenerFunc wraps a bare function in a comparable PropertyListener
// handle, so it can be registered with and removed from a Manager.
type ListenerFunc struct {
	fn func(m *Manager, sender *ObservableObject, change PropertyChange)
}

// NewListenerFunc creates a listener handle around fn.
func NewListenerFunc(fn func(m *Manager, sender *ObservableObject, change PropertyChange)) *ListenerFunc {
	return &ListenerFunc{fn: fn}
}

// ReceiveWeakEvent implements PropertyListener.
func (l *ListenerFunc) ReceiveWeakEvent(m *Manager, sender *ObservableObject, change PropertyChange) {
	if l.fn != nil {
		l.fn(m, sender, change)
	}
}

// Binding is a one-way binding from a source property to an apply
// function, registered through a Manager. Create one with BindProperty
// and release it with Unbind.
type Binding struct {
	manager  *Manager
	listener *ListenerFunc
}

// BindProperty observes the named property on source through the given
// manager and calls apply with each change. A nil manager uses
// Default(). Returns the binding; call Unbind to release it.
//
// Like Manager.AddListener, the binding does not keep source alive.
func BindProperty(m *Manager, source *ObservableObject, property string, apply func(PropertyChange)) *Binding {
	if m == nil {
		m = Default()
	}
	listener := NewListenerFunc(func(_ *Manager, _ *ObservableObject, change PropertyChange) {
		if apply != nil {
			apply(change)
		}
	})
	m.AddListener(source, listener, property)
	return &Binding{manager: m, listener: listener}
}

// Unbind removes the binding's registration. Safe to call more than
// once; subsequent calls are no-ops.
func (b *Binding) Unbind() {
	b.manager.RemoveListener(b.listener)
}
