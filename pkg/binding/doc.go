// Package binding provides the reactive notification layer of the Drift
// toolkit: listenable values, property-change sources, and a weak event
// manager that routes property changes to listeners without keeping the
// source objects alive.
//
// # Value Notification
//
// Notifier broadcasts a value-less signal, Observable holds a value and
// notifies on change. Both follow the toolkit's unsubscribe-func idiom:
//
//	counter := binding.NewObservable(0)
//	unsub := counter.AddListener(func(value int) {
//	    fmt.Printf("Counter changed to: %d\n", value)
//	})
//	counter.Set(5)
//	unsub()
//
// # Property-Change Sources
//
// A source embeds ObservableObject and raises changes keyed by property
// name. Property wraps a single typed, named value:
//
//	type Person struct {
//	    binding.ObservableObject
//	    name *binding.Property[string]
//	}
//
//	p := &Person{}
//	p.name = binding.NewProperty(&p.ObservableObject, "Name", "Alice")
//	p.name.Set("Bob") // raises PropertyChange{Name: "Name", Value: "Bob"}
//
// # Weak Event Routing
//
// Manager multiplexes property changes from many sources to many
// listeners. The manager holds sources weakly: registering a listener
// never extends the source's lifetime, and entries for collected sources
// are dropped automatically.
//
//	m := binding.NewManager()
//	m.AddListener(&p.ObservableObject, listener, "Name")
//
// A process-wide instance is available via Default.
//
// # Constructor Conventions
//
// Long-lived mutable objects (Manager, Notifier, Observable, Property)
// use NewX() constructors returning pointers. ObservableObject is the
// exception: it is designed to be embedded, and its zero value is ready
// to use.
package binding
