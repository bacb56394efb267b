package binding

import (
	"runtime"
	"sync"
	"weak"

	"github.com/go-drift/bind/pkg/errors"
)

// PropertyListener receives property changes routed through a Manager.
//
// Listeners are matched by identity in RemoveListener, so a listener
// must be a comparable value — in practice a pointer, following the
// toolkit's pointer-receiver convention for controllers. Use
// ListenerFunc to wrap a bare function in a comparable handle.
type PropertyListener interface {
	ReceiveWeakEvent(m *Manager, sender *ObservableObject, change PropertyChange)
}

// entry pairs a listener with a non-owning reference to the source it
// was registered against. Once the source is collected, source.Value()
// returns nil and the entry is treated as absent.
type entry struct {
	listener PropertyListener
	source   weak.Pointer[ObservableObject]
}

// sourceSub tracks the manager's single dispatch subscription on a live
// source, reference-counted across that source's entries.
type sourceSub struct {
	handle  int
	count   int
	cleanup runtime.Cleanup
}

// Manager routes property changes from any number of sources to any
// number of registered listeners without extending the lifetime of the
// sources: the registry holds each source through a weak pointer only.
//
// Registration, removal, and the dispatch snapshot all run under one
// lock; listeners are invoked outside the lock on a snapshot, so a
// listener may safely call AddListener or RemoveListener during
// delivery. A panicking listener is recovered and reported through the
// errors package without disturbing delivery to the remaining listeners.
//
// Entries whose source has been collected are dropped whenever dispatch
// or a mutation touches their bucket, and a runtime cleanup purges a
// source's entries when it is collected. Sweep forces the same cleanup
// eagerly.
type Manager struct {
	mu      sync.Mutex
	buckets map[string][]*entry
	subs    map[weak.Pointer[ObservableObject]]*sourceSub
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{
		buckets: make(map[string][]*entry),
		subs:    make(map[weak.Pointer[ObservableObject]]*sourceSub),
	}
}

var defaultManager = NewManager()

// Default returns the process-wide manager instance. Applications that
// want scoped lifetimes should construct their own with NewManager.
func Default() *Manager {
	return defaultManager
}

// AddListener registers listener to receive changes of the named
// property raised on source. A nil source or nil listener is a no-op.
// Registering an already-registered (source, listener, property) triple
// is a no-op: a change is delivered at most once per registration.
func (m *Manager) AddListener(source *ObservableObject, listener PropertyListener, property string) {
	if source == nil || listener == nil {
		return
	}
	wp := weak.Make(source)

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range m.buckets[property] {
		if e.source == wp && e.listener == listener {
			return
		}
	}
	m.buckets[property] = append(m.buckets[property], &entry{
		listener: listener,
		source:   wp,
	})

	if sub, ok := m.subs[wp]; ok {
		sub.count++
		return
	}
	handle := source.subscribe(func(change PropertyChange) {
		m.dispatch(source, change)
	})
	sub := &sourceSub{handle: handle, count: 1}
	sub.cleanup = runtime.AddCleanup(source, m.purge, wp)
	m.subs[wp] = sub
}

// RemoveListener removes the first registration whose listener is
// identical to the given one. If the listener was registered for
// multiple properties, one call removes one registration. An unknown
// listener is a silent no-op.
func (m *Manager) RemoveListener(listener PropertyListener) {
	if listener == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for property, bucket := range m.buckets {
		for i, e := range bucket {
			if e.listener == listener {
				m.removeEntryLocked(property, i)
				return
			}
		}
	}
}

// Sweep removes all entries whose source has been collected.
// Dead entries are also dropped lazily during dispatch and on source
// collection; Sweep exists for deterministic cleanup.
func (m *Manager) Sweep() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for property, bucket := range m.buckets {
		live := bucket[:0]
		for _, e := range bucket {
			if e.source.Value() == nil {
				m.releaseSourceLocked(e.source)
				continue
			}
			live = append(live, e)
		}
		m.storeBucketLocked(property, live)
	}
}

// ListenerCount returns the total number of registrations, including
// entries whose source is dead but not yet swept.
func (m *Manager) ListenerCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := 0
	for _, bucket := range m.buckets {
		total += len(bucket)
	}
	return total
}

// dispatch is the handler the manager subscribes to each source. It
// snapshots the matching listeners under the lock, drops dead entries
// it encounters, and invokes the snapshot after releasing the lock.
func (m *Manager) dispatch(sender *ObservableObject, change PropertyChange) {
	m.mu.Lock()
	bucket, ok := m.buckets[change.Name]
	if !ok {
		m.mu.Unlock()
		return
	}
	matched := make([]PropertyListener, 0, len(bucket))
	live := bucket[:0]
	for _, e := range bucket {
		src := e.source.Value()
		if src == nil {
			m.releaseSourceLocked(e.source)
			continue
		}
		live = append(live, e)
		if src == sender && e.listener != nil {
			matched = append(matched, e.listener)
		}
	}
	m.storeBucketLocked(change.Name, live)
	m.mu.Unlock()

	for _, listener := range matched {
		m.deliver(listener, sender, change)
	}
}

// deliver invokes a single listener, converting a panic into a report.
func (m *Manager) deliver(listener PropertyListener, sender *ObservableObject, change PropertyChange) {
	defer errors.Recover("binding.Manager.dispatch")
	listener.ReceiveWeakEvent(m, sender, change)
}

// purge removes every entry registered against a collected source.
// Invoked by the runtime once the source becomes unreachable.
func (m *Manager) purge(wp weak.Pointer[ObservableObject]) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for property, bucket := range m.buckets {
		live := bucket[:0]
		for _, e := range bucket {
			if e.source == wp {
				continue
			}
			live = append(live, e)
		}
		m.storeBucketLocked(property, live)
	}
	delete(m.subs, wp)
}

// removeEntryLocked removes bucket[i], deletes the bucket if it became
// empty, and releases the entry's source subscription.
func (m *Manager) removeEntryLocked(property string, i int) {
	bucket := m.buckets[property]
	e := bucket[i]
	m.storeBucketLocked(property, append(bucket[:i], bucket[i+1:]...))
	m.releaseSourceLocked(e.source)
}

// releaseSourceLocked drops one reference to a source's dispatch
// subscription, unsubscribing from the source when the last reference
// goes and the source is still alive.
func (m *Manager) releaseSourceLocked(wp weak.Pointer[ObservableObject]) {
	sub, ok := m.subs[wp]
	if !ok {
		return
	}
	sub.count--
	if sub.count > 0 {
		return
	}
	delete(m.subs, wp)
	sub.cleanup.Stop()
	if src := wp.Value(); src != nil {
		src.unsubscribe(sub.handle)
	}
}

func (m *Manager) storeBucketLocked(property string, bucket []*entry) {
	if len(bucket) == 0 {
		delete(m.buckets, property)
		return
	}
	m.buckets[property] = bucket
}
