package reactive

import "sync"

// Dep is a per-property dependency registry: the publisher side of the
// reactive graph. Every observed key owns exactly one Dep for its lifetime;
// the Dep is never re-created on write.
type Dep struct {
	// subs are the listeners subscribed to this property.
	subs []Listener

	// subMu protects the subs slice.
	subMu sync.RWMutex
}

// NewDep creates an empty dependency registry.
func NewDep() *Dep {
	return &Dep{}
}

// AddSub adds a listener to this registry's subscribers.
// Deduplicates by listener ID, so re-reading a property during a single
// evaluation leaves the listener registered exactly once.
func (d *Dep) AddSub(l Listener) {
	if l == nil {
		return
	}

	d.subMu.Lock()
	defer d.subMu.Unlock()

	lid := l.ID()
	for _, existing := range d.subs {
		if existing.ID() == lid {
			return
		}
	}

	d.subs = append(d.subs, l)
}

// RemoveSub removes a listener from this registry. No-op if absent.
func (d *Dep) RemoveSub(l Listener) {
	if l == nil {
		return
	}

	d.subMu.Lock()
	defer d.subMu.Unlock()

	lid := l.ID()
	for i, existing := range d.subs {
		if existing.ID() == lid {
			// Remove by swapping with last element (order doesn't matter)
			d.subs[i] = d.subs[len(d.subs)-1]
			d.subs = d.subs[:len(d.subs)-1]
			return
		}
	}
}

// Notify invokes MarkDirty on every current subscriber, synchronously, on
// the calling goroutine. Iterates over a snapshot of the set so a listener
// that mutates this registry mid-notification (unsubscribing itself, or
// triggering a nested Notify on another registry) cannot corrupt the
// iteration.
func (d *Dep) Notify() {
	d.subMu.RLock()
	subs := make([]Listener, len(d.subs))
	copy(subs, d.subs)
	d.subMu.RUnlock()

	for _, sub := range subs {
		sub.MarkDirty()
	}
}

// Len returns the current number of subscribers.
func (d *Dep) Len() int {
	d.subMu.RLock()
	defer d.subMu.RUnlock()
	return len(d.subs)
}
