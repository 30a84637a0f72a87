package reactive

import "testing"

func TestDepAddSubIdempotent(t *testing.T) {
	dep := NewDep()
	listener := newTestListener()

	dep.AddSub(listener)
	dep.AddSub(listener)
	dep.AddSub(listener)

	if dep.Len() != 1 {
		t.Errorf("expected 1 subscriber after repeated adds, got %d", dep.Len())
	}

	dep.Notify()
	if listener.getDirtyCount() != 1 {
		t.Errorf("expected 1 notification, got %d", listener.getDirtyCount())
	}
}

func TestDepRemoveSub(t *testing.T) {
	dep := NewDep()
	a := newTestListener()
	b := newTestListener()

	dep.AddSub(a)
	dep.AddSub(b)
	dep.RemoveSub(a)

	if dep.Len() != 1 {
		t.Errorf("expected 1 subscriber, got %d", dep.Len())
	}

	dep.Notify()
	if a.getDirtyCount() != 0 {
		t.Error("removed subscriber should not be notified")
	}
	if b.getDirtyCount() != 1 {
		t.Error("remaining subscriber should be notified")
	}

	// Removing an absent subscriber is a no-op
	dep.RemoveSub(a)
	if dep.Len() != 1 {
		t.Errorf("expected 1 subscriber, got %d", dep.Len())
	}
}

func TestDepNilListener(t *testing.T) {
	dep := NewDep()
	dep.AddSub(nil)
	dep.RemoveSub(nil)

	if dep.Len() != 0 {
		t.Errorf("nil listener should not be added, got %d subscribers", dep.Len())
	}
}

// mutatingListener removes itself from the registry when notified,
// exercising mutation of the subscriber set mid-iteration.
type mutatingListener struct {
	id    uint64
	dep   *Dep
	fired int
}

func (l *mutatingListener) MarkDirty() {
	l.fired++
	l.dep.RemoveSub(l)
}

func (l *mutatingListener) ID() uint64 { return l.id }

func TestDepNotifyReentrantMutation(t *testing.T) {
	dep := NewDep()

	listeners := make([]*mutatingListener, 3)
	for i := range listeners {
		listeners[i] = &mutatingListener{id: nextID(), dep: dep}
		dep.AddSub(listeners[i])
	}

	// Each listener unsubscribes itself during the fan-out; the snapshot
	// iteration must still reach all three exactly once.
	dep.Notify()

	for i, l := range listeners {
		if l.fired != 1 {
			t.Errorf("listener %d fired %d times, want 1", i, l.fired)
		}
	}
	if dep.Len() != 0 {
		t.Errorf("expected empty registry after self-removal, got %d", dep.Len())
	}
}
