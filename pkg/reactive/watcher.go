package reactive

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

// EvalFunc evaluates a bound expression against its data context and
// returns the rendered result. Reactive reads made inside the call form
// this watcher's dependency edges.
type EvalFunc func() (string, error)

// Watcher is a subscriber: an evaluator bound to a fixed data context, a
// remembered last value, and a reaction sink. It evaluates once on
// construction and re-evaluates synchronously whenever a property it read
// during its most recent evaluation changes.
type Watcher struct {
	id uint64

	// eval computes the watched value.
	eval EvalFunc

	// callback is the reaction sink. It receives exactly the new value,
	// once at construction and once per subsequent value change.
	callback func(string)

	// onError receives evaluation failures raised during notification.
	// Construction-time failures abort construction instead.
	onError func(error)

	// value is the last-remembered result; ran guards the first cycle so
	// the initial callback fires even when the result is the zero string.
	value string
	ran   bool
	mu    sync.Mutex

	// deps are the registries this watcher subscribed to during its most
	// recent evaluation. Cleared and rebuilt from scratch on every run.
	deps   []*Dep
	depsMu sync.Mutex

	torn atomic.Bool
}

// WatcherOption configures a Watcher.
type WatcherOption interface {
	applyWatcher(w *Watcher)
}

type watcherOptionFunc func(*Watcher)

func (f watcherOptionFunc) applyWatcher(w *Watcher) { f(w) }

// OnError routes notification-time evaluation failures to fn instead of the
// default slog report. One broken binding must not break sibling bindings
// in the same notification fan-out.
func OnError(fn func(error)) WatcherOption {
	return watcherOptionFunc(func(w *Watcher) {
		w.onError = fn
	})
}

// NewWatcher constructs a watcher and immediately runs one update cycle,
// establishing the initial dependency set and invoking callback with the
// initial value. A construction-time evaluation failure aborts construction.
func NewWatcher(eval EvalFunc, callback func(string), opts ...WatcherOption) (*Watcher, error) {
	w := &Watcher{
		id:       nextID(),
		eval:     eval,
		callback: callback,
	}
	for _, opt := range opts {
		opt.applyWatcher(w)
	}
	if w.onError == nil {
		id := w.id
		w.onError = func(err error) {
			slog.Error("weft: watcher update failed", "watcher", id, "error", err)
		}
	}

	if err := w.Update(); err != nil {
		// Drop any subscriptions formed before the evaluation failed, so
		// the aborted watcher is never woken by later mutations.
		w.Teardown()
		return nil, err
	}
	return w, nil
}

// ID returns the unique identifier for this watcher.
// Implements the Listener interface.
func (w *Watcher) ID() uint64 {
	return w.id
}

// Get evaluates the bound expression with this watcher as the evaluation
// cursor. The previous dependency set is dropped first, so the set always
// reflects exactly the reads of the most recent evaluation. The cursor is
// restored on every exit path, including a panicking evaluator.
func (w *Watcher) Get() (string, error) {
	w.clearDeps()

	old := setCurrentListener(w)
	defer setCurrentListener(old)
	return w.eval()
}

// Update recomputes the watched value. If it equals the last-remembered
// value the sink is not invoked; otherwise the value is stored and the sink
// receives it. The evaluation error, if any, is returned to the caller.
func (w *Watcher) Update() error {
	if w.torn.Load() {
		return nil
	}

	value, err := w.Get()
	if err != nil {
		return err
	}

	w.mu.Lock()
	if w.ran && value == w.value {
		w.mu.Unlock()
		return nil
	}
	w.value = value
	w.ran = true
	cb := w.callback
	w.mu.Unlock()

	if cb != nil {
		cb(value)
	}
	return nil
}

// MarkDirty re-evaluates synchronously on the calling goroutine.
// Implements the Listener interface; called by a Dep during Notify.
func (w *Watcher) MarkDirty() {
	if err := w.Update(); err != nil {
		w.onError(err)
	}
}

// Value returns the last-remembered result.
func (w *Watcher) Value() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.value
}

// Teardown unsubscribes the watcher from every registry it is registered
// in. A torn-down watcher ignores further notifications.
func (w *Watcher) Teardown() {
	if w.torn.Swap(true) {
		return
	}
	w.clearDeps()
}

// recordDep remembers a registry this watcher subscribed to, deduplicated
// by identity. Called by Scope.Get during evaluation.
func (w *Watcher) recordDep(d *Dep) {
	w.depsMu.Lock()
	defer w.depsMu.Unlock()

	for _, existing := range w.deps {
		if existing == d {
			return
		}
	}
	w.deps = append(w.deps, d)
}

// clearDeps unsubscribes from all registries recorded on the previous run.
func (w *Watcher) clearDeps() {
	w.depsMu.Lock()
	deps := w.deps
	w.deps = nil
	w.depsMu.Unlock()

	for _, d := range deps {
		d.RemoveSub(w)
	}
}
