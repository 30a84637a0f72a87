package reactive

// Listener is anything that can be notified when a reactive property changes.
// Watcher is the canonical implementation; tests provide fakes.
type Listener interface {
	// MarkDirty notifies the listener that one of its dependencies has
	// changed. For watchers this re-evaluates synchronously on the calling
	// goroutine.
	MarkDirty()

	// ID returns a unique identifier for this listener.
	// Used to deduplicate subscriptions.
	ID() uint64
}

// depRecorder is implemented by listeners that track which registries they
// subscribed to during an evaluation, so the set can be rebuilt from scratch
// on the next run.
type depRecorder interface {
	recordDep(d *Dep)
}
