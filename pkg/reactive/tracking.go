package reactive

import (
	"runtime"
	"sync"
)

// trackingContext holds the evaluation cursor for a goroutine.
// Each goroutine has its own cursor so independent reactive graphs
// (tests, concurrent server sessions) do not misattribute dependency edges.
type trackingContext struct {
	// currentListener is what's currently collecting dependencies.
	// When a reactive property is read, it subscribes this listener.
	// nil means no tracking (reads don't create subscriptions).
	currentListener Listener
}

// trackingContexts stores per-goroutine tracking contexts.
// Using sync.Map for concurrent access from multiple goroutines.
var trackingContexts sync.Map

// getGoroutineID returns a unique identifier for the current goroutine.
// This uses the runtime stack to extract the goroutine ID.
// Note: This is an implementation detail and should not be relied upon externally.
func getGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	// The stack starts with "goroutine <id> "
	var id uint64
	for i := 10; i < n; i++ { // Skip "goroutine "
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

// getTrackingContext returns the tracking context for the current goroutine.
// If no context exists, creates a new one.
func getTrackingContext() *trackingContext {
	gid := getGoroutineID()

	if ctx, ok := trackingContexts.Load(gid); ok {
		return ctx.(*trackingContext)
	}

	ctx := &trackingContext{}
	trackingContexts.Store(gid, ctx)
	return ctx
}

// getCurrentListener returns the listener currently collecting dependencies.
// Returns nil if no evaluation is in progress on this goroutine.
func getCurrentListener() Listener {
	return getTrackingContext().currentListener
}

// setCurrentListener sets the evaluation cursor for this goroutine.
// Returns the previous listener so it can be restored, keeping cursor
// ownership strictly nested.
func setCurrentListener(l Listener) Listener {
	ctx := getTrackingContext()
	old := ctx.currentListener
	ctx.currentListener = l
	return old
}

// WithListener runs fn with l as the evaluation cursor for the current
// goroutine, restoring the previous cursor on every exit path including
// panics. Exposed for tests and custom listener implementations.
func WithListener(l Listener, fn func()) {
	old := setCurrentListener(l)
	defer setCurrentListener(old)
	fn()
}

// cleanupGoroutineContext removes the tracking context for the current
// goroutine. Contexts are lightweight, so this is optional; long-lived
// worker pools may call it before returning a goroutine to the pool.
func cleanupGoroutineContext() {
	trackingContexts.Delete(getGoroutineID())
}
