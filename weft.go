// Package weft provides the public API for the Weft data-binding engine.
//
// Weft keeps rendered text synchronized with mutations to a plain data
// object. Observe a data object, bind interpolation templates to sinks,
// and every value-changing write updates the bound output before the write
// returns:
//
//	app, err := weft.New(map[string]any{"count": 1})
//	app.Bind("count: {{ count }}", func(s string) { fmt.Println(s) })
//	app.Set("count", 2) // prints "count: 2"
//
// The facade forwards top-level fields to the underlying reactive scope;
// pkg/reactive, pkg/expr, and pkg/bind expose the individual layers for
// callers that need them directly.
package weft

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/weft-dev/weft/pkg/bind"
	"github.com/weft-dev/weft/pkg/reactive"
	"github.com/weft-dev/weft/pkg/vdom"
)

// ErrNotObject is returned when New is given anything but a plain
// key-value object.
var ErrNotObject = errors.New("weft: data must be a plain key-value object")

// App is a bound instance: an observed data object plus the bindings
// attached to it. It is the alias/forwarding layer — top-level fields are
// read and written directly on the App.
type App struct {
	scope  *reactive.Scope
	logger *slog.Logger

	// watchers tracks bindings created through this App so Close can
	// tear them down together.
	watchers []*reactive.Watcher
	mu       sync.Mutex
}

// Option configures an App.
type Option func(*App)

// WithLogger sets the logger used to report notification-time binding
// failures. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		a.logger = logger
	}
}

// New observes data and returns the bound instance. The data map is
// converted recursively: every key becomes a reactive property and nested
// plain objects become reactive themselves.
func New(data map[string]any, opts ...Option) (*App, error) {
	scope := reactive.Observe(data)
	if scope == nil {
		return nil, ErrNotObject
	}

	app := &App{scope: scope}
	for _, opt := range opts {
		opt(app)
	}
	if app.logger == nil {
		app.logger = slog.Default()
	}
	return app, nil
}

// Scope returns the underlying reactive scope.
func (a *App) Scope() *reactive.Scope {
	return a.scope
}

// Get reads a top-level field. During a tracked evaluation this forms a
// dependency edge like any reactive read.
func (a *App) Get(key string) (any, bool) {
	return a.scope.Get(key)
}

// Set writes a top-level field, notifying its subscribers synchronously
// before returning. A value-equal write is a no-op.
func (a *App) Set(key string, value any) {
	a.scope.Set(key, value)
}

// Bind attaches a template to a sink and returns the watcher. The sink
// receives the initial value before Bind returns. Notification-time
// evaluation failures are logged rather than propagated, so one broken
// binding cannot break its siblings.
func (a *App) Bind(template string, sink func(string)) (*reactive.Watcher, error) {
	w, err := bind.Bind(template, a.scope, sink, reactive.OnError(a.reportError))
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	a.watchers = append(a.watchers, w)
	a.mu.Unlock()
	return w, nil
}

// Mount binds every marker-bearing text node under root, rewriting node
// text in place and reporting region patches to onPatch when non-nil.
func (a *App) Mount(root *vdom.VNode, onPatch func(bind.Patch)) (bind.Bindings, error) {
	bindings, err := bind.Mount(root, a.scope, onPatch, reactive.OnError(a.reportError))
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	for _, b := range bindings {
		a.watchers = append(a.watchers, b.Watcher)
	}
	a.mu.Unlock()
	return bindings, nil
}

// Close tears down every binding created through this App.
func (a *App) Close() {
	a.mu.Lock()
	watchers := a.watchers
	a.watchers = nil
	a.mu.Unlock()

	for _, w := range watchers {
		w.Teardown()
	}
}

func (a *App) reportError(err error) {
	a.logger.Error("weft: binding update failed", "error", err)
}
