// Package reactive provides the dependency-tracking core for Weft.
//
// The reactive system keeps derived output synchronized with mutations to a
// plain data object without explicit re-render calls. Reading a reactive
// property while a watcher is evaluating automatically subscribes that
// watcher to the property's changes.
//
// # Core Types
//
// Scope is an observed data object. Each key is backed by a reactive cell
// with its own dependency registry:
//
//	scope := reactive.Observe(map[string]any{"count": 1})
//	v, _ := scope.Get("count") // read (subscribes current watcher)
//	scope.Set("count", 2)      // write (notifies subscribers)
//
// Watcher wraps an evaluator and a reaction sink. It evaluates once on
// construction and re-evaluates whenever a property it read changes:
//
//	w, err := reactive.NewWatcher(eval, func(s string) {
//	    fmt.Println("new value:", s)
//	})
//
// Dep is the per-property subscriber registry. Callers normally never touch
// it directly; edges form implicitly through Scope.Get during evaluation.
//
// # Update Model
//
// Updates are synchronous and depth-first: all subscribers of a mutated
// property are notified before the mutating Set returns, and nested
// mutations performed by a reaction sink run to completion before the outer
// notification loop resumes. There is no batching, no coalescing, and no
// deferred update pass. A value-equal write is a no-op.
//
// # Thread Safety
//
// All primitives are safe for concurrent use. The evaluation cursor is
// per-goroutine, so independent reactive graphs on different goroutines do
// not interfere.
package reactive
