package bind

import (
	"github.com/weft-dev/weft/pkg/expr"
	"github.com/weft-dev/weft/pkg/reactive"
)

// Bind compiles a template and constructs exactly one watcher pushing its
// evaluation result into sink. The sink receives the initial value before
// Bind returns. A template with zero markers still produces a working
// (constant) watcher that never re-fires.
func Bind(template string, scope *reactive.Scope, sink func(string), opts ...reactive.WatcherOption) (*reactive.Watcher, error) {
	prog, err := expr.Compile(template)
	if err != nil {
		return nil, err
	}

	return reactive.NewWatcher(func() (string, error) {
		return prog.Eval(scope)
	}, sink, opts...)
}
