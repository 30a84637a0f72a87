// Package expr compiles interpolation templates into evaluable programs.
//
// A template is literal text with embedded {{ <expr> }} markers. Markers
// are matched non-greedily; unmatched braces are treated as literal text.
// Expressions use HCL native syntax and are evaluated with the data scope
// as implicit scope: a bare identifier resolves against the scope's own
// properties.
//
//	prog, err := expr.Compile("count: {{ count }}")
//	out, err := prog.Eval(scope) // "count: 1"
//
// Every variable step resolved during Eval is a reactive read, so
// evaluating a program while a watcher is the current evaluation cursor
// forms that watcher's dependency edges as a side effect.
package expr
