package expr

import (
	"errors"
	"testing"

	"github.com/weft-dev/weft/pkg/reactive"
)

func mustCompile(t *testing.T, tpl string) *Program {
	t.Helper()
	p, err := Compile(tpl)
	if err != nil {
		t.Fatalf("Compile(%q): %v", tpl, err)
	}
	return p
}

func mustEval(t *testing.T, p *Program, scope *reactive.Scope) string {
	t.Helper()
	out, err := p.Eval(scope)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	return out
}

func TestProgramRoundTrip(t *testing.T) {
	scope := reactive.Observe(map[string]any{"count": 1})
	p := mustCompile(t, "count: {{ count }}")

	if out := mustEval(t, p, scope); out != "count: 1" {
		t.Errorf("expected %q, got %q", "count: 1", out)
	}

	scope.Set("count", 2)
	if out := mustEval(t, p, scope); out != "count: 2" {
		t.Errorf("expected %q after mutation, got %q", "count: 2", out)
	}
}

func TestProgramConstant(t *testing.T) {
	p := mustCompile(t, "static text")
	if !p.Constant() {
		t.Error("zero-marker template should be constant")
	}

	if out := mustEval(t, p, nil); out != "static text" {
		t.Errorf("constant program should evaluate to itself, got %q", out)
	}

	p = mustCompile(t, "{{ a }}")
	if p.Constant() {
		t.Error("template with a marker is not constant")
	}
}

func TestProgramNestedPath(t *testing.T) {
	scope := reactive.Observe(map[string]any{
		"a": 1,
		"b": map[string]any{"c": 2},
	})
	p := mustCompile(t, "{{ a }}-{{ b.c }}")

	if out := mustEval(t, p, scope); out != "1-2" {
		t.Errorf("expected %q, got %q", "1-2", out)
	}

	scope.Set("a", 5)
	if out := mustEval(t, p, scope); out != "5-2" {
		t.Errorf("expected %q, got %q", "5-2", out)
	}

	v, _ := scope.Get("b")
	v.(*reactive.Scope).Set("c", 9)
	if out := mustEval(t, p, scope); out != "5-9" {
		t.Errorf("expected %q, got %q", "5-9", out)
	}
}

func TestProgramOperators(t *testing.T) {
	scope := reactive.Observe(map[string]any{"n": 4, "name": "ada"})

	cases := []struct {
		tpl  string
		want string
	}{
		{"{{ n + 1 }}", "5"},
		{"{{ n * n }}", "16"},
		{"{{ n > 3 }}", "true"},
		{"{{ n == 5 }}", "false"},
		{"{{ \"hi \" }}{{ name }}", "hi ada"},
		{"{{ n > 0 ? \"pos\" : \"neg\" }}", "pos"},
	}

	for _, tc := range cases {
		p := mustCompile(t, tc.tpl)
		if out := mustEval(t, p, scope); out != tc.want {
			t.Errorf("%q = %q, want %q", tc.tpl, out, tc.want)
		}
	}
}

func TestProgramValueFormatting(t *testing.T) {
	scope := reactive.Observe(map[string]any{
		"f":     1.5,
		"whole": 2.0,
		"flag":  false,
		"none":  nil,
		"list":  []any{1, 2, 3},
	})

	cases := []struct {
		tpl  string
		want string
	}{
		{"{{ f }}", "1.5"},
		{"{{ whole }}", "2"},
		{"{{ flag }}", "false"},
		{"{{ none }}", ""},
		{"{{ list }}", "[1,2,3]"},
		{"{{ list[1] }}", "2"},
	}

	for _, tc := range cases {
		p := mustCompile(t, tc.tpl)
		if out := mustEval(t, p, scope); out != tc.want {
			t.Errorf("%q = %q, want %q", tc.tpl, out, tc.want)
		}
	}
}

func TestProgramUnknownIdentifier(t *testing.T) {
	scope := reactive.Observe(map[string]any{"a": 1})
	p := mustCompile(t, "{{ missing }}")

	_, err := p.Eval(scope)
	if !errors.Is(err, ErrUnknownIdentifier) {
		t.Errorf("expected ErrUnknownIdentifier, got %v", err)
	}
}

func TestProgramUnknownAttribute(t *testing.T) {
	scope := reactive.Observe(map[string]any{"b": map[string]any{"c": 2}})
	p := mustCompile(t, "{{ b.missing }}")

	_, err := p.Eval(scope)
	if !errors.Is(err, ErrUnknownAttribute) {
		t.Errorf("expected ErrUnknownAttribute, got %v", err)
	}
}

func TestCompileSyntaxError(t *testing.T) {
	if _, err := Compile("{{ 1 + }}"); err == nil {
		t.Error("expected parse error for malformed expression")
	}
}

func TestProgramSharedRootTraversals(t *testing.T) {
	scope := reactive.Observe(map[string]any{
		"b": map[string]any{"c": 2, "d": 3},
	})
	p := mustCompile(t, "{{ b.c + b.d }}")

	if out := mustEval(t, p, scope); out != "5" {
		t.Errorf("expected %q, got %q", "5", out)
	}
}

func TestProgramWholeObjectReference(t *testing.T) {
	scope := reactive.Observe(map[string]any{
		"user": map[string]any{"name": "ada"},
	})
	p := mustCompile(t, "{{ user.name }} / {{ user }}")

	if out := mustEval(t, p, scope); out != `ada / {"name":"ada"}` {
		t.Errorf("unexpected output %q", out)
	}
}

func TestEvalRegistersPreciseDependencies(t *testing.T) {
	scope := reactive.Observe(map[string]any{
		"a": 1,
		"b": map[string]any{"c": 2, "d": 3},
	})
	p := mustCompile(t, "{{ b.c }}")

	listener := &countingListener{}
	reactive.WithListener(listener, func() {
		_, _ = p.Eval(scope)
	})

	// Mutating the attribute the expression read must notify; mutating an
	// unrelated sibling attribute must not.
	v, _ := scope.Get("b")
	child := v.(*reactive.Scope)

	child.Set("c", 9)
	if listener.fired != 1 {
		t.Errorf("expected 1 notification for read attribute, got %d", listener.fired)
	}

	child.Set("d", 9)
	if listener.fired != 1 {
		t.Errorf("sibling attribute should not notify, got %d", listener.fired)
	}

	scope.Set("a", 9)
	if listener.fired != 1 {
		t.Errorf("unread root should not notify, got %d", listener.fired)
	}
}

type countingListener struct {
	fired int
}

func (l *countingListener) MarkDirty() { l.fired++ }
func (l *countingListener) ID() uint64 { return 1<<63 + 17 }
