package expr

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"

	"github.com/weft-dev/weft/pkg/reactive"
)

// part is one compiled template piece: a literal preserved verbatim, or a
// parsed expression with its original source kept for error messages.
type part struct {
	literal string
	expr    hcl.Expression
	src     string
}

// Program is a compiled interpolation template: an ordered sequence of
// literal and expression parts concatenated into one string at evaluation
// time.
type Program struct {
	parts []part
	nexpr int
}

// Compile parses a template into a Program. Each marker's contents are
// parsed as an HCL native-syntax expression; a parse failure aborts
// compilation. A template with zero markers compiles to a single constant
// literal part and still produces a working program.
func Compile(tpl string) (*Program, error) {
	p := &Program{}
	for _, f := range splitTemplate(tpl) {
		if !f.isExpr {
			p.parts = append(p.parts, part{literal: f.text})
			continue
		}

		src := strings.TrimSpace(f.text)
		e, diags := hclsyntax.ParseExpression([]byte(src), "template", hcl.InitialPos)
		if diags.HasErrors() {
			return nil, fmt.Errorf("weft: parse expression %q: %w", src, diags)
		}
		p.parts = append(p.parts, part{expr: e, src: src})
		p.nexpr++
	}
	return p, nil
}

// Constant reports whether the program contains no expressions and can
// therefore never change value.
func (p *Program) Constant() bool {
	return p.nexpr == 0
}

// Eval evaluates the program against scope and returns the concatenated
// result. Variable resolution reads through the scope's reactive
// accessors, so dependency edges form for whichever watcher is the current
// evaluation cursor.
func (p *Program) Eval(scope *reactive.Scope) (string, error) {
	var b strings.Builder
	for _, pt := range p.parts {
		if pt.expr == nil {
			b.WriteString(pt.literal)
			continue
		}

		val, err := evalExpression(pt.expr, scope)
		if err != nil {
			return "", fmt.Errorf("weft: expression %q: %w", pt.src, err)
		}
		s, err := formatValue(val)
		if err != nil {
			return "", fmt.Errorf("weft: expression %q: %w", pt.src, err)
		}
		b.WriteString(s)
	}
	return b.String(), nil
}

// evalExpression builds a minimal evaluation context from the expression's
// variable traversals and evaluates it. Only the paths the expression
// actually references are resolved, so the dependency footprint matches
// the reads.
func evalExpression(e hcl.Expression, scope *reactive.Scope) (cty.Value, error) {
	vars := make(map[string]cty.Value)
	for _, trav := range e.Variables() {
		if scope == nil {
			return cty.NilVal, fmt.Errorf("%w: %q (no data scope)", ErrUnknownIdentifier, trav.RootName())
		}
		root := trav.RootName()
		v, err := resolveTraversal(trav, scope)
		if err != nil {
			return cty.NilVal, err
		}
		if existing, ok := vars[root]; ok {
			v = mergeValues(existing, v)
		}
		vars[root] = v
	}

	val, diags := e.Value(&hcl.EvalContext{Variables: vars})
	if diags.HasErrors() {
		return cty.NilVal, fmt.Errorf("weft: evaluate: %w", diags)
	}
	return val, nil
}

// resolveTraversal resolves one variable reference against the scope,
// reading each attribute step through the reactive accessors while the
// addressed value is still an observed object. The resolved leaf is
// wrapped back into nested objects so HCL's own traversal lands on it.
func resolveTraversal(trav hcl.Traversal, scope *reactive.Scope) (cty.Value, error) {
	root := trav.RootName()
	cur, ok := scope.Get(root)
	if !ok {
		return cty.NilVal, fmt.Errorf("%w: %q", ErrUnknownIdentifier, root)
	}

	var path []string
	for _, step := range trav[1:] {
		child, isScope := cur.(*reactive.Scope)
		if !isScope {
			// Remaining steps (slice indexing, etc.) are applied by HCL
			// against the converted value.
			break
		}

		var name string
		switch st := step.(type) {
		case hcl.TraverseAttr:
			name = st.Name
		case hcl.TraverseIndex:
			if st.Key.Type() != cty.String {
				break
			}
			name = st.Key.AsString()
		}
		if name == "" {
			break
		}

		next, ok := child.Get(name)
		if !ok {
			full := root + "." + strings.Join(append(path, name), ".")
			return cty.NilVal, fmt.Errorf("%w: %q", ErrUnknownAttribute, full)
		}
		path = append(path, name)
		cur = next
	}

	leaf, err := toCty(cur)
	if err != nil {
		return cty.NilVal, err
	}
	for i := len(path) - 1; i >= 0; i-- {
		leaf = cty.ObjectVal(map[string]cty.Value{path[i]: leaf})
	}
	return leaf, nil
}
