package bind

import (
	"testing"

	"github.com/weft-dev/weft/pkg/reactive"
	"github.com/weft-dev/weft/pkg/vdom"
)

func TestMountBindsTextRegions(t *testing.T) {
	scope := reactive.Observe(map[string]any{"title": "Hello", "count": 1})

	tree := vdom.El("div",
		vdom.El("h1", vdom.Text("{{ title }}")),
		vdom.El("p", vdom.Text("count: {{ count }}")),
		vdom.El("footer", vdom.Text("no markers here")),
	)

	var patches []Patch
	bindings, err := Mount(tree, scope, func(p Patch) {
		patches = append(patches, p)
	})
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	defer bindings.Teardown()

	if len(bindings) != 2 {
		t.Fatalf("expected 2 bindings (marker-free text skipped), got %d", len(bindings))
	}

	// Initial evaluation already rewrote the tree.
	if got := tree.HTML(); got != "<div><h1>Hello</h1><p>count: 1</p><footer>no markers here</footer></div>" {
		t.Errorf("unexpected initial render: %q", got)
	}

	patches = patches[:0]
	scope.Set("count", 2)

	if len(patches) != 1 || patches[0].Region != "t1" || patches[0].Text != "count: 2" {
		t.Errorf("expected one patch for region t1, got %+v", patches)
	}
	if tree.Children[1].Children[0].Text != "count: 2" {
		t.Errorf("node text not rewritten in place: %q", tree.Children[1].Children[0].Text)
	}
}

func TestMountRegionOrder(t *testing.T) {
	scope := reactive.Observe(map[string]any{"a": 1, "b": 2})

	tree := vdom.Fragment(
		vdom.Text("{{ a }}"),
		vdom.Text("{{ b }}"),
	)

	bindings, err := Mount(tree, scope, nil)
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	defer bindings.Teardown()

	if bindings[0].Region != "t0" || bindings[1].Region != "t1" {
		t.Errorf("regions should follow document order, got %s %s",
			bindings[0].Region, bindings[1].Region)
	}
}

func TestMountFailureTearsDown(t *testing.T) {
	scope := reactive.Observe(map[string]any{"a": 1})

	tree := vdom.Fragment(
		vdom.Text("{{ a }}"),
		vdom.Text("{{ missing }}"),
	)

	if _, err := Mount(tree, scope, nil); err == nil {
		t.Fatal("expected Mount to fail on unknown identifier")
	}

	// The first region's watcher must have been unsubscribed again.
	calls := 0
	w, err := Bind("{{ a }}", scope, func(string) { calls++ })
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	defer w.Teardown()

	scope.Set("a", 2)
	if calls != 2 {
		t.Errorf("expected only the fresh binding to react, got %d calls", calls)
	}

	if tree.Children[0].Text != "1" {
		t.Errorf("first region keeps its last rendered text, got %q", tree.Children[0].Text)
	}
}
