package bind

import (
	"fmt"

	"github.com/weft-dev/weft/pkg/expr"
	"github.com/weft-dev/weft/pkg/reactive"
	"github.com/weft-dev/weft/pkg/vdom"
)

// Patch reports one updated text region: the region identifier and its new
// rendered text.
type Patch struct {
	Region string `json:"region"`
	Text   string `json:"text"`
}

// Binding ties one text region to its watcher.
type Binding struct {
	Region  string
	Node    *vdom.VNode
	Watcher *reactive.Watcher
}

// Bindings is the set of live bindings produced by Mount.
type Bindings []*Binding

// Teardown unsubscribes every binding's watcher.
func (bs Bindings) Teardown() {
	for _, b := range bs {
		b.Watcher.Teardown()
	}
}

// Mount walks the tree and binds every text node containing an
// interpolation marker: one watcher per region, in document order. Each
// update rewrites the node's text in place and, when onPatch is non-nil,
// reports the region patch.
//
// Region identifiers are assigned in document order: "t0", "t1", ...
// The initial evaluation happens during Mount, so the tree reflects the
// data's current state when Mount returns. A compile or initial-evaluation
// failure tears down the bindings created so far and returns the error.
func Mount(root *vdom.VNode, scope *reactive.Scope, onPatch func(Patch), opts ...reactive.WatcherOption) (Bindings, error) {
	var targets []*vdom.VNode
	root.Walk(func(n *vdom.VNode) {
		if n.Kind == vdom.KindText && expr.HasMarker(n.Text) {
			targets = append(targets, n)
		}
	})

	bindings := make(Bindings, 0, len(targets))
	for i, node := range targets {
		region := fmt.Sprintf("t%d", i)
		n := node
		w, err := Bind(n.Text, scope, func(s string) {
			n.Text = s
			if onPatch != nil {
				onPatch(Patch{Region: region, Text: s})
			}
		}, opts...)
		if err != nil {
			bindings.Teardown()
			return nil, fmt.Errorf("weft: bind region %s: %w", region, err)
		}
		bindings = append(bindings, &Binding{Region: region, Node: n, Watcher: w})
	}

	return bindings, nil
}
