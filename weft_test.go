package weft

import (
	"testing"

	"github.com/weft-dev/weft/pkg/bind"
	"github.com/weft-dev/weft/pkg/vdom"
)

func TestNewRejectsNonObject(t *testing.T) {
	if _, err := New(nil); err != ErrNotObject {
		t.Errorf("expected ErrNotObject for nil data, got %v", err)
	}
}

func TestAppAliasLayer(t *testing.T) {
	app, err := New(map[string]any{"count": 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer app.Close()

	if v, ok := app.Get("count"); !ok || v != 1 {
		t.Errorf("expected count=1 through facade, got %v (ok=%v)", v, ok)
	}

	app.Set("count", 2)
	if v, _ := app.Get("count"); v != 2 {
		t.Errorf("expected count=2 through facade, got %v", v)
	}

	// Facade writes go to the same scope the bindings read.
	if v, _ := app.Scope().Get("count"); v != 2 {
		t.Errorf("facade and scope disagree: %v", v)
	}
}

func TestAppBind(t *testing.T) {
	app, err := New(map[string]any{"name": "ada"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer app.Close()

	var got []string
	if _, err := app.Bind("hello {{ name }}", func(s string) {
		got = append(got, s)
	}); err != nil {
		t.Fatalf("Bind: %v", err)
	}

	app.Set("name", "grace")

	if len(got) != 2 || got[0] != "hello ada" || got[1] != "hello grace" {
		t.Errorf("unexpected callback sequence %v", got)
	}
}

func TestAppMountAndClose(t *testing.T) {
	app, err := New(map[string]any{"count": 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tree := vdom.El("p", vdom.Text("{{ count }}"))

	var patches []bind.Patch
	if _, err := app.Mount(tree, func(p bind.Patch) {
		patches = append(patches, p)
	}); err != nil {
		t.Fatalf("Mount: %v", err)
	}

	// Mount's initial evaluation reports the starting state as a patch.
	if len(patches) != 1 || patches[0].Text != "1" {
		t.Fatalf("expected initial patch with text 1, got %+v", patches)
	}

	app.Set("count", 2)
	if len(patches) != 2 || patches[1].Text != "2" {
		t.Fatalf("expected second patch with text 2, got %+v", patches)
	}

	// After Close, mutations no longer reach the tree.
	app.Close()
	app.Set("count", 3)
	if len(patches) != 2 {
		t.Errorf("closed app should not patch, got %+v", patches)
	}
}
