package vdom

import "testing"

func TestElBuildsTree(t *testing.T) {
	node := El("div", Attrs{"class": "card"},
		El("h1", Text("Title")),
		"plain",
	)

	if node.Kind != KindElement || node.Tag != "div" {
		t.Fatalf("unexpected node %+v", node)
	}
	if node.Attrs["class"] != "card" {
		t.Errorf("expected class attr, got %v", node.Attrs)
	}
	if len(node.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(node.Children))
	}
	if node.Children[1].Kind != KindText || node.Children[1].Text != "plain" {
		t.Errorf("string child should become a text node, got %+v", node.Children[1])
	}
}

func TestWalkOrder(t *testing.T) {
	tree := El("div",
		El("span", Text("a")),
		Text("b"),
	)

	var texts []string
	tree.Walk(func(n *VNode) {
		if n.Kind == KindText {
			texts = append(texts, n.Text)
		}
	})

	if len(texts) != 2 || texts[0] != "a" || texts[1] != "b" {
		t.Errorf("expected depth-first [a b], got %v", texts)
	}
}

func TestHTMLRendering(t *testing.T) {
	cases := []struct {
		name string
		node *VNode
		want string
	}{
		{
			name: "element with attrs",
			node: El("div", Attrs{"class": "x", "id": "y"}, Text("hi")),
			want: `<div class="x" id="y">hi</div>`,
		},
		{
			name: "text is escaped",
			node: Text(`<script>"&"</script>`),
			want: "&lt;script&gt;&quot;&amp;&quot;&lt;/script&gt;",
		},
		{
			name: "fragment has no wrapper",
			node: Fragment(Text("a"), Text("b")),
			want: "ab",
		},
		{
			name: "void element",
			node: El("br"),
			want: "<br/>",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.node.HTML(); got != tc.want {
				t.Errorf("HTML() = %q, want %q", got, tc.want)
			}
		})
	}
}
