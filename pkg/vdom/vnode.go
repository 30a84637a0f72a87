package vdom

import (
	"fmt"
	"sort"
	"strings"
)

// Kind is the node type discriminator.
type Kind uint8

const (
	KindElement  Kind = iota // <div>, <span>, etc.
	KindText                 // Plain text node, the binding target
	KindFragment             // Grouping without wrapper
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindFragment:
		return "Fragment"
	default:
		return "Unknown"
	}
}

// Attrs holds element attributes.
type Attrs map[string]string

// VNode is a node in the bindable tree.
type VNode struct {
	Kind     Kind
	Tag      string   // Element tag name (e.g., "div")
	Attrs    Attrs    // Attributes for KindElement
	Children []*VNode // Child nodes
	Text     string   // For KindText; rewritten in place by bindings
}

// Text creates a text node.
func Text(content string) *VNode {
	return &VNode{
		Kind: KindText,
		Text: content,
	}
}

// Textf creates a formatted text node.
func Textf(format string, args ...any) *VNode {
	return Text(fmt.Sprintf(format, args...))
}

// El creates an element node. Children may be *VNode, []*VNode, Attrs, or
// string (converted to a text node); nil children are skipped.
func El(tag string, children ...any) *VNode {
	node := &VNode{
		Kind: KindElement,
		Tag:  tag,
	}

	for _, child := range children {
		switch v := child.(type) {
		case nil:
			continue
		case Attrs:
			if node.Attrs == nil {
				node.Attrs = make(Attrs, len(v))
			}
			for k, val := range v {
				node.Attrs[k] = val
			}
		case *VNode:
			if v != nil {
				node.Children = append(node.Children, v)
			}
		case []*VNode:
			for _, c := range v {
				if c != nil {
					node.Children = append(node.Children, c)
				}
			}
		case string:
			node.Children = append(node.Children, Text(v))
		default:
			node.Children = append(node.Children, Textf("%v", v))
		}
	}

	return node
}

// Fragment groups children without a wrapper element.
func Fragment(children ...*VNode) *VNode {
	node := &VNode{Kind: KindFragment}
	for _, c := range children {
		if c != nil {
			node.Children = append(node.Children, c)
		}
	}
	return node
}

// Walk visits v and every descendant in depth-first document order.
func (v *VNode) Walk(fn func(*VNode)) {
	if v == nil {
		return
	}
	fn(v)
	for _, c := range v.Children {
		c.Walk(fn)
	}
}

// TextWrapper decorates one rendered text node. It receives the node and
// its already-escaped text and returns the final HTML for that region.
type TextWrapper func(n *VNode, escaped string) string

// HTML renders the tree as escaped HTML.
func (v *VNode) HTML() string {
	return v.HTMLFunc(nil)
}

// HTMLFunc renders the tree as escaped HTML, passing every text node
// through wrap when non-nil. Used to tag bound regions in server-rendered
// output.
func (v *VNode) HTMLFunc(wrap TextWrapper) string {
	var b strings.Builder
	v.renderHTML(&b, wrap)
	return b.String()
}

func (v *VNode) renderHTML(b *strings.Builder, wrap TextWrapper) {
	if v == nil {
		return
	}

	switch v.Kind {
	case KindText:
		escaped := escapeHTML(v.Text)
		if wrap != nil {
			escaped = wrap(v, escaped)
		}
		b.WriteString(escaped)

	case KindFragment:
		for _, c := range v.Children {
			c.renderHTML(b, wrap)
		}

	case KindElement:
		b.WriteByte('<')
		b.WriteString(v.Tag)

		// Sorted attributes for deterministic output
		keys := make([]string, 0, len(v.Attrs))
		for k := range v.Attrs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			b.WriteByte(' ')
			b.WriteString(k)
			b.WriteString(`="`)
			b.WriteString(escapeAttr(v.Attrs[k]))
			b.WriteByte('"')
		}

		if isVoidElement(v.Tag) {
			b.WriteString("/>")
			return
		}

		b.WriteByte('>')
		for _, c := range v.Children {
			c.renderHTML(b, wrap)
		}
		b.WriteString("</")
		b.WriteString(v.Tag)
		b.WriteByte('>')
	}
}

// voidElements are HTML elements that never have closing tags.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

func isVoidElement(tag string) bool {
	return voidElements[tag]
}
