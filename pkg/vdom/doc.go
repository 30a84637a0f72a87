// Package vdom provides the minimal node tree Weft binds templates into.
//
// A VNode represents an element, a text region, or a fragment grouping
// children without a wrapper. Text nodes are the binding targets: the
// template compiler in pkg/bind walks a tree and attaches one watcher per
// text node containing an interpolation marker.
//
// Nodes are created with variadic factory functions:
//
//	El("div", Attrs{"class": "card"},
//	    El("h1", Text("{{ title }}")),
//	    El("p", Text("count: {{ count }}")),
//	)
//
// HTML renders a tree to escaped HTML for a server-rendered surface. There
// is no diffing, hydration, or event handling here; Weft patches rendered
// text regions directly.
package vdom
