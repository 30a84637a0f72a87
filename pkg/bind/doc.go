// Package bind connects compiled templates to reaction sinks.
//
// Bind produces exactly one watcher for one template string; the sink
// receives the rendered text once at construction and once per subsequent
// value change. Mount applies Bind across a vdom tree, attaching one
// watcher per text node that contains an interpolation marker and writing
// updates back into the node in place.
package bind
