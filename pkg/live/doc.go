// Package live serves a bound vdom tree over HTTP with WebSocket push.
//
// The server renders the tree once per page load, tags every bound text
// region with a data-weft attribute, and pushes JSON region patches to
// connected clients whenever a mutation changes a bound value. Mutations
// arrive as POST /data/{key} requests; because the reactive core is fully
// synchronous, all patches for a mutation are broadcast before the request
// returns.
//
// Routes:
//
//	GET  /            rendered HTML page with the patch client
//	GET  /ws          WebSocket patch stream
//	POST /data/{key}  mutate one top-level field (JSON body is the value)
//	GET  /healthz     liveness probe
//	GET  /metrics     Prometheus metrics
package live
