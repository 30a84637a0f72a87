package live

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/weft-dev/weft"
	"github.com/weft-dev/weft/pkg/bind"
	"github.com/weft-dev/weft/pkg/reactive"
	"github.com/weft-dev/weft/pkg/vdom"
)

// Server renders a bound tree over HTTP and pushes region patches to
// WebSocket clients when mutations change bound values.
type Server struct {
	app  *weft.App
	root *vdom.VNode

	// bindings are the mounted text regions; regions maps each bound node
	// to its region id for render-time tagging.
	bindings bind.Bindings
	regions  map[*vdom.VNode]string

	clients   map[*client]struct{}
	clientsMu sync.Mutex

	// mu serializes mutations so every client observes patches in the
	// same order.
	mu sync.Mutex

	// patchSeq counts broadcast patches; mutation handlers read the delta
	// for tracing.
	patchSeq atomic.Int64

	upgrader websocket.Upgrader
	handler  http.Handler
	config   *Config
	metrics  *metrics
	tracer   trace.Tracer
}

// New mounts root against app's data and returns a ready server. The tree
// is bound once; every page load renders its current state.
func New(app *weft.App, root *vdom.VNode, config *Config) (*Server, error) {
	if config == nil {
		config = DefaultConfig()
	}
	config.fillDefaults()

	registry := config.Registry
	if config.DisableMetrics {
		registry = prometheus.NewRegistry()
	}

	s := &Server{
		app:     app,
		root:    root,
		clients: make(map[*client]struct{}),
		config:  config,
		metrics: metricsFor(registry),
		tracer:  otel.Tracer(config.TracerName),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     config.CheckOrigin,
		},
	}

	bindings, err := bind.Mount(root, app.Scope(), s.broadcast, reactive.OnError(s.onBindingError))
	if err != nil {
		return nil, fmt.Errorf("live: mount: %w", err)
	}
	s.bindings = bindings

	s.regions = make(map[*vdom.VNode]string, len(bindings))
	for _, b := range bindings {
		s.regions[b.Node] = b.Region
	}

	r := chi.NewRouter()
	r.Get("/", s.handleIndex)
	r.Get("/ws", s.handleWS)
	r.Post("/data/{key}", s.handleMutate)
	r.Get("/healthz", s.handleHealthz)
	if !config.DisableMetrics {
		r.Method(http.MethodGet, "/metrics", s.metricsHandler())
	}
	s.handler = r

	return s, nil
}

// Handler returns the HTTP handler, for embedding into a larger router or
// an httptest server.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.config.Logger.Info("live server listening", "addr", s.config.Addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.config.Logger.Info("live server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.disconnectAll()
		return srv.Shutdown(shutdownCtx)
	}
}

// Close tears down the tree bindings. The server stops reacting to data
// mutations afterwards.
func (s *Server) Close() {
	s.bindings.Teardown()
	s.disconnectAll()
}

// broadcast fans one region patch out to every connected client. Invoked
// synchronously from the reactive update path, so all patches for a
// mutation are queued before the mutating call returns.
func (s *Server) broadcast(p bind.Patch) {
	msg, err := json.Marshal(p)
	if err != nil {
		s.config.Logger.Error("patch encode failed", "region", p.Region, "error", err)
		return
	}

	s.patchSeq.Add(1)
	s.metrics.patchesSent.Inc()

	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	for c := range s.clients {
		select {
		case c.send <- msg:
		default:
			s.metrics.patchesDropped.Inc()
		}
	}
}

func (s *Server) onBindingError(err error) {
	s.metrics.bindingErrors.Inc()
	s.config.Logger.Error("binding update failed", "error", err)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	body := s.root.HTMLFunc(func(n *vdom.VNode, escaped string) string {
		if region, ok := s.regions[n]; ok {
			return `<span data-weft="` + region + `">` + escaped + `</span>`
		}
		return escaped
	})

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, pageShell, s.config.Title, body)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.config.Logger.Error("websocket upgrade failed", "error", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, s.config.SendBuffer)}

	s.clientsMu.Lock()
	s.clients[c] = struct{}{}
	s.clientsMu.Unlock()
	s.metrics.activeClients.Inc()

	go c.writePump()

	// Initial snapshot so a late joiner sees the current state.
	for _, b := range s.bindings {
		msg, err := json.Marshal(bind.Patch{Region: b.Region, Text: b.Watcher.Value()})
		if err != nil {
			continue
		}
		select {
		case c.send <- msg:
		default:
			s.metrics.patchesDropped.Inc()
		}
	}

	// Reader exists only to detect the close; clients never send data.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				s.removeClient(c)
				return
			}
		}
	}()
}

func (s *Server) handleMutate(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	_, span := s.tracer.Start(r.Context(), "weft.mutate",
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(attribute.String("weft.key", key)),
	)
	defer span.End()

	if !s.app.Scope().Has(key) {
		s.metrics.mutationsTotal.WithLabelValues("unknown_key").Inc()
		span.SetStatus(codes.Error, "unknown key")
		http.Error(w, "unknown key", http.StatusNotFound)
		return
	}

	var value any
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(&value); err != nil {
		s.metrics.mutationsTotal.WithLabelValues("invalid_body").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid body")
		http.Error(w, "invalid JSON value", http.StatusBadRequest)
		return
	}

	start := time.Now()
	before := s.patchSeq.Load()

	s.mu.Lock()
	s.app.Set(key, value)
	s.mu.Unlock()

	s.metrics.mutationTime.Observe(time.Since(start).Seconds())
	s.metrics.mutationsTotal.WithLabelValues("ok").Inc()
	span.SetAttributes(attribute.Int64("weft.patch_count", s.patchSeq.Load()-before))
	span.SetStatus(codes.Ok, "")

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) metricsHandler() http.Handler {
	if reg, ok := s.config.Registry.(*prometheus.Registry); ok {
		return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}
	return promhttp.Handler()
}

func (s *Server) removeClient(c *client) {
	s.clientsMu.Lock()
	if _, ok := s.clients[c]; !ok {
		s.clientsMu.Unlock()
		return
	}
	delete(s.clients, c)
	s.clientsMu.Unlock()

	close(c.send)
	s.metrics.activeClients.Dec()
}

func (s *Server) disconnectAll() {
	s.clientsMu.Lock()
	clients := make([]*client, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.clients = make(map[*client]struct{})
	s.clientsMu.Unlock()

	for _, c := range clients {
		close(c.send)
		s.metrics.activeClients.Dec()
	}
}
