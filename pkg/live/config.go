package live

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
)

// Config configures the live view server.
type Config struct {
	// Addr is the listen address (default ":8080").
	Addr string

	// Title is the page title for the rendered surface.
	Title string

	// Logger is the structured logger. Defaults to slog.Default().
	Logger *slog.Logger

	// Registry is the Prometheus registry to register metrics with.
	// Default: prometheus.DefaultRegisterer.
	Registry prometheus.Registerer

	// TracerName is the OpenTelemetry tracer name (default "weft").
	TracerName string

	// CheckOrigin validates WebSocket upgrade origins. nil uses the
	// gorilla default (same-origin only).
	CheckOrigin func(r *http.Request) bool

	// SendBuffer is the per-client outbound queue length (default 64).
	// Patches to a client with a full queue are dropped and counted.
	SendBuffer int

	// DisableMetrics skips the /metrics route and keeps metrics out of
	// the shared registry.
	DisableMetrics bool
}

// DefaultConfig returns the default server configuration.
func DefaultConfig() *Config {
	return &Config{
		Addr:       ":8080",
		Title:      "Weft",
		TracerName: "weft",
		SendBuffer: 64,
	}
}

func (c *Config) fillDefaults() {
	defaults := DefaultConfig()
	if c.Addr == "" {
		c.Addr = defaults.Addr
	}
	if c.Title == "" {
		c.Title = defaults.Title
	}
	if c.TracerName == "" {
		c.TracerName = defaults.TracerName
	}
	if c.SendBuffer == 0 {
		c.SendBuffer = defaults.SendBuffer
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}
