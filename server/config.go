package server

import (
	"runtime"
	"time"

	"github.com/wudi/ocrkit/imaging"
	"github.com/wudi/ocrkit/observability"
)

const (
	// DefaultAddr binds all interfaces on the service's conventional port.
	DefaultAddr = ":40123"
	// DefaultMaxUploadBytes caps request bodies at 10 MiB.
	DefaultMaxUploadBytes = 10 << 20
	// DefaultMaxConns bounds concurrently accepted connections.
	DefaultMaxConns = 256
	// DefaultShutdownTimeout is the drain window for graceful shutdown.
	DefaultShutdownTimeout = 10 * time.Second
)

// Config carries the gateway's tunables. The zero value is usable; empty
// fields fall back to the defaults above.
type Config struct {
	// Addr is the host:port to listen on.
	Addr string
	// MaxUploadBytes caps the request body size; oversize uploads get 413.
	MaxUploadBytes int64
	// MaxPixels caps decoded image dimensions (width x height) to bound the
	// memory one request can pin.
	MaxPixels int64
	// MaxInflight bounds concurrent inference calls. Requests beyond the
	// bound queue until a slot frees or the client goes away. Defaults to
	// GOMAXPROCS since inference is CPU-bound.
	MaxInflight int
	// MaxConns bounds concurrently accepted connections; zero disables the cap.
	MaxConns int
	// Languages is the language hint set applied when a request names none.
	Languages []string
	// ShutdownTimeout limits how long Run waits for in-flight requests after
	// its context is canceled.
	ShutdownTimeout time.Duration

	Logger observability.Logger
	Tracer observability.Tracer
}

func (c Config) withDefaults() Config {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if c.MaxPixels <= 0 {
		c.MaxPixels = imaging.DefaultMaxPixels
	}
	if c.MaxInflight <= 0 {
		c.MaxInflight = runtime.GOMAXPROCS(0)
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = DefaultShutdownTimeout
	}
	if c.Logger == nil {
		c.Logger = observability.NopLogger{}
	}
	if c.Tracer == nil {
		c.Tracer = observability.NopTracer()
	}
	return c
}
