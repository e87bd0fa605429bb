// Command server runs the OCR HTTP gateway. The engine is loaded before the
// listener opens; a model that fails to load aborts the process with a
// non-zero exit instead of serving traffic.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/wudi/ocrkit/observability"
	"github.com/wudi/ocrkit/ocr"
	"github.com/wudi/ocrkit/ocr/onnx"
	"github.com/wudi/ocrkit/ocr/tesseract"
	"github.com/wudi/ocrkit/server"
)

type options struct {
	addr            string
	engine          string
	languages       []string
	maxUpload       int64
	maxPixels       int64
	maxInflight     int
	maxConns        int
	shutdownTimeout time.Duration
	onnxModel       string
	onnxMetadata    string
}

func main() {
	opts, err := parseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(2)
	}
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() (options, error) {
	var opts options
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: go run ./cmd/server [flags]\n")
		flag.PrintDefaults()
	}
	addr := flag.String("addr", envOr("OCRKIT_ADDR", server.DefaultAddr), "Listen address")
	engine := flag.String("engine", envOr("OCRKIT_ENGINE", "tesseract"), "OCR engine: tesseract or onnx")
	languages := flag.String("lang", envOr("OCRKIT_LANGUAGES", "eng"), "Comma-separated default language hints")
	maxUpload := flag.Int64("max-upload", envOrInt64("OCRKIT_MAX_UPLOAD", server.DefaultMaxUploadBytes), "Request body limit in bytes")
	maxPixels := flag.Int64("max-pixels", envOrInt64("OCRKIT_MAX_PIXELS", 0), "Decoded image pixel limit (0 = default)")
	maxInflight := flag.Int("max-inflight", envOrInt("OCRKIT_MAX_INFLIGHT", 0), "Concurrent inference limit (0 = GOMAXPROCS)")
	maxConns := flag.Int("max-conns", envOrInt("OCRKIT_MAX_CONNS", server.DefaultMaxConns), "Concurrent connection limit (0 = unlimited)")
	shutdownTimeout := flag.Duration("shutdown-timeout", server.DefaultShutdownTimeout, "Drain window for graceful shutdown")
	onnxModel := flag.String("onnx-model", envOr("OCRKIT_ONNX_MODEL", "models/recognizer.onnx"), "Path to the ONNX model (onnx engine)")
	onnxMetadata := flag.String("onnx-metadata", envOr("OCRKIT_ONNX_METADATA", "models/recognizer.json"), "Path to the ONNX model metadata (onnx engine)")
	flag.Parse()

	if flag.NArg() != 0 {
		flag.Usage()
		return options{}, fmt.Errorf("unexpected arguments: %s", strings.Join(flag.Args(), " "))
	}
	if *engine != "tesseract" && *engine != "onnx" {
		return options{}, fmt.Errorf("unknown engine %q", *engine)
	}

	opts.addr = *addr
	opts.engine = *engine
	opts.languages = splitList(*languages)
	opts.maxUpload = *maxUpload
	opts.maxPixels = *maxPixels
	opts.maxInflight = *maxInflight
	opts.maxConns = *maxConns
	opts.shutdownTimeout = *shutdownTimeout
	opts.onnxModel = *onnxModel
	opts.onnxMetadata = *onnxMetadata
	return opts, nil
}

func run(opts options) error {
	logger := observability.NewStdLogger(log.New(os.Stderr, "", log.LstdFlags))

	engine, err := loadEngine(opts)
	if err != nil {
		return fmt.Errorf("load %s engine: %w", opts.engine, err)
	}
	if closer, ok := engine.(ocr.Closer); ok {
		defer closer.Close()
	}
	logger.Info("engine loaded",
		observability.String("engine", engine.Name()),
		observability.String("languages", strings.Join(opts.languages, ",")))

	gw := server.New(engine, server.Config{
		Addr:            opts.addr,
		MaxUploadBytes:  opts.maxUpload,
		MaxPixels:       opts.maxPixels,
		MaxInflight:     opts.maxInflight,
		MaxConns:        opts.maxConns,
		Languages:       opts.languages,
		ShutdownTimeout: opts.shutdownTimeout,
		Logger:          logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return gw.Run(ctx)
}

func loadEngine(opts options) (ocr.Engine, error) {
	switch opts.engine {
	case "onnx":
		return onnx.New(opts.onnxModel, opts.onnxMetadata)
	default:
		return tesseract.New(opts.languages...)
	}
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envOrInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}
