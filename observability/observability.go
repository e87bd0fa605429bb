// Package observability holds the logging and tracing contracts used across
// the gateway, with nop implementations for library-style use and a stdlib
// log adapter for the server binary.
package observability

import (
	"context"
	"fmt"
	"log"
	"strings"
)

type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	With(fields ...Field) Logger
}

type Field interface {
	Key() string
	Value() interface{}
}

type stringField struct{ key, val string }

func (f stringField) Key() string        { return f.key }
func (f stringField) Value() interface{} { return f.val }

type intField struct {
	key string
	val int
}

func (f intField) Key() string        { return f.key }
func (f intField) Value() interface{} { return f.val }

type int64Field struct {
	key string
	val int64
}

func (f int64Field) Key() string        { return f.key }
func (f int64Field) Value() interface{} { return f.val }

type errorField struct {
	key string
	err error
}

func (f errorField) Key() string        { return f.key }
func (f errorField) Value() interface{} { return f.err }

func String(key, value string) Field      { return stringField{key, value} }
func Int(key string, value int) Field     { return intField{key, value} }
func Int64(key string, value int64) Field { return int64Field{key, value} }
func Error(key string, err error) Field   { return errorField{key, err} }

type NopLogger struct{}

func (NopLogger) Debug(string, ...Field) {}
func (NopLogger) Info(string, ...Field)  {}
func (NopLogger) Warn(string, ...Field)  {}
func (NopLogger) Error(string, ...Field) {}
func (NopLogger) With(...Field) Logger   { return NopLogger{} }

// StdLogger adapts a *log.Logger to the Logger interface, rendering fields as
// key=value pairs after the message.
type StdLogger struct {
	l      *log.Logger
	fields []Field
}

// NewStdLogger wraps l; a nil l uses the process default logger.
func NewStdLogger(l *log.Logger) *StdLogger {
	if l == nil {
		l = log.Default()
	}
	return &StdLogger{l: l}
}

func (s *StdLogger) log(level, msg string, fields []Field) {
	var b strings.Builder
	b.WriteString(level)
	b.WriteByte(' ')
	b.WriteString(msg)
	for _, f := range append(s.fields, fields...) {
		fmt.Fprintf(&b, " %s=%v", f.Key(), f.Value())
	}
	s.l.Print(b.String())
}

func (s *StdLogger) Debug(msg string, fields ...Field) { s.log("DEBUG", msg, fields) }
func (s *StdLogger) Info(msg string, fields ...Field)  { s.log("INFO", msg, fields) }
func (s *StdLogger) Warn(msg string, fields ...Field)  { s.log("WARN", msg, fields) }
func (s *StdLogger) Error(msg string, fields ...Field) { s.log("ERROR", msg, fields) }

func (s *StdLogger) With(fields ...Field) Logger {
	combined := make([]Field, 0, len(s.fields)+len(fields))
	combined = append(combined, s.fields...)
	combined = append(combined, fields...)
	return &StdLogger{l: s.l, fields: combined}
}

// Tracer provides distributed tracing hooks for gateway operations.
type Tracer interface {
	StartSpan(ctx context.Context, name string) (context.Context, Span)
}

// Span represents a tracing span.
type Span interface {
	SetTag(key string, value interface{})
	SetError(err error)
	Finish()
}

type nopTracer struct{}

func (nopTracer) StartSpan(ctx context.Context, _ string) (context.Context, Span) {
	return ctx, nopSpan{}
}

// NopTracer returns a tracer that does nothing.
func NopTracer() Tracer { return nopTracer{} }

type nopSpan struct{}

func (nopSpan) SetTag(string, interface{}) {}
func (nopSpan) SetError(error)             {}
func (nopSpan) Finish()                    {}

// Standard metric names emitted by the gateway.
const (
	MetricRecognizeTime = "ocr.recognize.duration"
	MetricDecodeTime    = "ocr.decode.duration"
	MetricRequestCount  = "ocr.requests.count"
	MetricInflight      = "ocr.inference.inflight"
	MetricUploadBytes   = "ocr.upload.bytes"
)
