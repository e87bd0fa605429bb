package observability

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"testing"
)

func TestNopTracer(t *testing.T) {
	tracer := NopTracer()
	ctx := context.Background()
	ctx2, span := tracer.StartSpan(ctx, "test")
	if ctx2 != ctx {
		t.Fatalf("nop tracer should return same context")
	}
	span.SetTag("key", "value")
	span.SetError(nil)
	span.Finish()
}

func TestStdLoggerFormatsFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStdLogger(log.New(&buf, "", 0))
	logger.Info("request", String("path", "/ocr"), Int("status", 200), Int64("bytes", 512))

	got := buf.String()
	for _, want := range []string{"INFO", "request", "path=/ocr", "status=200", "bytes=512"} {
		if !strings.Contains(got, want) {
			t.Fatalf("log line %q missing %q", got, want)
		}
	}
}

func TestStdLoggerWith(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStdLogger(log.New(&buf, "", 0)).With(String("engine", "tesseract"))
	logger.Error("inference failed", Error("err", errors.New("boom")))

	got := buf.String()
	if !strings.Contains(got, "engine=tesseract") || !strings.Contains(got, "err=boom") {
		t.Fatalf("log line %q missing bound fields", got)
	}
}

func TestFieldAccessors(t *testing.T) {
	cases := []struct {
		field Field
		key   string
	}{
		{String("a", "b"), "a"},
		{Int("c", 1), "c"},
		{Int64("d", 2), "d"},
		{Error("e", errors.New("x")), "e"},
	}
	for _, tc := range cases {
		if tc.field.Key() != tc.key {
			t.Fatalf("key = %q, want %q", tc.field.Key(), tc.key)
		}
		if tc.field.Value() == nil {
			t.Fatalf("value for %q should not be nil", tc.key)
		}
	}
}
