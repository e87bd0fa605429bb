package onnx

import (
	"os"
	"path/filepath"
	"testing"
)

func writeMetadata(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "recognizer.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write metadata: %v", err)
	}
	return path
}

// New must fail before any native initialization when the model description
// is missing or malformed, so a misconfigured process refuses to start.
func TestNewMissingMetadata(t *testing.T) {
	if _, err := New("model.onnx", filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatalf("expected error for missing metadata file")
	}
}

func TestNewMalformedMetadata(t *testing.T) {
	path := writeMetadata(t, "{not json")
	if _, err := New("model.onnx", path); err == nil {
		t.Fatalf("expected error for malformed metadata")
	}
}

func TestNewRejectsBadShapes(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"input not NCHW", `{"input_shape":[1,32,320],"output_shape":[1,80,90],"charset":"ab"}`},
		{"output not 3d", `{"input_shape":[1,1,32,320],"output_shape":[80,90],"charset":"ab"}`},
		{"empty charset", `{"input_shape":[1,1,32,320],"output_shape":[1,80,90],"charset":""}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeMetadata(t, tc.body)
			if _, err := New("model.onnx", path); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
