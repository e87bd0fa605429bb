// Package ocr defines the contract between the HTTP gateway and pluggable
// OCR engines (for example, Tesseract or an ONNX text recognizer). The
// interfaces are intentionally small and transport-agnostic so engines can
// be backed by native libraries, local model files, or remote APIs without
// leaking provider-specific concerns into callers.
package ocr
