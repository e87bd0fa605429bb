package ocr

// InputOption mutates an OCR input before it is handed to an engine.
type InputOption func(*Input)

// NewInput builds an Input for an encoded image payload.
func NewInput(image []byte, format ImageFormat, opts ...InputOption) Input {
	in := Input{Image: image, Format: format}
	for _, opt := range opts {
		opt(&in)
	}
	return in
}

// WithLanguages sets language hints on the OCR input.
func WithLanguages(langs ...string) InputOption {
	return func(in *Input) { in.Languages = append([]string(nil), langs...) }
}

// WithRegion sets the recognition region on the OCR input.
func WithRegion(region Region) InputOption {
	return func(in *Input) {
		if region.IsEmpty() {
			in.Region = nil
			return
		}
		in.Region = &region
	}
}

// WithDPI overrides the DPI value on the OCR input.
func WithDPI(dpi int) InputOption {
	return func(in *Input) { in.DPI = dpi }
}

// WithHOCR requests hOCR markup in addition to plain text.
func WithHOCR() InputOption {
	return func(in *Input) { in.HOCR = true }
}

// WithMetadata sets provider-specific metadata for the input.
func WithMetadata(metadata map[string]string) InputOption {
	return func(in *Input) {
		if len(metadata) == 0 {
			in.Metadata = nil
			return
		}
		in.Metadata = make(map[string]string, len(metadata))
		for k, v := range metadata {
			in.Metadata[k] = v
		}
	}
}
