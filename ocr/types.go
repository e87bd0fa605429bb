package ocr

import "context"

// ImageFormat identifies the content type of an OCR input image.
type ImageFormat string

const (
	ImageFormatPNG  ImageFormat = "image/png"
	ImageFormatJPEG ImageFormat = "image/jpeg"
	ImageFormatGIF  ImageFormat = "image/gif"
	ImageFormatTIFF ImageFormat = "image/tiff"
	ImageFormatBMP  ImageFormat = "image/bmp"
	ImageFormatWebP ImageFormat = "image/webp"
)

// Region describes a rectangular area in pixel coordinates with the origin in
// the upper-left corner of the image.
type Region struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// IsEmpty reports whether the region has non-positive dimensions.
func (r Region) IsEmpty() bool { return r.Width <= 0 || r.Height <= 0 }

// Input encapsulates a single image submitted for recognition. It exists only
// for the duration of one request; nothing in it is retained by an engine.
type Input struct {
	// Image is the encoded image payload in the format specified by Format.
	Image []byte
	// Format declares the image content type (e.g., image/png). Engines may
	// re-sniff the payload; the field is a hint, not a promise.
	Format ImageFormat
	// DPI carries the effective dots-per-inch for the image. Providers such as
	// Tesseract use this for scaling and layout heuristics; zero means unknown.
	DPI int
	// Languages is a list of trained-data language hints (e.g., "eng", "deu")
	// that providers can use to select models.
	Languages []string
	// Region restricts recognition to a subsection of the image. Nil means the
	// full image should be processed.
	Region *Region
	// HOCR requests structured hOCR markup alongside the plain text, for
	// engines that can produce it.
	HOCR bool
	// Metadata allows callers to pass through engine-specific knobs (e.g.,
	// "tessedit_pageseg_mode" for Tesseract) without hard-coding them into the
	// API surface.
	Metadata map[string]string
}

// TextWord represents a single recognized token.
type TextWord struct {
	Text       string  `json:"text"`
	Bounds     Region  `json:"bounds"`
	Confidence float64 `json:"confidence"`
}

// TextLine groups words that share a baseline.
type TextLine struct {
	Text       string     `json:"text"`
	Bounds     Region     `json:"bounds"`
	Words      []TextWord `json:"words,omitempty"`
	Confidence float64    `json:"confidence"`
}

// TextBlock aggregates lines that form a logical block (paragraph, heading, etc).
type TextBlock struct {
	Text       string     `json:"text"`
	Bounds     Region     `json:"bounds"`
	Lines      []TextLine `json:"lines,omitempty"`
	Confidence float64    `json:"confidence"`
}

// Result captures OCR output for a single input image.
type Result struct {
	// Text contains the linearized text extracted from the image.
	Text string
	// Blocks carries the structured layout with positional metadata, when the
	// engine produces it.
	Blocks []TextBlock
	// HOCR holds hOCR markup when Input.HOCR was set and the engine supports
	// it; empty otherwise.
	HOCR string
	// Language indicates the dominant language used for recognition, if known.
	Language string
}

// Engine is the OCR provider contract: one image in, one result out. An
// engine is constructed once at process start and must be safe for concurrent
// Recognize calls; an engine whose runtime is not reentrant serializes
// internally.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, input Input) (Result, error)
}

// Closer is implemented by engines that hold native resources (sessions,
// tensors) needing explicit teardown at process exit.
type Closer interface {
	Close() error
}
