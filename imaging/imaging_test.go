package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"testing"

	"github.com/wudi/ocrkit/ocr"
)

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestSniffDetectsPNG(t *testing.T) {
	format, err := Sniff(encodePNG(t, 20, 10), 0)
	if err != nil {
		t.Fatalf("Sniff() error = %v", err)
	}
	if format != ocr.ImageFormatPNG {
		t.Fatalf("unexpected format: %v", format)
	}
}

func TestSniffRejectsEmptyPayload(t *testing.T) {
	if _, err := Sniff(nil, 0); !errors.Is(err, ocr.ErrInvalidImage) {
		t.Fatalf("expected ErrInvalidImage, got %v", err)
	}
}

func TestSniffRejectsGarbage(t *testing.T) {
	if _, err := Sniff([]byte("definitely not an image"), 0); !errors.Is(err, ocr.ErrInvalidImage) {
		t.Fatalf("expected ErrInvalidImage, got %v", err)
	}
}

func TestSniffRejectsTruncatedPNG(t *testing.T) {
	data := encodePNG(t, 20, 10)
	if _, err := Sniff(data[:8], 0); !errors.Is(err, ocr.ErrInvalidImage) {
		t.Fatalf("expected ErrInvalidImage, got %v", err)
	}
}

func TestSniffEnforcesPixelCap(t *testing.T) {
	data := encodePNG(t, 100, 100)
	if _, err := Sniff(data, 99); !errors.Is(err, ocr.ErrInvalidImage) {
		t.Fatalf("expected ErrInvalidImage for oversize image, got %v", err)
	}
	if _, err := Sniff(data, 10_000); err != nil {
		t.Fatalf("Sniff() error = %v", err)
	}
}

func TestCropNilRegionPassthrough(t *testing.T) {
	data := encodePNG(t, 20, 10)
	out, err := Crop(data, nil)
	if err != nil {
		t.Fatalf("Crop() error = %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Fatalf("nil region should return the payload unchanged")
	}
}

func TestCropSubRegion(t *testing.T) {
	data := encodePNG(t, 40, 20)
	out, err := Crop(data, &ocr.Region{X: 10, Y: 5, Width: 20, Height: 10})
	if err != nil {
		t.Fatalf("Crop() error = %v", err)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode cropped output: %v", err)
	}
	if format != "png" {
		t.Fatalf("cropped output format = %q, want png", format)
	}
	if cfg.Width != 20 || cfg.Height != 10 {
		t.Fatalf("cropped dimensions = %dx%d, want 20x10", cfg.Width, cfg.Height)
	}
}

func TestCropOutsideBounds(t *testing.T) {
	data := encodePNG(t, 20, 10)
	if _, err := Crop(data, &ocr.Region{X: 100, Y: 100, Width: 10, Height: 10}); !errors.Is(err, ocr.ErrInvalidImage) {
		t.Fatalf("expected ErrInvalidImage for out-of-bounds region, got %v", err)
	}
}

func TestCropGarbagePayload(t *testing.T) {
	if _, err := Crop([]byte("junk"), &ocr.Region{Width: 1, Height: 1}); !errors.Is(err, ocr.ErrInvalidImage) {
		t.Fatalf("expected ErrInvalidImage, got %v", err)
	}
}
