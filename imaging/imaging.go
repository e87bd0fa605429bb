// Package imaging decodes and validates uploaded images before they reach an
// OCR engine. Decoders for the supported raster formats are registered here
// so callers get a single import that understands png, jpeg, gif, tiff, bmp
// and webp.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"math"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/wudi/ocrkit/ocr"
)

// DefaultMaxPixels bounds images to roughly a 7000x7000 scan. Larger inputs
// are rejected before full decode so a single request cannot exhaust memory.
const DefaultMaxPixels = 50_000_000

var formatTypes = map[string]ocr.ImageFormat{
	"png":  ocr.ImageFormatPNG,
	"jpeg": ocr.ImageFormatJPEG,
	"gif":  ocr.ImageFormatGIF,
	"tiff": ocr.ImageFormatTIFF,
	"bmp":  ocr.ImageFormatBMP,
	"webp": ocr.ImageFormatWebP,
}

// Sniff validates that data is a decodable raster image without decoding the
// pixel payload, and enforces the pixel cap. It returns the detected content
// type. A maxPixels of zero applies DefaultMaxPixels.
func Sniff(data []byte, maxPixels int64) (ocr.ImageFormat, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty payload", ocr.ErrInvalidImage)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ocr.ErrInvalidImage, err)
	}
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return "", fmt.Errorf("%w: degenerate dimensions %dx%d", ocr.ErrInvalidImage, cfg.Width, cfg.Height)
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxPixels {
		return "", fmt.Errorf("%w: %dx%d exceeds %d pixel limit", ocr.ErrInvalidImage, cfg.Width, cfg.Height, maxPixels)
	}
	ct, ok := formatTypes[format]
	if !ok {
		return "", fmt.Errorf("%w: unsupported format %q", ocr.ErrInvalidImage, format)
	}
	return ct, nil
}

// Decode fully decodes a payload that already passed Sniff-style validation.
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ocr.ErrInvalidImage, err)
	}
	return img, nil
}

// Crop extracts region from an encoded image and re-encodes it as PNG. A nil
// or empty region returns the payload unchanged.
func Crop(data []byte, region *ocr.Region) ([]byte, error) {
	if region == nil || region.IsEmpty() {
		return data, nil
	}
	img, err := Decode(data)
	if err != nil {
		return nil, err
	}
	rect := image.Rect(
		int(math.Round(region.X)),
		int(math.Round(region.Y)),
		int(math.Round(region.X+region.Width)),
		int(math.Round(region.Y+region.Height)),
	).Intersect(img.Bounds())
	if rect.Empty() {
		return nil, fmt.Errorf("%w: region outside image bounds", ocr.ErrInvalidImage)
	}
	subImg, ok := img.(interface {
		SubImage(r image.Rectangle) image.Image
	})
	if !ok {
		return nil, fmt.Errorf("image does not support sub-image")
	}
	cropped := subImg.SubImage(rect)
	var buf bytes.Buffer
	if err := png.Encode(&buf, cropped); err != nil {
		return nil, fmt.Errorf("encode cropped image: %w", err)
	}
	return buf.Bytes(), nil
}
