// Package tesseract adapts the gosseract client to the ocr.Engine contract.
package tesseract

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/wudi/ocrkit/imaging"
	"github.com/wudi/ocrkit/ocr"
)

// Engine implements ocr.Engine using the gosseract client. A fresh client is
// created per call, so concurrent Recognize calls never share native state.
type Engine struct {
	clientFactory func() *gosseract.Client
	languages     []string
}

// New constructs a Tesseract-backed OCR engine and verifies that trained data
// for the requested languages is installed. A missing language pack or a
// missing tesseract installation surfaces here, before the process starts
// serving, rather than on the first request.
func New(languages ...string) (*Engine, error) {
	available, err := gosseract.GetAvailableLanguages()
	if err != nil {
		return nil, fmt.Errorf("probe tesseract: %w", err)
	}
	installed := make(map[string]bool, len(available))
	for _, lang := range available {
		installed[lang] = true
	}
	for _, lang := range languages {
		if !installed[lang] {
			return nil, fmt.Errorf("language %q not installed (have %s)", lang, strings.Join(available, ", "))
		}
	}
	return &Engine{clientFactory: gosseract.NewClient, languages: append([]string(nil), languages...)}, nil
}

func (e *Engine) Name() string { return "tesseract" }

// Recognize performs OCR on a single image input.
func (e *Engine) Recognize(ctx context.Context, in ocr.Input) (ocr.Result, error) {
	if err := ctx.Err(); err != nil {
		return ocr.Result{}, err
	}
	c := e.clientFactory()
	defer c.Close()

	imgData, err := imaging.Crop(in.Image, in.Region)
	if err != nil {
		return ocr.Result{}, err
	}
	if err := c.SetImageFromBytes(imgData); err != nil {
		return ocr.Result{}, fmt.Errorf("set image: %w", err)
	}
	langs := in.Languages
	if len(langs) == 0 {
		langs = e.languages
	}
	if len(langs) > 0 {
		if err := c.SetLanguage(langs...); err != nil {
			return ocr.Result{}, fmt.Errorf("set languages: %w", err)
		}
	}
	if in.DPI > 0 {
		if err := c.SetVariable(gosseract.SettableVariable("user_defined_dpi"), fmt.Sprint(in.DPI)); err != nil {
			return ocr.Result{}, fmt.Errorf("set dpi: %w", err)
		}
	}
	for k, v := range in.Metadata {
		if err := c.SetVariable(gosseract.SettableVariable(k), v); err != nil {
			return ocr.Result{}, fmt.Errorf("set variable %s: %w", k, err)
		}
	}
	text, err := c.Text()
	if err != nil {
		return ocr.Result{}, fmt.Errorf("recognize text: %w", err)
	}
	plain := strings.TrimSpace(text)

	words, avgConf := extractWords(c)
	bounds := mergeBounds(words)
	block := ocr.TextBlock{
		Text:       plain,
		Bounds:     bounds,
		Lines:      []ocr.TextLine{{Text: plain, Bounds: bounds, Words: words, Confidence: avgConf}},
		Confidence: avgConf,
	}

	res := ocr.Result{
		Text:     plain,
		Blocks:   []ocr.TextBlock{block},
		Language: firstLanguage(langs),
	}
	if in.HOCR {
		hocr, err := c.HOCRText()
		if err != nil {
			return ocr.Result{}, fmt.Errorf("render hocr: %w", err)
		}
		res.HOCR = hocr
	}
	return res, nil
}

func extractWords(c *gosseract.Client) ([]ocr.TextWord, float64) {
	boxes, err := c.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil || len(boxes) == 0 {
		return nil, 0
	}
	words := make([]ocr.TextWord, 0, len(boxes))
	var sum float64
	for _, b := range boxes {
		conf := b.Confidence / 100.0
		sum += conf
		words = append(words, ocr.TextWord{
			Text:       b.Word,
			Bounds:     ocr.Region{X: float64(b.Box.Min.X), Y: float64(b.Box.Min.Y), Width: float64(b.Box.Dx()), Height: float64(b.Box.Dy())},
			Confidence: conf,
		})
	}
	if len(words) == 0 {
		return words, 0
	}
	return words, sum / float64(len(words))
}

func mergeBounds(words []ocr.TextWord) ocr.Region {
	if len(words) == 0 {
		return ocr.Region{}
	}
	minX, minY := math.MaxFloat64, math.MaxFloat64
	var maxX, maxY float64
	for _, w := range words {
		minX = math.Min(minX, w.Bounds.X)
		minY = math.Min(minY, w.Bounds.Y)
		maxX = math.Max(maxX, w.Bounds.X+w.Bounds.Width)
		maxY = math.Max(maxY, w.Bounds.Y+w.Bounds.Height)
	}
	return ocr.Region{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

func firstLanguage(langs []string) string {
	if len(langs) == 0 {
		return ""
	}
	return langs[0]
}
