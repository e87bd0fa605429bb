// Command recognize runs one-shot OCR on an image file, without the HTTP
// gateway. Useful for smoke-testing an installed engine.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/wudi/ocrkit/imaging"
	"github.com/wudi/ocrkit/ocr"
	"github.com/wudi/ocrkit/ocr/tesseract"
)

type options struct {
	imagePath string
	ocrType   string
	languages []string
	psm       int
	dpi       int
	box       string
	outPath   string
}

func main() {
	opts, err := parseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "recognize: %v\n", err)
		os.Exit(2)
	}
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "recognize: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() (options, error) {
	var opts options
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: go run ./cmd/recognize [flags] <image>\n")
		flag.PrintDefaults()
	}
	ocrType := flag.String("type", "ocr", "Output type: ocr (plain text) or format (hOCR markup)")
	languages := flag.String("lang", "eng", "Comma-separated language hints")
	psm := flag.Int("psm", -1, "Tesseract page segmentation mode (-1 = engine default)")
	dpi := flag.Int("dpi", 0, "Effective image DPI (0 = unknown)")
	box := flag.String("box", "", "Restrict recognition to x1,y1,x2,y2")
	outPath := flag.String("out", "", "Write output to a file instead of stdout")
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		return options{}, fmt.Errorf("missing image path")
	}
	if *ocrType != "ocr" && *ocrType != "format" {
		return options{}, fmt.Errorf("type must be ocr or format, got %q", *ocrType)
	}
	opts.imagePath = flag.Arg(0)
	opts.ocrType = *ocrType
	opts.languages = splitList(*languages)
	opts.psm = *psm
	opts.dpi = *dpi
	opts.box = *box
	opts.outPath = *outPath
	return opts, nil
}

func run(opts options) error {
	data, err := os.ReadFile(opts.imagePath)
	if err != nil {
		return err
	}
	format, err := imaging.Sniff(data, 0)
	if err != nil {
		return err
	}

	engine, err := tesseract.New(opts.languages...)
	if err != nil {
		return fmt.Errorf("load tesseract engine: %w", err)
	}

	inputOpts := []ocr.InputOption{ocr.WithLanguages(opts.languages...)}
	if opts.psm >= 0 {
		inputOpts = append(inputOpts, ocr.WithTesseractPSM(opts.psm))
	}
	if opts.dpi > 0 {
		inputOpts = append(inputOpts, ocr.WithDPI(opts.dpi))
	}
	if opts.box != "" {
		region, err := parseBox(opts.box)
		if err != nil {
			return err
		}
		inputOpts = append(inputOpts, ocr.WithRegion(region))
	}
	if opts.ocrType == "format" {
		inputOpts = append(inputOpts, ocr.WithHOCR())
	}

	res, err := engine.Recognize(context.Background(), ocr.NewInput(data, format, inputOpts...))
	if err != nil {
		return err
	}

	output := res.Text
	if opts.ocrType == "format" {
		output = res.HOCR
	}
	if opts.outPath != "" {
		if err := os.WriteFile(opts.outPath, []byte(output), 0o644); err != nil {
			return err
		}
		fmt.Printf("results saved to %s\n", opts.outPath)
		return nil
	}
	fmt.Println(output)
	return nil
}

func parseBox(v string) (ocr.Region, error) {
	parts := strings.Split(v, ",")
	if len(parts) != 4 {
		return ocr.Region{}, fmt.Errorf("box must be x1,y1,x2,y2, got %q", v)
	}
	coords := make([]float64, 4)
	for i, p := range parts {
		if _, err := fmt.Sscanf(strings.TrimSpace(p), "%f", &coords[i]); err != nil {
			return ocr.Region{}, fmt.Errorf("box coordinate %q is not a number", p)
		}
	}
	region := ocr.Region{X: coords[0], Y: coords[1], Width: coords[2] - coords[0], Height: coords[3] - coords[1]}
	if region.IsEmpty() {
		return ocr.Region{}, fmt.Errorf("box %q has non-positive area", v)
	}
	return region, nil
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
