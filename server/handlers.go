package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/wudi/ocrkit/imaging"
	"github.com/wudi/ocrkit/observability"
	"github.com/wudi/ocrkit/ocr"
)

const (
	ocrTypePlain  = "ocr"
	ocrTypeFormat = "format"
)

type ocrResponse struct {
	Text     string          `json:"text"`
	Blocks   []ocr.TextBlock `json:"blocks,omitempty"`
	HOCR     string          `json:"hocr,omitempty"`
	Language string          `json:"language,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// errMissingPayload distinguishes "no image sent" from "image undecodable";
// both map to 400 but with different messages.
var errMissingPayload = errors.New("either file or by_base64 must be provided")

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "ocrkit OCR gateway"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "engine": s.engine.Name()})
}

// handleOCR is the gateway's single functional operation: image in, text out.
func (s *Server) handleOCR(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	payload, err := s.readImagePayload(r)
	if err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			writeError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds %d bytes", s.cfg.MaxUploadBytes))
		case errors.Is(err, errMissingPayload), errors.Is(err, ocr.ErrInvalidImage):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusBadRequest, "malformed request body")
		}
		return
	}

	opts, err := parseOptions(r, s.cfg.Languages)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	format, err := imaging.Sniff(payload, s.cfg.MaxPixels)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()

	// Inference is CPU-bound; bound the number of concurrent model calls so
	// a burst of uploads cannot starve the process. Waiters give up as soon
	// as the client goes away.
	select {
	case s.sem <- struct{}{}:
		defer func() { <-s.sem }()
	case <-ctx.Done():
		return
	}

	input := ocr.NewInput(payload, format, opts.inputOptions()...)

	spanCtx, span := s.tracer.StartSpan(ctx, "ocr.recognize")
	res, err := s.engine.Recognize(spanCtx, input)
	if err != nil {
		span.SetError(err)
	}
	span.Finish()

	if ctx.Err() != nil {
		// Client is gone; the result, if any, is discarded.
		return
	}
	if err != nil {
		if errors.Is(err, ocr.ErrInvalidImage) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.log.Error("inference failed",
			observability.String("engine", s.engine.Name()),
			observability.Int("payload_bytes", len(payload)),
			observability.Error("err", err))
		writeError(w, http.StatusInternalServerError, "inference failed")
		return
	}

	if opts.render {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		io.WriteString(w, res.HOCR)
		return
	}
	writeJSON(w, http.StatusOK, ocrResponse{
		Text:     res.Text,
		Blocks:   res.Blocks,
		HOCR:     res.HOCR,
		Language: res.Language,
	})
}

// readImagePayload extracts the image bytes from a multipart upload (field
// "file", with "by_file" accepted as an alias) or a base64 form field.
func (s *Server) readImagePayload(r *http.Request) ([]byte, error) {
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, err
	}
	for _, field := range []string{"file", "by_file"} {
		f, _, err := r.FormFile(field)
		if err == nil {
			defer f.Close()
			data, err := io.ReadAll(f)
			if err != nil {
				return nil, err
			}
			return data, nil
		}
		if !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
			return nil, err
		}
	}
	if b64 := strings.TrimSpace(r.FormValue("by_base64")); b64 != "" {
		data, err := base64.StdEncoding.DecodeString(b64)
		if err != nil {
			return nil, fmt.Errorf("%w: undecodable base64 payload", ocr.ErrInvalidImage)
		}
		return data, nil
	}
	return nil, errMissingPayload
}

// requestOptions carries the per-request recognition knobs parsed from form
// values.
type requestOptions struct {
	ocrType   string
	render    bool
	region    *ocr.Region
	languages []string
	psm       *int
	dpi       int
}

func parseOptions(r *http.Request, defaultLanguages []string) (requestOptions, error) {
	opts := requestOptions{ocrType: ocrTypePlain, languages: defaultLanguages}

	if v := r.FormValue("ocr_type"); v != "" {
		if v != ocrTypePlain && v != ocrTypeFormat {
			return opts, fmt.Errorf("ocr_type must be %q or %q", ocrTypePlain, ocrTypeFormat)
		}
		opts.ocrType = v
	}
	if v := r.FormValue("render"); v != "" {
		render, err := strconv.ParseBool(v)
		if err != nil {
			return opts, fmt.Errorf("render must be a boolean, got %q", v)
		}
		opts.render = render
	}
	if opts.render && opts.ocrType != ocrTypeFormat {
		return opts, errors.New("render option is only available for format ocr type")
	}
	if v := r.FormValue("ocr_box"); v != "" {
		region, err := parseBox(v)
		if err != nil {
			return opts, err
		}
		opts.region = &region
	}
	if v := r.FormValue("languages"); v != "" {
		opts.languages = splitList(v)
	}
	if v := r.FormValue("psm"); v != "" {
		psm, err := strconv.Atoi(v)
		if err != nil || psm < 0 {
			return opts, fmt.Errorf("psm must be a non-negative integer, got %q", v)
		}
		opts.psm = &psm
	}
	if v := r.FormValue("dpi"); v != "" {
		dpi, err := strconv.Atoi(v)
		if err != nil || dpi <= 0 {
			return opts, fmt.Errorf("dpi must be a positive integer, got %q", v)
		}
		opts.dpi = dpi
	}
	return opts, nil
}

func (o requestOptions) inputOptions() []ocr.InputOption {
	var opts []ocr.InputOption
	if len(o.languages) > 0 {
		opts = append(opts, ocr.WithLanguages(o.languages...))
	}
	if o.region != nil {
		opts = append(opts, ocr.WithRegion(*o.region))
	}
	if o.dpi > 0 {
		opts = append(opts, ocr.WithDPI(o.dpi))
	}
	if o.psm != nil {
		opts = append(opts, ocr.WithTesseractPSM(*o.psm))
	}
	if o.ocrType == ocrTypeFormat {
		opts = append(opts, ocr.WithHOCR())
	}
	return opts
}

// parseBox parses the original "x1,y1,x2,y2" fine-grained box syntax into a
// recognition region.
func parseBox(v string) (ocr.Region, error) {
	parts := strings.Split(v, ",")
	if len(parts) != 4 {
		return ocr.Region{}, fmt.Errorf("ocr_box must be x1,y1,x2,y2, got %q", v)
	}
	coords := make([]float64, 4)
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return ocr.Region{}, fmt.Errorf("ocr_box coordinate %q is not a number", p)
		}
		coords[i] = f
	}
	region := ocr.Region{
		X:      coords[0],
		Y:      coords[1],
		Width:  coords[2] - coords[0],
		Height: coords[3] - coords[1],
	}
	if region.IsEmpty() {
		return ocr.Region{}, fmt.Errorf("ocr_box %q has non-positive area", v)
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

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
