// Package onnx implements ocr.Engine on top of a CRNN-style text recognition
// model executed with ONNX Runtime. The session reuses pre-allocated input
// and output tensors, so inference is serialized behind a mutex; the engine
// is still safe for concurrent Recognize calls, they just queue.
package onnx

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"os"
	"sync"

	"github.com/nfnt/resize"
	ort "github.com/yalue/onnxruntime_go"

	"github.com/wudi/ocrkit/imaging"
	"github.com/wudi/ocrkit/ocr"
)

// Metadata describes the exported model: tensor shapes and the character set
// the CTC output indexes into. It lives in a JSON file next to the model.
type Metadata struct {
	// InputShape is NCHW, e.g. [1, 1, 32, 320] for a grayscale line image.
	InputShape []int64 `json:"input_shape"`
	// OutputShape is [batch, timesteps, classes]; class 0 is the CTC blank.
	OutputShape []int64 `json:"output_shape"`
	// Charset maps class index i+1 to the i-th rune.
	Charset string `json:"charset"`
}

type Engine struct {
	mu           sync.Mutex
	session      *ort.AdvancedSession
	inputTensor  *ort.Tensor[float32]
	outputTensor *ort.Tensor[float32]
	meta         Metadata
	charset      []rune
}

// New loads the model and allocates the session. Errors here are fatal to the
// caller: a gateway must not serve requests against an absent model.
func New(modelPath, metadataPath string) (*Engine, error) {
	metaFile, err := os.ReadFile(metadataPath)
	if err != nil {
		return nil, fmt.Errorf("read model metadata: %w", err)
	}
	var meta Metadata
	if err := json.Unmarshal(metaFile, &meta); err != nil {
		return nil, fmt.Errorf("parse model metadata: %w", err)
	}
	if len(meta.InputShape) != 4 {
		return nil, fmt.Errorf("input shape must be NCHW, got %v", meta.InputShape)
	}
	if len(meta.OutputShape) != 3 {
		return nil, fmt.Errorf("output shape must be [batch, timesteps, classes], got %v", meta.OutputShape)
	}
	if meta.Charset == "" {
		return nil, fmt.Errorf("metadata charset is empty")
	}

	if err := ort.InitializeEnvironment(); err != nil {
		return nil, fmt.Errorf("initialize onnxruntime: %w", err)
	}

	inputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(meta.InputShape...))
	if err != nil {
		return nil, fmt.Errorf("create input tensor: %w", err)
	}
	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(meta.OutputShape...))
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("create output tensor: %w", err)
	}
	session, err := ort.NewAdvancedSession(modelPath,
		[]string{"input"}, []string{"output"},
		[]ort.ArbitraryTensor{inputTensor}, []ort.ArbitraryTensor{outputTensor},
		nil)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("create onnx session: %w", err)
	}

	return &Engine{
		session:      session,
		inputTensor:  inputTensor,
		outputTensor: outputTensor,
		meta:         meta,
		charset:      []rune(meta.Charset),
	}, nil
}

func (e *Engine) Name() string { return "onnx" }

// Recognize decodes the payload, scales it to the model's input plane and
// runs one inference pass. Only the session invocation holds the lock.
func (e *Engine) Recognize(ctx context.Context, in ocr.Input) (ocr.Result, error) {
	if err := ctx.Err(); err != nil {
		return ocr.Result{}, err
	}
	data, err := imaging.Crop(in.Image, in.Region)
	if err != nil {
		return ocr.Result{}, err
	}
	img, err := imaging.Decode(data)
	if err != nil {
		return ocr.Result{}, err
	}
	pixels := e.preprocess(img)

	e.mu.Lock()
	copy(e.inputTensor.GetData(), pixels)
	runErr := e.session.Run()
	var logits []float32
	if runErr == nil {
		logits = append([]float32(nil), e.outputTensor.GetData()...)
	}
	e.mu.Unlock()
	if runErr != nil {
		return ocr.Result{}, fmt.Errorf("inference failed: %w", runErr)
	}
	if err := ctx.Err(); err != nil {
		return ocr.Result{}, err
	}

	text := e.ctcDecode(logits)
	return ocr.Result{Text: text, Language: firstLanguage(in.Languages)}, nil
}

// preprocess converts the image to the model's grayscale input plane,
// normalized to [0,1].
func (e *Engine) preprocess(img image.Image) []float32 {
	height := uint(e.meta.InputShape[2])
	width := uint(e.meta.InputShape[3])
	scaled := resize.Resize(width, height, img, resize.Lanczos3)

	bounds := scaled.Bounds()
	pixels := make([]float32, int(width)*int(height))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := scaled.At(x, y).RGBA()
			// ITU-R BT.601 luminance on 16-bit channel values.
			gray := 0.299*float32(r) + 0.587*float32(g) + 0.114*float32(b)
			pixels[(y-bounds.Min.Y)*int(width)+(x-bounds.Min.X)] = gray / 65535.0
		}
	}
	return pixels
}

// ctcDecode runs greedy CTC decoding: argmax per timestep, collapse repeats,
// drop blanks (class 0).
func (e *Engine) ctcDecode(logits []float32) string {
	timesteps := int(e.meta.OutputShape[1])
	classes := int(e.meta.OutputShape[2])
	if timesteps*classes > len(logits) {
		return ""
	}
	out := make([]rune, 0, timesteps)
	prev := -1
	for t := 0; t < timesteps; t++ {
		row := logits[t*classes : (t+1)*classes]
		best := 0
		for c := 1; c < classes; c++ {
			if row[c] > row[best] {
				best = c
			}
		}
		if best != prev && best > 0 && best-1 < len(e.charset) {
			out = append(out, e.charset[best-1])
		}
		prev = best
	}
	return string(out)
}

// Close releases the session and tensors. The engine must not be used after.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.inputTensor != nil {
		e.inputTensor.Destroy()
		e.inputTensor = nil
	}
	if e.outputTensor != nil {
		e.outputTensor.Destroy()
		e.outputTensor = nil
	}
	if e.session != nil {
		e.session.Destroy()
		e.session = nil
	}
	ort.DestroyEnvironment()
	return nil
}

func firstLanguage(langs []string) string {
	if len(langs) == 0 {
		return ""
	}
	return langs[0]
}
