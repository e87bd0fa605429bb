package ocr

import "errors"

// ErrInvalidImage marks payloads that cannot be decoded as a supported raster
// image. The gateway maps this class of error to a 4xx response; everything
// else coming out of an engine is treated as an inference failure (5xx).
var ErrInvalidImage = errors.New("invalid image")
