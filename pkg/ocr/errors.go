package ocr

import "errors"

// ErrEngineNotFound is returned at construction time when the external OCR
// engine cannot be located or does not respond to a version probe.
var ErrEngineNotFound = errors.New("ocr engine not found")

// ErrBadImage is returned when input bytes cannot be decoded as an image.
var ErrBadImage = errors.New("invalid image data")
