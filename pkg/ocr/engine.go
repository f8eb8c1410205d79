package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os/exec"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Recognizer turns a normalized image into text. Production code uses
// Tesseract; tests substitute a deterministic fake.
type Recognizer interface {
	Recognize(img image.Image) (string, error)
}

// Tesseract recognizes text through the locally installed tesseract engine.
// Construction fails when the engine is missing, so a running system always
// holds a usable engine.
type Tesseract struct {
	path     string
	language string
}

// NewTesseract locates the tesseract binary on PATH and probes it once with
// --version. Both failures wrap ErrEngineNotFound and are fatal to startup.
func NewTesseract(language string) (*Tesseract, error) {
	path, err := exec.LookPath("tesseract")
	if err != nil {
		return nil, fmt.Errorf("%w: tesseract not in PATH", ErrEngineNotFound)
	}
	if _, err := exec.Command(path, "--version").Output(); err != nil {
		return nil, fmt.Errorf("%w: version probe failed: %v", ErrEngineNotFound, err)
	}
	if language == "" {
		language = "eng"
	}
	return &Tesseract{path: path, language: language}, nil
}

// Version reports the installed engine version, e.g. "tesseract 5.3.4".
func (t *Tesseract) Version() (string, error) {
	out, err := exec.Command(t.path, "--version").Output()
	if err != nil {
		return "", fmt.Errorf("%w: version probe failed: %v", ErrEngineNotFound, err)
	}
	line, _, _ := strings.Cut(string(out), "\n")
	return strings.TrimSpace(line), nil
}

// Recognize runs a single OCR pass over img in single-block page segmentation
// mode and returns the raw multi-line text.
func (t *Tesseract) Recognize(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode image for ocr: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()
	_ = client.SetLanguage(t.language)
	_ = client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK)
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", fmt.Errorf("set ocr image: %w", err)
	}
	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("ocr: %w", err)
	}
	return text, nil
}
