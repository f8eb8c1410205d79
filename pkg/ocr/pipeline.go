package ocr

import (
	"fmt"
	"image"
	"os"

	"github.com/rs/zerolog"

	"labrex/models"
)

// Processor wires the full extraction pipeline: normalize, recognize,
// assemble. One Processor serves any number of sequential or concurrent
// requests; it holds no per-request state.
type Processor struct {
	rec Recognizer
	asm *Assembler
	log zerolog.Logger
}

// NewProcessor builds a Processor around rec, logging through log.
func NewProcessor(rec Recognizer, log zerolog.Logger) *Processor {
	return &Processor{rec: rec, asm: NewAssembler(log), log: log}
}

// ProcessReport extracts test records from raw encoded image bytes.
func (p *Processor) ProcessReport(data []byte) ([]models.TestRecord, error) {
	img, err := DecodeAndNormalize(data)
	if err != nil {
		return nil, fmt.Errorf("process report: %w", err)
	}
	return p.recognizeAndAssemble(img)
}

// ProcessImage normalizes an already-decoded image and extracts records from
// it. PDF pages and other in-memory images enter the pipeline here.
func (p *Processor) ProcessImage(img image.Image) ([]models.TestRecord, error) {
	return p.recognizeAndAssemble(Normalize(img))
}

// ProcessFile reads one image file and extracts records from it.
func (p *Processor) ProcessFile(path string) ([]models.TestRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return p.ProcessReport(data)
}

// ProcessBatch runs ProcessReport over each input strictly in order. The
// first failure aborts the batch; results up to that point are discarded.
func (p *Processor) ProcessBatch(batch [][]byte) ([][]models.TestRecord, error) {
	results := make([][]models.TestRecord, 0, len(batch))
	for i, data := range batch {
		records, err := p.ProcessReport(data)
		if err != nil {
			return nil, fmt.Errorf("batch item %d: %w", i, err)
		}
		results = append(results, records)
	}
	return results, nil
}

// Preview decodes and normalizes raw image bytes without running recognition,
// returning the image the engine would see.
func (p *Processor) Preview(data []byte) (image.Image, error) {
	return DecodeAndNormalize(data)
}

func (p *Processor) recognizeAndAssemble(img image.Image) ([]models.TestRecord, error) {
	text, err := p.rec.Recognize(img)
	if err != nil {
		return nil, fmt.Errorf("process report: %w", err)
	}
	p.log.Info().Int("chars", len(text)).Str("text", snippet(text, 400)).Msg("recognized text")
	return p.asm.Assemble(text), nil
}
