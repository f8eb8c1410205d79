package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"labrex/models"
	"labrex/pkg/ocr"
	"labrex/pkg/pdf"
)

// newProcessor builds the recognizer from config and wraps it in a pipeline.
// Commands that touch the OCR engine fail fast here when tesseract is absent.
func newProcessor() (*ocr.Processor, *ocr.Tesseract, error) {
	engine, err := ocr.NewTesseract(cfg.OCR.Language)
	if err != nil {
		return nil, nil, err
	}
	if version, err := engine.Version(); err == nil {
		logger.Debug().Str("engine", version).Msg("ocr engine ready")
	}
	return ocr.NewProcessor(engine, logger), engine, nil
}

// extractFile runs one input through the pipeline. PDFs are rendered page by
// page and the per-page records append in page order.
func extractFile(proc *ocr.Processor, path string) ([]models.TestRecord, error) {
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return proc.ProcessFile(path)
	}
	pages, err := pdf.RenderPages(path)
	if err != nil {
		return nil, err
	}
	records := []models.TestRecord{}
	for i, page := range pages {
		pageRecords, err := proc.ProcessImage(page)
		if err != nil {
			return nil, fmt.Errorf("page %d of %s: %w", i+1, path, err)
		}
		records = append(records, pageRecords...)
	}
	return records, nil
}
