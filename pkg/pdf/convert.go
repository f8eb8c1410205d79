// Package pdf rasterizes PDF documents into page images for OCR.
package pdf

import (
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"
)

// RenderPages opens the document at path and renders every page in order.
// An unreadable document or an empty one is an error.
func RenderPages(path string) ([]image.Image, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer doc.Close()

	n := doc.NumPage()
	if n == 0 {
		return nil, fmt.Errorf("pdf %s has no pages", path)
	}

	pages := make([]image.Image, 0, n)
	for i := 0; i < n; i++ {
		img, err := doc.Image(i)
		if err != nil {
			return nil, fmt.Errorf("render pdf page %d of %s: %w", i+1, path, err)
		}
		pages = append(pages, img)
	}
	return pages, nil
}
