package commands

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"

	"labrex/internal/ui"
	"labrex/pkg/ocr"
	"labrex/pkg/pdf"
)

var (
	previewOutput   string
	previewMaxWidth int
)

var previewCmd = &cobra.Command{
	Use:   "preview <file>",
	Short: "Write the normalized image the OCR engine would see",
	Long: `Preview applies the grayscale and threshold normalization to a report
file and saves the result as a PNG, for checking scan quality before a run.
For PDFs the first page is rendered.`,
	Args: cobra.ExactArgs(1),
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().StringVarP(&previewOutput, "output", "o", "", "output PNG path (default <file>.preview.png)")
	previewCmd.Flags().IntVar(&previewMaxWidth, "max-width", 0, "downscale the preview to this width (0 = keep size)")
	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
	path := args[0]

	img, err := normalizedImage(path)
	if err != nil {
		return err
	}
	if previewMaxWidth > 0 && img.Bounds().Dx() > previewMaxWidth {
		img = imaging.Resize(img, previewMaxWidth, 0, imaging.Lanczos)
	}

	out := previewOutput
	if out == "" {
		ext := filepath.Ext(path)
		out = strings.TrimSuffix(path, ext) + ".preview.png"
	}
	if err := imaging.Save(img, out); err != nil {
		return fmt.Errorf("save preview: %w", err)
	}
	ui.Success("preview written to %s", out)
	return nil
}

// normalizedImage decodes one input and applies the OCR normalization.
func normalizedImage(path string) (*image.NRGBA, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		pages, err := pdf.RenderPages(path)
		if err != nil {
			return nil, err
		}
		return ocr.Normalize(pages[0]), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return ocr.DecodeAndNormalize(data)
}
