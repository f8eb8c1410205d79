package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"labrex/pkg/ocr"
	"labrex/pkg/pdf"
)

var textCmd = &cobra.Command{
	Use:   "text <file>",
	Short: "Dump the raw recognized text for a report file",
	Long: `Text prints what the OCR engine reads from a normalized report,
before any line parsing. Useful for debugging scans that extract poorly.`,
	Args: cobra.ExactArgs(1),
	RunE: runText,
}

func init() {
	rootCmd.AddCommand(textCmd)
}

func runText(cmd *cobra.Command, args []string) error {
	path := args[0]

	_, engine, err := newProcessor()
	if err != nil {
		return fmt.Errorf("ocr engine unavailable: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		pages, err := pdf.RenderPages(path)
		if err != nil {
			return err
		}
		for i, page := range pages {
			text, err := engine.Recognize(ocr.Normalize(page))
			if err != nil {
				return fmt.Errorf("page %d: %w", i+1, err)
			}
			if i > 0 {
				fmt.Println()
			}
			fmt.Print(text)
		}
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	img, err := ocr.DecodeAndNormalize(data)
	if err != nil {
		return err
	}
	text, err := engine.Recognize(img)
	if err != nil {
		return err
	}
	fmt.Print(text)
	return nil
}
