// Package batch processes directories of lab report files through the
// extraction pipeline, with optional watch mode.
package batch

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
)

// maxProcessedBytes is the size budget for files moved to the processed
// directory; larger images are downscaled on the way out.
const maxProcessedBytes = 1_000_000

var supportedExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".pdf":  true,
}

// IsSupportedFile reports whether name is an input the batch tools accept.
// Preview artifacts are ignored to avoid reprocessing tool output.
func IsSupportedFile(name string) bool {
	if strings.Contains(name, ".preview.") {
		return false
	}
	return supportedExts[strings.ToLower(filepath.Ext(name))]
}

// ListReportFiles returns the names of supported files directly inside dir,
// sorted for deterministic processing order.
func ListReportFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !IsSupportedFile(e.Name()) {
			continue
		}
		out = append(out, e.Name())
	}
	sort.Strings(out)
	return out, nil
}

// MoveToProcessed relocates src into processedDir, downscaling decodable
// images that exceed the size budget. It attempts an atomic rename and falls
// back to copy+remove when necessary.
func MoveToProcessed(src, processedDir string) error {
	if err := os.MkdirAll(processedDir, 0o755); err != nil {
		return err
	}
	dst := filepath.Join(processedDir, filepath.Base(src))

	fi, err := os.Stat(src)
	if err != nil {
		return err
	}
	// Fast path: already small enough -> attempt rename/copy
	if fi.Size() <= maxProcessedBytes {
		if err := os.Rename(src, dst); err == nil {
			return nil
		}
		return copyRemove(src, dst)
	}

	img, err := imaging.Open(src)
	if err != nil { // not decodable (e.g. PDF): move as-is
		if err := os.Rename(src, dst); err == nil {
			return nil
		}
		return copyRemove(src, dst)
	}
	// Estimate scale factor based on sqrt(max/current) (size roughly scales with area)
	scale := math.Sqrt(float64(maxProcessedBytes) / float64(fi.Size()))
	if scale > 0.95 {
		scale = 0.95
	}
	if scale < 0.1 {
		scale = 0.1
	}
	w := int(math.Max(1, math.Round(float64(img.Bounds().Dx())*scale)))
	h := int(math.Max(1, math.Round(float64(img.Bounds().Dy())*scale)))
	img = imaging.Resize(img, w, h, imaging.Lanczos)

	if err := imaging.Save(img, dst); err != nil {
		if err := os.Rename(src, dst); err == nil {
			return nil
		}
		return copyRemove(src, dst)
	}
	_ = os.Remove(src)
	// If still over budget, try one more uniform 80% scale pass
	if fi2, err2 := os.Stat(dst); err2 == nil && fi2.Size() > maxProcessedBytes {
		if img2, errOpen := imaging.Open(dst); errOpen == nil {
			img2 = imaging.Resize(img2, int(float64(img2.Bounds().Dx())*0.8), 0, imaging.Lanczos)
			_ = imaging.Save(img2, dst)
		}
	}
	return nil
}

func copyRemove(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return err
	}
	_ = out.Close()
	return os.Remove(src)
}
