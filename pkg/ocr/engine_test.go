package ocr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTesseractMissingEngine(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	_, err := NewTesseract("eng")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEngineNotFound))
	assert.Contains(t, err.Error(), "not in PATH")
}
