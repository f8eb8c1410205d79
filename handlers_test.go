package main

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labrex/models"
	"labrex/pkg/ocr"
)

// stubRecognizer returns a fixed text or error regardless of the image.
type stubRecognizer struct {
	text string
	err  error
}

func (s *stubRecognizer) Recognize(img image.Image) (string, error) {
	return s.text, s.err
}

// newTestRouter resets the handler globals around a stubbed recognizer.
func newTestRouter(text string, recErr error) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger = zerolog.Nop()
	maxUploadBytes = 10 * 1024 * 1024
	engineVersion = "tesseract 5.0.0 (test)"
	proc = ocr.NewProcessor(&stubRecognizer{text: text, err: recErr}, logger)

	r := gin.New()
	r.Use(requestIDMiddleware(), requestLogMiddleware(logger))
	setupRoutes(r)
	return r
}

func performRequest(r http.Handler, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func whitePNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, imaging.New(8, 8, color.NRGBA{255, 255, 255, 255})))
	return buf.Bytes()
}

// multipartImage builds a multipart form holding content as the "file" field.
func multipartImage(t *testing.T, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	w, err := mw.CreateFormFile("file", "report.png")
	require.NoError(t, err)
	_, err = w.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return buf, mw.FormDataContentType()
}

type extractResponse struct {
	RequestID string              `json:"request_id"`
	Records   []models.TestRecord `json:"records"`
	Count     int                 `json:"count"`
}

func TestHealthz(t *testing.T) {
	r := newTestRouter("", nil)

	resp := performRequest(r, http.MethodGet, "/healthz", nil, "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"status":"ok"`)
	assert.Contains(t, resp.Body.String(), "tesseract 5.0.0 (test)")
}

func TestExtract(t *testing.T) {
	r := newTestRouter("Hemoglobin 13.5 12.0-16.0 g/dL\nGlucose 250 70-110\nnoise line", nil)

	body, ctype := multipartImage(t, whitePNG(t))
	resp := performRequest(r, http.MethodPost, "/v1/extract", body, ctype)
	require.Equal(t, http.StatusOK, resp.Code)

	var out extractResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	assert.NotEmpty(t, out.RequestID)
	assert.Equal(t, resp.Header().Get("X-Request-ID"), out.RequestID)
	assert.Equal(t, 2, out.Count)
	require.Len(t, out.Records, 2)
	assert.Equal(t, "Hemoglobin", out.Records[0].TestName)
	assert.False(t, out.Records[0].OutOfRange)
	assert.Equal(t, "Glucose", out.Records[1].TestName)
	assert.True(t, out.Records[1].OutOfRange)
}

func TestExtractEmptyTextGivesEmptyList(t *testing.T) {
	r := newTestRouter("", nil)

	body, ctype := multipartImage(t, whitePNG(t))
	resp := performRequest(r, http.MethodPost, "/v1/extract", body, ctype)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"records":[]`)
	assert.Contains(t, resp.Body.String(), `"count":0`)
}

func TestExtractOutOfRangeFilter(t *testing.T) {
	r := newTestRouter("Hemoglobin 13.5 12.0-16.0 g/dL\nGlucose 250 70-110", nil)

	body, ctype := multipartImage(t, whitePNG(t))
	resp := performRequest(r, http.MethodPost, "/v1/extract?out_of_range=true", body, ctype)
	require.Equal(t, http.StatusOK, resp.Code)

	var out extractResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	require.Equal(t, 1, out.Count)
	assert.Equal(t, "Glucose", out.Records[0].TestName)
}

func TestExtractValidateToggle(t *testing.T) {
	// The second line parses with an empty test name, so validation drops it.
	text := "Hemoglobin 13.5 12.0-16.0 g/dL\n 250 70-110"

	body, ctype := multipartImage(t, whitePNG(t))
	resp := performRequest(newTestRouter(text, nil), http.MethodPost, "/v1/extract", body, ctype)
	require.Equal(t, http.StatusOK, resp.Code)
	var out extractResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	assert.Equal(t, 1, out.Count)

	body, ctype = multipartImage(t, whitePNG(t))
	resp = performRequest(newTestRouter(text, nil), http.MethodPost, "/v1/extract?validate=false", body, ctype)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	assert.Equal(t, 2, out.Count)
}

func TestExtractMissingFile(t *testing.T) {
	r := newTestRouter("", nil)

	resp := performRequest(r, http.MethodPost, "/v1/extract", nil, "")
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "file missing")
}

func TestExtractBadImage(t *testing.T) {
	r := newTestRouter("", nil)

	body, ctype := multipartImage(t, []byte("garbage, not an image"))
	resp := performRequest(r, http.MethodPost, "/v1/extract", body, ctype)
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "invalid image data")
}

func TestExtractEngineFailure(t *testing.T) {
	r := newTestRouter("", assert.AnError)

	body, ctype := multipartImage(t, whitePNG(t))
	resp := performRequest(r, http.MethodPost, "/v1/extract", body, ctype)
	assert.Equal(t, http.StatusBadGateway, resp.Code)
}

func TestExtractTooLarge(t *testing.T) {
	r := newTestRouter("", nil)
	maxUploadBytes = 16

	body, ctype := multipartImage(t, whitePNG(t))
	resp := performRequest(r, http.MethodPost, "/v1/extract", body, ctype)
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "file too large")
}

func TestExtractCSV(t *testing.T) {
	r := newTestRouter("Glucose 250 70-110", nil)

	body, ctype := multipartImage(t, whitePNG(t))
	resp := performRequest(r, http.MethodPost, "/v1/extract/csv", body, ctype)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "text/csv", resp.Header().Get("Content-Type"))
	assert.Contains(t, resp.Header().Get("Content-Disposition"), "lab_tests.csv")

	want := "test_name,test_value,bio_reference_range,test_unit,lab_test_out_of_range\n" +
		"Glucose,250.0,70.0-110.0,,true\n"
	assert.Equal(t, want, resp.Body.String())
}

func TestPreview(t *testing.T) {
	r := newTestRouter("", nil)

	body, ctype := multipartImage(t, whitePNG(t))
	resp := performRequest(r, http.MethodPost, "/v1/preview", body, ctype)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "image/png", resp.Header().Get("Content-Type"))

	img, err := png.Decode(bytes.NewReader(resp.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())
	assert.Equal(t, 8, img.Bounds().Dy())
}

func TestPreviewBadImage(t *testing.T) {
	r := newTestRouter("", nil)

	body, ctype := multipartImage(t, []byte{0xde, 0xad})
	resp := performRequest(r, http.MethodPost, "/v1/preview", body, ctype)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestRequestIDHeader(t *testing.T) {
	r := newTestRouter("", nil)

	resp := performRequest(r, http.MethodGet, "/healthz", nil, "")
	assert.NotEmpty(t, resp.Header().Get("X-Request-ID"))

	req, _ := http.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "caller-supplied-id")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "caller-supplied-id", rec.Header().Get("X-Request-ID"))
}
