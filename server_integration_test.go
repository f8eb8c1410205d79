package main

import (
	"encoding/json"
	"net/http"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"labrex/pkg/ocr"
)

// setupTestServer wires the router against a real tesseract install.
// Integration tests are opt-in: set LABREX_IT=1 to run them.
func setupTestServer(t *testing.T) *gin.Engine {
	if os.Getenv("LABREX_IT") != "1" {
		t.Skip("integration tests are disabled; set LABREX_IT=1 to enable")
	}
	gin.SetMode(gin.TestMode)

	engine, err := ocr.NewTesseract("eng")
	if err != nil {
		t.Fatalf("tesseract unavailable: %v", err)
	}
	version, err := engine.Version()
	if err != nil {
		t.Fatalf("tesseract not responding: %v", err)
	}

	logger = zerolog.Nop()
	maxUploadBytes = 10 * 1024 * 1024
	engineVersion = version
	proc = ocr.NewProcessor(engine, logger)

	r := gin.New()
	r.Use(requestIDMiddleware(), requestLogMiddleware(logger))
	setupRoutes(r)
	return r
}

func TestFullFlow(t *testing.T) {
	r := setupTestServer(t)

	// 1. Health check reports the engine version.
	resp := performRequest(r, http.MethodGet, "/healthz", nil, "")
	if resp.Code != 200 {
		t.Fatalf("healthz failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var health map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &health)
	if health["engine"] == "" {
		t.Fatalf("empty engine in healthz response: %+v", health)
	}

	// 2. A blank page extracts to an empty (non-null) record list.
	body, ctype := multipartImage(t, whitePNG(t))
	resp = performRequest(r, http.MethodPost, "/v1/extract", body, ctype)
	if resp.Code != 200 {
		t.Fatalf("extract failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var out extractResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode extract response: %v", err)
	}
	if out.Records == nil {
		t.Fatalf("records should be an empty list, not null: %s", resp.Body.String())
	}
	if out.Count != 0 {
		t.Fatalf("expected 0 records from blank page, got %d", out.Count)
	}

	// 3. CSV export of the same page is just the header row.
	body, ctype = multipartImage(t, whitePNG(t))
	resp = performRequest(r, http.MethodPost, "/v1/extract/csv", body, ctype)
	if resp.Code != 200 {
		t.Fatalf("extract csv failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	if got := resp.Header().Get("Content-Type"); got != "text/csv" {
		t.Fatalf("expected text/csv got %s", got)
	}

	// 4. Preview round-trips through the normalizer.
	body, ctype = multipartImage(t, whitePNG(t))
	resp = performRequest(r, http.MethodPost, "/v1/preview", body, ctype)
	if resp.Code != 200 {
		t.Fatalf("preview failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	if got := resp.Header().Get("Content-Type"); got != "image/png" {
		t.Fatalf("expected image/png got %s", got)
	}
}
