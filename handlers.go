package main

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"labrex/pkg/ocr"
)

func setupRoutes(r *gin.Engine) {
	r.GET("/healthz", healthzHandler)
	v1 := r.Group("/v1")
	v1.POST("/extract", extractHandler)
	v1.POST("/extract/csv", extractCSVHandler)
	v1.POST("/preview", previewHandler)
}

// requestIDMiddleware tags every request with an id, honoring one supplied by
// the caller.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func requestLogMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info().
			Str("request_id", c.GetString("request_id")).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	}
}

func healthzHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "engine": engineVersion})
}

// readUpload pulls the uploaded report image out of the multipart form.
func readUpload(c *gin.Context) ([]byte, error) {
	file, err := c.FormFile("file")
	if err != nil {
		return nil, errors.New("file missing")
	}
	if file.Size > maxUploadBytes {
		return nil, fmt.Errorf("file too large (max %dMB)", maxUploadBytes/(1024*1024))
	}
	f, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	return io.ReadAll(f)
}

// pipelineStatus maps a processing failure to an HTTP status: bad input is
// the client's fault, anything else is an engine-side fault.
func pipelineStatus(err error) int {
	if errors.Is(err, ocr.ErrBadImage) {
		return http.StatusBadRequest
	}
	return http.StatusBadGateway
}

func boolQuery(c *gin.Context, name string, fallback bool) bool {
	v := c.Query(name)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

// extractHandler runs the full pipeline over one uploaded image and returns
// the extracted records. ?validate=false keeps incomplete records;
// ?out_of_range=true returns only flagged ones.
func extractHandler(c *gin.Context) {
	data, err := readUpload(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	records, err := proc.ProcessReport(data)
	if err != nil {
		c.JSON(pipelineStatus(err), gin.H{"error": err.Error()})
		return
	}
	if boolQuery(c, "validate", true) {
		records = ocr.Validate(records, logger)
	}
	if boolQuery(c, "out_of_range", false) {
		records = ocr.FilterOutOfRange(records)
	}
	c.JSON(http.StatusOK, gin.H{
		"request_id": c.GetString("request_id"),
		"records":    records,
		"count":      len(records),
	})
}

// extractCSVHandler is extractHandler with a text/csv attachment response.
func extractCSVHandler(c *gin.Context) {
	data, err := readUpload(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	records, err := proc.ProcessReport(data)
	if err != nil {
		c.JSON(pipelineStatus(err), gin.H{"error": err.Error()})
		return
	}
	if boolQuery(c, "validate", true) {
		records = ocr.Validate(records, logger)
	}
	if boolQuery(c, "out_of_range", false) {
		records = ocr.FilterOutOfRange(records)
	}
	var buf bytes.Buffer
	if err := ocr.WriteCSV(&buf, records); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "csv write failed"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="lab_tests.csv"`)
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

// previewHandler returns the normalized image the engine would see, without
// running recognition.
func previewHandler(c *gin.Context) {
	data, err := readUpload(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	img, err := proc.Preview(data)
	if err != nil {
		c.JSON(pipelineStatus(err), gin.H{"error": err.Error()})
		return
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "encode preview failed"})
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}
