package convert

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"pdfconvert-backend/internal/graph"
	"pdfconvert-backend/internal/shared/metrics"
	"pdfconvert-backend/internal/shared/server/respond"
)

const unsupportedTypeMessage = "Only DOCX or PPTX supported"

// Handler wires the conversion endpoint to the service.
type Handler struct {
	Svc            *Service
	MaxUploadBytes int64
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, maxUploadBytes int64) *Handler {
	return &Handler{Svc: svc, MaxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches the conversion route to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/convert-to-pdf", h.convert)
}

func (h *Handler) convert(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}

	fileName := fileHeader.Filename
	c.Set("fileName", fileName)

	// Reject unsupported types before anything leaves the process.
	if !SupportedFileName(fileName) {
		metrics.IncConversionRejected()
		respond.Error(c, http.StatusBadRequest, "validation_error", unsupportedTypeMessage, nil)
		return
	}
	c.Set("sourceType", strings.TrimPrefix(strings.ToLower(filepath.Ext(fileName)), "."))

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}

	metrics.IncConversionStarted()
	start := time.Now()
	pdf, err := h.Svc.Convert(c.Request.Context(), fileName, content)
	metrics.ObserveConversionDurationMs(float64(time.Since(start).Microseconds()) / 1000.0)
	if err != nil {
		metrics.IncConversionFailed()
		h.respondPipelineError(c, err)
		return
	}
	metrics.IncConversionCompleted()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", fileName))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// respondPipelineError maps a pipeline failure onto an HTTP response. A
// non-2xx status from Graph is mirrored to the caller; transport-level
// failures become 502.
func (h *Handler) respondPipelineError(c *gin.Context, err error) {
	if errors.Is(err, ErrUnsupportedType) {
		respond.Error(c, http.StatusBadRequest, "validation_error", unsupportedTypeMessage, nil)
		return
	}

	code := "internal_error"
	stage := ""
	switch {
	case errors.Is(err, ErrAuth):
		code, stage = "auth_failed", "token"
	case errors.Is(err, ErrUpload):
		code, stage = "upload_failed", "upload"
	case errors.Is(err, ErrRender):
		code, stage = "conversion_failed", "convert"
	}
	if stage != "" {
		c.Set("upstreamStage", stage)
	}

	status := http.StatusBadGateway
	var apiErr *graph.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode >= http.StatusBadRequest {
		status = apiErr.StatusCode
	}

	respond.Error(c, status, code, "conversion pipeline failed", nil)
}
