package api

import (
	"bytes"
	"net/http"

	"goanova/adapters/report"
	"goanova/app"
	"goanova/internal/errors"

	"github.com/gin-gonic/gin"
)

// AnovaHandler serves analysis of variance over HTTP
type AnovaHandler struct {
	service *app.AnalysisService
}

// NewAnovaHandler creates a new ANOVA handler
func NewAnovaHandler(service *app.AnalysisService) *AnovaHandler {
	return &AnovaHandler{service: service}
}

type analyzeRequest struct {
	Source string      `json:"source"`
	Matrix [][]float64 `json:"matrix" binding:"required"`
	Block  bool        `json:"block"`
}

// RegisterRoutes mounts the handler on r
func (h *AnovaHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/healthz", h.Health)

	v1 := r.Group("/api/v1")
	v1.POST("/anova", h.Analyze)
}

// Health reports liveness
func (h *AnovaHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Analyze computes the table for the posted matrix. The optional format
// query parameter (text, markdown, html) returns a rendered report instead
// of JSON.
func (h *AnovaHandler) Analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": errors.CodeInvalidInput})
		return
	}

	format := report.FormatJSON
	if raw := c.Query("format"); raw != "" {
		f, err := report.ParseFormat(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": errors.GetCode(err)})
			return
		}
		format = f
	}

	result, err := h.service.Analyze(c.Request.Context(), app.AnalysisRequest{
		Source: req.Source,
		Matrix: req.Matrix,
		Block:  req.Block,
	})
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error(), "code": errors.GetCode(err)})
		return
	}

	if format == report.FormatJSON {
		c.JSON(http.StatusOK, result)
		return
	}

	var buf bytes.Buffer
	if err := report.Render(&buf, result.Document(), format); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "code": errors.GetCode(err)})
		return
	}
	c.Data(http.StatusOK, contentType(format), buf.Bytes())
}

func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.CodeMalformedInput, errors.CodeInvalidInput:
		return http.StatusBadRequest
	case errors.CodeDegenerateDesign, errors.CodeNotApplicable:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func contentType(format report.Format) string {
	switch format {
	case report.FormatHTML:
		return "text/html; charset=utf-8"
	case report.FormatMarkdown:
		return "text/markdown; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}
