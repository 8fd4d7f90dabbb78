package http

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"go.ngs.io/vsop87-api/internal/adapter/store"
	"go.ngs.io/vsop87-api/internal/usecase"
)

// Handler handles HTTP requests for planetary positions.
type Handler struct {
	positionUC *usecase.PositionUseCase
}

// NewHandler creates a new HTTP handler.
func NewHandler(positionUC *usecase.PositionUseCase) *Handler {
	return &Handler{
		positionUC: positionUC,
	}
}

// GetPositions handles GET /v1/positions.
func (h *Handler) GetPositions(c *gin.Context) {
	// Parse query parameters.
	tauStr := c.Query("tau")
	startStr := c.Query("start")
	endStr := c.Query("end")
	intervalStr := c.Query("interval")

	// Build request.
	req := usecase.PositionRequest{
		Body:   c.Query("body"),
		Source: c.Query("source"),
	}

	if req.Body == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "body parameter is required"})
		return
	}

	// Parse tau.
	if tauStr != "" {
		tau, err := strconv.ParseFloat(tauStr, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid tau: %v", err)})
			return
		}
		req.Tau = &tau
	}

	// Parse time range.
	if startStr != "" {
		start, err := time.Parse(time.RFC3339, startStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid start time (expected RFC3339): %v", err)})
			return
		}
		req.Start = start.UTC()
	}
	if endStr != "" {
		end, err := time.Parse(time.RFC3339, endStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid end time (expected RFC3339): %v", err)})
			return
		}
		req.End = end.UTC()
	}

	// Parse interval (default: 24h).
	if req.Tau == nil {
		if intervalStr == "" {
			intervalStr = "24h"
		}
		interval, err := time.ParseDuration(intervalStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid interval: %v", err)})
			return
		}
		req.Interval = interval
	}

	// Execute use case.
	response, err := h.positionUC.Execute(req)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetBodies handles GET /v1/bodies.
func (h *Handler) GetBodies(c *gin.Context) {
	bodies, err := h.positionUC.ListBodies()
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bodies": bodies,
		"count":  len(bodies),
	})
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// statusFor maps use case errors to HTTP status codes.
func statusFor(err error) int {
	var resErr *store.ResourceError
	switch {
	case errors.Is(err, usecase.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrUnknownBody),
		errors.Is(err, usecase.ErrSourceUnavailable),
		errors.Is(err, fs.ErrNotExist),
		errors.As(err, &resErr):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
