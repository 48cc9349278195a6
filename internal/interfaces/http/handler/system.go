package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/componentadmin/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// SystemHandler handles system-related API endpoints
type SystemHandler struct {
	BaseHandler
	startTime        time.Time
	vendorConfigured func() bool
}

// NewSystemHandler creates a new SystemHandler. vendorConfigured reports
// whether vendor platform credentials are present; nil means unknown.
func NewSystemHandler(vendorConfigured func() bool) *SystemHandler {
	return &SystemHandler{
		startTime:        time.Now(),
		vendorConfigured: vendorConfigured,
	}
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name             string `json:"name"`
	Version          string `json:"version"`
	GoVersion        string `json:"go_version"`
	Uptime           string `json:"uptime"`
	VendorConfigured bool   `json:"vendor_configured"`
}

// GetSystemInfo returns basic system information including version,
// uptime and whether vendor credentials are configured
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	info := SystemInfoResponse{
		Name:      "Component Admin API",
		Version:   "1.0.0",
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}
	if h.vendorConfigured != nil {
		info.VendorConfigured = h.vendorConfigured()
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(info))
}

// PingResponse represents the ping response
type PingResponse struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Ping is a simple endpoint to check if the API is responsive
func (h *SystemHandler) Ping(c *gin.Context) {
	response := PingResponse{
		Message:   "pong",
		Timestamp: time.Now().Format(time.RFC3339),
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}
