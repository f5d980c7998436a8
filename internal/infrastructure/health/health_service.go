package health

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"hostnet-agent/internal/domain/interfaces"

	"github.com/sirupsen/logrus"
)

// HealthService provides health check functionality
type HealthService struct {
	mu              sync.RWMutex
	clock           interfaces.Clock
	logger          *logrus.Logger
	startTime       time.Time
	dbHealthy       bool
	dbError         error
	appliedRecords  int64
	failedRecords   int64
	rollbacks       int64
	lastPassAt      time.Time
}

// HealthStatus represents health check status
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusDegraded  HealthStatus = "degraded"
	StatusUnhealthy HealthStatus = "unhealthy"
)

// HealthResponse is the health check response struct
type HealthResponse struct {
	Status     HealthStatus           `json:"status"`
	Timestamp  string                 `json:"timestamp"`
	LastPass   string                 `json:"last_pass"`
	Components map[string]interface{} `json:"components"`
	Statistics map[string]interface{} `json:"statistics"`
}

// NewHealthService creates a new HealthService
func NewHealthService(clock interfaces.Clock, logger *logrus.Logger) *HealthService {
	return &HealthService{
		clock:     clock,
		logger:    logger,
		startTime: clock.Now(),
		dbHealthy: false,
	}
}

// UpdateDBHealth updates the database health status
func (h *HealthService) UpdateDBHealth(healthy bool, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.dbHealthy = healthy
	h.dbError = err
}

// RecordPass marks a completed reconciliation pass
func (h *HealthService) RecordPass() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.lastPassAt = h.clock.Now()
}

// IncrementAppliedRecords increments the applied record count
func (h *HealthService) IncrementAppliedRecords() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.appliedRecords++
}

// IncrementFailedRecords increments the failed record count
func (h *HealthService) IncrementFailedRecords() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.failedRecords++
}

// IncrementRollbacks increments the rollback count
func (h *HealthService) IncrementRollbacks() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.rollbacks++
}

// ServeHTTP handles the HTTP health check endpoint
func (h *HealthService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := h.buildHealthResponse()

	// Set HTTP status code based on health status
	statusCode := http.StatusOK
	if response.Status == StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.WithError(err).Error("failed to encode health check response")
	}
}

// buildHealthResponse constructs the health check response
func (h *HealthService) buildHealthResponse() HealthResponse {
	h.mu.RLock()
	defer h.mu.RUnlock()

	now := h.clock.Now()

	status := h.determineOverallStatus()

	components := map[string]interface{}{
		"database": map[string]interface{}{
			"healthy": h.dbHealthy,
			"error":   h.formatError(h.dbError),
		},
	}

	lastPass := ""
	if !h.lastPassAt.IsZero() {
		lastPass = h.lastPassAt.Format(time.RFC3339)
	}

	statistics := map[string]interface{}{
		"applied_records": h.appliedRecords,
		"failed_records":  h.failedRecords,
		"rollbacks":       h.rollbacks,
		"uptime":          h.formatUptime(now.Sub(h.startTime)),
	}

	return HealthResponse{
		Status:     status,
		Timestamp:  now.Format(time.RFC3339),
		LastPass:   lastPass,
		Components: components,
		Statistics: statistics,
	}
}

// determineOverallStatus determines the overall health status
func (h *HealthService) determineOverallStatus() HealthStatus {
	// If database is unhealthy, overall status is unhealthy
	if !h.dbHealthy {
		return StatusUnhealthy
	}

	// If failed records are 50% or more, status is degraded
	if h.appliedRecords > 0 && h.failedRecords > 0 {
		failureRate := float64(h.failedRecords) / float64(h.appliedRecords+h.failedRecords)
		if failureRate >= 0.5 {
			return StatusDegraded
		}
	}

	return StatusHealthy
}

// formatError formats an error to string
func (h *HealthService) formatError(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// formatUptime formats uptime duration to human-readable format
func (h *HealthService) formatUptime(duration time.Duration) string {
	days := int(duration.Hours()) / 24
	hours := int(duration.Hours()) % 24
	minutes := int(duration.Minutes()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd%dh%dm", days, hours, minutes)
	} else if hours > 0 {
		return fmt.Sprintf("%dh%dm", hours, minutes)
	} else {
		return fmt.Sprintf("%dm", minutes)
	}
}
