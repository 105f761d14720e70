package analytics

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/cnwankpa/portfolio-api/pkg/logging"
)

// Handler serves the analytics endpoints.
type Handler struct {
	aggregator *Aggregator
	logger     *logging.Logger
}

// NewHandler creates the analytics handler.
func NewHandler(aggregator *Aggregator, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{aggregator: aggregator, logger: logger}
}

// Dashboard handles GET /api/analytics/dashboard?days=N.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	days := 30
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 365 {
			http.Error(w, "Invalid days parameter", http.StatusBadRequest)
			return
		}
		days = parsed
	}

	report, err := h.aggregator.Dashboard(r.Context(), days)
	if err != nil {
		h.logger.Error("failed to generate dashboard analytics", "error", err)
		http.Error(w, "Failed to generate analytics", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}

// LeadsSummary handles GET /api/analytics/leads/summary.
func (h *Handler) LeadsSummary(w http.ResponseWriter, r *http.Request) {
	report, err := h.aggregator.LeadsSummary(r.Context())
	if err != nil {
		h.logger.Error("failed to generate leads summary", "error", err)
		http.Error(w, "Failed to generate leads summary", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}

// Performance handles GET /api/analytics/performance.
func (h *Handler) Performance(w http.ResponseWriter, r *http.Request) {
	report, err := h.aggregator.Performance(r.Context())
	if err != nil {
		h.logger.Error("failed to generate performance metrics", "error", err)
		http.Error(w, "Failed to generate performance metrics", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}
