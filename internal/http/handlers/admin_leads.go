package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/cnwankpa/portfolio-api/internal/leads"
	"github.com/cnwankpa/portfolio-api/pkg/logging"
)

// AdminLeadsHandler handles admin API endpoints for lead management.
type AdminLeadsHandler struct {
	repo   leads.Repository
	logger *logging.Logger
}

// NewAdminLeadsHandler creates a new admin leads handler.
func NewAdminLeadsHandler(repo leads.Repository, logger *logging.Logger) *AdminLeadsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AdminLeadsHandler{
		repo:   repo,
		logger: logger,
	}
}

// MessageResponse is the common success envelope for mutations.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ListLeads returns a paginated list of leads.
// GET /api/admin/leads
func (h *AdminLeadsHandler) ListLeads(w http.ResponseWriter, r *http.Request) {
	filter := leads.ListFilter{}

	if raw := r.URL.Query().Get("skip"); raw != "" {
		skip, err := strconv.Atoi(raw)
		if err != nil || skip < 0 {
			http.Error(w, "Invalid skip parameter", http.StatusBadRequest)
			return
		}
		filter.Skip = skip
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			http.Error(w, "Invalid limit parameter", http.StatusBadRequest)
			return
		}
		filter.Limit = limit
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := leads.ParseStatus(raw)
		if err != nil {
			http.Error(w, "Invalid status filter", http.StatusBadRequest)
			return
		}
		filter.Status = &status
	}
	if raw := r.URL.Query().Get("source"); raw != "" {
		source, err := leads.ParseSource(raw)
		if err != nil {
			http.Error(w, "Invalid source filter", http.StatusBadRequest)
			return
		}
		filter.Source = &source
	}

	result, err := h.repo.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list leads", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// GetLead returns a single lead by ID.
// GET /api/admin/leads/{leadID}
func (h *AdminLeadsHandler) GetLead(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadID")

	lead, err := h.repo.GetByID(r.Context(), leadID)
	if err != nil {
		if errors.Is(err, leads.ErrNotFound) {
			http.Error(w, "Lead not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to get lead", "error", err, "lead_id", leadID)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(lead)
}

// UpdateLead applies a partial update to a lead.
// PUT /api/admin/leads/{leadID}
func (h *AdminLeadsHandler) UpdateLead(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadID")

	var req leads.UpdateLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	changed, err := h.repo.Update(r.Context(), leadID, &req)
	if err != nil {
		if errors.Is(err, leads.ErrNotFound) {
			http.Error(w, "Lead not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to update lead", "error", err, "lead_id", leadID)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	message := "Lead updated successfully"
	if !changed {
		message = "No changes to update"
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(MessageResponse{Success: true, Message: message})
}

// DeleteLead removes a lead.
// DELETE /api/admin/leads/{leadID}
func (h *AdminLeadsHandler) DeleteLead(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadID")

	if err := h.repo.Delete(r.Context(), leadID); err != nil {
		if errors.Is(err, leads.ErrNotFound) {
			http.Error(w, "Lead not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to delete lead", "error", err, "lead_id", leadID)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(MessageResponse{Success: true, Message: "Lead deleted successfully"})
}
