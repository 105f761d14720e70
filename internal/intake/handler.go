package intake

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cnwankpa/portfolio-api/internal/leads"
	"github.com/cnwankpa/portfolio-api/pkg/logging"
)

// Handler exposes the public CV request endpoints.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates the intake HTTP handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// RequestCV handles POST /api/request-cv.
func (h *Handler) RequestCV(w http.ResponseWriter, r *http.Request) {
	var req CVRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	clientIP := clientIPFromRequest(r)
	resp, err := h.service.ProcessCVRequest(r.Context(), req, clientIP, r.UserAgent())
	if err != nil {
		var verr *ValidationError
		switch {
		case errors.As(err, &verr):
			http.Error(w, verr.Message, http.StatusBadRequest)
		case errors.Is(err, ErrRateLimited):
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
		default:
			h.logger.Error("cv request failed", "error", err, "ip", clientIP)
			http.Error(w, "Internal server error. Please try again later.", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// RequestStatus handles GET /api/cv-status/{request_id}.
func (h *Handler) RequestStatus(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "requestID")

	status, err := h.service.RequestStatus(r.Context(), requestID)
	if err != nil {
		if errors.Is(err, leads.ErrNotFound) {
			http.Error(w, "Request not found", http.StatusNotFound)
			return
		}
		h.logger.Error("cv status lookup failed", "error", err, "request_id", requestID)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(status)
}

// clientIPFromRequest resolves the caller's IP. chi's RealIP middleware
// has already folded X-Forwarded-For / X-Real-Ip into RemoteAddr.
func clientIPFromRequest(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
