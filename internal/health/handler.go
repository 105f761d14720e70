package health

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cnwankpa/portfolio-api/pkg/logging"
)

// Version is the reported application version.
const Version = "1.0.0"

const probeTimeout = 2 * time.Second

// Handler serves the health, readiness, and liveness probes.
type Handler struct {
	db     *sql.DB
	redis  *redis.Client
	logger *logging.Logger
}

// NewHandler creates the health handler. The redis client may be nil
// when no Redis is configured; the probe then reports false.
func NewHandler(db *sql.DB, redisClient *redis.Client, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{db: db, redis: redisClient, logger: logger}
}

// Status is the /health response body.
type Status struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Database  bool      `json:"database"`
	Redis     bool      `json:"redis"`
	Version   string    `json:"version"`
}

func (h *Handler) checkDatabase(ctx context.Context) bool {
	if h.db == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	return h.db.PingContext(ctx) == nil
}

func (h *Handler) checkRedis(ctx context.Context) bool {
	if h.redis == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	return h.redis.Ping(ctx).Err() == nil
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	dbHealthy := h.checkDatabase(r.Context())
	redisHealthy := h.checkRedis(r.Context())

	status := "healthy"
	if !dbHealthy || !redisHealthy {
		status = "degraded"
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(Status{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Database:  dbHealthy,
		Redis:     redisHealthy,
		Version:   Version,
	})
}

// Ready handles GET /ready. Returns 503 until the database answers.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if !h.checkDatabase(r.Context()) {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{
			"status": "not ready",
			"reason": "database connection failed",
		})
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
}

// Live handles GET /live.
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":    "alive",
		"timestamp": time.Now().UTC(),
	})
}
