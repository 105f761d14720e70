package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/cnwankpa/portfolio-api/pkg/logging"
)

func bufferLogger(buf *bytes.Buffer) *logging.Logger {
	return &logging.Logger{Logger: slog.New(slog.NewJSONHandler(buf, nil))}
}

func TestRequestLoggerUsesChiRequestID(t *testing.T) {
	var buf bytes.Buffer
	mw := RequestLogger(bufferLogger(&buf))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req = req.WithContext(context.WithValue(req.Context(), chimiddleware.RequestIDKey, "req-123"))
	rec := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})).ServeHTTP(rec, req)

	out := buf.String()
	if strings.Count(out, `"request_id":"req-123"`) != 2 {
		t.Errorf("expected both log lines to carry the chi request id, got %s", out)
	}
	if !strings.Contains(out, `"status":418`) {
		t.Errorf("expected response status in the completion line, got %s", out)
	}
}

func TestRequestLoggerFallsBackToHeader(t *testing.T) {
	var buf bytes.Buffer
	mw := RequestLogger(bufferLogger(&buf))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", "client-supplied")
	rec := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})).ServeHTTP(rec, req)

	if !strings.Contains(buf.String(), `"request_id":"client-supplied"`) {
		t.Errorf("expected the client request id, got %s", buf.String())
	}
}

func TestRequestLoggerGeneratesID(t *testing.T) {
	var buf bytes.Buffer
	mw := RequestLogger(bufferLogger(&buf))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})).ServeHTTP(rec, req)

	if !strings.Contains(buf.String(), `"request_id":"`) {
		t.Errorf("expected a generated request id, got %s", buf.String())
	}
}
