// Package server exposes the booking services over HTTP JSON.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexanderramin/eventpermit/internal/contract"
	"github.com/alexanderramin/eventpermit/internal/repository"
	"github.com/alexanderramin/eventpermit/internal/service"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

type handler struct {
	bookings service.BookingService
	chat     service.ChatService
	logger   *slog.Logger
}

// NewHandler routes the backend endpoints. A nil logger discards request logs.
func NewHandler(bookings service.BookingService, chat service.ChatService, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	h := &handler{bookings: bookings, chat: chat, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", h.health)
	mux.HandleFunc("POST /api/check_conflict", h.checkConflict)
	mux.HandleFunc("GET /api/events", h.events)
	mux.HandleFunc("GET /api/applications", h.applications)
	mux.HandleFunc("POST /api/chat", h.chatReply)
	mux.HandleFunc("POST /api/submit", h.submit)
	mux.HandleFunc("POST /api/event/{id}/status", h.updateStatus)
	return h.logRequests(mux)
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) checkConflict(w http.ResponseWriter, r *http.Request) {
	var req contract.ConflictRequest
	if !h.decode(w, r, &req) {
		return
	}
	conflict, err := h.bookings.CheckConflict(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contract.ConflictResponse{Conflict: &conflict})
}

func (h *handler) events(w http.ResponseWriter, r *http.Request) {
	feed, err := h.bookings.Feed(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, feed)
}

func (h *handler) applications(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	apps, err := h.bookings.Applications(r.Context(), q.Get("q"), q.Get("status"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, apps)
}

func (h *handler) chatReply(w http.ResponseWriter, r *http.Request) {
	var req contract.ChatRequest
	if !h.decode(w, r, &req) {
		return
	}
	reply, err := h.chat.Reply(r.Context(), req.Message)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contract.ChatResponse{Reply: reply})
}

func (h *handler) submit(w http.ResponseWriter, r *http.Request) {
	var req contract.SubmitRequest
	if !h.decode(w, r, &req) {
		return
	}
	resp, err := h.bookings.Submit(r.Context(), req.Fields)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req contract.StatusRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.bookings.UpdateStatus(r.Context(), r.PathValue("id"), req.Status); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contract.StatusResponse{OK: true})
}

// decode reads a JSON body into v. An empty body leaves v zero.
func (h *handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	writeJSON(w, http.StatusBadRequest, contract.StatusResponse{Error: "invalid JSON body"})
	return false
}

func (h *handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeJSON(w, status, contract.StatusResponse{Error: "internal error"})
		return
	}
	writeJSON(w, status, contract.StatusResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidStatus), errors.Is(err, service.ErrInvalidSubmission):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (h *handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		h.logger.InfoContext(r.Context(), "http_request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
