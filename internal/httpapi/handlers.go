package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/DoyleJ11/open-stage-timer/internal/session"
)

const ServiceName = "open-stage-timer-backend"

const stateTimeout = 2 * time.Second

type rootResponse struct {
	OK      bool   `json:"ok"`
	Service string `json:"service"`
}

type stateResponse struct {
	Version int `json:"version"`
	session.State
}

func Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, rootResponse{OK: true, Service: ServiceName})
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// State serves the latest committed snapshot of every document.
func State(s *session.Session, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), stateTimeout)
		defer cancel()

		v, err := s.Current(ctx)
		switch {
		case errors.Is(err, session.ErrStopped):
			http.Error(w, "session stopped", http.StatusServiceUnavailable)
			return
		case err != nil:
			logger.Warn("state lookup failed", zap.Error(err))
			http.Error(w, "state unavailable", http.StatusGatewayTimeout)
			return
		}

		writeJSON(w, http.StatusOK, stateResponse{Version: v.Version, State: v.State})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
