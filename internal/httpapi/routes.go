package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/DoyleJ11/open-stage-timer/internal/config"
	"github.com/DoyleJ11/open-stage-timer/internal/session"
	"github.com/DoyleJ11/open-stage-timer/internal/ws"
)

func SetupRoutes(s *session.Session, logger *zap.Logger, cfg config.Config) http.Handler {
	log := logger.Named("http")
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}).Handler)

	r.Get("/", Root)
	r.Get("/healthz", Healthz)
	r.Get("/state", State(s, log))
	r.Get("/ws", ws.Handler(s, logger, cfg.OriginPatterns()))
	return r
}

// requestLogger logs one line per request. The wrapped writer still
// supports Hijack, so WebSocket upgrades pass through.
func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Debug("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("elapsed", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())))
		})
	}
}
