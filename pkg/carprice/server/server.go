package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/nekruzvatanshoev/carprice/pkg/carprice/config"
	"github.com/nekruzvatanshoev/carprice/pkg/carprice/metrics"
	"github.com/nekruzvatanshoev/carprice/pkg/carprice/predict"
)

// RequestIDHeader carries the id every request is logged under.
const RequestIDHeader = "X-Request-ID"

// NewHTTPServer returns a new HTTP server
func NewHTTPServer(cfg config.ServerConfig, cycle *predict.Cycle, log *zap.Logger) *http.Server {
	server := newHTTPServer(cycle, log)
	return &http.Server{
		Addr:         cfg.Address,
		Handler:      server.routes(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
}

type httpServer struct {
	log   *zap.Logger
	cycle *predict.Cycle
}

func newHTTPServer(cycle *predict.Cycle, log *zap.Logger) *httpServer {
	if log == nil {
		log = zap.NewNop()
	}
	return &httpServer{
		log:   log,
		cycle: cycle,
	}
}

func (h *httpServer) routes() http.Handler {
	r := mux.NewRouter()
	r.Use(h.requestLogger)
	r.HandleFunc("/", h.GetPage).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/predict", h.PostPredict).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/schema", h.GetSchema).Methods(http.MethodGet)
	r.HandleFunc("/healthz", h.GetHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	return r
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (h *httpServer) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.URL.Path
		if cur := mux.CurrentRoute(r); cur != nil {
			if tmpl, err := cur.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}
		metrics.HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()

		h.log.Info("request",
			zap.String("request_id", id),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
