package ptsapi

import (
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"

	"github.com/iptsd/iptsd-core/internal/config"
	"github.com/iptsd/iptsd-core/internal/contact"
	"github.com/iptsd/iptsd-core/internal/decoder"
	"github.com/iptsd/iptsd-core/internal/httputil"
	"github.com/iptsd/iptsd-core/internal/timeutil"
)

// Server answers status and debug HTTP requests about a running
// daemon. It implements pipeline.EventSink so it can be teed in
// alongside a ptsrpc.Server or sessionlog.Session to observe the same
// events without coupling those packages to each other.
type Server struct {
	cfg       *config.Config
	clock     timeutil.Clock
	startedAt time.Time

	mu          sync.RWMutex
	lastFrame   contact.Frame
	lastStylus  decoder.StylusEvent
	haveStylus  bool
	frameCount  atomic.Uint64
	stylusCount atomic.Uint64
}

// NewServer creates a Server reporting on the given configuration.
func NewServer(cfg *config.Config) *Server {
	return NewServerWithClock(cfg, timeutil.RealClock{})
}

// NewServerWithClock creates a Server using clock for its uptime
// accounting, so tests can control elapsed time deterministically.
func NewServerWithClock(cfg *config.Config, clock timeutil.Clock) *Server {
	return &Server{cfg: cfg, clock: clock, startedAt: clock.Now()}
}

// EmitContacts implements pipeline.EventSink.
func (s *Server) EmitContacts(frame contact.Frame) {
	s.mu.Lock()
	s.lastFrame = frame.Clone()
	s.mu.Unlock()
	s.frameCount.Add(1)
}

// EmitStylus implements decoder.StylusSink.
func (s *Server) EmitStylus(ev decoder.StylusEvent) {
	s.mu.Lock()
	s.lastStylus = ev
	s.haveStylus = true
	s.mu.Unlock()
	s.stylusCount.Add(1)
}

// Router builds the HTTP route table. Callers may mount it directly or
// wrap it with additional middleware before serving.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(loggingMiddleware)
	r.HandleFunc("/healthz", s.healthz).Methods(http.MethodGet)
	r.HandleFunc("/readyz", s.readyz).Methods(http.MethodGet)
	r.HandleFunc("/api/config", s.showConfig).Methods(http.MethodGet)
	r.HandleFunc("/api/stats", s.showStats).Methods(http.MethodGet)
	r.HandleFunc("/api/last_frame", s.showLastFrame).Methods(http.MethodGet)
	r.HandleFunc("/api/last_stylus", s.showLastStylus).Methods(http.MethodGet)
	return r
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	httputil.WriteJSON(w, status, v)
}

func (s *Server) writeJSONError(w http.ResponseWriter, status int, msg string) {
	httputil.WriteJSONError(w, status, msg)
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (s *Server) readyz(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	ready := s.frameCount.Load() > 0
	s.mu.RUnlock()
	if !ready {
		s.writeJSONError(w, http.StatusServiceUnavailable, "no contact frames processed yet")
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) showConfig(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"activation_threshold":         s.cfg.GetActivationThreshold(),
		"cluster_membership_threshold": s.cfg.GetClusterMembershipThreshold(),
		"min_cluster_size":             s.cfg.GetMinClusterSize(),
		"orientation_normalized":       s.cfg.GetOrientationNormalized(),
		"max_movement_per_frame":       s.cfg.GetMaxMovementPerFrame(),
		"temporal_window":              s.cfg.GetTemporalWindow(),
		"temporal_checking_enabled":    s.cfg.GetTemporalCheckingEnabled(),
		"circular_aspect_ratio":        s.cfg.GetCircularAspectRatio(),
	})
}

func (s *Server) showStats(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"uptime_seconds": s.clock.Since(s.startedAt).Seconds(),
		"frames_emitted": s.frameCount.Load(),
		"stylus_emitted": s.stylusCount.Load(),
	})
}

func (s *Server) showLastFrame(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	frame := s.lastFrame.Clone()
	s.mu.RUnlock()
	if frame == nil {
		s.writeJSONError(w, http.StatusNotFound, "no contact frame recorded yet")
		return
	}
	s.writeJSON(w, http.StatusOK, frame)
}

func (s *Server) showLastStylus(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	ev, ok := s.lastStylus, s.haveStylus
	s.mu.RUnlock()
	if !ok {
		s.writeJSONError(w, http.StatusNotFound, "no stylus event recorded yet")
		return
	}
	s.writeJSON(w, http.StatusOK, ev)
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		diagf("%s %s -> %s in %s", r.Method, r.URL.Path, strconv.Itoa(lrw.statusCode), time.Since(start))
	})
}
