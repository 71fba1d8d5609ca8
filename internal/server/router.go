package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/loykin/procpresence/internal/metrics"
	"github.com/loykin/procpresence/internal/watch"
	"github.com/prometheus/client_golang/prometheus"
)

// Router exposes the watcher state over HTTP.
// Endpoints:
//
//	GET {basePath}/status   current Status as JSON
//	GET {basePath}/healthz  200 while the loop is sampling
//	GET {basePath}/metrics  Prometheus exposition
//
// basePath may be empty or start with '/'; no trailing slash.
type Router struct {
	board    *watch.Board
	gatherer prometheus.Gatherer
	basePath string
}

// NewRouter builds a Router over board. A nil gatherer serves the default registry.
func NewRouter(board *watch.Board, gatherer prometheus.Gatherer, basePath string) *Router {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &Router{board: board, gatherer: gatherer, basePath: sanitizeBase(basePath)}
}

// Handler returns an http.Handler powered by gin that can be mounted in any server/mux.
func (r *Router) Handler() http.Handler {
	g := gin.New()
	g.Use(gin.Recovery())
	group := g.Group(r.basePath)
	group.GET("/status", r.handleStatus)
	group.GET("/healthz", r.handleHealth)
	group.GET("/metrics", gin.WrapH(metrics.HandlerFor(r.gatherer)))
	return g
}

// NewServer binds addr and serves h on it in the background. Bind errors are
// returned; the returned server's Addr is the bound address. Callers stop it
// with Shutdown or Close.
func NewServer(addr string, h http.Handler) (*http.Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	server := &http.Server{
		Addr:              ln.Addr().String(),
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("status server stopped", slog.String("addr", server.Addr), slog.Any("error", err))
		}
	}()
	return server, nil
}

type errorResp struct {
	Error string `json:"error"`
}

type healthResp struct {
	OK           bool      `json:"ok"`
	Cycle        int       `json:"cycle"`
	LastSampleAt time.Time `json:"last_sample_at"`
}

func (r *Router) handleStatus(c *gin.Context) {
	writeJSON(c, http.StatusOK, r.board.Snapshot())
}

// handleHealth reports unhealthy until the first sample has been taken.
func (r *Router) handleHealth(c *gin.Context) {
	st := r.board.Snapshot()
	if st.LastSampleAt.IsZero() {
		writeJSON(c, http.StatusServiceUnavailable, errorResp{Error: "no sample taken yet"})
		return
	}
	writeJSON(c, http.StatusOK, healthResp{OK: true, Cycle: st.Cycle, LastSampleAt: st.LastSampleAt})
}
