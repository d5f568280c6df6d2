package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/halver/corebridge/internal/bridge"
)

// Router exposes the bridge over a loopback HTTP control surface.
// Endpoints:
//
//	GET  {basePath}/status      current node status snapshot
//	GET  {basePath}/healthz     liveness
//	POST {basePath}/node/start  forward a start signal
//	POST {basePath}/node/stop   forward a stop signal
//	POST {basePath}/node/exit   forward a stop-to-exit signal
//	POST {basePath}/service/start   register the background service
//	POST {basePath}/service/stop    unregister the background service
//	POST {basePath}/shutdown    begin process teardown
//
// Node commands are forwarded unconditionally; eligibility lives in the node.
type Router struct {
	b        *bridge.Bridge
	basePath string
}

// NewRouter constructs a Router with a configurable basePath.
// Example basePath: "/api" results in /api/status, /api/node/start, etc.
func NewRouter(b *bridge.Bridge, basePath string) *Router {
	return &Router{b: b, basePath: sanitizeBase(basePath)}
}

// Handler returns an http.Handler powered by gin that can be mounted in any
// server or mux.
func (r *Router) Handler() http.Handler {
	g := gin.New()
	g.Use(gin.Recovery())
	group := g.Group(r.basePath)
	group.GET("/status", r.handleStatus)
	group.GET("/healthz", r.handleHealthz)
	group.POST("/node/start", r.handleSignal(bridge.RequestStart))
	group.POST("/node/stop", r.handleSignal(bridge.RequestStop))
	group.POST("/node/exit", r.handleSignal(bridge.RequestStopThenExit))
	group.POST("/service/start", r.handleServiceStart)
	group.POST("/service/stop", r.handleServiceStop)
	group.POST("/shutdown", r.handleShutdown)
	return g
}

// NewServer starts a standalone HTTP server on addr using this router.
func NewServer(addr, basePath string, b *bridge.Bridge) (*http.Server, error) {
	r := NewRouter(b, basePath)
	server := &http.Server{
		Addr:              addr,
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() { _ = server.ListenAndServe() }()
	return server, nil
}

type errorResp struct {
	Error string `json:"error"`
}

type okResp struct {
	OK bool `json:"ok"`
}

type statusResp struct {
	Status     any    `json:"status"`
	Registered bool   `json:"registered"`
	Shutdown   string `json:"shutdown"`
}

func (r *Router) handleStatus(c *gin.Context) {
	writeJSON(c, http.StatusOK, statusResp{
		Status:     r.b.Status(),
		Registered: r.b.Registered(),
		Shutdown:   r.b.ShutdownState().String(),
	})
}

func (r *Router) handleHealthz(c *gin.Context) {
	writeJSON(c, http.StatusOK, okResp{OK: true})
}

func (r *Router) handleSignal(s bridge.Signal) gin.HandlerFunc {
	return func(c *gin.Context) {
		r.b.Submit(s)
		writeJSON(c, http.StatusAccepted, okResp{OK: true})
	}
}

func (r *Router) handleServiceStart(c *gin.Context) {
	if err := r.b.Start(); err != nil {
		writeJSON(c, http.StatusConflict, errorResp{Error: err.Error()})
		return
	}
	writeJSON(c, http.StatusOK, okResp{OK: true})
}

func (r *Router) handleServiceStop(c *gin.Context) {
	r.b.StopService()
	writeJSON(c, http.StatusOK, okResp{OK: true})
}

func (r *Router) handleShutdown(c *gin.Context) {
	// The response must reach the client before the terminal action kills
	// the process, so teardown runs off the request goroutine.
	go r.b.BeginShutdown(bridge.ReasonHostDestroying)
	writeJSON(c, http.StatusAccepted, okResp{OK: true})
}
