// Package admin exposes engine statistics over an optional h2c side
// server. It lives entirely off the data plane: the hand-rolled
// HTTP/1.1 engine never sees these requests.
package admin

import (
	"net/http"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/djarek/fastbeast/core"
	"github.com/djarek/fastbeast/core/logx"
)

// Server serves /stats (JSON), /stats/text, and /healthz.
type Server struct {
	addr   string
	engine *core.Engine
	server *http.Server
}

// NewServer creates an admin server for engine on addr.
func NewServer(addr string, engine *core.Engine) *Server {
	s := &Server{
		addr:   addr,
		engine: engine,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/stats", s.handleStats)
	mux.HandleFunc("/stats/text", s.handleStatsText)
	mux.HandleFunc("/healthz", s.handleHealthz)

	h2 := &http2.Server{
		MaxConcurrentStreams: 16,
		IdleTimeout:          120 * time.Second,
	}
	s.server = &http.Server{
		Addr: addr,
		// h2c: plaintext HTTP/2 with an HTTP/1.1 fallback, so both
		// curl --http2-prior-knowledge and plain curl work.
		Handler: h2c.NewHandler(mux, h2),
	}
	return s
}

// Handler returns the h2c-wrapped handler, for serving through an
// externally managed listener.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start launches the server in the background.
func (s *Server) Start() {
	go func() {
		logx.Infof("admin server listening on %s (h2c)", s.addr)
		if err := s.server.ListenAndServe(); err != nil {
			logx.Errorf("admin server: %v", err)
		}
	}()
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(s.engine.StatsJSON()))
}

func (s *Server) handleStatsText(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte(s.engine.StatsText()))
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte("ok\n"))
}
