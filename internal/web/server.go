package web

import (
	"net/http"

	"discmeta/internal/config"
	"discmeta/internal/freedb"
	"discmeta/internal/logger"
	"discmeta/internal/transport"
)

// Server exposes freedb lookups over HTTP and websocket. Every request or
// connection gets its own Session.
type Server struct {
	config       config.Config
	logger       *logger.Logger
	newTransport func() freedb.Transport
}

func NewServer(cfg config.Config, log *logger.Logger) *Server {
	return &Server{
		config: cfg,
		logger: log,
		newTransport: func() freedb.Transport {
			return transport.New(cfg.ServerURL, cfg.CGIPath, cfg.Timeout())
		},
	}
}

func (s *Server) newSession() *freedb.Session {
	return freedb.NewSession(s.config, s.newTransport(), s.logger)
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/lookup", s.handleLookup)
	mux.HandleFunc("/ws", s.handleWebSocket)

	return s.loggingMiddleware(mux)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("%s %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
