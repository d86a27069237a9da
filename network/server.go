package network

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"sync/atomic"

	"github.com/lixenwraith/kcc/core"
)

// Server exposes a Hub over HTTP
type Server struct {
	config   *Config
	hub      *Hub
	http     *http.Server
	listener net.Listener

	running atomic.Bool
}

// NewServer creates a stopped feed server
func NewServer(cfg *Config) *Server {
	hub := NewHub(cfg)
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, hub)

	return &Server{
		config: cfg,
		hub:    hub,
		http:   &http.Server{Handler: mux},
	}
}

// Start binds the listen address and serves in the background
func (s *Server) Start() error {
	if !s.running.CompareAndSwap(false, true) {
		return nil // Already running
	}

	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		s.running.Store(false)
		return err
	}
	s.listener = ln
	log.Printf("[network] pose feed on ws://%s%s", ln.Addr(), s.config.Path)

	core.Go(func() {
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("[network] serve: %v", err)
		}
	})
	return nil
}

// Addr returns the bound address, empty before Start
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Publish broadcasts a pose frame to all clients
func (s *Server) Publish(frame PoseFrame) {
	if !s.running.Load() {
		return
	}
	if err := s.hub.Broadcast(frame); err != nil {
		log.Printf("[network] encode frame: %v", err)
	}
}

// Name implements service.Service
func (s *Server) Name() string {
	return "feed"
}

// Dependencies implements service.Service
func (s *Server) Dependencies() []string {
	return nil
}

// Hub returns the underlying subscriber hub
func (s *Server) Hub() *Hub {
	return s.hub
}

// Stop closes clients and shuts the HTTP server down within the configured timeout
func (s *Server) Stop() error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}

	s.hub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	return s.http.Shutdown(ctx)
}
