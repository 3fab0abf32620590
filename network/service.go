package network

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/scenekit/core"
	"github.com/lixenwraith/scenekit/engine"
	"github.com/lixenwraith/scenekit/status"
)

const shutdownTimeout = 2 * time.Second

// Service serves the observer feed and a metrics endpoint over HTTP
// Disabled when no address is configured
type Service struct {
	mu     sync.Mutex
	addr   string
	reg    *status.Registry
	log    *zap.Logger
	feed   *Feed
	server *http.Server
	ln     net.Listener
}

// NewService creates a feed service
func NewService(log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{log: log}
}

// Name implements service.Service
func (s *Service) Name() string { return "feed" }

// Dependencies implements service.Service
func (s *Service) Dependencies() []string { return nil }

// Init implements service.Service
// args[0]: string listen address, empty disables the feed
// args[1]: *status.Registry (optional)
func (s *Service) Init(args ...any) error {
	if len(args) > 0 {
		if addr, ok := args[0].(string); ok {
			s.addr = addr
		}
	}
	if len(args) > 1 {
		if reg, ok := args[1].(*status.Registry); ok {
			s.reg = reg
		}
	}
	if s.reg == nil {
		s.reg = status.NewRegistry()
	}
	s.feed = NewFeed(1, s.reg, s.log)
	return nil
}

// Start implements service.Service
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.addr == "" {
		return nil
	}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("feed listen %s: %w", s.addr, err)
	}
	mux := http.NewServeMux()
	mux.Handle("/feed", s.feed)
	mux.HandleFunc("/status", s.serveStatus)

	s.ln = ln
	s.server = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	srv := s.server
	core.Go(func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("feed server stopped", zap.Error(err))
		}
	})
	s.log.Info("observer feed listening", zap.String("addr", ln.Addr().String()))
	return nil
}

// Stop implements service.Service
func (s *Service) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.feed != nil {
		s.feed.Close()
	}
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := s.server.Shutdown(ctx)
	s.server = nil
	return err
}

// Addr returns the bound listen address, empty when not serving
func (s *Service) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil || s.server == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// Observer returns the feed to attach to the scheduler, nil when disabled
func (s *Service) Observer() engine.Observer {
	if s.addr == "" || s.feed == nil {
		return nil
	}
	return s.feed
}

func (s *Service) serveStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.reg.Snapshot()); err != nil {
		s.log.Warn("status encode failed", zap.Error(err))
	}
}
