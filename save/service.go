package save

import (
	"errors"
	"sync"

	"go.uber.org/zap"
)

// ErrDisabled is returned by Service.Store when no save path is configured
var ErrDisabled = errors.New("saving disabled")

// Service opens the save store on Start and closes it on Stop
type Service struct {
	mu    sync.Mutex
	path  string
	log   *zap.Logger
	store *Store
}

// NewService creates a save service
func NewService(log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{log: log}
}

// Name implements service.Service
func (s *Service) Name() string { return "save" }

// Dependencies implements service.Service
func (s *Service) Dependencies() []string { return nil }

// Init implements service.Service
// args[0]: string database path, empty disables saving
func (s *Service) Init(args ...any) error {
	if len(args) > 0 {
		if path, ok := args[0].(string); ok {
			s.path = path
		}
	}
	return nil
}

// Start implements service.Service
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.path == "" {
		s.log.Info("save store disabled")
		return nil
	}
	st, err := Open(s.path)
	if err != nil {
		return err
	}
	s.store = st
	s.log.Info("save store opened", zap.String("path", s.path))
	return nil
}

// Stop implements service.Service
func (s *Service) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store == nil {
		return nil
	}
	err := s.store.Close()
	s.store = nil
	return err
}

// Store returns the open store
func (s *Service) Store() (*Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store == nil {
		return nil, ErrDisabled
	}
	return s.store, nil
}
