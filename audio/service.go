package audio

import (
	"sync/atomic"

	"go.uber.org/zap"
)

// Service wraps SpeakerPlayer as a hub-managed service
// Degrades to silence when no audio device is available
type Service struct {
	cfg      *Config
	log      *zap.Logger
	player   *SpeakerPlayer
	disabled atomic.Bool
}

// NewService creates an audio service
func NewService(log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{cfg: DefaultConfig(), log: log}
}

// Name implements service.Service
func (s *Service) Name() string { return "audio" }

// Dependencies implements service.Service
func (s *Service) Dependencies() []string { return nil }

// Init implements service.Service
// args[0]: *Config (optional)
func (s *Service) Init(args ...any) error {
	if len(args) > 0 {
		if cfg, ok := args[0].(*Config); ok && cfg != nil {
			s.cfg = cfg
		}
	}
	if !s.cfg.Enabled {
		s.disabled.Store(true)
	}
	s.player = NewSpeakerPlayer(s.cfg, s.log)
	return nil
}

// Start implements service.Service, a missing device is not an error
func (s *Service) Start() error {
	if s.disabled.Load() {
		return nil
	}
	if err := s.player.Open(); err != nil {
		s.log.Warn("audio unavailable, continuing silent", zap.Error(err))
		s.disabled.Store(true)
	}
	return nil
}

// Stop implements service.Service
func (s *Service) Stop() error {
	if s.player != nil {
		s.player.Close()
	}
	return nil
}

// Player returns the active player, Silent when disabled
func (s *Service) Player() Player {
	if s.disabled.Load() || s.player == nil {
		return Silent{}
	}
	return s.player
}

// Enabled reports whether sound reaches a device
func (s *Service) Enabled() bool {
	return !s.disabled.Load() && s.player != nil
}
