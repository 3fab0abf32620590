package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"

	"github.com/lixenwraith/scenekit/core"
	"github.com/lixenwraith/scenekit/parameter"
)

// Player is the fire-and-forget audio surface used by the scheduler
type Player interface {
	PlaySound(id core.SoundID)
	PlayMusic(id core.MusicID)
}

// Silent discards all audio
type Silent struct{}

func (Silent) PlaySound(core.SoundID) {}
func (Silent) PlayMusic(core.MusicID) {}

// SpeakerPlayer mixes synthesised effects and music through the beep speaker
type SpeakerPlayer struct {
	mu     sync.Mutex
	cfg    *Config
	log    *zap.Logger
	mixer  *beep.Mixer
	music  *beep.Ctrl
	theme  core.MusicID
	last   map[core.SoundID]time.Time
	themes map[core.MusicID]*beep.Buffer
	now    func() time.Time
	open   bool
}

// NewSpeakerPlayer creates a player, Open must succeed before sound is heard
func NewSpeakerPlayer(cfg *Config, log *zap.Logger) *SpeakerPlayer {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &SpeakerPlayer{
		cfg:    cfg,
		log:    log.Named("audio"),
		mixer:  &beep.Mixer{},
		last:   make(map[core.SoundID]time.Time),
		themes: make(map[core.MusicID]*beep.Buffer),
		now:    time.Now,
	}
}

// Open initialises the speaker and starts the mixer
func (p *SpeakerPlayer) Open() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.open {
		return nil
	}
	rate := beep.SampleRate(p.cfg.SampleRate)
	if err := speaker.Init(rate, rate.N(parameter.AudioBufferDuration)); err != nil {
		return err
	}
	speaker.Play(p.mixer)
	p.open = true
	return nil
}

// Close stops all audio and releases the device
func (p *SpeakerPlayer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.open {
		return
	}
	speaker.Clear()
	speaker.Close()
	p.open = false
}

// PlaySound mixes a one-shot effect, repeats inside MinSoundGap are dropped
func (p *SpeakerPlayer) PlaySound(id core.SoundID) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.cfg.Enabled || !p.open {
		return
	}
	now := p.now()
	if t, ok := p.last[id]; ok && now.Sub(t) < parameter.MinSoundGap {
		return
	}
	p.last[id] = now

	s := SoundEffect(id, p.cfg)
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

// PlayMusic switches the looping theme, zero stops music
func (p *SpeakerPlayer) PlayMusic(id core.MusicID) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if id == p.theme {
		return
	}
	p.theme = id
	if !p.open {
		return
	}

	speaker.Lock()
	if p.music != nil {
		p.music.Streamer = nil
		p.music = nil
	}
	speaker.Unlock()

	if id == 0 || !p.cfg.Enabled {
		return
	}

	buf, ok := p.themes[id]
	if !ok {
		var err error
		buf, err = MusicPhrase(id, p.cfg)
		if err != nil {
			p.log.Warn("music synthesis failed", zap.Int("music", int(id)), zap.Error(err))
			return
		}
		p.themes[id] = buf
	}

	loop := beep.Loop(-1, buf.Streamer(0, buf.Len()))
	ctrl := &beep.Ctrl{Streamer: newVolume(loop, p.cfg.MusicVolume*p.cfg.MasterVolume)}
	speaker.Lock()
	p.music = ctrl
	p.mixer.Add(ctrl)
	speaker.Unlock()
}

// Theme returns the music id currently requested
func (p *SpeakerPlayer) Theme() core.MusicID {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.theme
}
