package audio

import (
	"github.com/lixenwraith/scenekit/parameter"
)

// Config holds mixer levels, volumes are linear 0.0-1.0
type Config struct {
	Enabled      bool
	MasterVolume float64
	SFXVolume    float64
	MusicVolume  float64
	SampleRate   int
}

// DefaultConfig returns the built-in levels
func DefaultConfig() *Config {
	return &Config{
		Enabled:      true,
		MasterVolume: 1.0,
		SFXVolume:    parameter.DefaultSFXVolume,
		MusicVolume:  parameter.DefaultMusicVolume,
		SampleRate:   parameter.AudioSampleRate,
	}
}
