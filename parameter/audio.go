package parameter

import "time"

// Audio Hardware Settings
const (
	AudioSampleRate = 44100
	AudioChannels   = 2
)

// Audio Engine Timing
const (
	// AudioBufferDuration determines latency and mixer tick rate
	AudioBufferDuration = 50 * time.Millisecond

	// MinSoundGap drops repeats of the same effect inside this window
	MinSoundGap = 50 * time.Millisecond
)

// Effect Synthesis
const (
	EffectDuration     = 120 * time.Millisecond
	EffectAttack       = 5 * time.Millisecond
	EffectRelease      = 60 * time.Millisecond
	EffectBaseFreq     = 220.0 // Hz
	EffectFreqStep     = 55.0  // Hz per sound id
	EffectFreqSpread   = 16    // ids wrap after this many pitches
	DefaultSFXVolume   = 0.6
	DefaultMusicVolume = 0.35
)

// Music Synthesis
const (
	MusicNoteDuration = 250 * time.Millisecond
	MusicNoteAttack   = 10 * time.Millisecond
	MusicNoteRelease  = 120 * time.Millisecond
	MusicRootFreq     = 110.0 // Hz
	MusicPhraseNotes  = 8
)
