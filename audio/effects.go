package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"

	"github.com/lixenwraith/scenekit/core"
	"github.com/lixenwraith/scenekit/parameter"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// oscillator generates a raw wave for a fixed number of samples
type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
}

// NewOscillator creates a finite oscillator
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveSaw:
			val = 2.0 * (o.phase - 0.5)
		case WaveNoise:
			val = rand.Float64()*2 - 1
		}
		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies linear attack and release to a stream
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	totalSamples   int
}

// NewEnvelope shapes s with attack and release over duration
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		streamer:       s,
		attackSamples:  rate.N(attack),
		releaseSamples: rate.N(release),
		totalSamples:   rate.N(duration),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	releaseStart := e.totalSamples - e.releaseSamples

	for i := 0; i < n; i++ {
		if e.position >= e.totalSamples {
			return i, i > 0
		}
		vol := 1.0
		if e.attackSamples > 0 && e.position < e.attackSamples {
			vol = float64(e.position) / float64(e.attackSamples)
		}
		if e.releaseSamples > 0 && e.position >= releaseStart {
			vol = math.Max(0, float64(e.totalSamples-e.position)/float64(e.releaseSamples))
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume wraps s in a linear volume, zero is silent
// math.Log2(0) is -Inf so silence is flagged explicitly
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// SoundEffect synthesises the effect for a sound id
// Ids map onto a pitch ladder and cycle through wave shapes
func SoundEffect(id core.SoundID, cfg *Config) beep.Streamer {
	rate := beep.SampleRate(cfg.SampleRate)
	n := int(id)
	if n < 0 {
		n = -n
	}
	freq := parameter.EffectBaseFreq + parameter.EffectFreqStep*float64(n%parameter.EffectFreqSpread)
	wave := WaveType(n % 4)

	osc := NewOscillator(freq, parameter.EffectDuration, wave, rate)
	shaped := NewEnvelope(osc, parameter.EffectDuration, parameter.EffectAttack, parameter.EffectRelease, rate)

	// Noise is harsh at full level
	level := 1.0
	if wave == WaveNoise {
		level = 0.4
	}
	return newVolume(shaped, level*cfg.SFXVolume*cfg.MasterVolume)
}

// minor pentatonic offsets in semitones
var pentatonic = [...]int{0, 3, 5, 7, 10, 12, 15, 17}

// MusicPhrase renders a short looping theme for a music id into a buffer
// Each theme walks the pentatonic ladder in an order derived from its id
func MusicPhrase(id core.MusicID, cfg *Config) (*beep.Buffer, error) {
	rate := beep.SampleRate(cfg.SampleRate)
	format := beep.Format{SampleRate: rate, NumChannels: parameter.AudioChannels, Precision: 2}
	buf := beep.NewBuffer(format)

	seed := int(id)
	for i := 0; i < parameter.MusicPhraseNotes; i++ {
		step := pentatonic[(seed*(i+1)+i*i)%len(pentatonic)]
		freq := parameter.MusicRootFreq * math.Pow(2, float64(step)/12)

		tone, err := generators.SineTone(rate, freq)
		if err != nil {
			return nil, err
		}
		note := beep.Take(rate.N(parameter.MusicNoteDuration), tone)
		buf.Append(NewEnvelope(note, parameter.MusicNoteDuration, parameter.MusicNoteAttack, parameter.MusicNoteRelease, rate))
	}
	return buf, nil
}
