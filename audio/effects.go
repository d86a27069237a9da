package audio

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/lixenwraith/kcc/parameter"
)

// WaveType selects the oscillator shape
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
)

func (w WaveType) sample(phase float64) float64 {
	if w == WaveSquare {
		if phase < 0.5 {
			return 1
		}
		return -1
	}
	return math.Sin(2 * math.Pi * phase)
}

// oscillator emits a fixed number of samples of one periodic wave
type oscillator struct {
	wave      WaveType
	step      float64
	phase     float64
	remaining int
}

// NewOscillator renders freq for duration at rate
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		wave:      wave,
		step:      freq / float64(rate),
		remaining: rate.N(duration),
	}
}

func (o *oscillator) Stream(samples [][2]float64) (int, bool) {
	if o.remaining <= 0 {
		return 0, false
	}
	n := min(len(samples), o.remaining)
	for i := range n {
		v := o.wave.sample(o.phase)
		samples[i] = [2]float64{v, v}
		_, o.phase = math.Modf(o.phase + o.step)
	}
	o.remaining -= n
	return n, true
}

func (o *oscillator) Err() error { return nil }

// envelope applies linear attack and release to a stream of known length
type envelope struct {
	streamer beep.Streamer
	position int
	attack   int
	release  int
	total    int
}

// NewEnvelope shapes s with a linear attack and release
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	total := rate.N(duration)
	att := min(rate.N(attack), total)
	rel := min(rate.N(release), total-att)
	return &envelope{
		streamer: s,
		attack:   att,
		release:  rel,
		total:    total,
	}
}

func (e *envelope) gain() float64 {
	switch {
	case e.position < e.attack:
		return float64(e.position) / float64(e.attack)
	case e.release > 0 && e.position >= e.total-e.release:
		return float64(e.total-e.position) / float64(e.release)
	default:
		return 1
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		g := e.gain()
		samples[i][0] *= g
		samples[i][1] *= g
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume applies linear gain; zero is silent since log2(0) is -Inf
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// NewContactCue is a short low thud: a sine with a quiet square overtone
func NewContactCue(volume float64, rate beep.SampleRate) beep.Streamer {
	d := parameter.ContactCueDuration
	body := NewEnvelope(NewOscillator(parameter.ContactCueFrequency, d, WaveSine, rate), d, parameter.ContactCueAttack, parameter.ContactCueRelease, rate)
	edge := NewEnvelope(NewOscillator(2*parameter.ContactCueFrequency, d, WaveSquare, rate), d, parameter.ContactCueAttack, parameter.ContactCueRelease, rate)

	return newVolume(beep.Mix(newVolume(body, 0.8), newVolume(edge, 0.2)), volume)
}

// NewToggleCue is a two-note rising chirp
func NewToggleCue(volume float64, rate beep.SampleRate) beep.Streamer {
	half := parameter.ToggleCueDuration / 2
	n1 := NewEnvelope(NewOscillator(parameter.ToggleCueFrequency, half, WaveSine, rate), half, parameter.ToggleCueAttack, half/2, rate)
	n2 := NewEnvelope(NewOscillator(parameter.ToggleCueFrequency*1.5, half, WaveSine, rate), half, parameter.ToggleCueAttack, half/2, rate)

	return newVolume(beep.Seq(n1, n2), volume)
}

// NewCue returns the streamer for a cue type, nil if unknown
func NewCue(cue CueType, volume float64, rate beep.SampleRate) beep.Streamer {
	switch cue {
	case CueContact:
		return NewContactCue(volume, rate)
	case CueToggle:
		return NewToggleCue(volume, rate)
	default:
		return nil
	}
}

// EncodePCM drains s into interleaved signed 16-bit little-endian frames
func EncodePCM(s beep.Streamer) []byte {
	var out []byte
	buf := make([][2]float64, 512)
	frame := make([]byte, parameter.AudioBytesPerFrame)

	for {
		n, ok := s.Stream(buf)
		for i := 0; i < n; i++ {
			for ch := 0; ch < parameter.AudioChannels; ch++ {
				v := max(-1, min(1, buf[i][ch]))
				binary.LittleEndian.PutUint16(frame[ch*2:], uint16(int16(v*math.MaxInt16)))
			}
			out = append(out, frame...)
		}
		if !ok {
			return out
		}
	}
}
