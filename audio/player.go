package audio

import (
	"io"
	"log"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/kcc/core"
	"github.com/lixenwraith/kcc/engine"
	"github.com/lixenwraith/kcc/parameter"
)

// Config holds cue playback settings
type Config struct {
	Enabled bool
	Volume  float64
	// CueGap is the minimum spacing between two cues of the same type
	CueGap time.Duration
}

// DefaultConfig returns audio disabled at the default volume
func DefaultConfig() Config {
	return Config{
		Volume: parameter.AudioDefaultVolume,
		CueGap: parameter.AudioCueGap,
	}
}

// Player pipes pre-rendered cues to a system audio tool
// Play never blocks: cues are dropped when the queue is full or output has failed
type Player struct {
	config Config
	clock  engine.TimeProvider
	pcm    [cueTypeCount][]byte

	backend *BackendConfig
	cmd     *exec.Cmd
	output  io.WriteCloser

	queue  chan CueType
	stopCh chan struct{}

	mu   sync.Mutex
	last [cueTypeCount]time.Time

	running atomic.Bool
	muted   atomic.Bool
	silent  atomic.Bool
	played  atomic.Uint64
	dropped atomic.Uint64

	wg sync.WaitGroup
}

// NewPlayer renders every cue at the configured volume
func NewPlayer(cfg Config, clock engine.TimeProvider) *Player {
	p := &Player{
		config: cfg,
		clock:  clock,
		queue:  make(chan CueType, parameter.AudioQueueSize),
		stopCh: make(chan struct{}),
	}
	p.muted.Store(!cfg.Enabled)

	rate := beep.SampleRate(parameter.AudioSampleRate)
	for c := CueType(0); c < cueTypeCount; c++ {
		p.pcm[c] = EncodePCM(NewCue(c, cfg.Volume, rate))
	}
	return p
}

// Start launches the detected backend; without one the player runs silent
func (p *Player) Start() error {
	backend, err := DetectBackend()
	if err != nil {
		return p.runSilent("%v", err)
	}

	cmd := exec.Command(backend.Path, backend.Args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return p.runSilent("%s stdin pipe: %v", backend.Name, err)
	}
	if err := cmd.Start(); err != nil {
		stdin.Close()
		return p.runSilent("%s failed to start: %v", backend.Name, err)
	}

	p.backend = backend
	p.cmd = cmd
	log.Printf("[audio] backend %s", backend.Name)

	p.wg.Add(1)
	core.Go(p.monitorProcess)

	return p.StartWith(stdin)
}

func (p *Player) runSilent(format string, args ...any) error {
	log.Printf("[audio] "+format+", running silent", args...)
	p.silent.Store(true)
	p.running.Store(true)
	return nil
}

// StartWith plays into w instead of a detected backend
func (p *Player) StartWith(w io.WriteCloser) error {
	if !p.running.CompareAndSwap(false, true) {
		return nil
	}
	p.output = w

	p.wg.Add(1)
	core.Go(p.loop)
	return nil
}

// monitorProcess drops to silent mode when the backend exits
func (p *Player) monitorProcess() {
	defer p.wg.Done()
	if err := p.cmd.Wait(); err != nil && p.running.Load() {
		p.silent.Store(true)
	}
}

func (p *Player) loop() {
	defer p.wg.Done()
	for {
		select {
		case <-p.stopCh:
			return
		case cue := <-p.queue:
			if _, err := p.output.Write(p.pcm[cue]); err != nil {
				log.Printf("[audio] %v: %v, running silent", ErrPipeClosed, err)
				p.silent.Store(true)
				return
			}
			p.played.Add(1)
		}
	}
}

// Play queues cue unless muted, silent, rate-limited or the queue is full
func (p *Player) Play(cue CueType) bool {
	if cue < 0 || cue >= cueTypeCount {
		return false
	}
	if !p.running.Load() || p.muted.Load() || p.silent.Load() {
		return false
	}

	now := p.clock.Now()
	p.mu.Lock()
	if !p.last[cue].IsZero() && now.Sub(p.last[cue]) < p.config.CueGap {
		p.mu.Unlock()
		return false
	}
	p.last[cue] = now
	p.mu.Unlock()

	select {
	case p.queue <- cue:
		return true
	default:
		p.dropped.Add(1)
		return false
	}
}

// ToggleMute flips mute, returns true if now audible
func (p *Player) ToggleMute() bool {
	muted := !p.muted.Load()
	p.muted.Store(muted)
	return !muted
}

// IsMuted returns current mute state
func (p *Player) IsMuted() bool {
	return p.muted.Load()
}

// IsSilent reports whether output is unavailable
func (p *Player) IsSilent() bool {
	return p.silent.Load()
}

// Played returns cues written to the output
func (p *Player) Played() uint64 {
	return p.played.Load()
}

// Dropped returns cues discarded because the queue was full
func (p *Player) Dropped() uint64 {
	return p.dropped.Load()
}

// Name implements service.Service
func (p *Player) Name() string {
	return "audio"
}

// Dependencies implements service.Service
func (p *Player) Dependencies() []string {
	return nil
}

// Stop terminates the loop and the backend process
func (p *Player) Stop() error {
	if !p.running.CompareAndSwap(true, false) {
		return nil
	}
	close(p.stopCh)

	if p.output != nil {
		p.output.Close()
	}
	if p.cmd != nil && p.cmd.Process != nil {
		p.cmd.Process.Kill()
	}
	p.wg.Wait()
	return nil
}
