package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/kcc/audio"
	"github.com/lixenwraith/kcc/camera"
	"github.com/lixenwraith/kcc/config"
	"github.com/lixenwraith/kcc/controller"
	"github.com/lixenwraith/kcc/core"
	"github.com/lixenwraith/kcc/engine"
	"github.com/lixenwraith/kcc/input"
	"github.com/lixenwraith/kcc/level"
	"github.com/lixenwraith/kcc/network"
	"github.com/lixenwraith/kcc/parameter"
	"github.com/lixenwraith/kcc/render"
	"github.com/lixenwraith/kcc/replay"
	"github.com/lixenwraith/kcc/service"
)

var (
	playbackFlag = flag.String("playback", "", "Replay recorded velocities from file (.toml or .msgpack)")
	outFlag      = flag.String("out", parameter.DefaultReplayPath, "Write the session recording to file on exit")
	configFlag   = flag.String("config", "", "Config file (TOML)")
	levelFlag    = flag.String("level", "", "Level file (TOML), overrides config")
	keymapFlag   = flag.String("keymap", "", "Key binding overrides (TOML), overrides config")
	debugFlag    = flag.Bool("debug", false, "Write logs to logs/kcc.log")
	headlessFlag = flag.Bool("headless", false, "Run without a terminal and print final positions")
	framesFlag   = flag.Int("frames", parameter.HeadlessFrames, "Frames to run in headless mode")
	frameMsFlag  = flag.Int("frame-ms", 0, "Synthetic frame delta in headless mode, 0 uses frame_ms from config")
	serveFlag    = flag.String("serve", "", "Serve the websocket pose feed on address, overrides config")
	audioFlag    = flag.Bool("audio", false, "Enable contact and mode cues")
)

func main() {
	flag.Parse()

	logFile := setupLogging(*debugFlag)
	if logFile != nil {
		defer logFile.Close()
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "kcc: %v\n", err)
		if logFile != nil {
			logFile.Close()
		}
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if *configFlag != "" {
		var err error
		if cfg, err = config.Load(*configFlag); err != nil {
			return nil, err
		}
	}

	if *levelFlag != "" {
		cfg.Level = *levelFlag
	}
	if *keymapFlag != "" {
		cfg.Keymap = *keymapFlag
	}
	if *serveFlag != "" {
		cfg.Feed.Enabled = true
		cfg.Feed.Address = *serveFlag
	}
	if *audioFlag {
		cfg.Audio.Enabled = true
	}
	return cfg, cfg.Validate()
}

func loadLevel(path string) (*level.Level, error) {
	if path == "" {
		return level.Default(), nil
	}
	return level.Load(path)
}

func loadKeymap(path string) (*input.KeyTable, error) {
	base := input.DefaultKeyTable()
	if path == "" {
		return base, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keymap: %w", err)
	}
	override, err := input.LoadKeyConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return input.MergeKeyTable(base, override), nil
}

// loadPlayback reads a recording and rejects one sampled at a different tick rate
func loadPlayback(path string, tickHz int) (*replay.Recording, error) {
	rec, err := replay.Load(path)
	if err != nil {
		return nil, err
	}
	if rec.TickHz != tickHz {
		return nil, fmt.Errorf("%s: recorded at %d Hz, simulation runs at %d Hz", path, rec.TickHz, tickHz)
	}
	return rec, nil
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	lvl, err := loadLevel(cfg.Level)
	if err != nil {
		return err
	}
	scene, player, err := lvl.Build()
	if err != nil {
		return err
	}
	lo, hi := lvl.Extent(scene)
	log.Printf("[level] %s: %d obstacles, extent %v..%v", lvl.Name, scene.Len(), lo, hi)

	keymap, err := loadKeymap(cfg.Keymap)
	if err != nil {
		return err
	}

	var playback *replay.Recording
	if *playbackFlag != "" {
		if playback, err = loadPlayback(*playbackFlag, cfg.TickHz); err != nil {
			return err
		}
		log.Printf("[replay] loaded %d ticks from %s", playback.Len(), *playbackFlag)
	}

	opts := engine.Options{
		Tick:             cfg.TickDuration(),
		MaxTicksPerFrame: cfg.MaxTicksPerFrame,
		Mover:            cfg.Mover(),
		Scene:            scene,
		Bodies:           []*controller.Body{player},
	}

	if *headlessFlag {
		if playback != nil {
			opts.Input = playback
		}
		sim, err := engine.NewSimulation(opts)
		if err != nil {
			return err
		}
		delta := cfg.FrameInterval()
		if *frameMsFlag > 0 {
			delta = time.Duration(*frameMsFlag) * time.Millisecond
		}
		runHeadless(sim, *framesFlag, delta, os.Stdout)
		return nil
	}

	recording := replay.NewRecording()
	recording.TickHz = cfg.TickHz
	if err := runInteractive(cfg, opts, keymap, playback, recording); err != nil {
		return err
	}

	if playback == nil {
		if err := replay.Save(*outFlag, recording); err != nil {
			return err
		}
		fmt.Printf("recorded %d ticks to %s\n", recording.Len(), *outFlag)
	}
	return nil
}

func runInteractive(cfg *config.Config, opts engine.Options, keymap *input.KeyTable, playback, recording *replay.Recording) error {
	clock := engine.NewMonotonicTimeProvider()
	cam := camera.NewRotation()
	keys := input.NewKeyState(clock, cfg.KeyHold())

	if playback != nil {
		opts.Input = playback
	} else {
		opts.Input = input.NewLiveSource(keys, cam, input.Mapper{Speed: cfg.PlayerSpeed}, recording)
	}

	sim, err := engine.NewSimulation(opts)
	if err != nil {
		return err
	}
	if playback != nil {
		sim.SetMode(engine.SinglePulse)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	core.OnCrash(screen.Fini)
	defer screen.Fini()
	screen.EnableMouse()
	screen.EnableFocus()

	a := &app{
		screen:        screen,
		sim:           sim,
		viewer:        render.NewViewer(screen),
		cam:           cam,
		keys:          keys,
		keymap:        keymap,
		timer:         engine.NewFrameTimer(clock),
		frameInterval: cfg.FrameInterval(),
	}

	services, err := newServices(cfg, clock)
	if err != nil {
		return err
	}
	a.cues, a.feed = services.cues, services.feed
	if err := services.StartAll(); err != nil {
		return err
	}
	defer services.StopAll()

	a.loop()
	return nil
}

// optionalServices holds the enabled side subsystems on one lifecycle hub
type optionalServices struct {
	*service.Hub
	cues *audio.Player
	feed *network.Server
}

func newServices(cfg *config.Config, clock engine.TimeProvider) (*optionalServices, error) {
	s := &optionalServices{Hub: service.NewHub()}
	if cfg.Audio.Enabled {
		s.cues = audio.NewPlayer(audio.Config{
			Enabled: true,
			Volume:  cfg.Audio.Volume,
			CueGap:  parameter.AudioCueGap,
		}, clock)
		if err := s.Register(s.cues); err != nil {
			return nil, fmt.Errorf("register audio: %w", err)
		}
	}
	if cfg.Feed.Enabled {
		netCfg := network.DefaultConfig()
		netCfg.Address = cfg.Feed.Address
		s.feed = network.NewServer(netCfg)
		if err := s.Register(s.feed); err != nil {
			return nil, fmt.Errorf("register feed: %w", err)
		}
	}
	return s, nil
}
