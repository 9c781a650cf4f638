package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/niello/deusexmachina-sub012/audio"
	"github.com/niello/deusexmachina-sub012/config"
	"github.com/niello/deusexmachina-sub012/core"
	"github.com/niello/deusexmachina-sub012/engine"
	"github.com/niello/deusexmachina-sub012/engine/services"
	"github.com/niello/deusexmachina-sub012/system"
)

const (
	frameInterval = 33 * time.Millisecond
	cueVolume     = 0.4
)

var (
	configDir = flag.String("config", ".", "Directory containing steer-sandbox.yaml")
	areasFlag = flag.String("areas", "", "Area table YAML, overrides the areasFile setting")
	muteFlag  = flag.Bool("mute", false, "Start with audio muted")
)

func main() {
	flag.Parse()

	if err := config.Load(*configDir); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	tuning, err := config.Current()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}
	if *areasFlag != "" {
		tuning.AreasFile = *areasFlag
	}

	log, logFile, err := setupLogging(tuning)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log: %v\n", err)
		os.Exit(1)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	if err := run(tuning, log); err != nil {
		log.Error().Err(err).Msg("sandbox failed")
		fmt.Fprintf(os.Stderr, "steer-sandbox: %v\n", err)
		os.Exit(1)
	}
}

// setupLogging opens the configured log file, an empty name disables logging
func setupLogging(tuning config.Tuning) (zerolog.Logger, *os.File, error) {
	if tuning.LogFile == "" {
		return zerolog.Nop(), nil, nil
	}
	file, err := os.OpenFile(tuning.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, err
	}
	log := zerolog.New(zerolog.ConsoleWriter{
		Out:        file,
		TimeFormat: time.RFC3339,
		NoColor:    true,
	}).Level(tuning.LogLevel).With().Timestamp().Logger()
	return log, file, nil
}

func run(tuning config.Tuning, log zerolog.Logger) error {
	world := engine.NewWorldWithLogger(log)

	library, err := newLibrary(world.Resources.Status, tuning.AreasFile)
	if err != nil {
		return err
	}
	engine.AddResource(world.ResourceStore, library)
	world.AddSystem(system.NewNavigationSystem(world))
	world.AddSystem(system.NewCharacterControlSystem(world))

	sc := newScene(world, tuning)

	clock := engine.NewPausableClock(nil)
	scheduler, updateDone := engine.NewClockScheduler(world, clock, tuning.TickRate)
	sound := audio.NewService(cueVolume, *muteFlag || !tuning.Audio, log)

	hub := services.NewHub(log)
	for _, svc := range []services.Service{sound, &telemetryService{}, &schedulerService{scheduler: scheduler}} {
		if err := hub.Register(svc); err != nil {
			return err
		}
	}
	if err := hub.InitAll(world); err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	core.SetCrashHook(screen.Fini)
	defer screen.Fini()
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()
	screen.HideCursor()

	if err := hub.StartAll(); err != nil {
		return err
	}
	defer hub.StopAll()

	log.Info().Dur("tick", tuning.TickRate).Str("areas", tuning.AreasFile).Msg("sandbox started")

	events := make(chan tcell.Event, 16)
	core.Go(func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	})

	frameTicker := time.NewTicker(frameInterval)
	defer frameTicker.Stop()

	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				screen.Sync()
			case *tcell.EventKey:
				if !handleKey(ev, world, sc, clock, sound, log) {
					log.Info().Msg("sandbox stopped")
					return nil
				}
			}

		case <-updateDone:
			sound.Poll()

		case <-frameTicker.C:
			var snap snapshot
			world.RunSafe(func() {
				snap = sc.snapshot()
			})
			snap.paused = clock.IsPaused()
			snap.muted = sound.IsMuted()
			draw(screen, snap)
		}
	}
}

// handleKey applies one key press, false quits the sandbox
func handleKey(ev *tcell.EventKey, world *engine.World, sc *scene, clock *engine.PausableClock, sound *audio.AudioService, log zerolog.Logger) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyRune:
	default:
		return true
	}

	switch r := ev.Rune(); {
	case r == 'q':
		return false
	case r >= '1' && r < '1'+stationCount:
		var err error
		world.RunSafe(func() {
			err = sc.goTo(int(r - '1'))
		})
		if err != nil {
			log.Warn().Err(err).Msg("goal rejected")
		}
	case r == 'c':
		var ok bool
		world.RunSafe(func() {
			ok = sc.cancel()
		})
		log.Debug().Bool("accepted", ok).Msg("cancel requested")
	case r == 'p':
		log.Debug().Bool("paused", clock.Toggle()).Msg("pause toggled")
	case r == 'm':
		log.Debug().Bool("muted", sound.ToggleMute()).Msg("mute toggled")
	}
	return true
}
