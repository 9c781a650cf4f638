package audio

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/rs/zerolog"

	"github.com/niello/deusexmachina-sub012/engine"
)

// cueCounters maps world status counters to the cue their increments trigger
var cueCounters = []struct {
	name string
	cue  Cue
}{
	{"nav.arrivals", CueArrival},
	{"nav.failures", CueFailure},
	{"nav.cancelled", CueCancel},
}

// AudioService plays navigation cues through the speaker
// Missing audio backends disable the service instead of failing startup
type AudioService struct {
	mu       sync.Mutex
	mixer    *beep.Mixer
	started  bool
	disabled atomic.Bool
	muted    atomic.Bool
	volume   float64
	log      zerolog.Logger

	counters []*atomic.Int64
	seen     []int64
	play     func(Cue)

	statPlayed *atomic.Int64
}

// NewService creates the audio service, muted starts it silent
func NewService(volume float64, muted bool, log zerolog.Logger) *AudioService {
	s := &AudioService{
		mixer:  &beep.Mixer{},
		volume: volume,
		log:    log.With().Str("service", "audio").Logger(),
	}
	s.muted.Store(muted)
	s.play = s.Play
	return s
}

func (s *AudioService) Name() string { return "audio" }

func (s *AudioService) Dependencies() []string { return nil }

// Init binds the cue counters of the world status registry
func (s *AudioService) Init(world *engine.World) error {
	reg := world.Resources.Status
	s.counters = make([]*atomic.Int64, len(cueCounters))
	s.seen = make([]int64, len(cueCounters))
	for i, c := range cueCounters {
		s.counters[i] = reg.Counters.Get(c.name)
		s.seen[i] = s.counters[i].Load()
	}
	s.statPlayed = reg.Counters.Get("audio.played")
	return nil
}

// Start opens the speaker, a failure disables audio for the session
func (s *AudioService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started || s.disabled.Load() {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		s.disabled.Store(true)
		s.log.Warn().Err(err).Msg("no audio backend, cues disabled")
		return nil
	}
	speaker.Play(s.mixer)
	s.started = true
	return nil
}

// Stop silences pending cues
func (s *AudioService) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	speaker.Lock()
	s.mixer.Clear()
	speaker.Unlock()
	s.started = false
	return nil
}

// ToggleMute flips the mute state and returns the new one
func (s *AudioService) ToggleMute() bool {
	muted := !s.muted.Load()
	s.muted.Store(muted)
	return muted
}

func (s *AudioService) IsMuted() bool {
	return s.muted.Load()
}

// IsAvailable reports whether a speaker backend is open
func (s *AudioService) IsAvailable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

// Play mixes a cue into the speaker output, no-op when muted or unavailable
func (s *AudioService) Play(c Cue) {
	if s.muted.Load() || s.disabled.Load() {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}

	streamer, err := NewCueStreamer(c, s.volume)
	if err != nil {
		s.log.Debug().Err(err).Msg("cue dropped")
		return
	}
	speaker.Lock()
	s.mixer.Add(streamer)
	speaker.Unlock()
	if s.statPlayed != nil {
		s.statPlayed.Add(1)
	}
}

// Poll plays one cue per counter that advanced since the previous poll
// Called from the render loop, bursts within a frame collapse into one cue
func (s *AudioService) Poll() {
	for i, counter := range s.counters {
		v := counter.Load()
		if v > s.seen[i] {
			s.play(cueCounters[i].cue)
		}
		s.seen[i] = v
	}
}
