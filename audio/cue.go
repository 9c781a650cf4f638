package audio

import (
	"fmt"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
)

const sampleRate = beep.SampleRate(44100)

// Cue identifies a navigation event with an audible signal
type Cue uint8

const (
	// CueArrival plays when an agent completes its Navigate action
	CueArrival Cue = iota
	// CueFailure plays when motion generation fails
	CueFailure
	// CueCancel plays when a Navigate action is cancelled
	CueCancel
)

var cueNames = [...]string{
	CueArrival: "arrival",
	CueFailure: "failure",
	CueCancel:  "cancel",
}

func (c Cue) String() string {
	if int(c) >= len(cueNames) {
		return fmt.Sprintf("cue(%d)", c)
	}
	return cueNames[c]
}

// tone is one enveloped note of a cue
type tone struct {
	freq     float64
	duration time.Duration
}

var cueTones = map[Cue][]tone{
	CueArrival: {{freq: 660, duration: 80 * time.Millisecond}, {freq: 990, duration: 120 * time.Millisecond}},
	CueFailure: {{freq: 220, duration: 70 * time.Millisecond}, {freq: 147, duration: 150 * time.Millisecond}},
	CueCancel:  {{freq: 440, duration: 60 * time.Millisecond}},
}

// CueLength returns the number of samples a cue streams
func CueLength(c Cue) int {
	n := 0
	for _, t := range cueTones[c] {
		n += sampleRate.N(t.duration)
	}
	return n
}

// NewCueStreamer builds the finite streamer of a cue at the given linear volume
func NewCueStreamer(c Cue, volume float64) (beep.Streamer, error) {
	tones, ok := cueTones[c]
	if !ok {
		return nil, fmt.Errorf("audio: unknown cue %s", c)
	}

	parts := make([]beep.Streamer, 0, len(tones))
	for _, t := range tones {
		osc, err := generators.SineTone(sampleRate, t.freq)
		if err != nil {
			return nil, fmt.Errorf("audio: cue %s: %w", c, err)
		}
		n := sampleRate.N(t.duration)
		parts = append(parts, newEnvelope(beep.Take(n, osc), n, n/10, n/3))
	}
	return newVolume(beep.Seq(parts...), volume), nil
}

// envelope applies linear attack and release to a stream of known length
type envelope struct {
	streamer beep.Streamer
	position int
	total    int
	attack   int
	release  int
}

func newEnvelope(s beep.Streamer, total, attack, release int) beep.Streamer {
	return &envelope{
		streamer: s,
		total:    total,
		attack:   attack,
		release:  release,
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		vol := 1.0
		if e.attack > 0 && e.position < e.attack {
			vol = float64(e.position) / float64(e.attack)
		}
		if remaining := e.total - e.position; e.release > 0 && remaining < e.release {
			vol = math.Min(vol, float64(remaining)/float64(e.release))
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume wraps s with a linear volume, zero or less is silent
// math.Log2(0) is -Inf
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}
