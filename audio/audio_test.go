package audio

import (
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niello/deusexmachina-sub012/engine"
)

func drain(t *testing.T, c Cue, volume float64) (total int, peak float64) {
	t.Helper()
	s, err := NewCueStreamer(c, volume)
	require.NoError(t, err)

	buf := make([][2]float64, 512)
	for i := 0; i < 1000; i++ {
		n, ok := s.Stream(buf)
		for _, sample := range buf[:n] {
			peak = math.Max(peak, math.Abs(sample[0]))
		}
		total += n
		if !ok {
			return total, peak
		}
	}
	t.Fatalf("cue %s never ended", c)
	return 0, 0
}

func TestCueStreamer_Finite(t *testing.T) {
	for _, c := range []Cue{CueArrival, CueFailure, CueCancel} {
		t.Run(c.String(), func(t *testing.T) {
			total, peak := drain(t, c, 1)
			assert.Equal(t, CueLength(c), total)
			assert.Greater(t, peak, 0.0)
			assert.LessOrEqual(t, peak, 1.0)
		})
	}
}

func TestCueStreamer_Silent(t *testing.T) {
	total, peak := drain(t, CueArrival, 0)
	assert.Equal(t, CueLength(CueArrival), total)
	assert.Zero(t, peak)
}

func TestCueStreamer_Unknown(t *testing.T) {
	_, err := NewCueStreamer(Cue(9), 1)
	assert.ErrorContains(t, err, "cue(9)")
}

func TestEnvelope_Shape(t *testing.T) {
	src := &constant{}
	e := newEnvelope(src, 10, 2, 4)
	buf := make([][2]float64, 10)
	n, _ := e.Stream(buf)
	require.Equal(t, 10, n)

	got := make([]float64, n)
	for i := range got {
		got[i] = buf[i][0]
	}
	assert.InDeltaSlice(t, []float64{0, 0.5, 1, 1, 1, 1, 1, 0.75, 0.5, 0.25}, got, 1e-12)
}

// constant streams ones forever
type constant struct{}

func (constant) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		samples[i] = [2]float64{1, 1}
	}
	return len(samples), true
}

func (constant) Err() error { return nil }

func TestService_GracefulWithoutSpeaker(t *testing.T) {
	s := NewService(0.5, false, zerolog.Nop())
	require.NoError(t, s.Init(engine.NewWorld()))

	assert.NotPanics(t, func() {
		s.Play(CueArrival)
		s.Poll()
		require.NoError(t, s.Stop())
	})
	assert.False(t, s.IsAvailable())
}

func TestService_PollPlaysAdvancedCounters(t *testing.T) {
	w := engine.NewWorld()
	w.Resources.Status.Counters.Get("nav.arrivals").Store(3)

	s := NewService(1, false, zerolog.Nop())
	require.NoError(t, s.Init(w))
	var played []Cue
	s.play = func(c Cue) { played = append(played, c) }

	s.Poll()
	assert.Empty(t, played, "counts before Init are history")

	w.Resources.Status.Counters.Get("nav.arrivals").Add(2)
	w.Resources.Status.Counters.Get("nav.cancelled").Add(1)
	s.Poll()
	assert.Equal(t, []Cue{CueArrival, CueCancel}, played)

	s.Poll()
	assert.Len(t, played, 2)
}

func TestService_Mute(t *testing.T) {
	s := NewService(1, true, zerolog.Nop())
	assert.True(t, s.IsMuted())
	assert.False(t, s.ToggleMute())
	assert.True(t, s.ToggleMute())
}
