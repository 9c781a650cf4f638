package main

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/niello/deusexmachina-sub012/action"
	"github.com/niello/deusexmachina-sub012/component"
	"github.com/niello/deusexmachina-sub012/navigation"
	"github.com/niello/deusexmachina-sub012/vmath"
)

// Yard to screen mapping, terminal cells are roughly twice as tall as wide
const (
	cellsPerUnitX = 3.0
	cellsPerUnitZ = 1.5
	marginX       = 4
	marginY       = 2
)

var (
	styleDefault = tcell.StyleDefault
	styleRing    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleStation = tcell.StyleDefault.Foreground(tcell.ColorTeal).Bold(true)
	styleGoal    = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleDest    = tcell.StyleDefault.Foreground(tcell.ColorFuchsia)
	styleAgent   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleHeader  = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	stylePaused  = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
)

// snapshot is the frame state copied out of the world under its update lock
type snapshot struct {
	frame   int64
	elapsed time.Duration
	station int

	position vmath.Vec3F
	facing   vmath.Vec3F
	speed    float64
	state    component.CharacterState
	mode     navigation.Mode
	area     navigation.AreaType

	chain     []string
	navStatus action.Status
	hasSteer  bool
	dest      vmath.Vec3F
	nextDest  vmath.Vec3F

	stats []string

	paused bool
	muted  bool
}

var stateNames = map[component.CharacterState]string{
	component.CharacterStand:     "stand",
	component.CharacterWalk:      "walk",
	component.CharacterShortStep: "short-step",
}

// toCell maps a yard position to a screen cell
func toCell(p vmath.Vec3F) (int, int) {
	return marginX + int(math.Round(p.X*cellsPerUnitX)), marginY + int(math.Round(p.Z*cellsPerUnitZ))
}

// facingRune picks the arrow closest to the horizontal direction, +Z points down the screen
func facingRune(dir vmath.Vec3F) rune {
	if vmath.V3FMagSq2D(dir) == 0 {
		return '·'
	}
	if math.Abs(dir.X) >= math.Abs(dir.Z) {
		if dir.X > 0 {
			return '>'
		}
		return '<'
	}
	if dir.Z > 0 {
		return 'v'
	}
	return '^'
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}

func draw(s tcell.Screen, snap snapshot) {
	s.Clear()

	// Ring edges
	for i := range stations {
		from, to := stations[i], stations[(i+1)%stationCount]
		steps := int(vmath.V3FDist2D(from, to) * 4)
		for k := 0; k <= steps; k++ {
			x, y := toCell(vmath.V3FLerp(from, to, float64(k)/float64(steps)))
			s.SetContent(x, y, '·', nil, styleRing)
		}
	}
	for i, p := range stations {
		style := styleStation
		if i == snap.station {
			style = styleGoal
		}
		x, y := toCell(p)
		s.SetContent(x, y, rune('1'+i), nil, style)
	}

	if snap.hasSteer {
		x, y := toCell(snap.nextDest)
		s.SetContent(x, y, 'x', nil, styleDest)
		x, y = toCell(snap.dest)
		s.SetContent(x, y, '+', nil, styleDest)
	}

	ax, ay := toCell(snap.position)
	s.SetContent(ax, ay, '@', nil, styleAgent)
	s.SetContent(ax+1, ay, facingRune(snap.facing), nil, styleAgent)

	_, bottom := toCell(vmath.Vec3F{Z: 10})
	y := bottom + marginY
	drawText(s, marginX, y, styleHeader, "[1-8] go to station  [c] cancel  [p] pause  [m] mute  [q] quit")
	y++
	if snap.paused {
		drawText(s, marginX, y, stylePaused, "PAUSED")
	}
	y++

	drawText(s, marginX, y, styleDefault, fmt.Sprintf("frame %-6d %6.1fs  goal %d (%s)  pos %.2f,%.2f  speed %.2f  %s  mode %s  area %d",
		snap.frame, snap.elapsed.Seconds(), snap.station+1, snap.navStatus, snap.position.X, snap.position.Z, snap.speed,
		stateNames[snap.state], snap.mode, snap.area))
	y++
	drawText(s, marginX, y, styleDefault, "actions: "+strings.Join(snap.chain, " > "))
	y++
	if snap.muted {
		drawText(s, marginX, y, styleHeader, "audio muted")
	}
	y++

	for i, stat := range snap.stats {
		drawText(s, marginX+(i%3)*28, y+i/3, styleHeader, stat)
	}

	s.Show()
}
