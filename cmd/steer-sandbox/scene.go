package main

import (
	"fmt"

	"github.com/niello/deusexmachina-sub012/action"
	"github.com/niello/deusexmachina-sub012/component"
	"github.com/niello/deusexmachina-sub012/config"
	"github.com/niello/deusexmachina-sub012/core"
	"github.com/niello/deusexmachina-sub012/engine"
	"github.com/niello/deusexmachina-sub012/navigation"
	"github.com/niello/deusexmachina-sub012/status"
	"github.com/niello/deusexmachina-sub012/steering"
	"github.com/niello/deusexmachina-sub012/vmath"
)

const stationCount = 8

// stations ring a 20x10 yard, corners on even indices
var stations = [stationCount]vmath.Vec3F{
	{X: 0, Z: 0},
	{X: 10, Z: 0},
	{X: 20, Z: 0},
	{X: 20, Z: 5},
	{X: 20, Z: 10},
	{X: 10, Z: 10},
	{X: 0, Z: 10},
	{X: 0, Z: 5},
}

const (
	areaGround navigation.AreaType = 1
	areaPlaza  navigation.AreaType = 2
)

// defaultAreas is used when no area table file is configured
var defaultAreas = navigation.AreaTable{
	Areas: []navigation.AreaDef{
		{ID: areaGround, Name: "ground", Variant: steering.SteerName},
		{ID: areaPlaza, Name: "plaza", Variant: steering.SteerName, Controllable: true},
	},
}

func polyRef(i int) navigation.PolyRef {
	return navigation.PolyRef(i%stationCount + 1)
}

func polyIndex(ref navigation.PolyRef) int {
	return int(ref) - 1
}

// newRingMesh builds one polygon per ring edge, polygon i leads from station i to station i+1
func newRingMesh() *navigation.ChainMesh {
	polys := make([]navigation.Polygon, stationCount)
	for i := range polys {
		area := areaGround
		if i == 4 {
			area = areaPlaza
		}
		polys[i] = navigation.Polygon{
			Ref:  polyRef(i),
			Area: area,
			Exit: stations[(i+1)%stationCount],
			// Mid-edge stations don't bend the ring
			Portal: i%2 == 0,
		}
	}
	return navigation.NewChainMesh(polys...)
}

// route returns the polygons from the current one forward to the given station
func route(current navigation.PolyRef, station int) []navigation.PolyRef {
	c := polyIndex(current)
	n := (station - c + stationCount) % stationCount
	if n == 0 {
		n = stationCount
	}
	path := make([]navigation.PolyRef, n)
	for k := range path {
		path[k] = polyRef(c + k)
	}
	return path
}

// facingAt returns the direction of the ring edge leaving station
func facingAt(station int) vmath.Vec3F {
	next := stations[(station+1)%stationCount]
	return vmath.V3FNormalize2D(vmath.V3FSub(next, stations[station]))
}

// newLibrary registers the traversal variants and binds the area table
func newLibrary(reg *status.Registry, areasFile string) (*steering.Library, error) {
	r := steering.NewRegistry()
	r.Register(steering.NewSteer(reg))
	r.Register(steering.NewTurn(reg))

	if areasFile != "" {
		if err := r.LoadAreaTable(areasFile); err != nil {
			return nil, fmt.Errorf("area table: %w", err)
		}
	} else if err := r.BindAreaTable(defaultAreas); err != nil {
		return nil, err
	}
	return steering.NewLibrary(r), nil
}

// scene is the single-agent ring yard driven by the sandbox
// All methods must run under World.RunSafe
type scene struct {
	world *engine.World
	mesh  *navigation.ChainMesh
	agent core.Entity

	station int
	nav     action.Handle
}

func newScene(w *engine.World, tuning config.Tuning) *scene {
	mesh := newRingMesh()

	character := component.NewCharacterComponent()
	character.Facing = facingAt(0)
	character.MaxLinearSpeed = tuning.MaxLinearSpeed
	character.MaxAngularSpeed = tuning.MaxAngularSpeed
	character.ArriveBrakingCoeff = 1 / (2 * tuning.BrakingDecel)
	character.SteeringSmoothness = tuning.SteeringSmoothness

	eb := w.NewEntity()
	engine.With(eb, w.Components.NavAgent, component.NavAgentComponent{
		Position: stations[0],
		Height:   tuning.AgentHeight,
		Radius:   tuning.AgentRadius,
		Mesh:     mesh,
	})
	engine.With(eb, w.Components.Character, character)
	engine.With(eb, w.Components.Queue, action.NewQueue())

	return &scene{
		world: w,
		mesh:  mesh,
		agent: eb.Build(),
	}
}

// goTo replaces the agent's goal with a station, walking the ring forward
func (s *scene) goTo(station int) error {
	if station < 0 || station >= stationCount {
		return fmt.Errorf("no station %d", station)
	}

	var err error
	s.world.Components.NavAgent.MutateComponent(s.agent, func(a *component.NavAgentComponent) {
		current := polyRef(0)
		if a.Corridor.Len() > 0 {
			current = a.Corridor.FirstPoly()
		}
		var corridor *navigation.Corridor
		corridor, err = s.mesh.NewCorridor(a.Position, stations[station], route(current, station)...)
		if err != nil {
			return
		}
		a.Corridor = corridor
		a.Mode = navigation.ModeNormal
	})
	if err != nil {
		return err
	}

	h, err := engine.Navigate(s.world, s.agent, stations[station], facingAt(station))
	if err != nil {
		return err
	}
	s.station = station
	s.nav = h
	return nil
}

// cancel requests cancellation of the current goal
func (s *scene) cancel() bool {
	q, err := s.world.QueueOf(s.agent)
	if err != nil {
		return false
	}
	return q.CancelAction(s.nav)
}

// snapshot copies what the renderer draws
func (s *scene) snapshot() snapshot {
	snap := snapshot{
		frame:   s.world.FrameNumber(),
		elapsed: s.world.Elapsed(),
		station: s.station,
	}
	if a, ok := s.world.Components.NavAgent.GetComponent(s.agent); ok {
		snap.position = a.Position
		snap.mode = a.Mode
		snap.area = a.CurrentArea()
	}
	if c, ok := s.world.Components.Character.GetComponent(s.agent); ok {
		snap.facing = c.Facing
		snap.state = c.State
		snap.speed = vmath.V3FMag2D(c.Velocity)
	}
	if q, err := s.world.QueueOf(s.agent); err == nil {
		snap.chain = q.Describe()
		snap.navStatus = q.GetStatus(s.nav)
		if steer, ok := action.Get[action.Steer](q, action.FindCurrent[action.Steer](q)); ok {
			snap.hasSteer = true
			snap.dest = steer.Dest
			snap.nextDest = steer.NextDest
		}
	}
	for _, m := range s.world.Resources.Status.Snapshot("") {
		if m.Gauge {
			snap.stats = append(snap.stats, fmt.Sprintf("%s=%.2f", m.Key, m.Value))
		} else {
			snap.stats = append(snap.stats, fmt.Sprintf("%s=%d", m.Key, int64(m.Value)))
		}
	}
	return snap
}
