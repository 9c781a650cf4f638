package navigation

import (
	"fmt"

	"github.com/niello/deusexmachina-sub012/vmath"
)

// Polygon is a chain mesh cell with its precomputed straight path exit
type Polygon struct {
	Ref  PolyRef
	Area AreaType

	// Exit is where the straight path leaves this polygon into the next one
	Exit vmath.Vec3F

	// Portal marks an exit that is a plain boundary crossing, not a direction change
	// Portal exits are emitted only with CrossAll unless the area changes
	Portal bool

	// OffMesh marks an exit that starts an off-mesh connection
	OffMesh bool
}

// ChainMesh is an in-process navigation mesh made of polygon chains with funnelled exits
// Pathfinding is out of scope, corridors are built from explicit polygon sequences
type ChainMesh struct {
	polys map[PolyRef]Polygon
}

// NewChainMesh registers polygons, later duplicates replace earlier ones
func NewChainMesh(polys ...Polygon) *ChainMesh {
	m := &ChainMesh{
		polys: make(map[PolyRef]Polygon, len(polys)),
	}
	for _, p := range polys {
		m.polys[p.Ref] = p
	}
	return m
}

// Polygon returns a registered polygon
func (m *ChainMesh) Polygon(ref PolyRef) (Polygon, bool) {
	p, ok := m.polys[ref]
	return p, ok
}

// NewCorridor builds a corridor over path starting at from
func (m *ChainMesh) NewCorridor(from, target vmath.Vec3F, path ...PolyRef) (*Corridor, error) {
	if len(path) == 0 {
		return nil, ErrNoPath
	}
	first, ok := m.polys[path[0]]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPolygon, path[0])
	}
	c := &Corridor{
		Pos:         from,
		RecoveryPos: from,
		Target:      target,
		Path:        append([]PolyRef(nil), path...),
		Area:        first.Area,
	}
	return c, nil
}

// Advance moves the corridor origin to pos and drops polygons the agent has left
// A polygon is left once pos is within tolerance of its exit or strictly beyond it along the next leg
func (m *ChainMesh) Advance(c *Corridor, pos vmath.Vec3F, sqTolerance float64) {
	c.Pos = pos
	for len(c.Path) > 1 {
		p, ok := m.polys[c.Path[0]]
		if !ok {
			return
		}
		if p.OffMesh {
			// Off-mesh traversal is driven externally, it trims the corridor itself
			break
		}
		next := c.Target
		if n, ok := m.polys[c.Path[1]]; ok && len(c.Path) > 2 {
			next = n.Exit
		}
		leg := vmath.V3FSub(next, p.Exit)
		rel := vmath.V3FSub(pos, p.Exit)
		if vmath.V3FMagSq2D(rel) >= sqTolerance && vmath.V3FDot2D(rel, leg) <= 0 {
			break
		}
		c.Path = c.Path[1:]
	}
	if p, ok := m.polys[c.Path[0]]; ok {
		c.Area = p.Area
	}
}

// OpenCursor implements Service
func (m *ChainMesh) OpenCursor(from, target vmath.Vec3F, path []PolyRef, opts CrossingOptions) (Cursor, error) {
	if len(path) == 0 {
		return nil, ErrNoPath
	}
	polys := make([]Polygon, len(path))
	for i, ref := range path {
		p, ok := m.polys[ref]
		if !ok {
			return nil, fmt.Errorf("%w: %d", ErrUnknownPolygon, ref)
		}
		polys[i] = p
	}
	return &chainCursor{
		from:   from,
		target: target,
		polys:  polys,
		opts:   opts,
	}, nil
}

// chainCursor walks polygon exits lazily, one corner per Next
type chainCursor struct {
	from, target vmath.Vec3F
	polys        []Polygon
	opts         CrossingOptions

	idx     int // next polygon whose exit is considered
	started bool
	done    bool
}

func (c *chainCursor) Next() (Corner, error) {
	if c.done {
		return Corner{}, ErrEndOfPath
	}
	if !c.started {
		c.started = true
		return Corner{
			Point: c.from,
			Flags: CornerStart,
			Area:  c.polys[0].Area,
			Poly:  c.polys[0].Ref,
		}, nil
	}

	for c.idx < len(c.polys)-1 {
		p := c.polys[c.idx]
		next := c.polys[c.idx+1]
		c.idx++

		areaChange := p.Area != next.Area
		if p.Portal && !areaChange && !p.OffMesh && c.opts != CrossAll {
			continue
		}

		var flags CornerFlags
		if p.OffMesh {
			flags |= CornerOffMesh
		}
		return Corner{
			Point: p.Exit,
			Flags: flags,
			Area:  next.Area,
			Poly:  next.Ref,
		}, nil
	}

	last := c.polys[len(c.polys)-1]
	c.done = true
	return Corner{
		Point: c.target,
		Flags: CornerEnd,
		Area:  last.Area,
		Poly:  last.Ref,
	}, nil
}
