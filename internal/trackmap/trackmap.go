package trackmap

import (
	"math"

	"github.com/racingline/trackreward/internal/core"
)

// Glyphs used on the map.
const (
	GlyphPath     = '·'
	GlyphStart    = 'S'
	GlyphWaypoint = '+'
)

// arrows indexes heading octants counter-clockwise from east.
var arrows = []rune("→↗↑↖←↙↓↘")

// cellAspect is how much taller a terminal cell is than it is wide.
const cellAspect = 2.0

// Map projects track coordinates onto a canvas. North is up.
type Map struct {
	canvas  *Canvas
	track   core.Track
	lo      core.Waypoint
	scaleX  float64 // columns per meter
	scaleY  float64 // rows per meter
	offsetX float64
	offsetY float64
}

// New creates a map of track fitted into width x height cells and draws the
// centerline.
func New(track core.Track, width, height int) *Map {
	m := &Map{
		canvas: NewCanvas(width, height),
		track:  track,
	}
	if track.IsZero() || width < 1 || height < 1 {
		return m
	}

	lo, hi := track.Bounds()
	m.lo = lo
	spanX, spanY := hi.X-lo.X, hi.Y-lo.Y
	cols, rows := float64(width-1), float64(height-1)

	scale := math.Inf(1)
	if spanX > 0 {
		scale = cols / spanX
	}
	if spanY > 0 {
		scale = math.Min(scale, cellAspect*rows/spanY)
	}
	if math.IsInf(scale, 1) {
		scale = 1
	}
	m.scaleX = scale
	m.scaleY = scale / cellAspect

	// Center the drawing; rows grow downwards so y is flipped
	m.offsetX = (cols - spanX*m.scaleX) / 2
	m.offsetY = (rows-spanY*m.scaleY)/2 + spanY*m.scaleY

	m.drawTrack()
	return m
}

// Project converts a track position to a canvas cell.
func (m *Map) Project(p core.Waypoint) (col, row int) {
	col = int(math.Round(m.offsetX + (p.X-m.lo.X)*m.scaleX))
	row = int(math.Round(m.offsetY - (p.Y-m.lo.Y)*m.scaleY))
	return col, row
}

func (m *Map) drawTrack() {
	n := m.track.Len()
	for i := 0; i < n; i++ {
		x0, y0 := m.Project(m.track.WaypointAt(i))
		x1, y1 := m.Project(m.track.WaypointAt(i + 1))
		m.canvas.DrawLine(x0, y0, x1, y1, GlyphPath)
	}
	x, y := m.Project(m.track.WaypointAt(0))
	m.canvas.Set(x, y, GlyphStart)
}

// MarkWaypoint draws the glyph at waypoint index i.
func (m *Map) MarkWaypoint(i int, r rune) {
	if m.track.IsZero() {
		return
	}
	x, y := m.Project(m.track.WaypointAt(i))
	m.canvas.Set(x, y, r)
}

// DrawVehicle draws an arrow at pos pointing along heading (degrees).
func (m *Map) DrawVehicle(pos core.Waypoint, heading float64) {
	if m.track.IsZero() || !pos.IsFinite() {
		return
	}
	x, y := m.Project(pos)
	m.canvas.Set(x, y, Arrow(heading))
}

// Arrow returns the arrow rune closest to heading in degrees.
func Arrow(heading float64) rune {
	if math.IsNaN(heading) || math.IsInf(heading, 0) {
		return '?'
	}
	octant := int(math.Round(heading/45)) % 8
	if octant < 0 {
		octant += 8
	}
	return arrows[octant]
}

// Canvas returns the underlying canvas.
func (m *Map) Canvas() *Canvas {
	return m.canvas
}

// String renders the map.
func (m *Map) String() string {
	return m.canvas.String()
}
