package tracks

import (
	_ "embed"
	"math"

	"github.com/racingline/trackreward/internal/core"
	"github.com/racingline/trackreward/internal/registry"
)

//go:embed data/box.yaml
var boxYAML []byte

// Oval dimensions in meters.
const (
	ovalRadiusX = 8.0
	ovalRadiusY = 5.0
	ovalSpacing = 0.5
	ovalWidth   = 1.07
)

func init() {
	registry.Register("box", func() registry.Definition {
		d, err := ParseYAML(boxYAML)
		if err != nil {
			panic("tracks: embedded box track is invalid: " + err.Error())
		}
		return d
	})
	registry.Register("oval", func() registry.Definition {
		return registry.Definition{
			ID:        "oval",
			Name:      "Oval",
			Width:     ovalWidth,
			Waypoints: Ellipse(ovalRadiusX, ovalRadiusY, ovalSpacing),
		}
	})
}

// ellipseSamples is the resolution of the polyline that Ellipse resamples.
const ellipseSamples = 4096

// Ellipse returns waypoints on an ellipse centered at the origin, driven
// counter-clockwise from (0, -ry) and spaced spacing meters apart along the
// path. The closing gap back to the first waypoint is at least spacing/2.
func Ellipse(rx, ry, spacing float64) []core.Waypoint {
	if rx <= 0 || ry <= 0 || spacing <= 0 {
		return nil
	}

	at := func(i int) core.Waypoint {
		t := 2 * math.Pi * float64(i) / ellipseSamples
		return core.Pt(rx*math.Sin(t), -ry*math.Cos(t))
	}

	pts := []core.Waypoint{at(0)}
	travelled := 0.0 // path length covered since the last emitted waypoint
	prev := at(0)
	for i := 1; i <= ellipseSamples; i++ {
		cur := at(i)
		seg := core.Distance(prev, cur)
		// A dense sample may cross more than one spacing boundary
		for travelled+seg >= spacing {
			f := (spacing - travelled) / seg
			prev = core.Pt(prev.X+f*(cur.X-prev.X), prev.Y+f*(cur.Y-prev.Y))
			seg = core.Distance(prev, cur)
			pts = append(pts, prev)
			travelled = 0
		}
		travelled += seg
		prev = cur
	}

	// The last emitted point may coincide with or crowd the start
	last := pts[len(pts)-1]
	if core.Distance(last, pts[0]) < spacing/2 {
		pts = pts[:len(pts)-1]
	}
	return pts
}
