package reward

import (
	"math"
	"testing"

	"github.com/racingline/trackreward/internal/config"
	"github.com/racingline/trackreward/internal/core"
)

const eps = 1e-9

func approx(a, b float64) bool {
	return math.Abs(a-b) < eps
}

// boxPoints is a 1 m spaced counter-clockwise loop with 45 degree cut corners:
//
//	0..10  bottom edge (0,0)..(10,0)
//	11     corner (11,1)
//	12..19 right edge (11,2)..(11,9)
//	20     corner (10,10)
//	21..29 top edge (9,10)..(1,10)
//	30     corner (0,9)
//	31..38 left edge (-1,8)..(-1,1)
//	39     (-1,0), closing with a square corner
func boxPoints() []core.Waypoint {
	var pts []core.Waypoint
	for x := 0; x <= 10; x++ {
		pts = append(pts, core.Pt(float64(x), 0))
	}
	pts = append(pts, core.Pt(11, 1))
	for y := 2; y <= 9; y++ {
		pts = append(pts, core.Pt(11, float64(y)))
	}
	pts = append(pts, core.Pt(10, 10))
	for x := 9; x >= 1; x-- {
		pts = append(pts, core.Pt(float64(x), 10))
	}
	pts = append(pts, core.Pt(0, 9))
	for y := 8; y >= 1; y-- {
		pts = append(pts, core.Pt(-1, float64(y)))
	}
	pts = append(pts, core.Pt(-1, 0))
	return pts
}

func boxTrack() core.Track {
	return core.MustTrack(boxPoints())
}

// mirroredBoxTrack flips the box over the x axis, turning every left turn
// into a right turn while keeping the bottom edge heading east.
func mirroredBoxTrack() core.Track {
	pts := boxPoints()
	for i := range pts {
		pts[i].Y = -pts[i].Y
	}
	return core.MustTrack(pts)
}

// lookaheadTrack is a 0.25 m spaced straight whose fifth waypoint bends away
// by theta degrees. From bracket (0, 1) the safe horizon walk stops there.
func lookaheadTrack(theta float64) core.Track {
	rad := theta * math.Pi / 180
	bend := core.Pt(0.75+0.25*math.Cos(rad), 0.25*math.Sin(rad))
	return core.MustTrack([]core.Waypoint{
		core.Pt(0, 0),
		core.Pt(0.25, 0),
		core.Pt(0.5, 0),
		core.Pt(0.75, 0),
		bend,
		core.Pt(bend.X, 3),
		core.Pt(-1, 3),
		core.Pt(-1, 0),
	})
}

// snapshotAt returns a healthy snapshot with the vehicle on waypoint prev.
func snapshotAt(track core.Track, prev, next int) Params {
	wp := track.WaypointAt(prev)
	return Params{
		AllWheelsOnTrack: true,
		X:                wp.X,
		Y:                wp.Y,
		IsLeftOfCenter:   true,
		Heading:          0,
		Progress:         1,
		Steps:            1,
		Speed:            3,
		TrackWidth:       2,
		ClosestWaypoints: [2]int{prev, next},
	}
}

func mustState(t *testing.T, track core.Track, p Params) State {
	t.Helper()
	s, err := NewState(track, p)
	if err != nil {
		t.Fatalf("NewState() failed: %v", err)
	}
	return s
}

func defaultCal() config.Calibration {
	return config.DefaultCalibration()
}
