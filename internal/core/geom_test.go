package core

import (
	"errors"
	"math"
	"testing"
)

const eps = 1e-9

func approx(a, b float64) bool {
	return math.Abs(a-b) < eps
}

func TestWaypointAt(t *testing.T) {
	track := MustTrack([]Waypoint{Pt(0, 0), Pt(1, 0), Pt(2, 0), Pt(3, 3)})

	tests := []struct {
		index    int
		expected Waypoint
	}{
		{0, Pt(0, 0)},
		{1, Pt(1, 0)},
		{2, Pt(2, 0)},
		{3, Pt(3, 3)},
		{4, Pt(0, 0)},
		{5, Pt(1, 0)},
		{-1, Pt(3, 3)},
		{-2, Pt(2, 0)},
		{-3, Pt(1, 0)},
		{-4, Pt(0, 0)},
		{7, Pt(3, 3)},
	}

	for _, tc := range tests {
		result := track.WaypointAt(tc.index)
		if result != tc.expected {
			t.Errorf("WaypointAt(%d) = %v, expected %v", tc.index, result, tc.expected)
		}
	}
}

func TestWaypointAtBeyondSingleWrap(t *testing.T) {
	track := MustTrack([]Waypoint{Pt(0, 0), Pt(1, 0), Pt(2, 0)})

	// Outside the single-wrap range the index is still reduced modulo the length.
	if got := track.WaypointAt(10); got != Pt(1, 0) {
		t.Errorf("WaypointAt(10) = %v, expected (1, 0)", got)
	}
	if got := track.WaypointAt(-7); got != Pt(2, 0) {
		t.Errorf("WaypointAt(-7) = %v, expected (2, 0)", got)
	}
}

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b     Waypoint
		expected float64
	}{
		{Pt(0, 0), Pt(2, 0), 2},
		{Pt(0, 0), Pt(2, 2), math.Sqrt(8)},
		{Pt(-2, 4), Pt(-4, 2), math.Sqrt(8)},
		{Pt(0, 0), Pt(1, 0), 1},
	}

	for _, tc := range tests {
		result := Distance(tc.a, tc.b)
		if !approx(result, tc.expected) {
			t.Errorf("Distance(%v, %v) = %f, expected %f", tc.a, tc.b, result, tc.expected)
		}
	}
}

func TestHeadingBetween(t *testing.T) {
	tests := []struct {
		name     string
		b        Waypoint
		expected float64
	}{
		{"east", Pt(2, 0), 0},
		{"north", Pt(0, 2), 90},
		{"south", Pt(0, -2), -90},
		{"north-east", Pt(2, 2), 45},
		{"south-west", Pt(-2, -2), -135},
		{"west", Pt(-2, 0), 180},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := HeadingBetween(Pt(0, 0), tc.b)
			if !approx(result, tc.expected) {
				t.Errorf("HeadingBetween((0,0), %v) = %f, expected %f", tc.b, result, tc.expected)
			}
		})
	}
}

func TestNewTrack(t *testing.T) {
	if _, err := NewTrack([]Waypoint{Pt(0, 0)}); !errors.Is(err, ErrTrackTooShort) {
		t.Errorf("expected ErrTrackTooShort, got %v", err)
	}
	if _, err := NewTrack([]Waypoint{Pt(0, 0), Pt(math.NaN(), 1)}); err == nil {
		t.Error("expected error for NaN waypoint")
	}

	src := []Waypoint{Pt(0, 0), Pt(1, 0)}
	track, err := NewTrack(src)
	if err != nil {
		t.Fatalf("NewTrack() failed: %v", err)
	}
	src[0] = Pt(9, 9)
	if track.WaypointAt(0) != Pt(0, 0) {
		t.Error("track must not alias the input slice")
	}
	if track.LastIndex() != 1 {
		t.Errorf("LastIndex() = %d, expected 1", track.LastIndex())
	}
}

func TestTrackLengthAndBounds(t *testing.T) {
	track := MustTrack([]Waypoint{Pt(0, 0), Pt(2, 0), Pt(2, 2), Pt(0, 2)})

	if !approx(track.Length(), 8) {
		t.Errorf("Length() = %f, expected 8", track.Length())
	}
	lo, hi := track.Bounds()
	if lo != Pt(0, 0) || hi != Pt(2, 2) {
		t.Errorf("Bounds() = %v, %v, expected (0,0), (2,2)", lo, hi)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, expected int
	}{
		{5, 0, 10, 5},   // within range
		{-5, 0, 10, 0},  // below min
		{15, 0, 10, 10}, // above max
	}

	for _, tc := range tests {
		result := Clamp(tc.val, tc.min, tc.max)
		if result != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.min, tc.max, result, tc.expected)
		}
	}
}

func TestClampF(t *testing.T) {
	tests := []struct {
		val, min, max, expected float64
	}{
		{5.5, 0.0, 10.0, 5.5},
		{-5.5, 0.0, 10.0, 0.0},
		{950000, 0.001, 900000, 900000},
	}

	for _, tc := range tests {
		result := ClampF(tc.val, tc.min, tc.max)
		if result != tc.expected {
			t.Errorf("ClampF(%f, %f, %f) = %f, expected %f", tc.val, tc.min, tc.max, result, tc.expected)
		}
	}
}
