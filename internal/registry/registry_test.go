package registry

import (
	"errors"
	"testing"

	"github.com/racingline/trackreward/internal/core"
)

func testFactory(name string) Factory {
	return func() Definition {
		return Definition{
			Name:      name,
			Width:     1.2,
			Waypoints: []core.Waypoint{core.Pt(0, 0), core.Pt(1, 0), core.Pt(1, 1)},
		}
	}
}

func TestRegisterAndCreate(t *testing.T) {
	Register("test-tri", testFactory("Triangle"))

	if !Exists("test-tri") {
		t.Fatal("Exists() = false after Register")
	}

	d, err := Create("test-tri")
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if d.ID != "test-tri" {
		t.Errorf("ID = %q, expected %q", d.ID, "test-tri")
	}
	if d.Name != "Triangle" {
		t.Errorf("Name = %q, expected %q", d.Name, "Triangle")
	}

	track, err := d.Track()
	if err != nil {
		t.Fatalf("Track() failed: %v", err)
	}
	if track.Len() != 3 {
		t.Errorf("Len() = %d, expected 3", track.Len())
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("test-dup", testFactory("Dup"))

	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	Register("test-dup", testFactory("Dup"))
}

func TestCreateUnknown(t *testing.T) {
	_, err := Create("no-such-track")
	if !errors.Is(err, ErrUnknownTrack) {
		t.Errorf("Create() error = %v, expected ErrUnknownTrack", err)
	}
	if Exists("no-such-track") {
		t.Error("Exists() = true for unknown track")
	}
}

func TestListSorted(t *testing.T) {
	Register("test-b", testFactory("B"))
	Register("test-a", testFactory("A"))

	list := List()
	for i := 1; i < len(list); i++ {
		if list[i-1].ID >= list[i].ID {
			t.Errorf("List() not sorted at %d: %q >= %q", i, list[i-1].ID, list[i].ID)
		}
	}

	var found bool
	for _, info := range list {
		if info.ID == "test-a" {
			found = true
			if info.Waypoints != 3 || info.Name != "A" {
				t.Errorf("unexpected info: %+v", info)
			}
		}
	}
	if !found {
		t.Error("List() missing test-a")
	}
}

func TestDefinitionTrackTooShort(t *testing.T) {
	d := Definition{ID: "short", Waypoints: []core.Waypoint{core.Pt(0, 0)}}
	if _, err := d.Track(); !errors.Is(err, core.ErrTrackTooShort) {
		t.Errorf("Track() error = %v, expected ErrTrackTooShort", err)
	}
}
