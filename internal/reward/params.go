// Package reward scores a single simulator step of a vehicle on a closed race
// track. Scoring is a pure function of the step snapshot, the track and the
// calibration: nothing is remembered between calls, so one Evaluator can be
// shared by every simulation worker.
package reward

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Params is the per-step snapshot produced by the simulation host.
// Field names follow the host's parameter keys.
type Params struct {
	AllWheelsOnTrack   bool         `json:"all_wheels_on_track" yaml:"all_wheels_on_track"`
	X                  float64      `json:"x" yaml:"x"`
	Y                  float64      `json:"y" yaml:"y"`
	DistanceFromCenter float64      `json:"distance_from_center" yaml:"distance_from_center"`
	IsLeftOfCenter     bool         `json:"is_left_of_center" yaml:"is_left_of_center"`
	IsReversed         bool         `json:"is_reversed" yaml:"is_reversed"`
	Heading            float64      `json:"heading" yaml:"heading"` // Degrees
	Progress           float64      `json:"progress" yaml:"progress"`
	Steps              int          `json:"steps" yaml:"steps"`
	Speed              float64      `json:"speed" yaml:"speed"`
	SteeringAngle      float64      `json:"steering_angle" yaml:"steering_angle"` // Degrees
	TrackWidth         float64      `json:"track_width" yaml:"track_width"`
	Waypoints          [][2]float64 `json:"waypoints,omitempty" yaml:"waypoints,omitempty"`
	ClosestWaypoints   [2]int       `json:"closest_waypoints" yaml:"closest_waypoints"`
}

// requiredKeys lists the snapshot keys every host step carries. Waypoints
// may be left out when the evaluator has a configured track.
var requiredKeys = []string{
	"all_wheels_on_track",
	"x",
	"y",
	"distance_from_center",
	"is_left_of_center",
	"is_reversed",
	"heading",
	"progress",
	"steps",
	"speed",
	"steering_angle",
	"track_width",
	"closest_waypoints",
}

// paramsFields has the layout of Params without its decoding methods.
type paramsFields Params

// UnmarshalJSON decodes a snapshot, rejecting it with ErrInvalidSnapshot
// when a required key is missing or null.
func (p *Params) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	err := checkKeys(func(key string) bool {
		v, ok := raw[key]
		return ok && !bytes.Equal(bytes.TrimSpace(v), []byte("null"))
	})
	if err != nil {
		return err
	}
	return json.Unmarshal(data, (*paramsFields)(p))
}

// UnmarshalYAML is the YAML counterpart of UnmarshalJSON.
func (p *Params) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.AliasNode {
		value = value.Alias
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: snapshot must be a mapping", ErrInvalidSnapshot)
	}
	present := make(map[string]bool, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		v := value.Content[i+1]
		present[value.Content[i].Value] = v.ShortTag() != "!!null"
	}
	if err := checkKeys(func(key string) bool { return present[key] }); err != nil {
		return err
	}
	return value.Decode((*paramsFields)(p))
}

func checkKeys(has func(key string) bool) error {
	var missing []string
	for _, key := range requiredKeys {
		if !has(key) {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidSnapshot, strings.Join(missing, ", "))
	}
	return nil
}
