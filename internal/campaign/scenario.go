// Package campaign replays scripted campaign turns against a theater of bases.
package campaign

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/skybreak/forcepool/internal/geo"
	"github.com/skybreak/forcepool/pkg/core"
)

// ErrEmptyScenario is returned for scenarios without control points.
var ErrEmptyScenario = errors.New("scenario has no control points")

// Scenario is a scripted campaign: the control points and the commands issued
// against them, in order.
//
//	seed: 42
//	controlPoints:
//	  - name: Batumi
//	    importance: 1.5
//	    latitude: 41.61
//	    longitude: 41.60
//	commands:
//	  - command: commission
//	    target: Batumi
//	    args:
//	      units: {A-10C: 4}
type Scenario struct {
	Seed          *uint64             `yaml:"seed"`
	ControlPoints []core.ControlPoint `yaml:"controlPoints"`
	Commands      []Command           `yaml:"commands"`
}

// Command is one scripted driver command.
type Command struct {
	Command string         `yaml:"command"`
	Target  string         `yaml:"target"`
	Args    map[string]any `yaml:"args"`
}

// DecodeScenario reads a YAML scenario from r and projects control points
// given by latitude and longitude onto the map.
func DecodeScenario(r io.Reader) (*Scenario, error) {
	var s Scenario
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decoding scenario: %w", err)
	}
	if len(s.ControlPoints) == 0 {
		return nil, ErrEmptyScenario
	}

	for i := range s.ControlPoints {
		cp := &s.ControlPoints[i]
		if cp.Latitude == 0 && cp.Longitude == 0 {
			continue
		}
		pos, err := geo.PositionFrom4326(cp.Longitude, cp.Latitude)
		if err != nil {
			return nil, fmt.Errorf("control point %s: %w", cp.Name, err)
		}
		pos.Z = cp.Position.Z
		cp.Position = pos
	}
	return &s, nil
}

// LoadScenario reads a YAML scenario from path.
func LoadScenario(path string) (*Scenario, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening scenario: %w", err)
	}
	defer fh.Close()

	s, err := DecodeScenario(fh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}
