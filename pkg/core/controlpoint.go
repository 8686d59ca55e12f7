// pkg/core/controlpoint.go
package core

// Position3D represents a 3D map coordinate
type Position3D struct {
	X float64 `json:"x" yaml:"x"` // easting
	Y float64 `json:"y" yaml:"y"` // northing
	Z float64 `json:"z" yaml:"z"` // elevation ASL
}

// ControlPoint is a map location whose importance drives required force sizes.
type ControlPoint struct {
	Name       string     `json:"name" yaml:"name"`
	Importance float64    `json:"importance" yaml:"importance"`
	Position   Position3D `json:"position" yaml:"position"`
	Latitude   float64    `json:"latitude" yaml:"latitude"`
	Longitude  float64    `json:"longitude" yaml:"longitude"`
}
