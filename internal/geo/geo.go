package geo

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/wroge/wgs84"

	"github.com/skybreak/forcepool/pkg/core"
)

// Map positions are kept in EPSG:3857 metres; control points may be placed by
// WGS84 latitude/longitude and are projected on load.

// ErrInvalidCoordinates is returned when the coordinates are invalid
var ErrInvalidCoordinates = errors.New("invalid coordinates provided")

// Position3DFromString parses a "x,y" or "x,y,elev" string into a core.Position3D.
func Position3DFromString(coords string) (core.Position3D, error) {
	parts := strings.Split(coords, ",")
	if len(parts) < 2 {
		return core.Position3D{}, ErrInvalidCoordinates
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return core.Position3D{}, ErrInvalidCoordinates
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return core.Position3D{}, ErrInvalidCoordinates
	}
	var elev float64
	if len(parts) > 2 {
		elev, err = strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
		if err != nil {
			return core.Position3D{}, ErrInvalidCoordinates
		}
	}
	return core.Position3D{X: x, Y: y, Z: elev}, nil
}

// PositionFrom4326 projects a WGS84 longitude/latitude to EPSG:3857.
func PositionFrom4326(longitude, latitude float64) (core.Position3D, error) {
	if math.Abs(latitude) > 90 || math.Abs(longitude) > 180 {
		return core.Position3D{}, ErrInvalidCoordinates
	}
	epsg := wgs84.EPSG()
	f := epsg.Transform(4326, 3857)
	x, y, _ := f(longitude, latitude, 0)
	return core.Position3D{X: x, Y: y}, nil
}

// Point converts a position to a simplefeatures XYZ point. Non-finite X or Y
// fail validation.
func Point(p core.Position3D) (geom.Point, error) {
	point, err := geom.NewPoint(
		geom.Coordinates{
			XY:   geom.XY{X: p.X, Y: p.Y},
			Z:    p.Z,
			Type: geom.DimXYZ,
		},
	)
	if err != nil {
		return geom.Point{}, fmt.Errorf("%w: %v", ErrInvalidCoordinates, err)
	}
	return point, nil
}

// Offset returns p moved by dx metres east and dy metres north.
func Offset(p core.Position3D, dx, dy float64) core.Position3D {
	return core.Position3D{X: p.X + dx, Y: p.Y + dy, Z: p.Z}
}

// Footprint collects unit positions into a single geometry.
func Footprint(positions []core.Position3D) (geom.MultiPoint, error) {
	pts := make([]geom.Point, 0, len(positions))
	for _, p := range positions {
		pt, err := Point(p)
		if err != nil {
			return geom.MultiPoint{}, err
		}
		pts = append(pts, pt)
	}
	return geom.NewMultiPoint(pts), nil
}
