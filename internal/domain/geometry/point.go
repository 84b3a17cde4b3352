// Package geometry provides the planar primitives used by ring construction.
package geometry

import (
	"fmt"
	"math"
)

// Tolerance is the distance under which two points are treated as equal.
const Tolerance = 5e-5

// Point is a 2-D coordinate in drawing units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point) String() string { return fmt.Sprintf("(%.4f, %.4f)", p.X, p.Y) }

// Add returns p + q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Scale returns p scaled by k.
func (p Point) Scale(k float64) Point { return Point{X: p.X * k, Y: p.Y * k} }

// Midpoint returns the point halfway between p and q.
func (p Point) Midpoint(q Point) Point {
	return Point{X: p.X + 0.5*(q.X-p.X), Y: p.Y + 0.5*(q.Y-p.Y)}
}

// Distance returns the euclidean distance between p and q.
func (p Point) Distance(q Point) float64 { return math.Hypot(p.X-q.X, p.Y-q.Y) }

// Near reports whether p and q are within Tolerance of each other.
func (p Point) Near(q Point) bool { return p.Distance(q) <= Tolerance }

// IsFinite reports whether neither coordinate is NaN or infinite.
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// Orientation returns the signed area of the triangle p1 p2 p3 (doubled).
// Positive is clockwise in screen coordinates, negative counter-clockwise.
func Orientation(p1, p2, p3 Point) float64 {
	return (p2.X-p1.X)*(p3.Y-p1.Y) - (p2.Y-p1.Y)*(p3.X-p1.X)
}

// Direction is the winding of a polygon or a turn.
type Direction int

const (
	Collinear Direction = iota
	CW
	CCW
)

func (d Direction) String() string {
	switch d {
	case CW:
		return "cw"
	case CCW:
		return "ccw"
	default:
		return "collinear"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// DirectionOf classifies an Orientation value.
func DirectionOf(v float64) Direction {
	switch {
	case v > 0:
		return CW
	case v < 0:
		return CCW
	default:
		return Collinear
	}
}

//Personal.AI order the ending
