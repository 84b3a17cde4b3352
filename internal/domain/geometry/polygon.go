package geometry

import (
	"math"

	"github.com/turtacn/molsdg/pkg/errors"
)

// Polygon is a regular polygon: its vertices in walk order and its centre.
type Polygon struct {
	Vertices []Point
	Center   Point
	Radius   float64
}

// RegularPolygon builds an n-gon whose first edge runs from a to b. The
// centre lies on the side of AB given by the perpendicular ((A.y-C.y)/k,
// (C.x-A.x)/k), C being the midpoint of AB and k half its length. Vertices
// start at a and advance by 2π/n around the centre.
func RegularPolygon(n int, a, b Point) (Polygon, error) {
	if n < 3 {
		return Polygon{}, errors.New(errors.ErrCodeDegenerateGeometry, "polygon needs at least 3 vertices")
	}
	l := a.Distance(b)
	if l == 0 || math.IsNaN(l) {
		return Polygon{}, errors.New(errors.ErrCodeDegenerateGeometry, "zero-length anchor edge")
	}

	phi := 2 * math.Pi / float64(n)
	r := l / (2 * math.Sin(phi/2))
	c := a.Midpoint(b)
	z := math.Sqrt(r*r - 0.25*l*l)
	k := l / 2
	u := Point{X: (a.Y - c.Y) / k, Y: (c.X - a.X) / k}
	o := c.Add(u.Scale(z))

	theta := math.Atan2(a.Y-o.Y, a.X-o.X)
	vertices := make([]Point, n)
	for i := range vertices {
		vertices[i] = Point{X: o.X + math.Cos(theta)*r, Y: o.Y + math.Sin(theta)*r}
		theta += phi
	}

	p := Polygon{Vertices: vertices, Center: o, Radius: r}
	if !o.IsFinite() {
		return Polygon{}, errors.New(errors.ErrCodeDegenerateGeometry, "non-finite polygon centre")
	}
	for _, v := range vertices {
		if !v.IsFinite() {
			return Polygon{}, errors.New(errors.ErrCodeDegenerateGeometry, "non-finite polygon vertex")
		}
	}
	return p, nil
}

// CoreAnchors returns the anchor edge used for a free-standing n-gon: A at
// the origin and B one bond length up for even n or to the right for odd n.
func CoreAnchors(n int, bondLength float64) (Point, Point) {
	a := Point{}
	if n%2 == 0 {
		return a, Point{X: a.X, Y: a.Y + bondLength}
	}
	return a, Point{X: a.X + bondLength, Y: a.Y}
}

//Personal.AI order the ending
