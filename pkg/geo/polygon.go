package geo

import "math"

// Polygon is a closed polygon defined by its vertices in order.
// The closing edge from the last vertex back to the first is implicit.
type Polygon struct {
	Vertices []Point2D `json:"vertices"`
}

// NewPolygon creates a polygon from a list of vertices.
func NewPolygon(pts ...Point2D) Polygon {
	return Polygon{Vertices: pts}
}

// Rect creates an axis-aligned rectangle from opposite corners.
// Vertices are in CCW order.
func Rect(min, max Point2D) Polygon {
	return NewPolygon(min, Pt(max.X, min.Y), max, Pt(min.X, max.Y))
}

// Len returns the number of vertices.
func (p Polygon) Len() int {
	return len(p.Vertices)
}

// IsEmpty returns true if the polygon has fewer than 3 vertices.
func (p Polygon) IsEmpty() bool {
	return len(p.Vertices) < 3
}

// Edge returns the i-th edge as (start, end). Wraps around.
func (p Polygon) Edge(i int) (Point2D, Point2D) {
	n := len(p.Vertices)
	return p.Vertices[i%n], p.Vertices[(i+1)%n]
}

// SignedArea returns the signed area using the shoelace formula.
// Positive for counterclockwise winding, negative for clockwise.
func (p Polygon) SignedArea() float64 {
	n := len(p.Vertices)
	if n < 3 {
		return 0
	}
	area := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += p.Vertices[i].X * p.Vertices[j].Y
		area -= p.Vertices[j].X * p.Vertices[i].Y
	}
	return area / 2
}

// Area returns the unsigned area of the polygon.
func (p Polygon) Area() float64 {
	return math.Abs(p.SignedArea())
}

// IsCounterClockwise returns true if vertices are in CCW order.
func (p Polygon) IsCounterClockwise() bool {
	return p.SignedArea() > 0
}

// EnsureCCW returns the polygon with vertices in counterclockwise order.
func (p Polygon) EnsureCCW() Polygon {
	if p.SignedArea() < 0 {
		return p.Reverse()
	}
	return p
}

// Reverse returns the polygon with reversed vertex order.
func (p Polygon) Reverse() Polygon {
	n := len(p.Vertices)
	rev := make([]Point2D, n)
	for i, v := range p.Vertices {
		rev[n-1-i] = v
	}
	return Polygon{Vertices: rev}
}

// Clone returns a deep copy of the polygon.
func (p Polygon) Clone() Polygon {
	pts := make([]Point2D, len(p.Vertices))
	copy(pts, p.Vertices)
	return Polygon{Vertices: pts}
}

// Centroid returns the area-weighted centroid of the polygon.
func (p Polygon) Centroid() Point2D {
	n := len(p.Vertices)
	if n == 0 {
		return Point2D{}
	}
	a := p.SignedArea()
	if n < 3 || math.Abs(a) < 1e-12 {
		// Degenerate: return vertex average.
		sum := Point2D{}
		for _, v := range p.Vertices {
			sum = sum.Add(v)
		}
		return sum.Scale(1.0 / float64(n))
	}
	cx, cy := 0.0, 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		cross := p.Vertices[i].X*p.Vertices[j].Y - p.Vertices[j].X*p.Vertices[i].Y
		cx += (p.Vertices[i].X + p.Vertices[j].X) * cross
		cy += (p.Vertices[i].Y + p.Vertices[j].Y) * cross
	}
	f := 1.0 / (6.0 * a)
	return Point2D{cx * f, cy * f}
}

// BoundingBox returns the axis-aligned bounding box as (min, max).
func (p Polygon) BoundingBox() (Point2D, Point2D) {
	if len(p.Vertices) == 0 {
		return Point2D{}, Point2D{}
	}
	minP := p.Vertices[0]
	maxP := p.Vertices[0]
	for _, v := range p.Vertices[1:] {
		if v.X < minP.X {
			minP.X = v.X
		}
		if v.Y < minP.Y {
			minP.Y = v.Y
		}
		if v.X > maxP.X {
			maxP.X = v.X
		}
		if v.Y > maxP.Y {
			maxP.Y = v.Y
		}
	}
	return minP, maxP
}

// Contains returns true if the point is inside the polygon using ray casting.
func (p Polygon) Contains(pt Point2D) bool {
	n := len(p.Vertices)
	if n < 3 {
		return false
	}
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		vi := p.Vertices[i]
		vj := p.Vertices[j]
		if (vi.Y > pt.Y) != (vj.Y > pt.Y) &&
			pt.X < (vj.X-vi.X)*(pt.Y-vi.Y)/(vj.Y-vi.Y)+vi.X {
			inside = !inside
		}
		j = i
	}
	return inside
}

// Perimeter returns the total perimeter length.
func (p Polygon) Perimeter() float64 {
	n := len(p.Vertices)
	if n < 2 {
		return 0
	}
	total := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		total += p.Vertices[i].Distance(p.Vertices[j])
	}
	return total
}

// Translate returns the polygon shifted by d.
func (p Polygon) Translate(d Point2D) Polygon {
	pts := make([]Point2D, len(p.Vertices))
	for i, v := range p.Vertices {
		pts[i] = v.Add(d)
	}
	return Polygon{Vertices: pts}
}

// ScaleAbout returns the polygon uniformly scaled by factor s about center.
// Aspect ratio is preserved; only distances from center change.
func (p Polygon) ScaleAbout(center Point2D, s float64) Polygon {
	pts := make([]Point2D, len(p.Vertices))
	for i, v := range p.Vertices {
		pts[i] = center.Add(v.Sub(center).Scale(s))
	}
	return Polygon{Vertices: pts}
}

// IsSimple returns true if no two non-adjacent edges intersect and no edge
// is degenerate. Adjacent edges sharing a vertex are allowed.
func (p Polygon) IsSimple() bool {
	n := len(p.Vertices)
	if n < 3 {
		return false
	}
	for i := 0; i < n; i++ {
		a1, a2 := p.Edge(i)
		if a1.Distance(a2) < 1e-9 {
			return false
		}
		for j := i + 1; j < n; j++ {
			// Skip adjacent edges (they share a vertex by construction).
			if j == i || (j+1)%n == i || (i+1)%n == j {
				continue
			}
			b1, b2 := p.Edge(j)
			if segmentsIntersect(a1, a2, b1, b2) {
				return false
			}
		}
	}
	return true
}

// segmentsIntersect returns true if segments a1-a2 and b1-b2 properly
// intersect (cross at an interior point of both).
func segmentsIntersect(a1, a2, b1, b2 Point2D) bool {
	d1 := b2.Sub(b1).Cross(a1.Sub(b1))
	d2 := b2.Sub(b1).Cross(a2.Sub(b1))
	d3 := a2.Sub(a1).Cross(b1.Sub(a1))
	d4 := a2.Sub(a1).Cross(b2.Sub(a1))
	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}
