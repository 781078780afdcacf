package geo

import "math"

// ClipToConvex clips the subject polygon to a convex clip polygon using
// the Sutherland-Hodgman algorithm. The clipper must be convex and wound
// CCW; the subject may be any simple polygon. Returns the intersection.
func ClipToConvex(subject, clipper Polygon) Polygon {
	if subject.IsEmpty() || clipper.IsEmpty() {
		return Polygon{}
	}
	clipper = clipper.EnsureCCW()

	output := make([]Point2D, len(subject.Vertices))
	copy(output, subject.Vertices)

	clipN := len(clipper.Vertices)
	for i := 0; i < clipN; i++ {
		if len(output) == 0 {
			return Polygon{}
		}
		edgeStart := clipper.Vertices[i]
		edgeEnd := clipper.Vertices[(i+1)%clipN]
		input := output
		output = make([]Point2D, 0, len(input))

		for j := 0; j < len(input); j++ {
			current := input[j]
			next := input[(j+1)%len(input)]
			curInside := isInsideEdge(current, edgeStart, edgeEnd)
			nextInside := isInsideEdge(next, edgeStart, edgeEnd)

			if curInside && nextInside {
				output = append(output, next)
			} else if curInside && !nextInside {
				if ix, ok := lineIntersection(current, next, edgeStart, edgeEnd); ok {
					output = append(output, ix)
				}
			} else if !curInside && nextInside {
				if ix, ok := lineIntersection(current, next, edgeStart, edgeEnd); ok {
					output = append(output, ix)
				}
				output = append(output, next)
			}
		}
	}
	if len(output) < 3 {
		return Polygon{}
	}
	return Polygon{Vertices: output}
}

// ClipToRect clips the subject polygon to an axis-aligned rectangle given
// by opposite corners. Used by grid subdivision, where every cell is a
// convex clipper.
func ClipToRect(subject Polygon, min, max Point2D) Polygon {
	if max.X-min.X < 1e-9 || max.Y-min.Y < 1e-9 {
		return Polygon{}
	}
	return ClipToConvex(subject, Rect(min, max))
}

// isInsideEdge returns true if the point is on the inside (left) of the
// directed edge from edgeStart to edgeEnd.
func isInsideEdge(p, edgeStart, edgeEnd Point2D) bool {
	return (edgeEnd.X-edgeStart.X)*(p.Y-edgeStart.Y)-
		(edgeEnd.Y-edgeStart.Y)*(p.X-edgeStart.X) >= 0
}

// lineIntersection returns the intersection point of lines (p1→p2) and (p3→p4).
func lineIntersection(p1, p2, p3, p4 Point2D) (Point2D, bool) {
	d := (p1.X-p2.X)*(p3.Y-p4.Y) - (p1.Y-p2.Y)*(p3.X-p4.X)
	if math.Abs(d) < 1e-12 {
		return Point2D{}, false
	}
	t := ((p1.X-p3.X)*(p3.Y-p4.Y) - (p1.Y-p3.Y)*(p3.X-p4.X)) / d
	return Point2D{
		X: p1.X + t*(p2.X-p1.X),
		Y: p1.Y + t*(p2.Y-p1.Y),
	}, true
}
