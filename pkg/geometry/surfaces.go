package geometry

import "github.com/buildsim/buildgen/pkg/geo"

// BuildSurfaces derives the floor, ceiling, and wall surfaces of a zone
// extruded through one story height, with winding corrected so every
// computed normal points out of the zone. Pure function; the result is
// immutable.
func BuildSurfaces(zone Zone, storyHeight float64) []Surface {
	poly := zone.Polygon.EnsureCCW()
	n := poly.Len()
	z0 := float64(zone.Story) * storyHeight
	z1 := z0 + storyHeight
	centroid := poly.Centroid()

	surfaces := make([]Surface, 0, n+2)

	floor := make([]geo.Vec3, n)
	ceiling := make([]geo.Vec3, n)
	for i, v := range poly.Vertices {
		floor[i] = geo.V3(v.X, v.Y, z0)
		ceiling[i] = geo.V3(v.X, v.Y, z1)
	}
	surfaces = append(surfaces,
		fixOrientation(Surface{ZoneID: zone.ID, Kind: SurfaceFloor, Vertices: floor}, centroid),
		fixOrientation(Surface{ZoneID: zone.ID, Kind: SurfaceCeiling, Vertices: ceiling}, centroid),
	)

	for i := 0; i < n; i++ {
		a, b := poly.Edge(i)
		wall := Surface{
			ZoneID: zone.ID,
			Kind:   SurfaceWall,
			Vertices: []geo.Vec3{
				geo.V3(a.X, a.Y, z0),
				geo.V3(b.X, b.Y, z0),
				geo.V3(b.X, b.Y, z1),
				geo.V3(a.X, a.Y, z1),
			},
		}
		surfaces = append(surfaces, fixOrientation(wall, centroid))
	}

	return surfaces
}

// fixOrientation corrects vertex winding so the surface normal is
// physically outward: floors down, ceilings up, walls away from the zone
// centroid. Volume integration via the divergence theorem needs outward
// normals; an inward floor normal silently yields a non-positive volume
// downstream.
func fixOrientation(s Surface, zoneCentroid geo.Point2D) Surface {
	normal := NewellNormal(s.Vertices)

	flip := false
	switch s.Kind {
	case SurfaceFloor:
		flip = normal.Z > 0
	case SurfaceCeiling:
		flip = normal.Z < 0
	case SurfaceWall:
		mid := surfaceMidpoint(s.Vertices)
		out := geo.Pt(mid.X, mid.Y).Sub(zoneCentroid)
		flip = geo.Pt(normal.X, normal.Y).Dot(out) < 0
	}

	if flip {
		s.Vertices = reverseVertices(s.Vertices)
		normal = normal.Scale(-1)
	}
	s.Normal = normal
	s.Area = surfaceArea(s.Vertices)
	return s
}

// NewellNormal returns the unit normal of a planar polygon in 3D derived
// from vertex order (Newell's method).
func NewellNormal(verts []geo.Vec3) geo.Vec3 {
	var n geo.Vec3
	for i := range verts {
		c := verts[i]
		nx := verts[(i+1)%len(verts)]
		n.X += (c.Y - nx.Y) * (c.Z + nx.Z)
		n.Y += (c.Z - nx.Z) * (c.X + nx.X)
		n.Z += (c.X - nx.X) * (c.Y + nx.Y)
	}
	return n.Normalize()
}

// surfaceArea returns the area of a planar 3D polygon via the cross
// product fan.
func surfaceArea(verts []geo.Vec3) float64 {
	if len(verts) < 3 {
		return 0
	}
	var sum geo.Vec3
	for i := 1; i < len(verts)-1; i++ {
		sum = sum.Add(verts[i].Sub(verts[0]).Cross(verts[i+1].Sub(verts[0])))
	}
	return sum.Length() / 2
}

func surfaceMidpoint(verts []geo.Vec3) geo.Vec3 {
	var sum geo.Vec3
	for _, v := range verts {
		sum = sum.Add(v)
	}
	return sum.Scale(1 / float64(len(verts)))
}

func reverseVertices(verts []geo.Vec3) []geo.Vec3 {
	rev := make([]geo.Vec3, len(verts))
	for i, v := range verts {
		rev[len(verts)-1-i] = v
	}
	return rev
}
